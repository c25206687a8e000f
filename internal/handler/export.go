package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// csvHeaders defines the column names written as the first row of the
// rooming list CSV.
var csvHeaders = []string{"night", "date", "room", "room_type", "capacity", "traveler"}

// GetRoomingList handles GET /tours/{tourId}/rooming-list.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetRoomingList(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		s.paramError(w, r, err)
		return
	}

	rows, err := s.export.RoomingList(r.Context(), tourID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, tourID, rows)
		return
	}
	out := make([]RoomingRow, len(rows))
	for i, row := range rows {
		out[i] = RoomingRow(row)
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes the rows with a header line. Empty rooms keep a blank
// traveler column.
func writeCSV(w http.ResponseWriter, tourID openapi_types.UUID, rows []domain.RoomingRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// bytes.Buffer writes never fail; cw.Error() is checked after Flush.
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write(roomingRowToCSVRecord(row))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="rooming-list-`+tourID.String()+`.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func roomingRowToCSVRecord(r domain.RoomingRow) []string {
	return []string{
		strconv.Itoa(r.Night),
		r.Date,
		r.Room,
		r.RoomType,
		strconv.Itoa(r.Capacity),
		r.Traveler,
	}
}
