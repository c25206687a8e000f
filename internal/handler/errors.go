package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/repo"
)

// ErrorDetail is the machine-readable code and human message of a failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// conflicts maps the business-rule sentinels that answer 409 to their codes.
var conflicts = []struct {
	err  error
	code string
}{
	{domain.ErrContainerFull, "container_full"},
	{domain.ErrAlreadyAssigned, "already_assigned"},
	{domain.ErrContinuationSourceMissing, "continuation_source_missing"},
	{domain.ErrConfirmationRequired, "confirmation_required"},
	{repo.ErrRosterContention, "roster_conflict"},
}

// writeError maps err onto a status and error body. Anything not recognised
// is logged and answered with a generic 500 so store details never leak.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", unwrapMessage(err, domain.ErrNotFound)))
		return
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", unwrapMessage(err, domain.ErrValidation)))
		return
	}
	for _, c := range conflicts {
		if errors.Is(err, c.err) {
			writeJSON(w, http.StatusConflict, errorBody(c.code, unwrapMessage(err, c.err)))
			return
		}
	}
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
}

// paramError answers a request whose path or query parameters could not be
// bound. Parameters that parse but name no valid scope are validation errors.
func (s *Server) paramError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrValidation) {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
}

// requestBody answers a missing or malformed JSON body.
func requestBody(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// unwrapMessage extracts the human-readable part that follows a wrapped
// sentinel, e.g.
// "service.TourService.Create: validation error: name is required" -> "name is required".
// When nothing follows the sentinel its own text is returned.
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody reads a JSON request body into dst. Unknown fields are
// rejected so typos in field names surface as errors. On failure the error
// response is already written and false is returned.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		requestBody(w, "request body is required")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("body_too_large", err.Error()))
			return false
		}
		requestBody(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}
