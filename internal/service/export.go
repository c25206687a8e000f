package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/allocation"
	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/repo"
)

// ExportService assembles the flat rooming list of a tour.
type ExportService struct {
	tours       repo.TourRepo
	travelers   repo.TravelerRepo
	containers  repo.ContainerRepo
	assignments repo.AssignmentRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(tours repo.TourRepo, travelers repo.TravelerRepo, containers repo.ContainerRepo, assignments repo.AssignmentRepo) *ExportService {
	return &ExportService{tours: tours, travelers: travelers, containers: containers, assignments: assignments}
}

// RoomingList returns one row per occupied bed and one per empty room, night
// by night, rooms in display order and occupants in assignment order. Rooms
// left behind on nights beyond the tour's current length are skipped.
func (s *ExportService) RoomingList(ctx context.Context, tourID uuid.UUID) ([]domain.RoomingRow, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.RoomingList: %w", err)
	}
	rooms, err := s.containers.ListByTour(ctx, tourID, domain.KindRoom)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.RoomingList: %w", err)
	}
	held, err := s.assignments.ListByTour(ctx, tourID, domain.KindRoom)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.RoomingList: %w", err)
	}
	_, names, err := travelerNames(ctx, s.travelers, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.RoomingList: %w", err)
	}

	byNight := make(map[int][]domain.Container)
	for _, c := range rooms {
		byNight[c.Night] = append(byNight[c.Night], c)
	}
	occupants := make(map[uuid.UUID][]string)
	for _, a := range held {
		occupants[a.ContainerID] = append(occupants[a.ContainerID], names[a.TravelerID])
	}

	rows := []domain.RoomingRow{}
	for night := 1; night <= tour.Nights(); night++ {
		numbers := allocation.Number(byNight[night])
		date := tour.NightDate(night).Format("2006-01-02")
		for _, c := range allocation.SortByDisplayOrder(byNight[night]) {
			base := domain.RoomingRow{
				Night:    night,
				Date:     date,
				Room:     numbers[c.ID].Label,
				RoomType: domain.TypeName(domain.KindRoom, c.Type),
				Capacity: c.Capacity,
			}
			if len(occupants[c.ID]) == 0 {
				rows = append(rows, base)
				continue
			}
			for _, name := range occupants[c.ID] {
				row := base
				row.Traveler = name
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}
