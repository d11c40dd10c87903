package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
	"github.com/Katsud0n0/city-nexus-connect/internal/persistence"
)

const requestsSheet = "city_nexus_requests.csv"

var requestsHeader = []string{"id", "username", "title", "description", "department", "status", "createdAt"}

type requestWorkbookRepository struct {
	wb *persistence.Workbook
}

// NewRequestWorkbookRepository returns a workbook-backed implementation. The
// requests sheet is initialized empty when missing.
func NewRequestWorkbookRepository(wb *persistence.Workbook) (RequestRepository, error) {
	if err := wb.EnsureSheet(requestsSheet, requestsHeader); err != nil {
		return nil, err
	}
	return &requestWorkbookRepository{wb: wb}, nil
}

func (r *requestWorkbookRepository) Create(_ context.Context, request *domain.Request) error {
	return r.wb.UpdateSheet(requestsSheet, requestsHeader, func(rows [][]string) ([][]string, error) {
		return append(rows, encodeRequest(request)), nil
	})
}

func (r *requestWorkbookRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	requests, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].ID == id {
			return &requests[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *requestWorkbookRepository) List(_ context.Context) ([]domain.Request, error) {
	rows, err := r.wb.LoadSheet(requestsSheet)
	if err != nil {
		return nil, err
	}
	return decodeRequests(rows)
}

func (r *requestWorkbookRepository) ListByUser(ctx context.Context, username string) ([]domain.Request, error) {
	requests, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Request, 0, len(requests))
	for _, request := range requests {
		if request.Username == username {
			matched = append(matched, request)
		}
	}
	return matched, nil
}

func (r *requestWorkbookRepository) UpdateStatus(_ context.Context, id string, status domain.RequestStatus) error {
	return r.wb.UpdateSheet(requestsSheet, requestsHeader, func(rows [][]string) ([][]string, error) {
		requests, err := decodeRequests(rows)
		if err != nil {
			return nil, err
		}
		for i := range requests {
			if requests[i].ID == id {
				requests[i].Status = status
				return encodeRequests(requests), nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *requestWorkbookRepository) Delete(_ context.Context, id string) error {
	return r.wb.UpdateSheet(requestsSheet, requestsHeader, func(rows [][]string) ([][]string, error) {
		requests, err := decodeRequests(rows)
		if err != nil {
			return nil, err
		}
		kept := requests[:0]
		for _, request := range requests {
			if request.ID != id {
				kept = append(kept, request)
			}
		}
		if len(kept) == len(rows) {
			return nil, ErrNotFound
		}
		return encodeRequests(kept), nil
	})
}

func (r *requestWorkbookRepository) CountsByStatus(ctx context.Context) (domain.StatusCounts, error) {
	requests, err := r.List(ctx)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	return tallyStatuses(requests), nil
}

func (r *requestWorkbookRepository) CountsByDepartment(ctx context.Context) ([]domain.DepartmentCount, error) {
	requests, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	volume := make(map[string]int, len(requests))
	for _, request := range requests {
		volume[request.Department]++
	}
	return departmentCounts(volume), nil
}

// tallyStatuses is a single pass over all requests.
func tallyStatuses(requests []domain.Request) domain.StatusCounts {
	counts := domain.StatusCounts{Total: len(requests)}
	for _, request := range requests {
		switch request.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusInProgress:
			counts.InProgress++
		case domain.StatusCompleted:
			counts.Completed++
		}
	}
	return counts
}

// departmentCounts always returns all ten departments, zero-filled, in
// enumeration order.
func departmentCounts(volume map[string]int) []domain.DepartmentCount {
	stats := make([]domain.DepartmentCount, 0, len(domain.Departments))
	for _, department := range domain.Departments {
		stats = append(stats, domain.DepartmentCount{
			Department: department,
			Count:      volume[department],
		})
	}
	return stats
}

func encodeRequest(request *domain.Request) []string {
	return []string{
		request.ID,
		request.Username,
		request.Title,
		request.Description,
		request.Department,
		string(request.Status),
		request.CreatedAt.Format(time.RFC3339Nano),
	}
}

func encodeRequests(requests []domain.Request) [][]string {
	rows := make([][]string, 0, len(requests))
	for i := range requests {
		rows = append(rows, encodeRequest(&requests[i]))
	}
	return rows
}

func decodeRequests(rows [][]string) ([]domain.Request, error) {
	requests := make([]domain.Request, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(requestsHeader) {
			return nil, fmt.Errorf("requests sheet: malformed row with %d fields", len(row))
		}
		createdAt, err := time.Parse(time.RFC3339Nano, row[6])
		if err != nil {
			return nil, fmt.Errorf("requests sheet: bad createdAt %q: %w", row[6], err)
		}
		requests = append(requests, domain.Request{
			ID:          row[0],
			Username:    row[1],
			Title:       row[2],
			Description: row[3],
			Department:  row[4],
			Status:      domain.RequestStatus(row[5]),
			CreatedAt:   createdAt,
		})
	}
	return requests, nil
}
