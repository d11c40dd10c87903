package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
	"github.com/Katsud0n0/city-nexus-connect/internal/events"
	"github.com/Katsud0n0/city-nexus-connect/internal/repository"
	apperrors "github.com/Katsud0n0/city-nexus-connect/pkg/util"
)

// RequestService coordinates the request lifecycle.
type RequestService struct {
	requests   repository.RequestRepository
	dispatcher events.Dispatcher
}

// RequestCreateInput describes a request submission.
type RequestCreateInput struct {
	Username    string
	Title       string
	Description string
	Department  string
}

// RequestListFilter narrows the request listing the way the requests page
// does: an optional status plus a free-text search matched against title,
// description and department, case-insensitively.
type RequestListFilter struct {
	Status *domain.RequestStatus
	Search string
}

// NewRequestService constructs the service.
func NewRequestService(requests repository.RequestRepository, dispatcher events.Dispatcher) *RequestService {
	return &RequestService{requests: requests, dispatcher: dispatcher}
}

// Create submits a new request. The id, status and creation timestamp are
// assigned server-side regardless of caller input: status always starts at
// pending.
func (s *RequestService) Create(ctx context.Context, input RequestCreateInput) (*domain.Request, error) {
	request := &domain.Request{
		ID:          uuid.NewString(),
		Username:    input.Username,
		Title:       input.Title,
		Description: input.Description,
		Department:  input.Department,
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventRequestCreated, request, events.RequestCreatedPayload{
		Department: request.Department,
		Title:      request.Title,
	})
	return request, nil
}

// List returns all requests matching the filter, in insertion order.
func (s *RequestService) List(ctx context.Context, filter RequestListFilter) ([]domain.Request, error) {
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if filter.Status == nil && filter.Search == "" {
		return requests, nil
	}

	search := strings.ToLower(filter.Search)
	matched := make([]domain.Request, 0, len(requests))
	for _, request := range requests {
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		if search != "" && !matchesSearch(request, search) {
			continue
		}
		matched = append(matched, request)
	}
	return matched, nil
}

// ListByUser returns the user's request history, in insertion order.
func (s *RequestService) ListByUser(ctx context.Context, username string) ([]domain.Request, error) {
	requests, err := s.requests.ListByUser(ctx, username)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return requests, nil
}

// GetByID fetches a single request.
func (s *RequestService) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("request", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return request, nil
}

// UpdateStatus transitions a request to the given status. Any status may
// transition to any other; only the status field of the target record
// changes.
func (s *RequestService) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) (*domain.Request, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}

	request, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := request.Status

	if err := s.requests.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("request", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	request.Status = status

	s.publish(ctx, events.EventRequestStatusChanged, request, events.RequestStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: status,
	})
	return request, nil
}

// Delete removes a request unconditionally. Ownership is not checked here:
// authorization stays a caller-side concern.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	request, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("request", map[string]any{"id": id})
		}
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventRequestDeleted, request, events.RequestDeletedPayload{
		Department: request.Department,
	})
	return nil
}

func (s *RequestService) publish(ctx context.Context, eventType events.EventType, request *domain.Request, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RequestID: request.ID,
		Username:  request.Username,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func matchesSearch(request domain.Request, search string) bool {
	return strings.Contains(strings.ToLower(request.Title), search) ||
		strings.Contains(strings.ToLower(request.Description), search) ||
		strings.Contains(strings.ToLower(request.Department), search)
}
