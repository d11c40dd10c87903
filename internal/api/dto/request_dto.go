package dto

import (
	"time"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
)

// CreateRequestRequest payload for submitting a request.
type CreateRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Department  string `json:"department"`
}

// UpdateStatusRequest payload for a status transition.
type UpdateStatusRequest struct {
	Status domain.RequestStatus `json:"status"`
}

// RequestResponse is the full view of a request.
type RequestResponse struct {
	ID          string               `json:"id"`
	Username    string               `json:"username"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Department  string               `json:"department"`
	Status      domain.RequestStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// NewRequestResponse maps a domain request.
func NewRequestResponse(request *domain.Request) RequestResponse {
	return RequestResponse{
		ID:          request.ID,
		Username:    request.Username,
		Title:       request.Title,
		Description: request.Description,
		Department:  request.Department,
		Status:      request.Status,
		CreatedAt:   request.CreatedAt,
	}
}

// NewRequestResponses maps a request list.
func NewRequestResponses(requests []domain.Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, NewRequestResponse(&requests[i]))
	}
	return out
}
