package domain

import "time"

// RequestStatus enumerates lifecycle states for interdepartmental requests.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusInProgress RequestStatus = "in-progress"
	StatusCompleted  RequestStatus = "completed"
)

// Valid reports whether the status is one of the known lifecycle values.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Request is a citizen-facing service request submitted to a department.
// Username and Department are free-form references: they are not validated
// against existing users or the department enumeration, so dangling
// references are legal.
type Request struct {
	ID          string
	Username    string
	Title       string
	Description string
	Department  string
	Status      RequestStatus
	CreatedAt   time.Time
}

// StatusCounts is a single-pass tally of all requests by lifecycle state.
type StatusCounts struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
}

// DepartmentCount pairs one department name with its request volume.
type DepartmentCount struct {
	Department string
	Count      int
}
