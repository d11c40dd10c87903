package dto

import "github.com/Katsud0n0/city-nexus-connect/internal/domain"

// StatusCountsResponse mirrors the dashboard tally.
type StatusCountsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// DepartmentStatResponse pairs a department with its request volume.
type DepartmentStatResponse struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// DashboardResponse bundles everything the dashboard page renders.
type DashboardResponse struct {
	Counts      StatusCountsResponse     `json:"counts"`
	Departments []DepartmentStatResponse `json:"departments"`
}

// NewStatusCountsResponse maps the domain tally.
func NewStatusCountsResponse(counts domain.StatusCounts) StatusCountsResponse {
	return StatusCountsResponse{
		Total:      counts.Total,
		Pending:    counts.Pending,
		InProgress: counts.InProgress,
		Completed:  counts.Completed,
	}
}

// NewDepartmentStatResponses maps the fixed, ordered department counts.
func NewDepartmentStatResponses(counts []domain.DepartmentCount) []DepartmentStatResponse {
	out := make([]DepartmentStatResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, DepartmentStatResponse{Department: c.Department, Count: c.Count})
	}
	return out
}
