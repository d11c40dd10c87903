package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
)

func newRequestRepo(t *testing.T) RequestRepository {
	t.Helper()
	repo, err := NewRequestWorkbookRepository(newTestWorkbook(t))
	require.NoError(t, err)
	return repo
}

func seedRequest(t *testing.T, repo RequestRepository, id, username, department string, status domain.RequestStatus) domain.Request {
	t.Helper()
	request := domain.Request{
		ID:          id,
		Username:    username,
		Title:       "Title " + id,
		Description: "Description " + id,
		Department:  department,
		Status:      status,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.Create(context.Background(), &request))
	return request
}

func TestRequestCreateRoundTrip(t *testing.T) {
	repo := newRequestRepo(t)
	ctx := context.Background()

	stored := seedRequest(t, repo, "r1", "alice", "Public Works", domain.StatusPending)

	requests, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.Request{stored}, requests)
}

func TestRequestListPreservesInsertionOrder(t *testing.T) {
	repo := newRequestRepo(t)
	ctx := context.Background()

	first := seedRequest(t, repo, "r1", "alice", "Health", domain.StatusPending)
	second := seedRequest(t, repo, "r2", "bob", "Finance", domain.StatusPending)
	third := seedRequest(t, repo, "r3", "alice", "Health", domain.StatusPending)

	requests, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.Request{first, second, third}, requests)

	mine, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []domain.Request{first, third}, mine)
}

func TestRequestUpdateStatusChangesOnlyTarget(t *testing.T) {
	repo := newRequestRepo(t)
	ctx := context.Background()

	target := seedRequest(t, repo, "r1", "alice", "Health", domain.StatusPending)
	other := seedRequest(t, repo, "r2", "bob", "Finance", domain.StatusPending)

	require.NoError(t, repo.UpdateStatus(ctx, target.ID, domain.StatusInProgress))

	updated, err := repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, updated.Status)

	// every other field of the target is unchanged
	target.Status = domain.StatusInProgress
	require.Equal(t, target, *updated)

	untouched, err := repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	require.Equal(t, other, *untouched)
}

func TestRequestUpdateStatusAbsentID(t *testing.T) {
	repo := newRequestRepo(t)
	ctx := context.Background()

	seedRequest(t, repo, "r1", "alice", "Health", domain.StatusPending)

	require.ErrorIs(t, repo.UpdateStatus(ctx, "ghost", domain.StatusCompleted), ErrNotFound)

	requests, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.Equal(t, domain.StatusPending, requests[0].Status)
}

func TestRequestDelete(t *testing.T) {
	repo := newRequestRepo(t)
	ctx := context.Background()

	first := seedRequest(t, repo, "r1", "alice", "Health", domain.StatusPending)
	second := seedRequest(t, repo, "r2", "bob", "Finance", domain.StatusPending)

	require.NoError(t, repo.Delete(ctx, first.ID))

	requests, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.Request{second}, requests)

	require.ErrorIs(t, repo.Delete(ctx, first.ID), ErrNotFound)

	requests, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
}

func TestRequestCountsByStatus(t *testing.T) {
	repo := newRequestRepo(t)
	ctx := context.Background()

	seedRequest(t, repo, "r1", "alice", "Health", domain.StatusPending)
	seedRequest(t, repo, "r2", "alice", "Health", domain.StatusInProgress)
	seedRequest(t, repo, "r3", "bob", "Finance", domain.StatusCompleted)
	seedRequest(t, repo, "r4", "bob", "Finance", domain.StatusCompleted)

	counts, err := repo.CountsByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCounts{Total: 4, Pending: 1, InProgress: 1, Completed: 2}, counts)
}

func TestRequestCountsByDepartmentFixedOrderZeroFilled(t *testing.T) {
	repo := newRequestRepo(t)
	ctx := context.Background()

	stats, err := repo.CountsByDepartment(ctx)
	require.NoError(t, err)
	require.Len(t, stats, len(domain.Departments))
	for i, stat := range stats {
		require.Equal(t, domain.Departments[i], stat.Department)
		require.Zero(t, stat.Count)
	}

	seedRequest(t, repo, "r1", "alice", "Health", domain.StatusPending)
	seedRequest(t, repo, "r2", "bob", "Health", domain.StatusPending)
	// departments outside the fixed set are counted nowhere
	seedRequest(t, repo, "r3", "bob", "Mystery", domain.StatusPending)

	stats, err = repo.CountsByDepartment(ctx)
	require.NoError(t, err)
	require.Len(t, stats, len(domain.Departments))
	for i, stat := range stats {
		require.Equal(t, domain.Departments[i], stat.Department)
		if stat.Department == "Health" {
			require.Equal(t, 2, stat.Count)
		} else {
			require.Zero(t, stat.Count)
		}
	}
}
