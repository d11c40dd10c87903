package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Katsud0n0/city-nexus-connect/internal/config"
	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
	"github.com/Katsud0n0/city-nexus-connect/internal/events"
	"github.com/Katsud0n0/city-nexus-connect/internal/persistence"
	"github.com/Katsud0n0/city-nexus-connect/internal/repository"
	apperrors "github.com/Katsud0n0/city-nexus-connect/pkg/util"
)

const statsCacheKey = "dashboard:stats"

// Dashboard bundles the aggregates rendered by the dashboard page.
type Dashboard struct {
	Counts      domain.StatusCounts      `json:"counts"`
	Departments []domain.DepartmentCount `json:"departments"`
}

// StatsService computes dashboard aggregates, optionally caching them in
// Redis for a short TTL. Cache failures degrade to direct computation.
type StatsService struct {
	requests repository.RequestRepository
	cache    *persistence.Redis
	logger   *zap.Logger
	ttl      time.Duration
}

// NewStatsService builds the service.
func NewStatsService(cfg config.Config, requests repository.RequestRepository, cache *persistence.Redis, logger *zap.Logger) *StatsService {
	return &StatsService{
		requests: requests,
		cache:    cache,
		logger:   logger,
		ttl:      cfg.Redis.StatsTTL(),
	}
}

// Dashboard returns status counts and per-department volumes. The department
// list always carries all ten departments, zero-filled, in enumeration
// order, and the department counts sum to the status total.
func (s *StatsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	counts, err := s.requests.CountsByStatus(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	departments, err := s.requests.CountsByDepartment(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	dashboard := &Dashboard{Counts: counts, Departments: departments}
	s.toCache(ctx, dashboard)
	return dashboard, nil
}

// CountsByDepartment returns per-department request volumes.
func (s *StatsService) CountsByDepartment(ctx context.Context) ([]domain.DepartmentCount, error) {
	departments, err := s.requests.CountsByDepartment(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return departments, nil
}

// RegisterHandlers subscribes cache invalidation to request mutations.
func (s *StatsService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	invalidate := func(ctx context.Context, _ events.Event) error {
		s.Invalidate(ctx)
		return nil
	}
	dispatcher.Subscribe(events.EventRequestCreated, invalidate)
	dispatcher.Subscribe(events.EventRequestStatusChanged, invalidate)
	dispatcher.Subscribe(events.EventRequestDeleted, invalidate)
}

// Invalidate drops the cached dashboard.
func (s *StatsService) Invalidate(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Client.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

func (s *StatsService) fromCache(ctx context.Context) *Dashboard {
	if !s.cache.Enabled() {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil
	}
	var dashboard Dashboard
	if err := json.Unmarshal(raw, &dashboard); err != nil {
		s.logger.Warn("stats cache decode failed", zap.Error(err))
		return nil
	}
	return &dashboard
}

func (s *StatsService) toCache(ctx context.Context, dashboard *Dashboard) {
	if !s.cache.Enabled() {
		return
	}
	raw, err := json.Marshal(dashboard)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
}
