package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Katsud0n0/city-nexus-connect/internal/api/http/handlers"
	"github.com/Katsud0n0/city-nexus-connect/internal/auth"
	"github.com/Katsud0n0/city-nexus-connect/internal/config"
	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
	"github.com/Katsud0n0/city-nexus-connect/internal/events"
	"github.com/Katsud0n0/city-nexus-connect/internal/observability"
	"github.com/Katsud0n0/city-nexus-connect/internal/persistence"
	"github.com/Katsud0n0/city-nexus-connect/internal/repository"
	"github.com/Katsud0n0/city-nexus-connect/internal/service"
	"github.com/Katsud0n0/city-nexus-connect/internal/worker"
)

func newTestApp(t *testing.T) *fiber.App {
	app, _ := newTestAppWithMetrics(t)
	return app
}

func newTestAppWithMetrics(t *testing.T) (*fiber.App, *observability.Metrics) {
	t.Helper()

	cfg := config.Config{
		App: config.AppConfig{Name: "city-nexus-connect", Version: "test"},
		Store: config.StoreConfig{
			Backend: config.BackendWorkbook,
			DataDir: t.TempDir(),
		},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            4,
		},
	}
	logger := zap.NewNop()

	wb, err := persistence.NewWorkbook(cfg.Store, logger)
	require.NoError(t, err)
	userRepo, err := repository.NewUserWorkbookRepository(wb)
	require.NoError(t, err)
	requestRepo, err := repository.NewRequestWorkbookRepository(wb)
	require.NoError(t, err)

	redis := &persistence.Redis{}
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg, userRepo)
	requestService := service.NewRequestService(requestRepo, dispatcher)
	statsService := service.NewStatsService(cfg, requestRepo, redis, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.Start(dispatcher, notificationService, statsService)

	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg, wb, nil, redis),
		Users:          handlers.NewUsersHandler(authService, requestService),
		Requests:       handlers.NewRequestsHandler(requestService),
		Stats:          handlers.NewStatsHandler(statsService),
		Departments:    handlers.NewDepartmentsHandler(statsService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), userRepo),
	})
	return app, metrics
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := nethttp.NewRequest(method, path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp.StatusCode, nil
	}
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func register(t *testing.T, app *fiber.App, username, department string) string {
	t.Helper()
	status, body := doJSON(t, app, nethttp.MethodPost, "/auth/register", "", map[string]string{
		"username":   username,
		"fullName":   "User " + username,
		"department": department,
		"password":   "pw-" + username,
	})
	require.Equal(t, nethttp.StatusCreated, status)
	data := body["data"].(map[string]any)
	return data["auth"].(map[string]any)["token"].(string)
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, nethttp.MethodGet, "/health/live", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "alive", body["status"])
}

func TestRegisterLoginFlow(t *testing.T) {
	app := newTestApp(t)

	register(t, app, "alice", "Health")

	// duplicate username is a conflict
	status, body := doJSON(t, app, nethttp.MethodPost, "/auth/register", "", map[string]string{
		"username":   "alice",
		"fullName":   "Impostor",
		"department": "Finance",
		"password":   "other",
	})
	require.Equal(t, nethttp.StatusConflict, status)
	require.Equal(t, "CONFLICT", body["error"].(map[string]any)["code"])

	status, body = doJSON(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "pw-alice",
	})
	require.Equal(t, nethttp.StatusOK, status)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "User alice", user["fullName"])

	status, _ = doJSON(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, nethttp.StatusUnauthorized, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, nethttp.MethodGet, "/requests", "", nil)
	require.Equal(t, nethttp.StatusUnauthorized, status)
	require.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])
}

func TestRequestLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "alice", "Health")

	status, body := doJSON(t, app, nethttp.MethodPost, "/requests", token, map[string]string{
		"title":       "Pothole",
		"description": "Main street pothole",
		"department":  "Public Works",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	created := body["data"].(map[string]any)
	require.Equal(t, "pending", created["status"])
	require.Equal(t, "alice", created["username"])
	id := created["id"].(string)

	status, body = doJSON(t, app, nethttp.MethodGet, "/users/me/requests", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.Len(t, body["data"].([]any), 1)

	status, body = doJSON(t, app, nethttp.MethodPatch, fmt.Sprintf("/requests/%s/status", id), token, map[string]string{
		"status": "in-progress",
	})
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "in-progress", body["data"].(map[string]any)["status"])

	status, body = doJSON(t, app, nethttp.MethodPatch, fmt.Sprintf("/requests/%s/status", id), token, map[string]string{
		"status": "archived",
	})
	require.Equal(t, nethttp.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])

	status, _ = doJSON(t, app, nethttp.MethodDelete, "/requests/"+id, token, nil)
	require.Equal(t, nethttp.StatusNoContent, status)

	status, body = doJSON(t, app, nethttp.MethodGet, "/requests/"+id, token, nil)
	require.Equal(t, nethttp.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])
}

func TestDashboardAndDepartmentsOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "alice", "Health")

	status, body := doJSON(t, app, nethttp.MethodPost, "/requests", token, map[string]string{
		"title": "One", "description": "d", "department": "Health",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	first := body["data"].(map[string]any)["id"].(string)
	status, _ = doJSON(t, app, nethttp.MethodPost, "/requests", token, map[string]string{
		"title": "Two", "description": "d", "department": "Sanitation",
	})
	require.Equal(t, nethttp.StatusCreated, status)

	status, _ = doJSON(t, app, nethttp.MethodPatch, fmt.Sprintf("/requests/%s/status", first), token, map[string]string{
		"status": "completed",
	})
	require.Equal(t, nethttp.StatusOK, status)

	status, body = doJSON(t, app, nethttp.MethodGet, "/dashboard/stats", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	counts := body["data"].(map[string]any)["counts"].(map[string]any)
	require.EqualValues(t, 2, counts["total"])
	require.EqualValues(t, 1, counts["pending"])
	require.EqualValues(t, 0, counts["inProgress"])
	require.EqualValues(t, 1, counts["completed"])

	status, body = doJSON(t, app, nethttp.MethodGet, "/departments", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	departments := body["data"].([]any)
	require.Len(t, departments, len(domain.Departments))
	for i, entry := range departments {
		require.Equal(t, domain.Departments[i], entry.(map[string]any)["department"])
	}
}

func TestMetricsRecordErrorStatus(t *testing.T) {
	app, metrics := newTestAppWithMetrics(t)

	status, _ := doJSON(t, app, nethttp.MethodGet, "/requests", "", nil)
	require.Equal(t, nethttp.StatusUnauthorized, status)

	require.EqualValues(t, 1, metrics.RequestCount("/requests", nethttp.MethodGet, nethttp.StatusUnauthorized))
	require.Zero(t, metrics.RequestCount("/requests", nethttp.MethodGet, nethttp.StatusOK))
}

// deadlineCaptureRepo records whether the context handed to List carried a
// deadline. The embedded interface stays nil; only List is exercised.
type deadlineCaptureRepo struct {
	repository.RequestRepository
	hasDeadline bool
}

func (r *deadlineCaptureRepo) List(ctx context.Context) ([]domain.Request, error) {
	_, r.hasDeadline = ctx.Deadline()
	return nil, nil
}

func TestRequestTimeoutReachesRepositories(t *testing.T) {
	cfg := config.Config{
		Store: config.StoreConfig{Backend: config.BackendWorkbook, DataDir: t.TempDir()},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 5,
			BcryptCost:            4,
		},
	}
	logger := zap.NewNop()

	wb, err := persistence.NewWorkbook(cfg.Store, logger)
	require.NoError(t, err)
	userRepo, err := repository.NewUserWorkbookRepository(wb)
	require.NoError(t, err)

	capture := &deadlineCaptureRepo{}
	redis := &persistence.Redis{}
	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(cfg, userRepo)
	requestService := service.NewRequestService(capture, dispatcher)
	statsService := service.NewStatsService(cfg, capture, redis, logger)

	app := fiber.New()
	RegisterMiddlewares(app, logger, nil, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg, wb, nil, redis),
		Users:          handlers.NewUsersHandler(authService, requestService),
		Requests:       handlers.NewRequestsHandler(requestService),
		Stats:          handlers.NewStatsHandler(statsService),
		Departments:    handlers.NewDepartmentsHandler(statsService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), userRepo),
	})

	token := register(t, app, "alice", "Health")

	status, _ := doJSON(t, app, nethttp.MethodGet, "/requests", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	require.True(t, capture.hasDeadline)
}
