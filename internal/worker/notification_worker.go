package worker

import (
	"github.com/Katsud0n0/city-nexus-connect/internal/events"
	"github.com/Katsud0n0/city-nexus-connect/internal/service"
)

// Start registers event subscribers: notification stubs and dashboard cache
// invalidation.
func Start(dispatcher events.Dispatcher, notifications *service.NotificationService, stats *service.StatsService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if stats != nil {
		stats.RegisterHandlers(dispatcher)
	}
}
