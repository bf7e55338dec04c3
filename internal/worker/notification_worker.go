package worker

import (
	"github.com/spec-kit/ticket-insights/internal/events"
	"github.com/spec-kit/ticket-insights/internal/service"
)

// StartNotificationWorker registers event subscribers: notifications always, responses when a worker is given.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, responses *ResponseWorker) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if responses != nil {
		responses.RegisterHandlers(dispatcher)
	}
}
