package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scstore/catalog/internal/notify"
)

// RegisterProgressRoutes exposes the live import progress socket. The job
// id is an unguessable UUID, which is the access token for the stream.
func RegisterProgressRoutes(app fiber.Router, hub *notify.Hub) {
	app.Use("/ws/imports/:jobId", notify.UpgradeMiddleware())
	app.Get("/ws/imports/:jobId", hub.Handler())
}
