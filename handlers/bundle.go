// File: apptbot/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Appointment endpoints
	BookHandler      gin.HandlerFunc
	BookAsyncHandler gin.HandlerFunc
	GetJobHandler    gin.HandlerFunc
	ResolveHandler   gin.HandlerFunc

	// Ops endpoints
	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires an AppointmentHandler into the bundle.
func NewHandlerBundle(h *AppointmentHandler) *HandlerBundle {
	return &HandlerBundle{
		BookHandler:      h.Book,
		BookAsyncHandler: h.BookAsync,
		GetJobHandler:    h.GetJob,
		ResolveHandler:   h.Resolve,
		HealthHandler:    HealthHandler,
	}
}
