package api

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"laundry-cycle-backend/internal/events"
)

const (
	eventBuffer    = 16
	heartbeatEvery = 25 * time.Second
)

// StreamEvents handles GET /api/events as a Server-Sent Events stream. A
// client that falls behind loses events and should refetch on reconnect.
func (h *Handler) StreamEvents(c *gin.Context) {
	ch := make(chan events.Event, eventBuffer)
	cancel := h.bus.Subscribe(func(e events.Event) {
		select {
		case ch <- e:
		default:
		}
	})
	defer cancel()

	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"at": time.Now().UTC()})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case e := <-ch:
			c.SSEvent(string(e.Type), e)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
