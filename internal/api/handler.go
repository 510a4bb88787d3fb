package api

import (
	"net/http"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"laundry-cycle-backend/internal/events"
	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	manager *laundry.Manager
	store   store.Store
	bus     *events.Bus
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(m *laundry.Manager, s store.Store, bus *events.Bus, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		manager: m,
		store:   s,
		bus:     bus,
		webpush: webpushOptions,
	}
}

// fail writes err as {"error": msg}. Rejections carry their own message;
// anything else is logged and reported generically.
func fail(c *gin.Context, err error) {
	status := laundry.StatusCode(err)
	if status == http.StatusInternalServerError {
		logger.New("api").Function("fail").Er("request failed", err, "path", c.FullPath())
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
