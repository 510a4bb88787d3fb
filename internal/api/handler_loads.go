package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/model"
	"laundry-cycle-backend/internal/mw"
)

// ListLoads handles GET /api/loads[?active=true].
func (h *Handler) ListLoads(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	loads, err := h.manager.List(c.Request.Context(), activeOnly)
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]laundry.LoadView, 0, len(loads))
	for _, l := range loads {
		views = append(views, h.manager.View(l))
	}
	c.JSON(http.StatusOK, views)
}

type createLoadRequest struct {
	Type        model.LoadType `json:"type" binding:"required"`
	Notes       string         `json:"notes" binding:"max=512"`
	StartWasher bool           `json:"start_washer"`
}

// CreateLoad handles POST /api/loads.
func (h *Handler) CreateLoad(c *gin.Context) {
	var req createLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	load, err := h.manager.Create(c.Request.Context(), laundry.CreateRequest{
		Type:        req.Type,
		Notes:       req.Notes,
		StartWasher: req.StartWasher,
		CreatedBy:   mw.CurrentActor(c).Name,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.manager.View(*load))
}

// GetLoad handles GET /api/loads/:id.
func (h *Handler) GetLoad(c *gin.Context) {
	load, err := h.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.manager.View(*load))
}

type advanceLoadRequest struct {
	Action string `json:"action" binding:"required"`
}

// AdvanceLoad handles PATCH /api/loads/:id.
func (h *Handler) AdvanceLoad(c *gin.Context) {
	var req advanceLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	action, err := laundry.ParseAction(req.Action)
	if err != nil {
		fail(c, err)
		return
	}

	load, err := h.manager.Advance(c.Request.Context(), c.Param("id"), action)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.manager.View(*load))
}
