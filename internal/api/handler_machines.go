package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/parse"
)

// GetMachines handles GET /api/machines.
func (h *Handler) GetMachines(c *gin.Context) {
	machines, err := h.manager.Machines(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, machines)
}

type dryersResponse struct {
	Dryers  []laundry.DryerDuration `json:"dryers"`
	Presets []int                   `json:"presets"`
}

// GetDryers handles GET /api/dryers.
func (h *Handler) GetDryers(c *gin.Context) {
	durations, err := h.manager.DryerDurations(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dryersResponse{Dryers: durations, Presets: h.manager.Presets()})
}

type putDryerDurationRequest struct {
	Minutes int `json:"minutes" binding:"required"`
}

// PutDryerDuration handles PUT /api/dryers/:number/duration.
func (h *Handler) PutDryerDuration(c *gin.Context) {
	dryer, err := parse.Dryer(c.Param("number"))
	if err != nil {
		fail(c, laundry.ErrInvalidDryer)
		return
	}

	var req putDryerDurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	if err := h.manager.SetDryerDuration(c.Request.Context(), dryer, req.Minutes); err != nil {
		fail(c, err)
		return
	}
	h.GetDryers(c)
}
