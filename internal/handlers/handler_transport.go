package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transportHandler serves waves and their legs.
type transportHandler struct {
	transportService portssvc.TransportSvcFacade
}

func newTransportHandler(svc portssvc.TransportSvcFacade) *transportHandler {
	return &transportHandler{transportService: svc}
}

func registerTransportRoutes(rg *gin.RouterGroup, transportService portssvc.TransportSvcFacade) {
	h := newTransportHandler(transportService)

	waves := rg.Group("/waves")
	{
		waves.POST("", h.createWave)
		waves.GET("", h.listWaves)
		waves.GET("/:id", h.getWave)
		waves.GET("/:id/legs", h.listLegs)
		waves.POST("/:id/close", h.closeWave)
	}

	legs := rg.Group("/legs")
	{
		legs.POST("", h.createLeg)
		legs.GET("/:id", h.getLeg)
		legs.POST("/:id/depart", h.departLeg)
		legs.POST("/:id/arrive", h.arriveLeg)
		legs.POST("/:id/close", h.closeLeg)
	}
}

// createWave godoc
// @Summary Open a wave
// @Tags transport
// @Accept  json
// @Produce  json
// @Param   wave body dto.CreateWaveRequest true "Wave details"
// @Success 201 {object} domain.Wave
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create wave"
// @Security BearerAuth
// @Router /waves [post]
func (h *transportHandler) createWave(c *gin.Context) {
	var req dto.CreateWaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	wave, err := h.transportService.CreateWave(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create wave")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Wave created",
		slog.String("wave_id", wave.WaveID), slog.String("kind", string(wave.Kind)))
	c.JSON(http.StatusCreated, wave)
}

// listWaves godoc
// @Summary List waves
// @Tags transport
// @Produce  json
// @Param   kind query string false "Wave kind" Enums(business, express)
// @Success 200 {object} dto.ListWavesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list waves"
// @Security BearerAuth
// @Router /waves [get]
func (h *transportHandler) listWaves(c *gin.Context) {
	var kind *domain.WaveKind
	if k := c.Query("kind"); k != "" {
		wk := domain.WaveKind(k)
		kind = &wk
	}

	waves, err := h.transportService.ListWaves(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err, "Failed to list waves")
		return
	}
	c.JSON(http.StatusOK, dto.ListWavesResponse{Waves: waves})
}

// getWave godoc
// @Summary Get a wave
// @Tags transport
// @Produce  json
// @Param   id path string true "Wave ID"
// @Success 200 {object} domain.Wave
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Wave not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve wave"
// @Security BearerAuth
// @Router /waves/{id} [get]
func (h *transportHandler) getWave(c *gin.Context) {
	wave, err := h.transportService.GetWave(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve wave")
		return
	}
	c.JSON(http.StatusOK, wave)
}

// listLegs godoc
// @Summary List the legs of a wave
// @Tags transport
// @Produce  json
// @Param   id path string true "Wave ID"
// @Success 200 {object} dto.ListLegsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Wave not found"
// @Failure 500 {object} ErrorResponse "Failed to list legs"
// @Security BearerAuth
// @Router /waves/{id}/legs [get]
func (h *transportHandler) listLegs(c *gin.Context) {
	legs, err := h.transportService.ListLegs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list legs")
		return
	}
	c.JSON(http.StatusOK, dto.ListLegsResponse{Legs: legs})
}

// closeWave godoc
// @Summary Close a wave
// @Description Requires every leg closed and every order and parcel settled or cancelled. Final wave costs are posted in the same unit.
// @Tags transport
// @Accept  json
// @Produce  json
// @Param   id path string true "Wave ID"
// @Param   close body dto.CloseRequest false "Final costs"
// @Success 200 {object} domain.Wave
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Wave or account not found"
// @Failure 409 {object} ErrorResponse "Wave not ready to close"
// @Failure 500 {object} ErrorResponse "Failed to close wave"
// @Security BearerAuth
// @Router /waves/{id}/close [post]
func (h *transportHandler) closeWave(c *gin.Context) {
	waveID := c.Param("id")

	var req dto.CloseRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received request to close wave",
		slog.String("wave_id", waveID), slog.Int("costs", len(req.Costs)))

	wave, err := h.transportService.CloseWave(c.Request.Context(), waveID, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to close wave")
		return
	}
	c.JSON(http.StatusOK, wave)
}

// createLeg godoc
// @Summary Prepare a convoy or a trip
// @Description Convoys belong to business waves, trips to express waves.
// @Tags transport
// @Accept  json
// @Produce  json
// @Param   leg body dto.CreateLegRequest true "Leg details"
// @Success 201 {object} domain.Leg
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Wave not found"
// @Failure 409 {object} ErrorResponse "Wave is closed"
// @Failure 500 {object} ErrorResponse "Failed to create leg"
// @Security BearerAuth
// @Router /legs [post]
func (h *transportHandler) createLeg(c *gin.Context) {
	var req dto.CreateLegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	leg, err := h.transportService.CreateLeg(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create leg")
		return
	}
	c.JSON(http.StatusCreated, leg)
}

// getLeg godoc
// @Summary Get a convoy or a trip
// @Tags transport
// @Produce  json
// @Param   id path string true "Leg ID"
// @Success 200 {object} domain.Leg
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Leg not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve leg"
// @Security BearerAuth
// @Router /legs/{id} [get]
func (h *transportHandler) getLeg(c *gin.Context) {
	leg, err := h.transportService.GetLeg(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve leg")
		return
	}
	c.JSON(http.StatusOK, leg)
}

// departLeg godoc
// @Summary Mark a leg as departed
// @Description Moves every order or parcel on the leg to in transit.
// @Tags transport
// @Produce  json
// @Param   id path string true "Leg ID"
// @Success 200 {object} domain.Leg
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Leg not found"
// @Failure 409 {object} ErrorResponse "Leg not in preparation"
// @Failure 500 {object} ErrorResponse "Failed to depart leg"
// @Security BearerAuth
// @Router /legs/{id}/depart [post]
func (h *transportHandler) departLeg(c *gin.Context) {
	h.transition(c, h.transportService.DepartLeg, "Failed to depart leg")
}

// arriveLeg godoc
// @Summary Mark a leg as arrived
// @Description Moves every order or parcel on the leg to arrived.
// @Tags transport
// @Produce  json
// @Param   id path string true "Leg ID"
// @Success 200 {object} domain.Leg
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Leg not found"
// @Failure 409 {object} ErrorResponse "Leg not in transit"
// @Failure 500 {object} ErrorResponse "Failed to arrive leg"
// @Security BearerAuth
// @Router /legs/{id}/arrive [post]
func (h *transportHandler) arriveLeg(c *gin.Context) {
	h.transition(c, h.transportService.ArriveLeg, "Failed to arrive leg")
}

func (h *transportHandler) transition(c *gin.Context, step func(ctx context.Context, legID, userID string) (*domain.Leg, error), failMsg string) {
	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	leg, err := step(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondError(c, err, failMsg)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Leg status changed",
		slog.String("leg_id", leg.LegID), slog.String("status", string(leg.Status)))
	c.JSON(http.StatusOK, leg)
}

// closeLeg godoc
// @Summary Close a leg
// @Description Requires every order or parcel on the leg to be picked up or cancelled. Final costs are posted in the same unit.
// @Tags transport
// @Accept  json
// @Produce  json
// @Param   id path string true "Leg ID"
// @Param   close body dto.CloseRequest false "Final costs"
// @Success 200 {object} domain.Leg
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Leg or account not found"
// @Failure 409 {object} ErrorResponse "Leg not ready to close"
// @Failure 500 {object} ErrorResponse "Failed to close leg"
// @Security BearerAuth
// @Router /legs/{id}/close [post]
func (h *transportHandler) closeLeg(c *gin.Context) {
	legID := c.Param("id")

	var req dto.CloseRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received request to close leg",
		slog.String("leg_id", legID), slog.Int("costs", len(req.Costs)))

	leg, err := h.transportService.CloseLeg(c.Request.Context(), legID, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to close leg")
		return
	}
	c.JSON(http.StatusOK, leg)
}
