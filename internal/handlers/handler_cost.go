package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/SscSPs/cargo_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

type costHandler struct {
	costService portssvc.CostSvcFacade
}

func newCostHandler(svc portssvc.CostSvcFacade) *costHandler {
	return &costHandler{costService: svc}
}

func registerCostRoutes(rg *gin.RouterGroup, costService portssvc.CostSvcFacade) {
	h := newCostHandler(costService)

	costs := rg.Group("/costs")
	{
		costs.POST("", h.createCost)
		costs.GET("", h.listCosts)
		costs.GET("/:id", h.getCost)
		costs.PUT("/:id", h.updateCost)
		costs.DELETE("/:id", h.deleteCost)
	}
}

// createCost godoc
// @Summary Record a transport cost
// @Description Attaches a cost to a convoy, trip or wave and debits the paying account, converting the amount to the account's currency.
// @Tags costs
// @Accept  json
// @Produce  json
// @Param   cost body dto.CreateCostRequest true "Cost details"
// @Success 201 {object} domain.Cost
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Owner or account not found"
// @Failure 409 {object} ErrorResponse "Owner is closed"
// @Failure 500 {object} ErrorResponse "Failed to create cost"
// @Security BearerAuth
// @Router /costs [post]
func (h *costHandler) createCost(c *gin.Context) {
	var req dto.CreateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create cost",
		slog.String("kind", string(req.Kind)),
		slog.String("owner_id", req.OwnerID),
		slog.String("amount", utils.FormatMoney(req.Amount, req.CurrencyCode)))

	cost, err := h.costService.CreateCost(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create cost")
		return
	}

	c.JSON(http.StatusCreated, cost)
}

// listCosts godoc
// @Summary List the costs of an owner
// @Tags costs
// @Produce  json
// @Param   kind query string true "Owner kind" Enums(convoy, trip, wave)
// @Param   ownerID query string true "Leg or wave ID"
// @Success 200 {object} dto.ListCostsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list costs"
// @Security BearerAuth
// @Router /costs [get]
func (h *costHandler) listCosts(c *gin.Context) {
	var params dto.ListCostsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	costs, err := h.costService.ListCosts(c.Request.Context(), params.Kind, params.OwnerID)
	if err != nil {
		respondError(c, err, "Failed to list costs")
		return
	}
	c.JSON(http.StatusOK, dto.ListCostsResponse{Costs: costs})
}

// getCost godoc
// @Summary Get a cost
// @Tags costs
// @Produce  json
// @Param   id path string true "Cost ID"
// @Success 200 {object} domain.Cost
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Cost not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve cost"
// @Security BearerAuth
// @Router /costs/{id} [get]
func (h *costHandler) getCost(c *gin.Context) {
	cost, err := h.costService.GetCost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve cost")
		return
	}
	c.JSON(http.StatusOK, cost)
}

// updateCost godoc
// @Summary Update a cost
// @Description Label-only changes keep the ledger row. Money changes replace it.
// @Tags costs
// @Accept  json
// @Produce  json
// @Param   id path string true "Cost ID"
// @Param   cost body dto.UpdateCostRequest true "Fields to update"
// @Success 200 {object} domain.Cost
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Cost or account not found"
// @Failure 409 {object} ErrorResponse "Owner is closed"
// @Failure 500 {object} ErrorResponse "Failed to update cost"
// @Security BearerAuth
// @Router /costs/{id} [put]
func (h *costHandler) updateCost(c *gin.Context) {
	costID := c.Param("id")

	var req dto.UpdateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	cost, err := h.costService.UpdateCost(c.Request.Context(), costID, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to update cost")
		return
	}
	c.JSON(http.StatusOK, cost)
}

// deleteCost godoc
// @Summary Delete a cost
// @Description Deletes the cost and its ledger row, restoring the account balance.
// @Tags costs
// @Param   id path string true "Cost ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Cost not found"
// @Failure 409 {object} ErrorResponse "Owner is closed"
// @Failure 500 {object} ErrorResponse "Failed to delete cost"
// @Security BearerAuth
// @Router /costs/{id} [delete]
func (h *costHandler) deleteCost(c *gin.Context) {
	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	if err := h.costService.DeleteCost(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondError(c, err, "Failed to delete cost")
		return
	}
	c.Status(http.StatusNoContent)
}
