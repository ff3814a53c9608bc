package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// parcelHandler handles HTTP requests for express parcels.
type parcelHandler struct {
	parcelService portssvc.ParcelSvcFacade
}

func newParcelHandler(svc portssvc.ParcelSvcFacade) *parcelHandler {
	return &parcelHandler{parcelService: svc}
}

func registerParcelRoutes(rg *gin.RouterGroup, parcelService portssvc.ParcelSvcFacade) {
	h := newParcelHandler(parcelService)

	parcels := rg.Group("/parcels")
	{
		parcels.POST("", h.createParcel)
		parcels.GET("", h.listParcels)
		parcels.GET("/:id", h.getParcel)
		parcels.PUT("/:id/price", h.updateParcelPrice)
		parcels.POST("/:id/trip", h.assignTrip)
		parcels.POST("/:id/payments", h.registerPayment)
		parcels.POST("/:id/pickup", h.pickupParcel)
		parcels.POST("/:id/cancel", h.cancelParcel)
		parcels.DELETE("/:id", h.deleteParcel)
	}
}

// createParcel godoc
// @Summary Register an express parcel
// @Description Registers a parcel and posts its deposits in the same unit.
// @Tags parcels
// @Accept  json
// @Produce  json
// @Param   parcel body dto.CreateParcelRequest true "Parcel details"
// @Success 201 {object} dto.ParcelResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Client, wave or account not found"
// @Failure 409 {object} ErrorResponse "Deposits exceed the parcel price"
// @Failure 422 {object} ErrorResponse "Deposit account currency does not match"
// @Failure 500 {object} ErrorResponse "Failed to create parcel"
// @Security BearerAuth
// @Router /parcels [post]
func (h *parcelHandler) createParcel(c *gin.Context) {
	var req dto.CreateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create parcel",
		slog.String("client_id", req.ClientID),
		slog.String("wave_id", req.WaveID),
		slog.String("total_price", req.TotalPrice.String()))

	parcel, err := h.parcelService.CreateParcel(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create parcel")
		return
	}

	logger.Info("Parcel created successfully", slog.String("parcel_id", parcel.ParcelID), slog.String("reference", parcel.Reference))
	c.JSON(http.StatusCreated, dto.ToParcelResponse(parcel))
}

// listParcels godoc
// @Summary List express parcels
// @Description Lists parcels newest first.
// @Tags parcels
// @Produce  json
// @Param   clientID query string false "Client ID"
// @Param   waveID query string false "Wave ID"
// @Param   tripID query string false "Trip ID"
// @Param   status query string false "Status"
// @Param   inDebt query bool false "Only parcels with an outstanding balance"
// @Param   limit query int false "Page size" default(50)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListParcelsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list parcels"
// @Security BearerAuth
// @Router /parcels [get]
func (h *parcelHandler) listParcels(c *gin.Context) {
	var params dto.ListParcelsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	parcels, err := h.parcelService.ListParcels(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list parcels")
		return
	}

	c.JSON(http.StatusOK, dto.ToListParcelsResponse(parcels))
}

// getParcel godoc
// @Summary Get an express parcel
// @Tags parcels
// @Produce  json
// @Param   id path string true "Parcel ID"
// @Success 200 {object} dto.ParcelResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Parcel not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve parcel"
// @Security BearerAuth
// @Router /parcels/{id} [get]
func (h *parcelHandler) getParcel(c *gin.Context) {
	parcel, err := h.parcelService.GetParcel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve parcel")
		return
	}
	c.JSON(http.StatusOK, dto.ToParcelResponse(parcel))
}

// updateParcelPrice godoc
// @Summary Change the price of a parcel
// @Description The new price may not fall below what was already paid.
// @Tags parcels
// @Accept  json
// @Produce  json
// @Param   id path string true "Parcel ID"
// @Param   price body dto.UpdateParcelPriceRequest true "New price"
// @Success 200 {object} dto.ParcelResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Parcel not found"
// @Failure 409 {object} ErrorResponse "Parcel is settled or the price falls below the paid amount"
// @Failure 500 {object} ErrorResponse "Failed to update parcel"
// @Security BearerAuth
// @Router /parcels/{id}/price [put]
func (h *parcelHandler) updateParcelPrice(c *gin.Context) {
	parcelID := c.Param("id")

	var req dto.UpdateParcelPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	parcel, err := h.parcelService.UpdateParcelPrice(c.Request.Context(), parcelID, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to update parcel")
		return
	}
	c.JSON(http.StatusOK, dto.ToParcelResponse(parcel))
}

// assignTrip godoc
// @Summary Put a parcel on a trip
// @Description Only registered parcels can be assigned. The trip must belong to the parcel's wave and not have departed.
// @Tags parcels
// @Accept  json
// @Produce  json
// @Param   id path string true "Parcel ID"
// @Param   trip body dto.AssignTripRequest true "Trip"
// @Success 200 {object} dto.ParcelResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Parcel or trip not found"
// @Failure 409 {object} ErrorResponse "Parcel or trip in the wrong state"
// @Failure 500 {object} ErrorResponse "Failed to assign trip"
// @Security BearerAuth
// @Router /parcels/{id}/trip [post]
func (h *parcelHandler) assignTrip(c *gin.Context) {
	parcelID := c.Param("id")

	var req dto.AssignTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received request to assign parcel to trip",
		slog.String("parcel_id", parcelID), slog.String("trip_id", req.TripID))

	parcel, err := h.parcelService.AssignParcelToTrip(c.Request.Context(), parcelID, req.TripID, actorID)
	if err != nil {
		respondError(c, err, "Failed to assign trip")
		return
	}
	c.JSON(http.StatusOK, dto.ToParcelResponse(parcel))
}

// registerPayment godoc
// @Summary Register a payment on a parcel
// @Tags parcels
// @Accept  json
// @Produce  json
// @Param   id path string true "Parcel ID"
// @Param   payment body dto.PaymentRequest true "Payment legs"
// @Success 200 {object} dto.ParcelResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Parcel or account not found"
// @Failure 409 {object} ErrorResponse "Parcel settled or payment exceeds the balance"
// @Failure 422 {object} ErrorResponse "Account currency does not match the parcel"
// @Failure 500 {object} ErrorResponse "Failed to register payment"
// @Security BearerAuth
// @Router /parcels/{id}/payments [post]
func (h *parcelHandler) registerPayment(c *gin.Context) {
	parcelID := c.Param("id")

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	parcel, err := h.parcelService.RegisterParcelPayment(c.Request.Context(), parcelID, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to register payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToParcelResponse(parcel))
}

// pickupParcel godoc
// @Summary Hand a parcel over to its client
// @Description Settles the parcel. Any payment given must cover the balance within tolerance.
// @Tags parcels
// @Accept  json
// @Produce  json
// @Param   id path string true "Parcel ID"
// @Param   pickup body dto.PickupRequest false "Final payment legs"
// @Success 200 {object} dto.ParcelResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Parcel or account not found"
// @Failure 409 {object} ErrorResponse "Partial settlement or parcel not eligible"
// @Failure 500 {object} ErrorResponse "Failed to pick up parcel"
// @Security BearerAuth
// @Router /parcels/{id}/pickup [post]
func (h *parcelHandler) pickupParcel(c *gin.Context) {
	parcelID := c.Param("id")

	var req dto.PickupRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received request to pick up parcel",
		slog.String("parcel_id", parcelID), slog.Int("legs", len(req.Payments)))

	parcel, err := h.parcelService.PickupParcel(c.Request.Context(), parcelID, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to pick up parcel")
		return
	}
	c.JSON(http.StatusOK, dto.ToParcelResponse(parcel))
}

// cancelParcel godoc
// @Summary Cancel a parcel
// @Tags parcels
// @Produce  json
// @Param   id path string true "Parcel ID"
// @Success 200 {object} dto.ParcelResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Parcel not found"
// @Failure 409 {object} ErrorResponse "Parcel already settled or cancelled"
// @Failure 500 {object} ErrorResponse "Failed to cancel parcel"
// @Security BearerAuth
// @Router /parcels/{id}/cancel [post]
func (h *parcelHandler) cancelParcel(c *gin.Context) {
	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	parcel, err := h.parcelService.CancelParcel(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondError(c, err, "Failed to cancel parcel")
		return
	}
	c.JSON(http.StatusOK, dto.ToParcelResponse(parcel))
}

// deleteParcel godoc
// @Summary Delete a parcel
// @Description Deletes the parcel together with its ledger rows, restoring the account balances.
// @Tags parcels
// @Param   id path string true "Parcel ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Parcel not found"
// @Failure 500 {object} ErrorResponse "Failed to delete parcel"
// @Security BearerAuth
// @Router /parcels/{id} [delete]
func (h *parcelHandler) deleteParcel(c *gin.Context) {
	parcelID := c.Param("id")

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received request to delete parcel",
		slog.String("parcel_id", parcelID))

	if err := h.parcelService.DeleteParcel(c.Request.Context(), parcelID, actorID); err != nil {
		respondError(c, err, "Failed to delete parcel")
		return
	}
	c.Status(http.StatusNoContent)
}
