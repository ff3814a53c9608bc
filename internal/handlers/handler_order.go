package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// orderHandler handles HTTP requests for business orders.
type orderHandler struct {
	orderService portssvc.OrderSvcFacade
}

func newOrderHandler(svc portssvc.OrderSvcFacade) *orderHandler {
	return &orderHandler{orderService: svc}
}

func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade) {
	h := newOrderHandler(orderService)

	orders := rg.Group("/orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id/items", h.updateOrderItems)
		orders.POST("/:id/convoy", h.assignConvoy)
		orders.POST("/:id/payments", h.registerPayment)
		orders.POST("/:id/pickup", h.pickupOrder)
		orders.POST("/:id/cancel", h.cancelOrder)
		orders.DELETE("/:id", h.deleteOrder)
	}
}

// createOrder godoc
// @Summary Create a business order
// @Description Creates an order with its lines. Upfront payments and the purchase cost are posted in the same unit.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Client, wave, product or account not found"
// @Failure 409 {object} ErrorResponse "Payments exceed the order total"
// @Failure 422 {object} ErrorResponse "Payment account currency does not match"
// @Failure 500 {object} ErrorResponse "Failed to create order"
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create order",
		slog.String("client_id", req.ClientID),
		slog.String("wave_id", req.WaveID),
		slog.Int("items", len(req.Items)),
		slog.Int("payments", len(req.Payments)))

	order, err := h.orderService.CreateOrder(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}

	logger.Info("Order created successfully", slog.String("order_id", order.OrderID), slog.String("reference", order.Reference))
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// listOrders godoc
// @Summary List business orders
// @Description Lists orders newest first.
// @Tags orders
// @Produce  json
// @Param   clientID query string false "Client ID"
// @Param   waveID query string false "Wave ID"
// @Param   convoyID query string false "Convoy ID"
// @Param   status query string false "Status"
// @Param   inDebt query bool false "Only orders with an outstanding balance"
// @Param   limit query int false "Page size" default(50)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list orders"
// @Security BearerAuth
// @Router /orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, dto.ToListOrdersResponse(orders))
}

// getOrder godoc
// @Summary Get a business order
// @Tags orders
// @Produce  json
// @Param   id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Order not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve order"
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// updateOrderItems godoc
// @Summary Replace the lines of an order
// @Description Recomputes the order total. The new total may not fall below what was already paid.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   items body dto.UpdateOrderItemsRequest true "New lines"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Order not found"
// @Failure 409 {object} ErrorResponse "Order is settled or the total falls below the paid amount"
// @Failure 500 {object} ErrorResponse "Failed to update order"
// @Security BearerAuth
// @Router /orders/{id}/items [put]
func (h *orderHandler) updateOrderItems(c *gin.Context) {
	orderID := c.Param("id")

	var req dto.UpdateOrderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	order, err := h.orderService.UpdateOrderItems(c.Request.Context(), orderID, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// assignConvoy godoc
// @Summary Put an order on a convoy
// @Description The convoy must belong to the order's wave and not have departed.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   convoy body dto.AssignConvoyRequest true "Convoy"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Order or convoy not found"
// @Failure 409 {object} ErrorResponse "Order or convoy in the wrong state"
// @Failure 500 {object} ErrorResponse "Failed to assign convoy"
// @Security BearerAuth
// @Router /orders/{id}/convoy [post]
func (h *orderHandler) assignConvoy(c *gin.Context) {
	orderID := c.Param("id")

	var req dto.AssignConvoyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received request to assign order to convoy",
		slog.String("order_id", orderID), slog.String("convoy_id", req.ConvoyID))

	order, err := h.orderService.AssignOrderToConvoy(c.Request.Context(), orderID, req.ConvoyID, actorID)
	if err != nil {
		respondError(c, err, "Failed to assign convoy")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// registerPayment godoc
// @Summary Register a payment on an order
// @Description Posts one credit per leg and raises the paid amount. Payments beyond the outstanding balance are refused.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   payment body dto.PaymentRequest true "Payment legs"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Order or account not found"
// @Failure 409 {object} ErrorResponse "Order settled or payment exceeds the balance"
// @Failure 422 {object} ErrorResponse "Account currency does not match the order"
// @Failure 500 {object} ErrorResponse "Failed to register payment"
// @Security BearerAuth
// @Router /orders/{id}/payments [post]
func (h *orderHandler) registerPayment(c *gin.Context) {
	orderID := c.Param("id")

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received request to register order payment",
		slog.String("order_id", orderID), slog.Int("legs", len(req.Payments)))

	order, err := h.orderService.RegisterOrderPayment(c.Request.Context(), orderID, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to register payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// pickupOrder godoc
// @Summary Hand an order over to its client
// @Description Settles the order. Any payment given must cover the balance within tolerance; partial settlement is refused.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   id path string true "Order ID"
// @Param   pickup body dto.PickupRequest false "Final payment legs"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Order or account not found"
// @Failure 409 {object} ErrorResponse "Partial settlement or order not eligible"
// @Failure 500 {object} ErrorResponse "Failed to pick up order"
// @Security BearerAuth
// @Router /orders/{id}/pickup [post]
func (h *orderHandler) pickupOrder(c *gin.Context) {
	orderID := c.Param("id")

	var req dto.PickupRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received request to pick up order",
		slog.String("order_id", orderID), slog.Int("legs", len(req.Payments)))

	order, err := h.orderService.PickupOrder(c.Request.Context(), orderID, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to pick up order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// cancelOrder godoc
// @Summary Cancel an order
// @Description Cancelled orders keep their ledger rows and leave the debt reports.
// @Tags orders
// @Produce  json
// @Param   id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Order not found"
// @Failure 409 {object} ErrorResponse "Order already settled or cancelled"
// @Failure 500 {object} ErrorResponse "Failed to cancel order"
// @Security BearerAuth
// @Router /orders/{id}/cancel [post]
func (h *orderHandler) cancelOrder(c *gin.Context) {
	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondError(c, err, "Failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// deleteOrder godoc
// @Summary Delete an order
// @Description Deletes the order together with every ledger row attached to it, restoring the account balances.
// @Tags orders
// @Param   id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Order not found"
// @Failure 500 {object} ErrorResponse "Failed to delete order"
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (h *orderHandler) deleteOrder(c *gin.Context) {
	orderID := c.Param("id")

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received request to delete order",
		slog.String("order_id", orderID))

	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID, actorID); err != nil {
		respondError(c, err, "Failed to delete order")
		return
	}
	c.Status(http.StatusNoContent)
}
