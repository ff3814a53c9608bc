package handlers

import (
	"net/http"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// clientHandler serves the client directory and the product catalogue.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
}

func newClientHandler(svc portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{clientService: svc}
}

func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade) {
	h := newClientHandler(clientService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:id", h.getClient)
	}

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)
	}
}

// createClient godoc
// @Summary Register a client
// @Description Assigns the next client code for the kind (CLI-BUS-NNN, CLI-EXP-NNN or CLI-BOTH-NNN).
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} domain.Client
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create client"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create client")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// listClients godoc
// @Summary List clients
// @Tags clients
// @Produce  json
// @Param   kind query string false "Client kind" Enums(BUS, EXP, BOTH)
// @Success 200 {object} dto.ListClientsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list clients"
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	var kind *domain.ClientKind
	if k := c.Query("kind"); k != "" {
		ck := domain.ClientKind(k)
		kind = &ck
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, dto.ListClientsResponse{Clients: clients})
}

// getClient godoc
// @Summary Get a client
// @Tags clients
// @Produce  json
// @Param   id path string true "Client ID"
// @Success 200 {object} domain.Client
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Client not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve client"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	client, err := h.clientService.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// createProduct godoc
// @Summary Add a catalogue product
// @Description Assigns the next SKU for the currency (PROD-MAD-NNNN or PROD-CFA-NNNN).
// @Tags products
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} domain.Product
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create product"
// @Security BearerAuth
// @Router /products [post]
func (h *clientHandler) createProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	product, err := h.clientService.CreateProduct(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// listProducts godoc
// @Summary List catalogue products
// @Tags products
// @Produce  json
// @Param   currency query string false "Only products priced in this currency"
// @Success 200 {object} dto.ListProductsResponse
// @Failure 400 {object} ErrorResponse "Malformed currency code"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list products"
// @Security BearerAuth
// @Router /products [get]
func (h *clientHandler) listProducts(c *gin.Context) {
	currency, ok := queryCurrency(c, "")
	if !ok {
		return
	}

	products, err := h.clientService.ListProducts(c.Request.Context(), currency)
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, dto.ListProductsResponse{Products: products})
}

// getProduct godoc
// @Summary Get a catalogue product
// @Tags products
// @Produce  json
// @Param   id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve product"
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *clientHandler) getProduct(c *gin.Context) {
	product, err := h.clientService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, product)
}
