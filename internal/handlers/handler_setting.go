package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// settingHandler serves system settings and the currency conversions that read them.
type settingHandler struct {
	settingService  portssvc.SettingSvcFacade
	currencyService portssvc.CurrencySvcFacade
}

func newSettingHandler(ss portssvc.SettingSvcFacade, cs portssvc.CurrencySvcFacade) *settingHandler {
	return &settingHandler{settingService: ss, currencyService: cs}
}

func registerSettingRoutes(rg *gin.RouterGroup, settingService portssvc.SettingSvcFacade, currencyService portssvc.CurrencySvcFacade) {
	h := newSettingHandler(settingService, currencyService)

	settings := rg.Group("/settings")
	{
		settings.GET("", h.listSettings)
		settings.GET("/:key", h.getSetting)
		settings.PUT("/:key", h.upsertSetting)
	}

	currency := rg.Group("/currency")
	{
		currency.GET("/rate", h.getExchangeRate)
		currency.GET("/convert", h.convert)
	}
}

// listSettings godoc
// @Summary List system settings
// @Tags settings
// @Produce  json
// @Success 200 {object} dto.ListSettingsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list settings"
// @Security BearerAuth
// @Router /settings [get]
func (h *settingHandler) listSettings(c *gin.Context) {
	settings, err := h.settingService.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list settings")
		return
	}
	c.JSON(http.StatusOK, dto.ListSettingsResponse{Settings: settings})
}

// getSetting godoc
// @Summary Get a system setting
// @Tags settings
// @Produce  json
// @Param   key path string true "Setting key"
// @Success 200 {object} domain.SystemSetting
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Setting not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve setting"
// @Security BearerAuth
// @Router /settings/{key} [get]
func (h *settingHandler) getSetting(c *gin.Context) {
	setting, err := h.settingService.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err, "Failed to retrieve setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}

// upsertSetting godoc
// @Summary Create or replace a system setting
// @Description The value must parse according to its type. Exchange rates must be positive decimals.
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   key path string true "Setting key"
// @Param   setting body dto.UpsertSettingRequest true "Setting value"
// @Success 200 {object} domain.SystemSetting
// @Failure 400 {object} ErrorResponse "Invalid input format or value"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to save setting"
// @Security BearerAuth
// @Router /settings/{key} [put]
func (h *settingHandler) upsertSetting(c *gin.Context) {
	key := c.Param("key")

	var req dto.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to upsert setting", slog.String("key", key), slog.String("type", string(req.Type)))

	setting, err := h.settingService.UpsertSetting(c.Request.Context(), key, req, actorID)
	if err != nil {
		respondError(c, err, "Failed to save setting")
		return
	}

	c.JSON(http.StatusOK, setting)
}

// getExchangeRate godoc
// @Summary Current MAD to CFA rate
// @Description Returns the configured rate, or the default when none is stored.
// @Tags currency
// @Produce  json
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to read exchange rate"
// @Security BearerAuth
// @Router /currency/rate [get]
func (h *settingHandler) getExchangeRate(c *gin.Context) {
	rate, err := h.currencyService.GetExchangeRate(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to read exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ExchangeRateResponse{From: domain.CurrencyMAD, To: domain.CurrencyCFA, Rate: rate.String()})
}

// convert godoc
// @Summary Convert an amount
// @Description Converts through CFA. Pairs without a configured rate are returned unconverted and without a rate.
// @Tags currency
// @Produce  json
// @Param   amount query string true "Amount"
// @Param   from query string true "Source currency"
// @Param   to query string true "Target currency"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to convert amount"
// @Security BearerAuth
// @Router /currency/convert [get]
func (h *settingHandler) convert(c *gin.Context) {
	var params dto.ConvertParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	from, to := domain.NormalizeCurrency(params.From), domain.NormalizeCurrency(params.To)
	converted, rate, err := h.currencyService.Convert(c.Request.Context(), amount, from, to)
	if err != nil {
		respondError(c, err, "Failed to convert amount")
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{Amount: amount, From: from, To: to, Converted: converted, Rate: rate})
}
