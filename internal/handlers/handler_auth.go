package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/SscSPs/cargo_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// authHandler issues bearer tokens. Identity lives upstream; this only signs tokens for local use.
type authHandler struct {
	jwtSecret   string
	jwtIssuer   string
	jwtDuration time.Duration
}

func newAuthHandler(cfg *config.Config) *authHandler {
	return &authHandler{
		jwtSecret:   cfg.JWTSecret,
		jwtIssuer:   cfg.JWTIssuer,
		jwtDuration: cfg.JWTExpiryDuration,
	}
}

// registerAuthRoutes mounts the dev token route. Nothing is mounted in production.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		return
	}
	h := newAuthHandler(cfg)

	// 5 tokens per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	limitMiddleware := limitergin.NewMiddleware(limiter.New(memory.NewStore(), rate))

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/token", limitMiddleware, h.issueDevToken)
	}
}

// issueDevToken godoc
// @Summary Issue a development token
// @Description Signs a token for the given actor. Only available outside production.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.DevTokenRequest true "Actor"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/token [post]
func (h *authHandler) issueDevToken(c *gin.Context) {
	var req dto.DevTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request body")
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, req.ActorID, h.jwtIssuer, h.jwtDuration)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token", Kind: "internal"})
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Issued development token", slog.String("actor_id", req.ActorID))
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token, ExpiresIn: int64(h.jwtDuration.Seconds())})
}
