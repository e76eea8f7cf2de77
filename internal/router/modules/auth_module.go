package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskmaster/internal/container"
	handlers "github.com/oksasatya/taskmaster/internal/interface/http"
	"github.com/oksasatya/taskmaster/internal/interface/middleware"
	"github.com/oksasatya/taskmaster/pkg/helpers"
)

// AuthModule wires the credential endpoints.
// Public: POST /api/auth/register, POST /api/auth/login
// Protected: GET /api/auth/me
type AuthModule struct {
	Handler   *handlers.AuthHandler
	JWT       *helpers.JWTManager
	RateLimit bool
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, rateLimit bool) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, RateLimit: rateLimit}
}

func (m *AuthModule) Name() string { return "auth" }

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	if !m.RateLimit {
		rdb = nil // RateLimit degrades to a no-op without a client
	}
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)

	protected := auth.Group("/")
	protected.Use(middleware.Auth(container.GetRedis(), m.JWT))
	protected.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		protected.GET("/me", m.Handler.Me)
	}
}
