package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authapp "github.com/oksasatya/taskmaster/internal/application"
	"github.com/oksasatya/taskmaster/internal/interface/middleware"
	"github.com/oksasatya/taskmaster/pkg/response"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

type AuthHandler struct {
	Svc    *authapp.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *authapp.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,uname"`
	Email    string `json:"email" binding:"required,basicemail"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err), validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, u.Public())
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Message(err), validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Me GET /api/auth/me (token required)
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Profile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid or expired token", nil)
		return
	}
	response.JSON(c, http.StatusOK, u.Public())
}

// Health GET /api/health
func (h *AuthHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// fail converts service errors into {message} bodies; internals are logged, not leaked.
func (h *AuthHandler) fail(c *gin.Context, err error) {
	status := authapp.StatusOf(err)
	if status >= http.StatusInternalServerError {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("auth request failed")
		}
		response.Error(c, status, "internal server error", nil)
		return
	}
	response.Error(c, status, err.Error(), nil)
}
