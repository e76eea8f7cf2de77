package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/taskmaster/internal/interface/http"
)

type SystemModule struct {
	Handler *handlers.AuthHandler
}

func NewSystemModule(h *handlers.AuthHandler) *SystemModule { return &SystemModule{Handler: h} }

func (m *SystemModule) Name() string { return "system" }

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Handler.Health)
}
