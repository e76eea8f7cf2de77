package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authapp "github.com/oksasatya/taskmaster/internal/application"
	"github.com/oksasatya/taskmaster/internal/container"
	"github.com/oksasatya/taskmaster/internal/domain/repository"
	"github.com/oksasatya/taskmaster/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/taskmaster/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/taskmaster/internal/interface/http"
	"github.com/oksasatya/taskmaster/internal/interface/middleware"
	"github.com/oksasatya/taskmaster/internal/router/modules"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

type AuthModuleDeps struct {
	Repo    repository.UserRepository
	Service *authapp.Service
	Handler *handlers.AuthHandler
}

func userRepository() repository.UserRepository {
	if r := container.GetUserRepository(); r != nil {
		return r
	}
	var r repository.UserRepository
	if pool := container.GetPGPool(); pool != nil {
		r = pginfra.NewUserRepository(pool)
	} else {
		r = memory.NewUserRepository()
	}
	container.SetUserRepository(r)
	return r
}

func buildAuthDeps() AuthModuleDeps {
	cfg := container.GetConfig()
	repo := userRepository()

	opts := []authapp.Option{
		authapp.WithAppName(cfg.AppName),
		authapp.WithRedis(container.GetRedis()),
		authapp.WithElasticsearch(container.GetES(), cfg.ESUsersIndex),
	}
	// avoid a typed-nil interface when RabbitMQ is disabled
	if pub := container.GetRabbitPub(); pub != nil {
		opts = append(opts, authapp.WithJobs(pub))
	}
	service := authapp.NewService(repo, container.GetJWT(), container.GetLogger(), opts...)

	return AuthModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handlers.NewAuthHandler(service, container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	validation.Init()
	cfg := container.GetConfig()

	authDeps := buildAuthDeps()
	r.Add(modules.NewSystemModule(authDeps.Handler))
	r.Add(modules.NewAuthModule(authDeps.Handler, container.GetJWT(), cfg.RateLimitEnabled))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

// New builds a fully wired engine from the container; cmd/main.go and the API tests share it.
func New() *gin.Engine {
	cfg := container.GetConfig()

	engine := gin.New()
	engine.Use(middleware.Recovery(container.GetLogger()))
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RealIP(cfg.TrustProxyHeaders))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		engine.Use(middleware.AccessLog(container.GetLogger()))
	}

	reg := NewRegistry(engine)
	InitModules(reg)
	reg.RegisterAll(container.GetLogger())
	return engine
}
