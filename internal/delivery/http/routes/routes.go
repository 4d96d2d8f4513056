package routes

import (
	"log"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/delivery/http/handler"
	"skillswap/internal/infrastructure/cache"
	"skillswap/internal/pkg/jwt"
	"skillswap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Deps carries the shared infrastructure every route group draws from.
type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

type Registry struct {
	deps   Deps
	jwtSvc jwt.Service
	health *handler.HealthHandler
	socket *ws.Handler
}

func NewRegistry(deps Deps) *Registry {
	jwtSvc := jwt.NewHMACService(
		deps.Config.JWT.AccessSecret,
		deps.Config.JWT.RefreshSecret,
		deps.Config.JWT.AccessExpiresIn,
		deps.Config.JWT.RefreshExpiresIn,
	)

	return &Registry{
		deps:   deps,
		jwtSvc: jwtSvc,
		health: handler.NewHealthHandler(deps.DB),
		socket: ws.NewHandler(deps.Hub, jwtSvc, deps.Logger),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerSocket(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerSocket(app *fiber.App) {
	app.Get("/ws", r.socket.HandleWS)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.deps, r.jwtSvc)
}
