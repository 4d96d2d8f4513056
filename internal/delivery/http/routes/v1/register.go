package v1

import (
	"log"

	"skillswap/internal/database"
	"skillswap/internal/delivery/http/handler"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/infrastructure/cache"
	"skillswap/internal/notify"
	"skillswap/internal/pkg/jwt"
	"skillswap/internal/repository"
	ucauth "skillswap/internal/usecase/auth"
	ucmessage "skillswap/internal/usecase/message"
	ucrequest "skillswap/internal/usecase/request"
	ucskill "skillswap/internal/usecase/skill"
	ucuser "skillswap/internal/usecase/user"
	"skillswap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
	JWT    jwt.Service
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(deps.JWT)

	userRepo := repository.NewPostgresUserRepository(deps.DB)
	skillRepo := repository.NewPostgresSkillRepository(deps.DB)
	categoryRepo := repository.NewPostgresCategoryRepository(deps.DB)
	requestRepo := repository.NewPostgresRequestRepository(deps.DB)

	dispatcher := notify.NewDispatcher(deps.Hub, deps.Logger)

	authUC := ucauth.NewService(userRepo, deps.JWT)
	userUC := ucuser.NewService(userRepo)
	skillUC := ucskill.NewService(skillRepo, categoryRepo, deps.Cache)
	requestUC := ucrequest.NewService(requestRepo, skillRepo, userRepo, dispatcher)
	messageUC := ucmessage.NewService(userRepo, dispatcher)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(userUC)
	skillHandler := handler.NewSkillHandler(skillUC)
	categoryHandler := handler.NewCategoryHandler(skillUC)
	requestHandler := handler.NewRequestHandler(requestUC)
	messageHandler := handler.NewMessageHandler(messageUC)

	authHandler.RegisterRoutes(r.Group("/auth"))

	// Catalog browsing stays open; everything that acts on behalf of a
	// user sits behind the JWT middleware.
	skillHandler.RegisterPublicRoutes(r)
	categoryHandler.RegisterPublicRoutes(r)

	protected := r.Group("", authMw.Middleware())

	usersGroup := protected.Group("/users")
	userHandler.RegisterRoutes(usersGroup)
	skillHandler.RegisterRoutes(usersGroup)
	messageHandler.RegisterRoutes(usersGroup)

	requestHandler.RegisterRoutes(protected)
	categoryHandler.RegisterRoutes(protected)
}
