package routes

import (
	v1 "skillswap/internal/delivery/http/routes/v1"
	"skillswap/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, deps Deps, jwtSvc jwt.Service) {
	if r == nil {
		return
	}

	v1.Register(r, v1.Deps{
		DB:     deps.DB,
		Cache:  deps.Cache,
		Hub:    deps.Hub,
		Logger: deps.Logger,
		JWT:    jwtSvc,
	})
}
