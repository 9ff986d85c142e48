package middleware

import (
	authutils "creative-tools-backend/lib/utils/auth-utils"
	"creative-tools-backend/models"
	apimodels "creative-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetUserSpace(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if space, exist := claims["space"]; exist {
		return space.(string)
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetSpaceRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

// GetPrincipal субъект запроса из jwt клеймов, собирается один раз на запрос
func GetPrincipal(ctx *fiber.Ctx) models.Principal {
	return models.Principal{
		UserID:  GetUserID(ctx),
		SpaceID: GetUserSpace(ctx),
		Role:    GetSpaceRole(ctx),
	}
}

func SpaceAdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if GetSpaceRole(ctx) != models.SpaceAdminRole {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}

// SpaceManagerRequired операции настройки производства доступны менеджеру и администратору
func SpaceManagerRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		role := GetSpaceRole(ctx)
		if role != models.SpaceAdminRole && role != models.SpaceManagerRole {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
