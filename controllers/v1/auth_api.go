package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"creative-tools-backend/controllers"
	spaceauthhandler "creative-tools-backend/lib/space/auth"
	spaceusershandler "creative-tools-backend/lib/space/users/handler"
	"creative-tools-backend/middleware"
	apimodels "creative-tools-backend/models/api"
	spaceapimodels "creative-tools-backend/models/api/space"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("login", controller.login)
		router.Post("refresh", middleware.AuthorizationRequired(), controller.refresh)
		router.Get("me", middleware.AuthorizationRequired(), controller.me)
	})
}

// @Summary Авторизация
// @Tags Авторизация
// @Description Авторизация по почте и паролю
// @Param	body	body	spaceapimodels.LoginData	true	"request body"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.TokenResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload spaceapimodels.LoginData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := spaceauthhandler.Instance.Login(payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Обновление пары токенов
// @Tags Авторизация
// @Description Обновление пары токенов по refresh токену
// @Param   Authorization		header		string	true	"Refresh token"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.TokenResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/refresh [post]
func (c *authApiController) refresh(ctx *fiber.Ctx) error {
	resp, err := spaceauthhandler.Instance.Refresh(middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Профиль текущего пользователя
// @Tags Авторизация
// @Description Профиль текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.SpaceUser}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	user, err := spaceusershandler.Instance.GetByID(middleware.GetUserSpace(ctx), middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(user))
}
