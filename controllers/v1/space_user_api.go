package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"creative-tools-backend/controllers"
	spaceusershandler "creative-tools-backend/lib/space/users/handler"
	"creative-tools-backend/middleware"
	apimodels "creative-tools-backend/models/api"
	spaceapimodels "creative-tools-backend/models/api/space"
)

type spaceUserController struct {
	controllers.BaseAPIController
}

func InitSpaceUserRouters(app *fiber.App) {
	controller := spaceUserController{}
	app.Route("users", func(usersRootRoute fiber.Router) {
		usersRootRoute.Use(middleware.AuthorizationRequired())
		usersRootRoute.Use(middleware.SpaceAdminRequired())
		usersRootRoute.Post("", controller.CreateUser)
		usersRootRoute.Post("list", controller.ListUsers)
		usersRootRoute.Route(":id", func(usersIDRoute fiber.Router) {
			usersIDRoute.Delete("", controller.DeleteUser)
			usersIDRoute.Put("", controller.UpdateUser)
			usersIDRoute.Get("", controller.GetUserByID)
		})
	})
}

// @Summary Создать нового пользователя
// @Tags Пользователи пространства
// @Description Создать нового пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		spaceapimodels.CreateUser	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *spaceUserController) CreateUser(ctx *fiber.Ctx) error {
	var payload spaceapimodels.CreateUser
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload.SpaceID = middleware.GetUserSpace(ctx)
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := spaceusershandler.Instance.CreateUser(payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(id))
}

// @Summary Удалить пользователя
// @Tags Пользователи пространства
// @Description Удалить пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"space user ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [delete]
func (c *spaceUserController) DeleteUser(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = spaceusershandler.Instance.DeleteUser(middleware.GetUserSpace(ctx), userID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Обновить пользователя
// @Tags Пользователи пространства
// @Description Обновить пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"space user ID"
// @Param	body				body		spaceapimodels.UpdateUser	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [put]
func (c *spaceUserController) UpdateUser(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload spaceapimodels.UpdateUser
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = spaceusershandler.Instance.UpdateUser(middleware.GetUserSpace(ctx), userID, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получить список пользователей пространства
// @Tags Пользователи пространства
// @Description Получить список пользователей пространства
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]spaceapimodels.SpaceUser}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/list [post]
func (c *spaceUserController) ListUsers(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	page, limit := payload.GetPage()
	list, err := spaceusershandler.Instance.GetListUsers(middleware.GetUserSpace(ctx), page, limit)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Получить пользователя по ИД
// @Tags Пользователи пространства
// @Description Получить пользователя по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"space user ID"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.SpaceUser}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [get]
func (c *spaceUserController) GetUserByID(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	user, err := spaceusershandler.Instance.GetByID(middleware.GetUserSpace(ctx), userID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(user))
}
