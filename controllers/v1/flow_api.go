package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"creative-tools-backend/controllers"
	approvalflowhandler "creative-tools-backend/lib/approval-flow"
	"creative-tools-backend/middleware"
	apimodels "creative-tools-backend/models/api"
	flowapimodels "creative-tools-backend/models/api/flow"
)

type flowApiController struct {
	controllers.BaseAPIController
}

func InitFlowApiRouters(app *fiber.App) {
	controller := flowApiController{}
	app.Route("flows", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Use(middleware.SpaceManagerRequired())
		router.Post("", controller.save)
		router.Post("list", controller.list)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Delete("", controller.delete)
		})
	})
}

type flowListFilter struct {
	ProjectID string `json:"project_id"`
}

// @Summary Сохранить настройку согласования
// @Tags Настройки согласования
// @Description Создать или обновить настройку согласования для пары проект/вид работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		flowapimodels.FlowData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flows [post]
func (c *flowApiController) save(ctx *fiber.Ctx) error {
	var payload flowapimodels.FlowData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, hMsg, err := approvalflowhandler.Instance.Save(middleware.GetUserSpace(ctx), payload)
	if err != nil {
		if hMsg != "" {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
		}
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список настроек согласования
// @Tags Настройки согласования
// @Description Список настроек согласования, опционально по проекту
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		flowListFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]flowapimodels.FlowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flows/list [post]
func (c *flowApiController) list(ctx *fiber.Ctx) error {
	var payload flowListFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := approvalflowhandler.Instance.List(middleware.GetUserSpace(ctx), payload.ProjectID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Получить настройку согласования
// @Tags Настройки согласования
// @Description Получить настройку согласования по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response{data=flowapimodels.FlowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flows/{id} [get]
func (c *flowApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	flow, err := approvalflowhandler.Instance.GetByID(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if flow == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("настройка согласования не найдена"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(flowapimodels.FlowConvert(*flow)))
}

// @Summary Удалить настройку согласования
// @Tags Настройки согласования
// @Description Удалить настройку согласования по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/flows/{id} [delete]
func (c *flowApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = approvalflowhandler.Instance.Delete(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
