package dict

import (
	"github.com/gofiber/fiber/v2"

	"creative-tools-backend/controllers"
	jobtypeprovider "creative-tools-backend/lib/dicts/job-type"
	"creative-tools-backend/middleware"
	apimodels "creative-tools-backend/models/api"
	dictapimodels "creative-tools-backend/models/api/dict"
)

type jobTypeDictApiController struct {
	controllers.BaseAPIController
}

func InitJobTypeDictApiRouters(app *fiber.App) {
	controller := jobTypeDictApiController{}
	app.Route("job-type", func(router fiber.Router) {
		router.Get("list", controller.jobTypeList)
		router.Get(":id", controller.jobTypeGet)
		router.Use(middleware.SpaceManagerRequired())
		router.Post("", controller.jobTypeCreate)
		router.Put(":id", controller.jobTypeUpdate)
		router.Delete(":id", controller.jobTypeDelete)
	})
}

// @Summary Создание
// @Tags Справочник. Виды работ
// @Description Создание вида работ, связь в цепочку проверяется на циклы и глубину
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.JobTypeData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/job-type [post]
func (c *jobTypeDictApiController) jobTypeCreate(ctx *fiber.Ctx) error {
	var payload dictapimodels.JobTypeData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := jobtypeprovider.Instance.Create(middleware.GetUserSpace(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Обновление
// @Tags Справочник. Виды работ
// @Description Обновление вида работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 dictapimodels.JobTypeData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/job-type/{id} [put]
func (c *jobTypeDictApiController) jobTypeUpdate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload dictapimodels.JobTypeData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = jobtypeprovider.Instance.Update(middleware.GetUserSpace(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получение по ИД
// @Tags Справочник. Виды работ
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.JobTypeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/job-type/{id} [get]
func (c *jobTypeDictApiController) jobTypeGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := jobtypeprovider.Instance.Get(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Список
// @Tags Справочник. Виды работ
// @Description Список видов работ пространства
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.JobTypeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/job-type/list [get]
func (c *jobTypeDictApiController) jobTypeList(ctx *fiber.Ctx) error {
	list, err := jobtypeprovider.Instance.List(middleware.GetUserSpace(ctx))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Удаление
// @Tags Справочник. Виды работ
// @Description Удаление вида работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/job-type/{id} [delete]
func (c *jobTypeDictApiController) jobTypeDelete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = jobtypeprovider.Instance.Delete(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
