package dict

import (
	"github.com/gofiber/fiber/v2"

	"creative-tools-backend/controllers"
	projectprovider "creative-tools-backend/lib/dicts/project"
	"creative-tools-backend/middleware"
	apimodels "creative-tools-backend/models/api"
	dictapimodels "creative-tools-backend/models/api/dict"
)

type projectDictApiController struct {
	controllers.BaseAPIController
}

func InitProjectDictApiRouters(app *fiber.App) {
	controller := projectDictApiController{}
	app.Route("project", func(router fiber.Router) {
		router.Get("list", controller.projectList)
		router.Get(":id", controller.projectGet)
		router.Get(":id/assignments", controller.assignmentList)
		router.Use(middleware.SpaceManagerRequired())
		router.Post("", controller.projectCreate)
		router.Put(":id", controller.projectUpdate)
		router.Delete(":id", controller.projectDelete)
		router.Post(":id/assignments", controller.assignmentSave)
		router.Delete(":id/assignments/:job_type_id", controller.assignmentDelete)
	})
}

// @Summary Создание
// @Tags Справочник. Проекты
// @Description Создание проекта
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.ProjectData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/project [post]
func (c *projectDictApiController) projectCreate(ctx *fiber.Ctx) error {
	var payload dictapimodels.ProjectData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := projectprovider.Instance.Create(middleware.GetUserSpace(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Обновление
// @Tags Справочник. Проекты
// @Description Обновление проекта
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 dictapimodels.ProjectData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/project/{id} [put]
func (c *projectDictApiController) projectUpdate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload dictapimodels.ProjectData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = projectprovider.Instance.Update(middleware.GetUserSpace(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получение по ИД
// @Tags Справочник. Проекты
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.ProjectView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/project/{id} [get]
func (c *projectDictApiController) projectGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := projectprovider.Instance.Get(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Список
// @Tags Справочник. Проекты
// @Description Список проектов пространства
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.ProjectView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/project/list [get]
func (c *projectDictApiController) projectList(ctx *fiber.Ctx) error {
	list, err := projectprovider.Instance.List(middleware.GetUserSpace(ctx))
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Удаление
// @Tags Справочник. Проекты
// @Description Удаление проекта
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/project/{id} [delete]
func (c *projectDictApiController) projectDelete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = projectprovider.Instance.Delete(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Сохранить исполнителя по умолчанию
// @Tags Справочник. Проекты
// @Description Исполнитель по умолчанию для вида работ на проекте
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "project ID"
// @Param	body body	 dictapimodels.AssignmentData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/project/{id}/assignments [post]
func (c *projectDictApiController) assignmentSave(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload dictapimodels.AssignmentData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = projectprovider.Instance.SaveAssignment(middleware.GetUserSpace(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список исполнителей по умолчанию
// @Tags Справочник. Проекты
// @Description Список исполнителей по умолчанию проекта
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "project ID"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.AssignmentData}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/project/{id}/assignments [get]
func (c *projectDictApiController) assignmentList(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := projectprovider.Instance.ListAssignments(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Удалить исполнителя по умолчанию
// @Tags Справочник. Проекты
// @Description Удалить исполнителя по умолчанию для вида работ
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "project ID"
// @Param   job_type_id    		path    string  				    	true         "job type ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/project/{id}/assignments/{job_type_id} [delete]
func (c *projectDictApiController) assignmentDelete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	jobTypeID := ctx.Params("job_type_id")
	if jobTypeID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан вид работ"))
	}
	err = projectprovider.Instance.DeleteAssignment(middleware.GetUserSpace(ctx), id, jobTypeID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
