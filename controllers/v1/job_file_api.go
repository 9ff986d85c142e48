package apiv1

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"creative-tools-backend/controllers"
	filestorage "creative-tools-backend/lib/file-storage"
	"creative-tools-backend/middleware"
	apimodels "creative-tools-backend/models/api"
)

type jobFileApiController struct {
	controllers.BaseAPIController
}

func InitJobFileApiRouters(app *fiber.App) {
	controller := jobFileApiController{}
	app.Route("jobs/:id/files", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Post("", controller.upload)
		router.Get("", controller.list)
	})
	app.Route("job-files/:id", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("", controller.download)
		router.Delete("", controller.delete)
	})
}

// @Summary Загрузить вложение
// @Tags Вложения работ
// @Description Загрузить файл вложения к работе
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Param   file				formData	file	true	"file"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/files [post]
func (c *jobFileApiController) upload(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buffer, err := file.Open()
	if err != nil {
		log.WithError(err).Error("ошибка при получении файла вложения")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()
	fileBody, err := io.ReadAll(buffer)
	if err != nil {
		log.WithError(err).Error("ошибка при загрузке файла вложения")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	contentType := file.Header.Get(fiber.HeaderContentType)
	id, err := filestorage.Instance.UploadJobFile(ctx.UserContext(), middleware.GetPrincipal(ctx), jobID, file.Filename, contentType, fileBody)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(id))
}

// @Summary Список вложений
// @Tags Вложения работ
// @Description Список вложений работы
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/files [get]
func (c *jobFileApiController) list(ctx *fiber.Ctx) error {
	jobID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := filestorage.Instance.ListJobFiles(middleware.GetUserSpace(ctx), jobID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Скачать вложение
// @Tags Вложения работ
// @Description Скачать файл вложения по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "file ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/job-files/{id} [get]
func (c *jobFileApiController) download(ctx *fiber.Ctx) error {
	fileID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, rec, err := filestorage.Instance.GetJobFile(ctx.UserContext(), middleware.GetUserSpace(ctx), fileID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, rec.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%v"`, rec.FileName))
	return ctx.Status(fiber.StatusOK).Send(body)
}

// @Summary Удалить вложение
// @Tags Вложения работ
// @Description Удалить файл вложения по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "file ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/job-files/{id} [delete]
func (c *jobFileApiController) delete(ctx *fiber.Ctx) error {
	fileID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = filestorage.Instance.DeleteJobFile(ctx.UserContext(), middleware.GetUserSpace(ctx), fileID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
