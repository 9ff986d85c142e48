package controllers

import (
	"creative-tools-backend/models"
	apimodels "creative-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("не указан идентификатор записи")
	}
	return id, nil
}

// SendError единый ответ об ошибке, тип бизнес-ошибки определяет http статус
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, err error) error {
	kind, ok := models.GetErrKind(err)
	if ok {
		switch kind {
		case models.ErrKindValidation:
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		case models.ErrKindNotFound:
			return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
		case models.ErrKindAlreadyProcessed:
			return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
		}
	}
	log.WithError(err).Error("внутренняя ошибка обработки запроса")
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("внутренняя ошибка"))
}
