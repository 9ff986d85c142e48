package apiv1

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"creative-tools-backend/controllers"
	activityloghandler "creative-tools-backend/lib/activity-log"
	xlsexport "creative-tools-backend/lib/export/xls"
	jobhandler "creative-tools-backend/lib/job"
	rejectionrequesthandler "creative-tools-backend/lib/rejection-request"
	"creative-tools-backend/middleware"
	apimodels "creative-tools-backend/models/api"
	jobapimodels "creative-tools-backend/models/api/job"
)

type jobApiController struct {
	controllers.BaseAPIController
}

func InitJobApiRouters(app *fiber.App) {
	controller := jobApiController{}
	app.Route("jobs", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Post("export", controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("approve", controller.approve)
			idRoute.Put("reject", controller.reject)
			idRoute.Put("assign", controller.assign)
			idRoute.Put("complete", controller.complete)
			idRoute.Put("cancel", controller.cancel)
			idRoute.Put("extend", controller.extend)
			idRoute.Get("approvals", controller.approvals)
			idRoute.Get("activity", controller.activity)
			idRoute.Post("rejection-request", controller.rejectionRequest)
			idRoute.Get("rejection-requests", controller.rejectionRequests)
		})
	})
	app.Route("rejection-requests", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Put(":id/approve", controller.rejectionApprove)
		router.Put(":id/deny", controller.rejectionDeny)
	})
}

// @Summary Создать работу
// @Tags Работы
// @Description Создать работу, при необходимости с планированием цепочки последователей
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		jobapimodels.JobCreateData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs [post]
func (c *jobApiController) create(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := jobhandler.Instance.Create(middleware.GetPrincipal(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(id))
}

// @Summary Список работ
// @Tags Работы
// @Description Список работ пространства с фильтром и пагинацией
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		jobapimodels.JobFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]jobapimodels.JobView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/list [post]
func (c *jobApiController) list(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := jobhandler.Instance.List(middleware.GetUserSpace(ctx), payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Выгрузка работ в xlsx
// @Tags Работы
// @Description Выгрузка списка работ по фильтру в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		jobapimodels.JobFilter	true	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/export [post]
func (c *jobApiController) export(ctx *fiber.Ctx) error {
	var payload jobapimodels.JobFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	// выгрузка игнорирует пагинацию запроса, собираем постранично
	payload.Limit = 100
	full := []jobapimodels.JobView{}
	for page := 1; ; page++ {
		payload.Page = page
		list, _, err := jobhandler.Instance.List(spaceID, payload)
		if err != nil {
			return c.SendError(ctx, err)
		}
		full = append(full, list...)
		if len(list) < payload.Limit {
			break
		}
	}
	buf, err := xlsexport.Instance.ExportJobList(full)
	if err != nil {
		return c.SendError(ctx, err)
	}
	fileName := fmt.Sprintf("jobs_%v.xlsx", time.Now().Format("02-01-2006"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%v"`, fileName))
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Получить работу
// @Tags Работы
// @Description Карточка работы по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id} [get]
func (c *jobApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := jobhandler.Instance.GetByID(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	if view == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("работа не найдена"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Согласовать работу
// @Tags Работы
// @Description Решение согласующего на текущем этапе согласования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Param	body				body		jobapimodels.ApprovalDecision	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/approve [put]
func (c *jobApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload jobapimodels.ApprovalDecision
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload.IP = ctx.IP()
	payload.UserAgent = ctx.Get(fiber.HeaderUserAgent)
	err = jobhandler.Instance.Approve(middleware.GetPrincipal(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отклонить работу
// @Tags Работы
// @Description Отклонение работы согласующим, комментарий обязателен
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Param	body				body		jobapimodels.ApprovalDecision	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/reject [put]
func (c *jobApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload jobapimodels.ApprovalDecision
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	payload.IP = ctx.IP()
	payload.UserAgent = ctx.Get(fiber.HeaderUserAgent)
	err = jobhandler.Instance.Reject(middleware.GetPrincipal(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Назначить исполнителя
// @Tags Работы
// @Description Ручное назначение исполнителя на согласованную работу
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Param	body				body		jobapimodels.AssignData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/assign [put]
func (c *jobApiController) assign(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload jobapimodels.AssignData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = jobhandler.Instance.Assign(middleware.GetPrincipal(ctx), id, payload.AssigneeID)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Завершить работу
// @Tags Работы
// @Description Завершение работы исполнителем, запускает работы-последователи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/complete [put]
func (c *jobApiController) complete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = jobhandler.Instance.Complete(middleware.GetPrincipal(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отменить работу
// @Tags Работы
// @Description Отмена работы инициатором или администратором
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Param	body				body		jobapimodels.CancelData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/cancel [put]
func (c *jobApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload jobapimodels.CancelData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = jobhandler.Instance.Cancel(middleware.GetPrincipal(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Продлить срок работы
// @Tags Работы
// @Description Продление срока в рабочих днях, исходный срок сохраняется
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Param	body				body		jobapimodels.ExtensionData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/extend [put]
func (c *jobApiController) extend(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload jobapimodels.ExtensionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = jobhandler.Instance.ExtendDueDate(middleware.GetPrincipal(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary История согласования
// @Tags Работы
// @Description Записи согласования работы по этапам
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/approvals [get]
func (c *jobApiController) approvals(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := jobhandler.Instance.ListApprovals(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Журнал активности
// @Tags Работы
// @Description Журнал действий по работе
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.ActivityView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/activity [get]
func (c *jobApiController) activity(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := activityloghandler.Instance.ListByJob(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Запросить отказ от работы
// @Tags Работы
// @Description Запрос исполнителя на отказ от работы в производстве
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Param	body				body		jobapimodels.RejectionRequestData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/rejection-request [post]
func (c *jobApiController) rejectionRequest(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload jobapimodels.RejectionRequestData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	requestID, err := rejectionrequesthandler.Instance.Request(middleware.GetPrincipal(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(requestID))
}

// @Summary Запросы на отказ по работе
// @Tags Работы
// @Description Список запросов на отказ по работе
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "job ID"
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.RejectionRequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/rejection-requests [get]
func (c *jobApiController) rejectionRequests(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := rejectionrequesthandler.Instance.ListByJob(middleware.GetUserSpace(ctx), id)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Согласовать отказ
// @Tags Работы
// @Description Согласование запроса на отказ, работа уходит в терминальный статус
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "request ID"
// @Param	body				body		jobapimodels.RejectionDecisionData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/rejection-requests/{id}/approve [put]
func (c *jobApiController) rejectionApprove(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload jobapimodels.RejectionDecisionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = rejectionrequesthandler.Instance.Approve(middleware.GetPrincipal(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отказать в отказе
// @Tags Работы
// @Description Отказ по запросу на отказ, работа возвращается в производство
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    	string  true    "request ID"
// @Param	body				body		jobapimodels.RejectionDecisionData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/rejection-requests/{id}/deny [put]
func (c *jobApiController) rejectionDeny(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload jobapimodels.RejectionDecisionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = rejectionrequesthandler.Instance.Deny(middleware.GetPrincipal(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
