package echoapi

import (
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/task"
)

type taskApi struct {
	svc      *task.Service
	mailSvc  core.EmailService
	validate *validator.Validate
}

func registerTaskAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *task.Service,
	mailSvc core.EmailService,
	validate *validator.Validate,
) {
	api := taskApi{
		svc:      svc,
		mailSvc:  mailSvc,
		validate: validate,
	}

	tg := g.Group("/tasks", jwt)
	tg.POST("", api.create)
	tg.GET("/overdue", api.queryOverdue)
	tg.POST("/reschedule-overdue", api.rescheduleOverdue)

	// detail endpoints
	dg := tg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.POST("/complete", api.complete)
	dg.PUT("/due-date", api.updateDueDate)
}

// Handlers

func (api *taskApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	t, err := api.svc.GetByID(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding task by ID")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.Delete(ctx.Request().Context(), claims.Subject, ctx.Param("id")); err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *taskApi) complete(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	t, err := api.svc.Complete(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "completing task")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) updateDueDate(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data DueDateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DueDateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.UpdateDueDate(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data.DueDate)
	if err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating due date")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *taskApi) queryOverdue(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	tasks, err := api.svc.QueryOverdue(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying overdue tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) rescheduleOverdue(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	res, err := api.svc.RescheduleOverdue(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "rescheduling overdue tasks")
	}

	if len(res.Updated) > 0 && claims.Email != "" {
		api.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Address: claims.Email}},
			Subject:      "Your overdue tasks were rescheduled",
			TemplateName: "reschedule-summary",
			TemplateData: res,
		})
	}

	return ctx.JSON(http.StatusOK, RescheduleResponse{
		Success: fmt.Sprintf("%d task(s) rescheduled.", len(res.Updated)),
		Updated: res.Updated,
	})
}

type (
	DueDateRequest struct {
		DueDate time.Time `json:"due_date" validate:"required"`
	}

	RescheduleResponse struct {
		Success string               `json:"success"`
		Updated []task.DueDateUpdate `json:"updated"`
	}
)

func (r *DueDateRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
