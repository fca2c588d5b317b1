package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/studiumapp/backend/core"
	"github.com/studiumapp/backend/core/notification"
)

type notificationApi struct {
	svc      *notification.Service
	mailSvc  core.EmailService
	validate *validator.Validate
}

func registerNotificationAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *notification.Service,
	mailSvc core.EmailService,
	validate *validator.Validate,
) {
	api := notificationApi{
		svc:      svc,
		mailSvc:  mailSvc,
		validate: validate,
	}

	ng := g.Group("/notifications")

	// un-authed endpoints
	ng.GET("/click", api.click)

	// authed endpoints
	ag := ng.Group("", jwt)
	ag.GET("/settings", api.retrieveSettings)
	ag.PUT("/settings", api.updateSettings)
}

// Handlers

// click resolves a clicked notification to its calendar deep link.
func (api *notificationApi) click(ctx echo.Context) error {
	tag := ctx.QueryParam("tag")
	action := ctx.QueryParam("action")
	target := notification.ClickTarget(tag, action)
	return ctx.Redirect(http.StatusFound, core.Conf.FrontendBaseURL+target)
}

func (api *notificationApi) retrieveSettings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	s, err := api.svc.GetByUserID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding settings by user ID")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *notificationApi) updateSettings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data notification.Settings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Settings")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	data.UserID = claims.Subject

	saved, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving settings")
	}

	if claims.Email != "" {
		api.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Address: claims.Email}},
			Subject:      "Your notification settings were updated",
			TemplateName: "settings-updated",
			TemplateData: saved,
		})
	}

	return ctx.JSON(http.StatusOK, saved)
}
