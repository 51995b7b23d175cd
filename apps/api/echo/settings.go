package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
	uploadsvc "github.com/nvthanh/eduleave/services/upload"
)

type settingsApi struct {
	svc       settings.Service
	usrSvc    user.Service
	uploadSvc uploadsvc.Service
}

func registerSettingsAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc settings.Service,
	usrSvc user.Service,
	uploadSvc uploadsvc.Service,
) {
	api := settingsApi{svc: svc, usrSvc: usrSvc, uploadSvc: uploadSvc}

	g.GET("/settings", api.retrieve)
	g.PUT("/settings", api.save, jwt, permissionMiddleware(func(p user.Permission) bool { return p.CanConfigure }))
	if uploadSvc != nil {
		g.POST("/uploads", api.upload, jwt)
	}
}

// Handlers

func (api *settingsApi) retrieve(ctx echo.Context) error {
	conf, err := api.svc.Get()
	if err != nil {
		return errors.Wrap(err, "getting settings")
	}
	return ctx.JSON(http.StatusOK, conf)
}

func (api *settingsApi) save(ctx echo.Context) error {
	var data settings.UpdateSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSettings")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	conf, err := api.svc.Save(data)
	if err != nil {
		return errors.Wrap(err, "saving settings")
	}
	return ctx.JSON(http.StatusOK, conf)
}

// upload stores a leave request attachment and returns its public URL.
func (api *settingsApi) upload(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	url, err := api.uploadSvc.Save(fh.Filename, src)
	if err != nil {
		switch err {
		case uploadsvc.ErrFileTooLarge, uploadsvc.ErrUnsupportedType:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return errors.Wrap(err, "saving upload")
	}
	return ctx.JSON(http.StatusCreated, UploadResponse{URL: url})
}

type UploadResponse struct {
	URL string `json:"url"`
}
