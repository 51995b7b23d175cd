package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
)

type requestApi struct {
	svc     request.Service
	usrSvc  user.Service
	confSvc settings.Service
	hub     *Hub
}

func registerRequestAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc request.Service,
	usrSvc user.Service,
	confSvc settings.Service,
	hub *Hub,
) {
	api := requestApi{svc: svc, usrSvc: usrSvc, confSvc: confSvc, hub: hub}

	g.GET("/bootstrap", api.bootstrap, jwt)

	rg := g.Group("/requests", jwt)
	rg.GET("", api.query)
	rg.GET("/form", api.formConfig)
	rg.POST("", api.create, permissionMiddleware(func(p user.Permission) bool { return p.CanCreate }))
	rg.PUT("/:id", api.update)
	rg.PUT("/:id/status", api.changeStatus, permissionMiddleware(func(p user.Permission) bool { return p.CanApprove }))
	rg.DELETE("/:id", api.destroy, permissionMiddleware(func(p user.Permission) bool { return p.CanDelete }))
	if hub != nil {
		rg.GET("/watch", api.watch)
	}
}

// Handlers

// bootstrap returns everything a fresh session needs: the visible requests,
// the system configuration and, for admins, the user list.
func (api *requestApi) bootstrap(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	reqs, err := api.svc.Query(request.QueryFilter{}, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "querying requests")
	}
	conf, err := api.confSvc.Get()
	if err != nil {
		return errors.Wrap(err, "getting settings")
	}

	payload := BootstrapResponse{Requests: reqs, Config: conf}
	if ctxUsr.IsAdmin() {
		if payload.Users, err = api.usrSvc.QueryAll(); err != nil {
			return errors.Wrap(err, "querying users")
		}
	}
	return ctx.JSON(http.StatusOK, payload)
}

func (api *requestApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(request.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []request.LeaveRequest{})
	}

	reqs, err := api.svc.Query(*filter, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "querying requests")
	}
	return ctx.JSON(http.StatusOK, reqs)
}

// formConfig returns the leave request form fields for the acting user.
func (api *requestApi) formConfig(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	conf, err := api.confSvc.Get()
	if err != nil {
		return errors.Wrap(err, "getting settings")
	}
	return ctx.JSON(http.StatusOK, request.BuildFormConfig(request.BaseFormConfig(), conf, ctxUsr))
}

func (api *requestApi) create(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data request.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}

	req, err := api.svc.Create(data, ctxUsr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *requestApi) update(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data request.UpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRequest")
	}

	req, err := api.svc.Update(ctx.Param("id"), data, ctxUsr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *requestApi) changeStatus(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data StatusChangeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusChangeRequest")
	}

	req, err := api.svc.ChangeStatus(ctx.Param("id"), data.Status, ctxUsr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *requestApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.Delete(ctx.Param("id"), ctxUsr); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *requestApi) watch(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return api.hub.Subscribe(ctx, ctxUsr)
}

type (
	BootstrapResponse struct {
		Users    []user.User            `json:"users,omitempty"`
		Requests []request.LeaveRequest `json:"requests"`
		Config   settings.Settings      `json:"config"`
	}

	StatusChangeRequest struct {
		Status request.Status `json:"status"`
	}
)
