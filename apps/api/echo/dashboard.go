package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core/childcare"
	"github.com/trezcool/tadika/core/dashboard"
	"github.com/trezcool/tadika/core/nav"
	"github.com/trezcool/tadika/core/profile"
)

type navResponse struct {
	Role    string      `json:"role"`
	Entries []nav.Entry `json:"entries"`
}

type dashboardApi struct {
	opts *Options
}

func registerDashboardAPI(g *echo.Group, opts *Options) {
	api := dashboardApi{opts: opts}

	g.GET("", api.view)
	g.GET("/nav", api.nav)
	g.GET("/announcements", api.announcements)
	g.POST("/announcements", api.announce, guardMiddleware(profile.RoleAdmin))
	g.POST("/activities", api.logActivity, guardMiddleware(profile.RoleTeacher))
	g.POST("/attendance/check-in", api.checkIn, guardMiddleware(profile.RoleTeacher))
	g.POST("/attendance/check-out", api.checkOut, guardMiddleware(profile.RoleTeacher))
}

// contextProfile returns the profile of a request that went through the guard.
func contextProfile(ctx echo.Context) profile.Profile {
	st := contextState(ctx)
	if st.Profile == nil {
		return profile.Profile{}
	}
	return *st.Profile
}

func (api *dashboardApi) language(ctx echo.Context) profile.Language {
	return contextStore(ctx).Language()
}

// Handlers

func (api *dashboardApi) view(ctx echo.Context) error {
	view := api.opts.Dashboard.Dispatch(ctx.Request().Context(), contextProfile(ctx))
	if inv, ok := view.(*dashboard.InvalidRoleView); ok {
		inv.Notice = api.opts.I18n.T(api.language(ctx), "invalidRole")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *dashboardApi) nav(ctx echo.Context) error {
	prof := contextProfile(ctx)
	lang := api.language(ctx)
	entries := nav.ForRole(prof.Role)
	for i := range entries {
		entries[i].Label = api.opts.I18n.T(lang, entries[i].Label)
	}
	if entries == nil {
		entries = []nav.Entry{}
	}
	return ctx.JSON(http.StatusOK, navResponse{Role: string(prof.Role), Entries: entries})
}

func (api *dashboardApi) announcements(ctx echo.Context) error {
	lim := new(Limit)
	lim.Bind(ctx)

	anns, err := api.opts.Childcare.Announcements(ctx.Request().Context(), contextState(ctx).Role(), lim.Value)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if anns == nil {
		anns = []childcare.Announcement{}
	}
	return ctx.JSON(http.StatusOK, anns)
}

func (api *dashboardApi) announce(ctx echo.Context) error {
	var data childcare.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	ann, err := api.opts.Childcare.Announce(ctx.Request().Context(), contextProfile(ctx).ID, data)
	if err != nil {
		return errors.Wrap(err, "posting announcement")
	}
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *dashboardApi) logActivity(ctx echo.Context) error {
	var data childcare.NewActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	act, err := api.opts.Childcare.LogActivity(ctx.Request().Context(), contextProfile(ctx).ID, data)
	if err != nil {
		return errors.Wrap(err, "logging activity")
	}
	return ctx.JSON(http.StatusCreated, act)
}

func (api *dashboardApi) attendance(ctx echo.Context, checkOut bool) error {
	var data childcare.AttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceRequest")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	record := api.opts.Childcare.CheckIn
	if checkOut {
		record = api.opts.Childcare.CheckOut
	}
	att, err := record(ctx.Request().Context(), contextProfile(ctx).ID, data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *dashboardApi) checkIn(ctx echo.Context) error  { return api.attendance(ctx, false) }
func (api *dashboardApi) checkOut(ctx echo.Context) error { return api.attendance(ctx, true) }

