package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/accredhub/abet/core/assessment"
	"github.com/accredhub/abet/core/catalog"
)

// defaultEventLimit caps the activity feed when no limit is given.
const defaultEventLimit = 10

type dashboardApi struct {
	svc        *assessment.Service
	catalogSvc *catalog.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assessment.Service, catalogSvc *catalog.Service) {
	api := dashboardApi{svc: svc, catalogSvc: catalogSvc}

	dg := g.Group("/dashboard", jwt)
	dg.GET("/stats", api.stats)
	dg.GET("/courses", api.courses)
	dg.GET("/outcomes", api.outcomes)
	dg.GET("/events", api.events)
	dg.GET("/program-averages", api.programAverages)
	dg.GET("/program-averages/:id", api.programAverage)
}

func (api *dashboardApi) stats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Engine().DashboardStats(ctx.Request().Context()))
}

func (api *dashboardApi) courses(ctx echo.Context) error {
	summaries, err := api.svc.Engine().CourseSummaries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building course summaries")
	}
	if summaries == nil {
		summaries = []assessment.CourseSummary{}
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *dashboardApi) outcomes(ctx echo.Context) error {
	statuses, err := api.svc.Engine().OutcomeDashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building outcome dashboard")
	}
	if statuses == nil {
		statuses = []assessment.OutcomeStatus{}
	}
	return ctx.JSON(http.StatusOK, statuses)
}

func (api *dashboardApi) events(ctx echo.Context) error {
	limit := defaultEventLimit
	if param := ctx.QueryParam("limit"); param != "" {
		n, err := strconv.Atoi(param)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}
	events, err := api.svc.QueryRecentEvents(ctx.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "querying recent events")
	}
	if events == nil {
		events = []assessment.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *dashboardApi) programAverages(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	programs, err := api.catalogSvc.QueryPrograms(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}

	averages := make([]assessment.ProgramAverage, 0, len(programs))
	for _, prog := range programs {
		avg, err := api.svc.Engine().ProgramAverageScore(reqCtx, prog.ID)
		if err != nil {
			return errors.Wrapf(err, "averaging program %s", prog.ID)
		}
		averages = append(averages, avg)
	}
	return ctx.JSON(http.StatusOK, averages)
}

func (api *dashboardApi) programAverage(ctx echo.Context) error {
	avg, err := api.svc.Engine().ProgramAverageScore(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "averaging program")
	}
	return ctx.JSON(http.StatusOK, avg)
}
