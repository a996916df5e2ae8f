package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/accredhub/abet/core/compliance"
)

type complianceApi struct {
	svc  *compliance.Service
	calc *compliance.Calculator
}

func registerComplianceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *compliance.Service, calc *compliance.Calculator) {
	api := complianceApi{svc: svc, calc: calc}

	cg := g.Group("/compliance", jwt)

	// dashboards
	cg.GET("/dashboard", api.dashboard)
	cg.GET("/methods-dashboard", api.methodsDashboard)

	// bookkeeping records
	sg := cg.Group("/syllabi")
	sg.POST("", api.recordSyllabus, staffMiddleware())
	sg.GET("", api.querySyllabi)

	tg := cg.Group("/faculty-training")
	tg.POST("", api.recordFacultyTraining, staffMiddleware())
	tg.GET("", api.queryFacultyTraining)
	tg.GET("/stats", api.facultyTrainingStats)

	mg := cg.Group("/methods")
	mg.POST("", api.createMethod, adminMiddleware())
	mg.GET("", api.queryMethods)

	cg.POST("/method-records", api.recordMethodResult, facultyMiddleware())

	// KPI snapshots
	cg.POST("/snapshot", api.snapshot, adminMiddleware())
	cg.GET("/snapshots", api.querySnapshots)
}

func (api *complianceApi) dashboard(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.calc.Report(ctx.Request().Context()))
}

func (api *complianceApi) methodsDashboard(ctx echo.Context) error {
	dash, err := api.calc.MethodsDashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building methods dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *complianceApi) recordSyllabus(ctx echo.Context) error {
	var data compliance.NewSyllabus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSyllabus")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	syl, err := api.svc.RecordSyllabus(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording syllabus")
	}
	return ctx.JSON(http.StatusCreated, syl)
}

func (api *complianceApi) querySyllabi(ctx echo.Context) error {
	syllabi, err := api.svc.QuerySyllabi(ctx.Request().Context(), ctx.QueryParam("academic_year"))
	if err != nil {
		return errors.Wrap(err, "querying syllabi")
	}
	if syllabi == nil {
		syllabi = []compliance.Syllabus{}
	}
	return ctx.JSON(http.StatusOK, syllabi)
}

func (api *complianceApi) recordFacultyTraining(ctx echo.Context) error {
	var data compliance.NewFacultyTraining
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFacultyTraining")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	ft, err := api.svc.RecordFacultyTraining(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording faculty training")
	}
	return ctx.JSON(http.StatusCreated, ft)
}

func (api *complianceApi) facultyTrainingStats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.calc.TrainingStats(ctx.Request().Context()))
}

func (api *complianceApi) queryFacultyTraining(ctx echo.Context) error {
	trainings, err := api.svc.QueryFacultyTraining(ctx.Request().Context(), ctx.QueryParam("academic_year"))
	if err != nil {
		return errors.Wrap(err, "querying faculty training")
	}
	if trainings == nil {
		trainings = []compliance.FacultyTraining{}
	}
	return ctx.JSON(http.StatusOK, trainings)
}

func (api *complianceApi) createMethod(ctx echo.Context) error {
	var data compliance.NewMethod
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMethod")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	m, err := api.svc.CreateMethod(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assessment method")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *complianceApi) queryMethods(ctx echo.Context) error {
	activeOnly := ctx.QueryParam("active") != "false"
	methods, err := api.svc.QueryMethods(ctx.Request().Context(), activeOnly)
	if err != nil {
		return errors.Wrap(err, "querying assessment methods")
	}
	if methods == nil {
		methods = []compliance.Method{}
	}
	return ctx.JSON(http.StatusOK, methods)
}

func (api *complianceApi) recordMethodResult(ctx echo.Context) error {
	var data compliance.NewMethodRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMethodRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	rec, err := api.svc.RecordMethodResult(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording method result")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *complianceApi) snapshot(ctx echo.Context) error {
	snapshots, err := api.calc.Snapshot(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "persisting metric snapshots")
	}
	return ctx.JSON(http.StatusCreated, snapshots)
}

func (api *complianceApi) querySnapshots(ctx echo.Context) error {
	snapshots, err := api.svc.QuerySnapshots(ctx.Request().Context(), ctx.QueryParam("academic_year"))
	if err != nil {
		return errors.Wrap(err, "querying metric snapshots")
	}
	if snapshots == nil {
		snapshots = []compliance.MetricSnapshot{}
	}
	return ctx.JSON(http.StatusOK, snapshots)
}
