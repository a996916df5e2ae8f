package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/accredhub/abet/core/assessment"
	"github.com/accredhub/abet/core/catalog"
)

type assessmentApi struct {
	svc *assessment.Service
}

func registerAssessmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assessment.Service) {
	api := assessmentApi{svc: svc}

	ag := g.Group("/assessments", jwt)
	ag.POST("", api.create, facultyMiddleware())
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, facultyMiddleware())
	ag.DELETE("/:id", api.destroy, staffMiddleware())
	ag.GET("/:id/score", api.score)

	ag.POST("/:id/continuous-improvements", api.addContinuousImprovement, facultyMiddleware())
	ag.GET("/:id/continuous-improvements", api.queryContinuousImprovements)
	ag.POST("/:id/academic-performances", api.addAcademicPerformance, facultyMiddleware())
	ag.GET("/:id/academic-performances", api.queryAcademicPerformances)
	ag.POST("/:id/learning-outcomes", api.addLearningOutcome, facultyMiddleware())
	ag.GET("/:id/learning-outcomes", api.queryLearningOutcomes)

	lg := g.Group("/learning-outcomes", jwt)
	lg.POST("/:id/scores", api.addOutcomeScore, facultyMiddleware())
	lg.GET("/:id/scores", api.queryOutcomeScores)

	sg := g.Group("/outcome-scores", jwt)
	sg.PUT("/:id", api.updateOutcomeScore, facultyMiddleware())

	og := g.Group("/abet-outcomes", jwt)
	og.POST("", api.createABETOutcome, adminMiddleware())
	og.GET("", api.queryABETOutcomes)
}

func (api *assessmentApi) create(ctx echo.Context) error {
	var data assessment.NewAssessment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssessment")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	a, err := api.svc.Create(ctx.Request().Context(), getContextActor(ctx), data)
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating assessment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assessmentApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	if courseID := ctx.QueryParam("course"); courseID != "" {
		assessments, err := api.svc.QueryByCourse(ctx.Request().Context(), courseID)
		if err != nil {
			return errors.Wrap(err, "querying course assessments")
		}
		if assessments == nil {
			assessments = []assessment.Assessment{}
		}
		return ctx.JSON(http.StatusOK, assessments)
	}

	assessments, err := api.svc.Query(ctx.Request().Context(), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying assessments")
	}
	if assessments == nil {
		assessments = []assessment.Assessment{}
	}
	return ctx.JSON(http.StatusOK, assessments)
}

func (api *assessmentApi) retrieve(ctx echo.Context) error {
	a, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == assessment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting assessment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assessmentApi) update(ctx echo.Context) error {
	var data assessment.UpdateAssessment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssessment")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	a, err := api.svc.Update(ctx.Request().Context(), getContextActor(ctx), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == assessment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating assessment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assessmentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), getContextActor(ctx), ctx.Param("id")); err != nil {
		if errors.Cause(err) == assessment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting assessment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assessmentApi) score(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == assessment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting assessment")
	}
	res := api.svc.Engine().CalculateScore(ctx.Request().Context(), ctx.Param("id"))
	return ctx.JSON(http.StatusOK, res)
}

func (api *assessmentApi) addContinuousImprovement(ctx echo.Context) error {
	var data assessment.NewContinuousImprovement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewContinuousImprovement")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	ci, err := api.svc.AddContinuousImprovement(ctx.Request().Context(), getContextActor(ctx), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == assessment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding continuous improvement")
	}
	return ctx.JSON(http.StatusCreated, ci)
}

func (api *assessmentApi) queryContinuousImprovements(ctx echo.Context) error {
	cis, err := api.svc.QueryContinuousImprovements(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying continuous improvements")
	}
	if cis == nil {
		cis = []assessment.ContinuousImprovement{}
	}
	return ctx.JSON(http.StatusOK, cis)
}

func (api *assessmentApi) addAcademicPerformance(ctx echo.Context) error {
	var data assessment.NewAcademicPerformance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAcademicPerformance")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	ap, err := api.svc.AddAcademicPerformance(ctx.Request().Context(), getContextActor(ctx), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == assessment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding academic performance")
	}
	return ctx.JSON(http.StatusCreated, ap)
}

func (api *assessmentApi) queryAcademicPerformances(ctx echo.Context) error {
	aps, err := api.svc.QueryAcademicPerformances(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying academic performances")
	}
	if aps == nil {
		aps = []assessment.AcademicPerformance{}
	}
	return ctx.JSON(http.StatusOK, aps)
}

func (api *assessmentApi) addLearningOutcome(ctx echo.Context) error {
	var data assessment.NewLearningOutcome
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLearningOutcome")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	lo, err := api.svc.AddLearningOutcome(ctx.Request().Context(), getContextActor(ctx), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == assessment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding learning outcome")
	}
	return ctx.JSON(http.StatusCreated, lo)
}

func (api *assessmentApi) queryLearningOutcomes(ctx echo.Context) error {
	los, err := api.svc.QueryLearningOutcomes(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying learning outcomes")
	}
	if los == nil {
		los = []assessment.LearningOutcome{}
	}
	return ctx.JSON(http.StatusOK, los)
}

func (api *assessmentApi) addOutcomeScore(ctx echo.Context) error {
	var data assessment.NewOutcomeScore
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOutcomeScore")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	score, err := api.svc.AddOutcomeScore(ctx.Request().Context(), getContextActor(ctx), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == assessment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding outcome score")
	}
	return ctx.JSON(http.StatusCreated, score)
}

func (api *assessmentApi) queryOutcomeScores(ctx echo.Context) error {
	scores, err := api.svc.QueryOutcomeScores(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying outcome scores")
	}
	if scores == nil {
		scores = []assessment.OutcomeScore{}
	}
	return ctx.JSON(http.StatusOK, scores)
}

func (api *assessmentApi) updateOutcomeScore(ctx echo.Context) error {
	var data assessment.NewOutcomeScore
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOutcomeScore")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	score, err := api.svc.UpdateOutcomeScore(ctx.Request().Context(), getContextActor(ctx), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == assessment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating outcome score")
	}
	return ctx.JSON(http.StatusOK, score)
}

func (api *assessmentApi) createABETOutcome(ctx echo.Context) error {
	var data assessment.NewABETOutcome
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewABETOutcome")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	outcome, err := api.svc.CreateABETOutcome(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student outcome")
	}
	return ctx.JSON(http.StatusCreated, outcome)
}

func (api *assessmentApi) queryABETOutcomes(ctx echo.Context) error {
	outcomes, err := api.svc.QueryABETOutcomes(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying student outcomes")
	}
	if outcomes == nil {
		outcomes = []assessment.ABETOutcome{}
	}
	return ctx.JSON(http.StatusOK, outcomes)
}
