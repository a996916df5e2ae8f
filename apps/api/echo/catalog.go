package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/catalog"
)

type catalogApi struct {
	svc *catalog.Service
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *catalog.Service) {
	api := catalogApi{svc: svc}

	dg := g.Group("/departments", jwt)
	dg.POST("", api.createDepartment, staffMiddleware())
	dg.GET("", api.queryDepartments)
	dg.GET("/:id", api.retrieveDepartment)
	dg.DELETE("/:id", api.destroyDepartment, adminMiddleware())

	fg := g.Group("/faculty", jwt)
	fg.POST("", api.createFaculty, staffMiddleware())
	fg.GET("", api.queryFaculty)
	fg.GET("/:id", api.retrieveFaculty)
	fg.DELETE("/:id", api.destroyFaculty, adminMiddleware())

	pg := g.Group("/programs", jwt)
	pg.POST("", api.createProgram, staffMiddleware())
	pg.GET("", api.queryPrograms)
	pg.GET("/:id", api.retrieveProgram)
	pg.GET("/:id/courses", api.queryProgramCourses)
	pg.DELETE("/:id", api.destroyProgram, adminMiddleware())

	cg := g.Group("/courses", jwt)
	cg.POST("", api.createCourse, staffMiddleware())
	cg.GET("", api.queryCourses)
	cg.GET("/:id", api.retrieveCourse)
	cg.PUT("/:id", api.updateCourse, staffMiddleware())
	cg.DELETE("/:id", api.destroyCourse, adminMiddleware())
	cg.POST("/:id/enroll", api.enrollStudent, staffMiddleware())

	sg := g.Group("/students", jwt)
	sg.POST("", api.createStudent, staffMiddleware())
	sg.GET("", api.queryStudents)
	sg.GET("/:id", api.retrieveStudent)
	sg.DELETE("/:id", api.destroyStudent, adminMiddleware())
}

// Departments

func (api *catalogApi) createDepartment(ctx echo.Context) error {
	var data catalog.NewDepartment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDepartment")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	dept, err := api.svc.CreateDepartment(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating department")
	}
	return ctx.JSON(http.StatusCreated, dept)
}

func (api *catalogApi) queryDepartments(ctx echo.Context) error {
	depts, err := api.svc.QueryDepartments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying departments")
	}
	if depts == nil {
		depts = []catalog.Department{}
	}
	return ctx.JSON(http.StatusOK, depts)
}

func (api *catalogApi) retrieveDepartment(ctx echo.Context) error {
	dept, err := api.svc.GetDepartment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting department")
	}
	return ctx.JSON(http.StatusOK, dept)
}

func (api *catalogApi) destroyDepartment(ctx echo.Context) error {
	if err := api.svc.DeleteDepartment(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting department")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Faculty

func (api *catalogApi) createFaculty(ctx echo.Context) error {
	var data catalog.NewFaculty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFaculty")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	fac, err := api.svc.CreateFaculty(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating faculty")
	}
	return ctx.JSON(http.StatusCreated, fac)
}

func (api *catalogApi) queryFaculty(ctx echo.Context) error {
	facs, err := api.svc.QueryFaculty(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying faculty")
	}
	if facs == nil {
		facs = []catalog.Faculty{}
	}
	return ctx.JSON(http.StatusOK, facs)
}

func (api *catalogApi) retrieveFaculty(ctx echo.Context) error {
	fac, err := api.svc.GetFaculty(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting faculty")
	}
	return ctx.JSON(http.StatusOK, fac)
}

func (api *catalogApi) destroyFaculty(ctx echo.Context) error {
	if err := api.svc.DeleteFaculty(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting faculty")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Programs

func (api *catalogApi) createProgram(ctx echo.Context) error {
	var data catalog.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	prog, err := api.svc.CreateProgram(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating program")
	}
	return ctx.JSON(http.StatusCreated, prog)
}

func (api *catalogApi) queryPrograms(ctx echo.Context) error {
	progs, err := api.svc.QueryPrograms(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}
	if progs == nil {
		progs = []catalog.Program{}
	}
	return ctx.JSON(http.StatusOK, progs)
}

func (api *catalogApi) retrieveProgram(ctx echo.Context) error {
	prog, err := api.svc.GetProgram(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting program")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *catalogApi) queryProgramCourses(ctx echo.Context) error {
	courses, err := api.svc.QueryCoursesByProgram(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying program courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) destroyProgram(ctx echo.Context) error {
	if err := api.svc.DeleteProgram(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting program")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Courses

func (api *catalogApi) createCourse(ctx echo.Context) error {
	var data catalog.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	crs, err := api.svc.CreateCourse(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *catalogApi) queryCourses(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	courses, err := api.svc.QueryCourses(ctx.Request().Context(), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *catalogApi) retrieveCourse(ctx echo.Context) error {
	crs, err := api.svc.GetCourse(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *catalogApi) updateCourse(ctx echo.Context) error {
	var data catalog.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	crs, err := api.svc.UpdateCourse(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *catalogApi) destroyCourse(ctx echo.Context) error {
	if err := api.svc.DeleteCourse(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *catalogApi) enrollStudent(ctx echo.Context) error {
	var data EnrollmentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollmentRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	enr, err := api.svc.EnrollStudent(ctx.Request().Context(), ctx.Param("id"), data.StudentID)
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

// Students

func (api *catalogApi) createStudent(ctx echo.Context) error {
	var data catalog.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	std, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *catalogApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []catalog.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *catalogApi) retrieveStudent(ctx echo.Context) error {
	std, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *catalogApi) destroyStudent(ctx echo.Context) error {
	if err := api.svc.DeleteStudent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type EnrollmentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

func (er *EnrollmentRequest) Validate() error {
	return core.Validate.Struct(er)
}
