package sqlxrepos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/catalog"
)

type CatalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*CatalogRepository)(nil)

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// orderBy renders an ORDER BY clause from bound orderings, with a default.
func orderBy(deflt string, ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return " ORDER BY " + deflt
	}
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		clauses = append(clauses, ord.String())
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

func (repo *CatalogRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := repo.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting records")
	}
	return n, nil
}

// Departments

func (repo *CatalogRepository) CreateDepartment(ctx context.Context, dept catalog.Department) (catalog.Department, error) {
	dept.ID = uuid.New().String()
	query := `INSERT INTO department (id, name, email, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.ExecContext(ctx, query, dept.ID, dept.Name, dept.Email, dept.CreatedAt, dept.UpdatedAt); err != nil {
		return catalog.Department{}, errors.Wrap(err, "creating department")
	}
	return dept, nil
}

func (repo *CatalogRepository) QueryDepartments(ctx context.Context) ([]catalog.Department, error) {
	var depts []catalog.Department
	if err := repo.db.SelectContext(ctx, &depts, `SELECT * FROM department ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying departments")
	}
	return depts, nil
}

func (repo *CatalogRepository) GetDepartment(ctx context.Context, id string) (catalog.Department, error) {
	var dept catalog.Department
	if err := repo.db.GetContext(ctx, &dept, `SELECT * FROM department WHERE id = $1`, id); err != nil {
		return catalog.Department{}, trapNoRowsErr(err, catalog.ErrNotFound, "getting department")
	}
	return dept, nil
}

func (repo *CatalogRepository) DeleteDepartment(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM department WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting department")
	}
	return ensureFound(res, catalog.ErrNotFound)
}

func (repo *CatalogRepository) CountDepartments(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM department`)
}

// Faculty

func (repo *CatalogRepository) CreateFaculty(ctx context.Context, fac catalog.Faculty) (catalog.Faculty, error) {
	fac.ID = uuid.New().String()
	query := `INSERT INTO faculty (id, name, email, department_id, qualifications, expertise, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		fac.ID, fac.Name, fac.Email, fac.DepartmentID, fac.Qualifications, fac.Expertise, fac.CreatedAt, fac.UpdatedAt)
	if err != nil {
		return catalog.Faculty{}, errors.Wrap(err, "creating faculty")
	}
	return fac, nil
}

func (repo *CatalogRepository) QueryFaculty(ctx context.Context) ([]catalog.Faculty, error) {
	var facs []catalog.Faculty
	if err := repo.db.SelectContext(ctx, &facs, `SELECT * FROM faculty ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying faculty")
	}
	return facs, nil
}

func (repo *CatalogRepository) GetFaculty(ctx context.Context, id string) (catalog.Faculty, error) {
	var fac catalog.Faculty
	if err := repo.db.GetContext(ctx, &fac, `SELECT * FROM faculty WHERE id = $1`, id); err != nil {
		return catalog.Faculty{}, trapNoRowsErr(err, catalog.ErrNotFound, "getting faculty")
	}
	return fac, nil
}

func (repo *CatalogRepository) DeleteFaculty(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM faculty WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting faculty")
	}
	return ensureFound(res, catalog.ErrNotFound)
}

func (repo *CatalogRepository) CountFaculty(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM faculty`)
}

// Programs

func (repo *CatalogRepository) CreateProgram(ctx context.Context, prog catalog.Program) (catalog.Program, error) {
	prog.ID = uuid.New().String()
	query := `INSERT INTO program (id, name, description, department_id, level, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		prog.ID, prog.Name, prog.Description, prog.DepartmentID, prog.Level, prog.CreatedAt, prog.UpdatedAt)
	if err != nil {
		return catalog.Program{}, errors.Wrap(err, "creating program")
	}
	return prog, nil
}

func (repo *CatalogRepository) QueryPrograms(ctx context.Context) ([]catalog.Program, error) {
	var progs []catalog.Program
	if err := repo.db.SelectContext(ctx, &progs, `SELECT * FROM program ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	return progs, nil
}

func (repo *CatalogRepository) GetProgram(ctx context.Context, id string) (catalog.Program, error) {
	var prog catalog.Program
	if err := repo.db.GetContext(ctx, &prog, `SELECT * FROM program WHERE id = $1`, id); err != nil {
		return catalog.Program{}, trapNoRowsErr(err, catalog.ErrNotFound, "getting program")
	}
	return prog, nil
}

func (repo *CatalogRepository) DeleteProgram(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM program WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting program")
	}
	return ensureFound(res, catalog.ErrNotFound)
}

func (repo *CatalogRepository) CountPrograms(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM program`)
}

// Courses

func (repo *CatalogRepository) CreateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	crs.ID = uuid.New().String()
	query := `INSERT INTO course (id, code, name, description, credits, program_id, instructor_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		crs.ID, crs.Code, crs.Name, crs.Description, crs.Credits, crs.ProgramID, crs.InstructorID, crs.CreatedAt, crs.UpdatedAt)
	if err != nil {
		return catalog.Course{}, errors.Wrap(err, "creating course")
	}
	return crs, nil
}

func (repo *CatalogRepository) QueryCourses(ctx context.Context, ordering ...core.DBOrdering) ([]catalog.Course, error) {
	var courses []catalog.Course
	query := `SELECT * FROM course` + orderBy("code ASC", ordering)
	if err := repo.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo *CatalogRepository) QueryCoursesByProgram(ctx context.Context, programID string) ([]catalog.Course, error) {
	var courses []catalog.Course
	query := `SELECT * FROM course WHERE program_id = $1 ORDER BY code`
	if err := repo.db.SelectContext(ctx, &courses, query, programID); err != nil {
		return nil, errors.Wrap(err, "querying program courses")
	}
	return courses, nil
}

func (repo *CatalogRepository) GetCourse(ctx context.Context, id string) (catalog.Course, error) {
	var crs catalog.Course
	if err := repo.db.GetContext(ctx, &crs, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		return catalog.Course{}, trapNoRowsErr(err, catalog.ErrNotFound, "getting course")
	}
	return crs, nil
}

func (repo *CatalogRepository) UpdateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	query := `UPDATE course
			  SET code = $2, name = $3, description = $4, credits = $5, instructor_id = $6, updated_at = $7
			  WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		crs.ID, crs.Code, crs.Name, crs.Description, crs.Credits, crs.InstructorID, crs.UpdatedAt)
	if err != nil {
		return catalog.Course{}, errors.Wrap(err, "updating course")
	}
	if err := ensureFound(res, catalog.ErrNotFound); err != nil {
		return catalog.Course{}, err
	}
	return crs, nil
}

func (repo *CatalogRepository) DeleteCourse(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ensureFound(res, catalog.ErrNotFound)
}

func (repo *CatalogRepository) CountCourses(ctx context.Context) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM course`)
}

// Students & enrollment

func (repo *CatalogRepository) CreateStudent(ctx context.Context, std catalog.Student) (catalog.Student, error) {
	std.ID = uuid.New().String()
	query := `INSERT INTO student (id, first_name, last_name, email, enrollment_date, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		std.ID, std.FirstName, std.LastName, std.Email, std.EnrollmentDate, std.CreatedAt, std.UpdatedAt)
	if err != nil {
		return catalog.Student{}, errors.Wrap(err, "creating student")
	}
	return std, nil
}

func (repo *CatalogRepository) QueryStudents(ctx context.Context) ([]catalog.Student, error) {
	var students []catalog.Student
	if err := repo.db.SelectContext(ctx, &students, `SELECT * FROM student ORDER BY last_name, first_name`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *CatalogRepository) GetStudent(ctx context.Context, id string) (catalog.Student, error) {
	var std catalog.Student
	if err := repo.db.GetContext(ctx, &std, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return catalog.Student{}, trapNoRowsErr(err, catalog.ErrNotFound, "getting student")
	}
	return std, nil
}

func (repo *CatalogRepository) DeleteStudent(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ensureFound(res, catalog.ErrNotFound)
}

func (repo *CatalogRepository) CreateEnrollment(ctx context.Context, enr catalog.Enrollment) (catalog.Enrollment, error) {
	enr.ID = uuid.New().String()
	query := `INSERT INTO course_student (id, course_id, student_id, created_at) VALUES ($1, $2, $3, $4)
			  ON CONFLICT (course_id, student_id) DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, query, enr.ID, enr.CourseID, enr.StudentID, enr.CreatedAt); err != nil {
		return catalog.Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return enr, nil
}

func (repo *CatalogRepository) QueryEnrollmentsByCourse(ctx context.Context, courseID string) ([]catalog.Enrollment, error) {
	var enrs []catalog.Enrollment
	query := `SELECT * FROM course_student WHERE course_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &enrs, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return enrs, nil
}

func (repo *CatalogRepository) CountCourseEnrollment(ctx context.Context, courseID string) (int, error) {
	return repo.count(ctx, `SELECT COUNT(*) FROM course_student WHERE course_id = $1`, courseID)
}
