package dummydb

import (
	"context"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateDepartment(ctx context.Context, dept catalog.Department) (catalog.Department, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	dept.ID = repo.db.nextID()
	repo.db.departments[dept.ID] = &dept
	return dept, nil
}

func (repo *catalogRepository) QueryDepartments(ctx context.Context) ([]catalog.Department, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.departments))
	for id := range repo.db.departments {
		keys = append(keys, id)
	}
	depts := make([]catalog.Department, 0, len(keys))
	for _, id := range sorted(keys) {
		depts = append(depts, *repo.db.departments[id])
	}
	return depts, nil
}

func (repo *catalogRepository) GetDepartment(ctx context.Context, id string) (catalog.Department, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	dept, ok := repo.db.departments[id]
	if !ok {
		return catalog.Department{}, catalog.ErrNotFound
	}
	return *dept, nil
}

func (repo *catalogRepository) DeleteDepartment(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.departments[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.departments, id)
	return nil
}

func (repo *catalogRepository) CountDepartments(ctx context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.db.departments), nil
}

func (repo *catalogRepository) CreateFaculty(ctx context.Context, fac catalog.Faculty) (catalog.Faculty, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	fac.ID = repo.db.nextID()
	repo.db.faculty[fac.ID] = &fac
	return fac, nil
}

func (repo *catalogRepository) QueryFaculty(ctx context.Context) ([]catalog.Faculty, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.faculty))
	for id := range repo.db.faculty {
		keys = append(keys, id)
	}
	facs := make([]catalog.Faculty, 0, len(keys))
	for _, id := range sorted(keys) {
		facs = append(facs, *repo.db.faculty[id])
	}
	return facs, nil
}

func (repo *catalogRepository) GetFaculty(ctx context.Context, id string) (catalog.Faculty, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	fac, ok := repo.db.faculty[id]
	if !ok {
		return catalog.Faculty{}, catalog.ErrNotFound
	}
	return *fac, nil
}

func (repo *catalogRepository) DeleteFaculty(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.faculty[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.faculty, id)
	return nil
}

func (repo *catalogRepository) CountFaculty(ctx context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.db.faculty), nil
}

func (repo *catalogRepository) CreateProgram(ctx context.Context, prog catalog.Program) (catalog.Program, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	prog.ID = repo.db.nextID()
	repo.db.programs[prog.ID] = &prog
	return prog, nil
}

func (repo *catalogRepository) QueryPrograms(ctx context.Context) ([]catalog.Program, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.programs))
	for id := range repo.db.programs {
		keys = append(keys, id)
	}
	progs := make([]catalog.Program, 0, len(keys))
	for _, id := range sorted(keys) {
		progs = append(progs, *repo.db.programs[id])
	}
	return progs, nil
}

func (repo *catalogRepository) GetProgram(ctx context.Context, id string) (catalog.Program, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	prog, ok := repo.db.programs[id]
	if !ok {
		return catalog.Program{}, catalog.ErrNotFound
	}
	return *prog, nil
}

func (repo *catalogRepository) DeleteProgram(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.programs[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.programs, id)
	return nil
}

func (repo *catalogRepository) CountPrograms(ctx context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.db.programs), nil
}

func (repo *catalogRepository) CreateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	crs.ID = repo.db.nextID()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *catalogRepository) QueryCourses(ctx context.Context, ordering ...core.DBOrdering) ([]catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.courses))
	for id := range repo.db.courses {
		keys = append(keys, id)
	}
	courses := make([]catalog.Course, 0, len(keys))
	for _, id := range sorted(keys) {
		courses = append(courses, *repo.db.courses[id])
	}
	return courses, nil
}

func (repo *catalogRepository) QueryCoursesByProgram(ctx context.Context, programID string) ([]catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.courses))
	for id, crs := range repo.db.courses {
		if crs.ProgramID == programID {
			keys = append(keys, id)
		}
	}
	courses := make([]catalog.Course, 0, len(keys))
	for _, id := range sorted(keys) {
		courses = append(courses, *repo.db.courses[id])
	}
	return courses, nil
}

func (repo *catalogRepository) GetCourse(ctx context.Context, id string) (catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	crs, ok := repo.db.courses[id]
	if !ok {
		return catalog.Course{}, catalog.ErrNotFound
	}
	return *crs, nil
}

func (repo *catalogRepository) UpdateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return catalog.Course{}, catalog.ErrNotFound
	}
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *catalogRepository) DeleteCourse(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.courses[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.courses, id)
	return nil
}

func (repo *catalogRepository) CountCourses(ctx context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.db.courses), nil
}

func (repo *catalogRepository) CreateStudent(ctx context.Context, std catalog.Student) (catalog.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	std.ID = repo.db.nextID()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *catalogRepository) QueryStudents(ctx context.Context) ([]catalog.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.students))
	for id := range repo.db.students {
		keys = append(keys, id)
	}
	students := make([]catalog.Student, 0, len(keys))
	for _, id := range sorted(keys) {
		students = append(students, *repo.db.students[id])
	}
	return students, nil
}

func (repo *catalogRepository) GetStudent(ctx context.Context, id string) (catalog.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	std, ok := repo.db.students[id]
	if !ok {
		return catalog.Student{}, catalog.ErrNotFound
	}
	return *std, nil
}

func (repo *catalogRepository) DeleteStudent(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.students, id)
	return nil
}

func (repo *catalogRepository) CreateEnrollment(ctx context.Context, enr catalog.Enrollment) (catalog.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.enrollments {
		if existing.CourseID == enr.CourseID && existing.StudentID == enr.StudentID {
			return *existing, nil
		}
	}
	enr.ID = repo.db.nextID()
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *catalogRepository) QueryEnrollmentsByCourse(ctx context.Context, courseID string) ([]catalog.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.enrollments))
	for id, enr := range repo.db.enrollments {
		if enr.CourseID == courseID {
			keys = append(keys, id)
		}
	}
	enrs := make([]catalog.Enrollment, 0, len(keys))
	for _, id := range sorted(keys) {
		enrs = append(enrs, *repo.db.enrollments[id])
	}
	return enrs, nil
}

func (repo *catalogRepository) CountCourseEnrollment(ctx context.Context, courseID string) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	count := 0
	for _, enr := range repo.db.enrollments {
		if enr.CourseID == courseID {
			count++
		}
	}
	return count, nil
}
