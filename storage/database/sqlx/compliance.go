package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/accredhub/abet/core/compliance"
)

type ComplianceRepository struct {
	db *sqlx.DB
}

var _ compliance.Repository = (*ComplianceRepository)(nil)

func NewComplianceRepository(db *sqlx.DB) *ComplianceRepository {
	return &ComplianceRepository{db: db}
}

func (repo *ComplianceRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := repo.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting records")
	}
	return n, nil
}

// Syllabi

func (repo *ComplianceRepository) UpsertSyllabus(ctx context.Context, syl compliance.Syllabus) (compliance.Syllabus, error) {
	syl.ID = uuid.New().String()
	query := `INSERT INTO course_syllabus (id, course_id, academic_year, is_updated, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (course_id, academic_year)
			  DO UPDATE SET is_updated = EXCLUDED.is_updated, updated_at = EXCLUDED.updated_at
			  RETURNING id, created_at`
	row := repo.db.QueryRowContext(ctx, query,
		syl.ID, syl.CourseID, syl.AcademicYear, syl.IsUpdated, syl.CreatedAt, syl.UpdatedAt)
	if err := row.Scan(&syl.ID, &syl.CreatedAt); err != nil {
		return compliance.Syllabus{}, errors.Wrap(err, "upserting syllabus")
	}
	return syl, nil
}

func (repo *ComplianceRepository) QuerySyllabi(ctx context.Context, academicYear string) ([]compliance.Syllabus, error) {
	var syls []compliance.Syllabus
	query := `SELECT * FROM course_syllabus WHERE academic_year = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &syls, query, academicYear); err != nil {
		return nil, errors.Wrap(err, "querying syllabi")
	}
	return syls, nil
}

func (repo *ComplianceRepository) CountUpdatedSyllabi(ctx context.Context, academicYear string) (int, error) {
	query := `SELECT COUNT(DISTINCT course_id) FROM course_syllabus WHERE academic_year = $1 AND is_updated`
	return repo.count(ctx, query, academicYear)
}

// Faculty trainings

func (repo *ComplianceRepository) CreateFacultyTraining(ctx context.Context, ft compliance.FacultyTraining) (compliance.FacultyTraining, error) {
	ft.ID = uuid.New().String()
	query := `INSERT INTO faculty_training
			  (id, faculty_id, training_name, academic_year, is_completed, completed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		ft.ID, ft.FacultyID, ft.TrainingName, ft.AcademicYear, ft.IsCompleted, ft.CompletedAt,
		ft.CreatedAt, ft.UpdatedAt)
	if err != nil {
		return compliance.FacultyTraining{}, errors.Wrap(err, "creating faculty training")
	}
	return ft, nil
}

func (repo *ComplianceRepository) QueryFacultyTraining(ctx context.Context, academicYear string) ([]compliance.FacultyTraining, error) {
	var fts []compliance.FacultyTraining
	query := `SELECT * FROM faculty_training WHERE academic_year = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &fts, query, academicYear); err != nil {
		return nil, errors.Wrap(err, "querying faculty trainings")
	}
	return fts, nil
}

func (repo *ComplianceRepository) CountTrainedFaculty(ctx context.Context, academicYear string) (int, error) {
	query := `SELECT COUNT(DISTINCT faculty_id) FROM faculty_training WHERE academic_year = $1 AND is_completed`
	return repo.count(ctx, query, academicYear)
}

// Assessment methods

func (repo *ComplianceRepository) CreateMethod(ctx context.Context, m compliance.Method) (compliance.Method, error) {
	m.ID = uuid.New().String()
	query := `INSERT INTO assessment_method
			  (id, name, display_name, assessment_type, target_completion_rate, target_score, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		m.ID, m.Name, m.DisplayName, m.AssessmentType, m.TargetCompletionRate, m.TargetScore,
		m.IsActive, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return compliance.Method{}, errors.Wrap(err, "creating assessment method")
	}
	return m, nil
}

func (repo *ComplianceRepository) GetMethodByName(ctx context.Context, name string) (compliance.Method, error) {
	var m compliance.Method
	if err := repo.db.GetContext(ctx, &m, `SELECT * FROM assessment_method WHERE name = $1`, name); err != nil {
		return compliance.Method{}, trapNoRowsErr(err, compliance.ErrNotFound, "getting assessment method")
	}
	return m, nil
}

func (repo *ComplianceRepository) QueryMethods(ctx context.Context, activeOnly bool) ([]compliance.Method, error) {
	var methods []compliance.Method
	query := `SELECT * FROM assessment_method`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`
	if err := repo.db.SelectContext(ctx, &methods, query); err != nil {
		return nil, errors.Wrap(err, "querying assessment methods")
	}
	return methods, nil
}

// Method records

func (repo *ComplianceRepository) CreateMethodRecord(ctx context.Context, rec compliance.MethodRecord) (compliance.MethodRecord, error) {
	rec.ID = uuid.New().String()
	query := `INSERT INTO course_assessment_method
			  (id, course_id, method_id, semester, completion_status, score, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		rec.ID, rec.CourseID, rec.MethodID, rec.Semester, rec.CompletionStatus, rec.Score,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return compliance.MethodRecord{}, errors.Wrap(err, "creating method record")
	}
	return rec, nil
}

func (repo *ComplianceRepository) QueryMethodRecords(ctx context.Context, methodID, semester string) ([]compliance.MethodRecord, error) {
	var recs []compliance.MethodRecord
	query := `SELECT * FROM course_assessment_method WHERE method_id = $1 AND semester = $2 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &recs, query, methodID, semester); err != nil {
		return nil, errors.Wrap(err, "querying method records")
	}
	return recs, nil
}

// Metric snapshots

func (repo *ComplianceRepository) CreateSnapshot(ctx context.Context, snap compliance.MetricSnapshot) (compliance.MetricSnapshot, error) {
	snap.ID = uuid.New().String()
	query := `INSERT INTO compliance_metric
			  (id, metric_key, percentage, current, total, status, academic_year, computed_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		snap.ID, snap.MetricKey, snap.Percentage, snap.Current, snap.Total, snap.Status,
		snap.AcademicYear, snap.ComputedAt)
	if err != nil {
		return compliance.MetricSnapshot{}, errors.Wrap(err, "creating metric snapshot")
	}
	return snap, nil
}

func (repo *ComplianceRepository) QuerySnapshots(ctx context.Context, academicYear string) ([]compliance.MetricSnapshot, error) {
	var snaps []compliance.MetricSnapshot
	query := `SELECT * FROM compliance_metric WHERE academic_year = $1 ORDER BY computed_at DESC`
	if err := repo.db.SelectContext(ctx, &snaps, query, academicYear); err != nil {
		return nil, errors.Wrap(err, "querying metric snapshots")
	}
	return snaps, nil
}
