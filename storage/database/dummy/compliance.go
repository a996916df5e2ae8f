package dummydb

import (
	"context"
	"sort"

	"github.com/accredhub/abet/core/compliance"
)

type complianceRepository struct {
	db *DB
}

var _ compliance.Repository = (*complianceRepository)(nil)

func NewComplianceRepository(db *DB) compliance.Repository {
	return &complianceRepository{db: db}
}

func (repo *complianceRepository) UpsertSyllabus(ctx context.Context, syl compliance.Syllabus) (compliance.Syllabus, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.syllabi {
		if existing.CourseID == syl.CourseID && existing.AcademicYear == syl.AcademicYear {
			existing.IsUpdated = syl.IsUpdated
			existing.UpdatedAt = syl.UpdatedAt
			return *existing, nil
		}
	}
	syl.ID = repo.db.nextID()
	repo.db.syllabi[syl.ID] = &syl
	return syl, nil
}

func (repo *complianceRepository) QuerySyllabi(ctx context.Context, academicYear string) ([]compliance.Syllabus, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.syllabi))
	for id, syl := range repo.db.syllabi {
		if syl.AcademicYear == academicYear {
			keys = append(keys, id)
		}
	}
	syllabi := make([]compliance.Syllabus, 0, len(keys))
	for _, id := range sorted(keys) {
		syllabi = append(syllabi, *repo.db.syllabi[id])
	}
	return syllabi, nil
}

func (repo *complianceRepository) CountUpdatedSyllabi(ctx context.Context, academicYear string) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	count := 0
	for _, syl := range repo.db.syllabi {
		if syl.AcademicYear == academicYear && syl.IsUpdated {
			count++
		}
	}
	return count, nil
}

func (repo *complianceRepository) CreateFacultyTraining(ctx context.Context, ft compliance.FacultyTraining) (compliance.FacultyTraining, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ft.ID = repo.db.nextID()
	repo.db.trainings[ft.ID] = &ft
	return ft, nil
}

func (repo *complianceRepository) QueryFacultyTraining(ctx context.Context, academicYear string) ([]compliance.FacultyTraining, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.trainings))
	for id, ft := range repo.db.trainings {
		if ft.AcademicYear == academicYear {
			keys = append(keys, id)
		}
	}
	trainings := make([]compliance.FacultyTraining, 0, len(keys))
	for _, id := range sorted(keys) {
		trainings = append(trainings, *repo.db.trainings[id])
	}
	return trainings, nil
}

func (repo *complianceRepository) CountTrainedFaculty(ctx context.Context, academicYear string) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	trained := make(map[string]bool)
	for _, ft := range repo.db.trainings {
		if ft.AcademicYear == academicYear && ft.IsCompleted {
			trained[ft.FacultyID] = true
		}
	}
	return len(trained), nil
}

func (repo *complianceRepository) CreateMethod(ctx context.Context, m compliance.Method) (compliance.Method, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, existing := range repo.db.methods {
		if existing.Name == m.Name {
			return compliance.Method{}, compliance.ErrMethodExists
		}
	}
	m.ID = repo.db.nextID()
	repo.db.methods[m.ID] = &m
	return m, nil
}

func (repo *complianceRepository) GetMethodByName(ctx context.Context, name string) (compliance.Method, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, m := range repo.db.methods {
		if m.Name == name {
			return *m, nil
		}
	}
	return compliance.Method{}, compliance.ErrNotFound
}

func (repo *complianceRepository) QueryMethods(ctx context.Context, activeOnly bool) ([]compliance.Method, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.methods))
	for id, m := range repo.db.methods {
		if activeOnly && !m.IsActive {
			continue
		}
		keys = append(keys, id)
	}
	methods := make([]compliance.Method, 0, len(keys))
	for _, id := range sorted(keys) {
		methods = append(methods, *repo.db.methods[id])
	}
	return methods, nil
}

func (repo *complianceRepository) CreateMethodRecord(ctx context.Context, rec compliance.MethodRecord) (compliance.MethodRecord, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rec.ID = repo.db.nextID()
	repo.db.methodRecords[rec.ID] = &rec
	return rec, nil
}

func (repo *complianceRepository) QueryMethodRecords(ctx context.Context, methodID, semester string) ([]compliance.MethodRecord, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	keys := make([]string, 0, len(repo.db.methodRecords))
	for id, rec := range repo.db.methodRecords {
		if rec.MethodID == methodID && rec.Semester == semester {
			keys = append(keys, id)
		}
	}
	records := make([]compliance.MethodRecord, 0, len(keys))
	for _, id := range sorted(keys) {
		records = append(records, *repo.db.methodRecords[id])
	}
	return records, nil
}

func (repo *complianceRepository) CreateSnapshot(ctx context.Context, snap compliance.MetricSnapshot) (compliance.MetricSnapshot, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	snap.ID = repo.db.nextID()
	repo.db.snapshots[snap.ID] = &snap
	return snap, nil
}

func (repo *complianceRepository) QuerySnapshots(ctx context.Context, academicYear string) ([]compliance.MetricSnapshot, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	snapshots := make([]compliance.MetricSnapshot, 0, len(repo.db.snapshots))
	for _, snap := range repo.db.snapshots {
		if snap.AcademicYear == academicYear {
			snapshots = append(snapshots, *snap)
		}
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].ComputedAt.Equal(snapshots[j].ComputedAt) {
			return snapshots[i].ID < snapshots[j].ID
		}
		return snapshots[i].ComputedAt.Before(snapshots[j].ComputedAt)
	})
	return snapshots, nil
}
