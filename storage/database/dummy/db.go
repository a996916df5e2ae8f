// Package dummydb provides in-memory repository implementations for tests.
package dummydb

import (
	"fmt"
	"sort"
	"sync"

	"github.com/accredhub/abet/core/assessment"
	"github.com/accredhub/abet/core/catalog"
	"github.com/accredhub/abet/core/compliance"
	"github.com/accredhub/abet/core/user"
)

// DB holds every in-memory table behind one lock. Primary keys are generated
// from a counter and sort in insertion order, keeping query output stable.
type DB struct {
	mu sync.RWMutex
	pk int

	users map[string]*user.User

	departments map[string]*catalog.Department
	faculty     map[string]*catalog.Faculty
	programs    map[string]*catalog.Program
	courses     map[string]*catalog.Course
	students    map[string]*catalog.Student
	enrollments map[string]*catalog.Enrollment

	assessments  map[string]*assessment.Assessment
	cis          map[string]*assessment.ContinuousImprovement
	aps          map[string]*assessment.AcademicPerformance
	los          map[string]*assessment.LearningOutcome
	scores       map[string]*assessment.OutcomeScore
	abetOutcomes map[string]*assessment.ABETOutcome
	events       map[string]*assessment.Event

	syllabi       map[string]*compliance.Syllabus
	trainings     map[string]*compliance.FacultyTraining
	methods       map[string]*compliance.Method
	methodRecords map[string]*compliance.MethodRecord
	snapshots     map[string]*compliance.MetricSnapshot
}

func Open() (*DB, error) {
	db := &DB{
		users:         make(map[string]*user.User),
		departments:   make(map[string]*catalog.Department),
		faculty:       make(map[string]*catalog.Faculty),
		programs:      make(map[string]*catalog.Program),
		courses:       make(map[string]*catalog.Course),
		students:      make(map[string]*catalog.Student),
		enrollments:   make(map[string]*catalog.Enrollment),
		assessments:   make(map[string]*assessment.Assessment),
		cis:           make(map[string]*assessment.ContinuousImprovement),
		aps:           make(map[string]*assessment.AcademicPerformance),
		los:           make(map[string]*assessment.LearningOutcome),
		scores:        make(map[string]*assessment.OutcomeScore),
		abetOutcomes:  make(map[string]*assessment.ABETOutcome),
		events:        make(map[string]*assessment.Event),
		syllabi:       make(map[string]*compliance.Syllabus),
		trainings:     make(map[string]*compliance.FacultyTraining),
		methods:       make(map[string]*compliance.Method),
		methodRecords: make(map[string]*compliance.MethodRecord),
		snapshots:     make(map[string]*compliance.MetricSnapshot),
	}
	return db, nil
}

// nextID must be called with the write lock held.
func (db *DB) nextID() string {
	db.pk++
	return fmt.Sprintf("%08d", db.pk)
}

func sorted(keys []string) []string {
	sort.Strings(keys)
	return keys
}
