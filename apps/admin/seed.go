package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/accredhub/abet/core/assessment"
	"github.com/accredhub/abet/core/compliance"
)

// The ABET student outcome catalog and the standard assessment methods every
// installation starts from. Seeding is idempotent: existing records are kept.
var (
	seedOutcomes = []assessment.NewABETOutcome{
		{Label: "SO1", Description: "Engineering problem solving using math, science, and engineering principles"},
		{Label: "SO2", Description: "Engineering design to meet specified needs with public health, safety, and welfare considerations"},
		{Label: "SO3", Description: "Effective communication with diverse audiences"},
		{Label: "SO4", Description: "Ethical and professional responsibilities in engineering situations"},
		{Label: "SO5", Description: "Effective teamwork with diverse team members"},
		{Label: "SO6", Description: "Experimentation, data analysis, and engineering judgment"},
		{Label: "SO7", Description: "Lifelong learning and knowledge acquisition"},
	}

	seedMethods = []compliance.NewMethod{
		{Name: "exam_questions", DisplayName: "Exam Questions", AssessmentType: compliance.TypeDirect, TargetCompletionRate: 85.0, TargetScore: 3.2},
		{Name: "project_rubrics", DisplayName: "Project Rubrics", AssessmentType: compliance.TypeDirect, TargetCompletionRate: 90.0, TargetScore: 3.4},
		{Name: "student_surveys", DisplayName: "Student Surveys", AssessmentType: compliance.TypeIndirect, TargetCompletionRate: 75.0, TargetScore: 3.1},
		{Name: "alumni_feedback", DisplayName: "Alumni Feedback", AssessmentType: compliance.TypeIndirect, TargetCompletionRate: 70.0, TargetScore: 3.3},
	}
)

func (cli *commandLine) seed() error {
	ctx := context.Background()

	for _, no := range seedOutcomes {
		if _, err := cli.assessSvc.GetABETOutcomeByLabel(ctx, no.Label); err == nil {
			continue
		} else if err != assessment.ErrNotFound {
			return errors.Wrapf(err, "checking outcome %s", no.Label)
		}
		if _, err := cli.assessSvc.CreateABETOutcome(ctx, no); err != nil {
			return errors.Wrapf(err, "seeding outcome %s", no.Label)
		}
		fmt.Printf("created ABET outcome %s\n", no.Label)
	}

	for _, nm := range seedMethods {
		if _, err := cli.compSvc.GetMethodByName(ctx, nm.Name); err == nil {
			continue
		} else if err != compliance.ErrNotFound {
			return errors.Wrapf(err, "checking method %s", nm.Name)
		}
		if _, err := cli.compSvc.CreateMethod(ctx, nm); err != nil {
			return errors.Wrapf(err, "seeding method %s", nm.Name)
		}
		fmt.Printf("created assessment method %s\n", nm.Name)
	}

	return nil
}
