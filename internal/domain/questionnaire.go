// Package domain contains core business types and interfaces.
//
// This file defines the questionnaire snapshot: the full set of answers a
// user gives across the five wizard stages. The snapshot is ephemeral until
// submission, at which point it is persisted verbatim inside a Report.
package domain

import "strings"

// Wizard stages, in order.
const (
	StepProjectBasics  = 1
	StepFeatures       = 2
	StepTechnologies   = 3
	StepTeam           = 4
	StepTimeline       = 5
	QuestionnaireSteps = 5
)

// ProjectBasics holds the required free-text project fields.
type ProjectBasics struct {
	ProjectName        string `json:"projectName"`
	ProjectDescription string `json:"projectDescription"`
	IndustryType       string `json:"industryType"`
	ProjectType        string `json:"projectType"`
}

// TechnologySelection holds the chosen technology stack.
type TechnologySelection struct {
	Frontend           []string `json:"frontend"`
	Backend            []string `json:"backend"`
	Database           string   `json:"database"`
	Hosting            string   `json:"hosting"`
	AdditionalServices []string `json:"additionalServices"`
}

// TeamComposition holds the head count per role.
type TeamComposition struct {
	Developers      int `json:"developers"`
	Designers       int `json:"designers"`
	ProjectManagers int `json:"projectManagers"`
	QATesters       int `json:"qaTesters"`
}

// Milestone is a named chunk of the project timeline.
type Milestone struct {
	Title         string `json:"title"`
	DurationWeeks int    `json:"durationWeeks"`
}

// Timeline holds the project duration and milestones.
type Timeline struct {
	DurationMonths int         `json:"durationMonths"`
	StartDate      string      `json:"startDate"` // ISO date (yyyy-mm-dd)
	Milestones     []Milestone `json:"milestones"`
}

// QuestionnaireSnapshot is the complete set of questionnaire answers.
type QuestionnaireSnapshot struct {
	ProjectBasics  ProjectBasics       `json:"projectBasics"`
	Features       []string            `json:"features"`
	CustomFeatures []string            `json:"customFeatures"`
	Technologies   TechnologySelection `json:"technologies"`
	Team           TeamComposition     `json:"team"`
	Timeline       Timeline            `json:"timeline"`
}

// ValidateStep validates a single wizard stage. Returns a *ValidationError
// with per-field messages, or nil when the stage is complete.
func (s *QuestionnaireSnapshot) ValidateStep(step int) error {
	const op = "QuestionnaireSnapshot.ValidateStep"

	fields := make(map[string]string)
	switch step {
	case StepProjectBasics:
		if strings.TrimSpace(s.ProjectBasics.ProjectName) == "" {
			fields["projectName"] = "Project name is required"
		}
		if strings.TrimSpace(s.ProjectBasics.ProjectDescription) == "" {
			fields["projectDescription"] = "Project description is required"
		}
		if strings.TrimSpace(s.ProjectBasics.IndustryType) == "" {
			fields["industryType"] = "Industry type is required"
		}
		if strings.TrimSpace(s.ProjectBasics.ProjectType) == "" {
			fields["projectType"] = "Project type is required"
		}
	case StepFeatures:
		if len(s.Features) == 0 && len(s.CustomFeatures) == 0 {
			fields["features"] = "Select at least one feature or add a custom feature"
		}
	case StepTechnologies:
		if len(s.Technologies.Frontend) == 0 {
			fields["frontend"] = "Select at least one frontend technology"
		}
		if len(s.Technologies.Backend) == 0 {
			fields["backend"] = "Select at least one backend technology"
		}
		if s.Technologies.Database == "" {
			fields["database"] = "Database selection is required"
		}
		if s.Technologies.Hosting == "" {
			fields["hosting"] = "Hosting selection is required"
		}
	case StepTeam:
		if s.Team.Developers < 1 {
			fields["developers"] = "At least one developer is required"
		}
		if s.Team.Designers < 0 || s.Team.ProjectManagers < 0 || s.Team.QATesters < 0 {
			fields["team"] = "Head counts cannot be negative"
		}
	case StepTimeline:
		if s.Timeline.DurationMonths < 1 {
			fields["durationMonths"] = "Duration must be at least 1 month"
		}
		if s.Timeline.StartDate == "" {
			fields["startDate"] = "Start date is required"
		}
	default:
		return Invalid(op, "Unknown questionnaire step")
	}

	if len(fields) > 0 {
		return &ValidationError{Op: op, Fields: fields}
	}
	return nil
}

// Validate re-runs every stage validation, merging field errors. This is the
// pre-submission gate: nothing may be persisted while it fails.
func (s *QuestionnaireSnapshot) Validate() error {
	const op = "QuestionnaireSnapshot.Validate"

	merged := make(map[string]string)
	for step := StepProjectBasics; step <= QuestionnaireSteps; step++ {
		err := s.ValidateStep(step)
		if err == nil {
			continue
		}
		ve, ok := err.(*ValidationError)
		if !ok {
			return err
		}
		for field, msg := range ve.Fields {
			merged[field] = msg
		}
	}
	if len(merged) > 0 {
		return &ValidationError{Op: op, Fields: merged}
	}
	return nil
}
