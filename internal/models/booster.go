package models

import (
	"encoding/json"
	"strings"
)

// Booster is a remediation plan generated from a graded assignment
type Booster struct {
	ID                ID      `json:"id"`
	UserID            ID      `json:"user_id"`
	AssignmentID      ID      `json:"assignment_id"`
	Subject           string  `json:"subject"`
	AssignmentTitle   string  `json:"assignment_title"`
	Grade             float64 `json:"grade"`
	Feedback          string  `json:"feedback"`
	Tier              int     `json:"tier"`
	DiagnosticSummary string  `json:"diagnostic_summary"`
	Strategies        string  `json:"strategies"`
	Resources         string  `json:"resources"`
	Assessment        string  `json:"assessment"`
	CreatedAt         string  `json:"created_at"`
}

// BoosterResource is a named link attached to a booster
type BoosterResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Assessment is the self-check attached to a booster
type Assessment struct {
	Questions []AssessmentQuestion `json:"questions"`
	Guidance  string               `json:"guidance"`
}

// Assessment question kinds
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionShortAnswer    = "short_answer"
)

// AssessmentQuestion is a self-check question. CorrectAnswer is an option
// index and is only set for multiple choice questions.
type AssessmentQuestion struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
}

// BoosterRequest is the payload for creating a booster
type BoosterRequest struct {
	UserID          string  `json:"user_id"`
	AssignmentID    string  `json:"assignment_id,omitempty"`
	Subject         string  `json:"subject"`
	AssignmentTitle string  `json:"assignment_title"`
	Grade           float64 `json:"grade"`
	Feedback        string  `json:"feedback"`
}

var tierNames = map[int]string{
	1: "Tier 1: Refinement & Impact",
	2: "Tier 2: Solid Structure & Detail",
	3: "Tier 3: Core Requirements & Execution",
	4: "Tier 4: Foundational Skill Building",
}

// TierForGrade maps a grade to a support tier
func TierForGrade(grade float64) int {
	switch {
	case grade >= 90:
		return 1
	case grade >= 80:
		return 2
	case grade >= 70:
		return 3
	default:
		return 4
	}
}

// TierName returns the display name of the booster's tier
func (b *Booster) TierName() string {
	if name, ok := tierNames[b.Tier]; ok {
		return name
	}
	return "Custom Tier"
}

// StrategyList decodes the strategies JSON string
func (b *Booster) StrategyList() []string {
	var strategies []string
	if err := decodeJSONString(b.Strategies, &strategies); err != nil {
		return nil
	}
	return strategies
}

// ResourceList decodes the resources JSON string
func (b *Booster) ResourceList() []BoosterResource {
	var resources []BoosterResource
	if err := decodeJSONString(b.Resources, &resources); err != nil {
		return nil
	}
	return resources
}

// ParsedAssessment decodes the assessment JSON string
func (b *Booster) ParsedAssessment() Assessment {
	var a Assessment
	if err := decodeJSONString(b.Assessment, &a); err != nil {
		return Assessment{}
	}
	return a
}

func decodeJSONString(s string, v any) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
