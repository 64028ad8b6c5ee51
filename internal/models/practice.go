package models

import (
	"encoding/json"
	"strings"
)

// AdaptivePractice is a generated practice session tailored to the
// student's performance level in one subject.
type AdaptivePractice struct {
	ID               ID     `json:"id"`
	UserID           ID     `json:"user_id"`
	Subject          string `json:"subject"`
	PerformanceLevel string `json:"performance_level"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Content          string `json:"content"`
	Resources        string `json:"resources"`
	Completed        bool   `json:"completed"`
	CreatedAt        string `json:"created_at"`
}

// PracticeResource is one entry of an adaptive practice's resources list
type PracticeResource struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// ParsedResources decodes the resources JSON string. Plain strings in the
// list are kept as titles; malformed JSON yields nil.
func (p *AdaptivePractice) ParsedResources() []PracticeResource {
	if strings.TrimSpace(p.Resources) == "" {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(p.Resources), &raw); err != nil {
		return nil
	}

	resources := make([]PracticeResource, 0, len(raw))
	for _, item := range raw {
		var r PracticeResource
		if err := json.Unmarshal(item, &r); err == nil {
			resources = append(resources, r)
			continue
		}
		var title string
		if err := json.Unmarshal(item, &title); err == nil {
			resources = append(resources, PracticeResource{Title: title})
		}
	}
	return resources
}

// LevelLabel maps the upstream performance level to the badge text
func (p AdaptivePractice) LevelLabel() string {
	switch p.PerformanceLevel {
	case "remedial":
		return "Remedial"
	case "advanced":
		return "Advanced"
	case "standard":
		return "Standard"
	default:
		return p.PerformanceLevel
	}
}
