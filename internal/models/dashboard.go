package models

import (
	"encoding/json"
	"time"
)

// Assignment is a piece of coursework tracked by the upstream backend
type Assignment struct {
	ID          ID       `json:"id"`
	UserID      ID       `json:"user_id"`
	Title       string   `json:"title"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	Status      string   `json:"status"`
	Score       *float64 `json:"score"`
	CreatedAt   string   `json:"created_at"`
}

// DueDateLabel formats the ISO due date for display, falling back to the raw value
func (a Assignment) DueDateLabel() string {
	return formatISODate(a.DueDate, "Jan 2, 2006")
}

// Activity is an entry of the user's recent activity feed
type Activity struct {
	ID           ID     `json:"id"`
	ActivityType string `json:"activity_type"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
}

// When formats the activity timestamp for display
func (a Activity) When() string {
	return formatISODate(a.CreatedAt, "Jan 2, 2006 3:04 PM")
}

// PerformanceSnapshot is the headline score block of the dashboard summary
type PerformanceSnapshot struct {
	Score float64 `json:"score"`
}

// DashboardSummary is the upstream /dashboard/user/{id} payload. Older
// backends return the flat stat fields; newer ones nest the user and
// split activities into recent_activities.
type DashboardSummary struct {
	Name             string               `json:"name"`
	Level            int                  `json:"level"`
	Performance      *PerformanceSnapshot `json:"-"`
	HoursStudied     float64              `json:"hours_studied"`
	HoursTrend       string               `json:"hours_trend"`
	CoursesCompleted int                  `json:"courses_completed"`
	Activities       []Activity           `json:"activities"`
	RecentActivities []Activity           `json:"recent_activities"`
	User             *User                `json:"user"`
}

// UnmarshalJSON accepts performance as either {"score": n} or a list of
// per-subject scores, which is averaged.
func (d *DashboardSummary) UnmarshalJSON(data []byte) error {
	type summary DashboardSummary
	aux := struct {
		*summary
		Performance json.RawMessage `json:"performance"`
	}{summary: (*summary)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.Performance) == 0 || string(aux.Performance) == "null" {
		return nil
	}

	var snapshot PerformanceSnapshot
	if err := json.Unmarshal(aux.Performance, &snapshot); err == nil {
		d.Performance = &snapshot
		return nil
	}

	var scores []PerformanceSnapshot
	if err := json.Unmarshal(aux.Performance, &scores); err != nil {
		return err
	}
	if len(scores) > 0 {
		total := 0.0
		for _, s := range scores {
			total += s.Score
		}
		d.Performance = &PerformanceSnapshot{Score: total / float64(len(scores))}
	}
	return nil
}

// AverageScore returns the headline score, zero when unknown
func (d *DashboardSummary) AverageScore() float64 {
	if d.Performance == nil {
		return 0
	}
	return d.Performance.Score
}

// DisplayLevel prefers the summary level, then the nested user's
func (d *DashboardSummary) DisplayLevel() int {
	if d.Level > 0 {
		return d.Level
	}
	if d.User != nil {
		return d.User.Level
	}
	return 0
}

// DisplayName prefers the summary name, then the nested user's
func (d *DashboardSummary) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	if d.User != nil {
		return d.User.Name
	}
	return ""
}

// RecentActivity returns at most n activities from whichever list is populated
func (d *DashboardSummary) RecentActivity(n int) []Activity {
	activities := d.Activities
	if len(activities) == 0 {
		activities = d.RecentActivities
	}
	if len(activities) > n {
		activities = activities[:n]
	}
	return activities
}

func formatISODate(value, layout string) string {
	for _, in := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(in, value); err == nil {
			return t.Format(layout)
		}
	}
	return value
}
