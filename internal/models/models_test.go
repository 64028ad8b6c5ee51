package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{name: "future expiration", expiresAt: time.Now().Add(1 * time.Hour), want: false},
		{name: "just expired", expiresAt: time.Now().Add(-1 * time.Second), want: true},
		{name: "expired yesterday", expiresAt: time.Now().Add(-24 * time.Hour), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				UserID:    "1",
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			assert.Equal(t, tt.want, session.IsExpired())
		})
	}
}

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var payload struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "9f1c", "c": null}`), &payload))

	assert.Equal(t, ID("42"), payload.A)
	assert.Equal(t, ID("9f1c"), payload.B)
	assert.Equal(t, ID(""), payload.C)
}

func TestUserRoleLabel(t *testing.T) {
	assert.Equal(t, "Student", (*User)(nil).RoleLabel())
	assert.Equal(t, "Student", (&User{}).RoleLabel())
	assert.Equal(t, "Professor", (&User{Role: RoleProfessor}).RoleLabel())
	assert.Equal(t, 1, (&User{}).DisplayLevel())
	assert.Equal(t, 5, (&User{Level: 5}).DisplayLevel())
}

func TestTutorSessionQuestions(t *testing.T) {
	session := TutorSession{
		QuizData: `[{"question":"2+2?","options":["3","4","5","6"],"correct_answer":"B"}]`,
	}

	questions, err := session.Questions()
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "B", questions[0].CorrectAnswer)
	assert.Len(t, questions[0].Options, 4)

	session.QuizData = "not json"
	_, err = session.Questions()
	assert.Error(t, err)
}

func TestTutorSessionStoredResult(t *testing.T) {
	score := 66.7
	tests := []struct {
		name    string
		session TutorSession
		total   int
		want    *QuizResult
	}{
		{name: "not completed", session: TutorSession{Score: &score}, total: 3, want: nil},
		{name: "completed without score", session: TutorSession{Completed: true}, total: 3, want: nil},
		{
			name:    "completed rounds correct count",
			session: TutorSession{Completed: true, Score: &score},
			total:   3,
			want:    &QuizResult{Score: 66.7, CorrectCount: 2, TotalQuestions: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.StoredResult(tt.total))
		})
	}
}

func TestOptionLetter(t *testing.T) {
	assert.Equal(t, "A", OptionLetter(0))
	assert.Equal(t, "D", OptionLetter(3))
}

func TestTierForGrade(t *testing.T) {
	tests := []struct {
		grade float64
		tier  int
		name  string
	}{
		{95, 1, "Tier 1: Refinement & Impact"},
		{90, 1, "Tier 1: Refinement & Impact"},
		{85, 2, "Tier 2: Solid Structure & Detail"},
		{70, 3, "Tier 3: Core Requirements & Execution"},
		{12, 4, "Tier 4: Foundational Skill Building"},
	}

	for _, tt := range tests {
		tier := TierForGrade(tt.grade)
		assert.Equal(t, tt.tier, tier, "grade %v", tt.grade)
		b := Booster{Tier: tier}
		assert.Equal(t, tt.name, b.TierName())
	}

	assert.Equal(t, "Custom Tier", (&Booster{Tier: 9}).TierName())
}

func TestBoosterDecodesEmbeddedJSON(t *testing.T) {
	b := Booster{
		Strategies: `["Outline first","Cite sources"]`,
		Resources:  `[{"name":"Purdue OWL","url":"https://owl.purdue.edu"}]`,
		Assessment: `{"questions":[{"type":"multiple_choice","question":"Q","options":["a","b"],"correct_answer":1},{"type":"short_answer","question":"Why?"}],"guidance":"Be specific"}`,
	}

	assert.Equal(t, []string{"Outline first", "Cite sources"}, b.StrategyList())
	assert.Equal(t, "Purdue OWL", b.ResourceList()[0].Name)

	a := b.ParsedAssessment()
	require.Len(t, a.Questions, 2)
	require.NotNil(t, a.Questions[0].CorrectAnswer)
	assert.Equal(t, 1, *a.Questions[0].CorrectAnswer)
	assert.Nil(t, a.Questions[1].CorrectAnswer)
	assert.Equal(t, "Be specific", a.Guidance)

	broken := Booster{Strategies: "{", Assessment: "["}
	assert.Nil(t, broken.StrategyList())
	assert.Empty(t, broken.ParsedAssessment().Questions)
}

func TestAdaptivePracticeResources(t *testing.T) {
	p := AdaptivePractice{Resources: `[{"title":"Khan Academy","type":"video","url":"https://khanacademy.org"},"Flashcards"]`}

	resources := p.ParsedResources()
	require.Len(t, resources, 2)
	assert.Equal(t, "Khan Academy", resources[0].Title)
	assert.Equal(t, "Flashcards", resources[1].Title)

	p.Resources = "oops"
	assert.Nil(t, p.ParsedResources())
}

func TestDashboardSummaryPerformanceShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{name: "object", body: `{"level":3,"performance":{"score":82}}`, want: 82},
		{name: "list", body: `{"user":{"id":"u1","name":"Ana","level":2},"performance":[{"score":80},{"score":90}]}`, want: 85},
		{name: "missing", body: `{"level":1}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DashboardSummary
			require.NoError(t, json.Unmarshal([]byte(tt.body), &d))
			assert.InDelta(t, tt.want, d.AverageScore(), 0.001)
		})
	}
}

func TestDashboardSummaryFallsBackToNestedUser(t *testing.T) {
	var d DashboardSummary
	body := `{"user":{"id":"u1","name":"Ana","level":4},"recent_activities":[{"activity_type":"login","description":"a"},{"activity_type":"login","description":"b"},{"activity_type":"login","description":"c"},{"activity_type":"login","description":"d"}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &d))

	assert.Equal(t, "Ana", d.DisplayName())
	assert.Equal(t, 4, d.DisplayLevel())
	assert.Len(t, d.RecentActivity(3), 3)
}

func TestAssignmentDueDateLabel(t *testing.T) {
	a := Assignment{DueDate: "2025-11-15T09:30:00"}
	assert.Equal(t, "Nov 15, 2025", a.DueDateLabel())

	a.DueDate = "whenever"
	assert.Equal(t, "whenever", a.DueDateLabel())
}
