package service

import (
	"encoding/json"
	"time"

	"smartedtech/internal/models"
)

// XPForNextLevel is the points total that completes a level
const XPForNextLevel = 1500

// Profile figures the backend does not provide
const (
	DefaultProfileLevel    = 5
	DefaultProfilePoints   = 1210
	DefaultCoursesEnrolled = 4
)

// XPProgress returns how far points are toward the next level, as a
// percentage capped at 100
func XPProgress(points int) float64 {
	p := float64(points) / XPForNextLevel * 100
	if p > 100 {
		return 100
	}
	return p
}

// PerformanceSubjects are the per-subject cards on the performance page
func PerformanceSubjects() []models.PerformanceSubject {
	return []models.PerformanceSubject{
		{Name: "Mathematics (Algebra)", CurrentScore: 85, Target: 90, LastQuiz: 90, Trend: 5},
		{Name: "Physics (Kinematics)", CurrentScore: 62, Target: 75, LastQuiz: 58, Trend: -3},
		{Name: "History (World War I)", CurrentScore: 91, Target: 85, LastQuiz: 95, Trend: 2},
		{Name: "English (Writing & Grammar)", CurrentScore: 78, Target: 80, LastQuiz: 75, Trend: 3},
		{Name: "Computer Science (Data Structures)", CurrentScore: 94, Target: 90, LastQuiz: 98, Trend: 7},
	}
}

// PerformanceStats are the overall figures on the performance page
func PerformanceStats() models.PerformanceOverview {
	return models.PerformanceOverview{
		AverageScore:    79,
		QuizzesTaken:    42,
		TopicsMastered:  15,
		StudyStreakDays: 7,
	}
}

// Performance ring colours
const (
	RingGreen = "green"
	RingAmber = "amber"
	RingRed   = "red"
)

// RingColor picks the progress ring colour for a score
func RingColor(score int) string {
	switch {
	case score >= 80:
		return RingGreen
	case score >= 60:
		return RingAmber
	default:
		return RingRed
	}
}

// ResourceCategories are the study resource groups
func ResourceCategories() []models.ResourceCategory {
	return []models.ResourceCategory{
		{
			Title:       "Adaptive Quizzes",
			Description: "Personalized quizzes that adjust difficulty based on your strengths and weaknesses in core subjects.",
			Href:        "/quiz",
			Items: []models.ResourceItem{
				{Title: "Start Adaptive Math Quiz", Type: "Quiz"},
				{Title: "Practice Physics Concepts", Type: "Quiz"},
			},
		},
		{
			Title:       "Study Guides & Notes",
			Description: "Downloadable, curated guides and printable notes for quick review and exam preparation.",
			Href:        "/guides",
			Items: []models.ResourceItem{
				{Title: "Algebra Review Sheet (PDF)", Type: "PDF"},
				{Title: "History Essay Outline Template", Type: "Doc"},
			},
		},
		{
			Title:       "Video Tutorials",
			Description: "High-definition video lectures and bite-sized tutorials on core and advanced topics.",
			Href:        "/videos",
			Items: []models.ResourceItem{
				{Title: "Lecture: Newton's Laws (Video)", Type: "Video"},
				{Title: "Grammar Deep Dive (Video)", Type: "Video"},
			},
		},
	}
}

// DemoBooster is shown when a booster cannot be fetched from the backend
func DemoBooster(id string, now time.Time) *models.Booster {
	const feedback = "The thesis was unclear and the paper lacked sufficient peer-reviewed sources."

	strategies := mustJSON([]string{
		"Create a detailed outline with clear topic sentences for each paragraph",
		"Develop an evidence tracking system to ensure claims are well-supported",
		"Schedule specific revision sessions focused solely on clarity and flow",
	})
	resources := mustJSON([]models.BoosterResource{
		{Name: "Advanced Research Methods Guide", URL: "https://www.coursera.org/learn/research-methods"},
		{Name: "Critical Thinking in Academic Writing", URL: "https://owl.purdue.edu/owl/general_writing/academic_writing/"},
		{Name: "Advanced Environmental Science Resources", URL: "https://scholar.google.com/"},
	})

	first := 0
	assessment := mustJSON(models.Assessment{
		Questions: []models.AssessmentQuestion{
			{
				Type:     models.QuestionMultipleChoice,
				Question: "Which organizational structure would best support a complex argument in Environmental Science?",
				Options: []string{
					"Thesis-driven structure with topic sentences that build upon each other",
					"Chronological order regardless of argument strength",
					"Random arrangement of facts and opinions",
					"Listing information without connecting ideas",
				},
				CorrectAnswer: &first,
			},
			{
				Type:     models.QuestionMultipleChoice,
				Question: "When developing your thesis for 'Research Paper on Climate Change', what approach would strengthen your argument?",
				Options: []string{
					"Making it specific, debatable, and supported by evidence",
					"Keeping it vague to cover more topics",
					"Making it as complex as possible with technical terms",
					"Focusing only on your personal opinion",
				},
				CorrectAnswer: &first,
			},
			{
				Type:     models.QuestionShortAnswer,
				Question: "Write a 1-sentence revised thesis statement that is more specific than: 'This paper discusses the topic.'",
			},
			{
				Type:     models.QuestionShortAnswer,
				Question: "Based on the feedback 'The thesis was unclear and the paper lacked sufficient peer-reviewed sources', what is the single most important change you must make for the next assignment?",
			},
			{
				Type:     models.QuestionMultipleChoice,
				Question: "What is the most effective approach to integrating evidence into your assignment?",
				Options: []string{
					"Introduce evidence, explain its relevance, and connect it to your thesis",
					"Include as many quotes as possible without explanation",
					"Save all evidence for the conclusion",
					"Rely primarily on personal anecdotes instead of research",
				},
				CorrectAnswer: &first,
			},
		},
		Guidance: "Focus on addressing the specific feedback you received: The thesis was unclear and the paper lacked sufficient peer-reviewed sources\n\n" +
			"To strengthen your work, focus on improving the organization and ensuring each point is well-supported with evidence.",
	})

	summary := "📝 Elevating Your Strong Foundation\n\n" +
		"Your grade of 85% on 'Research Paper on Climate Change' demonstrates solid understanding. The feedback indicates: " + feedback + "\n\n" +
		"Your focus should be on strengthening your organization and supporting evidence."

	return &models.Booster{
		ID:                models.ID(id),
		UserID:            "user-123",
		AssignmentID:      "assignment-1",
		Subject:           "Environmental Science",
		AssignmentTitle:   "Research Paper on Climate Change",
		Grade:             85,
		Feedback:          feedback,
		Tier:              2,
		DiagnosticSummary: summary,
		Strategies:        strategies,
		Resources:         resources,
		Assessment:        assessment,
		CreatedAt:         now.UTC().Format(time.RFC3339),
	}
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
