package models

// LeaderboardEntry is one ranked row of the class leaderboard
type LeaderboardEntry struct {
	Rank          int
	StudentID     int
	StudentName   string
	AverageScore  float64
	IsCurrentUser bool
}

// PerformanceSubject is a per-subject score card on the performance page
type PerformanceSubject struct {
	Name         string
	CurrentScore int
	Target       int
	LastQuiz     int
	Trend        int
}

// PerformanceOverview holds the overall performance statistics
type PerformanceOverview struct {
	AverageScore    int
	QuizzesTaken    int
	TopicsMastered  int
	StudyStreakDays int
}

// ResourceCategory groups study resources on the resources page
type ResourceCategory struct {
	Title       string
	Description string
	Href        string
	Items       []ResourceItem
}

// ResourceItem is a single linked resource inside a category
type ResourceItem struct {
	Title string
	Type  string
}
