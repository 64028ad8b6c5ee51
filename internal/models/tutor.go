package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// TutorSubjects are the subjects a tutor session can be generated for
var TutorSubjects = []string{"Physics", "Chemistry", "Mathematics"}

// TutorSession is a generated lesson with an attached multiple-choice quiz
type TutorSession struct {
	ID               ID       `json:"id"`
	UserID           ID       `json:"user_id"`
	Subject          string   `json:"subject"`
	PerformanceLevel string   `json:"performance_level"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	QuizData         string   `json:"quiz_data"`
	Completed        bool     `json:"completed"`
	Score            *float64 `json:"score"`
	CreatedAt        string   `json:"created_at"`
}

// QuizQuestion is one question of a tutor quiz. CorrectAnswer is a letter A-D.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// QuizResult is the grading outcome returned by the upstream submit endpoint
type QuizResult struct {
	Score          float64 `json:"score"`
	CorrectCount   int     `json:"correct_count"`
	TotalQuestions int     `json:"total_questions"`
}

// PerformanceHistory is one graded quiz attempt
type PerformanceHistory struct {
	ID         ID      `json:"id"`
	UserID     ID      `json:"user_id"`
	Subject    string  `json:"subject"`
	QuizID     *ID     `json:"quiz_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	DateTaken  string  `json:"date_taken"`
}

// Questions decodes the quiz_data JSON string
func (s *TutorSession) Questions() ([]QuizQuestion, error) {
	if s.QuizData == "" {
		return nil, nil
	}
	var questions []QuizQuestion
	if err := json.Unmarshal([]byte(s.QuizData), &questions); err != nil {
		return nil, fmt.Errorf("failed to decode quiz data: %w", err)
	}
	return questions, nil
}

// StoredResult rebuilds the result of an already completed session from
// its recorded score. It returns nil when the session has no score yet.
func (s *TutorSession) StoredResult(totalQuestions int) *QuizResult {
	if !s.Completed || s.Score == nil {
		return nil
	}
	return &QuizResult{
		Score:          *s.Score,
		CorrectCount:   int(math.Round(*s.Score / 100 * float64(totalQuestions))),
		TotalQuestions: totalQuestions,
	}
}

// OptionLetter returns the answer letter for an option index (0 -> "A")
func OptionLetter(index int) string {
	return string(rune('A' + index))
}
