package service

import (
	"errors"
	"fmt"
	"strings"

	"smartedtech/internal/models"
)

// ErrIncompleteAnswers rejects a quiz submission with a blank answer
var ErrIncompleteAnswers = errors.New("quiz has unanswered questions")

// MsgIncompleteAnswers is shown when ErrIncompleteAnswers is returned
const MsgIncompleteAnswers = "Please answer all questions before submitting"

// Score bands used to colour a quiz result
const (
	BandGood    = "good"
	BandWarning = "warning"
	BandPoor    = "poor"
)

// QuestionReview is one question of a graded quiz as shown to the student
type QuestionReview struct {
	Number        int
	Question      string
	Options       []QuestionOption
	Answer        string
	CorrectAnswer string
	Correct       bool
}

// QuestionOption is one lettered option of a question
type QuestionOption struct {
	Letter   string
	Text     string
	Selected bool
	IsAnswer bool
}

// QuizReview is a graded quiz ready for display
type QuizReview struct {
	Result    models.QuizResult
	Score     string
	Band      string
	Questions []QuestionReview
}

// CheckAnswers normalises the submitted letters and requires one per question
func CheckAnswers(answers []string, questionCount int) ([]string, error) {
	if len(answers) < questionCount {
		return nil, ErrIncompleteAnswers
	}
	out := make([]string, questionCount)
	for i := 0; i < questionCount; i++ {
		a := strings.ToUpper(strings.TrimSpace(answers[i]))
		if a == "" {
			return nil, ErrIncompleteAnswers
		}
		out[i] = a
	}
	return out, nil
}

// FormatScore renders a percentage with one decimal place
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f%%", score)
}

// ScoreBand classifies a percentage score
func ScoreBand(score float64) string {
	switch {
	case score >= 70:
		return BandGood
	case score >= 40:
		return BandWarning
	default:
		return BandPoor
	}
}

// ReviewQuiz marks each question against the submitted answers and pairs
// them with the server's result. A question is correct only when the
// answer letter equals its correct_answer.
func ReviewQuiz(questions []models.QuizQuestion, answers []string, result models.QuizResult) QuizReview {
	review := QuizReview{
		Result:    result,
		Score:     FormatScore(result.Score),
		Band:      ScoreBand(result.Score),
		Questions: ReviewQuestions(questions, answers),
	}
	return review
}

// ReviewQuestions builds the per-question view. answers may be shorter
// than questions when nothing has been submitted yet.
func ReviewQuestions(questions []models.QuizQuestion, answers []string) []QuestionReview {
	reviews := make([]QuestionReview, 0, len(questions))
	for i, q := range questions {
		var answer string
		if i < len(answers) {
			answer = answers[i]
		}

		options := make([]QuestionOption, 0, len(q.Options))
		for j, text := range q.Options {
			letter := models.OptionLetter(j)
			options = append(options, QuestionOption{
				Letter:   letter,
				Text:     text,
				Selected: answer == letter,
				IsAnswer: q.CorrectAnswer == letter,
			})
		}

		reviews = append(reviews, QuestionReview{
			Number:        i + 1,
			Question:      q.Question,
			Options:       options,
			Answer:        answer,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       answer != "" && answer == q.CorrectAnswer,
		})
	}
	return reviews
}
