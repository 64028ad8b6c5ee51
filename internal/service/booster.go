package service

import (
	"strconv"
	"strings"

	"smartedtech/internal/models"
)

// AssessmentReview is one self-check question with the student's answer
type AssessmentReview struct {
	Number        int
	Question      models.AssessmentQuestion
	Answer        string
	Selected      int
	Checked       bool
	Correct       bool
	CorrectOption string
}

// IsMultipleChoice reports whether the question has gradable options
func (r AssessmentReview) IsMultipleChoice() bool {
	return r.Question.Type == models.QuestionMultipleChoice && r.Question.CorrectAnswer != nil
}

// CheckAssessment grades multiple-choice answers against their correct
// option index and echoes short answers back. answers holds the raw form
// value per question: an option index for multiple choice, free text
// otherwise. With submitted false nothing is marked.
func CheckAssessment(assessment models.Assessment, answers []string, submitted bool) []AssessmentReview {
	reviews := make([]AssessmentReview, 0, len(assessment.Questions))
	for i, q := range assessment.Questions {
		r := AssessmentReview{Number: i + 1, Question: q, Selected: -1}
		if i < len(answers) {
			r.Answer = strings.TrimSpace(answers[i])
		}

		if r.IsMultipleChoice() {
			if idx, err := strconv.Atoi(r.Answer); err == nil {
				r.Selected = idx
			}
			correct := *q.CorrectAnswer
			if correct >= 0 && correct < len(q.Options) {
				r.CorrectOption = q.Options[correct]
			}
			if submitted {
				r.Checked = true
				r.Correct = r.Selected == correct
			}
		}
		reviews = append(reviews, r)
	}
	return reviews
}

// CountCorrect returns how many graded questions were answered correctly
// and how many were graded
func CountCorrect(reviews []AssessmentReview) (correct, graded int) {
	for _, r := range reviews {
		if !r.Checked {
			continue
		}
		graded++
		if r.Correct {
			correct++
		}
	}
	return correct, graded
}
