package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartedtech/internal/models"
)

func TestReviewQuizMarksOnlyMatchingAnswers(t *testing.T) {
	questions := []models.QuizQuestion{
		{Question: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "A"},
		{Question: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "C"},
	}

	review := ReviewQuiz(questions, []string{"A", "B"}, models.QuizResult{Score: 50, CorrectCount: 1, TotalQuestions: 2})

	assert.Equal(t, "50.0%", review.Score)
	assert.Equal(t, BandWarning, review.Band)
	require.Len(t, review.Questions, 2)
	assert.True(t, review.Questions[0].Correct)
	assert.False(t, review.Questions[1].Correct)

	correct := 0
	for _, q := range review.Questions {
		if q.Correct {
			correct++
		}
	}
	assert.Equal(t, 1, correct)

	opts := review.Questions[1].Options
	assert.True(t, opts[1].Selected)
	assert.True(t, opts[2].IsAnswer)
}

func TestScoreBand(t *testing.T) {
	tests := []struct {
		score float64
		band  string
	}{
		{100, BandGood},
		{70, BandGood},
		{69.9, BandWarning},
		{40, BandWarning},
		{39.9, BandPoor},
		{0, BandPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, ScoreBand(tt.score), "score %v", tt.score)
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "66.7%", FormatScore(66.6666))
	assert.Equal(t, "100.0%", FormatScore(100))
}

func TestCheckAnswers(t *testing.T) {
	answers, err := CheckAnswers([]string{"a", " B "}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, answers)

	_, err = CheckAnswers([]string{"A", ""}, 2)
	assert.ErrorIs(t, err, ErrIncompleteAnswers)

	_, err = CheckAnswers([]string{"A"}, 2)
	assert.ErrorIs(t, err, ErrIncompleteAnswers)
}

func TestStoredResultRebuildsCorrectCount(t *testing.T) {
	score := 66.7
	session := models.TutorSession{Completed: true, Score: &score}
	result := session.StoredResult(3)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, "66.7%", FormatScore(result.Score))
}
