package service

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLeaderboard(t *testing.T) {
	entries := GenerateLeaderboard(rand.New(rand.NewPCG(1, 2)))
	require.Len(t, entries, 20)

	current := 0
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		assert.GreaterOrEqual(t, e.AverageScore, 55.0)
		assert.LessOrEqual(t, e.AverageScore, 99.9)
		assert.InDelta(t, e.AverageScore, float64(int(e.AverageScore*10+0.5))/10, 1e-9)
		if i > 0 {
			assert.LessOrEqual(t, e.AverageScore, entries[i-1].AverageScore)
		}
		if e.IsCurrentUser {
			current++
			assert.Equal(t, "David Lee (You)", e.StudentName)
			assert.Equal(t, 1003, e.StudentID)
		}
	}
	assert.Equal(t, 1, current)
}

func TestGenerateLeaderboardIsSeedable(t *testing.T) {
	a := GenerateLeaderboard(rand.New(rand.NewPCG(7, 7)))
	b := GenerateLeaderboard(rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a, b)
}

func TestLeaderboardPodium(t *testing.T) {
	board := NewLeaderboard(rand.New(rand.NewPCG(3, 4)))
	assert.Len(t, board.TopThree(), 3)
	assert.Len(t, board.Rest(), 17)
	assert.Equal(t, 4, board.Rest()[0].Rank)
}
