package service

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"smartedtech/internal/models"
)

// LeaderboardTitle heads the rank page
const LeaderboardTitle = "Class 10-B: Q3 Average Score Leaderboard"

var leaderboardNames = []string{
	"Anya Sharma", "Ben Carter", "Chloe Kim", "David Lee (You)", "Emily Jones",
	"Finnegan O’Connell", "Grace Hopper", "Henry Ford", "Ivy Queen", "Jack Sparrow",
	"Kira Yamato", "Liam Gallagher", "Mia Wallace", "Noah Centineo", "Olivia Newton",
	"Peter Quill", "Quinn Fabray", "Ryan Gosling", "Sara Lance", "Tom Hardy",
}

const currentUserMarker = "(You)"

// GenerateLeaderboard draws a score per demo student from rng, then
// ranks them by descending score
func GenerateLeaderboard(rng *rand.Rand) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(leaderboardNames))
	for i, name := range leaderboardNames {
		score := math.Floor(70+rng.Float64()*300) / 4
		score = math.Max(55.0, math.Min(99.9, score))

		entries = append(entries, models.LeaderboardEntry{
			StudentID:     1000 + i,
			StudentName:   name,
			AverageScore:  math.Round(score*10) / 10,
			IsCurrentUser: strings.Contains(name, currentUserMarker),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AverageScore > entries[j].AverageScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Leaderboard is drawn once and then served unchanged
type Leaderboard struct {
	entries []models.LeaderboardEntry
}

// NewLeaderboard draws the leaderboard with rng
func NewLeaderboard(rng *rand.Rand) *Leaderboard {
	return &Leaderboard{entries: GenerateLeaderboard(rng)}
}

// TopThree returns the podium entries
func (l *Leaderboard) TopThree() []models.LeaderboardEntry {
	if len(l.entries) < 3 {
		return l.entries
	}
	return l.entries[:3]
}

// Rest returns every entry below the podium
func (l *Leaderboard) Rest() []models.LeaderboardEntry {
	if len(l.entries) < 3 {
		return nil
	}
	return l.entries[3:]
}
