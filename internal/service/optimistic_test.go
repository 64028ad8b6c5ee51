package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartedtech/internal/models"
)

func TestOptimisticRollbackRestoresList(t *testing.T) {
	list := NewOptimisticList[models.AdaptivePractice]()
	list.Replace("s", []models.AdaptivePractice{{ID: "1", Title: "Fractions"}})
	before := list.Entries("s")

	op := list.Begin("s", "Mathematics")
	during := list.Entries("s")
	require.Len(t, during, 2)
	assert.True(t, during[0].Pending)
	assert.Equal(t, "Mathematics", during[0].Subject)

	list.Rollback("s", op)
	assert.Equal(t, before, list.Entries("s"))
}

func TestOptimisticConfirmReplacesPlaceholder(t *testing.T) {
	list := NewOptimisticList[models.TutorSession]()
	list.Replace("s", []models.TutorSession{{ID: "1"}})

	op := list.Begin("s", "Physics")
	list.Confirm("s", op, models.TutorSession{ID: "2", Subject: "Physics"})

	entries := list.Entries("s")
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Pending)
	assert.Equal(t, models.ID("2"), entries[0].Item.ID)
	assert.Equal(t, models.ID("1"), entries[1].Item.ID)
}

func TestOptimisticReplaceKeepsPending(t *testing.T) {
	list := NewOptimisticList[models.TutorSession]()
	op := list.Begin("s", "Chemistry")

	list.Replace("s", []models.TutorSession{{ID: "9"}})
	entries := list.Entries("s")
	require.Len(t, entries, 2)
	assert.Equal(t, op, entries[0].OpID)
	assert.True(t, entries[0].Pending)
}

func TestOptimisticRollbackUnknownOp(t *testing.T) {
	list := NewOptimisticList[models.TutorSession]()
	list.Replace("s", []models.TutorSession{{ID: "1"}})
	list.Rollback("s", "nope")
	assert.Len(t, list.Entries("s"), 1)

	list.Forget("s")
	assert.Empty(t, list.Entries("s"))
}
