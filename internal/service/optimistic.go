package service

import (
	"sync"

	"github.com/google/uuid"
)

// Entry is one row of an optimistic list. Pending rows are placeholders
// for a generate call still in flight.
type Entry[T any] struct {
	OpID    string
	Subject string
	Pending bool
	Item    T
}

// OptimisticList holds each session's view of a generated-content list.
// A generate prepends a pending row under a fresh operation ID, which is
// later confirmed with the backend's record or rolled back.
type OptimisticList[T any] struct {
	mu    sync.Mutex
	lists map[string][]Entry[T]
	newID func() string
}

// NewOptimisticList creates an empty list store
func NewOptimisticList[T any]() *OptimisticList[T] {
	return &OptimisticList[T]{
		lists: make(map[string][]Entry[T]),
		newID: func() string { return uuid.NewString() },
	}
}

// Replace stores the backend's authoritative items, keeping any rows still
// pending on top
func (l *OptimisticList[T]) Replace(sessionID string, items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var next []Entry[T]
	for _, e := range l.lists[sessionID] {
		if e.Pending {
			next = append(next, e)
		}
	}
	for _, item := range items {
		next = append(next, Entry[T]{Item: item})
	}
	l.lists[sessionID] = next
}

// Begin prepends a pending placeholder and returns its operation ID
func (l *OptimisticList[T]) Begin(sessionID, subject string) string {
	opID := l.newID()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry[T]{OpID: opID, Subject: subject, Pending: true}
	l.lists[sessionID] = append([]Entry[T]{entry}, l.lists[sessionID]...)
	return opID
}

// Confirm swaps the placeholder for the record the backend returned
func (l *OptimisticList[T]) Confirm(sessionID, opID string, item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.lists[sessionID]
	for i := range entries {
		if entries[i].OpID == opID && entries[i].Pending {
			entries[i] = Entry[T]{Item: item}
			return
		}
	}
	l.lists[sessionID] = append([]Entry[T]{{Item: item}}, entries...)
}

// Rollback removes the placeholder, restoring the list as it was before Begin
func (l *OptimisticList[T]) Rollback(sessionID, opID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.lists[sessionID]
	for i := range entries {
		if entries[i].OpID == opID && entries[i].Pending {
			l.lists[sessionID] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Entries returns a copy of the session's rows, newest first
func (l *OptimisticList[T]) Entries(sessionID string) []Entry[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry[T](nil), l.lists[sessionID]...)
}

// Forget drops the session's rows
func (l *OptimisticList[T]) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.lists, sessionID)
}
