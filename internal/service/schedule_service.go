package service

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"smartedtech/internal/models"
	"smartedtech/internal/validation"
)

// seedSchedule is what every new session starts with
var seedSchedule = []models.ScheduleItem{
	{ID: "1", Name: "Chemistry Midterm", Date: "2025-11-15", Status: models.StatusUpcoming},
	{ID: "2", Name: "English Essay Final", Date: "2025-11-20", Status: models.StatusUpcoming},
	{ID: "3", Name: "Adaptive Quiz: History", Date: "2025-10-01", Status: models.StatusCompleted},
	{ID: "4", Name: "Math: Vector Analysis Test", Date: "2025-09-10", Status: models.StatusCompleted},
	{ID: "5", Name: "Biology Project Due", Date: "2025-09-05", Status: models.StatusMissed},
}

// ScheduleView is the schedule split for display
type ScheduleView struct {
	Upcoming []models.ScheduleItem
	Past     []models.ScheduleItem
}

// ScheduleService keeps each session's exam schedule in memory
type ScheduleService struct {
	mu        sync.Mutex
	schedules map[string][]models.ScheduleItem
	newID     func() string
}

// NewScheduleService creates an empty schedule service
func NewScheduleService() *ScheduleService {
	return &ScheduleService{
		schedules: make(map[string][]models.ScheduleItem),
		newID:     func() string { return uuid.NewString() },
	}
}

// load returns the session's list, seeding it on first use. Caller holds mu.
func (s *ScheduleService) load(sessionID string) []models.ScheduleItem {
	items, ok := s.schedules[sessionID]
	if !ok {
		items = append([]models.ScheduleItem(nil), seedSchedule...)
		s.schedules[sessionID] = items
	}
	return items
}

// Items returns a copy of the session's schedule in stored order
func (s *ScheduleService) Items(sessionID string) []models.ScheduleItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ScheduleItem(nil), s.load(sessionID)...)
}

// Add validates and appends a new upcoming item, then re-sorts the list so
// upcoming items come first and each group runs by ascending date
func (s *ScheduleService) Add(sessionID string, form validation.ScheduleForm) (models.ScheduleItem, error) {
	if err := validation.ValidateSchedule(&form); err != nil {
		return models.ScheduleItem{}, err
	}

	item := models.ScheduleItem{
		ID:     s.newID(),
		Name:   form.Name,
		Date:   form.Date,
		Status: models.StatusUpcoming,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := append(s.load(sessionID), item)
	SortSchedule(items)
	s.schedules[sessionID] = items
	return item, nil
}

// Delete removes the item with id. Unknown ids are ignored.
func (s *ScheduleService) Delete(sessionID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load(sessionID)
	kept := items[:0:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.schedules[sessionID] = kept
}

// Forget drops the session's schedule
func (s *ScheduleService) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.schedules, sessionID)
}

// View splits the schedule into upcoming items, in stored order, and past
// items, newest first
func (s *ScheduleService) View(sessionID string) ScheduleView {
	return SplitSchedule(s.Items(sessionID))
}

// SortSchedule orders upcoming items before the rest, then by ascending date
func SortSchedule(items []models.ScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsUpcoming() != b.IsUpcoming() {
			return a.IsUpcoming()
		}
		return a.Date < b.Date
	})
}

// SplitSchedule partitions items for display
func SplitSchedule(items []models.ScheduleItem) ScheduleView {
	var view ScheduleView
	for _, item := range items {
		if item.IsUpcoming() {
			view.Upcoming = append(view.Upcoming, item)
		} else {
			view.Past = append(view.Past, item)
		}
	}
	sort.SliceStable(view.Past, func(i, j int) bool {
		return view.Past[i].Date > view.Past[j].Date
	})
	return view
}
