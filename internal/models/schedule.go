package models

// Schedule item statuses
const (
	StatusUpcoming  = "Upcoming"
	StatusCompleted = "Completed"
	StatusMissed    = "Missed"
)

// ScheduleItem is an exam or deadline on the student's schedule.
// Date is an ISO yyyy-mm-dd string so lexical order is date order.
type ScheduleItem struct {
	ID     string
	Name   string
	Date   string
	Status string
}

// IsUpcoming reports whether the item is still ahead of the student
func (i ScheduleItem) IsUpcoming() bool {
	return i.Status == StatusUpcoming
}
