package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Status      bool      `json:"status"`
	CreatedTime time.Time `json:"created_time"`
	CreatedDate time.Time `json:"-"`
	OwnerID     int64     `json:"owner_id"`
}

// DateOf returns midnight UTC of t's calendar day in t's own location, so
// dates compare equal regardless of the clock they came from.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

type TaskView string

const (
	ViewAll       TaskView = "all"
	ViewPending   TaskView = "pending"
	ViewCompleted TaskView = "completed"
)

func (v TaskView) Valid() bool {
	switch v {
	case ViewAll, ViewPending, ViewCompleted:
		return true
	}
	return false
}

// Matches reports whether a task with the given status belongs in the view.
func (v TaskView) Matches(status bool) bool {
	switch v {
	case ViewPending:
		return !status
	case ViewCompleted:
		return status
	default:
		return true
	}
}

// TaskFilter narrows a listing of one owner's tasks for one date.
type TaskFilter struct {
	View   TaskView
	Offset int
	Limit  int
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

type Progress struct {
	Date      time.Time `json:"-"`
	Tasks     []*Task   `json:"tasks"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Percent   float64   `json:"progress"`
}

// Percentage is completed/total as a 0-100 value. A day without tasks has
// zero progress.
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) * 100 / float64(total)
}
