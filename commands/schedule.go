package commands

import (
	"fmt"
	"time"

	"deskbook/storage"
)

func init() {
	Register(&Command{
		Name:        "/today",
		Description: "List tasks due today",
		Handler: func(args []string) bool {
			today := dateOnly(time.Now())
			listTasksInRange("today", today, today.AddDate(0, 0, 1))
			return false
		},
	})

	Register(&Command{
		Name:        "/tomorrow",
		Description: "List tasks due tomorrow",
		Handler: func(args []string) bool {
			today := dateOnly(time.Now())
			listTasksInRange("tomorrow", today.AddDate(0, 0, 1), today.AddDate(0, 0, 2))
			return false
		},
	})

	Register(&Command{
		Name:        "/week",
		Description: "List tasks due this week (Monday through Sunday)",
		Handler: func(args []string) bool {
			weekStart := startOfWeek(dateOnly(time.Now()))
			listTasksInRange("this week", weekStart, weekStart.AddDate(0, 0, 7))
			return false
		},
	})
}

// dateOnly extracts just the year, month, day as a comparable date in local timezone
// This ignores the time-of-day, treating the date as a calendar date
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// startOfWeek returns the Monday of the week containing the given time
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is day 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// listTasksInRange lists incomplete tasks with deadlines in [start, end)
func listTasksInRange(label string, start, end time.Time) {
	all := tasks.List(storage.FilterAll, storage.SortByDeadline)

	var due []storage.Task
	for _, t := range all {
		if t.Done || t.Deadline == nil {
			continue
		}
		day := dateOnly(*t.Deadline)
		if !day.Before(start) && day.Before(end) {
			due = append(due, t)
		}
	}

	fmt.Printf("Tasks due %s:\n", label)
	if len(due) == 0 {
		fmt.Println("  No tasks due")
		return
	}
	for _, t := range due {
		fmt.Printf("  [ ] %d. %s (due %s)\n", t.ID, t.Description, t.Deadline.Format(deadlineLayout))
	}
}
