package storage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"deskbook/flatfile"
)

// Task is one to-do item. IDs are positive, assigned monotonically, and
// never reused after deletion.
type Task struct {
	ID          int
	Description string
	Done        bool
	CreatedAt   time.Time
	Deadline    *time.Time
}

const taskDelim = ","

// taskFields is the fixed field count of a task line:
// id,description,done,createdAt,deadline. The line is split into at most
// taskFields parts so the deadline tail tolerates embedded commas.
const taskFields = 5

// NewTask validates raw field values into a Task.
func NewTask(id int, description string, done bool, createdAt time.Time, deadline *time.Time) (Task, error) {
	if id <= 0 {
		return Task{}, validationErrorf("id", "must be a positive integer")
	}
	description, err := requireNonEmpty("description", description)
	if err != nil {
		return Task{}, err
	}
	if description, err = requireNoDelimiter("description", description, taskDelim); err != nil {
		return Task{}, err
	}
	return Task{ID: id, Description: description, Done: done, CreatedAt: createdAt, Deadline: deadline}, nil
}

func (t Task) line() string {
	done := "False"
	if t.Done {
		done = "True"
	}
	return strings.Join([]string{
		strconv.Itoa(t.ID),
		t.Description,
		done,
		formatTimestamp(t.CreatedAt),
		formatDeadline(t.Deadline),
	}, taskDelim)
}

// Overdue reports whether the task has a deadline in the past and is not
// yet completed.
func (t Task) Overdue(now time.Time) bool {
	return !t.Done && t.Deadline != nil && !t.Deadline.After(now)
}

func parseDone(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid completion flag %q", s)
}

// TaskFilter selects which tasks List returns.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
	FilterOverdue   TaskFilter = "overdue"
)

// TaskSort selects the order List returns tasks in.
type TaskSort string

const (
	SortByID       TaskSort = "id"
	SortByCreated  TaskSort = "created"
	SortByDeadline TaskSort = "deadline"
)

// TaskStore keeps the live task set and its backing file in sync. The
// next-id counter is derived from the loaded set, never stored separately.
type TaskStore struct {
	path   string
	tasks  []Task
	nextID int
}

// OpenTasks loads the task file at path. Lines with the wrong field count
// or unparseable fields are skipped with a warning. The next id is one
// greater than the highest id seen, or 1 for an empty set.
func OpenTasks(path string) (*TaskStore, []flatfile.Warning, error) {
	lines, err := flatfile.ReadLines(path)
	if err != nil {
		return nil, nil, err
	}

	s := &TaskStore{path: path, nextID: 1}
	var warnings []flatfile.Warning
	for _, ln := range lines {
		parts := strings.SplitN(ln.Text, taskDelim, taskFields)
		if len(parts) != taskFields {
			warnings = append(warnings, flatfile.Warningf(ln, "expected %d comma-separated values, got %d", taskFields, len(parts)))
			continue
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			warnings = append(warnings, flatfile.Warningf(ln, "invalid id %q", parts[0]))
			continue
		}
		done, err := parseDone(parts[2])
		if err != nil {
			warnings = append(warnings, flatfile.Warningf(ln, "%v", err))
			continue
		}
		createdAt, err := parseTimestamp(parts[3])
		if err != nil {
			warnings = append(warnings, flatfile.Warningf(ln, "invalid creation time %q", parts[3]))
			continue
		}
		deadline, err := parseDeadline(parts[4])
		if err != nil {
			warnings = append(warnings, flatfile.Warningf(ln, "invalid deadline %q", parts[4]))
			continue
		}
		t, err := NewTask(id, parts[1], done, createdAt, deadline)
		if err != nil {
			warnings = append(warnings, flatfile.Warningf(ln, "%v", err))
			continue
		}
		s.tasks = append(s.tasks, t)
		if id >= s.nextID {
			s.nextID = id + 1
		}
	}
	return s, warnings, nil
}

func (s *TaskStore) save() error {
	lines := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		lines[i] = t.line()
	}
	return flatfile.Rewrite(s.path, lines)
}

func (s *TaskStore) find(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// NextID returns the id the next added task will receive.
func (s *TaskStore) NextID() int {
	return s.nextID
}

// Len returns the number of live tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Add creates a task with the next id and the current time, persists the
// full set, and returns the new task.
func (s *TaskStore) Add(description string, deadline *time.Time) (Task, error) {
	t, err := NewTask(s.nextID, description, false, time.Now(), deadline)
	if err != nil {
		return Task{}, err
	}
	// Defensive: monotonic assignment should make collisions impossible,
	// but ids could come from untrusted input via a future import path.
	if s.find(t.ID) >= 0 {
		return Task{}, fmt.Errorf("task id %d %w", t.ID, ErrDuplicate)
	}
	s.tasks = append(s.tasks, t)
	s.nextID++
	if err := s.save(); err != nil {
		return t, err
	}
	return t, nil
}

// Get returns the task with the given id.
func (s *TaskStore) Get(id int) (Task, error) {
	i := s.find(id)
	if i < 0 {
		return Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return s.tasks[i], nil
}

// Remove deletes the task with the given id. The id is never reused.
func (s *TaskStore) Remove(id int) error {
	i := s.find(id)
	if i < 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return s.save()
}

// Complete marks a task done. Completing an already-completed task is a
// no-op that reports success without rewriting the file.
func (s *TaskStore) Complete(id int) (Task, error) {
	i := s.find(id)
	if i < 0 {
		return Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if s.tasks[i].Done {
		return s.tasks[i], nil
	}
	s.tasks[i].Done = true
	if err := s.save(); err != nil {
		return s.tasks[i], err
	}
	return s.tasks[i], nil
}

// TaskUpdate carries replacement values for Edit. An empty Description
// keeps the current one; Deadline replaces when set; ClearDeadline removes
// it; Done toggles completion when non-nil.
type TaskUpdate struct {
	Description   string
	Deadline      *time.Time
	ClearDeadline bool
	Done          *bool
}

// Edit applies the provided changes to a task. The file is rewritten only
// when something actually changed.
func (s *TaskStore) Edit(id int, upd TaskUpdate) (Task, error) {
	i := s.find(id)
	if i < 0 {
		return Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	next := s.tasks[i]
	changed := false
	if v := strings.TrimSpace(upd.Description); v != "" {
		v, err := requireNoDelimiter("description", v, taskDelim)
		if err != nil {
			return Task{}, err
		}
		if v != next.Description {
			next.Description = v
			changed = true
		}
	}
	switch {
	case upd.ClearDeadline:
		if next.Deadline != nil {
			next.Deadline = nil
			changed = true
		}
	case upd.Deadline != nil:
		if next.Deadline == nil || !next.Deadline.Equal(*upd.Deadline) {
			next.Deadline = upd.Deadline
			changed = true
		}
	}
	if upd.Done != nil && *upd.Done != next.Done {
		next.Done = *upd.Done
		changed = true
	}
	if !changed {
		return next, nil
	}

	s.tasks[i] = next
	if err := s.save(); err != nil {
		return next, err
	}
	return next, nil
}

// List returns a filtered, sorted copy of the task set.
func (s *TaskStore) List(filter TaskFilter, order TaskSort) []Task {
	now := time.Now()
	var out []Task
	for _, t := range s.tasks {
		switch filter {
		case FilterActive:
			if t.Done || t.Overdue(now) {
				continue
			}
		case FilterCompleted:
			if !t.Done {
				continue
			}
		case FilterOverdue:
			if !t.Overdue(now) {
				continue
			}
		}
		out = append(out, t)
	}

	switch order {
	case SortByCreated:
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case SortByDeadline:
		// Tasks without a deadline sort last.
		sort.Slice(out, func(i, j int) bool {
			di, dj := out[i].Deadline, out[j].Deadline
			switch {
			case di == nil:
				return false
			case dj == nil:
				return true
			default:
				return di.Before(*dj)
			}
		})
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out
}

// ClearCompleted removes every completed task and reports how many were
// cleared. Nothing is rewritten when there is nothing to clear.
func (s *TaskStore) ClearCompleted() (int, error) {
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if !t.Done {
			kept = append(kept, t)
		}
	}
	cleared := len(s.tasks) - len(kept)
	if cleared == 0 {
		return 0, nil
	}
	s.tasks = kept
	if err := s.save(); err != nil {
		return cleared, err
	}
	return cleared, nil
}
