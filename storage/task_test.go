package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func tempTasks(t *testing.T, content string) (*TaskStore, string, []string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.txt")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to seed task file: %v", err)
		}
	}
	s, warnings, err := OpenTasks(path)
	if err != nil {
		t.Fatalf("Failed to open tasks: %v", err)
	}
	var reasons []string
	for _, w := range warnings {
		reasons = append(reasons, w.String())
	}
	return s, path, reasons
}

func taskLine(id int, desc string, done bool, deadline string) string {
	doneStr := "False"
	if done {
		doneStr = "True"
	}
	return fmt.Sprintf("%d,%s,%s,2024-06-16T16:00:00,%s", id, desc, doneStr, deadline)
}

func TestNextIDDerivation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 1},
		{"gaps", strings.Join([]string{
			taskLine(1, "one", false, "None"),
			taskLine(3, "three", false, "None"),
			taskLine(7, "seven", true, "None"),
		}, "\n") + "\n", 8},
		{"single", taskLine(42, "answer", false, "None") + "\n", 43},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _, _ := tempTasks(t, tc.content)
			if got := s.NextID(); got != tc.want {
				t.Errorf("NextID = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestOpenTasksMalformedLines(t *testing.T) {
	content := strings.Join([]string{
		taskLine(1, "good", false, "None"),
		"not,enough,fields",
		"abc,bad id,False,2024-06-16T16:00:00,None",
		"2,bad done,maybe,2024-06-16T16:00:00,None",
		"3,bad created,False,yesterday,None",
		"4,bad deadline,False,2024-06-16T16:00:00,tomorrow",
		taskLine(5, "also good", true, "2024-06-17T23:59:00"),
	}, "\n") + "\n"

	s, _, warnings := tempTasks(t, content)
	if s.Len() != 2 {
		t.Errorf("Expected 2 tasks, got %d", s.Len())
	}
	if len(warnings) != 5 {
		t.Fatalf("Expected 5 warnings, got %d: %v", len(warnings), warnings)
	}
	for i, wantLine := range []string{"line 2", "line 3", "line 4", "line 5", "line 6"} {
		if !strings.Contains(warnings[i], wantLine) {
			t.Errorf("Warning %d should reference %s, got: %s", i, wantLine, warnings[i])
		}
	}
	// Bad lines must not poison the id counter.
	if s.NextID() != 6 {
		t.Errorf("NextID = %d, want 6", s.NextID())
	}
}

func TestTaskDeadlineTailToleratesCommas(t *testing.T) {
	// The deadline field is the max-split tail; a comma there lands in the
	// deadline and fails its parse rather than shifting earlier fields.
	s, _, warnings := tempTasks(t, "1,desc,False,2024-06-16T16:00:00,None,trailing\n")
	if s.Len() != 0 {
		t.Errorf("Expected line dropped, got %d tasks", s.Len())
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "deadline") {
		t.Errorf("Expected deadline warning, got %v", warnings)
	}
}

func TestAddTaskAssignsMonotonicIDs(t *testing.T) {
	s, path, _ := tempTasks(t, "")

	first, err := s.Add("write tests", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	deadline := time.Date(2026, 12, 31, 23, 59, 0, 0, time.Local)
	second, err := s.Add("ship it", &deadline)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("Expected ids 1,2; got %d,%d", first.ID, second.ID)
	}

	// Deleting the latest task must not free its id.
	if err := s.Remove(second.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	third, err := s.Add("again", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if third.ID != 3 {
		t.Errorf("Deleted id was reused: got %d, want 3", third.ID)
	}

	reloaded, _, err := OpenTasks(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Errorf("Expected 2 tasks after reload, got %d", reloaded.Len())
	}
}

func TestAddTaskValidation(t *testing.T) {
	s, _, _ := tempTasks(t, "")
	if _, err := s.Add("   ", nil); err == nil {
		t.Error("Empty description should be rejected")
	}
	if _, err := s.Add("a,b", nil); err == nil {
		t.Error("Description with the field delimiter should be rejected")
	}
	if s.Len() != 0 {
		t.Errorf("Failed adds must not change the set")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	s, path, _ := tempTasks(t, "")
	task, err := s.Add("one and done", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, err := s.Complete(task.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	// Completing again succeeds without touching the file.
	again, err := s.Complete(task.ID)
	if err != nil {
		t.Fatalf("Second complete failed: %v", err)
	}
	if !again.Done {
		t.Error("Task should stay done")
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(before) != string(after) {
		t.Error("Idempotent complete rewrote the file with different content")
	}
	info2, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.ModTime().Equal(info2.ModTime()) {
		t.Error("Idempotent complete rewrote the file")
	}
}

func TestRemoveNotFound(t *testing.T) {
	s, _, _ := tempTasks(t, taskLine(1, "keep", false, "None")+"\n")
	if err := s.Remove(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Failed remove must not change the count")
	}
}

func TestEditTask(t *testing.T) {
	s, _, _ := tempTasks(t, taskLine(1, "draft", false, "2024-06-17T23:59:00")+"\n")

	updated, err := s.Edit(1, TaskUpdate{Description: "final", ClearDeadline: true})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if updated.Description != "final" || updated.Deadline != nil {
		t.Errorf("Edit not applied: %+v", updated)
	}

	// No-change edit keeps everything as is.
	same, err := s.Edit(1, TaskUpdate{})
	if err != nil {
		t.Fatalf("No-op edit failed: %v", err)
	}
	if same.Description != "final" {
		t.Errorf("No-op edit changed the task: %+v", same)
	}
}

func TestListFilters(t *testing.T) {
	past := taskLine(1, "overdue", false, "2024-01-01T00:00:00")
	done := taskLine(2, "done", true, "None")
	open := taskLine(3, "open", false, "None")
	s, _, _ := tempTasks(t, strings.Join([]string{past, done, open}, "\n")+"\n")

	if got := len(s.List(FilterAll, SortByID)); got != 3 {
		t.Errorf("all: got %d, want 3", got)
	}
	if got := s.List(FilterCompleted, SortByID); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("completed: got %v", got)
	}
	if got := s.List(FilterOverdue, SortByID); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("overdue: got %v", got)
	}
	if got := s.List(FilterActive, SortByID); len(got) != 1 || got[0].ID != 3 {
		t.Errorf("active: got %v", got)
	}
}

func TestListSortByDeadlineNilLast(t *testing.T) {
	s, _, _ := tempTasks(t, strings.Join([]string{
		taskLine(1, "no deadline", false, "None"),
		taskLine(2, "later", false, "2030-01-02T00:00:00"),
		taskLine(3, "sooner", false, "2030-01-01T00:00:00"),
	}, "\n")+"\n")

	got := s.List(FilterAll, SortByDeadline)
	wantOrder := []int{3, 2, 1}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("Order mismatch at %d: got %d, want %d (%v)", i, got[i].ID, want, got)
		}
	}
}

func TestClearCompleted(t *testing.T) {
	s, _, _ := tempTasks(t, strings.Join([]string{
		taskLine(1, "done", true, "None"),
		taskLine(2, "open", false, "None"),
		taskLine(3, "also done", true, "None"),
	}, "\n")+"\n")

	cleared, err := s.ClearCompleted()
	if err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if cleared != 2 {
		t.Errorf("Expected 2 cleared, got %d", cleared)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 task left, got %d", s.Len())
	}

	cleared, err = s.ClearCompleted()
	if err != nil {
		t.Fatalf("Second ClearCompleted failed: %v", err)
	}
	if cleared != 0 {
		t.Errorf("Nothing left to clear, got %d", cleared)
	}
}

func TestTaskRoundTripBytes(t *testing.T) {
	content := strings.Join([]string{
		taskLine(1, "buy groceries", false, "2024-06-17T23:59:00"),
		taskLine(2, "call home", true, "None"),
	}, "\n") + "\n"
	s, path, warnings := tempTasks(t, content)
	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", warnings)
	}

	if err := s.save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != content {
		t.Errorf("Round trip changed bytes:\nwant %q\ngot  %q", content, data)
	}
}
