package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"deskbook/storage"
)

// deadlineLayout is the entry format for deadlines; storage keeps full
// ISO timestamps internally.
const deadlineLayout = "2006-01-02 15:04"

func init() {
	Register(&Command{
		Name:        "/addtask",
		Description: "Add a task; prompts for an optional deadline",
		Handler: func(args []string) bool {
			if len(args) == 0 {
				fmt.Println("Usage: /addtask <description>")
				return false
			}
			description := strings.Join(args, " ")

			raw, err := prompt("Deadline (YYYY-MM-DD HH:MM, blank to skip)")
			if err != nil {
				return false
			}
			var deadline *time.Time
			if raw != "" {
				t, err := time.ParseInLocation(deadlineLayout, raw, time.Local)
				if err != nil {
					fmt.Println("Error: invalid date/time format. Use YYYY-MM-DD HH:MM.")
					return false
				}
				deadline = &t
			}

			task, err := tasks.Add(description, deadline)
			if err != nil {
				reportStoreError("adding task", err)
				return false
			}
			fmt.Printf("Added task: %s (ID: %d)\n", task.Description, task.ID)
			return false
		},
	})

	Register(&Command{
		Name:        "/tasks",
		Description: "List tasks: /tasks [all|active|completed|overdue] [id|created|deadline]",
		Handler: func(args []string) bool {
			filter := storage.FilterAll
			order := storage.SortByID
			if len(args) > 0 {
				switch storage.TaskFilter(strings.ToLower(args[0])) {
				case storage.FilterAll, storage.FilterActive, storage.FilterCompleted, storage.FilterOverdue:
					filter = storage.TaskFilter(strings.ToLower(args[0]))
				default:
					fmt.Println("Usage: /tasks [all|active|completed|overdue] [id|created|deadline]")
					return false
				}
			}
			if len(args) > 1 {
				switch storage.TaskSort(strings.ToLower(args[1])) {
				case storage.SortByID, storage.SortByCreated, storage.SortByDeadline:
					order = storage.TaskSort(strings.ToLower(args[1]))
				default:
					fmt.Println("Usage: /tasks [all|active|completed|overdue] [id|created|deadline]")
					return false
				}
			}

			list := tasks.List(filter, order)
			if len(list) == 0 {
				fmt.Printf("No %s tasks found.\n", filter)
				return false
			}
			for _, t := range list {
				printTask(t)
			}
			return false
		},
	})

	Register(&Command{
		Name:        "/done",
		Description: "Mark a task as complete",
		Handler: func(args []string) bool {
			id, ok := parseTaskID(args, "/done <task-id>")
			if !ok {
				return false
			}
			task, err := tasks.Complete(id)
			if err != nil {
				reportStoreError("completing task", err)
				return false
			}
			fmt.Printf("Task %d marked as complete: %s\n", task.ID, task.Description)
			return false
		},
	})

	Register(&Command{
		Name:        "/rmtask",
		Description: "Remove a task",
		Handler: func(args []string) bool {
			id, ok := parseTaskID(args, "/rmtask <task-id>")
			if !ok {
				return false
			}
			if err := tasks.Remove(id); err != nil {
				reportStoreError("removing task", err)
				return false
			}
			fmt.Printf("Removed task %d.\n", id)
			return false
		},
	})

	Register(&Command{
		Name:        "/edittask",
		Description: "Edit a task's description, deadline, or status",
		Handler: func(args []string) bool {
			id, ok := parseTaskID(args, "/edittask <task-id>")
			if !ok {
				return false
			}
			current, err := tasks.Get(id)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return false
			}
			printTask(current)
			fmt.Println("Enter new values (leave blank to keep current value):")

			var upd storage.TaskUpdate
			if upd.Description, err = prompt("New description"); err != nil {
				return false
			}
			raw, err := prompt("New deadline (YYYY-MM-DD HH:MM, 'clear' to remove)")
			if err != nil {
				return false
			}
			switch {
			case strings.EqualFold(raw, "clear"):
				upd.ClearDeadline = true
			case raw != "":
				t, err := time.ParseInLocation(deadlineLayout, raw, time.Local)
				if err != nil {
					fmt.Println("Error: invalid deadline format. Keeping current deadline.")
				} else {
					upd.Deadline = &t
				}
			}
			raw, err = prompt("Mark as complete? (y/n)")
			if err != nil {
				return false
			}
			switch strings.ToLower(raw) {
			case "y":
				done := true
				upd.Done = &done
			case "n":
				done := false
				upd.Done = &done
			}

			updated, err := tasks.Edit(id, upd)
			if err != nil {
				reportStoreError("editing task", err)
				return false
			}
			fmt.Printf("Task %d saved.\n", updated.ID)
			return false
		},
	})

	Register(&Command{
		Name:        "/cleardone",
		Description: "Remove all completed tasks",
		Handler: func(args []string) bool {
			cleared, err := tasks.ClearCompleted()
			if err != nil {
				reportStoreError("clearing completed tasks", err)
				return false
			}
			if cleared == 0 {
				fmt.Println("No completed tasks to clear.")
				return false
			}
			fmt.Printf("Cleared %d completed task(s).\n", cleared)
			return false
		},
	})
}

func parseTaskID(args []string, usage string) (int, bool) {
	if len(args) == 0 {
		fmt.Printf("Usage: %s\n", usage)
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("Error: task id must be a whole number.")
		return 0, false
	}
	return id, true
}

func printTask(t storage.Task) {
	status := "[ ]"
	switch {
	case t.Done:
		status = "[✓]"
	case t.Overdue(time.Now()):
		status = "[!]"
	}
	line := fmt.Sprintf("  %s %d. %s (created %s", status, t.ID, t.Description, t.CreatedAt.Format(deadlineLayout))
	if t.Deadline != nil {
		line += ", due " + t.Deadline.Format(deadlineLayout)
		if !t.Done {
			line += ", " + humanize.RelTime(*t.Deadline, time.Now(), "overdue", "left")
		}
	}
	fmt.Println(line + ")")
}
