package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"deskbook/storage"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Handler     func(args []string) bool // returns true to quit
	Hidden      bool                     // if true, exclude from /help listing
}

var (
	registry = make(map[string]*Command)

	contacts *storage.ContactStore
	tasks    *storage.TaskStore
	social   *storage.SocialStore
	finance  *storage.FinanceStore

	prompter Prompter
)

// Prompter collects one line of input for multi-field commands. The main
// loop provides a readline-backed implementation; tests provide a scripted
// one.
type Prompter interface {
	Prompt(label string) (string, error)
}

// PromptFunc adapts a function to the Prompter interface.
type PromptFunc func(label string) (string, error)

func (f PromptFunc) Prompt(label string) (string, error) { return f(label) }

// Register adds a command to the registry
func Register(cmd *Command) {
	registry[strings.ToLower(cmd.Name)] = cmd
}

// SetStores sets the global stores for commands to use
func SetStores(c *storage.ContactStore, t *storage.TaskStore, s *storage.SocialStore, f *storage.FinanceStore) {
	contacts = c
	tasks = t
	social = s
	finance = f
}

// SetPrompter sets the input source for commands that prompt field by field
func SetPrompter(p Prompter) {
	prompter = p
}

// prompt asks for one field and trims the answer.
func prompt(label string) (string, error) {
	if prompter == nil {
		return "", fmt.Errorf("no input source configured")
	}
	s, err := prompter.Prompt(label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Execute runs a command by name with arguments
func Execute(input string) (bool, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false, fmt.Errorf("empty command")
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	cmd, exists := registry[cmdName]
	if !exists {
		return false, fmt.Errorf("unknown command: %s", cmdName)
	}

	return cmd.Handler(args), nil
}

// ExecuteWithOutput runs a command and returns its captured stdout output
func ExecuteWithOutput(input string) (quit bool, output string, err error) {
	// Save original stdout
	oldStdout := os.Stdout

	// Create a pipe
	r, w, pipeErr := os.Pipe()
	if pipeErr != nil {
		return false, "", fmt.Errorf("failed to create pipe: %w", pipeErr)
	}

	// Redirect stdout to the pipe
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	// Read in a goroutine to prevent pipe buffer deadlock
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&buf, r)
		close(done)
	}()

	// Run the command
	quit, err = Execute(input)

	// Close the write end of the pipe and wait for read to complete
	w.Close()
	<-done
	r.Close()

	output = strings.TrimSpace(buf.String())
	return quit, output, err
}

// List returns all registered commands
func List() []*Command {
	cmds := make([]*Command, 0, len(registry))
	for _, cmd := range registry {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// GetByName returns a command by name (with or without leading /)
func GetByName(name string) *Command {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return registry[strings.ToLower(name)]
}

// reportStoreError prints a store error the way every handler does: the
// operation is aborted and the loop keeps running. Errors that are neither
// validation nor lookup failures are treated as write failures, where
// memory and disk may have diverged.
func reportStoreError(op string, err error) {
	fmt.Printf("Error: %v\n", err)
	var verr *storage.ValidationError
	if errors.As(err, &verr) {
		return
	}
	if errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, storage.ErrDuplicate) ||
		errors.Is(err, storage.ErrBadCredentials) {
		return
	}
	fmt.Printf("Warning: %s may not have reached disk; in-memory and on-disk state can differ until the next successful save.\n", op)
}
