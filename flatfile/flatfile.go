// Package flatfile handles the line-oriented text files that back every
// deskbook store: one record per non-blank line, fields joined by a fixed
// delimiter. Parsing the fields is left to the callers; this package only
// deals in whole lines so that a malformed record never takes down a load.
package flatfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"go.uber.org/multierr"
)

// Line is one non-blank line of a record file with its 1-based position.
type Line struct {
	Num  int
	Text string
}

// Warning records a line that could not be turned into a record.
// Loads collect warnings and keep going; a bad line is never fatal.
type Warning struct {
	Line   int
	Text   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: skipping %q: %s", w.Line, w.Text, w.Reason)
}

// Warningf builds a Warning for the given line.
func Warningf(ln Line, format string, args ...any) Warning {
	return Warning{Line: ln.Num, Text: ln.Text, Reason: fmt.Sprintf(format, args...)}
}

// ReadLines returns the non-blank lines of the file at path, in file order.
// A missing or empty file is not an error: the store simply starts empty and
// the file is created on first save.
func ReadLines(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	var lines []Line
	scanner := bufio.NewScanner(f)
	for num := 1; scanner.Scan(); num++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		lines = append(lines, Line{Num: num, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// Rewrite replaces the file at path with the given record lines. The write
// goes through a temp file and a rename, so a reader in this process never
// observes a half-written file. No cross-process guarantee is made; deskbook
// assumes it is the only writer for the life of one invocation.
func Rewrite(path string, lines []string) error {
	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := renameio.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Append adds a single record line to the end of the file, creating it if
// needed. Used only for record types that are immutable once written.
func Append(path, line string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	return nil
}
