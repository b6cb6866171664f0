package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"deskbook/flatfile"
)

// Group is the closed set of contact groups.
type Group string

const (
	GroupHome   Group = "Home"
	GroupOffice Group = "Office"
)

// ValidGroups lists all valid group values.
var ValidGroups = []Group{GroupHome, GroupOffice}

// ParseGroup validates a raw group value against the closed set.
func ParseGroup(s string) (Group, error) {
	s = strings.TrimSpace(s)
	for _, g := range ValidGroups {
		if string(g) == s {
			return g, nil
		}
	}
	return "", validationErrorf("group", "must be one of: %s", joinGroups())
}

func joinGroups() string {
	names := make([]string, len(ValidGroups))
	for i, g := range ValidGroups {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

// Contact is one address-book entry. The identity key is the pair
// (Name lowercased, Number exact).
type Contact struct {
	Name   string
	Number string
	Email  string
	Group  Group
}

const contactDelim = ","

// NewContact validates and normalizes raw field values into a Contact.
func NewContact(name, number, email, group string) (Contact, error) {
	name, err := requireNonEmpty("name", name)
	if err != nil {
		return Contact{}, err
	}
	if name, err = requireNoDelimiter("name", name, contactDelim); err != nil {
		return Contact{}, err
	}
	if number, err = requireDigits("contact number", number); err != nil {
		return Contact{}, err
	}
	if email, err = requireEmail("email", email); err != nil {
		return Contact{}, err
	}
	if email, err = requireNoDelimiter("email", email, contactDelim); err != nil {
		return Contact{}, err
	}
	g, err := ParseGroup(group)
	if err != nil {
		return Contact{}, err
	}
	return Contact{Name: name, Number: number, Email: email, Group: g}, nil
}

func (c Contact) line() string {
	return strings.Join([]string{c.Name, c.Number, c.Email, string(c.Group)}, contactDelim)
}

// ContactStore keeps the live contact set and its backing file in sync.
// Every successful mutation rewrites the whole file before returning.
// Single-process, single-writer; concurrent external writers are not
// detected and the last writer wins.
type ContactStore struct {
	path     string
	contacts []Contact
}

// OpenContacts loads the contact file at path. Malformed lines are skipped
// and reported as warnings; they never abort the load.
func OpenContacts(path string) (*ContactStore, []flatfile.Warning, error) {
	lines, err := flatfile.ReadLines(path)
	if err != nil {
		return nil, nil, err
	}

	s := &ContactStore{path: path}
	var warnings []flatfile.Warning
	for _, ln := range lines {
		parts := strings.Split(ln.Text, contactDelim)
		if len(parts) != 4 {
			warnings = append(warnings, flatfile.Warningf(ln, "expected 4 comma-separated values, got %d", len(parts)))
			continue
		}
		c, err := NewContact(parts[0], parts[1], parts[2], parts[3])
		if err != nil {
			warnings = append(warnings, flatfile.Warningf(ln, "%v", err))
			continue
		}
		s.contacts = append(s.contacts, c)
	}
	return s, warnings, nil
}

func (s *ContactStore) save() error {
	lines := make([]string, len(s.contacts))
	for i, c := range s.contacts {
		lines[i] = c.line()
	}
	return flatfile.Rewrite(s.path, lines)
}

// find returns the index of the contact matching the identity key, or -1.
// Names match case-insensitively, numbers exactly.
func (s *ContactStore) find(name, number string) int {
	for i, c := range s.contacts {
		if strings.EqualFold(c.Name, name) && c.Number == number {
			return i
		}
	}
	return -1
}

// Len returns the number of live contacts.
func (s *ContactStore) Len() int {
	return len(s.contacts)
}

// Add validates the fields, rejects duplicates, and persists the new
// contact. On a write failure the in-memory set keeps the new contact and
// the caller should treat memory and disk as possibly diverged.
func (s *ContactStore) Add(name, number, email, group string) (Contact, error) {
	c, err := NewContact(name, number, email, group)
	if err != nil {
		return Contact{}, err
	}
	if s.find(c.Name, c.Number) >= 0 {
		return Contact{}, fmt.Errorf("contact %q with number %s %w", c.Name, c.Number, ErrDuplicate)
	}
	s.contacts = append(s.contacts, c)
	if err := s.save(); err != nil {
		return c, err
	}
	return c, nil
}

// All returns a copy of the contact set sorted by name, case-insensitively.
func (s *ContactStore) All() []Contact {
	out := make([]Contact, len(s.contacts))
	copy(out, s.contacts)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// SearchByName returns contacts whose name starts with the given prefix,
// case-insensitively, sorted by name.
func (s *ContactStore) SearchByName(prefix string) []Contact {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []Contact
	for _, c := range s.contacts {
		if strings.HasPrefix(strings.ToLower(c.Name), prefix) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// SearchByGroup returns contacts in the given group. The group value is
// validated against the closed set; matching is case-insensitive.
func (s *ContactStore) SearchByGroup(group string) ([]Contact, error) {
	g, err := ParseGroup(group)
	if err != nil {
		return nil, err
	}
	var out []Contact
	for _, c := range s.contacts {
		if strings.EqualFold(string(c.Group), string(g)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Get returns the contact matching the identity key.
func (s *ContactStore) Get(name, number string) (Contact, error) {
	i := s.find(name, number)
	if i < 0 {
		return Contact{}, fmt.Errorf("contact %q with number %s: %w", name, number, ErrNotFound)
	}
	return s.contacts[i], nil
}

// ContactUpdate carries replacement field values for Update. An empty field
// keeps the current value.
type ContactUpdate struct {
	Name   string
	Number string
	Email  string
	Group  string
}

// Update locates a contact by its identity key and replaces the provided
// fields. Every provided field is validated; if any fails, nothing changes
// and the combined errors are returned. The file is rewritten only when a
// field actually changed.
func (s *ContactStore) Update(name, number string, upd ContactUpdate) (Contact, error) {
	i := s.find(name, number)
	if i < 0 {
		return Contact{}, fmt.Errorf("contact %q with number %s: %w", name, number, ErrNotFound)
	}

	next := s.contacts[i]
	var errs error
	if v := strings.TrimSpace(upd.Name); v != "" {
		if v, err := requireNoDelimiter("name", v, contactDelim); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			next.Name = v
		}
	}
	if v := strings.TrimSpace(upd.Number); v != "" {
		if v, err := requireDigits("contact number", v); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			next.Number = v
		}
	}
	if v := strings.TrimSpace(upd.Email); v != "" {
		v, err := requireEmail("email", v)
		if err == nil {
			v, err = requireNoDelimiter("email", v, contactDelim)
		}
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			next.Email = v
		}
	}
	if v := strings.TrimSpace(upd.Group); v != "" {
		if g, err := ParseGroup(v); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			next.Group = g
		}
	}
	if errs != nil {
		return Contact{}, errs
	}
	if next == s.contacts[i] {
		return next, nil
	}

	// The new identity key must not collide with another contact.
	if j := s.find(next.Name, next.Number); j >= 0 && j != i {
		return Contact{}, fmt.Errorf("contact %q with number %s %w", next.Name, next.Number, ErrDuplicate)
	}

	s.contacts[i] = next
	if err := s.save(); err != nil {
		return next, err
	}
	return next, nil
}

// Delete removes the contact matching the identity key and rewrites the
// file. A missing contact leaves the set unchanged.
func (s *ContactStore) Delete(name, number string) error {
	i := s.find(name, number)
	if i < 0 {
		return fmt.Errorf("contact %q with number %s: %w", name, number, ErrNotFound)
	}
	s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
	return s.save()
}

// ExportCSV writes all contacts to a CSV file with a header row, using
// standard comma-quoting rules.
func (s *ContactStore) ExportCSV(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Name", "Contact", "Email", "Group"}); err != nil {
		return err
	}
	for _, c := range s.All() {
		if err := w.Write([]string{c.Name, c.Number, c.Email, string(c.Group)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
