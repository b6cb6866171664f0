package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempSocial(t *testing.T, users, posts string) (*SocialStore, string, string, []string) {
	t.Helper()
	dir := t.TempDir()
	usersPath := filepath.Join(dir, "users.txt")
	postsPath := filepath.Join(dir, "posts.txt")
	if users != "" {
		if err := os.WriteFile(usersPath, []byte(users), 0o644); err != nil {
			t.Fatalf("Failed to seed users file: %v", err)
		}
	}
	if posts != "" {
		if err := os.WriteFile(postsPath, []byte(posts), 0o644); err != nil {
			t.Fatalf("Failed to seed posts file: %v", err)
		}
	}
	s, warnings, err := OpenSocial(usersPath, postsPath)
	if err != nil {
		t.Fatalf("Failed to open social store: %v", err)
	}
	var reasons []string
	for _, w := range warnings {
		reasons = append(reasons, w.String())
	}
	return s, usersPath, postsPath, reasons
}

func TestHashPassword(t *testing.T) {
	sum := sha256.Sum256([]byte("hunter2"))
	want := hex.EncodeToString(sum[:])
	if got := HashPassword("hunter2"); got != want {
		t.Errorf("HashPassword = %s, want %s", got, want)
	}
	if HashPassword("a") == HashPassword("b") {
		t.Error("Different inputs must not collide trivially")
	}
}

func TestSignupAndLogin(t *testing.T) {
	s, usersPath, _, _ := tempSocial(t, "", "")

	u, err := s.Signup("alice", "hunter2")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if u.PasswordHash == "hunter2" {
		t.Error("Plaintext password must never be stored")
	}

	data, err := os.ReadFile(usersPath)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if strings.Contains(string(data), "hunter2") {
		t.Error("Plaintext password written to disk")
	}
	if !strings.HasPrefix(string(data), "alice:") {
		t.Errorf("Unexpected user line: %s", data)
	}

	if _, err := s.Login("alice", "hunter2"); err != nil {
		t.Errorf("Login with correct password failed: %v", err)
	}
	if _, err := s.Login("alice", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials, got %v", err)
	}
	if _, err := s.Login("nobody", "hunter2"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for unknown user, got %v", err)
	}
}

func TestUsernamesAreCaseSensitive(t *testing.T) {
	// Deliberate asymmetry with contact names: "Alice" and "alice" are
	// different accounts.
	s, _, _, _ := tempSocial(t, "", "")
	if _, err := s.Signup("Alice", "pw1"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if _, err := s.Signup("alice", "pw2"); err != nil {
		t.Fatalf("Lowercase variant should be a distinct account: %v", err)
	}
	if _, err := s.Signup("Alice", "pw3"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Exact duplicate should be rejected, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	s, _, _, _ := tempSocial(t, "", "")
	if _, err := s.Signup("", "pw"); err == nil {
		t.Error("Empty username should be rejected")
	}
	if _, err := s.Signup("with:colon", "pw"); err == nil {
		t.Error("Username containing the delimiter should be rejected")
	}
	if _, err := s.Signup("bob", "  "); err == nil {
		t.Error("Empty password should be rejected")
	}
}

func TestPostContentMayContainColons(t *testing.T) {
	s, _, postsPath, _ := tempSocial(t, "", "")
	if _, err := s.Signup("alice", "pw"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	content := "note to self: buy milk at 5:30"
	if _, err := s.CreatePost("alice", content); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	reloaded, _, _, warnings := tempSocialReload(t, postsPath, s)
	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", warnings)
	}
	posts := reloaded.AllPosts()
	if len(posts) != 1 || posts[0].Content != content {
		t.Errorf("Colon content did not round-trip: %v", posts)
	}
}

// tempSocialReload reopens the store backing files of an existing store.
func tempSocialReload(t *testing.T, postsPath string, s *SocialStore) (*SocialStore, string, string, []string) {
	t.Helper()
	reloaded, warnings, err := OpenSocial(s.usersPath, postsPath)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	var reasons []string
	for _, w := range warnings {
		reasons = append(reasons, w.String())
	}
	return reloaded, s.usersPath, postsPath, reasons
}

func TestCreatePostRequiresKnownUser(t *testing.T) {
	s, _, _, _ := tempSocial(t, "", "")
	if _, err := s.CreatePost("ghost", "boo"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := s.CreatePost("ghost", "   "); err == nil {
		t.Error("Empty content should be rejected")
	}
}

func TestPostsByAndFeedOrder(t *testing.T) {
	users := "alice:" + HashPassword("pw") + "\nbob:" + HashPassword("pw") + "\n"
	posts := "alice:first\nbob:second\nalice:third\n"
	s, _, _, warnings := tempSocial(t, users, posts)
	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", warnings)
	}

	mine := s.PostsBy("alice")
	if len(mine) != 2 || mine[0].Content != "first" || mine[1].Content != "third" {
		t.Errorf("PostsBy order wrong: %v", mine)
	}
	all := s.AllPosts()
	if len(all) != 3 || all[1].Author != "bob" {
		t.Errorf("Feed order wrong: %v", all)
	}
}

func TestOpenSocialMalformedLines(t *testing.T) {
	users := "alice:" + HashPassword("pw") + "\njust-a-name\n:nouser\n"
	posts := "alice:hello\nnocolonhere\n"
	s, _, _, warnings := tempSocial(t, users, posts)

	if s.Users() != 1 {
		t.Errorf("Expected 1 user, got %d", s.Users())
	}
	if len(s.AllPosts()) != 1 {
		t.Errorf("Expected 1 post, got %d", len(s.AllPosts()))
	}
	if len(warnings) != 3 {
		t.Errorf("Expected 3 warnings, got %v", warnings)
	}
}

func TestUsersRoundTripPreservesOrder(t *testing.T) {
	users := "zara:" + HashPassword("z") + "\nalice:" + HashPassword("a") + "\n"
	s, usersPath, _, _ := tempSocial(t, users, "")

	if err := s.saveUsers(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(usersPath)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != users {
		t.Errorf("User file order changed:\nwant %q\ngot  %q", users, data)
	}
}
