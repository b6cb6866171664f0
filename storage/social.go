package storage

import (
	"errors"
	"fmt"
	"strings"

	"deskbook/flatfile"
)

// ErrBadCredentials is returned on login failure. It deliberately does not
// say whether the username or the password was wrong.
var ErrBadCredentials = errors.New("invalid username or password")

// User is one platform account: a username and the one-way hex digest of
// its password. The plaintext is never stored and cannot be recovered.
type User struct {
	Name         string
	PasswordHash string
}

// VerifyPassword reports whether the plaintext matches the stored digest.
func (u User) VerifyPassword(plaintext string) bool {
	return u.PasswordHash == HashPassword(plaintext)
}

// Post is one feed entry. Content may contain colons; only the first colon
// on a line separates author from content.
type Post struct {
	Author  string
	Content string
}

const socialDelim = ":"

func (u User) line() string {
	return u.Name + socialDelim + u.PasswordHash
}

func (p Post) line() string {
	return p.Author + socialDelim + p.Content
}

// SocialStore keeps users and posts in sync with their backing files.
// Both record types use full-rewrite persistence.
type SocialStore struct {
	usersPath string
	postsPath string
	users     []User
	posts     []Post
}

// OpenSocial loads both the users and posts files. Warnings from the two
// loads are combined; neither aborts the other.
func OpenSocial(usersPath, postsPath string) (*SocialStore, []flatfile.Warning, error) {
	s := &SocialStore{usersPath: usersPath, postsPath: postsPath}

	userLines, err := flatfile.ReadLines(usersPath)
	if err != nil {
		return nil, nil, err
	}
	var warnings []flatfile.Warning
	for _, ln := range userLines {
		parts := strings.SplitN(ln.Text, socialDelim, 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			warnings = append(warnings, flatfile.Warningf(ln, "expected username%shashed_password", socialDelim))
			continue
		}
		s.users = append(s.users, User{Name: parts[0], PasswordHash: parts[1]})
	}

	postLines, err := flatfile.ReadLines(postsPath)
	if err != nil {
		return nil, nil, err
	}
	for _, ln := range postLines {
		parts := strings.SplitN(ln.Text, socialDelim, 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			warnings = append(warnings, flatfile.Warningf(ln, "expected username%scontent", socialDelim))
			continue
		}
		s.posts = append(s.posts, Post{Author: parts[0], Content: parts[1]})
	}
	return s, warnings, nil
}

func (s *SocialStore) saveUsers() error {
	lines := make([]string, len(s.users))
	for i, u := range s.users {
		lines[i] = u.line()
	}
	return flatfile.Rewrite(s.usersPath, lines)
}

func (s *SocialStore) savePosts() error {
	lines := make([]string, len(s.posts))
	for i, p := range s.posts {
		lines[i] = p.line()
	}
	return flatfile.Rewrite(s.postsPath, lines)
}

// findUser matches usernames exactly. Unlike contact names, usernames are
// case-sensitive: "Alice" and "alice" are different accounts. Existing data
// depends on this, so it is preserved rather than unified.
func (s *SocialStore) findUser(name string) int {
	for i, u := range s.users {
		if u.Name == name {
			return i
		}
	}
	return -1
}

// Signup registers a new user with a hashed password. The username must be
// unique (exact comparison) and must not contain the field delimiter.
func (s *SocialStore) Signup(username, password string) (User, error) {
	username, err := requireNonEmpty("username", username)
	if err != nil {
		return User{}, err
	}
	if username, err = requireNoDelimiter("username", username, socialDelim); err != nil {
		return User{}, err
	}
	if _, err = requireNonEmpty("password", password); err != nil {
		return User{}, err
	}
	if s.findUser(username) >= 0 {
		return User{}, fmt.Errorf("username %q %w", username, ErrDuplicate)
	}

	u := User{Name: username, PasswordHash: HashPassword(password)}
	s.users = append(s.users, u)
	if err := s.saveUsers(); err != nil {
		return u, err
	}
	return u, nil
}

// Login verifies credentials and returns the matching user.
func (s *SocialStore) Login(username, password string) (User, error) {
	i := s.findUser(strings.TrimSpace(username))
	if i < 0 || !s.users[i].VerifyPassword(password) {
		return User{}, ErrBadCredentials
	}
	return s.users[i], nil
}

// CreatePost appends a post to the feed and rewrites the posts file.
func (s *SocialStore) CreatePost(author, content string) (Post, error) {
	content, err := requireNonEmpty("content", content)
	if err != nil {
		return Post{}, err
	}
	if s.findUser(author) < 0 {
		return Post{}, fmt.Errorf("user %q: %w", author, ErrNotFound)
	}

	p := Post{Author: author, Content: content}
	s.posts = append(s.posts, p)
	if err := s.savePosts(); err != nil {
		return p, err
	}
	return p, nil
}

// PostsBy returns all posts by the given author, in feed order.
func (s *SocialStore) PostsBy(author string) []Post {
	var out []Post
	for _, p := range s.posts {
		if p.Author == author {
			out = append(out, p)
		}
	}
	return out
}

// AllPosts returns a copy of the whole feed, in feed order.
func (s *SocialStore) AllPosts() []Post {
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Users returns the number of registered users.
func (s *SocialStore) Users() int {
	return len(s.users)
}
