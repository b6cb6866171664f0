package commands

import (
	"fmt"
	"strings"
)

// currentUser is the logged-in social user, empty when logged out. One
// session per process, matching the single-user menu model.
var currentUser string

func init() {
	Register(&Command{
		Name:        "/signup",
		Description: "Register a social account (prompts for credentials)",
		Handler: func(args []string) bool {
			username, err := prompt("Username")
			if err != nil {
				return false
			}
			password, err := prompt("Password")
			if err != nil {
				return false
			}
			u, err := social.Signup(username, password)
			if err != nil {
				reportStoreError("signup", err)
				return false
			}
			fmt.Printf("User %q signed up. Log in with /login.\n", u.Name)
			return false
		},
	})

	Register(&Command{
		Name:        "/login",
		Description: "Log in to the social feed",
		Handler: func(args []string) bool {
			username, err := prompt("Username")
			if err != nil {
				return false
			}
			password, err := prompt("Password")
			if err != nil {
				return false
			}
			u, err := social.Login(username, password)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return false
			}
			currentUser = u.Name
			fmt.Printf("Welcome, %s! You are logged in.\n", u.Name)
			return false
		},
	})

	Register(&Command{
		Name:        "/logout",
		Description: "Log out of the social feed",
		Handler: func(args []string) bool {
			if currentUser == "" {
				fmt.Println("Not logged in.")
				return false
			}
			fmt.Printf("Logging out %s.\n", currentUser)
			currentUser = ""
			return false
		},
	})

	Register(&Command{
		Name:        "/post",
		Description: "Create a post as the logged-in user",
		Handler: func(args []string) bool {
			if currentUser == "" {
				fmt.Println("Log in first with /login.")
				return false
			}
			if len(args) == 0 {
				fmt.Println("Usage: /post <content>")
				return false
			}
			p, err := social.CreatePost(currentUser, strings.Join(args, " "))
			if err != nil {
				reportStoreError("creating post", err)
				return false
			}
			fmt.Printf("Posted: @%s: %s\n", p.Author, p.Content)
			return false
		},
	})

	Register(&Command{
		Name:        "/myposts",
		Description: "Show the logged-in user's posts",
		Handler: func(args []string) bool {
			if currentUser == "" {
				fmt.Println("Log in first with /login.")
				return false
			}
			posts := social.PostsBy(currentUser)
			if len(posts) == 0 {
				fmt.Println("You haven't posted anything yet.")
				return false
			}
			for i, p := range posts {
				fmt.Printf("%d. @%s: %s\n", i+1, p.Author, p.Content)
			}
			return false
		},
	})

	Register(&Command{
		Name:        "/feed",
		Description: "Show every post on the platform",
		Handler: func(args []string) bool {
			posts := social.AllPosts()
			if len(posts) == 0 {
				fmt.Println("No posts yet.")
				return false
			}
			for i, p := range posts {
				fmt.Printf("%d. @%s: %s\n", i+1, p.Author, p.Content)
			}
			return false
		},
	})
}
