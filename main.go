package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"deskbook/commands"
	"deskbook/config"
	"deskbook/flatfile"
	"deskbook/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "deskbook: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return err
	}

	contacts, warnings, err := storage.OpenContacts(cfg.ContactsPath())
	if err != nil {
		return err
	}
	printWarnings(cfg.ContactsPath(), warnings)

	tasks, warnings, err := storage.OpenTasks(cfg.TasksPath())
	if err != nil {
		return err
	}
	printWarnings(cfg.TasksPath(), warnings)

	social, warnings, err := storage.OpenSocial(cfg.UsersPath(), cfg.PostsPath())
	if err != nil {
		return err
	}
	printWarnings(cfg.UsersPath(), warnings)

	finance, warnings, err := storage.OpenFinance(cfg.AccountsPath(), cfg.LedgerPath())
	if err != nil {
		return err
	}
	printWarnings(cfg.AccountsPath(), warnings)

	commands.SetStores(contacts, tasks, social, finance)
	commands.SetExportPath(cfg.ExportPath())

	rl, err := readline.New("deskbook> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	commands.SetPrompter(commands.PromptFunc(func(label string) (string, error) {
		rl.SetPrompt(label + ": ")
		defer rl.SetPrompt("deskbook> ")
		return rl.Readline()
	}))

	fmt.Println("Welcome to deskbook! Type /help for available commands.")

	for {
		line, err := rl.Readline()
		if err != nil {
			// Ctrl-C clears the line, Ctrl-D exits.
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Println("Goodbye!")
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if !strings.HasPrefix(input, "/") {
			fmt.Println("Commands start with /. Type /help for the list.")
			continue
		}

		quit, err := commands.Execute(input)
		if err != nil {
			fmt.Printf("%v. Type /help for available commands.\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

func printWarnings(path string, warnings []flatfile.Warning) {
	for _, w := range warnings {
		fmt.Printf("Warning: %s: %s\n", path, w)
	}
}
