package commands

import (
	"fmt"
	"sort"
)

func init() {
	Register(&Command{
		Name:        "/help",
		Description: "Show available commands",
		Hidden:      true,
		Handler: func(args []string) bool {
			fmt.Println("Available commands:")

			cmds := List()
			sort.Slice(cmds, func(i, j int) bool {
				return cmds[i].Name < cmds[j].Name
			})

			for _, cmd := range cmds {
				if cmd.Hidden {
					continue
				}
				fmt.Printf("  %-13s - %s\n", cmd.Name, cmd.Description)
			}
			fmt.Println("  /help         - Show this message")
			fmt.Println("  /quit         - Exit deskbook")
			return false
		},
	})
}
