package commands

import "fmt"

func init() {
	for _, name := range []string{"/quit", "/exit"} {
		Register(&Command{
			Name:        name,
			Description: "Exit deskbook",
			Hidden:      true,
			Handler: func(args []string) bool {
				fmt.Println("Goodbye!")
				return true
			},
		})
	}
}
