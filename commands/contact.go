package commands

import (
	"fmt"
	"strings"

	"deskbook/storage"
)

func init() {
	Register(&Command{
		Name:        "/addcontact",
		Description: "Add a new contact (prompts for each field)",
		Handler: func(args []string) bool {
			name, err := prompt("Name")
			if err != nil {
				return false
			}
			number, err := prompt("Contact number")
			if err != nil {
				return false
			}
			if len(number) > 0 && len(number) < 7 {
				fmt.Println("Warning: contact number seems short. Please check its validity.")
			}
			email, err := prompt("Email")
			if err != nil {
				return false
			}
			group, err := prompt(fmt.Sprintf("Group (%s/%s)", storage.GroupHome, storage.GroupOffice))
			if err != nil {
				return false
			}

			c, err := contacts.Add(name, number, email, group)
			if err != nil {
				reportStoreError("adding contact", err)
				return false
			}
			fmt.Printf("Added contact: %s (%s)\n", c.Name, c.Number)
			return false
		},
	})

	Register(&Command{
		Name:        "/contacts",
		Description: "List all contacts, sorted by name",
		Handler: func(args []string) bool {
			all := contacts.All()
			if len(all) == 0 {
				fmt.Println("No contacts yet. Add one with /addcontact")
				return false
			}
			for i, c := range all {
				printContact(i+1, c)
			}
			return false
		},
	})

	Register(&Command{
		Name:        "/findcontact",
		Description: "Search contacts by name prefix",
		Handler: func(args []string) bool {
			if len(args) == 0 {
				fmt.Println("Usage: /findcontact <name prefix>")
				return false
			}
			prefix := strings.Join(args, " ")
			found := contacts.SearchByName(prefix)
			if len(found) == 0 {
				fmt.Printf("No contacts found starting with %q.\n", prefix)
				return false
			}
			for i, c := range found {
				printContact(i+1, c)
			}
			return false
		},
	})

	Register(&Command{
		Name:        "/group",
		Description: "List contacts in a group (Home/Office)",
		Handler: func(args []string) bool {
			if len(args) == 0 {
				fmt.Println("Usage: /group <Home|Office>")
				return false
			}
			found, err := contacts.SearchByGroup(args[0])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return false
			}
			if len(found) == 0 {
				fmt.Printf("No contacts in the %q group.\n", args[0])
				return false
			}
			for i, c := range found {
				printContact(i+1, c)
			}
			return false
		},
	})

	Register(&Command{
		Name:        "/editcontact",
		Description: "Update a contact found by name and number",
		Handler: func(args []string) bool {
			name, err := prompt("Name of contact to update")
			if err != nil {
				return false
			}
			number, err := prompt("Contact number of contact to update")
			if err != nil {
				return false
			}
			current, err := contacts.Get(name, number)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return false
			}
			printContact(0, current)
			fmt.Println("Enter new values (leave blank to keep current value):")

			var upd storage.ContactUpdate
			if upd.Name, err = prompt(fmt.Sprintf("New name (current: %s)", current.Name)); err != nil {
				return false
			}
			if upd.Number, err = prompt(fmt.Sprintf("New number (current: %s)", current.Number)); err != nil {
				return false
			}
			if upd.Email, err = prompt(fmt.Sprintf("New email (current: %s)", current.Email)); err != nil {
				return false
			}
			if upd.Group, err = prompt(fmt.Sprintf("New group (current: %s)", current.Group)); err != nil {
				return false
			}

			updated, err := contacts.Update(name, number, upd)
			if err != nil {
				reportStoreError("updating contact", err)
				return false
			}
			if updated == current {
				fmt.Println("No changes made.")
				return false
			}
			fmt.Println("Contact updated.")
			return false
		},
	})

	Register(&Command{
		Name:        "/delcontact",
		Description: "Delete a contact found by name and number",
		Handler: func(args []string) bool {
			name, err := prompt("Name of contact to delete")
			if err != nil {
				return false
			}
			number, err := prompt("Contact number of contact to delete")
			if err != nil {
				return false
			}
			if err := contacts.Delete(name, number); err != nil {
				reportStoreError("deleting contact", err)
				return false
			}
			fmt.Printf("Deleted contact %s (%s).\n", name, number)
			return false
		},
	})

	Register(&Command{
		Name:        "/exportcsv",
		Description: "Export all contacts to a CSV file",
		Handler: func(args []string) bool {
			path := exportPath
			if len(args) > 0 {
				path = args[0]
			}
			if contacts.Len() == 0 {
				fmt.Println("No contacts to export.")
				return false
			}
			if err := contacts.ExportCSV(path); err != nil {
				fmt.Printf("Error exporting contacts: %v\n", err)
				return false
			}
			fmt.Printf("Exported %d contacts to %s\n", contacts.Len(), path)
			return false
		},
	})
}

// exportPath is the default CSV destination, set from config by main.
var exportPath = "contacts_export.csv"

// SetExportPath sets the default destination for /exportcsv
func SetExportPath(path string) {
	exportPath = path
}

func printContact(index int, c storage.Contact) {
	if index > 0 {
		fmt.Printf("Contact %d:\n", index)
	}
	fmt.Printf("  Name: %s\n  Contact: %s\n  Email: %s\n  Group: %s\n", c.Name, c.Number, c.Email, c.Group)
}
