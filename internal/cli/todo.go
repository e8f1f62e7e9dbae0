package cli

import (
	"fmt"
	"io"

	"github.com/chorify/chorify/internal/resources"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// newTodoCmd creates the todo command group
func newTodoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "todo",
		Aliases:           []string{"todos"},
		Short:             "Manage to-do items",
		PersistentPreRunE: requireLogin,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.AddCommand(newTodoListCmd())
	cmd.AddCommand(newTodoCreateCmd())
	cmd.AddCommand(newTodoUpdateCmd())
	cmd.AddCommand(newTodoDoneCmd("done", true))
	cmd.AddCommand(newTodoDoneCmd("undone", false))
	cmd.AddCommand(newTodoDeleteCmd())
	return cmd
}

func newTodoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your to-do items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.todoLists()
			defer c.Close()
			if err := c.FetchAll(commandContext(cmd)); err != nil {
				return err
			}
			printTodos(cmd.OutOrStdout(), c.Items())
			return nil
		},
	}
}

func newTodoCreateCmd() *cobra.Command {
	var draft resources.ToDoDraft
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a to-do item",
		Long: `Create a to-do item. The due date uses the YYYY-MM-DD format.
With --file, every YAML document in the file creates one item.

Example:
  chorify todo create --description "Pay rent" --due 2024-06-01
  chorify todo create -f chores.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts := []resources.ToDoDraft{draft}
			if file != "" {
				var err error
				if drafts, err = todoDraftsFromFile(file); err != nil {
					return err
				}
			}

			c := app.todoLists()
			defer c.Close()

			var created []resources.ToDoList
			for _, d := range drafts {
				c.SetDraft(d)
				t, err := c.SubmitDraft(commandContext(cmd))
				if err != nil {
					return err
				}
				created = append(created, t)
			}
			printTodos(cmd.OutOrStdout(), created)
			return nil
		},
	}

	cmd.Flags().StringVarP(&draft.Description, "description", "d", "", "What needs to be done")
	cmd.Flags().StringVar(&draft.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&draft.Done, "done", false, "Create the item as done")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with one item per document")
	cmd.MarkFlagsMutuallyExclusive("file", "description")
	return cmd
}

func newTodoUpdateCmd() *cobra.Command {
	var description, due string
	var done bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a to-do item",
		Long: `Change the description, due date or done flag of a to-do item.
Pass --due "" to clear the due date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			c := app.todoLists()
			defer c.Close()
			if err := c.FetchAll(ctx); err != nil {
				return err
			}

			item, ok := c.StartEditing(resources.ID(args[0]))
			if !ok {
				return fmt.Errorf("to-do %s not found", args[0])
			}
			if cmd.Flags().Changed("description") {
				item.Description = description
			}
			if cmd.Flags().Changed("due") {
				item.DueDate = due
			}
			if cmd.Flags().Changed("done") {
				item.Done = done
			}

			updated, err := c.Update(ctx, item)
			if err != nil {
				return err
			}
			printTodos(cmd.OutOrStdout(), []resources.ToDoList{updated})
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&done, "done", false, "Mark as done")
	return cmd
}

func newTodoDoneCmd(use string, done bool) *cobra.Command {
	short := "Mark a to-do item as done"
	if !done {
		short = "Mark a to-do item as not done"
	}
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.todoLists()
			defer c.Close()
			updated, err := c.SetDone(commandContext(cmd), resources.ID(args[0]), done)
			if err != nil {
				return err
			}
			printTodos(cmd.OutOrStdout(), []resources.ToDoList{updated})
			return nil
		},
	}
}

func newTodoDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a to-do item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.todoLists()
			defer c.Close()
			if err := c.Remove(commandContext(cmd), resources.ID(args[0])); err != nil {
				return err
			}
			return reportDeleted(cmd, "to-do", args[0])
		},
	}
}

func printTodos(w io.Writer, todos []resources.ToDoList) {
	if jsonOutput {
		printResult(w, todos)
		return
	}
	fmt.Fprintf(w, "%s:\n", cases.Title(language.English).String("to-do items"))
	if len(todos) == 0 {
		dimLabel.Fprintln(w, "  (none)")
		return
	}
	for _, t := range todos {
		box := "[ ]"
		if t.Done {
			box = okLabel.Sprint("[x]")
		}
		line := fmt.Sprintf("%s %s (#%s)", box, t.Description, t.ID)
		if t.DueDate != "" {
			line += dimLabel.Sprintf(" due %s", t.DueDate)
		}
		fmt.Fprintln(w, line)
	}
}
