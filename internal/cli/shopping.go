package cli

import (
	"fmt"
	"io"

	"github.com/chorify/chorify/internal/resources"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// newShoppingCmd creates the shopping command group
func newShoppingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "shopping",
		Aliases:           []string{"shopping-lists"},
		Short:             "Manage shopping lists",
		PersistentPreRunE: requireLogin,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.AddCommand(newShoppingListCmd())
	cmd.AddCommand(newShoppingCreateCmd())
	cmd.AddCommand(newShoppingUpdateCmd())
	cmd.AddCommand(newShoppingDeleteCmd())
	return cmd
}

func newShoppingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your shopping lists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.shoppingLists()
			defer c.Close()
			if err := c.FetchAll(commandContext(cmd)); err != nil {
				return err
			}
			printShoppingLists(cmd.OutOrStdout(), c.Items())
			return nil
		},
	}
}

func newShoppingCreateCmd() *cobra.Command {
	var name, file string
	var items []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a shopping list",
		Long: `Create a shopping list. Items are given as name=quantity; the quantity is optional.
With --file, every YAML document in the file creates one list. Documents may use
{{ .ENV.NAME }} placeholders, filled from the environment or a .env file.

Example:
  chorify shopping create --name Groceries --item milk=2 --item "rye bread"
  chorify shopping create -f lists.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var drafts []resources.ShoppingListDraft
			if file != "" {
				var err error
				if drafts, err = shoppingDraftsFromFile(file); err != nil {
					return err
				}
			} else {
				d := resources.ShoppingListDraft{Name: name}
				for _, entry := range items {
					d.Items = append(d.Items, resources.ParseShoppingItem(entry))
				}
				drafts = append(drafts, d)
			}

			c := app.shoppingLists()
			defer c.Close()

			var created []resources.ShoppingList
			for _, d := range drafts {
				c.SetDraft(d)
				l, err := c.SubmitDraft(commandContext(cmd))
				if err != nil {
					return err
				}
				created = append(created, l)
			}
			printShoppingLists(cmd.OutOrStdout(), created)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the list")
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "Item as name=quantity (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with one list per document")
	cmd.MarkFlagsMutuallyExclusive("file", "name")
	cmd.MarkFlagsMutuallyExclusive("file", "item")
	return cmd
}

func newShoppingUpdateCmd() *cobra.Command {
	var name string
	var items []string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Rename a shopping list or replace its items",
		Long: `Update a shopping list. --item replaces all items of the list.

Example:
  chorify shopping update 4 --name "Weekly groceries" --item milk=2 --item eggs=12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			c := app.shoppingLists()
			defer c.Close()
			if err := c.FetchAll(ctx); err != nil {
				return err
			}

			list, ok := c.StartEditing(resources.ID(args[0]))
			if !ok {
				return fmt.Errorf("shopping list %s not found", args[0])
			}
			if cmd.Flags().Changed("name") {
				list.Name = name
			}
			if cmd.Flags().Changed("item") {
				list.Items = resources.ShoppingItems{}
				for _, entry := range items {
					list.Items = append(list.Items, resources.ParseShoppingItem(entry))
				}
			}

			updated, err := c.Update(ctx, list)
			if err != nil {
				return err
			}
			printShoppingLists(cmd.OutOrStdout(), []resources.ShoppingList{updated})
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name of the list")
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "Item as name=quantity (repeatable)")
	return cmd
}

func newShoppingDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a shopping list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.shoppingLists()
			defer c.Close()
			if err := c.Remove(commandContext(cmd), resources.ID(args[0])); err != nil {
				return err
			}
			return reportDeleted(cmd, "shopping list", args[0])
		},
	}
}

func printShoppingLists(w io.Writer, lists []resources.ShoppingList) {
	if jsonOutput {
		printResult(w, lists)
		return
	}
	fmt.Fprintf(w, "%s:\n", cases.Title(language.English).String("shopping lists"))
	if len(lists) == 0 {
		dimLabel.Fprintln(w, "  (none)")
		return
	}
	for _, l := range lists {
		fmt.Fprintf(w, "- [%s] %s\n", l.ID, l.Name)
		for _, item := range l.Items {
			fmt.Fprintf(w, "    • %s\n", item)
		}
	}
}

func reportDeleted(cmd *cobra.Command, kind, id string) error {
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), map[string]any{"result": 1, "deleted": id})
		return nil
	}
	okLabel.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s %s\n", kind, id)
	return nil
}
