package cli

import (
	"github.com/chorify/chorify/internal/tui"
	"github.com/spf13/cobra"
)

// newTUICmd creates the tui command
func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive interface",
		Args:  cobra.NoArgs,
		// The interface has its own login screen, so the guard is applied
		// inside it instead of here.
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(commandContext(cmd), tui.Deps{
				Auth:     app.auth,
				Guard:    app.guard,
				Shopping: app.shoppingLists(),
				ToDos:    app.todoLists(),
			})
		},
	}
}
