package cli

import (
	"takes-cli/internal/model"
	"takes-cli/internal/tree"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Folder and take commands",
	}
	cmd.AddCommand(newItemsCreateCmd(app))
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsRenameCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	return cmd
}

func managerFor(app *App) (tree.Manager, error) {
	s, err := storeFor(app)
	if err != nil {
		return tree.Manager{}, err
	}
	return tree.Manager{Store: s}, nil
}

// parentArg turns a --parent flag value into the pointer the manager wants:
// empty string means root.
func parentArg(parent string) *string {
	if parent == "" {
		return nil
	}
	return &parent
}

func newItemsCreateCmd(app *App) *cobra.Command {
	var name string
	var typ string
	var parent string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a folder or take",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := managerFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			itemType, ok := model.ParseItemType(typ)
			if !ok {
				return writeErr(cmd, errBadFlag("type", typ, "folder|take"))
			}
			it, err := m.Create(name, itemType, parentArg(parent))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&typ, "type", "take", "Item type (folder|take)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent folder id (default: root)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var parent string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items under a folder (root by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := managerFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var items []model.Item
			if all {
				items, err = m.All()
			} else {
				items, err = m.Children(parentArg(parent))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": items})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent folder id (default: root)")
	cmd.Flags().BoolVar(&all, "all", false, "List the whole collection, ignoring hierarchy")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := managerFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := m.Get(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
	return cmd
}

func newItemsRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <item-id>",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := managerFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.Rename(args[0], name); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "name": name}})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemsMoveCmd(app *App) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an item to another folder (or to the root)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := managerFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.Move(args[0], parentArg(parent)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "parentId": parentArg(parent)}})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "New parent folder id (empty: root)")
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item (folders take their contents with them)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := managerFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := m.Delete(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
	return cmd
}
