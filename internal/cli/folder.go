package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tinymark/internal/logger"
	"github.com/mesh-intelligence/tinymark/internal/store"
	"github.com/mesh-intelligence/tinymark/pkg/types"
)

func newFolderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders and groups",
	}
	cmd.AddCommand(newFolderNewCmd(a))
	cmd.AddCommand(newFolderListCmd(a))
	return cmd
}

func newFolderNewCmd(a *app) *cobra.Command {
	var (
		parent string
		group  bool
	)
	cmd := &cobra.Command{
		Use:   "new <label>",
		Short: "Create a folder",
		Long:  "Create a folder, or a group with --group. A parent given with --parent must already exist.",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := types.ContainerFolder
			if group {
				kind = types.ContainerGroup
			}
			return a.runFolderNew(args[0], parent, kind)
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "ID of the parent folder or group")
	cmd.Flags().BoolVar(&group, "group", false, "create a group instead of a folder")
	return cmd
}

func (a *app) runFolderNew(label, parent string, kind types.ContainerType) error {
	var parentID *uuid.UUID
	if parent != "" {
		id, err := uuid.Parse(parent)
		if err != nil {
			return usageError{fmt.Errorf("invalid parent ID %q: %w", parent, err)}
		}
		parentID = &id
	}

	c, err := types.NewContainer(label, parentID, kind)
	if err != nil {
		return err
	}

	s, err := store.New(a.config)
	if err != nil {
		return err
	}
	err = s.Do(types.KeyspaceContainers, func(h *store.Handle) error {
		if parentID != nil {
			existing, err := store.ScanAll[types.Container](h)
			if err != nil {
				return err
			}
			if !containsID(existing, *parentID) {
				return usageError{fmt.Errorf("parent %s does not exist", parentID)}
			}
		}
		return store.Insert(h, c)
	})
	if err != nil {
		return err
	}
	a.log.Info("container created", logger.String("id", c.Key()), logger.String("type", string(c.Type)))

	if a.json {
		return a.printJSON(c)
	}
	fmt.Fprintf(a.out, "Created %s\n", c)
	return nil
}

func containsID(containers []types.Container, id uuid.UUID) bool {
	for _, c := range containers {
		if c.ID == id {
			return true
		}
	}
	return false
}

func newFolderListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List folders and groups",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFolderList()
		},
	}
}

func (a *app) runFolderList() error {
	s, err := store.New(a.config)
	if err != nil {
		return err
	}
	var containers []types.Container
	if err := s.Do(types.KeyspaceContainers, func(h *store.Handle) error {
		var err error
		containers, err = store.ScanAll[types.Container](h)
		return err
	}); err != nil {
		return err
	}

	if a.json {
		return a.printJSON(containers)
	}
	for _, c := range containers {
		if c.Container != nil {
			fmt.Fprintf(a.out, "%s in %s\n", c, c.Container)
			continue
		}
		fmt.Fprintln(a.out, c)
	}
	return nil
}
