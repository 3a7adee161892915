package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tinymark/internal/logger"
	"github.com/mesh-intelligence/tinymark/internal/store"
	"github.com/mesh-intelligence/tinymark/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "add <url> <label> [description] [tags...]",
		Short: "Add a bookmark",
		Long: `Add a bookmark for url. Adding a url that is already stored replaces the
existing bookmark. Tags may be given as separate arguments or comma-separated.`,
		Example: `  tinymark add https://go.dev "The Go site" "Docs and downloads" go,lang`,
		Args:    usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAdd(args, folder)
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "ID of the folder or group holding the bookmark")
	return cmd
}

func (a *app) runAdd(args []string, folder string) error {
	var description *string
	if len(args) > 2 && args[2] != "" {
		d := args[2]
		description = &d
	}
	var tags []string
	if len(args) > 3 {
		tags = splitTags(args[3:])
	}

	b, err := types.NewBookmark(args[0], args[1], description, tags)
	if err != nil {
		return err
	}
	if folder != "" {
		id, err := uuid.Parse(folder)
		if err != nil {
			return usageError{fmt.Errorf("invalid folder ID %q: %w", folder, err)}
		}
		b.Container = &id
	}

	s, err := store.New(a.config)
	if err != nil {
		return err
	}
	if err := s.Do(types.KeyspaceBookmarks, func(h *store.Handle) error {
		return store.Insert(h, b)
	}); err != nil {
		return err
	}
	a.log.Info("bookmark stored", logger.String("link", b.Link))

	if a.json {
		return a.printJSON(b)
	}
	fmt.Fprintln(a.out, "Added new bookmark!")
	fmt.Fprint(a.out, b.String())
	return nil
}

// splitTags flattens comma-separated tag arguments, dropping blanks.
func splitTags(args []string) []string {
	var tags []string
	for _, arg := range args {
		for _, tag := range strings.Split(arg, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all bookmarks in link order",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList()
		},
	}
}

func (a *app) runList() error {
	bookmarks, err := a.scanBookmarks()
	if err != nil {
		return err
	}
	a.log.Debug("bookmarks scanned", logger.Int("count", len(bookmarks)))

	if a.json {
		return a.printJSON(bookmarks)
	}
	for i, b := range bookmarks {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		fmt.Fprint(a.out, b.String())
	}
	return nil
}

func (a *app) scanBookmarks() ([]types.Bookmark, error) {
	s, err := store.New(a.config)
	if err != nil {
		return nil, err
	}
	var bookmarks []types.Bookmark
	err = s.Do(types.KeyspaceBookmarks, func(h *store.Handle) error {
		var err error
		bookmarks, err = store.ScanAll[types.Bookmark](h)
		return err
	})
	return bookmarks, err
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <url>",
		Aliases: []string{"rm"},
		Short:   "Delete the bookmark for url",
		Long:    "Delete the bookmark for url. Deleting a url that is not stored succeeds.",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDelete(args[0])
		},
	}
}

func (a *app) runDelete(rawURL string) error {
	key, err := types.CanonicalLink(rawURL)
	if err != nil {
		a.log.Warn("removing by raw key", logger.String("link", rawURL), logger.Error(err))
		key = rawURL
	}

	s, err := store.New(a.config)
	if err != nil {
		return err
	}
	if err := s.Do(types.KeyspaceBookmarks, func(h *store.Handle) error {
		return h.Remove(key)
	}); err != nil {
		return err
	}
	a.log.Info("bookmark removed", logger.String("link", key))
	return a.success(fmt.Sprintf("Removed bookmark %s", key))
}
