package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tinymark/internal/interchange"
	"github.com/mesh-intelligence/tinymark/internal/logger"
	"github.com/mesh-intelligence/tinymark/internal/store"
	"github.com/mesh-intelligence/tinymark/pkg/types"
)

const formatHelp = `The format follows the file name: .yaml or .yml selects YAML, anything
else JSON. A trailing .zst adds zstd compression.`

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "export <file>",
		Short:   "Write all bookmarks to a file",
		Long:    "Write all bookmarks to file, replacing it atomically.\n\n" + formatHelp,
		Example: "  tinymark export bookmarks.json\n  tinymark export backup.yaml.zst",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(args[0])
		},
	}
}

func (a *app) runExport(path string) error {
	bookmarks, err := a.scanBookmarks()
	if err != nil {
		return err
	}
	if err := interchange.ExportFile(path, bookmarks); err != nil {
		return err
	}
	a.log.Info("bookmarks exported",
		logger.String("file", path),
		logger.String("format", interchange.KindFor(path).Format.String()),
		logger.Int("count", len(bookmarks)),
	)
	return a.success(fmt.Sprintf("Exported %d bookmarks to %s", len(bookmarks), path))
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load bookmarks from a file",
		Long: `Load bookmarks from file. Bookmarks whose link is already stored are
replaced. Nothing is written unless every record in the file is valid.

` + formatHelp,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(args[0])
		},
	}
}

func (a *app) runImport(path string) error {
	bookmarks, err := interchange.ImportFile(path)
	if err != nil {
		return err
	}

	s, err := store.New(a.config)
	if err != nil {
		return err
	}
	if err := s.Do(types.KeyspaceBookmarks, func(h *store.Handle) error {
		return store.InsertMany(h, bookmarks)
	}); err != nil {
		return err
	}
	a.log.Info("bookmarks imported", logger.String("file", path), logger.Int("count", len(bookmarks)))
	return a.success(fmt.Sprintf("Imported %d bookmarks from %s", len(bookmarks), path))
}
