package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tinymark/internal/logger"
	"github.com/mesh-intelligence/tinymark/internal/store"
	"github.com/mesh-intelligence/tinymark/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tinymark storage",
		Long: `Create the store with every keyspace and record the effective backend
and store location in config.yaml.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	s, err := store.New(a.config)
	if err != nil {
		return err
	}

	var location string
	for _, ks := range types.Keyspaces {
		if err := s.Do(ks, func(h *store.Handle) error {
			location = h.Path()
			return nil
		}); err != nil {
			return err
		}
	}

	configPath := filepath.Join(a.configDir, configFileExt)
	if err := writeConfigValues(configPath, a.config); err != nil {
		return fmt.Errorf("%w: write config: %w", types.ErrConfig, err)
	}

	a.log.Info("store initialized",
		logger.String("backend", a.config.Backend),
		logger.String("storage_location", location),
	)
	return a.success(fmt.Sprintf("Initialized %s store at %s", a.config.Backend, location))
}

// writeConfigValues sets backend and storage_location in the config file at
// path, keeping any other keys it already holds.
func writeConfigValues(path string, config types.Config) error {
	values := map[string]any{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if values == nil {
			values = map[string]any{}
		}
	}

	values[cfgKeyBackend] = config.Backend
	if config.StoragePath != "" {
		values[cfgKeyStorage] = config.StoragePath
	}

	out, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}
