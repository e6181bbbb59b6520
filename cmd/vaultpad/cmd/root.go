package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emirkaya/vaultpad/internal/config"
	"github.com/emirkaya/vaultpad/internal/domain"
	"github.com/emirkaya/vaultpad/internal/index"
	"github.com/emirkaya/vaultpad/internal/lock"
	"github.com/emirkaya/vaultpad/internal/logger"
	"github.com/emirkaya/vaultpad/internal/service"
	"github.com/emirkaya/vaultpad/internal/state"
	"github.com/emirkaya/vaultpad/internal/store"
)

var (
	cfgFile      string
	rootOverride string

	cfg       *config.Config
	svc       *service.Service
	journal   *state.Journal
	storeLock *lock.StoreLock
)

var rootCmd = &cobra.Command{
	Use:   "vaultpad",
	Short: "vaultpad - a password-gated hierarchical document store",
	Long: `vaultpad keeps HTML documents in a folder tree on disk. Each
document may carry its own password, and the recently opened and pinned
lists stay consistent with every rename, move, and delete.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	defer func() {
		if storeLock != nil {
			storeLock.Release()
		}
		if journal != nil {
			journal.Close()
		}
		logger.Shutdown()
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if errors.Is(err, domain.ErrConfigNotFound) && rootOverride != "" {
		cfg = &config.Config{
			Store:    config.StoreConfig{Root: rootOverride},
			Security: config.SecurityConfig{MinPasswordLength: 3},
			Journal:  config.JournalConfig{Enabled: true},
			Log:      config.LogConfig{Level: "info", Format: "text"},
		}
		err = nil
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if rootOverride != "" {
		cfg.Store.Root = rootOverride
	}

	if err := initLogger(cfg.Log); err != nil {
		return err
	}

	st, err := store.New(config.ExpandPath(cfg.Store.Root), cfg.Store.PayloadExt)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	recency, err := index.NewRecencyIndex(cfg.HistoryPath(), logger.Get())
	if err != nil {
		return err
	}
	pins, err := index.NewPinIndex(cfg.PinsPath(), logger.Get())
	if err != nil {
		return err
	}

	if cfg.Journal.Enabled {
		journal, err = state.NewJournal(cfg.JournalDir())
		if err != nil {
			return fmt.Errorf("failed to open mutation journal: %w", err)
		}
	}

	svc, err = service.New(st, recency, pins, journal, logger.Get(), service.Options{
		MinPasswordLength: cfg.Security.MinPasswordLength,
	})
	if err != nil {
		return err
	}

	storeLock, err = lock.New(cfg.JournalDir())
	if err != nil {
		return err
	}

	return nil
}

func initLogger(lc config.LogConfig) error {
	outputs := []logger.OutputConfig{{Type: logger.OutputStderr}}
	fileCfg := logger.FileConfig{}
	if lc.File != "" {
		outputs = append(outputs, logger.OutputConfig{Type: logger.OutputFile})
		fileCfg = logger.FileConfig{
			Enabled:    true,
			Path:       config.ExpandPath(lc.File),
			MaxSizeMB:  lc.MaxSizeMB,
			MaxAgeDays: lc.MaxAgeDays,
			MaxBackups: lc.MaxBackups,
		}
	}

	return logger.Init(logger.Config{
		Level:   logger.ParseLevel(lc.Level),
		Format:  logger.ParseFormat(lc.Format),
		Outputs: outputs,
		File:    fileCfg,
	})
}

// acquireLock takes the store lock for a mutating command
func acquireLock(operation string) error {
	if err := storeLock.Acquire(operation); err != nil {
		return fmt.Errorf("store is busy: %w", err)
	}
	return nil
}

// resolveItem walks a slash-separated display path from the store root
// down to an item, navigating the cursor through each folder segment
func resolveItem(path string) (domain.Item, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return domain.Item{}, fmt.Errorf("%w: empty item path", domain.ErrValidation)
	}

	st := svc.Store()
	rewindCursor()
	for _, folder := range segments[:len(segments)-1] {
		if _, err := st.ScanCurrent(); err != nil {
			return domain.Item{}, err
		}
		if !st.Navigate(folder) {
			return domain.Item{}, fmt.Errorf("%w: folder %q", domain.ErrNotFound, folder)
		}
	}

	if _, err := st.ScanCurrent(); err != nil {
		return domain.Item{}, err
	}
	item, ok := st.Item(segments[len(segments)-1])
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: item %q", domain.ErrNotFound, path)
	}
	return item, nil
}

// resolveDir resolves a display path to a folder's on-disk directory.
// An empty path means the store root.
func resolveDir(path string) (string, error) {
	if strings.TrimSpace(path) == "" || path == "/" {
		return svc.Store().Root(), nil
	}
	item, err := resolveItem(path)
	if err != nil {
		return "", err
	}
	if !item.IsFolder() {
		return "", fmt.Errorf("%w: %q is not a folder", domain.ErrValidation, path)
	}
	return item.FullPath, nil
}

// rewindCursor walks the navigation cursor back up to the store root
func rewindCursor() {
	st := svc.Store()
	for st.CanGoBack() {
		st.Back()
	}
}

// navigateTo points the cursor at a folder display path; empty means root
func navigateTo(path string) error {
	rewindCursor()
	if strings.TrimSpace(path) == "" || path == "/" {
		return nil
	}
	st := svc.Store()
	for _, folder := range splitPath(path) {
		if _, err := st.ScanCurrent(); err != nil {
			return err
		}
		if !st.Navigate(folder) {
			return fmt.Errorf("%w: folder %q", domain.ErrNotFound, folder)
		}
	}
	return nil
}

func splitPath(path string) []string {
	path = strings.Trim(filepath.ToSlash(path), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&rootOverride, "root", "", "content root directory (overrides config)")
}
