package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/finsense/internal/catalog"
	"github.com/Veraticus/finsense/internal/cli"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/storage"
)

// initStorage opens the configured database, runs migrations and seeds the
// category registry on first use.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedCategories(ctx, store); err != nil {
		_ = store.Close()
		return nil, err
	}

	return store, nil
}

func seedCategories(ctx context.Context, store *storage.SQLiteStorage) error {
	existing, err := store.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to read categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	cats := catalog.DefaultCategories()
	if settings.CategoriesFile != "" {
		if cats, err = catalog.LoadFile(settings.CategoriesFile); err != nil {
			return err
		}
	}

	created, err := store.ImportCategories(ctx, cats)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	slog.Debug("seeded category registry", "created", created)
	return nil
}

// initEngine loads the decision engine over store with the configured policy.
func initEngine(ctx context.Context, store *storage.SQLiteStorage, opts ...engine.Option) (*engine.Engine, error) {
	opts = append([]engine.Option{engine.WithPolicy(settings.Policy)}, opts...)

	eng, err := engine.New(ctx, store, store, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return eng, nil
}

// withLedger opens storage and the engine, runs fn and closes storage.
func withLedger(ctx context.Context, fn func(store *storage.SQLiteStorage, eng *engine.Engine) error) error {
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	eng, err := initEngine(ctx, store)
	if err != nil {
		return err
	}
	return fn(store, eng)
}

// autoCheckpoint snapshots the database before a destructive operation.
func autoCheckpoint(ctx context.Context, w io.Writer, store *storage.SQLiteStorage, operation string) error {
	manager, err := store.NewCheckpointManager()
	if err != nil {
		return fmt.Errorf("failed to create checkpoint manager: %w", err)
	}

	info, err := manager.AutoCheckpoint(ctx, operation)
	if err != nil {
		return fmt.Errorf("failed to create safety checkpoint: %w", err)
	}

	fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("Saved checkpoint %s (restore with 'finsense checkpoint restore %s')", info.ID, info.ID)))
	return nil
}

func formatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
