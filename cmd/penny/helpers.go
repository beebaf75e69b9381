package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KeyComponentMFG/every-penny/internal/common"
	"github.com/KeyComponentMFG/every-penny/internal/config"
	"github.com/KeyComponentMFG/every-penny/internal/engine"
	"github.com/KeyComponentMFG/every-penny/internal/ingest"
	"github.com/KeyComponentMFG/every-penny/internal/model"
	"github.com/KeyComponentMFG/every-penny/internal/storage"
)

// storer is the slice of storage the reconcile path needs.
type storer interface {
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	ReplaceFindings(ctx context.Context, findings []model.IntegrityFinding) error
	ReplaceGaps(ctx context.Context, gaps []model.GapReport) error
	ReplaceMissingReceipts(ctx context.Context, missing []model.MissingReceipt) error
}

// openStorage loads the config, opens the database, and runs any pending
// migrations. The caller owns the returned storage.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, common.NewUserError("failed to load configuration", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, cfg, nil
}

// listFiles returns sorted paths in dir matching any of the extensions.
// A missing directory is not an error; it just contributes nothing.
func listFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range exts {
			if ext == want {
				paths = append(paths, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// loadInputs reads every input file under the data directory into engine
// inputs. Official statements become priority sources; downloads are
// convenience sources. A file that fails to parse is logged and skipped;
// one bad download never aborts the batch.
func loadInputs(cfg *config.Config) (engine.Inputs, error) {
	var in engine.Inputs

	official, err := listFiles(cfg.StatementsDir(), ".csv")
	if err != nil {
		return in, err
	}
	for _, path := range official {
		stmt, err := parseBankFile(path)
		if err != nil {
			common.LogError(err, "skipping unparseable statement file", common.Fields{"file": path})
			continue
		}
		in.Priority = append(in.Priority, stmt)
	}

	downloads, err := listFiles(cfg.DownloadsDir(), ".csv", ".ofx", ".qfx")
	if err != nil {
		return in, err
	}
	for _, path := range downloads {
		stmt, err := parseBankFile(path)
		if err != nil {
			common.LogError(err, "skipping unparseable download file", common.Fields{"file": path})
			continue
		}
		in.Convenience = append(in.Convenience, stmt)
	}

	in.Receipts, err = loadReceipts(cfg.ReceiptsDir())
	if err != nil {
		return in, err
	}

	platformFiles, err := listFiles(cfg.PlatformDir(), ".csv")
	if err != nil {
		return in, err
	}
	for _, path := range platformFiles {
		f, err := os.Open(path)
		if err != nil {
			common.LogError(err, "skipping unreadable platform file", common.Fields{"file": path})
			continue
		}
		rows, parseErr := ingest.ParsePlatformCSV(f, filepath.Base(path))
		_ = f.Close()
		if parseErr != nil {
			common.LogError(parseErr, "skipping unparseable platform file", common.Fields{"file": path})
			continue
		}
		in.PlatformRows = append(in.PlatformRows, rows...)
	}

	return in, nil
}

// hasSources reports whether any input file contributed data.
func hasSources(in engine.Inputs) bool {
	return len(in.Priority) > 0 || len(in.Convenience) > 0 ||
		len(in.Receipts) > 0 || len(in.PlatformRows) > 0
}

// parseBankFile picks the parser from the file extension.
func parseBankFile(path string) (*ingest.BankStatement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return ingest.ParseBankOFX(f, name)
	case ".csv":
		return ingest.ParseBankCSV(f, name)
	default:
		return nil, fmt.Errorf("%s: %w", name, common.ErrUnsupportedFormat)
	}
}

// loadReceipts walks receipts/<source>/*.json, using the subdirectory
// name as the receipt source.
func loadReceipts(dir string) ([]model.Receipt, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var receipts []model.Receipt
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		source := entry.Name()
		files, err := listFiles(filepath.Join(dir, source), ".json")
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			f, openErr := os.Open(path)
			if openErr != nil {
				common.LogError(openErr, "skipping unreadable receipt file", common.Fields{"file": path})
				continue
			}
			parsed, parseErr := ingest.ParseReceiptsJSON(f, source, filepath.Base(path))
			_ = f.Close()
			if parseErr != nil {
				common.LogError(parseErr, "skipping unparseable receipt file", common.Fields{"file": path})
				continue
			}
			receipts = append(receipts, parsed...)
		}
	}
	return receipts, nil
}
