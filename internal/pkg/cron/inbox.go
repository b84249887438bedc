package cron

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/importing"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/spreadsheet"
)

const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// InboxJobs imports time clock exports dropped into a directory.
type InboxJobs struct {
	importService importing.ImportService
	dir           string
	mode          string
}

func NewInboxJobs(importService importing.ImportService, dir string, mode string) *InboxJobs {
	return &InboxJobs{
		importService: importService,
		dir:           dir,
		mode:          mode,
	}
}

func (j *InboxJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("import_inbox", interval, j.ScanInbox)
}

// ScanInbox imports every supported file in the inbox, oldest name first. A failing
// file is moved aside and does not stop the scan.
func (j *InboxJobs) ScanInbox(ctx context.Context) error {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return fmt.Errorf("failed to read inbox %s: %w", j.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !spreadsheet.IsSupported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		slog.Debug("Cron: Inbox empty", "dir", j.dir)
		return nil
	}

	imported := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		target := ProcessedDir
		if err := j.importFile(ctx, name); err != nil {
			slog.Error("Cron: Failed to import inbox file", "file", name, "error", err)
			target = FailedDir
		} else {
			imported++
		}

		if err := j.move(name, target); err != nil {
			return err
		}
	}

	slog.Info("Cron: Inbox scan finished", "files", len(names), "imported", imported)
	return nil
}

func (j *InboxJobs) importFile(ctx context.Context, name string) error {
	f, err := os.Open(filepath.Join(j.dir, name))
	if err != nil {
		return fmt.Errorf("failed to open: %w", err)
	}
	defer f.Close()

	rows, err := spreadsheet.ReadRows(name, f)
	if err != nil {
		return err
	}

	result, err := j.importService.Import(ctx, importing.ImportRequest{
		FileName: name,
		Rows:     rows,
		Mode:     j.mode,
	})
	if err != nil {
		return err
	}

	slog.Info("Cron: Imported inbox file",
		"file", name,
		"import_id", result.Import.ID,
		"valid_punches", result.Stats.ValidPunches,
		"employees", result.Stats.Employees)
	return nil
}

func (j *InboxJobs) move(name, target string) error {
	dir := filepath.Join(j.dir, target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.Rename(filepath.Join(j.dir, name), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", name, target, err)
	}
	return nil
}
