package cron

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/importing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImportService struct {
	mu       sync.Mutex
	requests []importing.ImportRequest
	failOn   string
}

func (f *fakeImportService) Import(ctx context.Context, req importing.ImportRequest) (importing.ImportResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if req.FileName == f.failOn {
		return importing.ImportResult{}, errors.New("boom")
	}
	return importing.ImportResult{Import: importing.ImportResponse{ID: "imp-" + req.FileName}}, nil
}

func (f *fakeImportService) ImportDual(ctx context.Context, req importing.DualImportRequest) (importing.ImportResult, error) {
	return importing.ImportResult{}, errors.New("not used")
}

func (f *fakeImportService) ListImports(ctx context.Context, filter importing.ImportFilter) ([]importing.ImportResponse, error) {
	return nil, nil
}

const sampleCSV = "Nº AC.,Nombre,Tiempo,Estado\n7,\"Pérez, Ana\",3/1/2024 08:00,Entrada\n"

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScanInbox_MovesFilesByOutcome(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", sampleCSV)
	writeFile(t, dir, "a.csv", sampleCSV)
	writeFile(t, dir, "bad.csv", sampleCSV)
	writeFile(t, dir, "notes.txt", "ignored")

	svc := &fakeImportService{failOn: "bad.csv"}
	job := NewInboxJobs(svc, dir, "strict")

	require.NoError(t, job.ScanInbox(context.Background()))

	require.Len(t, svc.requests, 3)
	assert.Equal(t, "a.csv", svc.requests[0].FileName)
	assert.Equal(t, "strict", svc.requests[0].Mode)
	require.Len(t, svc.requests[0].Rows, 1)
	assert.Equal(t, "Pérez, Ana", svc.requests[0].Rows[0]["Nombre"])

	assert.FileExists(t, filepath.Join(dir, ProcessedDir, "a.csv"))
	assert.FileExists(t, filepath.Join(dir, ProcessedDir, "b.csv"))
	assert.FileExists(t, filepath.Join(dir, FailedDir, "bad.csv"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "a.csv"))
}

func TestScanInbox_UnreadableFileGoesToFailed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.xlsx", "not a workbook")

	svc := &fakeImportService{}
	job := NewInboxJobs(svc, dir, "tolerant")

	require.NoError(t, job.ScanInbox(context.Background()))

	assert.Empty(t, svc.requests)
	assert.FileExists(t, filepath.Join(dir, FailedDir, "broken.xlsx"))
}

func TestScanInbox_MissingDirectory(t *testing.T) {
	job := NewInboxJobs(&fakeImportService{}, filepath.Join(t.TempDir(), "missing"), "tolerant")
	assert.Error(t, job.ScanInbox(context.Background()))
}

func TestScheduler_RunOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", sampleCSV)

	svc := &fakeImportService{}
	s := NewScheduler(context.Background())
	NewInboxJobs(svc, dir, "tolerant").RegisterJobs(s, time.Hour)

	require.NoError(t, s.RunOnce(context.Background()))

	assert.Len(t, svc.requests, 1)
	assert.FileExists(t, filepath.Join(dir, ProcessedDir, "a.csv"))
}

func TestScheduler_RunOnceRecoversPanics(t *testing.T) {
	s := NewScheduler(context.Background())
	ran := false
	s.AddJob("panics", time.Hour, func(ctx context.Context) error { panic("bad") })
	s.AddJob("runs", time.Hour, func(ctx context.Context) error { ran = true; return nil })

	err := s.RunOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panics")
	assert.True(t, ran)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(context.Background())
	done := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
