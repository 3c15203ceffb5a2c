package fetcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves listings in order; the last listing repeats.
type fakeSource struct {
	mu        sync.Mutex
	listings  [][]RemoteFile
	calls     int
	failOnce  map[string]bool
	downloads []string
}

func (s *fakeSource) Describe() string { return "fake" }

func (s *fakeSource) List(ctx context.Context) ([]RemoteFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.listings) {
		i = len(s.listings) - 1
	}
	s.calls++
	return s.listings[i], nil
}

func (s *fakeSource) Download(ctx context.Context, file RemoteFile, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOnce[file.Name] {
		delete(s.failOnce, file.Name)
		return errors.New("connection reset")
	}
	s.downloads = append(s.downloads, file.Name)
	return os.WriteFile(dst, []byte("content of "+file.Name), 0644)
}

func txt(name string) RemoteFile {
	return RemoteFile{ID: name, Name: name, MimeType: "text/plain"}
}

func newTestFetcher(src Source, cfg Config) (*Fetcher, *int) {
	f := New(src, cfg, nil)
	sleeps := 0
	f.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return ctx.Err()
	}
	return f, &sleeps
}

func TestFetcher_SinglePass(t *testing.T) {
	out := t.TempDir()
	src := &fakeSource{listings: [][]RemoteFile{{
		txt("a.txt"),
		txt("b.txt"),
		{ID: "doc", Name: "notes", MimeType: "application/vnd.google-apps.document"},
	}}}
	f, sleeps := newTestFetcher(src, Config{OutputDir: out})

	res, err := f.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Downloaded, 2)
	assert.Equal(t, []string{"a.txt", "b.txt"}, src.downloads)
	assert.Zero(t, *sleeps)
	assert.Equal(t, 1, src.calls)
	assert.FileExists(t, filepath.Join(out, "a.txt"))
	assert.NoFileExists(t, filepath.Join(out, "notes"))
}

func TestFetcher_WaitsForExpected(t *testing.T) {
	out := t.TempDir()
	src := &fakeSource{listings: [][]RemoteFile{
		{txt("a.txt")},
		{txt("a.txt"), {ID: "doc", Name: "draft", MimeType: "application/vnd.google-apps.document"}},
		{txt("a.txt"), txt("b.txt"), txt("c.txt")},
	}}
	f, sleeps := newTestFetcher(src, Config{OutputDir: out, Expected: 3, Interval: time.Millisecond})

	res, err := f.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Downloaded, 3)
	assert.Equal(t, 2, *sleeps, "two waits before three files are ready")
	assert.False(t, res.ReadyAt.IsZero())
	assert.False(t, res.ReadyAt.Before(res.Started))
}

func TestFetcher_RetriesFailedDownload(t *testing.T) {
	out := t.TempDir()
	src := &fakeSource{
		listings: [][]RemoteFile{{txt("a.txt"), txt("b.txt")}},
		failOnce: map[string]bool{"b.txt": true},
	}
	f, sleeps := newTestFetcher(src, Config{OutputDir: out, Expected: 2})

	res, err := f.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	assert.Len(t, res.Downloaded, 2)
	assert.Equal(t, []string{"a.txt", "b.txt"}, src.downloads, "a.txt is not downloaded twice")
	assert.Equal(t, 1, *sleeps)
}

func TestFetcher_CancelWhileWaiting(t *testing.T) {
	src := &fakeSource{listings: [][]RemoteFile{{txt("a.txt")}}}
	f := New(src, Config{OutputDir: t.TempDir(), Expected: 5, Interval: time.Hour}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := f.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		prefix, key, want string
	}{
		{prefix: "", key: "a.txt", want: "a.txt"},
		{prefix: "results/", key: "results/a.txt", want: "a.txt"},
		{prefix: "results", key: "results/day1/a.txt", want: "day1_a.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, objectName(tt.prefix, tt.key))
		})
	}
}
