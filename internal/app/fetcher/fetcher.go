package fetcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"whisper-batch/internal/app/util/files"
)

// DefaultInterval is the poll period between listings.
const DefaultInterval = 30 * time.Second

// workspaceMimePrefix marks Drive-native documents, which have no downloadable bytes.
const workspaceMimePrefix = "application/vnd.google-apps."

// RemoteFile is one entry of a remote folder or bucket.
type RemoteFile struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	ModifiedTime time.Time
}

// Source lists and downloads files from a remote location.
type Source interface {
	Describe() string
	List(ctx context.Context) ([]RemoteFile, error)
	Download(ctx context.Context, file RemoteFile, dst string) error
}

// Config controls a fetch.
type Config struct {
	OutputDir string
	// Expected is the number of ready files to wait for. Zero means one pass over whatever is present.
	Expected int
	Interval time.Duration
}

// Result reports what a fetch did.
type Result struct {
	Started    time.Time
	ReadyAt    time.Time
	Finished   time.Time
	Downloaded []string
	Failed     int
}

// Elapsed is the total wall-clock time of the fetch.
func (r Result) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Fetcher polls a Source and mirrors its files into a local directory.
type Fetcher struct {
	source Source
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a fetcher. A zero interval uses DefaultInterval.
func New(source Source, cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{source: source, cfg: cfg, logger: logger, now: time.Now, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run waits until Expected files are ready, then downloads every file not yet downloaded
// until Expected downloads are done. Files are matched by name.
func (f *Fetcher) Run(ctx context.Context) (Result, error) {
	res := Result{Started: f.now()}
	log := f.logger.With(zap.String("source", f.source.Describe()), zap.String("output", f.cfg.OutputDir))
	log.Info("fetch started", zap.Time("start", res.Started), zap.Int("expected", f.cfg.Expected))

	if err := files.EnsureDir(f.cfg.OutputDir); err != nil {
		return res, err
	}

	if f.cfg.Expected > 0 {
		if err := f.waitReady(ctx, log); err != nil {
			res.Finished = f.now()
			return res, err
		}
		res.ReadyAt = f.now()
		log.Info("all expected files are present",
			zap.Time("ready_at", res.ReadyAt),
			zap.Duration("waited", res.ReadyAt.Sub(res.Started)))
	}

	downloaded := make(map[string]bool)
	for {
		listed, err := f.source.List(ctx)
		if err != nil {
			res.Finished = f.now()
			return res, fmt.Errorf("list %s: %w", f.source.Describe(), err)
		}

		fresh := lo.Filter(ready(listed), func(rf RemoteFile, _ int) bool { return !downloaded[rf.Name] })
		if len(fresh) == 0 {
			log.Info("waiting for new files", zap.Int("downloaded", len(downloaded)))
		}
		for _, rf := range fresh {
			dst := filepath.Join(f.cfg.OutputDir, files.SanitizeFileComponent(rf.Name))
			if err := f.source.Download(ctx, rf, dst); err != nil {
				if ctx.Err() != nil {
					res.Finished = f.now()
					return res, ctx.Err()
				}
				res.Failed++
				log.Warn("download failed, will retry", zap.String("file", rf.Name), zap.Error(err))
				continue
			}
			downloaded[rf.Name] = true
			res.Downloaded = append(res.Downloaded, dst)
			log.Info("downloaded", zap.String("file", rf.Name), zap.String("path", dst))
		}

		if f.cfg.Expected <= 0 || len(downloaded) >= f.cfg.Expected {
			break
		}
		if err := f.sleep(ctx, f.cfg.Interval); err != nil {
			res.Finished = f.now()
			return res, err
		}
	}

	res.Finished = f.now()
	log.Info("fetch finished",
		zap.Time("end", res.Finished),
		zap.Duration("elapsed", res.Elapsed()),
		zap.Int("downloaded", len(res.Downloaded)),
		zap.Int("failed", res.Failed))
	return res, nil
}

func (f *Fetcher) waitReady(ctx context.Context, log *zap.Logger) error {
	for {
		listed, err := f.source.List(ctx)
		if err != nil {
			return fmt.Errorf("list %s: %w", f.source.Describe(), err)
		}
		n := len(ready(listed))
		if n >= f.cfg.Expected {
			return nil
		}
		log.Info("waiting for files", zap.Int("present", n), zap.Int("expected", f.cfg.Expected))
		if err := f.sleep(ctx, f.cfg.Interval); err != nil {
			return err
		}
	}
}

func ready(listed []RemoteFile) []RemoteFile {
	return lo.Filter(listed, func(rf RemoteFile, _ int) bool {
		return !strings.HasPrefix(rf.MimeType, workspaceMimePrefix)
	})
}
