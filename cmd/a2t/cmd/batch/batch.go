package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-batch/cmd/a2t/cmd/setup"
	"whisper-batch/internal/app"
	appbatch "whisper-batch/internal/app/batch"
	apperrors "whisper-batch/internal/app/errors"
	"whisper-batch/internal/app/metrics"
	"whisper-batch/internal/app/model"
	"whisper-batch/internal/app/repository"
	"whisper-batch/internal/app/util/files"
	"whisper-batch/internal/config"
)

var (
	sourceDir   string
	outputDir   string
	saveMode    string
	progress    bool
	historyDSN  string
	metricsAddr string
	extensions  []string
	flags       setup.ProviderFlags
)

// Cmd transcribes every audio file under a directory.
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Transcribe every audio file under a directory",
	Long: `Walk the source directory recursively, transcribe each .m4a, .ogg, .wav, .mp3,
.flac and .aac file, and write one transcript per file (individual), a single
combined file (combined), or both. One bad file never stops the run.`,
	Example: `  a2t batch --source ./audio --output ./output --mode both
  a2t batch -s ./recordings -p openai --history sqlite://./output/history.db`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "directory to scan (overrides AUDIO_SOURCE_DIR)")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for transcripts (overrides OUTPUT_DIR)")
	Cmd.Flags().StringVarP(&saveMode, "mode", "m", "", "individual, combined or both (overrides SAVE_MODE)")
	Cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar even when stdout is not a terminal")
	Cmd.Flags().StringVar(&historyDSN, "history", "", "record outcomes to sqlite://path or postgres://... (overrides HISTORY_DB)")
	Cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the run lasts, e.g. :9102")
	Cmd.Flags().StringSliceVar(&extensions, "extensions", nil, "audio extensions to pick up instead of the defaults, e.g. wav,mp3")
	flags.Register(Cmd)
}

func run(cmd *cobra.Command, args []string) error {
	s := setup.LoadSettings(cmd)
	if cmd.Flags().Changed("source") {
		s.AudioSourceDir = sourceDir
	}
	if cmd.Flags().Changed("output") {
		s.OutputDir = outputDir
	}
	if cmd.Flags().Changed("mode") {
		s.SaveMode = saveMode
	}
	if cmd.Flags().Changed("history") {
		s.HistoryDB = historyDSN
	}
	flags.Apply(cmd, s)

	if err := s.Validate(); err != nil {
		return err
	}
	mode, err := s.Mode()
	if err != nil {
		return err
	}

	logger, err := setup.NewLogger(s, s.BatchLogFile())
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := setup.ProviderOptions(cmd, s)
	if err != nil {
		logger.Error("provider configuration rejected", zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	printBanner(out, s, mode, opts)

	extras := app.RunnerExtras{
		YieldDelay: s.YieldDelay,
		Extensions: files.NewExtensionSet(extensions...),
	}
	if s.HistoryDB != "" {
		dao, err := repository.OpenHistory(s.HistoryDB)
		if err != nil {
			logger.Warn("run history disabled", zap.Error(err))
		} else {
			defer dao.Close()
			extras.Recorder = dao
		}
	}
	if appbatch.ShouldShowProgress(progress) {
		extras.Progress = appbatch.NewProgressManager(appbatch.ProgressConfig{Enabled: true})
	}
	if metricsAddr != "" {
		collectors := metrics.New()
		extras.Metrics = collectors
		srv := &http.Server{Addr: metricsAddr, Handler: collectors.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	batchApp := app.InitializeBatchApp(opts, app.OutputDir(s.OutputDir), extras, logger)
	defer batchApp.Pipeline.Close()

	ctx, stop := setup.SignalContext()
	defer stop()

	summary, err := batchApp.Runner.RunDirectory(ctx, s.AudioSourceDir, mode)
	if err != nil {
		if errors.Is(err, apperrors.ErrDirectoryNotFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: source directory %s does not exist\n", s.AudioSourceDir)
			return err
		}
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "Batch processing interrupted.")
			printSummary(out, summary)
			return err
		}
		return err
	}

	fmt.Fprintln(out, "Batch processing completed!")
	printSummary(out, summary)
	return nil
}

func printBanner(w io.Writer, s *config.Settings, mode model.SaveMode, opts app.ProviderOptions) {
	fmt.Fprintln(w, "Starting batch audio file processing...")
	fmt.Fprintf(w, "Source directory: %s\n", s.AudioSourceDir)
	fmt.Fprintf(w, "Output directory: %s\n", s.OutputDir)
	fmt.Fprintf(w, "Save mode: %s\n", mode)
	fmt.Fprintf(w, "Provider: %s (model %s, device %s)\n",
		opts.Name, opts.Settings.String("model_size", s.ModelSize), opts.Settings.String("device", s.Device))
	if mode == model.SaveBoth {
		fmt.Fprintln(w, "Note: both mode transcribes every file once per output form.")
	}
}

func printSummary(w io.Writer, summary model.BatchRunSummary) {
	fmt.Fprintf(w, "  Run ID: %s\n", summary.RunID)
	fmt.Fprintf(w, "  Successfully processed: %d\n", summary.Succeeded)
	fmt.Fprintf(w, "  Failed: %d\n", summary.Failed)
	fmt.Fprintf(w, "  Total files: %d\n", summary.FilesFound)
	if summary.TotalFound != summary.FilesFound {
		fmt.Fprintf(w, "  Transcription attempts: %d\n", summary.TotalFound)
	}
	fmt.Fprintf(w, "  Elapsed: %.2fs (avg %.2fs per file)\n", summary.ElapsedSeconds(), summary.AveragePerFile().Seconds())

	if len(summary.FailuresByKind) > 0 {
		kinds := lo.Keys(summary.FailuresByKind)
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		parts := lo.Map(kinds, func(k apperrors.Kind, _ int) string {
			return fmt.Sprintf("%s=%d", k, summary.FailuresByKind[k])
		})
		fmt.Fprintf(w, "  Failures by kind: %v\n", parts)
	}
	if summary.CombinedPath != "" {
		fmt.Fprintf(w, "  Combined file: %s\n", summary.CombinedPath)
	}
}
