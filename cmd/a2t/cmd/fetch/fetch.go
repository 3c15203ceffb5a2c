package fetch

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-batch/cmd/a2t/cmd/setup"
	"whisper-batch/internal/app/fetcher"
)

var (
	driveFolder    string
	serviceAccount string
	bucket         string
	prefix         string
	endpoint       string
	useSSL         bool
	expected       int
	interval       time.Duration
	outputDir      string
)

// Cmd mirrors transcripts (or any files) from Google Drive or an S3 bucket.
var Cmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download results from a Google Drive folder or an S3-compatible bucket",
	Long: `Poll a remote folder until the expected number of files is ready, then download
them into the output directory. Without --expected a single pass downloads whatever
is present. Drive credentials come from a service account JSON file; bucket
credentials from MINIO_ACCESS_KEY and MINIO_SECRET_KEY.`,
	Example: `  a2t fetch --drive-folder 1AbC... --expected 12 --output ./results
  a2t fetch --bucket transcripts --prefix run-42/ --endpoint minio.local:9000`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&driveFolder, "drive-folder", "", "Drive folder id (defaults to GOOGLE_DRIVE_OUTPUT_FOLDER_ID)")
	Cmd.Flags().StringVar(&serviceAccount, "service-account", "", "service account JSON (defaults to GOOGLE_APPLICATION_CREDENTIALS, then service_account.json)")
	Cmd.Flags().StringVar(&bucket, "bucket", "", "bucket name; selects the S3 source")
	Cmd.Flags().StringVar(&prefix, "prefix", "", "object prefix inside the bucket")
	Cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3 endpoint host:port (defaults to MINIO_ENDPOINT)")
	Cmd.Flags().BoolVar(&useSSL, "ssl", false, "use HTTPS for the S3 endpoint")
	Cmd.Flags().IntVar(&expected, "expected", 0, "number of ready files to wait for")
	Cmd.Flags().DurationVar(&interval, "interval", fetcher.DefaultInterval, "poll interval while waiting")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "", "download directory (defaults to OUTPUT_DIR)")
}

func run(cmd *cobra.Command, args []string) error {
	s := setup.LoadSettings(cmd)
	if outputDir == "" {
		outputDir = s.OutputDir
	}

	logger, err := setup.NewLogger(s, s.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := setup.SignalContext()
	defer stop()

	var source fetcher.Source
	switch {
	case bucket != "":
		source, err = fetcher.NewMinioSource(fetcher.MinioConfig{
			Endpoint:  firstNonEmpty(endpoint, os.Getenv("MINIO_ENDPOINT")),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    bucket,
			Prefix:    prefix,
			UseSSL:    useSSL,
		})
	default:
		folder := firstNonEmpty(driveFolder, os.Getenv("GOOGLE_DRIVE_OUTPUT_FOLDER_ID"))
		if folder == "" {
			return fmt.Errorf("either --drive-folder (or GOOGLE_DRIVE_OUTPUT_FOLDER_ID) or --bucket is required")
		}
		credentials := firstNonEmpty(serviceAccount, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"), "service_account.json")
		source, err = fetcher.NewDriveSource(ctx, folder, credentials)
	}
	if err != nil {
		return err
	}

	f := fetcher.New(source, fetcher.Config{OutputDir: outputDir, Expected: expected, Interval: interval}, logger)
	result, err := f.Run(ctx)
	if err != nil {
		logger.Error("fetch failed", zap.String("source", source.Describe()), zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Downloaded %d files from %s into %s\n", len(result.Downloaded), source.Describe(), outputDir)
	if result.Failed > 0 {
		fmt.Fprintf(out, "  Failed downloads: %d\n", result.Failed)
	}
	if !result.ReadyAt.IsZero() {
		fmt.Fprintf(out, "  Waited for files: %s\n", result.ReadyAt.Sub(result.Started).Round(time.Second))
	}
	fmt.Fprintf(out, "  Total time: %s\n", result.Elapsed().Round(time.Millisecond))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
