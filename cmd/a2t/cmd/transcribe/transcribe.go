package transcribe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"whisper-batch/cmd/a2t/cmd/setup"
	"whisper-batch/internal/app"
	"whisper-batch/internal/app/model"
)

var (
	outputFile string
	flags      setup.ProviderFlags
)

// Cmd transcribes a single file and prints the text.
var Cmd = &cobra.Command{
	Use:   "transcribe <audio file>",
	Short: "Transcribe one audio file",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the transcript to this file instead of stdout")
	flags.Register(Cmd)
}

func run(cmd *cobra.Command, args []string) error {
	s := setup.LoadSettings(cmd)
	flags.Apply(cmd, s)
	if err := s.Validate(); err != nil {
		return err
	}

	logger, err := setup.NewLogger(s, s.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := setup.ProviderOptions(cmd, s)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	pipeline := app.InitializePipeline(opts, logger)
	defer pipeline.Close()

	ctx, stop := setup.SignalContext()
	defer stop()

	ref := model.NewAudioFileRef(filepath.Dir(path), path)
	result := pipeline.Transcribe(ctx, ref)
	if !result.Ok() {
		return result.Err()
	}

	if outputFile == "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		return nil
	}
	return os.WriteFile(outputFile, []byte(result.Text+"\n"), 0o644)
}
