package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"whisper-batch/cmd/a2t/cmd/batch"
	"whisper-batch/cmd/a2t/cmd/export"
	"whisper-batch/cmd/a2t/cmd/fetch"
	"whisper-batch/cmd/a2t/cmd/serve"
	"whisper-batch/cmd/a2t/cmd/transcribe"
	"whisper-batch/cmd/a2t/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a2t",
	Short: "Batch audio to text with pluggable speech-to-text providers",
	Long: `Batch audio to text with pluggable speech-to-text providers.
- batch walks a directory and writes one transcript per file, one combined file, or both
- serve accepts single uploads over HTTP and answers with the transcript
- fetch mirrors results from a Drive folder or an S3 bucket
Configuration comes from the environment (.env is loaded when present) and flags.`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(batch.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(fetch.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
}
