package main

import (
	"fmt"
	"os"

	"whisper-batch/cmd/a2t/cmd"
	"whisper-batch/internal/config"
)

func main() {
	// a missing env file is fine; a malformed one is reported and ignored
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}
