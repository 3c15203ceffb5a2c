package whisper_cpp

import (
	"fmt"
	"os"

	"whisper-batch/internal/app/api"
	"whisper-batch/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("whisper_cpp", createWhisperCppProvider)
}

// createWhisperCppProvider creates a whisper.cpp provider from settings, falling back to env.
func createWhisperCppProvider(settings provider.Settings) (api.Transcriber, error) {
	cfg := Config{
		BinaryPath: settings.String("binary_path", os.Getenv("WHISPER_CPP_BINARY")),
		ModelPath:  settings.String("model_path", os.Getenv("WHISPER_CPP_MODEL")),
		Language:   settings.String("language", ""),
		Prompt:     settings.String("prompt", ""),
		Threads:    settings.Int("threads", 0),
		TempDir:    settings.String("temp_dir", ""),
	}

	if cfg.BinaryPath == "" {
		return nil, fmt.Errorf("whisper_cpp provider requires 'binary_path' setting or WHISPER_CPP_BINARY")
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("whisper_cpp provider requires 'model_path' setting or WHISPER_CPP_MODEL")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("whisper_cpp model not found: %w", err)
	}

	return NewLocalTranscriber(cfg, provider.Logger()), nil
}
