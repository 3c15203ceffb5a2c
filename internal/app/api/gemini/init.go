package gemini

import (
	"context"
	"os"

	"whisper-batch/internal/app/api"
	"whisper-batch/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("gemini", createGeminiProvider)
}

func createGeminiProvider(settings provider.Settings) (api.Transcriber, error) {
	return NewTranscriber(context.Background(), Config{
		APIKey: settings.String("api_key", os.Getenv("GEMINI_API_KEY")),
		Model:  settings.String("model", ""),
		Prompt: settings.String("prompt", ""),
	})
}
