package whisper

import (
	"os"

	"whisper-batch/internal/app/api"
	openaiclient "whisper-batch/internal/app/api/openai"
	"whisper-batch/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("openai", createOpenAIProvider)
}

// createOpenAIProvider creates an OpenAI Whisper provider from settings, falling back to env.
func createOpenAIProvider(settings provider.Settings) (api.Transcriber, error) {
	client, err := openaiclient.NewClient(
		settings.String("api_key", os.Getenv("OPENAI_API_KEY")),
		settings.String("base_url", ""),
	)
	if err != nil {
		return nil, err
	}

	return NewRemoteTranscriber(client, Config{
		Model:       settings.String("model", ""),
		Language:    settings.String("language", ""),
		Prompt:      settings.String("prompt", ""),
		Temperature: float32(settings.Float("temperature", 0)),
	}), nil
}
