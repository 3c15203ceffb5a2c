package google_speech

import (
	"context"
	"os"

	"whisper-batch/internal/app/api"
	"whisper-batch/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("google_speech", createGoogleSpeechProvider)
}

func createGoogleSpeechProvider(settings provider.Settings) (api.Transcriber, error) {
	return NewTranscriber(context.Background(), Config{
		LanguageCode:    settings.String("language", ""),
		Model:           settings.String("model", ""),
		Punctuation:     settings.Bool("punctuation", true),
		CredentialsFile: settings.String("credentials_file", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	})
}
