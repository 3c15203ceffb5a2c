package remote

import (
	"fmt"
	"os"
	"time"

	"whisper-batch/internal/app/api"
	"whisper-batch/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("remote", createRemoteProvider)
}

func createRemoteProvider(settings provider.Settings) (api.Transcriber, error) {
	url := settings.String("url", os.Getenv("REMOTE_URL"))
	if url == "" {
		return nil, fmt.Errorf("remote provider requires 'url' setting or REMOTE_URL")
	}
	return NewProvider(Config{
		URL:     url,
		Token:   settings.String("token", os.Getenv("REMOTE_TOKEN")),
		Segment: settings.String("segment", ""),
		Timeout: time.Duration(settings.Int("timeout_sec", 0)) * time.Second,
	}), nil
}
