package faster_whisper

import (
	"os"

	"whisper-batch/internal/app/api"
	"whisper-batch/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("faster_whisper", createFasterWhisperProvider)
}

func createFasterWhisperProvider(settings provider.Settings) (api.Transcriber, error) {
	python := os.Getenv("FASTER_WHISPER_PYTHON")
	if python == "" {
		python = "python3"
	}
	device, computeType := provider.ResolveDevice(
		settings.String("device", provider.DeviceAuto),
		settings.String("compute_type", ""),
	)
	return NewTranscriber(Config{
		Python:      settings.String("python", python),
		ModelSize:   settings.String("model_size", "small"),
		Device:      device,
		ComputeType: computeType,
		Language:    settings.String("language", ""),
		BeamSize:    settings.Int("beam_size", 1),
	}, provider.Logger())
}
