package config

import (
	"path/filepath"
	"time"

	"whisper-batch/internal/app/api/provider"
	"whisper-batch/internal/app/model"
)

// Defaults used when a variable is absent or malformed.
const (
	DefaultAudioSourceDir   = "./audio"
	DefaultOutputDir        = "./output"
	DefaultSaveMode         = "individual"
	DefaultProvider         = "faster_whisper"
	DefaultModelSize        = "small"
	DefaultDevice           = "auto"
	DefaultYieldDelay       = 100 * time.Millisecond
	DefaultLogLevel         = "info"
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 8338
	DefaultUploadFolder     = "uploads"
	DefaultMaxContentLength = 16 * 1024 * 1024
	DefaultSegmentName      = "segment"
	DefaultEnvironment      = "development"

	// BatchLogFileName is the log file written next to batch outputs.
	BatchLogFileName = "batch_processing.log"
)

// Settings is the whole runtime configuration.
type Settings struct {
	AudioSourceDir  string        `validate:"required"`
	OutputDir       string        `validate:"required"`
	SaveMode        string        `validate:"required,oneof=individual combined both"`
	Provider        string        `validate:"required"`
	ModelSize       string        `validate:"required,oneof=tiny base small medium large large-v1 large-v2 large-v3"`
	Device          string        `validate:"required,oneof=auto cpu cuda"`
	ComputeType     string        `validate:"omitempty,oneof=auto int8 int8_float16 int8_float32 float16 float32"`
	Language        string        `validate:"omitempty,max=16"`
	YieldDelay      time.Duration `validate:"gte=0"`
	LogLevel        string
	LogFile         string
	ProvidersConfig string
	HistoryDB       string `validate:"omitempty,startswith=sqlite://|startswith=postgres://|startswith=postgresql://"`

	Server Server

	// explicit records settings given by env or flags, which win over the providers file.
	explicit map[string]bool
	// Warnings lists variables that were malformed and fell back to defaults.
	Warnings []string
}

// Server configures the upload service.
type Server struct {
	Host                string `validate:"required"`
	Port                int    `validate:"min=1,max=65535"`
	UploadFolder        string `validate:"required"`
	MaxContentLength    int64  `validate:"gt=0"`
	SegmentName         string `validate:"required"`
	CheckAuthorization  bool
	AuthURL             string `validate:"omitempty,url"`
	AuthJWTSecret       string
	TranscriptionOutLog bool
	CertPath            string
	KeyPath             string
	Environment         string `validate:"omitempty,oneof=development production test"`
}

// Load builds Settings from built-in defaults overridden by environment variables.
func Load() *Settings {
	e := newEnv()
	s := &Settings{
		AudioSourceDir:  e.str("AUDIO_SOURCE_DIR", DefaultAudioSourceDir),
		OutputDir:       e.str("OUTPUT_DIR", DefaultOutputDir),
		SaveMode:        e.str("SAVE_MODE", DefaultSaveMode),
		Provider:        e.str("PROVIDER", DefaultProvider),
		ModelSize:       e.str("MODEL_SIZE", DefaultModelSize),
		Device:          e.str("DEVICE", DefaultDevice),
		ComputeType:     e.str("COMPUTE_TYPE", ""),
		Language:        e.str("LANGUAGE", ""),
		YieldDelay:      e.millis("YIELD_DELAY_MS", DefaultYieldDelay),
		LogLevel:        e.str("LOG_LEVEL", DefaultLogLevel),
		LogFile:         e.str("LOG_FILE", ""),
		ProvidersConfig: e.str("PROVIDERS_CONFIG", ""),
		HistoryDB:       e.str("HISTORY_DB", ""),
		Server: Server{
			Host:                e.str("HOST", DefaultHost),
			Port:                e.integer("PORT", DefaultPort),
			UploadFolder:        e.str("UPLOAD_FOLDER", DefaultUploadFolder),
			MaxContentLength:    e.int64("MAX_CONTENT_LENGTH", DefaultMaxContentLength),
			SegmentName:         e.str("SEGMENT_NAME", DefaultSegmentName),
			CheckAuthorization:  e.flag("CHECK_AUTHORIZATION", false),
			AuthURL:             e.str("AUTH_URL", ""),
			AuthJWTSecret:       e.str("AUTH_JWT_SECRET", ""),
			TranscriptionOutLog: e.flag("TRANSCRIPTION_OUT_LOG", false),
			CertPath:            e.str("CERT_PATH", ""),
			KeyPath:             e.str("KEY_PATH", ""),
			Environment:         e.str("ENVIRONMENT", DefaultEnvironment),
		},
		explicit: map[string]bool{
			"model_size":   e.set["MODEL_SIZE"],
			"device":       e.set["DEVICE"],
			"compute_type": e.set["COMPUTE_TYPE"],
			"language":     e.set["LANGUAGE"],
		},
		Warnings: e.warnings,
	}
	return s
}

// Override sets a provider-facing value from a command-line flag.
// Keys: model_size, device, compute_type, language.
func (s *Settings) Override(key, value string) {
	switch key {
	case "model_size":
		s.ModelSize = value
	case "device":
		s.Device = value
	case "compute_type":
		s.ComputeType = value
	case "language":
		s.Language = value
	default:
		return
	}
	if s.explicit == nil {
		s.explicit = make(map[string]bool)
	}
	s.explicit[key] = true
}

// Mode parses SaveMode.
func (s *Settings) Mode() (model.SaveMode, error) {
	return model.ParseSaveMode(s.SaveMode)
}

// BatchLogFile is LOG_FILE, or batch_processing.log in the output directory.
func (s *Settings) BatchLogFile() string {
	if s.LogFile != "" {
		return s.LogFile
	}
	return filepath.Join(s.OutputDir, BatchLogFileName)
}

// ProviderSettings resolves the configured provider to a registry name and its settings.
// The providers file supplies provider-specific values; env and flags win over it,
// and defaults fill whatever neither sets.
func (s *Settings) ProviderSettings(file *provider.FileConfig) (string, provider.Settings) {
	name := s.Provider
	typ, fromFile := file.Resolve(name)

	defaults := provider.Settings{
		"model_size":   s.ModelSize,
		"device":       s.Device,
		"compute_type": s.ComputeType,
		"language":     s.Language,
	}
	explicit := provider.Settings{}
	for key, value := range defaults {
		if s.explicit[key] {
			explicit[key] = value
		}
	}
	return typ, defaults.Merge(fromFile).Merge(explicit)
}

// TLSEnabled reports whether both certificate files are configured and present.
func (s Server) TLSEnabled() bool {
	return s.CertPath != "" && s.KeyPath != "" && fileExists(s.CertPath) && fileExists(s.KeyPath)
}
