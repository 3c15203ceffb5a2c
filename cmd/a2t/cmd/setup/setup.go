package setup

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-batch/internal/app"
	"whisper-batch/internal/app/api/provider"
	"whisper-batch/internal/app/logging"
	"whisper-batch/internal/config"
)

// ProviderFlags are the provider-facing flags shared by batch, transcribe and serve.
type ProviderFlags struct {
	Provider    string
	ModelSize   string
	Device      string
	ComputeType string
	Language    string
}

// Register adds the provider flags to cmd.
func (f *ProviderFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Provider, "provider", "p", "", "provider name or providers file entry (overrides PROVIDER)")
	cmd.Flags().StringVar(&f.ModelSize, "model", "", "model size: tiny, base, small, medium, large-v3 (overrides MODEL_SIZE)")
	cmd.Flags().StringVar(&f.Device, "device", "", "auto, cpu or cuda (overrides DEVICE)")
	cmd.Flags().StringVar(&f.ComputeType, "compute-type", "", "int8, float16, float32 ... (overrides COMPUTE_TYPE)")
	cmd.Flags().StringVar(&f.Language, "language", "", "language code, empty for auto-detect (overrides LANGUAGE)")
}

// Apply copies the flags that were given onto s.
func (f *ProviderFlags) Apply(cmd *cobra.Command, s *config.Settings) {
	if cmd.Flags().Changed("provider") {
		s.Provider = f.Provider
	}
	overrides := []struct{ flag, key, value string }{
		{"model", "model_size", f.ModelSize},
		{"device", "device", f.Device},
		{"compute-type", "compute_type", f.ComputeType},
		{"language", "language", f.Language},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			s.Override(o.key, o.value)
		}
	}
}

// LoadSettings reads the environment and applies the --log-level flag.
func LoadSettings(cmd *cobra.Command) *config.Settings {
	s := config.Load()
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		s.LogLevel = level
	}
	return s
}

// NewLogger builds the process logger, hands it to the providers and reports
// malformed configuration values.
func NewLogger(s *config.Settings, file string) (*zap.Logger, error) {
	logger, err := logging.NewLogger(logging.Options{Level: s.LogLevel, File: file})
	if err != nil {
		return nil, err
	}
	provider.SetLogger(logger)
	for _, w := range s.Warnings {
		logger.Warn("configuration value ignored", zap.String("warning", w))
	}
	return logger, nil
}

// ProviderOptions resolves the configured provider against the optional providers
// file and fails fast when a cloud provider has no key. The file's default provider
// applies only when neither PROVIDER nor --provider chose one.
func ProviderOptions(cmd *cobra.Command, s *config.Settings) (app.ProviderOptions, error) {
	var file *provider.FileConfig
	if s.ProvidersConfig != "" {
		loaded, err := provider.LoadConfig(s.ProvidersConfig)
		if err != nil {
			return app.ProviderOptions{}, err
		}
		file = loaded
		_, fromEnv := os.LookupEnv("PROVIDER")
		if !cmd.Flags().Changed("provider") && !fromEnv && file.DefaultProvider != "" {
			s.Provider = file.DefaultProvider
		}
	}

	name, settings := s.ProviderSettings(file)
	if _, err := provider.GetFactory(name); err != nil {
		return app.ProviderOptions{}, err
	}
	if err := config.CheckProviderCredentials(name, settings); err != nil {
		return app.ProviderOptions{}, fmt.Errorf("provider %s: %w", name, err)
	}
	return app.ProviderOptions{Name: name, Settings: settings}, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
