package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-batch/internal/config"
)

func newCommand(f *ProviderFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().String("log-level", "", "")
	f.Register(cmd)
	return cmd
}

func TestProviderFlags_Apply(t *testing.T) {
	for _, key := range []string{"PROVIDER", "MODEL_SIZE", "DEVICE", "COMPUTE_TYPE", "LANGUAGE", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	var f ProviderFlags
	cmd := newCommand(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--provider", "openai", "--model", "large-v3", "--log-level", "debug"}))

	s := LoadSettings(cmd)
	f.Apply(cmd, s)

	assert.Equal(t, "openai", s.Provider)
	assert.Equal(t, "large-v3", s.ModelSize)
	assert.Equal(t, config.DefaultDevice, s.Device, "unset flags leave settings alone")
	assert.Equal(t, "debug", s.LogLevel)
}

func TestProviderOptions(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PROVIDER", "")
	os.Unsetenv("PROVIDER")

	providersFile := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(providersFile, []byte(`
default_provider: lan
providers:
  lan:
    type: remote
    settings:
      url: http://10.0.0.5:8080/inference
`), 0o644))

	tests := []struct {
		name     string
		provider string
		file     string
		wantName string
		wantErr  bool
	}{
		{name: "unknown provider", provider: "nope", wantErr: true},
		{name: "cloud provider without key", provider: "openai", wantErr: true},
		{name: "file default", file: providersFile, wantName: "remote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f ProviderFlags
			cmd := newCommand(&f)
			args := []string{}
			if tt.provider != "" {
				args = append(args, "--provider", tt.provider)
			}
			require.NoError(t, cmd.ParseFlags(args))

			s := config.Load()
			s.ProvidersConfig = tt.file
			f.Apply(cmd, s)

			opts, err := ProviderOptions(cmd, s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, opts.Name)
			assert.Equal(t, "http://10.0.0.5:8080/inference", opts.Settings.String("url", ""))
		})
	}
}
