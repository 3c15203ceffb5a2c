package serve

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-batch/cmd/a2t/cmd/setup"
	"whisper-batch/internal/api/auth"
	"whisper-batch/internal/api/server"
	"whisper-batch/internal/api/v1/routes"
	"whisper-batch/internal/api/v1/services"
	"whisper-batch/internal/app"
	"whisper-batch/internal/app/metrics"
	"whisper-batch/internal/config"
)

const shutdownTimeout = 30 * time.Second

var (
	host  string
	port  int
	flags setup.ProviderFlags
)

// Cmd runs the upload service.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept audio uploads over HTTP and answer with the transcript",
	Long: `Serve POST /upload (also mounted at /api/v1/upload). The multipart field "file"
carries the audio; the optional "segment" field is folded into the saved name.
When CHECK_AUTHORIZATION is on, the Authorization header is verified against
AUTH_URL, or locally as an HS256 JWT when AUTH_JWT_SECRET is set.
TLS is used when CERT_PATH and KEY_PATH both exist.`,
	Example: `  a2t serve --port 8338
  CHECK_AUTHORIZATION=true AUTH_URL=https://auth.example.com/verify a2t serve`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen address (overrides HOST)")
	Cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")
	flags.Register(Cmd)
}

func run(cmd *cobra.Command, args []string) error {
	s := setup.LoadSettings(cmd)
	if cmd.Flags().Changed("host") {
		s.Server.Host = host
	}
	if cmd.Flags().Changed("port") {
		s.Server.Port = port
	}
	flags.Apply(cmd, s)
	if err := s.Validate(); err != nil {
		return err
	}

	logger, err := setup.NewLogger(s, s.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := setup.ProviderOptions(cmd, s)
	if err != nil {
		logger.Error("provider configuration rejected", zap.Error(err))
		return err
	}

	serveApp := app.InitializeServeApp(opts, services.UploadConfig{
		UploadFolder:      s.Server.UploadFolder,
		SegmentName:       s.Server.SegmentName,
		LogTranscriptions: s.Server.TranscriptionOutLog,
	}, logger)
	defer serveApp.Pipeline.Close()

	collectors := metrics.New()
	container := &routes.ServiceContainer{
		UploadService:    serveApp.Uploads,
		ProviderService:  serveApp.Providers,
		Verifier:         verifier(s, logger),
		Observer:         collectors,
		MaxContentLength: s.Server.MaxContentLength,
		Logger:           logger,
	}

	srvCfg := server.Config{
		Host:        s.Server.Host,
		Port:        s.Server.Port,
		ReadTimeout: 60 * time.Second,
		// transcription of a long upload can take minutes
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
		Environment:  s.Server.Environment,
	}
	if s.Server.TLSEnabled() {
		srvCfg.CertPath = s.Server.CertPath
		srvCfg.KeyPath = s.Server.KeyPath
	} else if s.Server.CertPath != "" || s.Server.KeyPath != "" {
		logger.Warn("certificate files not found, serving plain HTTP",
			zap.String("cert_path", s.Server.CertPath),
			zap.String("key_path", s.Server.KeyPath))
	}

	srv := server.NewServer(srvCfg, container, collectors.Handler(), logger)
	srv.Start()

	ctx, stop := setup.SignalContext()
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-srv.Errors():
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// verifier is nil when authorization is off.
func verifier(s *config.Settings, logger *zap.Logger) auth.Verifier {
	if !s.Server.CheckAuthorization {
		return nil
	}
	if s.Server.AuthJWTSecret != "" {
		logger.Info("verifying uploads with local JWT secret")
		return auth.NewJWTVerifier(s.Server.AuthJWTSecret)
	}
	logger.Info("verifying uploads against authorization server", zap.String("auth_url", s.Server.AuthURL))
	return auth.NewRemoteVerifier(s.Server.AuthURL, nil)
}
