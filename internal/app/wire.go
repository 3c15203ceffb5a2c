//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	v1services "whisper-batch/internal/api/v1/services"
	"whisper-batch/internal/app/api"
)

func InitializePipeline(opts ProviderOptions, logger *zap.Logger) *api.Pipeline {
	wire.Build(PipelineSet)
	return &api.Pipeline{}
}

func InitializeBatchApp(opts ProviderOptions, dir OutputDir, extras RunnerExtras, logger *zap.Logger) *BatchApp {
	wire.Build(BatchSet)
	return &BatchApp{}
}

func InitializeServeApp(opts ProviderOptions, cfg v1services.UploadConfig, logger *zap.Logger) *ServeApp {
	wire.Build(ServeSet)
	return &ServeApp{}
}
