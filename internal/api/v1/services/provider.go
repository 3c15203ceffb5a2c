package services

import (
	"context"

	"whisper-batch/internal/api/v1/dto"
	"whisper-batch/internal/app/api/provider"
)

type providerService struct {
	pipeline Pipeline
}

// NewProviderService creates a provider service describing pipeline's provider.
func NewProviderService(pipeline Pipeline) ProviderService {
	return &providerService{pipeline: pipeline}
}

func (s *providerService) ListProviders(ctx context.Context) (*dto.ProvidersResponse, error) {
	return &dto.ProvidersResponse{
		Active:    s.pipeline.Describe(),
		Available: provider.Available(),
	}, nil
}
