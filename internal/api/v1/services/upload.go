package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"whisper-batch/internal/api/errors"
	"whisper-batch/internal/api/v1/dto"
	"whisper-batch/internal/app/util/files"
)

// DefaultSegment is used when the form has no segment field.
const DefaultSegment = "unknown"

// UploadConfig controls where uploads are written and how they are named.
type UploadConfig struct {
	UploadFolder string
	SegmentName  string
	// LogTranscriptions logs the client id, file name and text of every upload.
	LogTranscriptions bool
}

type uploadService struct {
	pipeline Pipeline
	cfg      UploadConfig
	logger   *zap.Logger
	// providers are not safe for concurrent use
	mu sync.Mutex
}

// NewUploadService creates the upload service.
func NewUploadService(pipeline Pipeline, cfg UploadConfig, logger *zap.Logger) UploadService {
	if cfg.UploadFolder == "" {
		cfg.UploadFolder = "uploads"
	}
	if cfg.SegmentName == "" {
		cfg.SegmentName = "segment"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &uploadService{pipeline: pipeline, cfg: cfg, logger: logger}
}

// GenerateFilename builds {clientId}_{segmentName}_{segment}.wav with unsafe characters replaced.
func GenerateFilename(clientID, segmentName, segment string) string {
	return fmt.Sprintf("%s_%s_%s.wav",
		files.SanitizeFileComponent(clientID),
		files.SanitizeFileComponent(segmentName),
		files.SanitizeFileComponent(segment))
}

func (s *uploadService) Transcribe(ctx context.Context, req UploadRequest) (*dto.UploadResponse, error) {
	segment := req.Segment
	if segment == "" {
		segment = DefaultSegment
	}
	filename := GenerateFilename(req.ClientID, s.cfg.SegmentName, segment)
	path := filepath.Join(s.cfg.UploadFolder, filename)

	// held across save, transcribe and remove: two uploads of the same segment share a path
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(path, req.Body); err != nil {
		s.logger.Error("failed to save upload", zap.String("path", path), zap.Error(err))
		return nil, errors.NewInternalErrorWithReason("Failed to save uploaded file", err.Error())
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove upload", zap.String("path", path), zap.Error(err))
		}
	}()

	result := s.pipeline.TranscribeFile(ctx, path)

	if s.cfg.LogTranscriptions {
		s.logger.Info("upload transcribed",
			zap.String("client_id", req.ClientID),
			zap.String("file", filename),
			zap.String("transcription", result.Text))
	}

	if !result.Ok() {
		s.logger.Warn("upload transcription failed",
			zap.String("file", filename),
			zap.String("kind", string(result.Kind)),
			zap.String("detail", result.Detail))
		return nil, errors.NewInternalErrorWithReason("Failed to transcribe audio", result.Detail)
	}

	return &dto.UploadResponse{
		Message:       fmt.Sprintf("File %s uploaded and transcribed successfully", filename),
		Transcription: result.Text,
	}, nil
}

func (s *uploadService) save(path string, body io.Reader) error {
	if err := files.EnsureDir(s.cfg.UploadFolder); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}
