package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apperrors "whisper-batch/internal/app/errors"
	"whisper-batch/internal/app/model"
	"whisper-batch/internal/app/util/files"
)

const (
	dateLayout  = "2006-01-02 15:04:05"
	stampLayout = "20060102_150405"
)

var (
	individualRule = strings.Repeat("=", 50)
	combinedRule   = strings.Repeat("=", 80)
)

// ResultWriter persists successful transcripts.
type ResultWriter interface {
	WriteIndividual(result model.TranscriptionResult) (string, error)
	BeginCombined(sourceDir string, total int) (string, error)
	AppendCombined(result model.TranscriptionResult) (string, error)
	FinishCombined(summary model.BatchRunSummary) error
}

// FileWriter writes transcripts as UTF-8 text files under one output directory.
// The combined file is reopened in append mode for every section, so a crash
// keeps every section written so far. It is not locked against other processes.
type FileWriter struct {
	outputDir string
	now       func() time.Time

	mu           sync.Mutex
	combinedPath string
	combinedSeen map[string]bool
}

// NewFileWriter creates a writer for outputDir.
func NewFileWriter(outputDir string) *FileWriter {
	return &FileWriter{
		outputDir:    outputDir,
		now:          time.Now,
		combinedSeen: make(map[string]bool),
	}
}

// OutputDir returns the directory transcripts are written to.
func (w *FileWriter) OutputDir() string {
	return w.outputDir
}

// IndividualPath returns the output path for ref.
func (w *FileWriter) IndividualPath(ref model.AudioFileRef) string {
	return filepath.Join(w.outputDir, files.DeriveOutputName(ref.RelPath)+"_transcription.txt")
}

// WriteIndividual writes a fresh file for the result, replacing any previous one.
func (w *FileWriter) WriteIndividual(result model.TranscriptionResult) (string, error) {
	if err := files.EnsureDir(w.outputDir); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrWriteFailed, "create output dir: %v", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s\n", result.Source.Path)
	fmt.Fprintf(&sb, "Processing date: %s\n", w.now().Format(dateLayout))
	if result.Provider != "" {
		fmt.Fprintf(&sb, "Provider: %s\n", result.Provider)
	}
	sb.WriteString(individualRule + "\n\n")
	sb.WriteString(result.Text)

	path := w.IndividualPath(result.Source)
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrWriteFailed, "%s: %v", path, err)
	}
	return path, nil
}

// BeginCombined creates (or truncates) this run's combined file and writes its header.
// Two runs starting in the same second get distinct files.
func (w *FileWriter) BeginCombined(sourceDir string, total int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := files.EnsureDir(w.outputDir); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrWriteFailed, "create output dir: %v", err)
	}

	now := w.now()
	path := w.uniqueCombinedPath(now)

	var sb strings.Builder
	sb.WriteString("BATCH AUDIO TRANSCRIPTION\n")
	fmt.Fprintf(&sb, "Source directory: %s\n", sourceDir)
	fmt.Fprintf(&sb, "Processing start date: %s\n", now.Format(dateLayout))
	fmt.Fprintf(&sb, "Total files to process: %d\n", total)
	sb.WriteString(combinedRule + "\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		w.combinedPath = ""
		return "", apperrors.Wrapf(apperrors.ErrWriteFailed, "%s: %v", path, err)
	}
	w.combinedPath = path
	w.combinedSeen[path] = true
	return path, nil
}

func (w *FileWriter) uniqueCombinedPath(now time.Time) string {
	base := filepath.Join(w.outputDir, "combined_transcriptions_"+now.Format(stampLayout))
	path := base + ".txt"
	for n := 2; w.combinedSeen[path] || fileExists(path); n++ {
		path = fmt.Sprintf("%s_%d.txt", base, n)
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AppendCombined appends one section to the current combined file and returns its path.
func (w *FileWriter) AppendCombined(result model.TranscriptionResult) (string, error) {
	var sb strings.Builder
	sb.WriteString("\n" + combinedRule + "\n")
	fmt.Fprintf(&sb, "FILE: %s\n", result.Source.Path)
	fmt.Fprintf(&sb, "PROCESSING DATE: %s\n", w.now().Format(dateLayout))
	sb.WriteString(combinedRule + "\n\n")
	sb.WriteString(result.Text)
	sb.WriteString("\n\n")
	return w.appendCombined(sb.String())
}

// FinishCombined appends the statistics block.
func (w *FileWriter) FinishCombined(summary model.BatchRunSummary) error {
	var sb strings.Builder
	sb.WriteString("\n" + combinedRule + "\n")
	sb.WriteString("PROCESSING STATISTICS\n")
	fmt.Fprintf(&sb, "Completion date: %s\n", w.now().Format(dateLayout))
	fmt.Fprintf(&sb, "Successfully processed: %d\n", summary.Succeeded)
	fmt.Fprintf(&sb, "Errors: %d\n", summary.Failed)
	fmt.Fprintf(&sb, "Total files: %d\n", summary.TotalFound)
	_, err := w.appendCombined(sb.String())
	return err
}

func (w *FileWriter) appendCombined(text string) (string, error) {
	w.mu.Lock()
	path := w.combinedPath
	w.mu.Unlock()

	if path == "" {
		return "", apperrors.Wrap(apperrors.ErrWriteFailed, "no combined file open")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrWriteFailed, "%s: %v", path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", apperrors.Wrapf(apperrors.ErrWriteFailed, "%s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrWriteFailed, "%s: %v", path, err)
	}
	return path, nil
}
