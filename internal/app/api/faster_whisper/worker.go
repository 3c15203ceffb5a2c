package faster_whisper

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

//go:embed assets/faster_whisper_worker.py
var workerScript []byte

type request struct {
	Audio    string `json:"audio"`
	Language string `json:"language,omitempty"`
}

type response struct {
	Ready    bool    `json:"ready,omitempty"`
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// worker is one running helper process with the model loaded.
type worker struct {
	in   io.WriteCloser
	out  *bufio.Reader
	stop func() error
}

func (w *worker) send(req request) error {
	line, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, err = w.in.Write(append(line, '\n'))
	return err
}

func (w *worker) receive() (response, error) {
	line, err := w.out.ReadBytes('\n')
	if err != nil {
		return response{}, err
	}
	var resp response
	if err := json.Unmarshal(line, &resp); err != nil {
		return response{}, fmt.Errorf("parse helper output: %w: %s", err, strings.TrimSpace(string(line)))
	}
	return resp, nil
}

// startFunc launches a worker and waits for its ready line.
type startFunc func(cfg Config) (*worker, error)

// writeScript puts the embedded helper in a fresh temp dir and returns its path.
func writeScript() (string, error) {
	dir, err := os.MkdirTemp("", "a2t_faster_whisper_*")
	if err != nil {
		return "", fmt.Errorf("create helper dir: %w", err)
	}
	scriptPath := filepath.Join(dir, "faster_whisper_worker.py")
	if err := os.WriteFile(scriptPath, workerScript, 0o755); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("write helper script: %w", err)
	}
	return scriptPath, nil
}

func startProcess(scriptPath string) startFunc {
	return func(cfg Config) (*worker, error) {
		cmd := exec.Command(cfg.Python, scriptPath,
			"--model", cfg.ModelSize,
			"--device", cfg.Device,
			"--compute-type", cfg.ComputeType,
			"--beam-size", strconv.Itoa(cfg.BeamSize),
		)
		cmd.Env = os.Environ()
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, err
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("run helper: %w", err)
		}

		w := &worker{
			in:  stdin,
			out: bufio.NewReader(stdout),
			stop: func() error {
				_ = stdin.Close()
				_ = cmd.Process.Kill()
				_ = cmd.Wait()
				return nil
			},
		}

		ready, err := w.receive()
		if err != nil || !ready.Ready {
			_ = stdin.Close()
			_ = cmd.Wait()
			return nil, fmt.Errorf("faster-whisper failed to load model %s: %s", cfg.ModelSize, lastLines(stderr.String(), 5))
		}
		return w, nil
	}
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
