package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/swara/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.Upload.Retain {
		t.Error("uploads should not be retained by default")
	}
}

func TestModelConfig_RejectsUnknownExtension(t *testing.T) {
	cfg := ModelConfig{ClassifierPath: "model.h5", EncoderPath: "labels.json"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("h5 classifier should fail validation")
	}
	if !strings.Contains(err.Error(), ".onnx or .safetensors") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestModelConfig_RequiresEncoder(t *testing.T) {
	cfg := ModelConfig{ClassifierPath: "model.safetensors"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing encoder path should fail validation")
	}
}

func TestUploadConfig_RequiresLimit(t *testing.T) {
	cfg := UploadConfig{ScratchDir: "./uploads"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero max_bytes should fail validation")
	}
}

func TestFullConfig_HTTPPortValidated(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch port error")
	}
}

func TestLoadYAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("SWARA_TEST_MODELS", "/opt/models")
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `app:
  log_level: debug
  http:
    port: 9090
model:
  classifier_path: ${SWARA_TEST_MODELS}/raga.safetensors
  encoder_path: ${SWARA_TEST_MODELS}/labels.yaml
upload:
  scratch_dir: /tmp/swara
  max_bytes: 1048576
  retain: true
  sweep_after: 30m
knowledge:
  dir: ./ragas
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("log level = %s", cfg.App.LogLevel)
	}
	if cfg.Model.ClassifierPath != "/opt/models/raga.safetensors" {
		t.Errorf("classifier path = %q", cfg.Model.ClassifierPath)
	}
	if cfg.Model.IntraOpThreads != 1 {
		t.Errorf("intra_op_threads default lost: %d", cfg.Model.IntraOpThreads)
	}
	if !cfg.Upload.Retain || cfg.Upload.SweepAfter != 30*time.Minute {
		t.Errorf("upload = %+v", cfg.Upload)
	}
	if cfg.Knowledge.Dir != "./ragas" {
		t.Errorf("knowledge dir = %q", cfg.Knowledge.Dir)
	}
}

func TestShippedConfigLoadsWithoutEnv(t *testing.T) {
	t.Setenv("SWARA_HTTP_PORT", "")
	t.Setenv("ONNXRUNTIME_LIB", "")

	var cfg Config
	if err := pkgconfig.Load(filepath.Join("..", "config", "config.yaml"), &cfg); err != nil {
		t.Fatalf("shipped config should load with an empty environment: %v", err)
	}
	if cfg.App.HTTP.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.App.HTTP.Port)
	}
	if cfg.Upload.SweepAfter != time.Hour {
		t.Errorf("sweep_after = %v, want 1h", cfg.Upload.SweepAfter)
	}
}
