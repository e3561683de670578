package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Model     ModelConfig       `yaml:"model"`
	Upload    UploadConfig      `yaml:"upload"`
	Knowledge KnowledgeConfig   `yaml:"knowledge"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Model.Validate(); err != nil {
		return err
	}
	return c.Upload.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ModelConfig locates the trained artifacts.
//
// ClassifierPath selects the backend by extension: ".onnx" runs through ONNX
// Runtime (RuntimeLibrary points at the shared library, defaulting to
// libonnxruntime.so beside the model); ".safetensors" is evaluated in Go.
type ModelConfig struct {
	ClassifierPath string `yaml:"classifier_path"`
	EncoderPath    string `yaml:"encoder_path"`
	RuntimeLibrary string `yaml:"runtime_library"`
	IntraOpThreads int    `yaml:"intra_op_threads"`
}

// Validate validates the model configuration.
func (c *ModelConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ClassifierPath, validation.Required, validation.By(classifierExtension)),
		validation.Field(&c.EncoderPath, validation.Required),
		validation.Field(&c.IntraOpThreads, validation.Min(0)),
	)
}

func classifierExtension(value any) error {
	path, _ := value.(string)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".onnx", ".safetensors":
		return nil
	default:
		return errors.New("must end in .onnx or .safetensors")
	}
}

// UploadConfig controls transient storage of uploaded clips.
//
// Uploads are deleted once recognised unless Retain is set. At startup,
// leftovers older than SweepAfter are removed (skipped when Retain is set).
type UploadConfig struct {
	ScratchDir string        `yaml:"scratch_dir"`
	MaxBytes   int64         `yaml:"max_bytes"`
	Retain     bool          `yaml:"retain"`
	SweepAfter time.Duration `yaml:"sweep_after"`
}

// Validate validates the upload configuration.
func (c *UploadConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ScratchDir, validation.Required),
		validation.Field(&c.MaxBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.SweepAfter, validation.Min(time.Duration(0))),
	)
}

// KnowledgeConfig points at optional Markdown raga sheets merged over the
// built-in table. An empty Dir uses the built-in table only.
type KnowledgeConfig struct {
	Dir string `yaml:"dir"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Model: ModelConfig{
			ClassifierPath: "./models/classifier.onnx",
			EncoderPath:    "./models/labels.json",
			IntraOpThreads: 1,
		},
		Upload: UploadConfig{
			ScratchDir: "./uploads",
			MaxBytes:   32 << 20,
			SweepAfter: time.Hour,
		},
	}
}
