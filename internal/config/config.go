package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cray-scenes/internal/logger"
)

// ConfigPath is the default preferences file, relative to the process working directory.
const ConfigPath = "config/crayscene.json"

// Environment variables that override the loaded preferences.
const (
	EnvLibrary = "CRAY_LIB"
	EnvBinary  = "CRAY_BIN"
	EnvOutput  = "CRAY_OUTPUT"
)

// Prefs holds tool preferences: where the renderer lives, where batch renders go and the
// render settings applied to each frame. Persisted across runs.
type Prefs struct {
	// Library is the renderer shared library; empty uses the platform default name.
	Library string `json:"library,omitempty" yaml:"library,omitempty" toml:"library,omitempty"`
	// Binary is the renderer executable used by subprocess batch renders.
	Binary string `json:"binary" yaml:"binary" toml:"binary"`
	// Workspace is the directory holding input/ and output/.
	Workspace string `json:"workspace" yaml:"workspace" toml:"workspace"`
	OutputDir string `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
	LogFile   string `json:"log_file" yaml:"log_file" toml:"log_file"`

	Attempts   int    `json:"attempts" yaml:"attempts" toml:"attempts"`
	RetryDelay string `json:"retry_delay,omitempty" yaml:"retry_delay,omitempty" toml:"retry_delay,omitempty"`

	Render Render `json:"render" yaml:"render" toml:"render"`
}

// Render holds the per-frame renderer settings. Zero fields leave the scene's own value.
type Render struct {
	Threads int `json:"threads,omitempty" yaml:"threads,omitempty" toml:"threads,omitempty"`
	Samples int `json:"samples,omitempty" yaml:"samples,omitempty" toml:"samples,omitempty"`
	Bounces int `json:"bounces,omitempty" yaml:"bounces,omitempty" toml:"bounces,omitempty"`
	Width   int `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height  int `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
}

// Default returns default preferences (subprocess renderer in bin/, workspace in the
// current directory, one attempt per frame).
func Default() Prefs {
	return Prefs{
		Binary:    "bin/c-ray",
		Workspace: ".",
		OutputDir: "output/project",
		LogFile:   logger.LogFilePath,
		Attempts:  1,
	}
}

// Delay parses RetryDelay. An empty value means no delay.
func (p Prefs) Delay() (time.Duration, error) {
	if p.RetryDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.RetryDelay)
	if err != nil {
		return 0, fmt.Errorf("config: retry_delay: %w", err)
	}
	return d, nil
}

// Load reads preferences from path, decoding by extension (.json, .yaml/.yml, .toml).
// Fields absent from the file keep their default. A missing file returns Default() and
// does not create a file.
func Load(path string) (Prefs, error) {
	p := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return p, fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("config: %w", err)
	}
	if err := unmarshal(path, data, &p); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path in the format of its extension, creating the directory
// if needed.
func Save(path string, p Prefs) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := marshal(path, p)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func unmarshal(path string, data []byte, p *Prefs) error {
	switch ext(path) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, p)
	case ".toml":
		return toml.Unmarshal(data, p)
	case ".json":
		return json.Unmarshal(data, p)
	}
	return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
}

func marshal(path string, p Prefs) ([]byte, error) {
	switch ext(path) {
	case ".yaml", ".yml":
		return yaml.Marshal(p)
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".json":
		return json.MarshalIndent(p, "", "\t")
	}
	return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// ApplyEnv overrides p with CRAY_LIB, CRAY_BIN and CRAY_OUTPUT when they are set, then
// expands a leading ~ in every path.
func (p *Prefs) ApplyEnv() error {
	for _, o := range []struct {
		key string
		dst *string
	}{
		{EnvLibrary, &p.Library},
		{EnvBinary, &p.Binary},
		{EnvOutput, &p.OutputDir},
	} {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}
	for _, s := range []*string{&p.Library, &p.Binary, &p.Workspace, &p.OutputDir, &p.LogFile} {
		v, err := homedir.Expand(*s)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		*s = v
	}
	return nil
}

// String renders p as "key=value" pairs for logging.
func (p Prefs) String() string {
	return strings.Join([]string{
		"library=" + strconv.Quote(p.Library),
		"binary=" + strconv.Quote(p.Binary),
		"workspace=" + strconv.Quote(p.Workspace),
		"output_dir=" + strconv.Quote(p.OutputDir),
		"attempts=" + strconv.Itoa(p.Attempts),
	}, " ")
}
