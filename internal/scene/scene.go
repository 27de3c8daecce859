// Package scene loads and animates the bouncing-line scenes rendered by
// cmd/linedemo.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for scene files that are neither YAML nor
// TOML.
var ErrUnknownFormat = errors.New("scene: unknown file format")

// DefaultVelocity is the per-frame velocity of a spawned line: the start
// point drifts left and down, the end point right and up.
var DefaultVelocity = [4]float32{-0.0011, -0.0001, 0.0011, 0.0001}

// Line is an animated segment. Endpoints are in normalized device
// coordinates as X0, Y0, X1, Y1.
type Line struct {
	Points   [4]float32 `yaml:"points" toml:"points"`
	Velocity [4]float32 `yaml:"velocity" toml:"velocity"`
}

// Scene is a set of animated lines plus render settings.
type Scene struct {
	Width  uint32 `yaml:"width" toml:"width"`
	Height uint32 `yaml:"height" toml:"height"`
	Frames int    `yaml:"frames" toml:"frames"`

	// SpawnEvery adds a default line every n frames. Zero disables spawning.
	SpawnEvery int `yaml:"spawn_every" toml:"spawn_every"`

	// ClearColor is RGBA in [0, 1]. Opaque black when absent.
	ClearColor *[4]float64 `yaml:"clear_color" toml:"clear_color"`

	Lines []Line `yaml:"lines" toml:"lines"`
}

// Default returns a single collapsed line at the origin that grows along
// the diagonal.
func Default() *Scene {
	s := &Scene{}
	s.applyDefaults()
	s.Spawn()
	return s
}

// Load reads a scene from path. The format is chosen by extension:
// .yaml and .yml for YAML, .toml for TOML.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a scene. format is a file extension with or without the
// leading dot.
func Parse(data []byte, format string) (*Scene, error) {
	var s Scene
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing yaml scene: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing toml scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	s.applyDefaults()
	return &s, nil
}

func (s *Scene) applyDefaults() {
	if s.Width == 0 {
		s.Width = 800
	}
	if s.Height == 0 {
		s.Height = 600
	}
	if s.Frames <= 0 {
		s.Frames = 240
	}
	if s.ClearColor == nil {
		s.ClearColor = &[4]float64{0, 0, 0, 1}
	}
}

// Spawn appends a collapsed line at the origin moving with DefaultVelocity.
func (s *Scene) Spawn() {
	s.Lines = append(s.Lines, Line{Velocity: DefaultVelocity})
}

// Step advances every line by one frame.
func (s *Scene) Step() {
	for i := range s.Lines {
		s.Lines[i].Step()
	}
}

// Step reverses each velocity component whose coordinate has left [-1, 1],
// then moves the line by its velocity.
func (l *Line) Step() {
	for i := range l.Points {
		if math32.Abs(l.Points[i]) > 1 {
			l.Velocity[i] = -l.Velocity[i]
		}
		l.Points[i] += l.Velocity[i]
	}
}
