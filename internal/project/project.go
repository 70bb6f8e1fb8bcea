// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/NV08hv/canvas-mockup-sub000/internal/design"
	"github.com/NV08hv/canvas-mockup-sub000/pkg/geometry"
)

// Ext is the project file extension.
const Ext = ".mockup"

// Version is the current project schema version.
const Version = 1

// File is the JSON structure of a saved session. Image paths are stored
// relative to the project file so a project directory can be moved around.
type File struct {
	Version  int       `json:"version"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	Mockups []MockupRef               `json:"mockups"`
	Designs [design.Slots]DesignState `json:"designs"`
	Current int                       `json:"current,omitempty"`
}

// MockupRef points at one imported base image.
type MockupRef struct {
	Path string `json:"path"`
}

// DesignState is the saved form of one design slot, overrides included.
// Override maps serialize as arrays because JSON object keys are strings and
// these are keyed by integer mockup index.
type DesignState struct {
	Path      string           `json:"path,omitempty"`
	Visible   bool             `json:"visible"`
	Order     int              `json:"order"`
	Blend     string           `json:"blend"`
	Transform design.Transform `json:"transform"`

	TransformOverrides []TransformOverride `json:"transformOverrides,omitempty"`
	BlendOverrides     []BlendOverride     `json:"blendOverrides,omitempty"`
	PositionOffsets    []PositionOffset    `json:"positionOffsets,omitempty"`
}

// TransformOverride is one entry of the per-mockup transform map.
type TransformOverride struct {
	Index int              `json:"index"`
	Value design.Transform `json:"value"`
}

// BlendOverride is one entry of the per-mockup blend map.
type BlendOverride struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

// PositionOffset is one entry of the per-mockup position-offset map.
type PositionOffset struct {
	Index int              `json:"index"`
	Value geometry.Point2D `json:"value"`
}

// New creates an empty project file.
func New() *File {
	now := time.Now()
	return &File{
		Version:  Version,
		Created:  now,
		Modified: now,
	}
}

// Load reads a project file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", filepath.Base(path), err)
	}
	if f.Version > Version {
		return nil, fmt.Errorf("project %s has version %d, newer than this build supports", filepath.Base(path), f.Version)
	}
	return &f, nil
}

// Save writes the project file, bumping its modified stamp.
func (f *File) Save(path string) error {
	f.Modified = time.Now()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	return nil
}

// RelPath stores a path relative to the project directory when possible.
func RelPath(projectDir, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(projectDir, path)
	if err != nil {
		return path
	}
	return rel
}

// AbsPath resolves a stored path against the project directory.
func AbsPath(projectDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectDir, path)
}

// SnapshotDesign captures a design slot for saving.
func SnapshotDesign(l *design.Layer, projectDir string) DesignState {
	d := DesignState{
		Path:      RelPath(projectDir, l.Path),
		Visible:   l.Visible,
		Order:     l.Order,
		Blend:     l.Blend.String(),
		Transform: l.Transform,
	}

	for _, i := range l.TransformOverrides.Indices() {
		v, _ := l.TransformOverrides.Get(i)
		d.TransformOverrides = append(d.TransformOverrides, TransformOverride{Index: i, Value: v})
	}
	for _, i := range l.BlendOverrides.Indices() {
		v, _ := l.BlendOverrides.Get(i)
		d.BlendOverrides = append(d.BlendOverrides, BlendOverride{Index: i, Value: v.String()})
	}
	for _, i := range l.PositionOffsets.Indices() {
		v, _ := l.PositionOffsets.Get(i)
		d.PositionOffsets = append(d.PositionOffsets, PositionOffset{Index: i, Value: v})
	}
	return d
}

// Apply restores a saved design slot. Overrides with indices outside the
// restored mockup count are dropped and logged rather than failing the load,
// and a missing design image logs and leaves the slot empty.
func (d DesignState) Apply(l *design.Layer, projectDir string, mockupCount int) {
	l.Visible = d.Visible
	l.Order = d.Order
	l.Transform = design.Clamp(d.Transform)

	if mode, ok := design.ParseBlendMode(d.Blend); ok {
		l.Blend = mode
	} else {
		l.Blend = design.BlendNormal
	}

	if d.Path != "" {
		if err := l.Load(AbsPath(projectDir, d.Path)); err != nil {
			log.Printf("project: design image unavailable: %v", err)
		}
	}

	for _, o := range d.TransformOverrides {
		if o.Index < 0 || o.Index >= mockupCount {
			log.Printf("project: dropping transform override for missing mockup %d", o.Index)
			continue
		}
		l.TransformOverrides.Set(o.Index, design.Clamp(o.Value))
	}
	for _, o := range d.BlendOverrides {
		if o.Index < 0 || o.Index >= mockupCount {
			log.Printf("project: dropping blend override for missing mockup %d", o.Index)
			continue
		}
		mode, ok := design.ParseBlendMode(o.Value)
		if !ok {
			continue
		}
		l.BlendOverrides.Set(o.Index, mode)
	}
	for _, o := range d.PositionOffsets {
		if o.Index < 0 || o.Index >= mockupCount {
			log.Printf("project: dropping position offset for missing mockup %d", o.Index)
			continue
		}
		l.PositionOffsets.Set(o.Index, o.Value)
	}
}
