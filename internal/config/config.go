package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/dofplan/internal/logic/optics"
	"github.com/cjeanneret/dofplan/internal/logic/planner"
)

// MaxConfigFileBytes caps the size of a configuration file.
const MaxConfigFileBytes = 1 << 20

// DefaultsConfig holds the initial calculator inputs.
type DefaultsConfig struct {
	CameraID        string          `yaml:"camera_id"`
	LensID          string          `yaml:"lens_id"`
	Aperture        float64         `yaml:"aperture"`          // f-number
	FocusDistanceM  float64         `yaml:"focus_distance_m"`  // subject distance in meters
	DistanceUnit    string          `yaml:"distance_unit"`     // "m" or "ft", display only
	HOverlapPercent float64         `yaml:"h_overlap_percent"` // horizontal overlap [0, 100)
	VOverlapPercent float64         `yaml:"v_overlap_percent"` // vertical overlap [0, 100)
	Surface         planner.Surface `yaml:"surface"`
	DebugLevel      int             `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
}

// Config aggregates all application configuration.
type Config struct {
	CatalogPath     string                   `yaml:"catalog_path"`
	Defaults        DefaultsConfig           `yaml:"defaults"`
	Display         optics.InfinityPolicy    `yaml:"display"`
	StorageProfiles []planner.StorageProfile `yaml:"storage_profiles,omitempty"` // optional, replaces the built-in table
}

// Default returns the configuration used for keys absent from the file.
func Default() *Config {
	return &Config{
		CatalogPath: filepath.Join("configs", "catalog.yaml"),
		Defaults: DefaultsConfig{
			Aperture:        8,
			FocusDistanceM:  5,
			DistanceUnit:    string(optics.Meters),
			HOverlapPercent: 60,
			VOverlapPercent: 60,
			Surface:         planner.Surface{WidthM: 10, HeightM: 10},
		},
		Display: optics.DefaultInfinityPolicy,
	}
}

// ValidateConfigPath accepts only .yaml files located directly in a
// "configs" directory, without ".." components.
func ValidateConfigPath(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if filepath.Ext(path) != ".yaml" {
		return fmt.Errorf("config path %q: extension must be .yaml", path)
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q: path traversal is not allowed", path)
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config path %q: %w", path, err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config path %q: file must be in a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration. Keys missing from
// the file keep the values of Default; unknown keys are ignored.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", MaxConfigFileBytes)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return errors.New("catalog_path is required")
	}
	d := c.Defaults
	if !finitePositive(d.Aperture) {
		return fmt.Errorf("aperture must be > 0, got %g", d.Aperture)
	}
	if !finitePositive(d.FocusDistanceM) {
		return fmt.Errorf("focus_distance_m must be > 0, got %g", d.FocusDistanceM)
	}
	if _, err := optics.ParseUnit(d.DistanceUnit); err != nil {
		return fmt.Errorf("distance_unit: %w", err)
	}
	if err := planner.ValidateOverlap(d.HOverlapPercent); err != nil {
		return fmt.Errorf("h_overlap_percent: %w", err)
	}
	if err := planner.ValidateOverlap(d.VOverlapPercent); err != nil {
		return fmt.Errorf("v_overlap_percent: %w", err)
	}
	if err := d.Surface.Validate(); err != nil {
		return fmt.Errorf("surface: %w", err)
	}
	if d.DebugLevel < 0 || d.DebugLevel > 4 {
		return fmt.Errorf("debug_level must be between 0 and 4, got %d", d.DebugLevel)
	}
	if !finitePositive(c.Display.Factor) {
		return fmt.Errorf("display.infinity_factor must be > 0, got %g", c.Display.Factor)
	}
	if !finitePositive(c.Display.AbsoluteM) {
		return fmt.Errorf("display.infinity_absolute_m must be > 0, got %g", c.Display.AbsoluteM)
	}
	if err := planner.StorageTable(c.StorageProfiles).Validate(); err != nil {
		return err
	}
	return nil
}

// Unit returns the configured display unit.
func (c *Config) Unit() optics.Unit {
	u, err := optics.ParseUnit(c.Defaults.DistanceUnit)
	if err != nil {
		return optics.Meters
	}
	return u
}

// StorageTable returns the configured storage profiles, or the built-in
// table when none are configured.
func (c *Config) StorageTable() planner.StorageTable {
	if len(c.StorageProfiles) == 0 {
		return planner.DefaultStorageTable
	}
	return planner.StorageTable(c.StorageProfiles)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
