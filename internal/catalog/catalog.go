// Package catalog holds the read-only equipment catalog: sensor formats,
// camera bodies, lenses and the selectable aperture stops. It is loaded
// once from YAML and passed to whoever needs it.
package catalog

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/dofplan/internal/logic/optics"
)

// MaxCatalogFileBytes caps the catalog file size.
const MaxCatalogFileBytes = 4 << 20

// SensorFormat is a named sensor size class, e.g. "Full Frame".
type SensorFormat struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	WidthMm    float64 `yaml:"width_mm" json:"width_mm"`
	HeightMm   float64 `yaml:"height_mm" json:"height_mm"`
	CropFactor float64 `yaml:"crop_factor" json:"crop_factor"`
}

// Camera is a camera body.
type Camera struct {
	ID             string  `yaml:"id" json:"id"`
	Brand          string  `yaml:"brand" json:"brand"`
	Model          string  `yaml:"model" json:"model"`
	SensorFormatID string  `yaml:"sensor_format" json:"sensor_format"`
	SensorType     string  `yaml:"sensor_type" json:"sensor_type"` // matched against Lens.CompatibleWith
	Mount          Mount   `yaml:"mount" json:"mount"`
	SensorWidthMm  float64 `yaml:"sensor_width_mm" json:"sensor_width_mm"`
	SensorHeightMm float64 `yaml:"sensor_height_mm" json:"sensor_height_mm"`
	ImageWidthPx   int     `yaml:"image_width_px" json:"image_width_px"`
	ImageHeightPx  int     `yaml:"image_height_px" json:"image_height_px"`
	Megapixels     float64 `yaml:"megapixels" json:"megapixels"`
	CropFactor     float64 `yaml:"crop_factor" json:"crop_factor"`
}

// Sensor returns the camera's sensor geometry.
func (c Camera) Sensor() optics.SensorGeometry {
	return optics.SensorGeometry{
		WidthMm:       c.SensorWidthMm,
		HeightMm:      c.SensorHeightMm,
		ImageWidthPx:  c.ImageWidthPx,
		ImageHeightPx: c.ImageHeightPx,
		Megapixels:    c.Megapixels,
	}
}

// Crop returns the configured crop factor, or derives it from the sensor
// dimensions when the catalog leaves it empty.
func (c Camera) Crop() float64 {
	if c.CropFactor > 0 {
		return c.CropFactor
	}
	return optics.CropFactorFromSensor(c.SensorWidthMm, c.SensorHeightMm)
}

// Name returns "Brand Model".
func (c Camera) Name() string { return c.Brand + " " + c.Model }

// Lens is a prime lens (zooms are listed per focal length).
// MaxAperture is the widest f-number, MinAperture the narrowest.
type Lens struct {
	ID             string   `yaml:"id" json:"id"`
	Brand          string   `yaml:"brand" json:"brand"`
	Model          string   `yaml:"model" json:"model"`
	Mount          Mount    `yaml:"mount" json:"mount"`
	FocalLengthMm  float64  `yaml:"focal_length_mm" json:"focal_length_mm"`
	MaxAperture    float64  `yaml:"max_aperture" json:"max_aperture"`
	MinAperture    float64  `yaml:"min_aperture" json:"min_aperture"`
	CompatibleWith []string `yaml:"compatible_with" json:"compatible_with"`
}

// Name returns "Brand Model".
func (l Lens) Name() string { return l.Brand + " " + l.Model }

// Catalog is the whole equipment database.
type Catalog struct {
	SensorFormats []SensorFormat `yaml:"sensor_formats" json:"sensor_formats"`
	Cameras       []Camera       `yaml:"cameras" json:"cameras"`
	Lenses        []Lens         `yaml:"lenses" json:"lenses"`
	Apertures     []float64      `yaml:"apertures" json:"apertures"`

	formats map[string]int
	cameras map[string]int
	lenses  map[string]int
}

// Load reads and validates a YAML catalog.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxCatalogFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	if len(data) > MaxCatalogFileBytes {
		return nil, fmt.Errorf("catalog file exceeds %d bytes", MaxCatalogFileBytes)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal catalog yaml: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.formats = make(map[string]int, len(c.SensorFormats))
	for i, sf := range c.SensorFormats {
		if sf.ID == "" {
			return fmt.Errorf("sensor_formats[%d]: id is required", i)
		}
		if _, dup := c.formats[sf.ID]; dup {
			return fmt.Errorf("sensor_formats: duplicate id %q", sf.ID)
		}
		c.formats[sf.ID] = i
	}

	c.cameras = make(map[string]int, len(c.Cameras))
	for i, cam := range c.Cameras {
		if cam.ID == "" {
			return fmt.Errorf("cameras[%d]: id is required", i)
		}
		if _, dup := c.cameras[cam.ID]; dup {
			return fmt.Errorf("cameras: duplicate id %q", cam.ID)
		}
		if _, ok := c.formats[cam.SensorFormatID]; !ok {
			return fmt.Errorf("camera %q: unknown sensor_format %q", cam.ID, cam.SensorFormatID)
		}
		if !cam.Mount.Valid() {
			return fmt.Errorf("camera %q: unknown mount %q", cam.ID, cam.Mount)
		}
		if cam.SensorWidthMm <= 0 || cam.SensorHeightMm <= 0 {
			return fmt.Errorf("camera %q: sensor dimensions must be > 0", cam.ID)
		}
		c.cameras[cam.ID] = i
	}

	c.lenses = make(map[string]int, len(c.Lenses))
	for i, l := range c.Lenses {
		if l.ID == "" {
			return fmt.Errorf("lenses[%d]: id is required", i)
		}
		if _, dup := c.lenses[l.ID]; dup {
			return fmt.Errorf("lenses: duplicate id %q", l.ID)
		}
		if !l.Mount.Valid() {
			return fmt.Errorf("lens %q: unknown mount %q", l.ID, l.Mount)
		}
		if l.FocalLengthMm <= 0 {
			return fmt.Errorf("lens %q: focal_length_mm must be > 0", l.ID)
		}
		if l.MaxAperture <= 0 || l.MinAperture < l.MaxAperture {
			return fmt.Errorf("lens %q: aperture range f/%g-f/%g is invalid", l.ID, l.MaxAperture, l.MinAperture)
		}
		c.lenses[l.ID] = i
	}

	for _, ap := range c.Apertures {
		if ap <= 0 {
			return fmt.Errorf("apertures: f-number must be > 0, got %g", ap)
		}
	}
	sort.Float64s(c.Apertures)
	return nil
}

// SensorFormat returns the sensor format with the given id.
func (c *Catalog) SensorFormat(id string) (SensorFormat, bool) {
	i, ok := c.formats[id]
	if !ok {
		return SensorFormat{}, false
	}
	return c.SensorFormats[i], true
}

// Camera returns the camera with the given id.
func (c *Catalog) Camera(id string) (Camera, bool) {
	i, ok := c.cameras[id]
	if !ok {
		return Camera{}, false
	}
	return c.Cameras[i], true
}

// Lens returns the lens with the given id.
func (c *Catalog) Lens(id string) (Lens, bool) {
	i, ok := c.lenses[id]
	if !ok {
		return Lens{}, false
	}
	return c.Lenses[i], true
}

// CamerasForFormat lists the cameras using the given sensor format, in
// catalog order.
func (c *Catalog) CamerasForFormat(formatID string) []Camera {
	var out []Camera
	for _, cam := range c.Cameras {
		if cam.SensorFormatID == formatID {
			out = append(out, cam)
		}
	}
	return out
}

// CompatibleLenses lists the lenses usable on camera, in catalog order.
func (c *Catalog) CompatibleLenses(camera Camera) []Lens {
	var out []Lens
	for _, l := range c.Lenses {
		if IsCompatible(camera, l) {
			out = append(out, l)
		}
	}
	return out
}

// AperturesFor lists the catalog stops within the lens range, ascending.
func (c *Catalog) AperturesFor(lens Lens) []float64 {
	var out []float64
	for _, ap := range c.Apertures {
		if ap >= lens.MaxAperture && ap <= lens.MinAperture {
			out = append(out, ap)
		}
	}
	return out
}
