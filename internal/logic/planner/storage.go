package planner

import (
	"fmt"
	"strings"
)

// StorageProfile maps a class of camera to typical file sizes per
// megapixel. A profile matches when every non-empty criterion matches.
// The multipliers are rough configuration data, not measured values.
type StorageProfile struct {
	Brand         string  `yaml:"brand" json:"brand,omitempty"`
	ModelContains string  `yaml:"model_contains" json:"model_contains,omitempty"`
	MinMegapixels float64 `yaml:"min_megapixels" json:"min_megapixels,omitempty"` // exclusive
	JPEGMBPerMP   float64 `yaml:"jpeg_mb_per_mp" json:"jpeg_mb_per_mp"`
	RAWMBPerMP    float64 `yaml:"raw_mb_per_mp" json:"raw_mb_per_mp"`
}

func (p StorageProfile) matches(megapixels float64, brand, model string) bool {
	if p.Brand != "" && !strings.EqualFold(p.Brand, brand) {
		return false
	}
	if p.ModelContains != "" && !strings.Contains(model, p.ModelContains) {
		return false
	}
	if p.MinMegapixels > 0 && megapixels <= p.MinMegapixels {
		return false
	}
	return true
}

// StorageTable is an ordered list of profiles; the first match wins.
type StorageTable []StorageProfile

// DefaultStorageTable covers medium format, high-resolution and standard
// bodies.
var DefaultStorageTable = StorageTable{
	{Brand: "Phase One", JPEGMBPerMP: 0.8, RAWMBPerMP: 5.0},
	{Brand: "Hasselblad", JPEGMBPerMP: 0.8, RAWMBPerMP: 5.0},
	{Brand: "Fujifilm", ModelContains: "GFX", JPEGMBPerMP: 0.8, RAWMBPerMP: 4.5},
	{MinMegapixels: 45, JPEGMBPerMP: 0.7, RAWMBPerMP: 4.0},
	{JPEGMBPerMP: 0.5, RAWMBPerMP: 2.5},
}

// Validate rejects non-positive multipliers.
func (t StorageTable) Validate() error {
	for i, p := range t {
		if p.JPEGMBPerMP <= 0 || p.RAWMBPerMP <= 0 {
			return fmt.Errorf("storage profile %d: multipliers must be > 0, got jpeg=%g raw=%g",
				i, p.JPEGMBPerMP, p.RAWMBPerMP)
		}
	}
	return nil
}

// Lookup returns the first profile matching the camera.
func (t StorageTable) Lookup(megapixels float64, brand, model string) (StorageProfile, bool) {
	for _, p := range t {
		if p.matches(megapixels, brand, model) {
			return p, true
		}
	}
	return StorageProfile{}, false
}

// Storage is the estimated size of a capture session.
type Storage struct {
	JPEGMB float64 `json:"jpeg_mb"`
	RAWMB  float64 `json:"raw_mb"`
	Known  bool    `json:"known"` // false when megapixels or a profile are missing
}

// JPEG returns the formatted JPEG total, e.g. "600 MB" or "1.2 GB".
func (s Storage) JPEG() string {
	if !s.Known {
		return "N/A"
	}
	return FormatMB(s.JPEGMB)
}

// RAW returns the formatted RAW total.
func (s Storage) RAW() string {
	if !s.Known {
		return "N/A"
	}
	return FormatMB(s.RAWMB)
}

// FormatMB renders megabytes as "N MB" up to 1024 MB and "x.x GB" above.
func FormatMB(mb float64) string {
	if mb > 1024 {
		return fmt.Sprintf("%.1f GB", mb/1024)
	}
	return fmt.Sprintf("%.0f MB", mb)
}

// Estimate computes totalImages × megapixels × per-MP size for the
// matching profile.
func (t StorageTable) Estimate(totalImages int, megapixels float64, brand, model string) Storage {
	if megapixels <= 0 {
		return Storage{}
	}
	p, ok := t.Lookup(megapixels, brand, model)
	if !ok {
		return Storage{}
	}
	n := float64(totalImages)
	return Storage{
		JPEGMB: n * megapixels * p.JPEGMBPerMP,
		RAWMB:  n * megapixels * p.RAWMBPerMP,
		Known:  true,
	}
}

// EstimatedStorage estimates with DefaultStorageTable.
func EstimatedStorage(totalImages int, megapixels float64, brand, model string) Storage {
	return DefaultStorageTable.Estimate(totalImages, megapixels, brand, model)
}
