package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/cjeanneret/dofplan/internal/catalog"
	"github.com/cjeanneret/dofplan/internal/config"
	"github.com/cjeanneret/dofplan/internal/debug"
	"github.com/cjeanneret/dofplan/internal/logic/optics"
	"github.com/cjeanneret/dofplan/internal/logic/planner"
	"github.com/cjeanneret/dofplan/internal/logic/report"
)

// MaxRequestBodyBytes caps JSON request bodies.
const MaxRequestBodyBytes = 1 << 20

// FormConfig holds default values for a calculator form (from config).
type FormConfig struct {
	CameraID        string                `json:"camera_id"`
	LensID          string                `json:"lens_id"`
	Aperture        float64               `json:"aperture"`
	FocusDistanceM  float64               `json:"focus_distance_m"`
	DistanceUnit    optics.Unit           `json:"distance_unit"`
	HOverlapPercent float64               `json:"h_overlap_percent"`
	VOverlapPercent float64               `json:"v_overlap_percent"`
	Surface         planner.Surface       `json:"surface"`
	Display         optics.InfinityPolicy `json:"display"`
}

// FormConfigFrom extracts the form defaults from cfg.
func FormConfigFrom(cfg *config.Config) FormConfig {
	d := cfg.Defaults
	return FormConfig{
		CameraID:        d.CameraID,
		LensID:          d.LensID,
		Aperture:        d.Aperture,
		FocusDistanceM:  d.FocusDistanceM,
		DistanceUnit:    cfg.Unit(),
		HOverlapPercent: d.HOverlapPercent,
		VOverlapPercent: d.VOverlapPercent,
		Surface:         d.Surface,
		Display:         cfg.Display,
	}
}

// ReportRequest is the body of POST /report.
type ReportRequest struct {
	report.Request
	Unit string `json:"unit"` // display unit, "m" (default) or "ft"
}

// ReportResponse is returned by POST /report.
type ReportResponse struct {
	Report  *report.Report `json:"report"`
	Summary report.Summary `json:"summary"`
}

// SweepRequest is the body of POST /sweep.
type SweepRequest struct {
	report.Request
	FromM  float64 `json:"from_m"`
	ToM    float64 `json:"to_m"`
	Points int     `json:"points"`
	Unit   string  `json:"unit"`
}

// Handlers holds dependencies for HTTP handlers. All of them are read-only
// after construction, so handlers may run concurrently.
type Handlers struct {
	Catalog      *catalog.Catalog
	FormDefaults FormConfig
	Storage      planner.StorageTable
}

// NewHandlers creates handlers over the catalog and configuration.
func NewHandlers(cat *catalog.Catalog, cfg *config.Config) *Handlers {
	return &Handlers{
		Catalog:      cat,
		FormDefaults: FormConfigFrom(cfg),
		Storage:      cfg.StorageTable(),
	}
}

// ValidateRequest checks that a request names its equipment and carries
// finite numbers. Range checks belong to the calculation itself.
func ValidateRequest(req report.Request) error {
	if req.CameraID == "" {
		return errors.New("camera_id is required")
	}
	if req.LensID == "" {
		return errors.New("lens_id is required")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"aperture", req.Aperture},
		{"focus_distance_m", req.FocusDistanceM},
		{"h_overlap_percent", req.HOverlapPercent},
		{"v_overlap_percent", req.VOverlapPercent},
		{"surface.width_m", req.Surface.WidthM},
		{"surface.height_m", req.Surface.HeightM},
		{"surface.depth_m", req.Surface.DepthM},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be a finite number", f.name)
		}
	}
	return nil
}

// HandleConfig returns the form default values (from config) as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.FormDefaults)
}

// HandleCatalog returns the whole equipment catalog.
func (h *Handlers) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog)
}

// HandleCompatibleLenses handles GET /catalog/cameras/{id}/lenses.
func (h *Handlers) HandleCompatibleLenses(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	cam, ok := h.Catalog.Camera(id)
	debug.Lookup("camera", id, ok)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown camera %q", id), http.StatusNotFound)
		return
	}
	lenses := h.Catalog.CompatibleLenses(cam)
	if lenses == nil {
		lenses = []catalog.Lens{}
	}
	writeJSON(w, http.StatusOK, lenses)
}

// HandleReport handles POST /report.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	unit, eq, ok := h.prepare(w, req.Request, req.Unit)
	if !ok {
		return
	}

	rep, err := report.Compute(req.Request, eq, h.Storage)
	if err != nil {
		writeCalcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{
		Report:  rep,
		Summary: rep.Summarize(h.FormDefaults.Display, unit),
	})
}

// HandleSweep handles POST /sweep.
func (h *Handlers) HandleSweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if !decodeBody(w, r, &req) {
		return
	}
	unit, eq, ok := h.prepare(w, req.Request, req.Unit)
	if !ok {
		return
	}

	rows, err := report.Sweep(req.Request, eq, req.FromM, req.ToM, req.Points)
	if err != nil {
		writeCalcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.FormatSweep(rows, h.FormDefaults.Display, unit))
}

// prepare validates req and resolves its equipment, writing the error
// response itself when it returns false.
func (h *Handlers) prepare(w http.ResponseWriter, req report.Request, unitName string) (optics.Unit, report.Equipment, bool) {
	if err := ValidateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", report.Equipment{}, false
	}
	unit := h.FormDefaults.DistanceUnit
	if unitName != "" {
		u, err := optics.ParseUnit(unitName)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return "", report.Equipment{}, false
		}
		unit = u
	}
	eq, err := report.Resolve(h.Catalog, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return "", report.Equipment{}, false
	}
	return unit, eq, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func writeCalcError(w http.ResponseWriter, err error) {
	if errors.Is(err, optics.ErrInvalidConfiguration) || errors.Is(err, planner.ErrInvalidConfiguration) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	debug.Error(err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Error(fmt.Errorf("encode response: %w", err))
	}
}
