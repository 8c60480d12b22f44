package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/cjeanneret/dofplan/internal/catalog"
	"github.com/cjeanneret/dofplan/internal/config"
	"github.com/cjeanneret/dofplan/internal/debug"
	"github.com/cjeanneret/dofplan/internal/logic/optics"
	"github.com/cjeanneret/dofplan/internal/logic/planner"
	"github.com/cjeanneret/dofplan/internal/logic/report"
	"github.com/cjeanneret/dofplan/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	cameraID := flag.String("camera", "", "override camera id")
	lensID := flag.String("lens", "", "override lens id")
	aperture := flag.Float64("aperture", 0, "override f-number (e.g. 8)")
	distance := flag.String("distance", "", `override focus distance ("5", "5m" or "16ft")`)
	unit := flag.String("unit", "", "display unit: m or ft")
	width := flag.Float64("width", 0, "override surface width in meters")
	height := flag.Float64("height", 0, "override surface height in meters")
	depth := flag.Float64("depth", 0, "override surface depth in meters (0 = flat)")
	hOverlap := flag.Float64("h_overlap", 0, "override horizontal overlap percent [0, 100)")
	vOverlap := flag.Float64("v_overlap", 0, "override vertical overlap percent [0, 100)")
	sweep := flag.Int("sweep", 0, "print a focus sweep with N rows instead of the report")
	list := flag.Bool("list", false, "list the equipment catalog and exit")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("invalid config path: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Collect explicitly set flags; an unset flag keeps the config value
	o := overrides{CameraID: *cameraID, LensID: *lensID, Unit: *unit, Sweep: *sweep}
	for name, f := range map[string]struct {
		src *float64
		dst **float64
	}{
		"aperture":  {aperture, &o.Aperture},
		"width":     {width, &o.WidthM},
		"height":    {height, &o.HeightM},
		"depth":     {depth, &o.DepthM},
		"h_overlap": {hOverlap, &o.HOverlapPercent},
		"v_overlap": {vOverlap, &o.VOverlapPercent},
	} {
		if set[name] {
			*f.dst = f.src
		}
	}
	if set["distance"] {
		parseUnit := cfg.Unit()
		if *unit != "" {
			if u, err := optics.ParseUnit(*unit); err == nil {
				parseUnit = u
			}
		}
		d, err := optics.ParseDistance(*distance, parseUnit)
		if err != nil {
			log.Fatalf("invalid CLI override: %v", err)
		}
		o.FocusDistanceM = &d
	}

	if err := validateCLIOverrides(o); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyOverrides(cfg, o)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	debug.Step(1, "Loading equipment catalog")
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("load catalog failed: %v", err)
	}
	debug.Value("Catalog path", cfg.CatalogPath)
	debug.Value("Cameras", len(cat.Cameras))
	debug.Value("Lenses", len(cat.Lenses))

	if *list {
		printCatalog(os.Stdout, cat)
		return
	}

	if port := webPort.port(); port > 0 {
		debug.Step(2, "Starting web server")
		srv := web.NewServer(fmt.Sprintf(":%d", port), web.NewHandlers(cat, cfg))
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("web server: %v", err)
		}
		return
	}

	debug.Step(2, "Resolving equipment")
	req := requestFromConfig(cfg)
	eq, err := report.Resolve(cat, req)
	if err != nil {
		log.Fatalf("resolve equipment failed: %v", err)
	}

	if o.Sweep > 0 {
		debug.Step(3, "Computing focus sweep")
		if err := runSweep(os.Stdout, cfg, req, eq, o.Sweep); err != nil {
			log.Fatalf("sweep failed: %v", err)
		}
		return
	}

	debug.Step(3, "Computing report")
	rep, err := report.Compute(req, eq, cfg.StorageTable())
	if err != nil {
		log.Fatalf("calculation failed: %v", err)
	}
	debug.Summary("Capture Plan Summary")
	debug.Plan(rep.Plan.ImagesAcross, rep.Plan.ImagesDown, rep.Plan.TotalImages)
	debug.Info("Hyperfocal: %.2fm", rep.DOF.HyperfocalM)

	printReport(os.Stdout, rep, rep.Summarize(cfg.Display, cfg.Unit()))
}

// overrides holds the CLI values given explicitly. Nil pointers and empty
// strings keep the configuration value.
type overrides struct {
	CameraID        string
	LensID          string
	Aperture        *float64
	FocusDistanceM  *float64
	Unit            string
	WidthM          *float64
	HeightM         *float64
	DepthM          *float64
	HOverlapPercent *float64
	VOverlapPercent *float64
	Sweep           int
}

// validateCLIOverrides checks that given CLI overrides are within valid ranges.
func validateCLIOverrides(o overrides) error {
	if o.Aperture != nil {
		if a := *o.Aperture; !finite(a) || a <= 0 || a > 64 {
			return fmt.Errorf("aperture must be in (0, 64], got %g", a)
		}
	}
	if o.FocusDistanceM != nil {
		if d := *o.FocusDistanceM; !finite(d) || d <= 0 {
			return fmt.Errorf("distance must be positive, got %g", d)
		}
	}
	if o.Unit != "" {
		if _, err := optics.ParseUnit(o.Unit); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"width", o.WidthM},
		{"height", o.HeightM},
		{"depth", o.DepthM},
	} {
		if f.v != nil && (!finite(*f.v) || *f.v < 0) {
			return fmt.Errorf("%s must be a non-negative number of meters, got %g", f.name, *f.v)
		}
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"h_overlap", o.HOverlapPercent},
		{"v_overlap", o.VOverlapPercent},
	} {
		if f.v == nil {
			continue
		}
		if err := planner.ValidateOverlap(*f.v); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if o.Sweep < 0 || o.Sweep == 1 || o.Sweep > optics.MaxSweepPoints {
		return fmt.Errorf("sweep must be between 2 and %d rows, got %d", optics.MaxSweepPoints, o.Sweep)
	}
	return nil
}

// applyOverrides mutates cfg with overrides.
func applyOverrides(cfg *config.Config, o overrides) {
	d := &cfg.Defaults
	if o.CameraID != "" {
		d.CameraID = o.CameraID
	}
	if o.LensID != "" {
		d.LensID = o.LensID
	}
	if o.Unit != "" {
		if u, err := optics.ParseUnit(o.Unit); err == nil {
			d.DistanceUnit = string(u)
		}
	}
	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{o.Aperture, &d.Aperture},
		{o.FocusDistanceM, &d.FocusDistanceM},
		{o.WidthM, &d.Surface.WidthM},
		{o.HeightM, &d.Surface.HeightM},
		{o.DepthM, &d.Surface.DepthM},
		{o.HOverlapPercent, &d.HOverlapPercent},
		{o.VOverlapPercent, &d.VOverlapPercent},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
}

func requestFromConfig(cfg *config.Config) report.Request {
	d := cfg.Defaults
	return report.Request{
		CameraID:        d.CameraID,
		LensID:          d.LensID,
		Aperture:        d.Aperture,
		FocusDistanceM:  d.FocusDistanceM,
		Surface:         d.Surface,
		HOverlapPercent: d.HOverlapPercent,
		VOverlapPercent: d.VOverlapPercent,
	}
}

// sweepRange picks a focus range running from close focus to twice the
// hyperfocal distance, or twice the focus distance when that is farther.
func sweepRange(p optics.Params) (fromM, toM float64, err error) {
	h, err := optics.HyperfocalDistance(p.FocalLengthMm, p.Aperture, optics.CircleOfConfusion(p.CropFactor))
	if err != nil {
		return 0, 0, err
	}
	fromM = math.Max(0.5, 2*p.FocalLengthMm/1000)
	toM = math.Max(2*h, 2*p.FocusDistanceM)
	if toM <= fromM {
		toM = 10 * fromM
	}
	return fromM, toM, nil
}

func runSweep(w io.Writer, cfg *config.Config, req report.Request, eq report.Equipment, n int) error {
	fromM, toM, err := sweepRange(eq.Params(req.Aperture, req.FocusDistanceM))
	if err != nil {
		return err
	}
	debug.Value("Sweep from", fromM)
	debug.Value("Sweep to", toM)
	rows, err := report.Sweep(req, eq, fromM, toM, n)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s + %s at f/%g\n\n", eq.Camera.Name(), eq.Lens.Name(), req.Aperture)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FOCUS\tNEAR\tFAR\tDOF")
	for _, r := range report.FormatSweep(rows, cfg.Display, cfg.Unit()) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Focus, r.NearLimit, r.FarLimit, r.TotalDOF)
	}
	return tw.Flush()
}

func printReport(w io.Writer, r *report.Report, s report.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(name, format string, args ...interface{}) {
		fmt.Fprintf(tw, "%s:\t%s\n", name, fmt.Sprintf(format, args...))
	}
	row("Camera", "%s", r.Camera)
	row("Lens", "%s", r.Lens)
	row("Aperture", "f/%g (recommended f/%g)", r.Params.Aperture, r.RecommendedAperture)
	row("Hyperfocal", "%s", s.Hyperfocal)
	row("Near limit", "%s", s.NearLimit)
	row("Far limit", "%s", s.FarLimit)
	row("Depth of field", "%s", s.TotalDOF)
	row("In focus", "%s", s.InFocusRange)
	row("Field of view", "%s (diagonal %.1f°)", s.FieldOfView, r.DiagonalFOVDeg)
	row("Coverage", "%s", s.Coverage)
	if s.GSDQuality != "" {
		row("GSD", "%s, %s", s.GSD, s.GSDQuality)
	} else {
		row("GSD", "%s", s.GSD)
	}
	row("Images", "%d across x %d down = %d", r.Plan.ImagesAcross, r.Plan.ImagesDown, r.Plan.TotalImages)
	row("Surface area", "%.2f m²", r.Plan.TotalSurfaceAreaM2)
	row("Storage", "JPEG %s, RAW %s", s.JPEG, s.RAW)
	_ = tw.Flush()

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}
}

func printCatalog(w io.Writer, cat *catalog.Catalog) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, sf := range cat.SensorFormats {
		cams := cat.CamerasForFormat(sf.ID)
		if len(cams) == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s (%.1f x %.1f mm, crop %.2f)\n", sf.Name, sf.WidthMm, sf.HeightMm, sf.CropFactor)
		for _, cam := range cams {
			var ids []string
			for _, l := range cat.CompatibleLenses(cam) {
				ids = append(ids, l.ID)
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", cam.ID, cam.Name(), cam.Mount, strings.Join(ids, ", "))
		}
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nApertures: %s\n", formatApertures(cat.Apertures))
}

func formatApertures(apertures []float64) string {
	parts := make([]string, len(apertures))
	for i, a := range apertures {
		parts[i] = "f/" + strconv.FormatFloat(a, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
