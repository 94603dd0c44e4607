// Command relief builds a region map from a GeoJSON file without the
// desktop host. It prints a summary of the assembled regions and can probe
// a pixel position the way the pointer would.
//
// Flags default to the RELIEF_DATASET, RELIEF_STYLE, RELIEF_KERNEL and
// RELIEF_VERBOSITY environment variables, which may also come from a .env
// file in the working directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chazu/relief/pkg/geo"
	"github.com/chazu/relief/pkg/highlight"
	"github.com/chazu/relief/pkg/interact"
	"github.com/chazu/relief/pkg/kernel/kernels"
	"github.com/chazu/relief/pkg/projection"
	"github.com/chazu/relief/pkg/scene"
	"github.com/chazu/relief/pkg/style"
	"github.com/chazu/relief/pkg/tessellate"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"
)

type config struct {
	dataset   string
	style     string
	kernel    string
	verbosity int
	probe     string
	width     float64
	height    float64
}

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := config{}
	flag.StringVar(&cfg.dataset, "dataset", os.Getenv("RELIEF_DATASET"), "GeoJSON FeatureCollection to load")
	flag.StringVar(&cfg.style, "style", os.Getenv("RELIEF_STYLE"), "style file (empty for defaults)")
	flag.StringVar(&cfg.kernel, "kernel", os.Getenv("RELIEF_KERNEL"), "mesh kernel: "+strings.Join(kernels.Names(), ", "))
	flag.IntVar(&cfg.verbosity, "v", envInt("RELIEF_VERBOSITY", 0), "log verbosity")
	flag.StringVar(&cfg.probe, "probe", "", "pixel position x,y to pick")
	flag.Float64Var(&cfg.width, "width", 1280, "viewport width in pixels")
	flag.Float64Var(&cfg.height, "height", 800, "viewport height in pixels")
	flag.Parse()

	stdr.SetVerbosity(cfg.verbosity)
	logger := stdr.NewWithOptions(log.New(os.Stderr, "", log.LstdFlags), stdr.Options{LogCaller: stdr.All}).WithName("relief")

	if err := run(cfg, logger, os.Stdout); err != nil {
		logger.Error(err, "failed")
		os.Exit(1)
	}
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

// stdoutDisplay records the info display text for printing.
type stdoutDisplay struct {
	text    string
	visible bool
}

func (d *stdoutDisplay) SetText(text string)     { d.text = text }
func (d *stdoutDisplay) SetVisible(visible bool) { d.visible = visible }

func run(cfg config, log logr.Logger, out io.Writer) error {
	if cfg.dataset == "" {
		return errors.New("no dataset: set -dataset or RELIEF_DATASET")
	}

	st, err := loadStyle(cfg.style)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.dataset)
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}
	ds, err := geo.Parse(data, log)
	if err != nil {
		return err
	}
	for _, w := range geo.Validate(ds) {
		log.Info("dataset warning", "warning", w.String())
	}

	k, err := kernels.ByName(cfg.kernel)
	if err != nil {
		return err
	}
	opts := append(st.BuilderOptions(), tessellate.WithLogger(log))
	b := tessellate.NewBuilder(projection.New(st.ProjectionFor(ds.Min, ds.Max)), k, opts...)
	coll, err := tessellate.Assemble(ds.Features, b)
	if err != nil {
		return err
	}

	printSummary(out, coll)

	if cfg.probe == "" {
		return nil
	}
	x, y, err := parsePoint(cfg.probe)
	if err != nil {
		return err
	}
	display := &stdoutDisplay{}
	session := interact.NewSession(coll, highlight.New(coll, display, st.Highlight, highlight.WithLogger(log)), log)
	session.Pointer.Move(x, y, cfg.width, cfg.height)
	r := session.Frame(st.NewCamera(cfg.width / cfg.height))
	if r.Hit == nil {
		fmt.Fprintf(out, "\nprobe (%g, %g): no region\n", x, y)
		return nil
	}
	fmt.Fprintf(out, "\nprobe (%g, %g): %s (mesh %d) at distance %.3f\n",
		x, y, display.text, r.Hit.Mesh.(*scene.RegionMesh).Index, r.Hit.Distance)
	return nil
}

func loadStyle(path string) (*style.Style, error) {
	if path == "" {
		return style.Default(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading style: %w", err)
	}
	st, evalErrs, err := style.NewEngine().Evaluate(string(src))
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("style %s: %s", path, strings.Join(msgs, "; "))
	}
	return st, nil
}

func parsePoint(s string) (x, y float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("probe %q: want x,y", s)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, fmt.Errorf("probe %q: %w", s, err)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, fmt.Errorf("probe %q: %w", s, err)
	}
	return x, y, nil
}

func printSummary(out io.Writer, coll *scene.Collection) {
	parts := make([]int, len(coll.Regions))
	pickable := make([]int, len(coll.Regions))
	for _, m := range coll.Meshes {
		parts[m.Region]++
		if m.Eligible() {
			pickable[m.Region]++
		}
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tNAME\tPARTS\tPICKABLE")
	for _, r := range coll.Regions {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", r.Index, r.Name(), parts[r.Index], pickable[r.Index])
	}
	tw.Flush()
	fmt.Fprintf(out, "%d regions, %d meshes\n", len(coll.Regions), len(coll.Meshes))
}
