package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"
	"github.com/cursork/pixelperfect/catalog"
	"github.com/cursork/pixelperfect/paint"
)

var version = "dev"

var errUnknownStart = errors.New("unknown start pattern")

func main() {
	configPath := flag.String("config", "", "Config file (default: search pixelperfect.toml, then the user config dir)")
	catalogPath := flag.String("catalog", "", "Extra pattern file (.toml, .yaml or .yml)")
	start := flag.String("start", "", "Pattern ID to start the test at")
	logPath := flag.String("log", "", "Append log records to this file")
	profile := flag.String("profile", "", "Color profile: auto, truecolor, ansi256, ansi, ascii")
	windowed := flag.Bool("windowed", false, "Run tests without switching to the alternate screen")
	list := flag.Bool("list", false, "List the pattern sequence and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("pixelperfect", version)
		return
	}

	cfg, path, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Flags override config
	if *catalogPath != "" {
		cfg.Catalog.File = *catalogPath
	}
	if *start != "" {
		cfg.Session.Start = *start
	}
	if *logPath != "" {
		cfg.Log.File = *logPath
	}
	if *profile != "" {
		cfg.Display.Profile = *profile
	}
	if *windowed {
		cfg.Session.Fullscreen = false
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	painter, err := newPainter(cfg)
	if err != nil {
		log.Fatal(err)
	}
	cat, err := buildCatalog(cfg.Catalog, painter.Registry())
	if err != nil {
		log.Fatal(err)
	}
	startID, startOK := resolveStart(cat, cfg.Session.Start)
	if !startOK && *start != "" {
		log.Fatal(unknownStart(cat, *start))
	}
	cfg.Session.Start = startID

	if *list {
		listPatterns(cat)
		return
	}

	level, _ := cfg.LogLevel()
	logger, ring, closer, err := newLogger(cfg.Log.File, level)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()
	if path != "" {
		logger.Info("config loaded", "path", path)
	}
	if !startOK {
		logger.Warn("start pattern not in catalog, using the first", "err", unknownStart(cat, cfg.Session.Start))
	}

	display := newTerminalDisplay(os.Stdout)
	model := NewModel(cfg, cat, painter, display, logger, ring)
	defer model.ctrl.Close()

	p := tea.NewProgram(model, tea.WithMouseAllMotion())
	display.Attach(p)
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		log.Fatal(err)
	}
}

func newPainter(cfg Config) (*paint.Painter, error) {
	p, ok, err := cfg.ColorProfile()
	if err != nil {
		return nil, err
	}
	if !ok {
		p = colorprofile.Detect(os.Stdout, os.Environ())
	}
	return paint.New(p, cfg.Display.HalfBlock), nil
}

// buildCatalog assembles the pattern sequence: the built-in patterns, the
// catalog file appended or in their place, then the configured selection.
func buildCatalog(cc CatalogConfig, reg catalog.Registry) (*catalog.Catalog, error) {
	cat, err := catalog.Builtin(reg)
	if err != nil {
		return nil, err
	}

	if cc.File != "" {
		extra, err := catalog.LoadFile(cc.File, reg)
		if err != nil {
			return nil, err
		}
		if cc.Mode == "replace" {
			cat, err = catalog.New(extra)
		} else {
			cat, err = cat.Append(extra...)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cc.File, err)
		}
	}

	return cat.Select(cc.Sequence)
}

// resolveStart finds the catalog ID for a start pattern. IDs match exactly
// first, then ignoring case. Unknown IDs come back unchanged.
func resolveStart(cat *catalog.Catalog, id string) (string, bool) {
	if _, ok := cat.IndexOf(id); ok {
		return id, true
	}
	for _, d := range cat.All() {
		if strings.EqualFold(d.ID, id) {
			return d.ID, true
		}
	}
	return id, false
}

// unknownStart reports an unknown start pattern, naming the closest ID in
// the catalog when one is near enough to be a typo.
func unknownStart(cat *catalog.Catalog, id string) error {
	best, bestDist := "", -1
	for _, d := range cat.All() {
		dist := levenshtein.ComputeDistance(strings.ToLower(id), d.ID)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = d.ID, dist
		}
	}
	if bestDist >= 0 && bestDist <= max(len(id)/3, 2) {
		return fmt.Errorf("%w: %q (did you mean %q?)", errUnknownStart, id, best)
	}
	return fmt.Errorf("%w: %q", errUnknownStart, id)
}

func listPatterns(cat *catalog.Catalog) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tKIND\tNAME")
	for i, d := range cat.All() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, d.ID, d.Kind, d.Name)
	}
	w.Flush()
}
