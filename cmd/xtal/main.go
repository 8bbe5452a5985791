// Command xtal deduplicates and cross-matches batches of crystal structures
// stored as plain JSON records (lattice rows + fractional sites).
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/xtalgo/xtal/batch"
	"github.com/xtalgo/xtal/compare"
	"github.com/xtalgo/xtal/crystal"
	"github.com/xtalgo/xtal/lattice"
	"github.com/xtalgo/xtal/matcher"
)

const version = "0.1.0"

// CLI defines the command-line interface for xtal.
var CLI struct {
	// Matching tolerances (shared by all commands).
	LTol        float64 `name:"ltol" default:"0.2" help:"Relative lattice length tolerance."`
	STol        float64 `name:"stol" default:"0.3" help:"Site position tolerance (tolerance-scale units)."`
	AngleTol    float64 `name:"angle-tol" default:"5" help:"Cell angle tolerance in degrees."`
	NoPrimitive bool    `help:"Disable primitive-cell folding before comparison."`
	NoScale     bool    `help:"Disable volume normalization of tolerances."`
	ElementOnly bool    `help:"Compare species by element only, ignoring oxidation states."`

	// Batch execution.
	Workers int    `default:"0" help:"Worker goroutines for batch scans (0 = all CPUs)."`
	OnError string `default:"skip" enum:"skip,fail" help:"Batch policy on per-structure errors."`

	Verbose bool `short:"v" help:"Enable debug logging."`

	Dedup   DedupCmd   `cmd:"" help:"Collapse a structure list to unique representatives."`
	Match   MatchCmd   `cmd:"" help:"Match new structures against an existing set."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// DedupCmd reads one JSON structure list and prints equivalence groups.
type DedupCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON array of structures."`
}

// MatchCmd matches each structure in NEW against EXISTING.
type MatchCmd struct {
	New      string `arg:"" type:"existingfile" help:"JSON array of new structures."`
	Existing string `arg:"" type:"existingfile" help:"JSON array of existing structures."`
}

// VersionCmd prints the tool version.
type VersionCmd struct{}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("xtal"),
		kong.Description("Structure matching and deduplication for crystal batches."),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})
	if CLI.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := ctx.Run(logger); err != nil {
		logger.Fatal("command failed", "err", err)
	}
}

// newEngine assembles the matcher and batch engine from the global flags.
func newEngine() (*batch.Engine, error) {
	opts := []matcher.Option{
		matcher.WithLatticeLengthTol(CLI.LTol),
		matcher.WithSitePosTol(CLI.STol),
		matcher.WithAngleTol(CLI.AngleTol),
		matcher.WithPrimitiveCell(!CLI.NoPrimitive),
		matcher.WithScale(!CLI.NoScale),
	}
	if CLI.ElementOnly {
		opts = append(opts, matcher.WithComparator(compare.ElementComparator{}))
	}

	bopts := []batch.Option{}
	if CLI.Workers > 0 {
		bopts = append(bopts, batch.WithWorkers(CLI.Workers))
	}
	if CLI.OnError == "fail" {
		bopts = append(bopts, batch.WithOnError(batch.OnErrorFail))
	}

	return batch.New(matcher.New(opts...), bopts...)
}

// Run collapses the input list and reports one line per equivalence group.
func (c *DedupCmd) Run(logger *log.Logger) error {
	structs, err := loadStructures(c.File)
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}

	start := time.Now()
	reps, err := eng.Deduplicate(structs)
	if err != nil {
		return err
	}
	logger.Info("deduplicated", "total", len(structs), "unique", len(reps), "took", time.Since(start))

	// Group membership: each structure joins its first matching representative.
	matches, err := eng.FindMatches(structs, structs)
	if err != nil {
		return err
	}
	groups := make(map[int][]int, len(reps))
	for i, m := range matches {
		if m == batch.NoMatch {
			logger.Debug("skipped structure", "index", i)
			continue
		}
		groups[m] = append(groups[m], i)
	}
	for _, rep := range reps {
		fmt.Printf("group rep=%d size=%d members=%v formula=%s\n",
			rep, len(groups[rep]), groups[rep], structs[rep].Composition().ReducedFormula())
	}

	return nil
}

// Run reports, per new structure, the lowest-index match in the existing set.
func (c *MatchCmd) Run(logger *log.Logger) error {
	newS, err := loadStructures(c.New)
	if err != nil {
		return err
	}
	existing, err := loadStructures(c.Existing)
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}

	start := time.Now()
	matches, err := eng.FindMatches(newS, existing)
	if err != nil {
		return err
	}
	logger.Info("matched", "new", len(newS), "existing", len(existing), "took", time.Since(start))

	for i, m := range matches {
		if m == batch.NoMatch {
			fmt.Printf("%d: no match\n", i)
			continue
		}
		fmt.Printf("%d: matches existing %d\n", i, m)
	}

	return nil
}

// Run prints the version.
func (VersionCmd) Run(*log.Logger) error {
	fmt.Println("xtal", version)

	return nil
}

// structureDoc is the on-disk JSON shape: lattice rows in ångström plus
// fractional sites. Format parsing stays out of the library; this decoder
// is the CLI's own concern.
type structureDoc struct {
	Lattice [3][3]float64 `json:"lattice"`
	Sites   []struct {
		Element   string     `json:"element"`
		Oxidation int        `json:"oxidation,omitempty"`
		Frac      [3]float64 `json:"frac"`
		Occupancy float64    `json:"occupancy,omitempty"`
	} `json:"sites"`
}

// loadStructures decodes a JSON array of structureDoc into validated
// structures.
func loadStructures(path string) ([]*crystal.Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []structureDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make([]*crystal.Structure, 0, len(docs))
	for i, doc := range docs {
		lat, err := lattice.New(doc.Lattice)
		if err != nil {
			return nil, fmt.Errorf("%s: structure %d: %w", path, i, err)
		}
		sites := make([]crystal.Site, len(doc.Sites))
		for j, sd := range doc.Sites {
			sites[j] = crystal.Site{
				Species:   crystal.Species{Element: sd.Element, Oxidation: sd.Oxidation},
				Frac:      lattice.Vec3(sd.Frac),
				Occupancy: sd.Occupancy,
			}
		}
		s, err := crystal.NewStructure(lat, sites)
		if err != nil {
			return nil, fmt.Errorf("%s: structure %d: %w", path, i, err)
		}
		out = append(out, s)
	}

	return out, nil
}
