// Package driver dispatches parsed statements to the engine: it is the
// Go counterpart of the original implementation's Core class, replacing
// its ambient globals with an explicit Config and fixing the INCLUDE
// path-resolution bug noted in spec.md §9.
package driver

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	verrors "github.com/verily-lang/verily/errors"
	"github.com/verily-lang/verily/engine"
	"github.com/verily-lang/verily/parser"
	"github.com/verily-lang/verily/term"
)

// parseSource is a thin alias kept local to this package so driver's
// only parsing dependency is expressed at one call site.
func parseSource(src, file string) ([]term.Term, error) {
	return parser.ParseFile(src, file)
}

// Config carries every knob the original implementation kept as a
// global: debug logging, wall-clock timing, alternation, the pass
// budget, and whether to emit LaTeX.
type Config struct {
	Debug             bool
	Time              bool
	EnableAlternation bool
	PassLimit         int
	PrintLatex        bool
	Logger            *logrus.Logger
}

// Driver owns one engine session plus the bookkeeping needed to
// reproduce a run's final report: which theorems were added as axioms,
// which goals were successfully proved, and whether any statement
// failed.
type Driver struct {
	Engine *engine.Engine
	Cfg    Config

	AxiomIndices   []int
	ProvenTheorems []int
	SawError       bool

	runID uuid.UUID
	log   *logrus.Entry
}

// New constructs a Driver over a fresh engine, tagging the session with
// a correlation id carried on every log line this package emits.
func New(cfg Config) *Driver {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	id := uuid.New()
	entry := logger.WithField("run_id", id.String())

	eng := engine.New(engine.Config{
		PassLimit:         cfg.PassLimit,
		EnableAlternation: cfg.EnableAlternation,
		Logger:            logger,
	})
	return &Driver{
		Engine: eng,
		Cfg:    cfg,
		runID:  id,
		log:    entry,
	}
}

// RunID returns this session's correlation id, the same one attached to
// every log line the driver emits.
func (d *Driver) RunID() uuid.UUID {
	return d.runID
}

// DoFile reads, parses, and processes every statement in path,
// resolving any INCLUDE it contains relative to path's own directory.
func (d *Driver) DoFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return verrors.New("driver: reading %s: %v", path, err)
	}
	return d.RunSource(string(data), path)
}

// RunSource parses src (attributed to file for diagnostics and for
// resolving any INCLUDE it contains) and processes each statement in
// order.
func (d *Driver) RunSource(src, file string) error {
	stmts, err := parseSource(src, file)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := d.ProcessStatement(stmt, file); err != nil {
			return err
		}
	}
	return nil
}

// ProcessStatement dispatches a single top-level term per spec.md §6's
// statement table. curFile is the file stmt was parsed from; it anchors
// a nested INCLUDE's path resolution.
func (d *Driver) ProcessStatement(stmt term.Term, curFile string) error {
	if d.Cfg.Debug {
		d.log.WithField("statement", stmt.String()).Debug("processing statement")
	}

	switch stmt.Head {
	case "RULE":
		return d.processRule(stmt)

	case "AXIOM":
		thm := d.Engine.AddAxiom(child(stmt, 0))
		d.AxiomIndices = append(d.AxiomIndices, thm.Index)
		return nil

	case "PROVE_FORWARD":
		goal := child(stmt, 0)
		thm, ok := d.Engine.ForwardProve(goal, d.effectivePassLimit())
		if !ok {
			d.SawError = true
			d.log.WithField("goal", goal.String()).Warn("failed to prove (forward)")
			return nil
		}
		d.ProvenTheorems = append(d.ProvenTheorems, thm.Index)
		return nil

	case "PROVE_BACKWARD", "THEOREM":
		goal := child(stmt, 0)
		thm, ok := d.Engine.BackwardProve(goal, d.effectivePassLimit())
		if !ok {
			d.SawError = true
			d.log.WithField("goal", goal.String()).Warn("failed to prove (backward)")
			return nil
		}
		d.ProvenTheorems = append(d.ProvenTheorems, thm.Index)
		return nil

	case "PROVE_SMT":
		return verrors.New("driver: 'PROVE_SMT' is unimplemented")

	case "INCLUDE":
		written := child(stmt, 0).Head
		resolved := filepath.Join(filepath.Dir(curFile), written)
		return d.DoFile(resolved)

	default:
		d.log.WithField("head", stmt.Head).Warn("skipping unrecognized statement")
		return nil
	}
}

// processRule unpacks a (RULE (OVER v…) (GIVEN p…) (DEDUCE c) name)
// statement and registers the rule, mapping rule.ErrUnclassifiable to
// the driver's fatal error type per spec.md §7 category 1.
func (d *Driver) processRule(stmt term.Term) error {
	over := child(stmt, 0)
	given := child(stmt, 1)
	deduce := child(stmt, 2)
	name := child(stmt, 3).Head

	if name == "NULL" {
		name = ""
	}
	consequence := child(deduce, 0)

	_, err := d.Engine.AddRule(name, over.Children, given.Children, consequence)
	if err != nil {
		return verrors.New("driver: adding rule %q: %v", name, err)
	}
	return nil
}

// effectivePassLimit falls back to the engine's default when the
// driver's configured limit is unset.
func (d *Driver) effectivePassLimit() int {
	if d.Cfg.PassLimit <= 0 {
		return engine.DefaultPassLimit
	}
	return d.Cfg.PassLimit
}

// DumpState logs every known rule and theorem, mirroring the original
// implementation's --debug end-of-run summary, tagged with this
// session's run id like every other line the driver logs.
func (d *Driver) DumpState() {
	rules := d.Engine.Rules
	d.log.Infof("%d rules:", len(rules))
	for i, r := range rules {
		d.log.Infof(" %d %v", i, r)
	}
	known := d.Engine.Known()
	d.log.Infof("%d theorems:", len(known))
	for _, thm := range known {
		d.log.Infof(" %d %v", thm.Index, thm.Thm)
	}
}

func child(t term.Term, i int) term.Term {
	if i >= len(t.Children) {
		return term.Term{}
	}
	return t.Children[i]
}
