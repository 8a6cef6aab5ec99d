package pipeline

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"

	"entity-weaver/internal/config"
	"entity-weaver/internal/descriptor"
	"entity-weaver/internal/diagnostic"
	"entity-weaver/internal/fault"
	"entity-weaver/internal/logging"
	"entity-weaver/internal/reconcile"
	"entity-weaver/internal/report"
	"entity-weaver/internal/scan"
	"entity-weaver/internal/weave"
)

// Mode selects how far Run goes.
type Mode int

const (
	// ModeWeave saves the descriptor and runs the weaver.
	ModeWeave Mode = iota
	// ModeCheck reconciles in memory only; nothing but the report is written.
	ModeCheck
)

// Summary describes what a run found and did.
type Summary struct {
	Unit           string
	DescriptorPath string
	// Created is true when no descriptor existed before the run.
	Created bool
	// Roots are the configured classpath roots, source first.
	Roots []string
	// Readable are the roots the scanner could read; only these reach the
	// weaver.
	Readable []string
	// Discovered is the scanned class set after filtering.
	Discovered scan.ClassSet
	// Added lists the class entries merged into the descriptor.
	Added []string
	// Undeclared lists discovered classes an existing descriptor lacked.
	Undeclared  []string
	Saved       bool
	Woven       bool
	Diagnostics diagnostic.Diagnostics
}

// Pipeline wires the scanner, the descriptor store and the weaver.
type Pipeline struct {
	scanner *scan.Scanner
	weaver  weave.Weaver
	logger  *log.Logger
	mode    Mode
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithScanner replaces the default scanner.
func WithScanner(s *scan.Scanner) Option {
	return func(p *Pipeline) { p.scanner = s }
}

// WithWeaver sets the weaver. Without one, Run builds an ExecWeaver from
// the configured weaver command.
func WithWeaver(w weave.Weaver) Option {
	return func(p *Pipeline) { p.weaver = w }
}

// WithLogger sets the build logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithMode sets the run mode.
func WithMode(m Mode) Option {
	return func(p *Pipeline) { p.mode = m }
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: logging.Discard()}

	for _, opt := range opts {
		opt(p)
	}

	if p.scanner == nil {
		p.scanner = scan.NewScanner(scan.WithLogger(p.logger))
	}

	return p
}

// Discover validates cfg and scans its classpath.
func (p *Pipeline) Discover(ctx context.Context, cfg *config.Config) (*scan.Result, error) {
	if cfg == nil {
		return nil, fault.Configurationf("no configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if p.logger.GetLevel() <= log.DebugLevel {
		p.logger.Debug("resolved configuration\n" + spew.Sdump(cfg))
	}

	if !cfg.Filter.IsEmpty() {
		p.logger.Info("Only entities from base packages will be included", "packages", cfg.Filter.String())
	}

	roots := cfg.Roots()
	p.logger.Debug("Scanning class-path", "roots", strings.Join(roots, ", "))

	res, err := p.scanner.Scan(ctx, roots, cfg.Filter)
	if res != nil {
		res.Diagnostics.Emit(p.logger)
	}

	if err != nil {
		return res, err
	}

	p.logger.Info("Entities found", "count", len(res.Classes))

	return res, nil
}

// Run executes the pipeline for cfg.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config) (*Summary, error) {
	found, err := p.Discover(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Unit:           cfg.UnitName,
		DescriptorPath: cfg.DescriptorPath(),
		Roots:          cfg.Roots(),
		Readable:       found.Roots,
		Discovered:     found.Classes,
	}
	sum.Diagnostics.Merge(found.Diagnostics)

	d, err := p.loadOrCreate(cfg, sum)
	if err != nil {
		return sum, err
	}

	rec := reconcile.Reconcile(found.Classes, d, reconcile.Options{
		WarnUndeclared: !sum.Created,
		Location:       sum.DescriptorPath,
	})
	rec.Diagnostics.Emit(p.logger)
	sum.Diagnostics.Merge(rec.Diagnostics)
	sum.Added = rec.ToAdd
	sum.Undeclared = rec.Undeclared

	if p.mode == ModeWeave {
		if err := descriptor.NewStore(cfg.SchemaVersion).Save(d, sum.DescriptorPath); err != nil {
			return sum, err
		}

		sum.Saved = true
		p.logger.Info("persistence.xml updated", "added", len(sum.Added))
	}

	if cfg.ReportPath != "" {
		r := report.New(sum.Unit, sum.DescriptorPath, sum.Created, sum.Discovered, sum.Added, sum.Undeclared)
		if err := r.Write(cfg.ReportPath); err != nil {
			return sum, err
		}

		p.logger.Info("report written", "path", cfg.ReportPath)
	}

	if p.mode != ModeWeave {
		return sum, nil
	}

	if err := p.weave(ctx, cfg, sum); err != nil {
		return sum, err
	}

	return sum, nil
}

func (p *Pipeline) loadOrCreate(cfg *config.Config, sum *Summary) (*descriptor.Descriptor, error) {
	store := descriptor.NewStore(cfg.SchemaVersion)

	p.logger.Info("persistence.xml location", "path", sum.DescriptorPath)

	exists, err := store.Exists(sum.DescriptorPath)
	if err != nil {
		return nil, err
	}

	if !exists {
		sum.Created = true
		p.logger.Info("creating persistence.xml", "unit", cfg.UnitName)

		return store.Create(cfg.UnitName), nil
	}

	d, err := store.Load(sum.DescriptorPath)
	if err != nil {
		return nil, err
	}

	sum.Unit = d.UnitName()

	return d, nil
}

func (p *Pipeline) weave(ctx context.Context, cfg *config.Config, sum *Summary) error {
	if cfg.SkipWeave {
		p.logger.Info("weaving skipped")

		return nil
	}

	w := p.weaver
	if w == nil {
		if len(cfg.WeaverCommand) == 0 {
			p.logger.Warn("no weaver command configured, classes were not woven")

			return nil
		}

		ew, err := weave.NewExecWeaver(cfg.WeaverCommand, p.logger)
		if err != nil {
			return fault.Configurationf("weaver command: %v", err)
		}

		w = ew
	}

	p.logger.Info("Source classes dir", "path", cfg.Source)
	p.logger.Info("Target classes dir", "path", cfg.Target)

	err := w.Weave(ctx, weave.Request{
		SourceDir:       cfg.Source,
		TargetDir:       cfg.Target,
		PersistenceInfo: cfg.PersistenceInfo,
		Classpath:       sum.Readable,
		LogLevel:        cfg.LogLevel,
	})
	if err != nil {
		return fault.Pipeline("weaving failed", err)
	}

	sum.Woven = true
	p.logger.Info("weaving completed")

	return nil
}
