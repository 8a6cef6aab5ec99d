package scan

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"entity-weaver/internal/classfile"
	"entity-weaver/internal/diagnostic"
	"entity-weaver/internal/fault"
	"entity-weaver/internal/logging"
)

const classSuffix = ".class"

// archiveExtensions are the root file types read as zip archives.
var archiveExtensions = []string{".jar", ".zip", ".war"}

// archiveClassDirs are in-archive prefixes under which classes are laid out
// by packaging conventions.
var archiveClassDirs = []string{"WEB-INF/classes/", "BOOT-INF/classes/"}

// Scanner finds marker-annotated classes under classpath roots.
type Scanner struct {
	probe   MarkerProbe
	logger  *log.Logger
	workers int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithProbe replaces the default AnnotationProbe.
func WithProbe(p MarkerProbe) Option {
	return func(s *Scanner) { s.probe = p }
}

// WithLogger sets the logger used for per-root progress.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) { s.logger = l.WithPrefix("scan") }
}

// WithWorkers bounds the number of roots read concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewScanner creates a Scanner.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		probe:   AnnotationProbe{},
		logger:  logging.Discard(),
		workers: min(runtime.GOMAXPROCS(0), 8),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// rootResult is the outcome of scanning one root. ok is false when the root
// itself could not be read.
type rootResult struct {
	ok          bool
	classes     ClassSet
	classesRead int
	diags       diagnostic.Diagnostics
}

// Scan reads every root and returns the classes inside filter that carry at
// least one marker. Roots are read concurrently; the merged result does not
// depend on scheduling.
//
// When no root can be read the error wraps fault.ErrScan and the partial
// Result is still returned so its diagnostics can be reported.
func (s *Scanner) Scan(ctx context.Context, roots []string, filter PackageFilter) (*Result, error) {
	if len(roots) == 0 {
		return &Result{Classes: make(ClassSet)}, fault.Scan("no classpath roots given", nil)
	}

	results := make([]rootResult, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, root := range roots {
		g.Go(func() error {
			res, err := s.scanRoot(gctx, root, filter)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning classpath: %w", err)
	}

	out := &Result{Classes: make(ClassSet)}

	for i, res := range results {
		out.Diagnostics.Merge(res.diags)
		if !res.ok {
			continue
		}

		out.Roots = append(out.Roots, roots[i])
		out.RootsScanned++
		out.ClassesRead += res.classesRead

		for _, c := range res.classes.Sorted() {
			out.Classes.Add(c)
		}
	}

	if out.RootsScanned == 0 {
		return out, fault.Scan(fmt.Sprintf("none of the %d classpath roots could be read", len(roots)), nil)
	}

	return out, nil
}

// scanRoot returns an error only for context cancellation; every other
// failure is recorded as a diagnostic.
func (s *Scanner) scanRoot(ctx context.Context, root string, filter PackageFilter) (rootResult, error) {
	res := rootResult{classes: make(ClassSet)}

	info, err := os.Stat(root)
	if err != nil {
		res.diags.AddInfo(diagnostic.CodeRootSkipped, fmt.Sprintf("classpath root is not readable: %v", err), root, "")
		return res, nil
	}

	switch {
	case info.IsDir():
		err = s.scanDir(ctx, root, filter, &res)
	case isArchive(root):
		err = s.scanArchive(ctx, root, filter, &res)
	default:
		res.diags.AddInfo(diagnostic.CodeRootSkipped, "classpath root is neither a directory nor an archive", root, "")
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	if err != nil {
		res.ok = false
		res.diags.AddWarning(diagnostic.CodeRootSkipped, fmt.Sprintf("classpath root could not be read: %v", err), root, "")

		return res, nil
	}

	res.ok = true
	s.logger.Debug("scanned classpath root", "root", root, "classes", res.classesRead, "matches", len(res.classes))

	return res, nil
}

func (s *Scanner) scanDir(ctx context.Context, root string, filter PackageFilter, res *rootResult) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return err
			}

			res.diags.AddWarning(diagnostic.CodeEntrySkipped, err.Error(), root, path)

			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), classSuffix) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		name, ok := candidateName(filepath.ToSlash(rel))
		if !ok || !filter.Matches(name) {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			res.diags.AddWarning(diagnostic.CodeClassUnreadable, err.Error(), root, rel)
			return nil
		}
		defer f.Close()

		s.inspect(f, filter, root, rel, res)

		return nil
	})
}

func (s *Scanner) scanArchive(ctx context.Context, root string, filter PackageFilter, res *rootResult) error {
	zr, err := zip.OpenReader(root)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		if entry.FileInfo().IsDir() || !strings.HasSuffix(entry.Name, classSuffix) {
			continue
		}

		entryPath := entry.Name
		for _, dir := range archiveClassDirs {
			entryPath = strings.TrimPrefix(entryPath, dir)
		}

		if strings.HasPrefix(entryPath, "META-INF/") {
			continue
		}

		name, ok := candidateName(entryPath)
		if !ok || !filter.Matches(name) {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			res.diags.AddWarning(diagnostic.CodeClassUnreadable, err.Error(), root, entry.Name)
			continue
		}

		s.inspect(rc, filter, root, entry.Name, res)
		_ = rc.Close()
	}

	return nil
}

// inspect parses one class file and records it when it carries a marker.
func (s *Scanner) inspect(r io.Reader, filter PackageFilter, root, entry string, res *rootResult) {
	cf, err := classfile.Parse(r)
	if err != nil {
		msg := err.Error()
		if !errors.Is(err, classfile.ErrMalformed) {
			msg = "read failed: " + msg
		}

		res.diags.AddWarning(diagnostic.CodeClassUnreadable, msg, root, entry)

		return
	}

	res.classesRead++

	// The path only suggests the name; the class file is authoritative.
	if cf.IsModuleInfo() || !filter.Matches(cf.Name()) {
		return
	}

	markers := markersOf(s.probe, cf)
	if markers == 0 {
		return
	}

	res.classes.Add(DiscoveredClass{Name: cf.Name(), Markers: markers, Root: root})
}

// candidateName derives a dotted class name from a slash-separated entry
// path. Module and package descriptors are rejected.
func candidateName(entryPath string) (string, bool) {
	base := strings.TrimSuffix(entryPath, classSuffix)

	switch {
	case base == "module-info", strings.HasSuffix(base, "/module-info"):
		return "", false
	case base == "package-info", strings.HasSuffix(base, "/package-info"):
		return "", false
	}

	return classfile.InternalToBinary(base), true
}

func isArchive(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range archiveExtensions {
		if ext == e {
			return true
		}
	}

	return false
}
