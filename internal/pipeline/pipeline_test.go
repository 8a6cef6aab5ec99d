package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-weaver/internal/classfile/classfiletest"
	"entity-weaver/internal/config"
	"entity-weaver/internal/descriptor"
	"entity-weaver/internal/diagnostic"
	"entity-weaver/internal/fault"
	"entity-weaver/internal/logging"
	"entity-weaver/internal/scan"
	"entity-weaver/internal/weave"
)

type failingWeaver struct {
	calls int
}

func (f *failingWeaver) Weave(context.Context, weave.Request) error {
	f.calls++

	return errors.New("weaver exited with status 1")
}

func writeClass(t *testing.T, dir, name string, annotations ...string) {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))+".class")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, classfiletest.Bytes(name, annotations...), 0o644))
}

// shop builds a source directory holding an entity and a converter.
func shop(t *testing.T) *config.Config {
	t.Helper()

	classes := filepath.Join(t.TempDir(), "classes")
	writeClass(t, classes, "Order", "javax.persistence.Entity")
	writeClass(t, classes, "OrderConverter", "javax.persistence.Converter")
	writeClass(t, classes, "OrderService")

	return &config.Config{
		Source:          classes,
		Target:          classes,
		PersistenceInfo: classes,
		UnitName:        "shop",
		SchemaVersion:   descriptor.Version22,
		LogLevel:        logging.LevelInfo,
	}
}

func writeDescriptor(t *testing.T, cfg *config.Config, xml string) {
	t.Helper()

	path := cfg.DescriptorPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o644))
}

func loadDescriptor(t *testing.T, cfg *config.Config) *descriptor.Descriptor {
	t.Helper()

	d, err := descriptor.NewStore(cfg.SchemaVersion).Load(cfg.DescriptorPath())
	require.NoError(t, err)

	return d
}

func TestRun_CreatesDescriptor(t *testing.T) {
	cfg := shop(t)
	w := &weave.NopWeaver{}

	var logs bytes.Buffer
	sum, err := New(WithWeaver(w), WithLogger(logging.New(&logs, logging.LevelInfo))).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, sum.Created)
	assert.True(t, sum.Saved)
	assert.True(t, sum.Woven)
	assert.Equal(t, []string{"Order", "OrderConverter"}, sum.Added)
	assert.Empty(t, sum.Undeclared)
	assert.Empty(t, sum.Diagnostics.WithCode(diagnostic.CodeUndeclaredClasses))

	d := loadDescriptor(t, cfg)
	assert.Equal(t, "shop", d.UnitName())
	assert.Equal(t, "2.2", d.Version())
	assert.Equal(t, []string{"Order", "OrderConverter"}, d.DeclaredNames())

	require.Len(t, w.Requests, 1)
	assert.Equal(t, weave.Request{
		SourceDir:       cfg.Source,
		TargetDir:       cfg.Target,
		PersistenceInfo: cfg.PersistenceInfo,
		Classpath:       []string{cfg.Source},
		LogLevel:        logging.LevelInfo,
	}, w.Requests[0])

	assert.Contains(t, logs.String(), "Entities found")
	assert.Contains(t, logs.String(), "count=2")
	assert.Contains(t, logs.String(), "weaving completed")
	assert.NotContains(t, logs.String(), "not declared")
}

func TestRun_ExistingDescriptorWarnsAndMerges(t *testing.T) {
	cfg := shop(t)
	writeDescriptor(t, cfg, `<?xml version="1.0" encoding="UTF-8"?>
<persistence version="2.2" xmlns="http://xmlns.jcp.org/xml/ns/persistence">
  <persistence-unit name="legacy">
    <class>Order</class>
  </persistence-unit>
</persistence>
`)

	var logs bytes.Buffer
	sum, err := New(WithWeaver(&weave.NopWeaver{}), WithLogger(logging.New(&logs, logging.LevelWarning))).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, sum.Created)
	assert.Equal(t, "legacy", sum.Unit)
	assert.Equal(t, []string{"OrderConverter"}, sum.Added)
	assert.Equal(t, []string{"OrderConverter"}, sum.Undeclared)

	warnings := sum.Diagnostics.WithCode(diagnostic.CodeUndeclaredClasses)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"OrderConverter"}, warnings[0].Names)
	assert.Contains(t, logs.String(), "OrderConverter")

	assert.Equal(t, []string{"Order", "OrderConverter"}, loadDescriptor(t, cfg).DeclaredNames())

	data, err := os.ReadFile(cfg.DescriptorPath())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "<class>Order</class>"))
}

func TestRun_Idempotent(t *testing.T) {
	cfg := shop(t)
	p := New(WithWeaver(&weave.NopWeaver{}))

	_, err := p.Run(context.Background(), cfg)
	require.NoError(t, err)

	first, err := os.ReadFile(cfg.DescriptorPath())
	require.NoError(t, err)

	sum, err := p.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, sum.Added)
	assert.False(t, sum.Diagnostics.HasWarnings())

	second, err := os.ReadFile(cfg.DescriptorPath())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestRun_PackageFilter(t *testing.T) {
	cfg := shop(t)
	writeClass(t, cfg.Source, "com.example.orders.LineItem", "jakarta.persistence.Embeddable")
	writeClass(t, cfg.Source, "com.example.ordersarchive.Old", "javax.persistence.Entity")
	cfg.Filter = scan.NewPackageFilter("com.example.orders")

	sum, err := New(WithWeaver(&weave.NopWeaver{})).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"com.example.orders.LineItem"}, sum.Added)
}

func TestRun_WeaverFailureAfterSave(t *testing.T) {
	cfg := shop(t)
	w := &failingWeaver{}

	sum, err := New(WithWeaver(w)).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrPipeline)
	assert.Equal(t, fault.ExitPipeline, fault.ExitCode(err))
	assert.Equal(t, 1, w.calls)

	require.NotNil(t, sum)
	assert.True(t, sum.Saved)
	assert.False(t, sum.Woven)
	assert.Equal(t, []string{"Order", "OrderConverter"}, loadDescriptor(t, cfg).DeclaredNames())
}

func TestRun_SkipWeave(t *testing.T) {
	cfg := shop(t)
	cfg.SkipWeave = true
	w := &failingWeaver{}

	sum, err := New(WithWeaver(w)).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, sum.Saved)
	assert.False(t, sum.Woven)
	assert.Zero(t, w.calls)
}

func TestRun_NoWeaverCommand(t *testing.T) {
	cfg := shop(t)

	sum, err := New().Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, sum.Saved)
	assert.False(t, sum.Woven)
}

func TestRun_ExecWeaverFromConfig(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	cfg := shop(t)
	cfg.WeaverCommand = []string{"sh", "-c", "exit 2"}

	_, err := New().Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrPipeline)
}

func TestRun_CheckModeWritesNothing(t *testing.T) {
	cfg := shop(t)
	cfg.ReportPath = filepath.Join(t.TempDir(), "report.yaml")
	w := &failingWeaver{}

	sum, err := New(WithWeaver(w), WithMode(ModeCheck)).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"Order", "OrderConverter"}, sum.Added)
	assert.False(t, sum.Saved)
	assert.Zero(t, w.calls)
	assert.NoFileExists(t, cfg.DescriptorPath())

	data, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "unit: shop")
	assert.Contains(t, string(data), "created: true")
}

func TestRun_InvalidConfigurationWritesNothing(t *testing.T) {
	cfg := shop(t)
	cfg.Source = filepath.Join(t.TempDir(), "absent")
	w := &failingWeaver{}

	_, err := New(WithWeaver(w)).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrConfiguration)
	assert.NoFileExists(t, cfg.DescriptorPath())
	assert.Zero(t, w.calls)

	_, err = New().Run(context.Background(), nil)
	assert.ErrorIs(t, err, fault.ErrConfiguration)
}

func TestRun_MalformedDescriptor(t *testing.T) {
	cfg := shop(t)
	writeDescriptor(t, cfg, "<persistence><broken")
	w := &failingWeaver{}

	_, err := New(WithWeaver(w)).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrMalformedDescriptor)
	assert.Zero(t, w.calls)

	data, err := os.ReadFile(cfg.DescriptorPath())
	require.NoError(t, err)
	assert.Equal(t, "<persistence><broken", string(data))
}

func TestRun_SchemaInvalidDescriptor(t *testing.T) {
	cfg := shop(t)
	writeDescriptor(t, cfg, `<persistence version="2.2" xmlns="http://xmlns.jcp.org/xml/ns/persistence">`+
		`<persistence-unit name="shop"><bogus/></persistence-unit></persistence>`)
	w := &failingWeaver{}

	_, err := New(WithWeaver(w)).Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrMalformedDescriptor)
	assert.Zero(t, w.calls)
}

func TestRun_DuplicateDeclarationsAreReportedAndCollapsed(t *testing.T) {
	cfg := shop(t)
	writeDescriptor(t, cfg, `<persistence version="2.2" xmlns="http://xmlns.jcp.org/xml/ns/persistence">
  <persistence-unit name="shop">
    <class>Order</class>
    <class>Order</class>
  </persistence-unit>
</persistence>
`)

	var logs bytes.Buffer
	sum, err := New(WithWeaver(&weave.NopWeaver{}), WithLogger(logging.New(&logs, logging.LevelWarning))).Run(context.Background(), cfg)
	require.NoError(t, err)

	dups := sum.Diagnostics.WithCode(diagnostic.CodeDuplicateClass)
	require.Len(t, dups, 1)
	assert.Equal(t, []string{"Order"}, dups[0].Names)
	assert.Contains(t, logs.String(), "duplicate_class")

	data, err := os.ReadFile(cfg.DescriptorPath())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "<class>Order</class>"))
}

func TestRun_UnreadableClasspathEntriesAreSkipped(t *testing.T) {
	cfg := shop(t)
	cfg.Classpath = []string{filepath.Join(t.TempDir(), "missing.jar")}

	w := &weave.NopWeaver{}

	sum, err := New(WithWeaver(w)).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{cfg.Source, cfg.Classpath[0]}, sum.Roots)
	assert.Equal(t, []string{cfg.Source}, sum.Readable)
	assert.NotEmpty(t, sum.Diagnostics.WithCode(diagnostic.CodeRootSkipped))

	require.Len(t, w.Requests, 1)
	assert.Equal(t, []string{cfg.Source}, w.Requests[0].Classpath, "missing entries are not passed to the weaver")
}

func TestDiscover(t *testing.T) {
	cfg := shop(t)

	res, err := New().Discover(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Order", "OrderConverter"}, res.Classes.Names())
	assert.True(t, res.Classes["OrderConverter"].Markers.Has(scan.Converter))
}
