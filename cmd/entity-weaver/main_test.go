package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-weaver/internal/classfile/classfiletest"
	"entity-weaver/internal/fault"
)

// workspace lays out a project directory named shop with compiled classes.
func workspace(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "shop")
	classes := filepath.Join(dir, "classes")
	require.NoError(t, os.MkdirAll(classes, 0o755))

	for name, annotation := range map[string]string{
		"Order":          "javax.persistence.Entity",
		"OrderConverter": "javax.persistence.Converter",
	} {
		data := classfiletest.Bytes(name, annotation)
		require.NoError(t, os.WriteFile(filepath.Join(classes, name+".class"), data, 0o644))
	}

	return dir
}

func execute(t *testing.T, dir string, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut, dir)

	return code, out.String(), errOut.String()
}

func descriptorPath(dir string) string {
	return filepath.Join(dir, "classes", "META-INF", "persistence.xml")
}

func TestWeave_CreatesDescriptor(t *testing.T) {
	dir := workspace(t)

	code, _, stderr := execute(t, dir, "weave", "--source", "classes", "--skip-weave", "--log-level", "INFO")
	require.Equal(t, fault.ExitSuccess, code, stderr)

	data, err := os.ReadFile(descriptorPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), `<persistence-unit name="shop">`)
	assert.Contains(t, string(data), "<class>Order</class>")
	assert.Contains(t, string(data), "<class>OrderConverter</class>")
	assert.Contains(t, stderr, "Entities found")
}

func TestWeave_ConflictingFilters(t *testing.T) {
	dir := workspace(t)

	code, _, stderr := execute(t, dir, "weave", "--source", "classes",
		"--base-package", "com.a", "--base-packages", "com.b")

	assert.Equal(t, fault.ExitConfiguration, code)
	assert.Contains(t, stderr, "base-package")
	assert.NoFileExists(t, descriptorPath(dir))
}

func TestWeave_MissingSource(t *testing.T) {
	dir := workspace(t)

	code, _, stderr := execute(t, dir, "weave", "--source", "nowhere")
	assert.Equal(t, fault.ExitConfiguration, code)
	assert.Contains(t, stderr, "nowhere")
}

func TestWeave_MalformedDescriptor(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(descriptorPath(dir)), 0o755))
	require.NoError(t, os.WriteFile(descriptorPath(dir), []byte("<persistence/>"), 0o644))

	code, _, stderr := execute(t, dir, "weave", "--source", "classes", "--skip-weave")
	assert.Equal(t, fault.ExitMalformedDescriptor, code)
	assert.Contains(t, stderr, "persistence.xml")
}

func TestWeave_ConfigFile(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entity-weaver.yaml"),
		[]byte("source: classes\nskip-weave: true\nunit-name: orders\n"), 0o644))

	code, _, stderr := execute(t, dir, "weave")
	require.Equal(t, fault.ExitSuccess, code, stderr)

	data, err := os.ReadFile(descriptorPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), `<persistence-unit name="orders">`)
}

func TestCheck_ReportsWithoutWriting(t *testing.T) {
	dir := workspace(t)

	code, stdout, stderr := execute(t, dir, "check", "--source", "classes")
	require.Equal(t, fault.ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Order\n")
	assert.Contains(t, stdout, "OrderConverter\n")
	assert.NoFileExists(t, descriptorPath(dir))

	code, _, _ = execute(t, dir, "check", "--source", "classes", "--strict")
	assert.Equal(t, fault.ExitInternal, code)
}

func TestCheck_UpToDate(t *testing.T) {
	dir := workspace(t)

	code, _, stderr := execute(t, dir, "weave", "--source", "classes", "--skip-weave")
	require.Equal(t, fault.ExitSuccess, code, stderr)

	code, stdout, stderr := execute(t, dir, "check", "--source", "classes", "--strict")
	require.Equal(t, fault.ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "declares all 2 discovered classes")
}

func TestScan_PrintsTable(t *testing.T) {
	dir := workspace(t)

	code, stdout, stderr := execute(t, dir, "scan", "--source", "classes")
	require.Equal(t, fault.ExitSuccess, code, stderr)

	lines := strings.Split(stdout, "\n")
	var rows []string
	for _, l := range lines {
		if strings.Contains(l, "Order") {
			rows = append(rows, l)
		}
	}

	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "Entity")
	assert.Contains(t, rows[1], "Converter")
	assert.NoFileExists(t, descriptorPath(dir))
}

func TestScan_NoClasses(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "classes")))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "classes"), 0o755))

	code, stdout, stderr := execute(t, dir, "scan", "--source", "classes")
	require.Equal(t, fault.ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "No persistence classes found")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := execute(t, t.TempDir(), "--version")
	assert.Equal(t, fault.ExitSuccess, code)
	assert.Contains(t, stdout, "entity-weaver version")
}

func TestScan_SplitsPackageAndClass(t *testing.T) {
	dir := workspace(t)

	data := classfiletest.Bytes("com.example.orders.LineItem", "jakarta.persistence.Embeddable")
	path := filepath.Join(dir, "classes", "com", "example", "orders", "LineItem.class")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))

	code, stdout, stderr := execute(t, dir, "scan", "--source", "classes", "--base-package", "com.example")
	require.Equal(t, fault.ExitSuccess, code, stderr)

	assert.Contains(t, stdout, "com.example.orders")
	assert.Contains(t, stdout, "LineItem")
	assert.Contains(t, stdout, "Embeddable")
	assert.NotContains(t, stdout, "OrderConverter")
}
