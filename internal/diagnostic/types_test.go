package diagnostic

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndMerge(t *testing.T) {
	var d Diagnostics
	d.AddInfo(CodeRootSkipped, "classpath root does not exist", "/missing", "")
	d.AddWarning(CodeClassUnreadable, "bad magic", "/cp", "com/example/Broken.class")

	var other Diagnostics
	other.AddWarning(CodeDuplicateClass, "declared twice", "persistence.xml", "com.example.Order")
	d.Merge(other)

	assert.True(t, d.HasWarnings())
	assert.Len(t, d.Warnings, 2)
	assert.Len(t, d.WithCode(CodeRootSkipped), 1)

	dups := d.WithCode(CodeDuplicateClass)
	require.Len(t, dups, 1)
	assert.Equal(t, "[persistence.xml] com.example.Order: [duplicate_class] declared twice", dups[0].String())
}

func TestDiagnostic_StringWithNames(t *testing.T) {
	diag := Diagnostic{
		Severity: DiagnosticWarning,
		Code:     CodeUndeclaredClasses,
		Message:  "classes on the class path are not declared",
		Location: "META-INF/persistence.xml",
		Names:    []string{"com.example.A", "com.example.B"},
	}

	assert.Equal(t,
		"[META-INF/persistence.xml]: [undeclared_classes] classes on the class path are not declared: [com.example.A, com.example.B]",
		diag.String())
}

func TestDiagnostics_Add(t *testing.T) {
	var d Diagnostics
	d.Add(Diagnostic{Severity: DiagnosticWarning, Code: "w"})
	d.Add(Diagnostic{Severity: DiagnosticInfo, Code: "i"})

	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.Infos, 1)
}

func TestDiagnostics_Emit(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	var d Diagnostics
	d.AddInfo(CodeRootSkipped, "skipped", "/a", "")
	d.AddWarning(CodeClassUnreadable, "truncated", "/b", "X.class")
	d.Emit(logger)

	out := buf.String()
	assert.Contains(t, out, "[root_skipped] skipped")
	assert.Contains(t, out, "[class_unreadable] truncated")
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}
