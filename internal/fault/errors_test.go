package fault

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := IO("write", "/tmp/persistence.xml", fs.ErrPermission)

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, ErrScan)

	var fe *Error
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, "write /tmp/persistence.xml", fe.Op)
}

func TestError_Message(t *testing.T) {
	err := Configurationf("<basePackage> and <basePackages> are mutually exclusive")
	assert.Equal(t, "configuration error: <basePackage> and <basePackages> are mutually exclusive", err.Error())

	err = Malformed("a.xml", errors.New("no root"))
	assert.Equal(t, "load a.xml: malformed descriptor: no root", err.Error())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"configuration", Configurationf("bad"), ExitConfiguration},
		{"scan", Scan("no roots", nil), ExitScan},
		{"malformed", Malformed("p", errors.New("x")), ExitMalformedDescriptor},
		{"io", IO("read", "p", fs.ErrNotExist), ExitIO},
		{"pipeline", Pipeline("weaver failed", errors.New("exit 1")), ExitPipeline},
		{"wrapped", fmt.Errorf("run: %w", Pipeline("weaver failed", nil)), ExitPipeline},
		{"other", errors.New("boom"), ExitInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
