package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New creates the build logger writing to w at the given threshold.
func New(w io.Writer, level Level) *log.Logger {
	if level == LevelOff {
		w = io.Discard
	}

	return log.NewWithOptions(w, log.Options{
		Level:  level.charmLevel(),
		Prefix: "entity-weaver",
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, LevelOff)
}
