package logging

import (
	"strings"

	"github.com/charmbracelet/log"

	"entity-weaver/internal/common"
	"entity-weaver/internal/fault"
)

// Level is a build log threshold.
type Level int

const (
	LevelOff Level = iota
	LevelSevere
	LevelWarning
	LevelInfo
	LevelConfig
	LevelFine
	LevelFiner
	LevelFinest
	LevelAll
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = LevelWarning

var levelNames = map[Level]string{
	LevelOff:     "OFF",
	LevelSevere:  "SEVERE",
	LevelWarning: "WARNING",
	LevelInfo:    "INFO",
	LevelConfig:  "CONFIG",
	LevelFine:    "FINE",
	LevelFiner:   "FINER",
	LevelFinest:  "FINEST",
	LevelAll:     "ALL",
}

// String returns the canonical upper-case name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}

	return common.UnknownStr
}

// ParseLevel parses a level name, ignoring case and surrounding space.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}

	if hint, ok := common.Suggest(s, LevelNames()); ok {
		return 0, fault.Configurationf("unknown log level %q (did you mean %s?)", s, hint)
	}

	return 0, fault.Configurationf("unknown log level %q (expected one of %s)", s, strings.Join(LevelNames(), ", "))
}

// LevelNames lists the accepted level names from least to most verbose.
func LevelNames() []string {
	names := make([]string, 0, len(levelNames))
	for l := LevelOff; l <= LevelAll; l++ {
		names = append(names, levelNames[l])
	}

	return names
}

func (l Level) charmLevel() log.Level {
	switch {
	case l <= LevelSevere:
		return log.ErrorLevel
	case l == LevelWarning:
		return log.WarnLevel
	case l <= LevelConfig:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}
