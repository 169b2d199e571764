package models

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportanceClass orders how visible an application's process currently is. Lower values
// are more foregrounded; the ordering follows the platform process states.
type ImportanceClass int

const (
	ImportancePersistent ImportanceClass = iota
	ImportancePersistentUI
	ImportanceTop
	ImportanceBoundTop
	ImportanceForegroundService
	ImportanceBoundForegroundService
	ImportanceImportantForeground
	ImportanceImportantBackground
	ImportanceTransientBackground
	ImportanceBackup
	ImportanceService
	ImportanceReceiver
	ImportanceTopSleeping
	ImportanceHeavyWeight
	ImportanceHome
	ImportanceLastActivity
	ImportanceCachedActivity
	ImportanceCachedActivityClient
	ImportanceCachedRecent
	ImportanceCachedEmpty
	ImportanceNonexistent
)

var importanceNames = [...]string{
	ImportancePersistent:             "persistent",
	ImportancePersistentUI:           "persistent_ui",
	ImportanceTop:                    "top",
	ImportanceBoundTop:               "bound_top",
	ImportanceForegroundService:      "foreground_service",
	ImportanceBoundForegroundService: "bound_foreground_service",
	ImportanceImportantForeground:    "important_foreground",
	ImportanceImportantBackground:    "important_background",
	ImportanceTransientBackground:    "transient_background",
	ImportanceBackup:                 "backup",
	ImportanceService:                "service",
	ImportanceReceiver:               "receiver",
	ImportanceTopSleeping:            "top_sleeping",
	ImportanceHeavyWeight:            "heavy_weight",
	ImportanceHome:                   "home",
	ImportanceLastActivity:           "last_activity",
	ImportanceCachedActivity:         "cached_activity",
	ImportanceCachedActivityClient:   "cached_activity_client",
	ImportanceCachedRecent:           "cached_recent",
	ImportanceCachedEmpty:            "cached_empty",
	ImportanceNonexistent:            "nonexistent",
}

// Valid reports whether c is one of the known classes.
func (c ImportanceClass) Valid() bool {
	return c >= ImportancePersistent && c <= ImportanceNonexistent
}

// LessImportantThan reports whether c is strictly more backgrounded than other.
func (c ImportanceClass) LessImportantThan(other ImportanceClass) bool {
	return c > other
}

func (c ImportanceClass) String() string {
	if !c.Valid() {
		return "importance(" + strconv.Itoa(int(c)) + ")"
	}
	return importanceNames[c]
}

// ParseImportanceClass accepts a class name ("top", "cached-empty") or its numeric value.
func ParseImportanceClass(value string) (ImportanceClass, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return 0, fmt.Errorf("empty importance class")
	}
	if n, err := strconv.Atoi(v); err == nil {
		c := ImportanceClass(n)
		if !c.Valid() {
			return 0, fmt.Errorf("importance class %d out of range", n)
		}
		return c, nil
	}
	v = strings.ReplaceAll(v, "-", "_")
	for i, name := range importanceNames {
		if name == v {
			return ImportanceClass(i), nil
		}
	}
	return 0, fmt.Errorf("unknown importance class %q", value)
}

// MarshalText implements encoding.TextMarshaler.
func (c ImportanceClass) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid importance class %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ImportanceClass) UnmarshalText(text []byte) error {
	parsed, err := ParseImportanceClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML accepts both scalar names and integers.
func (c *ImportanceClass) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: importance class must be a scalar", node.Line)
	}
	return c.UnmarshalText([]byte(node.Value))
}
