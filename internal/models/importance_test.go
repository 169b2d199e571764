package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseImportanceClass(t *testing.T) {
	cases := map[string]ImportanceClass{
		"top":          ImportanceTop,
		"TOP":          ImportanceTop,
		"cached-empty": ImportanceCachedEmpty,
		"2":            ImportanceTop,
		" 0 ":          ImportancePersistent,
		"nonexistent":  ImportanceNonexistent,
	}
	for input, want := range cases {
		got, err := ParseImportanceClass(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "foreground", "-1", "99"} {
		_, err := ParseImportanceClass(bad)
		require.Error(t, err, bad)
	}
}

func TestImportanceClassOrdering(t *testing.T) {
	require.True(t, ImportanceCachedEmpty.LessImportantThan(ImportanceTop))
	require.False(t, ImportanceTop.LessImportantThan(ImportanceTop))
	require.False(t, ImportancePersistent.LessImportantThan(ImportanceTop))
}

func TestImportanceClassYAML(t *testing.T) {
	var doc struct {
		ByName   ImportanceClass `yaml:"byName"`
		ByNumber ImportanceClass `yaml:"byNumber"`
	}
	err := yaml.Unmarshal([]byte("byName: service\nbyNumber: 4\n"), &doc)
	require.NoError(t, err)
	require.Equal(t, ImportanceService, doc.ByName)
	require.Equal(t, ImportanceForegroundService, doc.ByNumber)

	err = yaml.Unmarshal([]byte("byName: [top]\n"), &doc)
	require.Error(t, err)
}

func TestCorrelationWindowExpiry(t *testing.T) {
	w := CorrelationWindow{Duration: 10}
	require.False(t, w.Expired(w.OpenedAt.Add(10)))
	require.True(t, w.Expired(w.OpenedAt.Add(11)))
}
