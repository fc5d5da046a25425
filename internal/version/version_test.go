package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringIncludesBuildMetadata(t *testing.T) {
	originalVersion := Version
	originalCommit := Commit
	originalDate := Date
	t.Cleanup(func() {
		Version = originalVersion
		Commit = originalCommit
		Date = originalDate
	})

	Version = "0.3.0"
	Commit = "f00dcafe"
	Date = "2026-08-23"

	got := String()
	require.Contains(t, got, "osttpop 0.3.0")
	require.Contains(t, got, "commit=f00dcafe")
	require.Contains(t, got, "date=2026-08-23")
	require.Contains(t, got, "go=")
}
