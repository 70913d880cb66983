package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assemble/internal/core/domain"
)

func TestDefaultSettings(t *testing.T) {
	s := domain.DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, filepath.Join(".", "manifest.xml"), s.ManifestPath())
	assert.Equal(t, filepath.Join(".", ".assemble", "commits.ini"), s.LedgerPath())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Settings)
	}{
		{"negative jobs", func(s *domain.Settings) { s.Jobs = -1 }},
		{"negative depth", func(s *domain.Settings) { s.Depth = -2 }},
		{"unknown log format", func(s *domain.Settings) { s.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			tt.mutate(&s)
			require.ErrorIs(t, s.Validate(), domain.ErrInvalidSettings)
		})
	}
}

func TestSettings_AbsolutePathsAreKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "m.xml")
	s := domain.DefaultSettings()
	s.Root = "/somewhere/else"
	s.Manifest = abs
	assert.Equal(t, abs, s.ManifestPath())
	assert.Equal(t, filepath.Join("/somewhere/else", ".assemble", "commits.ini"), s.LedgerPath())
}
