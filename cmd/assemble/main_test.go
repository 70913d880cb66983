package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assemble/internal/app"
	"go.trai.ch/assemble/internal/core/domain"
)

// graftProvider builds fresh components for every run, since cached nodes
// would share a closed telemetry session.
func graftProvider(ctx context.Context) (*app.Components, func(), error) {
	graft.ResetDefaultCache()
	c, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		return nil, func() {}, err
	}
	return c, func() { _ = c.Close() }, nil
}

func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	full := append([]string{
		"-c", "user.name=assemble",
		"-c", "user.email=assemble@example.com",
		"-c", "commit.gpgsign=false",
		"-c", "init.defaultBranch=main",
	}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

func newUpstream(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	gitCmd(t, dir, "init")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte(name+"\n"), 0o600))
	gitCmd(t, dir, "add", "README")
	gitCmd(t, dir, "commit", "-m", "initial")
	return gitCmd(t, dir, "rev-parse", "HEAD")
}

func writeManifest(t *testing.T, root, upstream string, names ...string) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "<manifest>\n  <remote name=\"local\" fetch=\"%s/{name}\"/>\n  <default remote=\"local\"/>\n", upstream)
	for _, n := range names {
		fmt.Fprintf(&b, "  <project name=%q path=\"src/%s\"/>\n", n, n)
	}
	b.WriteString("</manifest>\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.DefaultManifestFile), []byte(b.String()), 0o600))
}

func TestRun_InitError(t *testing.T) {
	var stderr bytes.Buffer
	code := run(context.Background(), []string{"sync"}, &bytes.Buffer{}, &stderr,
		func(context.Context) (*app.Components, func(), error) {
			return nil, func() {}, errors.New("boom")
		})

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: boom\n", stderr.String())
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	code := run(context.Background(), []string{"version"}, &stdout, &bytes.Buffer{}, graftProvider)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "assemble version")
}

func TestRun_SyncAndStatus(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("NO_COLOR", "1")

	upstream := t.TempDir()
	heads := map[string]string{
		"alpha": newUpstream(t, upstream, "alpha"),
		"beta":  newUpstream(t, upstream, "beta"),
	}

	root := t.TempDir()
	writeManifest(t, root, upstream, "alpha", "beta")
	ledgerPath := filepath.Join(root, domain.DefaultLedgerPath())

	t.Run("sync records every project", func(t *testing.T) {
		var stdout bytes.Buffer
		code := run(context.Background(),
			[]string{"sync", "--root", root, "-j", "2", "-o", "json", "--log-format", "json"},
			&stdout, &bytes.Buffer{}, graftProvider)
		require.Equal(t, 0, code)

		var entries []domain.LedgerEntry
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &entries))
		assert.Equal(t, []domain.LedgerEntry{
			{Path: "src/alpha", Commit: heads["alpha"]},
			{Path: "src/beta", Commit: heads["beta"]},
		}, entries)

		data, err := os.ReadFile(ledgerPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "[commits]")
		assert.Contains(t, string(data), "src/alpha = "+heads["alpha"])
	})

	t.Run("status reports in-sync trees", func(t *testing.T) {
		var stdout bytes.Buffer
		code := run(context.Background(),
			[]string{"status", "--root", root, "-o", "json", "--log-format", "json"},
			&stdout, &bytes.Buffer{}, graftProvider)
		require.Equal(t, 0, code)

		var statuses []domain.ProjectStatus
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &statuses))
		require.Len(t, statuses, 2)
		for _, s := range statuses {
			assert.Equal(t, domain.WorkTreeInSync, s.State, s.Path)
		}
	})

	t.Run("failed sync leaves the ledger untouched", func(t *testing.T) {
		before, err := os.ReadFile(ledgerPath)
		require.NoError(t, err)

		writeManifest(t, root, upstream, "alpha", "gamma")
		code := run(context.Background(),
			[]string{"sync", "--root", root, "--log-format", "json"},
			&bytes.Buffer{}, &bytes.Buffer{}, graftProvider)
		assert.Equal(t, 1, code)

		after, err := os.ReadFile(ledgerPath)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})
}
