package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadFromMissingFileIsNotAnError(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.IsEmpty())
}

func TestLoadFromValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
scan:
  include: ["docs/**"]
  exclude: ["**/drafts/**"]
check:
  jobs: 4
  checkAnchors: true
  sources: ./src
output:
  githubActions: true
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/**"}, cfg.Scan.Include)
	assert.Equal(t, []string{"**/drafts/**"}, cfg.Scan.Exclude)
	assert.Equal(t, 4, cfg.Check.Jobs)
	assert.True(t, cfg.Check.CheckAnchors)
	assert.Equal(t, "./src", cfg.Check.Sources)
	assert.True(t, cfg.Output.GithubActions)
	assert.False(t, cfg.IsEmpty())
}

func TestLoadFromInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "scan: [this is not valid: yaml")

	cfg, err := LoadFrom(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidateRejectsBadGlobAndNegativeJobs(t *testing.T) {
	cfg := &Config{Check: CheckConfig{Jobs: -1}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Scan: ScanConfig{Include: []string{"["}}}
	assert.Error(t, cfg.Validate())
}

func TestMergeIsAdditiveForSlicesAndOverridingForScalars(t *testing.T) {
	base := &Config{Scan: ScanConfig{Include: []string{"a/**"}}}
	other := &Config{
		Scan:  ScanConfig{Include: []string{"b/**"}},
		Check: CheckConfig{Jobs: 8, CheckAnchors: true},
	}
	base.Merge(other)

	assert.Equal(t, []string{"a/**", "b/**"}, base.Scan.Include)
	assert.Equal(t, 8, base.Check.Jobs)
	assert.True(t, base.Check.CheckAnchors)
}

func TestGetJobsPrefersExplicitCLIFlag(t *testing.T) {
	cfg := &Config{Check: CheckConfig{Jobs: 4}}
	assert.Equal(t, 4, cfg.GetJobs(0, 0))
	assert.Equal(t, 16, cfg.GetJobs(16, 0))
}

func TestGetSourcesPrefersCLIValue(t *testing.T) {
	cfg := &Config{Check: CheckConfig{Sources: "./config-src"}}
	assert.Equal(t, "./config-src", cfg.GetSources(""))
	assert.Equal(t, "./cli-src", cfg.GetSources("./cli-src"))
}

func TestFindAndLoadWalksUpToParent(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "check:\n  jobs: 2\n")
	child := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(child, 0o755))

	cfg, err := FindAndLoad(child)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Check.Jobs)
}
