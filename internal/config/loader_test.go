package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// testLoader returns a loader whose search paths point into a temp dir, so
// tests never touch the real user or system config.
func testLoader(t *testing.T, searchPaths ...string) *Loader {
	t.Helper()
	return &Loader{EnvVar: "STRATO_CONFIG_TEST_UNSET", SearchPaths: searchPaths}
}

func TestLoaderExplicitPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeConfig(t, dir, "strato.toml", "[ec2]\nregion = \"us-west-2\"\n")

	doc, err := testLoader(t).Load(&Source{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", doc.Section("ec2")["region"])
}

func TestLoaderReader(t *testing.T) {
	t.Parallel()
	doc, err := testLoader(t).Load(&Source{
		Reader: strings.NewReader("[lxd]\nkey_name = \"ci\"\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ci", doc.Section("lxd")["key_name"])
}

func TestLoaderSearchPathOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	user := writeConfig(t, dir, "user.toml", "[ec2]\nregion = \"from-user\"\n")
	system := writeConfig(t, dir, "system.toml", "[ec2]\nregion = \"from-system\"\n")

	// First existing candidate wins; candidates are never merged.
	doc, err := testLoader(t, user, system).Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-user", doc.Section("ec2")["region"])

	// A missing earlier candidate advances to the next.
	doc, err = testLoader(t, filepath.Join(dir, "missing.toml"), system).Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-system", doc.Section("ec2")["region"])
}

func TestLoaderEnvVarPath(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "env.toml", "[gce]\nproject = \"p\"\n")
	t.Setenv("STRATO_CONFIG", path)

	loader := &Loader{EnvVar: "STRATO_CONFIG"}
	doc, err := loader.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "p", doc.Section("gce")["project"])
}

func TestLoaderNothingFound(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	_, err := testLoader(t, a, b).Load(nil)

	var nf *SourceNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{a, b}, nf.Attempted)
	assert.Contains(t, err.Error(), a)
	assert.Contains(t, err.Error(), b)
}

func TestLoaderMalformedFileIsFatal(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	broken := writeConfig(t, dir, "broken.toml", "[ec2\nregion=\n")
	valid := writeConfig(t, dir, "valid.toml", "[ec2]\nregion = \"us-west-2\"\n")

	// Must not fall back to the valid later candidate.
	_, err := testLoader(t, valid).Load(&Source{Path: broken})

	var pe *SourceParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, broken, pe.Location)
	assert.NotNil(t, pe.Unwrap())
}

func TestLoaderMalformedReader(t *testing.T) {
	t.Parallel()
	_, err := testLoader(t).Load(&Source{Reader: strings.NewReader("not [ valid toml")})

	var pe *SourceParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "<stream>", pe.Location)
}

func TestLoaderRejectsScalarTopLevelKey(t *testing.T) {
	t.Parallel()
	_, err := testLoader(t).Load(&Source{Reader: strings.NewReader("region = \"us-west-2\"\n")})

	var pe *SourceParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "region")
}

func TestDocumentSectionAbsentProvider(t *testing.T) {
	t.Parallel()
	doc, err := testLoader(t).Load(&Source{Reader: strings.NewReader("[ec2]\nregion = \"r\"\n")})
	require.NoError(t, err)

	section := doc.Section("oci")
	assert.NotNil(t, section)
	assert.Empty(t, section)
}

func TestLoaderParsesScalarKinds(t *testing.T) {
	t.Parallel()
	doc, err := testLoader(t).Load(&Source{Reader: strings.NewReader(
		"[qemu]\nimage_dir = \"/srv/images\"\nheadless = true\nsmp = 4\n")})
	require.NoError(t, err)

	section := doc.Section("qemu")
	assert.Equal(t, "/srv/images", section["image_dir"])
	assert.Equal(t, true, section["headless"])
	assert.Equal(t, int64(4), section["smp"])
}
