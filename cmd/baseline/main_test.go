package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/baseline/internal/report"
	"github.com/specvital/baseline/pkg/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestAnalyze_JSON(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/app.js":      "const x = a?.b;\neval(input);\n",
		"styles/main.css": "@layer base;\n",
	})

	out, err := execute(t, "analyze", root, "--format", "json")

	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 2, rep.FilesScanned)
	assert.Equal(t, 2, rep.FilesMatched)
	assert.Equal(t, 1, rep.Stats.SecurityIssues)
	assert.Len(t, rep.Files, 2)
}

func TestAnalyze_ConfigFile(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/app.js":      "eval(input);\n",
		"styles/main.css": "@layer base;\n",
		"baseline.toml":   "[scan]\ninclude = [\"**/*.css\"]\n",
	})

	out, err := execute(t, "analyze", root, "--format", "json")

	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Files, 1)
	assert.Equal(t, "styles/main.css", rep.Files[0].Path)
}

func TestAnalyze_FlagsOverrideConfig(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/app.js":      "eval(input);\n",
		"styles/main.css": "@layer base;\n",
		"baseline.toml":   "[scan]\ninclude = [\"**/*.css\"]\n",
	})

	out, err := execute(t, "analyze", root, "--format", "json", "--include", "**/*.js")

	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Files, 1)
	assert.Equal(t, "src/app.js", rep.Files[0].Path)
}

func TestAnalyze_FailUnder(t *testing.T) {
	root := writeProject(t, map[string]string{"app.js": "eval(input);\n"})

	_, err := execute(t, "analyze", root, "--format", "json", "--fail-under", "50")

	assert.ErrorIs(t, err, errScoreBelowThreshold)
}

func TestAnalyze_OutputFile(t *testing.T) {
	root := writeProject(t, map[string]string{"app.js": "const y = a ?? b;\n"})
	outPath := filepath.Join(t.TempDir(), "report.msgpack")

	stdout, err := execute(t, "analyze", root, "--format", "msgpack", "--output", outPath)

	require.NoError(t, err)
	assert.Empty(t, stdout)
	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	rep, err := report.ReadMsgpack(f)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.FilesMatched)
}

func TestAnalyze_UnknownFormat(t *testing.T) {
	_, err := execute(t, "analyze", t.TempDir(), "--format", "xml")

	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestFeatures(t *testing.T) {
	t.Run("should list all features as json", func(t *testing.T) {
		out, err := execute(t, "features", "--format", "json")

		require.NoError(t, err)
		var features []domain.Feature
		require.NoError(t, json.Unmarshal([]byte(out), &features))
		require.NotEmpty(t, features)
		assert.Equal(t, "optional-chaining", features[0].ID)
	})

	t.Run("should filter by level", func(t *testing.T) {
		out, err := execute(t, "features", "--format", "json", "--level", "not-baseline")

		require.NoError(t, err)
		var features []domain.Feature
		require.NoError(t, json.Unmarshal([]byte(out), &features))
		require.NotEmpty(t, features)
		for _, f := range features {
			assert.Equal(t, domain.LevelNotBaseline, f.Status.Level, f.ID)
		}
	})

	t.Run("should apply metadata file", func(t *testing.T) {
		meta := filepath.Join(t.TempDir(), "data.json")
		require.NoError(t, os.WriteFile(meta, []byte(`{"features":{"eval-usage":{"description":"Runs a string as code","status":{"baseline":"high","baseline_low_date":"2015-07-29","baseline_high_date":"2018-01-29"}}}}`), 0o644))

		out, err := execute(t, "features", "--format", "json", "--metadata", meta, "--level", "widely")

		require.NoError(t, err)
		var features []domain.Feature
		require.NoError(t, json.Unmarshal([]byte(out), &features))
		var found bool
		for _, f := range features {
			if f.ID == "eval-usage" {
				found = true
				assert.Equal(t, "Runs a string as code", f.Description)
			}
		}
		assert.True(t, found)
	})

	t.Run("should print text table", func(t *testing.T) {
		out, err := execute(t, "features")

		require.NoError(t, err)
		assert.Contains(t, out, "optional-chaining")
		assert.Contains(t, out, "Widely Available")
	})

	t.Run("should reject unknown level", func(t *testing.T) {
		_, err := execute(t, "features", "--level", "sometimes")

		assert.Error(t, err)
	})
}
