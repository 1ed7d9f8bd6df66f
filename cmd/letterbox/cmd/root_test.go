package cmd

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/badno/letterbox/internal/images"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(w, h, image.Black)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestRootConvertsFolder(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "b.png"), 20, 10)
	writePNG(t, filepath.Join(in, "a.png"), 10, 20)
	reportFile := filepath.Join(t.TempDir(), "run.json")

	rootCmd.SetArgs([]string{
		"--config", filepath.Join(in, "absent.yaml"),
		"--path", in,
		"--size", "8",
		"--quiet",
		"--report", reportFile,
	})
	require.NoError(t, rootCmd.Execute())

	assert.FileExists(t, filepath.Join(in, "converted", "1000.png"))
	assert.FileExists(t, filepath.Join(in, "converted", "1001.png"))

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	var rep struct {
		Entries []struct {
			Source string `json:"source"`
			Output string `json:"output"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &rep))
	require.Len(t, rep.Entries, 2)
	assert.Equal(t, "a.png", rep.Entries[0].Source)
	assert.Equal(t, "1000.png", rep.Entries[0].Output)
}

func TestRootRejectsZeroSize(t *testing.T) {
	in := t.TempDir()

	rootCmd.SetArgs([]string{
		"--config", filepath.Join(in, "absent.yaml"),
		"--path", in,
		"--size", "0",
		"--quiet",
		"--report", "",
	})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, images.ErrConfig)
	assert.NoDirExists(t, filepath.Join(in, "converted"))
}

func TestScanPrintsPlanWithoutWriting(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "b.png"), 20, 10)
	writePNG(t, filepath.Join(in, "a.png"), 10, 20)
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{
		"scan",
		"--config", filepath.Join(in, "absent.yaml"),
		"--path", in,
		"--size", "8",
		"--quiet",
	})
	require.NoError(t, rootCmd.Execute())

	converted := filepath.Join(in, "converted")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"a.png\t" + filepath.Join(converted, "1000.png"),
		"b.png\t" + filepath.Join(converted, "1001.png"),
	}, lines)
	assert.NoDirExists(t, converted)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "LETTERBOX_RESIZE__SIZE", envName("resize.size"))
	assert.Equal(t, "LETTERBOX_BATCH__BASE_INDEX", envName("batch.base_index"))
}
