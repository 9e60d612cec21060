package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONIndents(t *testing.T) {
	data, err := ToJSON(map[string]any{"file": "song.wav", "frames": 12})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "{\n  "))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "song.wav", decoded["file"])
	assert.Equal(t, float64(12), decoded["frames"])
}

func TestSaveJSONCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "nested", "out.json")

	require.NoError(t, SaveJSON(map[string]string{"k": "v"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"k": "v"`)
}

func TestPointCloudCSV3D(t *testing.T) {
	emb := [][]float64{
		{1.5, -2.25, 0.125},
		{0, 1, 2},
	}
	out, err := PointCloudCSV(emb, []float64{0, 0.1}, []float64{-30, -20})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "t,x,y,z,energy", lines[0])
	assert.Equal(t, "0,1.5,-2.25,0.125,-30", lines[1])
	assert.Equal(t, "0.1,0,1,2,-20", lines[2])
}

func TestPointCloudCSV2D(t *testing.T) {
	out, err := PointCloudCSV([][]float64{{1, 2}}, []float64{0}, []float64{-10})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "t,x,y,energy", lines[0])
	assert.Equal(t, "0,1,2,-10", lines[1])
}

func TestPointCloudCSVRejectsBadInput(t *testing.T) {
	_, err := PointCloudCSV(nil, nil, nil)
	assert.Error(t, err)

	_, err = PointCloudCSV([][]float64{{1, 2, 3, 4}}, []float64{0}, []float64{0})
	assert.Error(t, err)

	_, err = PointCloudCSV([][]float64{{1, 2, 3}}, []float64{0, 1}, []float64{0})
	assert.Error(t, err)

	// Ragged rows
	_, err = PointCloudCSV([][]float64{{1, 2, 3}, {1, 2}}, []float64{0, 1}, []float64{0, 0})
	assert.Error(t, err)
}

func TestSavePointCloudCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud.csv")

	require.NoError(t, SavePointCloudCSV([][]float64{{1, 2, 3}}, []float64{0}, []float64{-5}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "t,x,y,z,energy\n"))
}
