// Package export serializes analysis summaries and embedding point
// clouds to JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ToJSON serializes v with two-space indentation.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// SaveJSON writes v as indented JSON to path, creating parent
// directories as needed.
func SaveJSON(v any, path string) error {
	data, err := ToJSON(v)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// PointCloudCSV renders an embedding as CSV rows of
// t,x,y[,z],energy. Emb rows must all share the same width (2 or 3).
func PointCloudCSV(emb [][]float64, times, energy []float64) (string, error) {
	if len(emb) == 0 {
		return "", fmt.Errorf("empty embedding")
	}
	dims := len(emb[0])
	if dims != 2 && dims != 3 {
		return "", fmt.Errorf("embedding has %d components, want 2 or 3", dims)
	}
	if len(times) != len(emb) || len(energy) != len(emb) {
		return "", fmt.Errorf("series length mismatch: %d rows, %d times, %d energies",
			len(emb), len(times), len(energy))
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"t", "x", "y", "energy"}
	if dims == 3 {
		header = []string{"t", "x", "y", "z", "energy"}
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	rec := make([]string, dims+2)
	for i, row := range emb {
		if len(row) != dims {
			return "", fmt.Errorf("embedding row %d has %d components, want %d", i, len(row), dims)
		}
		rec[0] = formatFloat(times[i])
		for j, v := range row {
			rec[1+j] = formatFloat(v)
		}
		rec[dims+1] = formatFloat(energy[i])
		if err := w.Write(rec); err != nil {
			return "", fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}

// SavePointCloudCSV writes the point cloud CSV to path.
func SavePointCloudCSV(emb [][]float64, times, energy []float64, path string) error {
	data, err := PointCloudCSV(emb, times, energy)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write csv file: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
