// mach-batch analyzes every audio file under a directory and writes a
// JSON summary per file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/birdmach/mach/analysis"
	"github.com/birdmach/mach/export"
	"github.com/birdmach/mach/transcode"
	"github.com/birdmach/mach/webapp"
)

func main() {
	output := flag.String("o", "results", "output directory")
	sr := flag.Int("sr", 22050, "target sample rate")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] AUDIO_DIR\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputDir := flag.Arg(0)

	if err := run(inputDir, *output, *sr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// findAudioFiles recursively collects supported audio files under dir.
func findAudioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && webapp.ValidateAudioExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func run(inputDir, outputDir string, sampleRate int) error {
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", inputDir)
	}

	audioFiles, err := findAudioFiles(inputDir)
	if err != nil {
		return err
	}
	if len(audioFiles) == 0 {
		fmt.Printf("No audio files found in %s\n", inputDir)
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	fmt.Printf("Found %d audio file(s)\n", len(audioFiles))

	dc := transcode.DefaultDecoderConfig()
	dc.TargetSampleRate = sampleRate
	decoder := transcode.NewDecoder(dc)
	analyzer := analysis.NewAnalyzer()

	for i, audioPath := range audioFiles {
		fmt.Printf("  [%d/%d] %s ... ", i+1, len(audioFiles), filepath.Base(audioPath))

		audio, err := decoder.DecodeFile(context.Background(), audioPath)
		if err != nil {
			fmt.Printf("FAIL (%v)\n", err)
			continue
		}
		summary, err := analyzer.Summarize(audio.PCM, audio.SampleRate)
		if err != nil {
			fmt.Printf("FAIL (%v)\n", err)
			continue
		}

		stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
		outPath := filepath.Join(outputDir, stem+".json")
		if err := export.SaveJSON(map[string]any{
			"file":    audioPath,
			"summary": summary,
		}, outPath); err != nil {
			fmt.Printf("FAIL (%v)\n", err)
			continue
		}
		fmt.Println("OK")
	}

	fmt.Printf("\nResults saved to %s/\n", outputDir)
	return nil
}
