// mach-analyze runs the audio analysis pipeline on a single file and
// prints a feature summary as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/birdmach/mach/analysis"
	"github.com/birdmach/mach/export"
	"github.com/birdmach/mach/transcode"
)

func main() {
	sr := flag.Int("sr", 22050, "target sample rate")
	output := flag.String("o", "", "save JSON output to file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] AUDIO_FILE\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	audioPath := flag.Arg(0)

	if err := run(audioPath, *sr, *output); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(audioPath string, sampleRate int, output string) error {
	if _, err := os.Stat(audioPath); err != nil {
		return fmt.Errorf("file not found: %s", audioPath)
	}

	fmt.Printf("Loading %s ...\n", audioPath)
	dc := transcode.DefaultDecoderConfig()
	dc.TargetSampleRate = sampleRate
	audio, err := transcode.NewDecoder(dc).DecodeFile(context.Background(), audioPath)
	if err != nil {
		return err
	}
	fmt.Printf("  Loaded %.2fs at %d Hz\n", audio.Duration.Seconds(), audio.SampleRate)

	fmt.Println("Analyzing ...")
	summary, err := analysis.NewAnalyzer().Summarize(audio.PCM, audio.SampleRate)
	if err != nil {
		return err
	}

	result := map[string]any{
		"file":    audioPath,
		"summary": summary,
	}
	data, err := export.ToJSON(result)
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if output != "" {
		if err := export.SaveJSON(result, output); err != nil {
			return err
		}
		fmt.Printf("\nSaved to %s\n", output)
	}
	return nil
}
