// mach-render converts an audio file into a standalone HTML page with
// an interactive 3D embedding of its log-mel frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/birdmach/mach/export"
	"github.com/birdmach/mach/features"
	"github.com/birdmach/mach/transcode"
	"github.com/birdmach/mach/umap"
	"github.com/birdmach/mach/viz"
)

func main() {
	input := flag.String("input", "", "path to input WAV/audio file (required)")
	output := flag.String("output", "", "path to output HTML (required)")
	multiView := flag.Bool("multi-view", false, "render 3 stacked camera views")
	connect := flag.Bool("connect", false, "draw lines connecting points over time")
	colorBy := flag.String("color-by", "time", "color points by: time, energy or flatness")
	stride := flag.Int("stride", 2, "downsample frames by taking every Nth frame")
	csvOut := flag.String("csv", "", "also write the point cloud as CSV")

	fcfg := features.DefaultConfig()
	flag.IntVar(&fcfg.SampleRate, "sr", fcfg.SampleRate, "target sample rate")
	flag.IntVar(&fcfg.NFFT, "n-fft", fcfg.NFFT, "FFT window size")
	flag.IntVar(&fcfg.HopLength, "hop-length", fcfg.HopLength, "hop length in samples")
	flag.IntVar(&fcfg.NMels, "n-mels", fcfg.NMels, "number of mel bands")
	flag.Float64Var(&fcfg.FMin, "fmin", fcfg.FMin, "lowest mel band frequency (Hz)")
	flag.Float64Var(&fcfg.FMax, "fmax", fcfg.FMax, "highest mel band frequency (Hz), 0 = Nyquist")

	ucfg := umap.DefaultConfig()
	flag.IntVar(&ucfg.NNeighbors, "n-neighbors", ucfg.NNeighbors, "UMAP neighborhood size")
	flag.Float64Var(&ucfg.MinDist, "min-dist", ucfg.MinDist, "UMAP minimum point spacing")
	metric := flag.String("metric", string(ucfg.Metric), "UMAP metric: cosine or euclidean")
	flag.Int64Var(&ucfg.RandomState, "random-state", ucfg.RandomState, "random seed")

	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(2)
	}
	ucfg.Metric = umap.Metric(*metric)

	if err := run(*input, *output, *csvOut, fcfg, ucfg, *stride, *colorBy, *multiView, *connect); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(input, output, csvOut string, fcfg features.Config, ucfg umap.Config,
	stride int, colorBy string, multiView, connect bool) error {
	ctx := context.Background()

	dc := transcode.DefaultDecoderConfig()
	dc.TargetSampleRate = fcfg.SampleRate
	audio, err := transcode.NewDecoder(dc).DecodeFile(ctx, input)
	if err != nil {
		return err
	}

	extractor, err := features.NewExtractor(fcfg)
	if err != nil {
		return err
	}
	frames, err := extractor.ExtractLogMel(audio.PCM, audio.SampleRate)
	if err != nil {
		return err
	}
	frames = features.Stride(frames, stride)

	emb, err := umap.New(ucfg).Embed3D(ctx, frames.X)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s — 3D embedding (%d frames)", filepath.Base(input), frames.NumFrames())
	pc := viz.PointCloud{
		Emb:      emb,
		Times:    frames.Times,
		Energy:   frames.Energy,
		Flatness: frames.Flatness,
		ColorBy:  viz.ParseColorBy(colorBy),
		Connect:  connect,
		Title:    title,
	}

	var fig *viz.Figure
	if multiView {
		fig, err = viz.BuildMultiview(pc)
	} else {
		fig, err = viz.BuildSingleview(pc)
	}
	if err != nil {
		return err
	}

	page, err := fig.FullHTML(title)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(output, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Wrote: %s\n", output)

	if csvOut != "" {
		if err := export.SavePointCloudCSV(emb, frames.Times, frames.Energy, csvOut); err != nil {
			return err
		}
		fmt.Printf("Wrote: %s\n", csvOut)
	}
	return nil
}
