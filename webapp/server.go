// Package webapp serves the audio visualization web UI and JSON API.
package webapp

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/birdmach/mach/analysis"
	"github.com/birdmach/mach/config"
	"github.com/birdmach/mach/features"
	"github.com/birdmach/mach/logging"
	"github.com/birdmach/mach/transcode"
	"github.com/birdmach/mach/umap"
	"github.com/birdmach/mach/viz"
)

// Version identifies the application build.
const Version = "0.2.0"

// Server wires HTTP routes for the visualization UI and API.
type Server struct {
	cfg     *config.Config
	logger  logging.Logger
	decoder *transcode.Decoder
	metrics *Metrics
}

// NewServer creates a server against the given configuration.
func NewServer(cfg *config.Config, logger logging.Logger) *Server {
	dc := transcode.DefaultDecoderConfig()
	dc.FFmpegPath = cfg.FFmpegPath
	dc.FFprobePath = cfg.FFprobePath
	dc.Timeout = cfg.DecodeTimeout
	dc.MaxDuration = time.Duration(cfg.MaxDurationS * float64(time.Second))

	return &Server{
		cfg:     cfg,
		logger:  logger,
		decoder: transcode.NewDecoder(dc),
		metrics: NewMetrics(),
	}
}

// Register attaches all routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mm := s.metrics.Middleware
	mux.HandleFunc("GET /{$}", mm(s.handleIndex, "index"))
	mux.HandleFunc("GET /live", mm(s.handleLive, "live"))
	mux.HandleFunc("POST /visualize", mm(s.handleVisualize, "visualize"))
	mux.HandleFunc("GET /api/presets", mm(s.handlePresets, "presets"))
	mux.HandleFunc("POST /api/analyze", mm(s.handleAnalyze, "analyze"))
	mux.HandleFunc("GET /healthz", mm(s.handleHealth, "healthz"))
	mux.Handle("GET /metrics", s.metrics.Handler())
}

func (s *Server) maxUploadBytes() int64 {
	return int64(s.cfg.MaxUploadMB) * 1024 * 1024
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, liveHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

// presetEntry is the /api/presets wire shape.
type presetEntry struct {
	Key string `json:"key"`
	features.Preset
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	names := features.PresetNames()
	entries := make([]presetEntry, 0, len(names))
	for _, name := range names {
		p, _ := features.GetPreset(name)
		entries = append(entries, presetEntry{Key: name, Preset: p})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"default": s.cfg.DefaultPreset,
		"presets": entries,
	})
}

// readAudio pulls the audio payload from a multipart upload or from the
// audio_url form field. The returned status is non-zero on failure.
func (s *Server) readAudio(r *http.Request) (raw []byte, filename string, status int, errMsg string) {
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		return nil, "", http.StatusBadRequest, "Could not parse upload: " + err.Error()
	}

	if file, header, err := r.FormFile("audio"); err == nil && header.Filename != "" {
		defer file.Close()
		if header.Size > s.maxUploadBytes() {
			tooLarge := &transcode.TooLargeError{
				SizeMB: float64(header.Size) / (1024 * 1024),
				MaxMB:  float64(s.cfg.MaxUploadMB),
			}
			return nil, "", http.StatusBadRequest, "Upload rejected: " + tooLarge.Error()
		}
		data, err := readCapped(file, s.maxUploadBytes())
		if err != nil {
			return nil, "", http.StatusBadRequest, "Could not read upload: " + err.Error()
		}
		return data, header.Filename, 0, ""
	}

	if rawURL := SanitizeURL(r.FormValue("audio_url")); rawURL != "" {
		data, name, err := fetchAudioFromURL(r.Context(), rawURL, s.maxUploadBytes())
		if err != nil {
			s.metrics.urlFetchFailures.Inc()
			s.logger.Warn("URL fetch failed", logging.Fields{"url": rawURL, "error": err.Error()})
			return nil, "", http.StatusBadRequest, "Failed to fetch audio from URL: " + err.Error()
		}
		return data, name, 0, ""
	}

	return nil, "", http.StatusBadRequest, "No audio received. Upload a file or provide a URL."
}

// visualizeRequest holds the parsed and clamped form parameters.
type visualizeRequest struct {
	featureCfg features.Config
	umapCfg    umap.Config
	stride     int
	colorBy    viz.ColorBy
	colorscale string
	connect    bool
	multiView  bool
}

// parseVisualizeForm resolves form fields against the chosen preset.
// A preset named in the form supplies the feature, embedding and styling
// settings wholesale. Otherwise the configured default preset is the
// base and the individual fields override it, clamped to their valid
// ranges.
func (s *Server) parseVisualizeForm(r *http.Request) visualizeRequest {
	req := visualizeRequest{
		featureCfg: features.DefaultConfig(),
		umapCfg:    umap.DefaultConfig(),
		stride:     2,
		colorBy:    viz.ColorByTime,
		colorscale: "Turbo",
	}

	applyPreset := func(p features.Preset) {
		req.featureCfg = p.Features
		req.umapCfg = p.UMAP
		req.stride = p.Stride
		req.colorBy = viz.ParseColorBy(p.ColorBy)
		req.colorscale = p.Colorscale
	}

	if p, ok := features.GetPreset(r.FormValue("preset")); ok {
		applyPreset(p)
	} else {
		if p, ok := features.GetPreset(s.cfg.DefaultPreset); ok {
			applyPreset(p)
		}
		if v, err := strconv.Atoi(r.FormValue("stride")); err == nil {
			req.stride = ClampInt(v, 1, 50)
		}
		if v, err := strconv.Atoi(r.FormValue("n_neighbors")); err == nil {
			req.umapCfg.NNeighbors = ClampInt(v, 2, 200)
		}
		if v, err := strconv.ParseFloat(r.FormValue("min_dist"), 64); err == nil {
			req.umapCfg.MinDist = Clamp(v, 0, 1)
		}
		if v := r.FormValue("color_by"); v != "" {
			req.colorBy = viz.ParseColorBy(v)
		}
		if v := r.FormValue("colorscale"); v != "" {
			req.colorscale = v
		}
	}

	req.connect = r.FormValue("connect") != ""
	req.multiView = r.FormValue("multi_view") != ""
	return req
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	raw, filename, status, errMsg := s.readAudio(r)
	if status != 0 {
		httpError(w, status, errMsg)
		return
	}
	s.metrics.uploadBytes.Observe(float64(len(raw)))

	suffix := strings.ToLower(filepath.Ext(filename))
	if suffix == "" {
		suffix = ".wav"
	} else if !ValidateAudioExtension(filename) {
		httpError(w, http.StatusBadRequest,
			fmt.Sprintf("Unsupported audio format %q. Supported: %s", suffix, strings.Join(SupportedExtensions(), " ")))
		return
	}

	s.logger.Info("Processing upload", logging.Fields{"file": filename, "bytes": len(raw)})

	req := s.parseVisualizeForm(r)

	tmpPath := filepath.Join(os.TempDir(), "mach-"+uuid.NewString()+suffix)
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		httpError(w, http.StatusInternalServerError, "Could not stage audio: "+err.Error())
		return
	}
	defer os.Remove(tmpPath)

	started := time.Now()

	decodeStart := time.Now()
	audio, err := s.decoder.DecodeFile(r.Context(), tmpPath)
	if err != nil {
		s.pipelineFailed(w, filename, "decode", err)
		return
	}
	s.metrics.decodeDuration.Observe(time.Since(decodeStart).Seconds())

	extractor, err := features.NewExtractor(req.featureCfg)
	if err != nil {
		s.pipelineFailed(w, filename, "feature config", err)
		return
	}
	frames, err := extractor.ExtractLogMel(audio.PCM, audio.SampleRate)
	if err != nil {
		s.pipelineFailed(w, filename, "feature extraction", err)
		return
	}
	frames = features.Stride(frames, req.stride)

	emb, err := umap.New(req.umapCfg).Embed3D(r.Context(), frames.X)
	if err != nil {
		s.pipelineFailed(w, filename, "embedding", err)
		return
	}
	s.metrics.pipelineDuration.Observe(time.Since(started).Seconds())
	s.metrics.embeddedFrames.Observe(float64(frames.NumFrames()))

	title := filename + " — 3D embedding"
	summary := fmt.Sprintf("duration=%.2fs frames=%d stride=%d color_by=%s connect=%t multi_view=%t",
		audio.Duration.Seconds(), frames.NumFrames(), req.stride, req.colorBy, req.connect, req.multiView)

	pc := viz.PointCloud{
		Emb:        emb,
		Times:      frames.Times,
		Energy:     frames.Energy,
		Flatness:   frames.Flatness,
		ColorBy:    req.colorBy,
		Connect:    req.connect,
		Title:      title,
		Colorscale: req.colorscale,
	}

	var embFig *viz.Figure
	if req.multiView {
		embFig, err = viz.BuildMultiview(pc)
	} else {
		embFig, err = viz.BuildSingleview(pc)
	}
	if err != nil {
		s.pipelineFailed(w, filename, "embedding figure", err)
		return
	}

	waveFig, err := viz.BuildWaveform(audio.PCM, audio.SampleRate, "Waveform")
	if err != nil {
		s.pipelineFailed(w, filename, "waveform figure", err)
		return
	}
	melFig, err := viz.BuildMelSpectrogram(frames.X, frames.Times, extractor.MelFrequencies(), "Log-mel spectrogram (dB)")
	if err != nil {
		s.pipelineFailed(w, filename, "mel figure", err)
		return
	}
	energyFig := viz.BuildEnergy(frames.Times, frames.Energy, "Energy over time")
	flatnessFig := viz.BuildFlatness(frames.Times, frames.Flatness, "Spectral flatness over time")

	sections, err := renderSections([]struct {
		title string
		fig   *viz.Figure
		div   string
	}{
		{"3D embedding (UMAP)", embFig, "embedding"},
		{"Waveform", waveFig, "waveform"},
		{"Log-mel spectrogram", melFig, "melspec"},
		{"Energy", energyFig, "energy"},
		{"Spectral flatness", flatnessFig, "flatness"},
	})
	if err != nil {
		s.pipelineFailed(w, filename, "figure render", err)
		return
	}

	page, err := renderResultPage(title, summary, sections)
	if err != nil {
		s.pipelineFailed(w, filename, "page render", err)
		return
	}

	s.metrics.visualizations.Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, page)
}

func renderSections(specs []struct {
	title string
	fig   *viz.Figure
	div   string
}) ([]resultSection, error) {
	sections := make([]resultSection, 0, len(specs))
	for i, sp := range specs {
		h, err := sp.fig.HTML(sp.div, i == 0)
		if err != nil {
			return nil, err
		}
		sections = append(sections, resultSection{Title: sp.title, HTML: template.HTML(h)})
	}
	return sections, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	raw, filename, status, errMsg := s.readAudio(r)
	if status != 0 {
		writeJSON(w, status, map[string]string{"error": errMsg})
		return
	}
	if ext := filepath.Ext(filename); ext != "" && !ValidateAudioExtension(filename) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unsupported audio format %q", strings.ToLower(ext)),
		})
		return
	}

	suffix := strings.ToLower(filepath.Ext(filename))
	if suffix == "" {
		suffix = ".wav"
	}
	tmpPath := filepath.Join(os.TempDir(), "mach-"+uuid.NewString()+suffix)
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not stage audio"})
		return
	}
	defer os.Remove(tmpPath)

	audio, err := s.decoder.DecodeFile(r.Context(), tmpPath)
	if err != nil {
		s.metrics.pipelineFailures.Inc()
		s.logger.Error(err, "Analysis decode failed", logging.Fields{"file": filename})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to decode audio"})
		return
	}

	summary, err := analysis.NewAnalyzer().Summarize(audio.PCM, audio.SampleRate)
	if err != nil {
		s.metrics.pipelineFailures.Inc()
		s.logger.Error(err, "Analysis failed", logging.Fields{"file": filename})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to analyze audio"})
		return
	}

	s.metrics.analyses.Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"file":    filename,
		"summary": summary,
	})
}

// pipelineFailed logs and reports a processing error.
func (s *Server) pipelineFailed(w http.ResponseWriter, filename, stage string, err error) {
	s.metrics.pipelineFailures.Inc()
	s.logger.Error(err, "Visualization failed", logging.Fields{"file": filename, "stage": stage})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "<pre>Failed to visualize audio:\n%s</pre>", html.EscapeString(err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, html.EscapeString(msg))
}
