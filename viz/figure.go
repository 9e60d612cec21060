// Package viz builds Plotly figures as plain data structures and renders
// them to embeddable HTML. The browser-side plotly.js library does the
// actual drawing; this package only produces its JSON input.
package viz

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// plotlyCDN is the script tag injected when a figure carries its own JS
const plotlyCDN = `<script src="https://cdn.plot.ly/plotly-2.32.0.min.js" charset="utf-8"></script>`

// Trace is one Plotly trace. Z is any because heatmaps carry a matrix
// where scatter3d carries a vector.
type Trace struct {
	Type       string    `json:"type"`
	Mode       string    `json:"mode,omitempty"`
	X          []float64 `json:"x,omitempty"`
	Y          []float64 `json:"y,omitempty"`
	Z          any       `json:"z,omitempty"`
	Marker     *Marker   `json:"marker,omitempty"`
	Line       *Line     `json:"line,omitempty"`
	Fill       string    `json:"fill,omitempty"`
	FillColor  string    `json:"fillcolor,omitempty"`
	Colorscale string    `json:"colorscale,omitempty"`
	Colorbar   *Colorbar `json:"colorbar,omitempty"`
	Scene      string    `json:"scene,omitempty"`
}

// Marker styles scatter points
type Marker struct {
	Size       float64   `json:"size,omitempty"`
	Color      []float64 `json:"color,omitempty"`
	Colorscale string    `json:"colorscale,omitempty"`
	Opacity    float64   `json:"opacity,omitempty"`
	ShowScale  bool      `json:"showscale"`
	Colorbar   *Colorbar `json:"colorbar,omitempty"`
}

// Line styles connecting lines
type Line struct {
	Width float64 `json:"width,omitempty"`
	Color string  `json:"color,omitempty"`
}

// Colorbar titles the color legend
type Colorbar struct {
	Title string `json:"title,omitempty"`
}

// Axis configures one plot axis
type Axis struct {
	Title string    `json:"title,omitempty"`
	Range []float64 `json:"range,omitempty"`
}

// Eye is a 3D camera position
type Eye struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Camera positions the 3D view
type Camera struct {
	Eye Eye `json:"eye"`
}

// Domain constrains a scene to a region of the figure
type Domain struct {
	X []float64 `json:"x,omitempty"`
	Y []float64 `json:"y,omitempty"`
}

// Scene configures one 3D subplot
type Scene struct {
	Camera *Camera `json:"camera,omitempty"`
	Domain *Domain `json:"domain,omitempty"`
	XAxis  *Axis   `json:"xaxis,omitempty"`
	YAxis  *Axis   `json:"yaxis,omitempty"`
	ZAxis  *Axis   `json:"zaxis,omitempty"`
}

// Margin sets figure margins in pixels
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Layout is the Plotly layout object
type Layout struct {
	Title      string  `json:"title,omitempty"`
	Margin     *Margin `json:"margin,omitempty"`
	Height     int     `json:"height,omitempty"`
	ShowLegend *bool   `json:"showlegend,omitempty"`
	XAxis      *Axis   `json:"xaxis,omitempty"`
	YAxis      *Axis   `json:"yaxis,omitempty"`
	Scene      *Scene  `json:"scene,omitempty"`
	Scene2     *Scene  `json:"scene2,omitempty"`
	Scene3     *Scene  `json:"scene3,omitempty"`
	Template   string  `json:"template,omitempty"`
}

// Figure is a complete Plotly figure
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// JSON marshals the figure to Plotly's {data, layout} shape
func (f *Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}

// HTML renders the figure as an embeddable fragment: a div plus the
// Plotly.newPlot call. includeJS controls whether the plotly.js CDN tag
// is emitted (only the first figure on a page needs it).
func (f *Figure) HTML(divID string, includeJS bool) (string, error) {
	data, err := json.Marshal(f.Data)
	if err != nil {
		return "", fmt.Errorf("marshal traces: %w", err)
	}
	layout, err := json.Marshal(f.Layout)
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}

	var sb strings.Builder
	if includeJS {
		sb.WriteString(plotlyCDN)
		sb.WriteString("\n")
	}
	safeID := template.JSEscapeString(divID)
	fmt.Fprintf(&sb, `<div id="%s"></div>`, template.HTMLEscapeString(divID))
	sb.WriteString("\n<script>\n")
	fmt.Fprintf(&sb, "Plotly.newPlot(%q, %s, %s, {responsive: true});\n", safeID, data, layout)
	sb.WriteString("</script>")

	return sb.String(), nil
}

// FullHTML renders the figure as a standalone HTML document pulling
// plotly.js from the CDN.
func (f *Figure) FullHTML(title string) (string, error) {
	body, err := f.HTML("figure", true)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\" />\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", template.HTMLEscapeString(title))
	sb.WriteString("<style>body { margin: 0; background: #0b0f19; }</style>\n</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("\n</body>\n</html>\n")
	return sb.String(), nil
}
