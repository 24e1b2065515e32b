package mapview

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"

	"metrogo/internal/geo"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var svgTemplate = template.Must(
	template.New("map.svg.tmpl").Funcs(template.FuncMap{
		"f":      formatFloat,
		"half":   func(v float64) string { return formatFloat(v / 2) },
		"points": formatPoints,
		"labelY": func(m StationMarker) string { return formatFloat(m.At.Y + m.Size/2 + 12) },
	}).ParseFS(templatesFS, "templates/map.svg.tmpl"),
)

// RenderSVG writes the scene as a standalone SVG document.
func RenderSVG(w io.Writer, s Scene) error {
	return svgTemplate.Execute(w, s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPoints(pts []geo.Pixel) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
	}
	return b.String()
}
