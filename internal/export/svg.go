package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// SnapshotToSVG draws every body as a circle in its own colour, framed to
// fit the image.
func SnapshotToSVG(snap engine.Snapshot, width, height int) string {
	var sb strings.Builder
	header(&sb, width, height)

	v := viz.FitViewport(snap, width, height)
	for _, o := range snap.Objects {
		cx, cy := v.Project(o.Position)
		r := math.Max(o.Radius*v.Scale, 0.5)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, r, o.Color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TraceToSVG draws one path per body. Paths are coloured by each body's
// final mass.
func TraceToSVG(trace storage.Trace, width, height int) string {
	var sb strings.Builder
	header(&sb, width, height)

	ids := trace.IDs()
	if len(ids) == 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, r := range trace {
		minX = math.Min(minX, r.Position.X)
		maxX = math.Max(maxX, r.Position.X)
		minY = math.Min(minY, r.Position.Y)
		maxY = math.Max(maxY, r.Position.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	for _, id := range ids {
		rows := trace.Body(id)
		color := body.ColorForMass(rows[len(rows)-1].Mass)
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)

		for i, r := range rows {
			x := (r.Position.X - minX) / rangeX * float64(width)
			y := float64(height) - (r.Position.Y-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
