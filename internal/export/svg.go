package export

import (
	"bufio"
	"fmt"
	"io"

	"cascade/internal/geom"
	"cascade/internal/model"
)

const svgDefaultFill = "#1f77b4"

// svgExporter writes 2D profiles as a single even-odd filled path so
// polygons marked as holes cut into their enclosing contours. The Y
// axis is flipped because model space is Y-up and SVG is Y-down.
type svgExporter struct{}

func (svgExporter) Ext() string { return ".svg" }

func (svgExporter) Export(w io.Writer, g *geom.Geometry, attr model.Attributes) error {
	if g.Dim != geom.Dim2D {
		return fmt.Errorf("svg: need a 2D profile, got %dD geometry", g.Dim)
	}
	min, max, ok := g.Poly.Bounds()
	if !ok {
		return fmt.Errorf("svg: empty profile")
	}

	fill := attr.Color
	if fill == "" {
		fill = svgDefaultFill
	}

	bw := bufio.NewWriter(w)
	width := max.X - min.X
	height := max.Y - min.Y
	// Margin keeps hairline strokes at the bounds from being clipped.
	margin := 0.01 * maxf(width, height)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g">`+"\n",
		min.X-margin, -max.Y-margin, width+2*margin, height+2*margin)

	if attr.Layer != "" {
		fmt.Fprintf(bw, `  <g id=%q>`+"\n", attr.Layer)
	}
	fmt.Fprintf(bw, `  <path fill=%q fill-rule="evenodd" d="`, fill)
	for _, poly := range g.Poly.Polygons {
		for i, pt := range poly.Points {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(bw, "%s%g %g ", cmd, pt.X, -pt.Y)
		}
		if len(poly.Points) > 0 {
			fmt.Fprint(bw, "Z ")
		}
	}
	fmt.Fprint(bw, `"/>`+"\n")
	if attr.Layer != "" {
		fmt.Fprint(bw, "  </g>\n")
	}
	fmt.Fprint(bw, "</svg>\n")
	return bw.Flush()
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
