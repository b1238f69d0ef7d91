package export

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/swingby/internal/trail"
	"github.com/san-kum/swingby/internal/viewport"
)

// SVGOptions controls the snapshot.
type SVGOptions struct {
	Width, Height int
	BodyRadius    float64 // meters
	Stroke        string
	Background    string
	Planet        string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		Height:     800,
		Stroke:     "#00d7ff",
		Background: "#0a0a0a",
		Planet:     "#2f6fdf",
	}
}

// WriteSVG draws the trail layers and the attractor, framed the same way as
// the live view: the origin and every point fit inside the padded box.
func WriteSVG(w io.Writer, layers []trail.Layer, opts SVGOptions) error {
	cam, err := viewport.New(viewport.DefaultConfig())
	if err != nil {
		return err
	}

	framed := []r2.Vec{{}}
	for _, l := range layers {
		for _, p := range l.Points {
			framed = append(framed, p.Pos)
		}
	}
	size := viewport.Size{W: float64(opts.Width), H: float64(opts.Height)}
	cam.Reset(framed, size)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background)

	center := cam.WorldToScreen(r2.Vec{})
	radius := max(cam.PixelsFor(opts.BodyRadius), 2)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, center.X, center.Y, radius, opts.Planet)

	for _, l := range layers {
		if len(l.Points) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path id="%s" fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="1.5" d="M`,
			l.Name, opts.Stroke, l.Opacity)
		for i, p := range l.Points {
			s := cam.WorldToScreen(p.Pos)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", s.X, s.Y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", s.X, s.Y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	_, err = io.WriteString(w, sb.String())
	return err
}
