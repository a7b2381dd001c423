// Package render draws dashboard charts as PNG or SVG images with go-chart.
package render

import (
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an output image encoding.
type Format string

// Supported formats.
const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg", case-insensitively. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return PNG, nil
	case PNG, SVG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Options control image size and encoding.
type Options struct {
	Width  int
	Height int
	Format Format
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 450
	}
	if o.Format == "" {
		o.Format = PNG
	}
	return o
}

// palette cycles per pie slice and per scatter category.
var palette = []drawing.Color{
	drawing.ColorFromHex("D9D9D9"),
	drawing.ColorFromHex("9B9AD4"),
	drawing.ColorFromHex("6361D4"),
	drawing.ColorFromHex("0B06DB"),
	drawing.ColorFromHex("009BB1"),
}

func paletteColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

// blank writes an empty white image, with the title when the format can carry text.
func blank(w io.Writer, title string, opts Options) error {
	if opts.Format == SVG {
		var escaped strings.Builder
		if err := xml.EscapeText(&escaped, []byte(title)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w,
			`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
				`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
				`<text x="50%%" y="24" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`+
				`</svg>`,
			opts.Width, opts.Height, escaped.String())
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return png.Encode(w, img)
}
