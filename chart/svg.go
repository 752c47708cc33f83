package chart

import (
	"bytes"
	"html"
	"strconv"
	"strings"
)

// RenderSVG turns a scene's draw list into an SVG document. This is the only
// place pixel output happens; everything above it is data.
func RenderSVG(s Scene) []byte {
	var buf bytes.Buffer
	w := strconv.Itoa(s.Width)
	h := strconv.Itoa(s.Height)

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="` + w + `" height="` + h + `" viewBox="0 0 ` + w + ` ` + h + `">` + "\n")

	for _, p := range s.Prims {
		switch p := p.(type) {
		case Rect:
			buf.WriteString(`<rect x="` + fmtFloat(p.X) + `" y="` + fmtFloat(p.Y) +
				`" width="` + fmtFloat(p.W) + `" height="` + fmtFloat(p.H) + `"`)
			if p.Fill != "" {
				buf.WriteString(` fill="` + p.Fill + `"`)
			} else {
				buf.WriteString(` fill="none"`)
			}
			if p.Stroke != "" {
				buf.WriteString(` stroke="` + p.Stroke + `" stroke-width="` + fmtFloat(strokeWidth(p.StrokeWidth)) + `"`)
			}
			if p.Opacity > 0 && p.Opacity < 1 {
				buf.WriteString(` opacity="` + fmtFloat(p.Opacity) + `"`)
			}
			buf.WriteString(`/>` + "\n")
		case Line:
			buf.WriteString(`<line x1="` + fmtFloat(p.X1) + `" y1="` + fmtFloat(p.Y1) +
				`" x2="` + fmtFloat(p.X2) + `" y2="` + fmtFloat(p.Y2) +
				`" stroke="` + p.Stroke + `" stroke-width="` + fmtFloat(strokeWidth(p.Width)) + `"`)
			if p.Dash != "" {
				buf.WriteString(` stroke-dasharray="` + p.Dash + `"`)
			}
			if p.Opacity > 0 && p.Opacity < 1 {
				buf.WriteString(` opacity="` + fmtFloat(p.Opacity) + `"`)
			}
			buf.WriteString(`/>` + "\n")
		case Label:
			size := p.Size
			if size <= 0 {
				size = 11
			}
			buf.WriteString(`<text x="` + fmtFloat(p.X) + `" y="` + fmtFloat(p.Y) +
				`" fill="` + p.Fill + `" font-size="` + strconv.Itoa(size) +
				`" font-family="ui-monospace, Menlo, Monaco, Consolas, monospace"`)
			if p.Bold {
				buf.WriteString(` font-weight="bold"`)
			}
			buf.WriteString(`>` + html.EscapeString(p.Text) + `</text>` + "\n")
		}
	}

	buf.WriteString(`</svg>` + "\n")
	return buf.Bytes()
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

func fmtFloat(x float64) string {
	// stable compact formatting for SVG attributes
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func fmtPrice(p float64) string {
	// forex-style precision for small prices, coarse for indices/crypto
	if p >= 100 {
		return strconv.FormatFloat(p, 'f', 2, 64)
	}
	if p >= 10 {
		return strconv.FormatFloat(p, 'f', 3, 64)
	}
	return strconv.FormatFloat(p, 'f', 5, 64)
}

func upper(s string) string { return strings.ToUpper(s) }
