package main

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/jung-kurt/gofpdf"
)

const (
	exportPadding   = 20.0
	exportArrowSize = 10.0
	terminalFill    = "#1e1e1e"
)

var namedColors = map[string]string{
	"black": "#000000",
	"red":   "#ff0000",
	"gray":  "#808080",
	"grey":  "#808080",
	"white": "#ffffff",
	"blue":  "#0000ff",
	"green": "#008000",
}

// colorHex resolves a stored colour (a CSS name or #rrggbb) to #rrggbb.
// Empty means black.
func colorHex(name string) string {
	if name == "" {
		return namedColors["black"]
	}
	if hex, ok := namedColors[strings.ToLower(name)]; ok {
		return hex
	}
	return name
}

func colorRGB(name string) (r, g, b int) {
	hex := strings.TrimPrefix(colorHex(name), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}

// boardBounds is the union of every shape's bounds.
func boardBounds(b Board, m TextMeasurer) (Box, error) {
	if b.Empty() {
		return Box{}, fmt.Errorf("nothing to export")
	}
	var box Box
	first := true
	b.Each(func(s Shape) {
		sb := Bounds(s, m)
		if first {
			box, first = sb, false
			return
		}
		box = box.Union(sb)
	})
	return Box{box.X1 - exportPadding, box.Y1 - exportPadding, box.X2 + exportPadding, box.Y2 + exportPadding}, nil
}

func arrowHead(x1, y1, x2, y2 float64) (Point, Point, bool) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return Point{}, Point{}, false
	}
	dx /= length
	dy /= length
	const spread = 0.5
	a := Point{x2 - exportArrowSize*dx + exportArrowSize*dy*spread, y2 - exportArrowSize*dy - exportArrowSize*dx*spread}
	b := Point{x2 - exportArrowSize*dx - exportArrowSize*dy*spread, y2 - exportArrowSize*dy + exportArrowSize*dx*spread}
	return a, b, true
}

// ExportPNG renders the board to a PNG file sized to fit every shape.
func ExportPNG(b Board, path string, fm *fontMeasurer) error {
	box, err := boardBounds(b, fm)
	if err != nil {
		return err
	}
	dc := gg.NewContext(int(math.Ceil(box.Width())), int(math.Ceil(box.Height())))
	dc.SetHexColor("#ffffff")
	dc.Clear()
	dc.Translate(-box.X1, -box.Y1)

	var drawErr error
	b.Each(func(s Shape) {
		if err := drawShapePNG(dc, s, fm); err != nil && drawErr == nil {
			drawErr = err
		}
	})
	if drawErr != nil {
		return drawErr
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}

func setFace(dc *gg.Context, fm *fontMeasurer, size float64) {
	if fm == nil {
		return
	}
	fm.mu.Lock()
	face := fm.face(size)
	fm.mu.Unlock()
	dc.SetFontFace(face)
}

func drawShapePNG(dc *gg.Context, s Shape, fm *fontMeasurer) error {
	switch v := s.(type) {
	case Circle:
		if v.Fill != "" {
			dc.SetHexColor(colorHex(v.Fill))
			dc.DrawCircle(v.X, v.Y, v.Radius)
			dc.Fill()
		}
		dc.SetLineWidth(defaultStrokeWidth)
		dc.SetHexColor(colorHex(v.Stroke))
		dc.DrawCircle(v.X, v.Y, v.Radius)
		dc.Stroke()
		if v.Text != "" {
			setFace(dc, fm, defaultTextFontSize)
			dc.SetHexColor(colorHex(v.TextFill))
			dc.DrawStringAnchored(v.Text, v.X, v.Y, 0.5, 0.5)
		}
	case Rect:
		if v.Fill != "" {
			dc.SetHexColor(colorHex(v.Fill))
			dc.DrawRectangle(v.X, v.Y, v.Width, v.Height)
			dc.Fill()
		}
		dc.SetLineWidth(defaultStrokeWidth)
		dc.SetHexColor(colorHex(v.Stroke))
		dc.DrawRectangle(v.X, v.Y, v.Width, v.Height)
		dc.Stroke()
		if v.Text != "" {
			setFace(dc, fm, defaultTextFontSize)
			dc.SetHexColor(colorHex(v.TextFill))
			dc.DrawStringWrapped(v.Text, v.X+v.Width/2, v.Y+v.Height/2, 0.5, 0.5, v.Width, 1.2, gg.AlignCenter)
		}
	case Line:
		x1, y1, x2, y2 := v.Endpoints()
		dc.SetLineWidth(math.Max(v.StrokeWidth, 1))
		dc.SetHexColor(colorHex(v.Stroke))
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
		if v.Type == LineTypeArrow {
			if a, b, ok := arrowHead(x1, y1, x2, y2); ok {
				dc.MoveTo(x2, y2)
				dc.LineTo(a.X, a.Y)
				dc.LineTo(b.X, b.Y)
				dc.ClosePath()
				dc.Fill()
			}
		}
	case Text:
		setFace(dc, fm, v.FontSize)
		dc.SetHexColor(colorHex(v.Fill))
		for i, line := range strings.Split(v.Text, "\n") {
			dc.DrawStringAnchored(line, v.X, v.Y+float64(i)*v.FontSize, 0, 1)
		}
	case Image:
		img, err := decodeImageSrc(v.Src)
		if err != nil {
			return fmt.Errorf("image %s: %w", v.ID, err)
		}
		bounds := img.Bounds()
		dc.Push()
		dc.Translate(v.X, v.Y)
		dc.Scale(v.Width/float64(bounds.Dx()), v.Height/float64(bounds.Dy()))
		dc.DrawImage(img, 0, 0)
		dc.Pop()
	case Terminal:
		dc.SetHexColor(terminalFill)
		dc.DrawRectangle(v.X, v.Y, v.Width, v.Height)
		dc.Fill()
		setFace(dc, fm, v.FontSize)
		dc.SetHexColor("#ffffff")
		dc.DrawStringAnchored("terminal", v.X+v.FontSize/2, v.Y+v.FontSize/2, 0, 1)
	}
	return nil
}

// ExportPDF writes the board as a single page sized to fit every shape.
func ExportPDF(b Board, path string, m TextMeasurer) error {
	box, err := boardBounds(b, m)
	if err != nil {
		return err
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: box.Width(), Ht: box.Height()},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	ox, oy := box.X1, box.Y1
	images := 0
	b.Each(func(s Shape) {
		switch v := s.(type) {
		case Circle:
			style := "D"
			if v.Fill != "" {
				pdf.SetFillColor(colorRGB(v.Fill))
				style = "FD"
			}
			pdf.SetLineWidth(defaultStrokeWidth)
			pdf.SetDrawColor(colorRGB(v.Stroke))
			pdf.Circle(v.X-ox, v.Y-oy, v.Radius, style)
			if v.Text != "" {
				pdfCentredText(pdf, v.Text, v.X-ox, v.Y-oy, v.TextFill)
			}
		case Rect:
			style := "D"
			if v.Fill != "" {
				pdf.SetFillColor(colorRGB(v.Fill))
				style = "FD"
			}
			pdf.SetLineWidth(defaultStrokeWidth)
			pdf.SetDrawColor(colorRGB(v.Stroke))
			pdf.Rect(v.X-ox, v.Y-oy, v.Width, v.Height, style)
			if v.Text != "" {
				pdfCentredText(pdf, v.Text, v.X-ox+v.Width/2, v.Y-oy+v.Height/2, v.TextFill)
			}
		case Line:
			x1, y1, x2, y2 := v.Endpoints()
			x1, y1, x2, y2 = x1-ox, y1-oy, x2-ox, y2-oy
			pdf.SetLineWidth(math.Max(v.StrokeWidth, 1))
			pdf.SetDrawColor(colorRGB(v.Stroke))
			pdf.Line(x1, y1, x2, y2)
			if v.Type == LineTypeArrow {
				if a, b, ok := arrowHead(x1, y1, x2, y2); ok {
					pdf.SetFillColor(colorRGB(v.Stroke))
					pdf.Polygon([]gofpdf.PointType{{X: x2, Y: y2}, {X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}}, "F")
				}
			}
		case Text:
			pdf.SetFont("Courier", "", v.FontSize)
			pdf.SetTextColor(colorRGB(v.Fill))
			for i, line := range strings.Split(v.Text, "\n") {
				pdf.Text(v.X-ox, v.Y-oy+float64(i+1)*v.FontSize, line)
			}
		case Image:
			img, err := decodeImageSrc(v.Src)
			if err != nil {
				pdf.SetError(fmt.Errorf("image %s: %w", v.ID, err))
				return
			}
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				pdf.SetError(fmt.Errorf("image %s: %w", v.ID, err))
				return
			}
			images++
			name := fmt.Sprintf("img%d", images)
			opt := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opt, &buf)
			pdf.ImageOptions(name, v.X-ox, v.Y-oy, v.Width, v.Height, false, opt, 0, "")
		case Terminal:
			pdf.SetFillColor(colorRGB(terminalFill))
			pdf.Rect(v.X-ox, v.Y-oy, v.Width, v.Height, "F")
			pdf.SetFont("Courier", "", v.FontSize)
			pdf.SetTextColor(255, 255, 255)
			pdf.Text(v.X-ox+v.FontSize/2, v.Y-oy+v.FontSize*1.5, "terminal")
		}
	})
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("save pdf: %w", err)
	}
	return nil
}

func pdfCentredText(pdf *gofpdf.Fpdf, text string, cx, cy float64, fill string) {
	pdf.SetFont("Courier", "", defaultTextFontSize)
	pdf.SetTextColor(colorRGB(fill))
	lines := strings.Split(text, "\n")
	top := cy - float64(len(lines))*defaultTextFontSize/2
	for i, line := range lines {
		w := pdf.GetStringWidth(line)
		pdf.Text(cx-w/2, top+float64(i+1)*defaultTextFontSize*0.85, line)
	}
}
