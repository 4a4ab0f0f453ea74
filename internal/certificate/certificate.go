// Package certificate renders goal completion certificates as PDF documents.
package certificate

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"example.com/ecosangam/internal/events"
)

const (
	pageWidth  = 800.0
	pageHeight = 600.0
	lineGap    = 30.0
)

// DefaultIssuer is printed on certificates when no issuer is configured.
const DefaultIssuer = "EcoSangam"

// Details is the content printed on a certificate.
type Details struct {
	Name        string
	GoalTitle   string
	StartDate   time.Time
	EndDate     time.Time
	CarbonSaved float64
	Streak      int
}

// FromEvent builds certificate details from a completion event.
func FromEvent(e events.GoalCompleted) Details {
	return Details{
		Name:        e.Name,
		GoalTitle:   e.GoalTitle,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		CarbonSaved: e.CarbonSaved,
		Streak:      e.Streak,
	}
}

type rgb struct{ r, g, b int }

var (
	green     = rgb{0, 153, 51}
	lightBg   = rgb{237, 255, 237}
	nameBlue  = rgb{51, 102, 153}
	subtitle  = rgb{51, 51, 51}
	bodyBlack = rgb{26, 26, 26}
)

type line struct {
	text      string
	style     string
	size      float64
	color     rgb
	y         float64
	underline bool
}

// Renderer draws certificates.
type Renderer struct {
	issuer   string
	compress bool
}

// NewRenderer constructs a Renderer. An empty issuer falls back to DefaultIssuer.
func NewRenderer(issuer string) *Renderer {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &Renderer{issuer: issuer, compress: true}
}

// FileName returns the attachment name for a certificate issued at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("certificate_%d.pdf", t.UnixMilli())
}

// Render writes the certificate for d to w.
func (r *Renderer) Render(w io.Writer, d Details) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetCompression(r.compress)
	pdf.SetTitle("Certificate of Sustainability", true)
	pdf.SetCreator(r.issuer, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFillColor(lightBg.r, lightBg.g, lightBg.b)
	pdf.Rect(0, 0, pageWidth, pageHeight, "F")
	pdf.SetDrawColor(green.r, green.g, green.b)
	pdf.SetLineWidth(2)
	pdf.Rect(10, 10, pageWidth-20, pageHeight-20, "D")

	for _, l := range r.lines(d) {
		text := tr(l.text)
		pdf.SetFont("Helvetica", l.style, l.size)
		pdf.SetTextColor(l.color.r, l.color.g, l.color.b)
		width := pdf.GetStringWidth(text)
		x := (pageWidth - width) / 2
		y := pageHeight - l.y
		pdf.Text(x, y, text)
		if l.underline {
			pdf.SetDrawColor(l.color.r, l.color.g, l.color.b)
			pdf.SetLineWidth(1)
			pdf.Line(x, y+5, x+width, y+5)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render certificate: %w", err)
	}
	return pdf.Output(w)
}

// RenderBytes renders the certificate into memory.
func (r *Renderer) RenderBytes(d Details) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// lines lays out the certificate text top to bottom. y is measured from the bottom
// edge of the page.
func (r *Renderer) lines(d Details) []line {
	out := []line{
		{text: r.issuer, style: "B", size: 18, color: green, y: 540},
		{text: "Certificate of Sustainability", style: "B", size: 28, color: green, y: 460},
		{text: "This certificate is proudly awarded to", size: 14, color: subtitle, y: 430},
		{text: d.Name, style: "B", size: 20, color: nameBlue, y: 400, underline: true},
		{text: "for completing their sustainability goal", size: 13, color: bodyBlack, y: 370},
		{text: "and taking one step ahead to make Earth greener", size: 13, color: bodyBlack, y: 350},
	}

	y := 290.0
	details := []line{
		{text: "Eco Goal Completed: " + d.GoalTitle, style: "B", size: 14, color: bodyBlack},
		{text: fmt.Sprintf("Total CO2 Saved: %.2f kg", d.CarbonSaved), style: "B", size: 14, color: bodyBlack, underline: true},
		{text: fmt.Sprintf("Streak: %d days", d.Streak), size: 14, color: bodyBlack},
		{text: fmt.Sprintf("Goal Duration: %s to %s", formatDate(d.StartDate), formatDate(d.EndDate)), size: 14, color: bodyBlack},
		{text: "Issued by: " + r.issuer, style: "B", size: 13, color: green},
	}
	for _, l := range details {
		y -= lineGap
		l.y = y
		out = append(out, l)
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}
