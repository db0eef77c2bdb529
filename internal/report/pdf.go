package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/signintech/gopdf"
)

var ErrFontUnavailable = errors.New("no usable TTF font found")

// DefaultFontPaths are the DejaVu locations on Alpine and Debian images.
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	fontFamily = "DejaVu"
	textWidth  = 500
)

// PDFRenderer lays out a report on A4 pages.
type PDFRenderer struct {
	fontPaths []string
}

func NewPDFRenderer(fontPaths ...string) *PDFRenderer {
	if len(fontPaths) == 0 {
		fontPaths = DefaultFontPaths
	}
	return &PDFRenderer{fontPaths: fontPaths}
}

func (p *PDFRenderer) loadFont(pdf *gopdf.GoPdf) error {
	var lastErr error
	for _, path := range p.fontPaths {
		if err := pdf.AddTTFFont(fontFamily, path); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return fmt.Errorf("%w: %v", ErrFontUnavailable, lastErr)
}

func (p *PDFRenderer) Render(d *Detail, patientName string) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := p.loadFont(&pdf); err != nil {
		return nil, err
	}

	w := &pdfWriter{pdf: &pdf}
	w.font(20)
	w.line("HealthBridge Medical Report", 30)

	w.font(12)
	w.line(fmt.Sprintf("Report ID: %s", d.ReportID), 15)
	if patientName != "" {
		w.line(fmt.Sprintf("Patient: %s", patientName), 15)
	}
	w.line(fmt.Sprintf("Date: %s", d.CreatedAt.Format("02.01.2006 15:04")), 15)
	if d.DoctorName != "" {
		w.line(fmt.Sprintf("Doctor: %s", d.DoctorName), 15)
	}
	w.br(10)

	w.font(14)
	w.line("Visit history:", 15)
	if len(d.Entries) == 0 {
		w.font(11)
		w.line("- No entries recorded.", 15)
	}
	for _, e := range d.Entries {
		w.font(13)
		w.wrapped(fmt.Sprintf("%s (%s)", e.Title, e.CreatedAt.Format("02.01.2006")), 14)
		w.font(11)
		if e.Description != "" {
			w.wrapped(e.Description, 12)
		}
		if e.Prescription != "" {
			w.wrapped("Prescription: "+e.Prescription, 12)
		}
		if !e.VitalSigns.IsZero() {
			v := e.VitalSigns
			w.wrapped(fmt.Sprintf("Vitals: T %s, BP %s, HR %s, SpO2 %s",
				dash(v.Temperature), dash(v.BloodPressure), dash(v.HeartRate), dash(v.OxygenSaturation)), 12)
		}
		doctor := e.DoctorName
		if doctor == "" {
			doctor = d.DoctorName
		}
		if doctor != "" {
			w.wrapped("Doctor: "+doctor, 12)
		}
		w.br(8)
	}

	w.font(9)
	w.line(fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC1123)), 10)

	if w.err != nil {
		return nil, fmt.Errorf("failed to lay out PDF: %w", w.err)
	}
	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfWriter keeps the first layout error and adds pages as text overflows.
type pdfWriter struct {
	pdf *gopdf.GoPdf
	err error
}

const pageBottom = 800

func (w *pdfWriter) font(size float64) {
	if w.err == nil {
		w.err = w.pdf.SetFont(fontFamily, "", size)
	}
}

func (w *pdfWriter) br(h float64) {
	w.pdf.Br(h)
	if w.pdf.GetY() > pageBottom {
		w.pdf.AddPage()
	}
}

func (w *pdfWriter) line(s string, h float64) {
	if w.err != nil {
		return
	}
	w.err = w.pdf.Cell(nil, s)
	w.br(h)
}

func (w *pdfWriter) wrapped(s string, h float64) {
	if w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(s, textWidth)
	if err != nil {
		w.err = err
		return
	}
	for _, l := range lines {
		w.line(l, h)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
