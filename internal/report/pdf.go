// Package report renders a finished diagnostic analysis as a PDF document
// for download.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"wellness-ai-agent/internal/diagnosis"
	"wellness-ai-agent/pkg/logx"
)

// fontPaths are the common DejaVuSans locations across base images; the
// first one that loads wins.
var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	pageTextWidth = 500.0
	pageBottomY   = 800.0
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render lays out the detailed analysis with a small header block. The
// analysis body is free-form model text, so it is wrapped line by line
// rather than parsed.
func (p *Renderer) Render(res *diagnosis.ReportResult) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 18); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Wellness AI Diagnostic Report")
	pdf.Br(28)

	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Br(14)
	pdf.Cell(nil, fmt.Sprintf("Symptoms analyzed: %s", res.SymptomsAnalyzed))
	pdf.Br(14)
	pdf.Cell(nil, fmt.Sprintf("Questions answered: %d", res.QuestionsAnswered))
	pdf.Br(14)
	pdf.Cell(nil, fmt.Sprintf("Model: %s", res.ModelType))
	pdf.Br(22)

	if err := pdf.SetFont("DejaVu", "", 10); err != nil {
		return nil, err
	}
	for _, raw := range strings.Split(res.DetailedAnalysis, "\n") {
		raw = strings.TrimRight(raw, " ")
		if raw == "" {
			pdf.Br(10)
			continue
		}
		lines, err := pdf.SplitText(raw, pageTextWidth)
		if err != nil {
			// Box-drawing separators occasionally fail to split; drop them.
			logx.Debug().Err(err).Msg("skipping unrenderable report line")
			continue
		}
		for _, l := range lines {
			if pdf.GetY() > pageBottomY {
				pdf.AddPage()
				if err := pdf.SetFont("DejaVu", "", 10); err != nil {
					return nil, err
				}
			}
			pdf.Cell(nil, l)
			pdf.Br(12)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
