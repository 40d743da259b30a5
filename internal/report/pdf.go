package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/fairlens/backend/internal/analysis"
	"github.com/fairlens/backend/internal/catalog"
	"github.com/fairlens/backend/internal/fairness"
	"github.com/fairlens/backend/internal/narrative"
	"github.com/fairlens/backend/pkg/logger"
)

const (
	pageMargin  = 18.0
	bodyLineH   = 5.5
	chartImageW = 127.0
	chartImageH = 63.5
)

type pdfBuilder struct {
	pdf *fpdf.Fpdf
}

func newPDFBuilder() *pdfBuilder {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("AI Fairness Audit Report", false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	return &pdfBuilder{pdf: pdf}
}

func (b *pdfBuilder) build(res *analysis.AnalysisResponse, info DatasetInfo, execSummary string) {
	b.pdf.AddPage()
	b.title("AI Fairness Audit Report")

	b.heading("Executive Summary")
	b.body(execSummary)
	b.pdf.Ln(2)
	b.labeled("Overall Assessment", res.Summary.OverallAssessment)
	b.body(fmt.Sprintf("Fair Metrics: %d | Warnings: %d | Violations: %d",
		res.Summary.Fair, res.Summary.Warning, res.Summary.Violation))
	b.pdf.Ln(6)

	b.heading("Dataset Information")
	b.infoTable([][2]string{
		{"Filename", info.Filename},
		{"Rows", strconv.Itoa(info.Rows)},
		{"Columns", strconv.Itoa(info.Columns)},
		{"Upload Date", info.UploadDate},
		{"Protected Attribute", res.ProtectedAttr},
		{"Report Generated", time.Now().Format("2006-01-02 15:04:05")},
	})

	b.pdf.AddPage()
	b.heading("Detailed Fairness Metrics Analysis")
	b.pdf.Ln(2)

	for i, m := range res.Metrics {
		b.metricSection(i+1, m)
		if (i+1)%3 == 0 && i < len(res.Metrics)-1 {
			b.pdf.AddPage()
		}
	}

	b.pdf.AddPage()
	b.heading("Summary and Recommendations")
	guidance := narrative.Recommendations(res.Summary.Warning, res.Summary.Violation)
	b.body(guidance.Text)
	b.pdf.Ln(2)
	b.boldLine("Key Actions:")
	for i, action := range guidance.Actions {
		b.body(fmt.Sprintf("%d. %s", i+1, action))
	}

	b.pdf.Ln(8)
	b.footnote("This report was generated by the FairLens audit service. " +
		"For questions or concerns about this audit, please consult with your " +
		"organization's AI ethics and compliance team.")
}

func (b *pdfBuilder) metricSection(n int, m analysis.MetricReport) {
	b.pageBreakIfNeeded(40)

	b.subheading(fmt.Sprintf("%d. %s", n, displayName(m)))
	b.assessment(m.FairnessAssessment)

	definition := m.Explanation.Description
	if definition == "" {
		definition = "No definition available"
	}
	b.labeled("Definition", definition)

	if m.Explanation.WhatThisMeans != "" {
		b.labeled("What This Means", m.Explanation.WhatThisMeans)
	}
	if m.Explanation.WhatIsWrong != "" {
		b.labeled("What Is Wrong", m.Explanation.WhatIsWrong)
	}
	if len(m.Explanation.RootCauses) > 0 {
		b.list("Likely Root Causes", m.Explanation.RootCauses)
	}
	if len(m.Explanation.RecruiterActions) > 0 {
		b.list("Recommended Actions", m.Explanation.RecruiterActions)
	}
	if m.Explanation.DashboardRecommendation != "" {
		b.labeled("Recommendation", m.Explanation.DashboardRecommendation)
	}

	b.values(m.Values)
	b.chart(m)

	if m.Explanation.Interpretation != "" {
		b.labeled("Interpretation", m.Explanation.Interpretation)
	}

	b.pdf.Ln(6)
}

func displayName(m analysis.MetricReport) string {
	if m.Explanation.DisplayName != "" {
		return m.Explanation.DisplayName
	}
	return strings.ReplaceAll(m.MetricName, "_", " ")
}

func (b *pdfBuilder) values(v interface{}) {
	switch values := v.(type) {
	case map[string]float64:
		if len(values) == 0 {
			return
		}
		lines := make([]string, 0, len(values))
		for _, group := range sortedKeys(values) {
			lines = append(lines, fmt.Sprintf("%s: %.4f", group, values[group]))
		}
		b.list("Calculated Values", lines)
	case map[string]fairness.OddsRates:
		if len(values) == 0 {
			return
		}
		lines := make([]string, 0, len(values))
		for _, group := range sortedKeys(values) {
			lines = append(lines, fmt.Sprintf("%s: TPR %.4f | FPR %.4f",
				group, values[group].TPR, values[group].FPR))
		}
		b.list("Calculated Values", lines)
	case float64:
		b.labeled("Value", fmt.Sprintf("%.4f", values))
	}
}

// chart embeds the figure matching the metric's visualization hint. Failed
// results carry no hint, so they get text only.
func (b *pdfBuilder) chart(m analysis.MetricReport) {
	viz, _ := m.VisualizationData["visualization_type"].(string)

	switch viz {
	case fairness.VizBar:
		values, ok := m.Values.(map[string]float64)
		if !ok || len(values) == 0 {
			return
		}
		png, err := barChart(values, displayName(m))
		if err != nil {
			logger.Warn("Bar chart rendering failed",
				zap.String("metric", m.MetricName), zap.Error(err))
			return
		}
		b.image("chart_"+m.MetricName, png)

	case fairness.VizScatter:
		odds, ok := m.Values.(map[string]fairness.OddsRates)
		if !ok || len(odds) == 0 {
			return
		}
		png, err := scatterChart(odds, displayName(m))
		if err != nil {
			logger.Warn("Scatter chart rendering failed",
				zap.String("metric", m.MetricName), zap.Error(err))
			return
		}
		b.image("chart_"+m.MetricName, png)

	case fairness.VizHeatmap:
		curves, ok := m.Values.(map[string][]float64)
		if !ok || len(curves) == 0 {
			return
		}
		bins, _ := m.VisualizationData["bins"].([]string)
		b.heatmap(curves, bins)
	}
}

func (b *pdfBuilder) title(text string) {
	b.pdf.SetFont("Helvetica", "B", 24)
	b.pdf.SetTextColor(26, 26, 26)
	b.pdf.CellFormat(0, 12, text, "", 1, "C", false, 0, "")
	b.pdf.Ln(6)
}

func (b *pdfBuilder) heading(text string) {
	b.pdf.SetFont("Helvetica", "B", 16)
	b.pdf.SetTextColor(37, 99, 235)
	b.pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	b.pdf.Ln(2)
}

func (b *pdfBuilder) subheading(text string) {
	b.pdf.SetFont("Helvetica", "B", 14)
	b.pdf.SetTextColor(75, 85, 99)
	b.pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	b.pdf.Ln(1)
}

func (b *pdfBuilder) body(text string) {
	b.pdf.SetFont("Helvetica", "", 11)
	b.pdf.SetTextColor(31, 41, 55)
	b.pdf.MultiCell(0, bodyLineH, text, "", "J", false)
}

func (b *pdfBuilder) boldLine(text string) {
	b.pdf.SetFont("Helvetica", "B", 11)
	b.pdf.SetTextColor(31, 41, 55)
	b.pdf.CellFormat(0, 6, text, "", 1, "L", false, 0, "")
}

func (b *pdfBuilder) labeled(label, text string) {
	b.pdf.SetFont("Helvetica", "B", 11)
	b.pdf.SetTextColor(31, 41, 55)
	b.pdf.Write(bodyLineH, label+": ")
	b.pdf.SetFont("Helvetica", "", 11)
	b.pdf.Write(bodyLineH, text)
	b.pdf.Ln(8)
}

func (b *pdfBuilder) list(label string, items []string) {
	b.boldLine(label + ":")
	b.pdf.SetFont("Helvetica", "", 11)
	left, _, _, _ := b.pdf.GetMargins()
	for _, item := range items {
		b.pdf.SetX(left + 4)
		b.pdf.MultiCell(0, bodyLineH, "- "+item, "", "L", false)
	}
	b.pdf.Ln(1)
}

func (b *pdfBuilder) assessment(severity string) {
	r, g, bl := severityColor(severity)
	b.pdf.SetFont("Helvetica", "B", 11)
	b.pdf.SetTextColor(r, g, bl)
	b.pdf.CellFormat(0, 6, "Assessment: "+severity, "", 1, "L", false, 0, "")
	b.pdf.Ln(1)
}

func severityColor(severity string) (int, int, int) {
	switch catalog.Severity(severity) {
	case catalog.SeverityFair:
		return 0, 128, 0
	case catalog.SeverityWarning:
		return 255, 165, 0
	case catalog.SeverityViolation:
		return 255, 0, 0
	default:
		return 107, 114, 128
	}
}

func (b *pdfBuilder) infoTable(rows [][2]string) {
	const keyW, valW, rowH = 50.0, 120.0, 8.0

	b.pdf.SetFont("Helvetica", "B", 12)
	b.pdf.SetFillColor(37, 99, 235)
	b.pdf.SetTextColor(245, 245, 245)
	b.pdf.CellFormat(keyW, rowH, "Property", "1", 0, "L", true, 0, "")
	b.pdf.CellFormat(valW, rowH, "Value", "1", 1, "L", true, 0, "")

	b.pdf.SetFont("Helvetica", "", 11)
	b.pdf.SetFillColor(245, 245, 220)
	b.pdf.SetTextColor(31, 41, 55)
	for _, row := range rows {
		b.pdf.CellFormat(keyW, rowH, row[0], "1", 0, "L", true, 0, "")
		b.pdf.CellFormat(valW, rowH, row[1], "1", 1, "L", true, 0, "")
	}
}

func (b *pdfBuilder) image(name string, png []byte) {
	b.pageBreakIfNeeded(chartImageH + 4)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pageW, _ := b.pdf.GetPageSize()
	x := (pageW - chartImageW) / 2
	b.pdf.ImageOptions(name, x, b.pdf.GetY(), chartImageW, chartImageH, false, opts, 0, "")
	b.pdf.SetY(b.pdf.GetY() + chartImageH + 4)
}

// heatmap draws the calibration grid directly as filled cells, one row per
// group and one column per score decile.
func (b *pdfBuilder) heatmap(curves map[string][]float64, bins []string) {
	groups := sortedKeys(curves)
	if len(groups) == 0 {
		return
	}
	if len(bins) == 0 {
		bins = make([]string, len(curves[groups[0]]))
		for i := range bins {
			bins[i] = fmt.Sprintf("Bin %d", i+1)
		}
	}
	if len(bins) == 0 {
		return
	}

	const labelW, rowH = 28.0, 7.0
	pageW, _ := b.pdf.GetPageSize()
	left, _, right, _ := b.pdf.GetMargins()
	cellW := (pageW - left - right - labelW) / float64(len(bins))

	b.pageBreakIfNeeded(rowH * float64(len(groups)+1))

	b.pdf.SetFont("Helvetica", "", 6)
	b.pdf.SetTextColor(31, 41, 55)
	b.pdf.CellFormat(labelW, rowH, "", "", 0, "", false, 0, "")
	for _, bin := range bins {
		b.pdf.CellFormat(cellW, rowH, bin, "", 0, "C", false, 0, "")
	}
	b.pdf.Ln(rowH)

	for _, group := range groups {
		b.pdf.SetFont("Helvetica", "B", 8)
		b.pdf.CellFormat(labelW, rowH, group, "", 0, "L", false, 0, "")
		b.pdf.SetFont("Helvetica", "", 7)
		curve := curves[group]
		for i := range bins {
			v := 0.0
			if i < len(curve) {
				v = curve[i]
			}
			r, g, bl := heatColor(v)
			b.pdf.SetFillColor(r, g, bl)
			b.pdf.CellFormat(cellW, rowH, fmt.Sprintf("%.2f", v), "1", 0, "C", true, 0, "")
		}
		b.pdf.Ln(rowH)
	}
	b.pdf.Ln(3)
}

// heatColor fades white to steel blue as the shortlisting rate approaches 1.
func heatColor(v float64) (int, int, int) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	lerp := func(from, to int) int {
		return from + int(v*float64(to-from))
	}
	return lerp(255, 70), lerp(255, 130), lerp(255, 180)
}

func (b *pdfBuilder) footnote(text string) {
	b.pdf.SetFont("Helvetica", "I", 10)
	b.pdf.SetTextColor(107, 114, 128)
	b.pdf.MultiCell(0, 5, text, "", "L", false)
}

func (b *pdfBuilder) pageBreakIfNeeded(h float64) {
	_, pageH := b.pdf.GetPageSize()
	_, _, _, bottom := b.pdf.GetMargins()
	if b.pdf.GetY()+h > pageH-bottom {
		b.pdf.AddPage()
	}
}
