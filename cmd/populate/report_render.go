package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"thibou/internal/populate"
)

var titleCase = cases.Title(language.English)

// reportLines renders the end-of-run summary: a status line per phase and a
// table of enrichment counters.
func reportLines(report populate.Report, colorize bool) []string {
	lines := renderSectionHeader("Populate "+report.Kind.Command(), colorize)
	lines = append(lines, renderStatusLine("Run", statusInfo, report.RunID, colorize))
	lines = append(lines, uploadLine(report, colorize))
	if report.Upload.ImageFailures > 0 {
		message := fmt.Sprintf("%d image(s) could not be uploaded", report.Upload.ImageFailures)
		lines = append(lines, renderStatusLine("Images", statusWarn, message, colorize))
	}
	for _, step := range report.Steps {
		lines = append(lines, stepLine(step, colorize))
	}
	lines = append(lines, renderStatusLine("Duration", statusInfo, report.Duration.Round(time.Second).String(), colorize))

	if table := stepTable(report.Steps); table != "" {
		lines = append(lines, "", table)
	}
	return lines
}

func uploadLine(report populate.Report, colorize bool) string {
	result := report.Upload
	switch {
	case result.Attempted == 0:
		return renderStatusLine("Upload", statusWarn, "no records fetched", colorize)
	case result.Failed == 0:
		return renderStatusLine("Upload", statusOK, fmt.Sprintf("%d created", result.Succeeded), colorize)
	default:
		message := fmt.Sprintf("%d created, %d failed", result.Succeeded, result.Failed)
		names := make([]string, 0, len(result.Failures))
		for _, failure := range result.Failures {
			names = append(names, failure.Name)
		}
		if len(names) > 0 {
			message += " (" + strings.Join(names, ", ") + ")"
		}
		return renderStatusLine("Upload", statusWarn, message, colorize)
	}
}

func stepLine(step populate.StepReport, colorize bool) string {
	label := titleCase.String(step.Name)
	switch {
	case step.Skipped:
		return renderStatusLine(label, statusInfo, "skipped", colorize)
	case step.Err != nil:
		return renderStatusLine(label, statusError, step.Err.Error(), colorize)
	}
	summary := step.Summary
	message := fmt.Sprintf("%d updated, %d unchanged, %d unmatched", summary.Updated, summary.Unchanged, summary.Unmatched)
	kind := statusOK
	if summary.Failed > 0 || summary.ImageFailures > 0 {
		kind = statusWarn
		message += fmt.Sprintf(", %d failed", summary.Failed)
	}
	return renderStatusLine(label, kind, message, colorize)
}

func stepTable(steps []populate.StepReport) string {
	rows := make([][]string, 0, len(steps))
	for _, step := range steps {
		if step.Skipped || step.Err != nil {
			continue
		}
		s := step.Summary
		rows = append(rows, []string{
			step.Name,
			strconv.Itoa(s.Records),
			strconv.Itoa(s.Scraped),
			strconv.Itoa(s.Matched),
			strconv.Itoa(s.Updated),
			strconv.Itoa(s.Unchanged),
			strconv.Itoa(s.Unmatched),
			strconv.Itoa(s.Failed),
			strconv.Itoa(s.ImageFailures),
		})
	}
	if len(rows) == 0 {
		return ""
	}
	headers := []string{"Step", "Records", "Scraped", "Matched", "Updated", "Unchanged", "Unmatched", "Failed", "Image failures"}
	aligns := []columnAlignment{alignLeft}
	for range headers[1:] {
		aligns = append(aligns, alignRight)
	}
	return renderTable(headers, rows, aligns)
}
