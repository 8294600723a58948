// Package parser turns raw OCR text recovered from photographed notices
// into structured, validated ParsedContent values.
package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ktanaka/notices-tracker/internal/common"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/keywords"
	"github.com/ktanaka/notices-tracker/internal/validate"
)

type Parser struct {
	logger  *slog.Logger
	catalog keywords.Catalog
}

func New(logger *slog.Logger, catalog keywords.Catalog) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, catalog: catalog}
}

// Parse runs every extractor over the raw text, aggregates the
// confidence and returns a validated ParsedContent. ocrConfidence is
// the upstream recognition score, blended into the aggregate as-is.
// Extraction never panics past this boundary; internal faults degrade
// to a ParseError carrying the original text.
func (p *Parser) Parse(rawText string, ocrConfidence float64) (content entity.ParsedContent, err error) {
	if strings.TrimSpace(rawText) == "" {
		return entity.ParsedContent{}, common.NewParseError(rawText, "raw text is empty")
	}

	defer func() {
		if r := recover(); r != nil {
			err = common.NewParseError(rawText, fmt.Sprintf("unexpected parser fault: %v", r))
		}
	}()

	text := NormalizeText(rawText)

	content = entity.ParsedContent{
		Dates:     extractDates(text, p.catalog),
		Times:     extractTimes(text, p.catalog),
		Items:     extractItems(text, p.catalog),
		Locations: extractLocations(text, p.catalog),
		Notes:     extractNotes(text, p.catalog),
	}
	if title, ok := extractTitle(text); ok {
		content.Title = &title
	}
	content.Confidence = aggregateConfidence(content, ocrConfidence)

	if verr := validate.ParsedContent(content); verr != nil {
		return entity.ParsedContent{}, verr
	}

	p.logger.Debug("parser.ok",
		"dates", len(content.Dates),
		"times", len(content.Times),
		"items", len(content.Items),
		"locations", len(content.Locations),
		"notes", len(content.Notes),
		"confidence", content.Confidence,
	)
	return content, nil
}

// aggregateConfidence is the flat arithmetic mean over every nested
// element's confidence plus the upstream OCR confidence. With no nested
// elements it degenerates to the OCR confidence alone.
func aggregateConfidence(content entity.ParsedContent, ocrConfidence float64) float64 {
	sum := ocrConfidence
	n := 1
	for _, d := range content.Dates {
		sum += d.Confidence
		n++
	}
	for _, t := range content.Times {
		sum += t.Confidence
		n++
	}
	for _, it := range content.Items {
		sum += it.Confidence
		n++
	}
	return sum / float64(n)
}
