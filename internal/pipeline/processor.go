// Package pipeline coordinates parse, synthesis, conversion and
// persistence for one recognized document at a time.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/parser"
	"github.com/ktanaka/notices-tracker/internal/repository"
	"github.com/ktanaka/notices-tracker/internal/synthesizer"
	"github.com/ktanaka/notices-tracker/internal/vision"
)

// Document is one unit of pipeline input: the raw text an external
// recognition service produced for an image, with its prior confidence.
type Document struct {
	ImageID    string
	RawText    string
	Confidence float64
}

// BatchOutcome pairs one document's result with its error, if any.
// Batches are processed with per-document isolation: one failing
// document never aborts the rest.
type BatchOutcome struct {
	Result *entity.OcrResult
	Err    error
}

type Processor struct {
	Logger     *slog.Logger
	Parser     *parser.Parser
	Synth      *synthesizer.Synthesizer
	Results    repository.OcrResultRepository
	Activities repository.ActivityRepository
	Thresholds entity.ConfidenceThresholds
}

func NewProcessor(
	logger *slog.Logger,
	p *parser.Parser,
	s *synthesizer.Synthesizer,
	results repository.OcrResultRepository,
	activities repository.ActivityRepository,
	thresholds entity.ConfidenceThresholds,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:     logger,
		Parser:     p,
		Synth:      s,
		Results:    results,
		Activities: activities,
		Thresholds: thresholds,
	}
}

// Process runs one document through parse -> synthesize -> convert ->
// persist. The OcrResult row tracks the document through every stage;
// a failed stage finishes it with status failed and the stage error.
func (p *Processor) Process(ctx context.Context, doc Document) (*entity.OcrResult, error) {
	now := time.Now().UTC()
	result := &entity.OcrResult{
		ID:               uuid.New().String(),
		ImageID:          doc.ImageID,
		RawText:          doc.RawText,
		Confidence:       doc.Confidence,
		ProcessingStatus: constants.ProcessingInProgress,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := p.Results.Save(ctx, result); err != nil {
		return nil, err
	}

	content, err := p.Parser.Parse(doc.RawText, doc.Confidence)
	if err != nil {
		p.Logger.Error("pipeline.parse.failed", "result_id", result.ID, "image_id", doc.ImageID, "err", err)
		return p.finishFailure(ctx, result, err)
	}
	result.ParsedContent = &content

	activities, err := p.Synth.Synthesize(content)
	if err != nil {
		p.Logger.Error("pipeline.synthesize.failed", "result_id", result.ID, "image_id", doc.ImageID, "err", err)
		return p.finishFailure(ctx, result, err)
	}
	result.ExtractedActivities = activities

	for _, candidate := range activities {
		activity, err := synthesizer.ToDomain(candidate, result.ID)
		if err != nil {
			p.Logger.Error("pipeline.convert.failed", "result_id", result.ID, "title", candidate.Title, "err", err)
			return p.finishFailure(ctx, result, err)
		}
		if err := p.Activities.Save(ctx, result.ID, &activity); err != nil {
			return p.finishFailure(ctx, result, err)
		}
	}

	result.ProcessingStatus = p.Thresholds.StatusFor(content.Confidence)
	result.UpdatedAt = time.Now().UTC()
	if err := p.Results.Save(ctx, result); err != nil {
		return nil, err
	}

	p.Logger.Info("pipeline.ok",
		"result_id", result.ID,
		"image_id", doc.ImageID,
		"activities", len(activities),
		"confidence", content.Confidence,
		"status", string(result.ProcessingStatus),
	)
	return result, nil
}

// ProcessImage recognizes one image through the upstream service and
// runs the recognized text through the pipeline. The service confidence
// becomes the document's OCR prior.
func (p *Processor) ProcessImage(ctx context.Context, rec vision.TextRecognizer, imagePath string) (*entity.OcrResult, error) {
	recognized, err := rec.Recognize(ctx, imagePath)
	if err != nil {
		p.Logger.Error("pipeline.recognize.failed", "image", imagePath, "err", err)
		return nil, err
	}
	return p.Process(ctx, Document{
		ImageID:    filepath.Base(imagePath),
		RawText:    recognized.Text,
		Confidence: recognized.Confidence,
	})
}

// ProcessBatch runs each document independently and collects per-item
// outcomes in input order.
func (p *Processor) ProcessBatch(ctx context.Context, docs []Document) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(docs))
	for i, doc := range docs {
		res, err := p.Process(ctx, doc)
		outcomes[i] = BatchOutcome{Result: res, Err: err}
	}
	return outcomes
}

func (p *Processor) finishFailure(ctx context.Context, result *entity.OcrResult, cause error) (*entity.OcrResult, error) {
	msg := cause.Error()
	result.ProcessingStatus = constants.ProcessingFailed
	result.ErrorMessage = &msg
	result.UpdatedAt = time.Now().UTC()
	if saveErr := p.Results.Save(ctx, result); saveErr != nil {
		p.Logger.Error("pipeline.finish_failure.save_failed", "result_id", result.ID, "err", saveErr)
	}
	return result, cause
}
