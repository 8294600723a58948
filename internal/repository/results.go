package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/common"
	"github.com/ktanaka/notices-tracker/internal/entity"
)

type OcrResultRepository interface {
	// Save upserts the result. Concurrent saves for the same id
	// serialize at the database; last writer wins.
	Save(ctx context.Context, result *entity.OcrResult) error
	GetByID(ctx context.Context, id string) (*entity.OcrResult, error)
	ListByStatus(ctx context.Context, status constants.ProcessingStatus, limit int) ([]entity.OcrResult, error)
}

type ocrResultRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewOcrResultRepository(db *sql.DB, log *slog.Logger) OcrResultRepository {
	if log == nil {
		log = slog.Default()
	}
	return &ocrResultRepo{db: db, log: log}
}

func (r *ocrResultRepo) Save(ctx context.Context, result *entity.OcrResult) error {
	parsed, err := marshalNullable(result.ParsedContent)
	if err != nil {
		return common.WrapError(err, "encode parsed content")
	}
	extracted, err := marshalNullable(result.ExtractedActivities)
	if err != nil {
		return common.WrapError(err, "encode extracted activities")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ocr_results (id, image_id, raw_text, confidence, parsed_content, extracted_activities, processing_status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			raw_text = excluded.raw_text,
			confidence = excluded.confidence,
			parsed_content = excluded.parsed_content,
			extracted_activities = excluded.extracted_activities,
			processing_status = excluded.processing_status,
			error_message = excluded.error_message,
			updated_at = excluded.updated_at`,
		result.ID, result.ImageID, result.RawText, result.Confidence,
		parsed, extracted, string(result.ProcessingStatus),
		result.ErrorMessage, result.CreatedAt, result.UpdatedAt,
	)
	if err != nil {
		r.log.Error("ocr_result save failed", "result_id", result.ID, "err", err)
		return common.WrapError(err, "save ocr result")
	}
	r.log.Info("ocr_result saved", "result_id", result.ID, "status", string(result.ProcessingStatus))
	return nil
}

func (r *ocrResultRepo) GetByID(ctx context.Context, id string) (*entity.OcrResult, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, image_id, raw_text, confidence, parsed_content, extracted_activities, processing_status, error_message, created_at, updated_at
		FROM ocr_results WHERE id = ?`, id)
	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewNotFoundError(id, "ocr result not found")
	}
	if err != nil {
		return nil, common.WrapError(err, "get ocr result")
	}
	return result, nil
}

func (r *ocrResultRepo) ListByStatus(ctx context.Context, status constants.ProcessingStatus, limit int) ([]entity.OcrResult, error) {
	q := sq.Select("id", "image_id", "raw_text", "confidence", "parsed_content", "extracted_activities", "processing_status", "error_message", "created_at", "updated_at").
		From("ocr_results").
		Where(sq.Eq{"processing_status": string(status)}).
		OrderBy("created_at DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, common.WrapError(err, "build query")
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, common.WrapError(err, "list ocr results")
	}
	defer rows.Close()

	var results []entity.OcrResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan ocr result")
		}
		results = append(results, *res)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*entity.OcrResult, error) {
	var (
		res               entity.OcrResult
		parsed, extracted sql.NullString
		status            string
		createdAt         time.Time
		updatedAt         time.Time
	)
	if err := row.Scan(&res.ID, &res.ImageID, &res.RawText, &res.Confidence,
		&parsed, &extracted, &status, &res.ErrorMessage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	res.ProcessingStatus = constants.ProcessingStatus(status)
	res.CreatedAt = createdAt
	res.UpdatedAt = updatedAt
	if parsed.Valid {
		var pc entity.ParsedContent
		if err := json.Unmarshal([]byte(parsed.String), &pc); err != nil {
			return nil, fmt.Errorf("decode parsed content: %w", err)
		}
		res.ParsedContent = &pc
	}
	if extracted.Valid {
		if err := json.Unmarshal([]byte(extracted.String), &res.ExtractedActivities); err != nil {
			return nil, fmt.Errorf("decode extracted activities: %w", err)
		}
	}
	return &res, nil
}

func marshalNullable(v any) (any, error) {
	switch t := v.(type) {
	case *entity.ParsedContent:
		if t == nil {
			return nil, nil
		}
	case []entity.ExtractedActivity:
		if t == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
