package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/common"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/schema"
)

// ActivityFilter narrows List queries. Zero values mean "no filter".
type ActivityFilter struct {
	Category constants.ActivityCategory
	FromDate string // inclusive, YYYY-MM-DD, matched against start_date
	ToDate   string // inclusive
	Limit    int
}

type ActivityRepository interface {
	Save(ctx context.Context, resultID string, activity *entity.Activity) error
	GetByID(ctx context.Context, id string) (*entity.Activity, error)
	ListByResult(ctx context.Context, resultID string) ([]entity.Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]entity.Activity, error)
}

type activityRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewActivityRepository(db *sql.DB, log *slog.Logger) ActivityRepository {
	if log == nil {
		log = slog.Default()
	}
	return &activityRepo{db: db, log: log}
}

func (r *activityRepo) Save(ctx context.Context, resultID string, activity *entity.Activity) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return common.WrapError(err, "encode activity")
	}
	// Structural gate at the storage boundary: nothing that fails the
	// document schema is ever written.
	if err := schema.ValidateActivityJSON(payload); err != nil {
		r.log.Error("activity schema rejected", "activity_id", activity.ID, "err", err)
		return common.WrapError(err, "validate activity document")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activities (id, result_id, title, category, priority, status, start_date, due_date, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			priority = excluded.priority,
			status = excluded.status,
			start_date = excluded.start_date,
			due_date = excluded.due_date,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		activity.ID, resultID, activity.Title, string(activity.Category),
		string(activity.Priority), string(activity.Status),
		activity.StartDate, activity.DueDate, string(payload),
		activity.CreatedAt, activity.UpdatedAt,
	)
	if err != nil {
		r.log.Error("activity save failed", "activity_id", activity.ID, "err", err)
		return common.WrapError(err, "save activity")
	}
	r.log.Info("activity saved", "activity_id", activity.ID, "result_id", resultID, "category", string(activity.Category))
	return nil
}

func (r *activityRepo) GetByID(ctx context.Context, id string) (*entity.Activity, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM activities WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewNotFoundError(id, "activity not found")
	}
	if err != nil {
		return nil, common.WrapError(err, "get activity")
	}
	return decodeActivity(payload)
}

func (r *activityRepo) ListByResult(ctx context.Context, resultID string) ([]entity.Activity, error) {
	return r.query(ctx, sq.Select("payload").From("activities").
		Where(sq.Eq{"result_id": resultID}).
		OrderBy("id"))
}

func (r *activityRepo) List(ctx context.Context, filter ActivityFilter) ([]entity.Activity, error) {
	q := sq.Select("payload").From("activities").OrderBy("start_date", "id")
	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": string(filter.Category)})
	}
	if filter.FromDate != "" {
		q = q.Where(sq.GtOrEq{"start_date": filter.FromDate})
	}
	if filter.ToDate != "" {
		q = q.Where(sq.LtOrEq{"start_date": filter.ToDate})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	return r.query(ctx, q)
}

func (r *activityRepo) query(ctx context.Context, q sq.SelectBuilder) ([]entity.Activity, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, common.WrapError(err, "build query")
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, common.WrapError(err, "list activities")
	}
	defer rows.Close()

	var activities []entity.Activity
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, common.WrapError(err, "scan activity")
		}
		a, err := decodeActivity(payload)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func decodeActivity(payload string) (*entity.Activity, error) {
	var a entity.Activity
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, common.WrapError(err, "decode activity")
	}
	return &a, nil
}
