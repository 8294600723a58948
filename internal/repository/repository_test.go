package repository

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/common"
	"github.com/ktanaka/notices-tracker/internal/entity"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "notices.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleResult(id string) *entity.OcrResult {
	now := time.Now().UTC().Truncate(time.Second)
	title := "遠足のお知らせ"
	return &entity.OcrResult{
		ID:         id,
		ImageID:    "img-1",
		RawText:    "遠足のお知らせ\n日時：3月15日",
		Confidence: 0.9,
		ParsedContent: &entity.ParsedContent{
			Title:      &title,
			Confidence: 0.9,
		},
		ProcessingStatus: constants.ProcessingCompleted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func sampleActivity(id string) *entity.Activity {
	start := "2025-03-15"
	return &entity.Activity{
		ID:        id,
		Title:     "遠足のお知らせ",
		StartDate: &start,
		IsAllDay:  true,
		Category:  constants.CategoryEvent,
		Priority:  constants.PriorityMedium,
		Status:    constants.ActivityStatusPending,
		MemberIDs: []string{},
		Checklist: []entity.ChecklistItem{},
		Tags:      []string{"イベント", "OCR生成"},
		CreatedAt: "2025-03-01",
		UpdatedAt: "2025-03-01",
	}
}

func TestOcrResultSaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewOcrResultRepository(testDB(t), quietLogger())

	want := sampleResult("result-1")
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByID(ctx, "result-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ImageID != want.ImageID || got.RawText != want.RawText {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got.ProcessingStatus != constants.ProcessingCompleted {
		t.Fatalf("status = %q, want completed", got.ProcessingStatus)
	}
	if got.ParsedContent == nil || got.ParsedContent.Title == nil || *got.ParsedContent.Title != "遠足のお知らせ" {
		t.Fatalf("parsed content did not round-trip: %+v", got.ParsedContent)
	}
	if got.ErrorMessage != nil {
		t.Fatalf("error message = %v, want nil", got.ErrorMessage)
	}
}

func TestOcrResultSaveUpsertsLastWriterWins(t *testing.T) {
	ctx := context.Background()
	repo := NewOcrResultRepository(testDB(t), quietLogger())

	first := sampleResult("result-1")
	first.ProcessingStatus = constants.ProcessingInProgress
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}

	msg := "parse failed"
	second := sampleResult("result-1")
	second.ProcessingStatus = constants.ProcessingFailed
	second.ErrorMessage = &msg
	second.UpdatedAt = first.UpdatedAt.Add(time.Second)
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	got, err := repo.GetByID(ctx, "result-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ProcessingStatus != constants.ProcessingFailed {
		t.Fatalf("status = %q, want failed after upsert", got.ProcessingStatus)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage != "parse failed" {
		t.Fatalf("error message = %v, want parse failed", got.ErrorMessage)
	}
}

func TestOcrResultGetMissing(t *testing.T) {
	repo := NewOcrResultRepository(testDB(t), quietLogger())
	_, err := repo.GetByID(context.Background(), "absent")
	var nerr *common.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("err = %v, want *common.NotFoundError", err)
	}
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound in chain", err)
	}
}

func TestOcrResultListByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOcrResultRepository(testDB(t), quietLogger())

	for i, status := range []constants.ProcessingStatus{
		constants.ProcessingCompleted,
		constants.ProcessingFailed,
		constants.ProcessingCompleted,
	} {
		r := sampleResult("result-" + string(rune('a'+i)))
		r.ProcessingStatus = status
		r.CreatedAt = r.CreatedAt.Add(time.Duration(i) * time.Second)
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	done, err := repo.ListByStatus(ctx, constants.ProcessingCompleted, 0)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(done) != 2 {
		t.Fatalf("len = %d, want 2", len(done))
	}
	limited, err := repo.ListByStatus(ctx, constants.ProcessingCompleted, 1)
	if err != nil {
		t.Fatalf("ListByStatus limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("len = %d, want limit of 1 honored", len(limited))
	}
}

func TestActivitySaveAndQuery(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	results := NewOcrResultRepository(db, quietLogger())
	repo := NewActivityRepository(db, quietLogger())

	if err := results.Save(ctx, sampleResult("result-1")); err != nil {
		t.Fatalf("Save result: %v", err)
	}

	a1 := sampleActivity("ocr-result-1-1")
	a2 := sampleActivity("ocr-result-1-2")
	task := "2025-05-10"
	a2.Category = constants.CategoryTask
	a2.StartDate = &task
	for _, a := range []*entity.Activity{a1, a2} {
		if err := repo.Save(ctx, "result-1", a); err != nil {
			t.Fatalf("Save %s: %v", a.ID, err)
		}
	}

	got, err := repo.GetByID(ctx, "ocr-result-1-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "遠足のお知らせ" || got.StartDate == nil || *got.StartDate != "2025-03-15" {
		t.Fatalf("payload did not round-trip: %+v", got)
	}
	if got.MemberIDs == nil {
		t.Fatal("member ids decoded to nil")
	}

	byResult, err := repo.ListByResult(ctx, "result-1")
	if err != nil {
		t.Fatalf("ListByResult: %v", err)
	}
	if len(byResult) != 2 {
		t.Fatalf("len = %d, want 2", len(byResult))
	}

	tasks, err := repo.List(ctx, ActivityFilter{Category: constants.CategoryTask})
	if err != nil {
		t.Fatalf("List by category: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "ocr-result-1-2" {
		t.Fatalf("tasks = %+v, want just the task", tasks)
	}

	march, err := repo.List(ctx, ActivityFilter{FromDate: "2025-03-01", ToDate: "2025-03-31"})
	if err != nil {
		t.Fatalf("List by range: %v", err)
	}
	if len(march) != 1 || march[0].ID != "ocr-result-1-1" {
		t.Fatalf("march = %+v, want just the event", march)
	}
}

func TestActivitySaveRejectsSchemaViolations(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	repo := NewActivityRepository(db, quietLogger())

	bad := sampleActivity("ocr-result-1-1")
	bad.Title = ""
	if err := repo.Save(ctx, "result-1", bad); err == nil {
		t.Fatal("schema-violating activity was written")
	}

	// Nothing reached the table.
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestHealthCheck(t *testing.T) {
	db := testDB(t)
	if err := HealthCheck(context.Background(), db, time.Second); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
