// Package export produces XLSX workbooks from persisted activities.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/repository"
)

// Service is a tiny façade over the activity repository that renders
// XLSX bytes for exports.
type Service struct {
	activities repository.ActivityRepository
	logger     *slog.Logger
}

func NewService(activities repository.ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{activities: activities, logger: logger}
}

// ExportActivitiesXLSX returns a workbook for activities whose start
// date falls in the given window. Empty bounds mean unbounded.
func (s *Service) ExportActivitiesXLSX(ctx context.Context, fromDate, toDate string) ([]byte, error) {
	start := time.Now()

	activities, err := s.activities.List(ctx, repository.ActivityFilter{
		FromDate: fromDate,
		ToDate:   toDate,
	})
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Activities"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"開始日",
		"タイトル",
		"種別",
		"優先度",
		"開始時間",
		"終了時間",
		"締切日",
		"場所",
		"持ち物",
		"タグ",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, a := range activities {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, deref(a.StartDate))
		write(2, a.Title)
		write(3, string(a.Category))
		write(4, string(a.Priority))
		write(5, deref(a.StartTime))
		write(6, deref(a.EndTime))
		write(7, deref(a.DueDate))
		write(8, deref(a.Location))
		write(9, checklistSummary(a.Checklist))
		write(10, strings.Join(a.Tags, ", "))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 32)
	_ = f.SetColWidth(sheet, "C", "D", 12)
	_ = f.SetColWidth(sheet, "E", "G", 12)
	_ = f.SetColWidth(sheet, "H", "H", 20)
	_ = f.SetColWidth(sheet, "I", "J", 36)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(activities),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func checklistSummary(items []entity.ChecklistItem) string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return strings.Join(titles, "、")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
