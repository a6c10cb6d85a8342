package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/waterbills/internal/entity"
)

const sheet = "Bills"

// OutcomeLister is the read side of the outcome store.
type OutcomeLister interface {
	ListOutcomes(ctx context.Context, limit int) ([]entity.Outcome, error)
}

// Service produces XLSX exports of stored outcomes.
type Service struct {
	store  OutcomeLister
	logger *slog.Logger
}

func NewService(store OutcomeLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportXLSX returns the most recent limit outcomes as a workbook.
func (s *Service) ExportXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()
	outs, err := s.store.ListOutcomes(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	b, err := WriteXLSX(outs)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"rows", len(outs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// WriteXLSX renders outcomes one per row: the canonical columns followed by
// Status and Message. Failed documents keep only File_Name.
func WriteXLSX(outs []entity.Outcome) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	_ = f.DeleteSheet("Sheet1")
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := append(append([]string{}, entity.Columns...), "Status", "Message")
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, o := range outs {
		row := r + 2
		var values []string
		if o.Record != nil {
			values = o.Record.Values()
		} else {
			values = make([]string, len(entity.Columns))
			values[0] = o.FileName
		}
		values = append(values, string(o.Status), o.Message)
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // file
	_ = f.SetColWidth(sheet, "B", "D", 18)
	_ = f.SetColWidth(sheet, "E", "F", 26) // dates
	_ = f.SetColWidth(sheet, "G", "M", 14) // amounts
	_ = f.SetColWidth(sheet, "O", "O", 40) // message

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
