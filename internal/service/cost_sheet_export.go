package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sailfin-io/backoffice-api/internal/repository"
)

var exportHeader = []string{
	"Sheet Number",
	"Customer",
	"Project",
	"Project Manager",
	"Sales Person",
	"Date",
	"Status",
	"Total Cost",
	"Total Margin",
	"Total Price",
	"Margin %",
}

// ExportCSV writes the filtered cost sheets as a CSV report.
func (s *CostSheetService) ExportCSV(ctx context.Context, filters *repository.CostSheetFilters, w io.Writer) error {
	sheets, err := s.sheetRepo.ListFiltered(ctx, filters)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for i := range sheets {
		sheet := &sheets[i]
		date := sheet.CreatedAt.Format("2006-01-02")
		if sheet.Date != nil {
			date = sheet.Date.Format("2006-01-02")
		}
		record := []string{
			sheet.SheetNumber,
			sheet.CustomerName,
			sheet.ProjectName,
			sheet.ProjectManager,
			sheet.SalesPerson,
			date,
			string(sheet.Status),
			sheet.TotalCost.StringFixed(2),
			sheet.TotalMargin.StringFixed(2),
			sheet.TotalPrice.StringFixed(2),
			sheet.TotalMarginPct.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
