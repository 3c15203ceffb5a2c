package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"whisper-batch/internal/app/model"
)

// SheetName is the worksheet that holds the outcome rows.
const SheetName = "Outcomes"

var header = []string{
	"ID",
	"Run ID",
	"Mode",
	"Source Path",
	"Output Path",
	"Provider",
	"Status",
	"Error Kind",
	"Error Message",
	"Text Length",
	"Duration (s)",
	"Processed At",
}

// ToExcel writes one row per outcome to outputFilePath.
func ToExcel(records []model.OutcomeRecord, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(r.ID)
		row.AddCell().Value = r.RunID
		row.AddCell().Value = r.Mode.String()
		row.AddCell().Value = r.SourcePath
		row.AddCell().Value = r.OutputPath
		row.AddCell().Value = r.Provider
		row.AddCell().Value = status(r)
		row.AddCell().Value = r.ErrorKind
		row.AddCell().Value = r.ErrorMessage
		row.AddCell().SetInt(r.TextLength)
		row.AddCell().Value = fmt.Sprintf("%.2f", float64(r.DurationMs)/1000)
		row.AddCell().Value = r.ProcessedAt.Format(time.RFC3339)
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save %s: %w", outputFilePath, err)
	}
	return nil
}

func status(r model.OutcomeRecord) string {
	if r.Succeeded {
		return "ok"
	}
	return "failed"
}
