package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"hrscreening/resume-screener/internal/models"
)

// ExporterService renders recorded submissions as an XLSX workbook.
type ExporterService interface {
	Export(submissions []models.Submission) (*bytes.Buffer, error)
}

type exporterService struct{}

func NewExporterService() ExporterService {
	return &exporterService{}
}

// Export implements ExporterService.
func (e *exporterService) Export(submissions []models.Submission) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Submissions"
	f.SetSheetName("Sheet1", sheetName)

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "E", 25)
	f.SetColWidth(sheetName, "H", "H", 50)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Timestamp", "Full Name", "Email", "Phone", "Resume File", "Score", "Decision", "Reasons"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	f.SetCellStyle(sheetName, "A1", "H1", headerStyle)

	accepted := 0
	for i, sub := range submissions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sub.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), sub.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), sub.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), sub.Phone)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), sub.ResumeFile)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), sub.Score)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), string(sub.Decision))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), sub.Reasons)

		if sub.Decision == models.DecisionAccepted {
			accepted++
		}
	}

	// Summary block below the table.
	summaryRow := len(submissions) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Generated:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), time.Now().Format("2006-01-02 15:04:05"))
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow+1), "Total Submissions:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow+1), len(submissions))
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow+2), "Accepted:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow+2), accepted)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &buf, nil
}
