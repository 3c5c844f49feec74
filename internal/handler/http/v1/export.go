package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

const (
	exportSheetName   = "Signals"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTimeLayout  = "2006-01-02 15:04:05"
	exportFileDateFmt = "2006-01-02"
)

// SignalExportHeader - колонки отчета по сигналам
var SignalExportHeader = []string{
	"Signal ID",
	"Created At",
	"Danger Level",
	"Status",
	"Latitude",
	"Longitude",
	"Description",
	"Images",
	"Assigned Team",
	"Rescuer Latitude",
	"Rescuer Longitude",
	"Rescuer Reported At",
	"Updated At",
}

var signalExportWidths = []float64{38, 20, 14, 14, 12, 12, 60, 8, 38, 16, 16, 20, 20}

// GenerateSignalReport строит xlsx со списком сигналов, первая строка - заголовок
func GenerateSignalReport(signals []*models.Signal) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FDE2E1"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range SignalExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(exportSheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(exportSheetName, name, name, signalExportWidths[col]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, s := range signals {
		row := i + 2
		for col, value := range signalRow(s) {
			if value == nil || value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value at row %d, col %d: %w", row, col+1, err)
			}
		}
	}

	// Заголовок остается видимым при прокрутке
	if err := f.SetPanes(exportSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

// signalRow раскладывает сигнал по колонкам SignalExportHeader
func signalRow(s *models.Signal) []any {
	row := []any{
		s.ID.String(),
		s.CreatedAt.UTC().Format(exportTimeLayout),
		string(s.DangerLevel),
		string(s.Status),
		s.Latitude,
		s.Longitude,
		s.Description,
		s.ImageCount,
		nil, nil, nil, nil,
		s.UpdatedAt.UTC().Format(exportTimeLayout),
	}
	if s.AssignedTeamID != nil {
		row[8] = s.AssignedTeamID.String()
	}
	if loc := s.RescuerLocation; loc != nil {
		row[9] = loc.Latitude
		row[10] = loc.Longitude
		row[11] = loc.ReportedAt.UTC().Format(exportTimeLayout)
	}
	return row
}

// @Summary Export signals report
// @Description Download the filtered signal list as an Excel workbook. Requires team token.
// @Tags Rescue
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Signal status" Enums(pending, in_progress, completed)
// @Param danger_level query string false "Danger level" Enums(red, yellow, green)
// @Success 200 {file} file "xlsx report"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /rescue/signals/export [get]
func (h *Handler) exportSignals(c *gin.Context) {
	log := h.logger.WithField("method", "exportSignals")

	signals, err := h.signalService.ListSignals(c.Request.Context(), parseSignalFilter(c))
	if err != nil {
		respondError(c, log, err)
		return
	}

	data, err := GenerateSignalReport(signals)
	if err != nil {
		respondError(c, log, err)
		return
	}

	filename := fmt.Sprintf("sos-signals-%s.xlsx", time.Now().UTC().Format(exportFileDateFmt))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
