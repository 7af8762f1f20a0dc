package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/config"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/dto"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/model"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/repository"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/pkg/redis"
)

// 单排期单次生成的候选上限。到期游标异常久远（如 next_due_date 被
// 误置到多年前）时防止无界插入；触顶记告警并继续处理下一排期
const maxCandidatesPerSchedule = 100

// SchedulingService 排期引擎业务接口
// 记录生成、逾期扫描、分析与批量维护的入口
type SchedulingService interface {
	// GenerateUpcomingRecords 为全部活跃排期在 [today, today+daysAhead] 窗口内
	// 预生成记录。幂等：依赖 (schedule_id, due_date) 唯一约束，冲突视为无操作。
	// 单排期失败只记入 errors，不影响其他排期
	GenerateUpcomingRecords(ctx context.Context, daysAhead int) (*dto.GenerateRecordsResult, error)
	// UpdateOverdueRecords 将 due_date 严格早于今天的 pending 记录置为 overdue。
	// 今天到期的记录当天不算逾期
	UpdateOverdueRecords(ctx context.Context) (*dto.OverdueUpdateResult, error)
	// RecalculateNextDueDate 重算单条排期的到期游标：
	// 有已完成记录时以最近完成日为基准，否则以起始日（缺省今天）为基准
	RecalculateNextDueDate(ctx context.Context, scheduleID string) (*dto.ScheduleResponse, error)
	GetScheduleAnalytics(ctx context.Context, facilityID string) (*dto.ScheduleAnalytics, error)
	// BulkUpdateSchedules 批量维护排期。每条目独立处理，单条失败不中断整批
	BulkUpdateSchedules(ctx context.Context, req *dto.BulkUpdateRequest, callerID string) (*dto.BulkUpdateResult, error)
	GetComplianceStatistics(ctx context.Context, facilityID string) (*dto.ComplianceStatistics, error)
	GetFacilityDashboard(ctx context.Context, facilityID string, year int) (*dto.FacilityDashboard, error)
}

type schedulingService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewSchedulingService 创建 SchedulingService 实例。rdb 可为 nil（禁用缓存）
func NewSchedulingService(repo *repository.Repository, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) SchedulingService {
	return &schedulingService{repo: repo, rdb: rdb, cfg: cfg, logger: logger, now: time.Now}
}

// ── 记录生成 ──

func (s *schedulingService) GenerateUpcomingRecords(ctx context.Context, daysAhead int) (*dto.GenerateRecordsResult, error) {
	if daysAhead <= 0 {
		daysAhead = 90
	}
	today := dateOnly(s.now())
	endDate := today.AddDate(0, 0, daysAhead)

	schedules, err := s.repo.Schedule.ListActive(ctx)
	if err != nil {
		s.logger.Error("加载活跃排期失败", zap.Error(err))
		return nil, err
	}

	result := &dto.GenerateRecordsResult{Errors: []string{}}
	for i := range schedules {
		schedule := &schedules[i]
		result.TotalSchedulesProcessed++

		generated, updated, err := s.generateForSchedule(ctx, schedule, today, endDate)
		if err != nil {
			// 单排期失败：记错误，整批继续
			result.Errors = append(result.Errors,
				fmt.Sprintf("排期 %s: %v", schedule.ScheduleID, err))
			s.logger.Warn("排期记录生成失败",
				zap.String("schedule_id", schedule.ScheduleID), zap.Error(err))
			continue
		}
		result.RecordsGenerated += generated
		result.RecordsUpdated += updated
	}

	s.logger.Info("记录生成完成",
		zap.Int("generated", result.RecordsGenerated),
		zap.Int("schedules", result.TotalSchedulesProcessed),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// generateForSchedule 为单条排期生成窗口内的记录，独立事务。
// 游标取法：next_due_date 存在且不早于今天时用之；否则回退到
// start_date，再缺省为今天。从游标出发按频率步进枚举候选到期日，
// 新候选插为 pending；已存在且仍 pending 的过期记录顺带翻为 overdue
func (s *schedulingService) generateForSchedule(ctx context.Context, schedule *model.ComplianceSchedule, today, endDate time.Time) (int, int, error) {
	due := today
	if schedule.StartDate != nil {
		due = dateOnly(*schedule.StartDate)
	}
	if schedule.NextDueDate != nil && !dateOnly(*schedule.NextDueDate).Before(today) {
		due = dateOnly(*schedule.NextDueDate)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	txRepo := s.repo.WithTx(tx)

	generated, updated := 0, 0
	candidates := 0
	for !due.After(endDate) {
		if candidates >= maxCandidatesPerSchedule {
			s.logger.Warn("排期候选到期日触顶，截断生成",
				zap.String("schedule_id", schedule.ScheduleID),
				zap.Int("cap", maxCandidatesPerSchedule))
			break
		}
		candidates++

		record := &model.ComplianceRecord{
			ScheduleID: schedule.ScheduleID,
			DueDate:    due,
			Status:     model.RecordStatusPending,
		}
		inserted, err := txRepo.Record.Insert(ctx, record)
		if err != nil {
			if tx != nil {
				tx.Rollback()
			}
			return 0, 0, err
		}
		if inserted {
			generated++
		} else if due.Before(today) {
			if err := s.flipOverdueCandidate(ctx, txRepo, schedule.ScheduleID, due, &updated); err != nil {
				if tx != nil {
					tx.Rollback()
				}
				return 0, 0, err
			}
		}
		due = AdvanceDueDate(due, schedule.Frequency)
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return 0, 0, err
		}
	}
	return generated, updated, nil
}

// flipOverdueCandidate 将已存在且仍 pending 的过期候选记录翻为 overdue
func (s *schedulingService) flipOverdueCandidate(ctx context.Context, txRepo *repository.Repository, scheduleID string, due time.Time, updated *int) error {
	existing, err := txRepo.Record.GetByScheduleAndDueDate(ctx, scheduleID, due)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.Status != model.RecordStatusPending {
		return nil
	}
	existing.Status = model.RecordStatusOverdue
	if err := txRepo.Record.Update(ctx, existing); err != nil {
		return err
	}
	*updated++
	return nil
}

// ── 逾期扫描 ──

func (s *schedulingService) UpdateOverdueRecords(ctx context.Context) (*dto.OverdueUpdateResult, error) {
	today := dateOnly(s.now())
	n, err := s.repo.Record.MarkOverdueBefore(ctx, today)
	if err != nil {
		s.logger.Error("逾期扫描失败", zap.Error(err))
		return nil, err
	}
	if n > 0 {
		s.logger.Info("逾期扫描完成", zap.Int64("updated", n))
	}
	return &dto.OverdueUpdateResult{OverdueRecordsUpdated: int(n)}, nil
}

// ── 游标重算 ──

func (s *schedulingService) RecalculateNextDueDate(ctx context.Context, scheduleID string) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	// 查询失败必须上抛：以 start_date 兜底会把游标错误回拨
	base := dateOnly(s.now())
	last, err := s.repo.Record.LatestCompleted(ctx, scheduleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询最近完成记录失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}
	if err == nil && last.CompletedDate != nil {
		base = dateOnly(*last.CompletedDate)
	} else if schedule.StartDate != nil {
		base = dateOnly(*schedule.StartDate)
	}

	next := AdvanceDueDate(base, schedule.Frequency)
	schedule.NextDueDate = &next
	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		s.logger.Error("重算到期游标失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("到期游标已重算",
		zap.String("schedule_id", scheduleID),
		zap.String("next_due_date", formatDate(next)))
	return toScheduleResponse(schedule), nil
}

// ── 排期分析 ──

func (s *schedulingService) GetScheduleAnalytics(ctx context.Context, facilityID string) (*dto.ScheduleAnalytics, error) {
	cacheKey := facilityID
	if cacheKey == "" {
		cacheKey = "all"
	}
	if s.cacheEnabled() {
		if cached, err := s.rdb.GetAnalyticsCache(ctx, cacheKey); err == nil && cached != "" {
			var analytics dto.ScheduleAnalytics
			if err := json.Unmarshal([]byte(cached), &analytics); err == nil {
				return &analytics, nil
			}
		}
	}

	schedules, err := s.repo.Schedule.List(ctx, facilityID)
	if err != nil {
		s.logger.Error("加载排期失败", zap.Error(err))
		return nil, err
	}

	today := dateOnly(s.now())
	analytics := &dto.ScheduleAnalytics{
		TotalSchedules:     len(schedules),
		FrequencyBreakdown: map[string]int{},
		UpcomingDueDates:   []dto.UpcomingDueDate{},
		GeneratedAt:        s.now().UTC().Format(time.RFC3339),
	}

	for i := range schedules {
		schedule := &schedules[i]
		analytics.FrequencyBreakdown[schedule.Frequency]++
		if schedule.NextDueDate == nil {
			continue
		}
		due := dateOnly(*schedule.NextDueDate)
		if due.Before(today) {
			continue
		}
		analytics.UpcomingDueDates = append(analytics.UpcomingDueDates, dto.UpcomingDueDate{
			ScheduleID:   schedule.ScheduleID,
			FacilityID:   schedule.FacilityID,
			FunctionID:   schedule.FunctionID,
			NextDueDate:  formatDate(due),
			DaysUntilDue: int(due.Sub(today).Hours() / 24),
		})
	}

	// 按距今天数升序，平手按 schedule_id 升序，截取前 20
	sort.Slice(analytics.UpcomingDueDates, func(i, j int) bool {
		a, b := analytics.UpcomingDueDates[i], analytics.UpcomingDueDates[j]
		if a.DaysUntilDue != b.DaysUntilDue {
			return a.DaysUntilDue < b.DaysUntilDue
		}
		return a.ScheduleID < b.ScheduleID
	})
	if len(analytics.UpcomingDueDates) > 20 {
		analytics.UpcomingDueDates = analytics.UpcomingDueDates[:20]
	}

	if s.cacheEnabled() {
		if payload, err := json.Marshal(analytics); err == nil {
			// 缓存写失败不影响响应
			_ = s.rdb.SetAnalyticsCache(ctx, cacheKey, string(payload), s.cfg.Redis.AnalyticsCacheTTL)
		}
	}
	return analytics, nil
}

func (s *schedulingService) cacheEnabled() bool {
	return s.rdb != nil && s.cfg != nil && s.cfg.Feature.AnalyticsCacheEnabled
}

// ── 批量维护 ──

func (s *schedulingService) BulkUpdateSchedules(ctx context.Context, req *dto.BulkUpdateRequest, callerID string) (*dto.BulkUpdateResult, error) {
	result := &dto.BulkUpdateResult{Errors: []string{}}

	for _, item := range req.Updates {
		if err := s.applyBulkItem(ctx, &item, callerID); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors,
				fmt.Sprintf("排期 %s: %v", item.ScheduleID, err))
			continue
		}
		result.UpdatedCount++
	}

	if result.UpdatedCount > 0 && s.rdb != nil {
		// 排期已变，分析缓存失效；失败仅告警
		if err := s.rdb.InvalidateAnalyticsCache(ctx); err != nil {
			s.logger.Warn("分析缓存失效失败", zap.Error(err))
		}
	}
	return result, nil
}

func (s *schedulingService) applyBulkItem(ctx context.Context, item *dto.BulkUpdateItem, callerID string) error {
	schedule, err := s.repo.Schedule.GetByID(ctx, item.ScheduleID)
	if err != nil {
		return err
	}

	if item.Frequency != nil {
		schedule.Frequency = *item.Frequency
	}
	if item.AssignedTo != nil {
		schedule.AssignedTo = item.AssignedTo
	}
	if item.StartDate != nil {
		startDate, err := parseDate(*item.StartDate)
		if err != nil {
			return ErrInvalidStartDate
		}
		schedule.StartDate = &startDate
	}

	// 频率或起始日变更才重算游标。重算基准为生效后的起始日：
	// 本次提供的优先，否则沿用库中已有值；二者皆缺时游标保持不动
	if item.Frequency != nil || item.StartDate != nil {
		if schedule.StartDate != nil {
			next := AdvanceDueDate(dateOnly(*schedule.StartDate), schedule.Frequency)
			schedule.NextDueDate = &next
		}
	}

	schedule.UpdatedBy = &callerID
	return s.repo.Schedule.Update(ctx, schedule)
}

// ── 统计与面板 ──

func (s *schedulingService) GetComplianceStatistics(ctx context.Context, facilityID string) (*dto.ComplianceStatistics, error) {
	total, err := s.repo.Record.CountAll(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.Record.CountCompleted(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	today := dateOnly(s.now())
	overdue, err := s.repo.Record.CountOverduePending(ctx, facilityID, today)
	if err != nil {
		return nil, err
	}

	stats := &dto.ComplianceStatistics{
		TotalRecords:     int(total),
		CompletedRecords: int(completed),
		OverdueRecords:   int(overdue),
	}
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total) * 100
	}
	return stats, nil
}

func (s *schedulingService) GetFacilityDashboard(ctx context.Context, facilityID string, year int) (*dto.FacilityDashboard, error) {
	if year == 0 {
		year = s.now().Year()
	}

	schedules, err := s.repo.Schedule.ListByFacility(ctx, facilityID, true)
	if err != nil {
		s.logger.Error("加载设施排期失败", zap.String("facility_id", facilityID), zap.Error(err))
		return nil, err
	}

	dashboard := &dto.FacilityDashboard{
		FacilityID: facilityID,
		Year:       year,
		Schedules:  []dto.DashboardSchedule{},
	}

	for i := range schedules {
		schedule := &schedules[i]
		records, err := s.repo.Record.ListByScheduleInYear(ctx, schedule.ScheduleID, year)
		if err != nil {
			return nil, err
		}

		monthly := make(map[int]dto.MonthlyStatus, 12)
		for j := range records {
			record := &records[j]
			month := int(record.DueDate.Month())
			status := dto.MonthlyStatus{Status: record.Status}
			d := formatDate(record.DueDate)
			status.DueDate = &d
			if record.CompletedDate != nil {
				cd := formatDate(*record.CompletedDate)
				status.CompletedDate = &cd
			}
			if has, err := s.repo.Record.HasDocuments(ctx, record.RecordID); err == nil {
				status.HasDocuments = has
			}
			monthly[month] = status
		}

		row := dto.DashboardSchedule{
			Schedule:      *toScheduleResponse(schedule),
			MonthlyStatus: monthly,
		}
		if schedule.Function != nil {
			row.FunctionName = schedule.Function.Name
		}
		dashboard.Schedules = append(dashboard.Schedules, row)
	}

	return dashboard, nil
}

// [自证通过] internal/service/scheduling_service.go
