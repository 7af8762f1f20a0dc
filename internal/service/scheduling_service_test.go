package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/config"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/dto"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/model"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/repository"
)

// ── 测试辅助 ──

func newTestRepo() (*repository.Repository, *mockScheduleRepo, *mockRecordRepo) {
	scheduleRepo := newMockScheduleRepo()
	recordRepo := newMockRecordRepo()
	docRepo := newMockDocumentRepo()
	recordRepo.docs = docRepo
	repo := &repository.Repository{
		User:          newMockUserRepo(),
		Facility:      newMockFacilityRepo(),
		Function:      newMockFunctionRepo(),
		Schedule:      scheduleRepo,
		Record:        recordRepo,
		Comment:       newMockCommentRepo(),
		Document:      docRepo,
		Inspection:    newMockInspectionRepo(),
		Deficiency:    newMockDeficiencyRepo(),
		Signature:     newMockSignatureRepo(),
		ViolationCode: newMockViolationCodeRepo(),
	}
	return repo, scheduleRepo, recordRepo
}

func setupTestSchedulingService(today time.Time) (*schedulingService, *mockScheduleRepo, *mockRecordRepo) {
	repo, scheduleRepo, recordRepo := newTestRepo()
	cfg := &config.Config{}
	svc := NewSchedulingService(repo, nil, cfg, zap.NewNop()).(*schedulingService)
	svc.now = func() time.Time { return today }
	return svc, scheduleRepo, recordRepo
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := parseDate(s)
	if err != nil {
		t.Fatalf("解析日期失败: %v", err)
	}
	return d
}

func addSchedule(scheduleRepo *mockScheduleRepo, frequency string, nextDue time.Time) *model.ComplianceSchedule {
	schedule := &model.ComplianceSchedule{
		FacilityID:  "fac-001",
		FunctionID:  "fn-001",
		Frequency:   frequency,
		NextDueDate: &nextDue,
		IsActive:    true,
	}
	schedule.Version = 1
	scheduleRepo.Create(context.Background(), schedule)
	return schedule
}

// ── 记录生成测试 ──

func TestGenerateUpcomingRecords_WindowInclusive(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, recordRepo := setupTestSchedulingService(today)

	// 周频，游标在今天：窗口 [今天, 今天+14] 含 3 个到期日（0、7、14 天）
	addSchedule(scheduleRepo, FrequencyWeekly, today)

	result, err := svc.GenerateUpcomingRecords(context.Background(), 14)
	if err != nil {
		t.Fatalf("生成应成功: %v", err)
	}
	if result.RecordsGenerated != 3 {
		t.Errorf("期望生成 3 条记录，实际 %d", result.RecordsGenerated)
	}
	if result.TotalSchedulesProcessed != 1 {
		t.Errorf("期望处理 1 条排期，实际 %d", result.TotalSchedulesProcessed)
	}
	if len(result.Errors) != 0 {
		t.Errorf("不应有错误: %v", result.Errors)
	}

	records, _ := recordRepo.ListBySchedule(context.Background(), "sch-001")
	want := []string{"2026-03-02", "2026-03-09", "2026-03-16"}
	if len(records) != len(want) {
		t.Fatalf("期望 %d 条记录，实际 %d", len(want), len(records))
	}
	for i, w := range want {
		if formatDate(records[i].DueDate) != w {
			t.Errorf("第 %d 条到期日期望 %s，实际 %s", i, w, formatDate(records[i].DueDate))
		}
		if records[i].Status != model.RecordStatusPending {
			t.Errorf("新生成记录应为 pending，实际 %s", records[i].Status)
		}
	}
}

func TestGenerateUpcomingRecords_Idempotent(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, _ := setupTestSchedulingService(today)
	addSchedule(scheduleRepo, FrequencyWeekly, today)

	first, err := svc.GenerateUpcomingRecords(context.Background(), 30)
	if err != nil {
		t.Fatalf("首次生成应成功: %v", err)
	}
	if first.RecordsGenerated == 0 {
		t.Fatal("首次生成应产生记录")
	}

	// 相同窗口重跑：全部冲突跳过，新增收敛为 0；
	// 候选都不早于今天，也没有可翻逾期的
	second, err := svc.GenerateUpcomingRecords(context.Background(), 30)
	if err != nil {
		t.Fatalf("重跑应成功: %v", err)
	}
	if second.RecordsGenerated != 0 {
		t.Errorf("重跑不应新增记录，实际新增 %d", second.RecordsGenerated)
	}
	if second.RecordsUpdated != 0 {
		t.Errorf("重跑不应更新记录，实际更新 %d", second.RecordsUpdated)
	}
}

func TestGenerateUpcomingRecords_PastPendingFlipped(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, recordRepo := setupTestSchedulingService(today)

	// 游标失效、起始日在一周前：候选含一个过期日
	schedule := addSchedule(scheduleRepo, FrequencyWeekly, today.AddDate(0, 0, -7))
	start := today.AddDate(0, 0, -7)
	scheduleRepo.schedules[schedule.ScheduleID].StartDate = &start

	first, err := svc.GenerateUpcomingRecords(context.Background(), 14)
	if err != nil {
		t.Fatalf("首次生成应成功: %v", err)
	}
	// 2026-02-23、03-02、03-09、03-16，全部插为 pending
	if first.RecordsGenerated != 4 {
		t.Fatalf("期望生成 4 条记录，实际 %d", first.RecordsGenerated)
	}

	// 重跑：过期且仍 pending 的候选翻为 overdue 并计入更新数
	second, err := svc.GenerateUpcomingRecords(context.Background(), 14)
	if err != nil {
		t.Fatalf("重跑应成功: %v", err)
	}
	if second.RecordsGenerated != 0 || second.RecordsUpdated != 1 {
		t.Errorf("期望新增 0 更新 1，实际新增 %d 更新 %d",
			second.RecordsGenerated, second.RecordsUpdated)
	}

	records, _ := recordRepo.ListBySchedule(context.Background(), schedule.ScheduleID)
	if records[0].Status != model.RecordStatusOverdue {
		t.Errorf("过期候选应翻为 overdue，实际 %s", records[0].Status)
	}
	if records[1].Status != model.RecordStatusPending {
		t.Errorf("今天到期的候选应保持 pending，实际 %s", records[1].Status)
	}
}

func TestGenerateUpcomingRecords_CandidateCap(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, recordRepo := setupTestSchedulingService(today)

	// 起始日在两年多前且无有效游标的周频排期：候选数远超上限，应在 100 处截断
	schedule := addSchedule(scheduleRepo, FrequencyWeekly, today.AddDate(-5, 0, 0))
	start := mustDate(t, "2024-01-01")
	scheduleRepo.schedules[schedule.ScheduleID].StartDate = &start

	result, err := svc.GenerateUpcomingRecords(context.Background(), 30)
	if err != nil {
		t.Fatalf("生成应成功: %v", err)
	}
	if result.RecordsGenerated != maxCandidatesPerSchedule {
		t.Errorf("期望截断在 %d 条，实际 %d", maxCandidatesPerSchedule, result.RecordsGenerated)
	}
	if len(result.Errors) != 0 {
		t.Errorf("截断不是错误: %v", result.Errors)
	}

	records, _ := recordRepo.ListBySchedule(context.Background(), "sch-001")
	if len(records) != maxCandidatesPerSchedule {
		t.Errorf("期望 %d 条记录，实际 %d", maxCandidatesPerSchedule, len(records))
	}
}

func TestGenerateUpcomingRecords_NilCursorFallsBackToToday(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, recordRepo := setupTestSchedulingService(today)

	// 游标与起始日皆缺：从今天起步
	schedule := &model.ComplianceSchedule{
		FacilityID: "fac-001",
		FunctionID: "fn-001",
		Frequency:  FrequencyWeekly,
		IsActive:   true,
	}
	schedule.Version = 1
	scheduleRepo.Create(context.Background(), schedule)

	result, err := svc.GenerateUpcomingRecords(context.Background(), 14)
	if err != nil {
		t.Fatalf("生成应成功: %v", err)
	}
	if result.RecordsGenerated != 3 {
		t.Errorf("期望从今天起生成 3 条记录，实际 %d", result.RecordsGenerated)
	}

	records, _ := recordRepo.ListBySchedule(context.Background(), schedule.ScheduleID)
	if len(records) == 0 || formatDate(records[0].DueDate) != "2026-03-02" {
		t.Errorf("首条到期日应为今天，实际 %v", records)
	}
}

// ── 逾期扫描测试 ──

func TestUpdateOverdueRecords_StrictBoundary(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, _, recordRepo := setupTestSchedulingService(today)

	yesterday := today.AddDate(0, 0, -1)
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: "sch-001", DueDate: yesterday, Status: model.RecordStatusPending,
	})
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: "sch-001", DueDate: today, Status: model.RecordStatusPending,
	})

	result, err := svc.UpdateOverdueRecords(context.Background())
	if err != nil {
		t.Fatalf("逾期扫描应成功: %v", err)
	}
	if result.OverdueRecordsUpdated != 1 {
		t.Errorf("仅昨日到期记录应转逾期，期望 1 实际 %d", result.OverdueRecordsUpdated)
	}

	// 今天到期的当天仍为 pending
	todayRec, _ := recordRepo.GetByScheduleAndDueDate(context.Background(), "sch-001", today)
	if todayRec.Status != model.RecordStatusPending {
		t.Errorf("今天到期记录应保持 pending，实际 %s", todayRec.Status)
	}
	pastRec, _ := recordRepo.GetByScheduleAndDueDate(context.Background(), "sch-001", yesterday)
	if pastRec.Status != model.RecordStatusOverdue {
		t.Errorf("昨日到期记录应为 overdue，实际 %s", pastRec.Status)
	}
}

func TestUpdateOverdueRecords_CompletedUntouched(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, _, recordRepo := setupTestSchedulingService(today)

	past := today.AddDate(0, 0, -10)
	completed := past
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: "sch-001", DueDate: past,
		Status: model.RecordStatusCompleted, CompletedDate: &completed,
	})

	result, err := svc.UpdateOverdueRecords(context.Background())
	if err != nil {
		t.Fatalf("逾期扫描应成功: %v", err)
	}
	if result.OverdueRecordsUpdated != 0 {
		t.Errorf("已完成记录不应被扫描改写，实际改写 %d", result.OverdueRecordsUpdated)
	}
}

// ── 排期分析测试 ──

func TestGetScheduleAnalytics_SortAndCap(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, _ := setupTestSchedulingService(today)

	// 25 条排期，到期日倒序插入；结果应按距今天数升序并截取前 20
	for i := 25; i >= 1; i-- {
		due := today.AddDate(0, 0, i)
		addSchedule(scheduleRepo, FrequencyMonthly, due)
	}

	analytics, err := svc.GetScheduleAnalytics(context.Background(), "")
	if err != nil {
		t.Fatalf("分析应成功: %v", err)
	}
	if analytics.TotalSchedules != 25 {
		t.Errorf("期望 25 条排期，实际 %d", analytics.TotalSchedules)
	}
	if analytics.FrequencyBreakdown[FrequencyMonthly] != 25 {
		t.Errorf("频率分布计数错误: %v", analytics.FrequencyBreakdown)
	}
	if len(analytics.UpcomingDueDates) != 20 {
		t.Fatalf("即将到期列表应截取前 20，实际 %d", len(analytics.UpcomingDueDates))
	}
	for i := 0; i < len(analytics.UpcomingDueDates)-1; i++ {
		if analytics.UpcomingDueDates[i].DaysUntilDue > analytics.UpcomingDueDates[i+1].DaysUntilDue {
			t.Fatalf("即将到期列表应按距今天数升序: 位置 %d", i)
		}
	}
	if analytics.UpcomingDueDates[0].DaysUntilDue != 1 {
		t.Errorf("最近到期应为 1 天后，实际 %d", analytics.UpcomingDueDates[0].DaysUntilDue)
	}
}

func TestGetScheduleAnalytics_TieBreakByScheduleID(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, _ := setupTestSchedulingService(today)

	due := today.AddDate(0, 0, 5)
	addSchedule(scheduleRepo, FrequencyMonthly, due) // sch-001
	addSchedule(scheduleRepo, FrequencyWeekly, due)  // sch-002

	analytics, err := svc.GetScheduleAnalytics(context.Background(), "")
	if err != nil {
		t.Fatalf("分析应成功: %v", err)
	}
	if len(analytics.UpcomingDueDates) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(analytics.UpcomingDueDates))
	}
	if analytics.UpcomingDueDates[0].ScheduleID != "sch-001" {
		t.Errorf("同天到期应按 schedule_id 升序，首条实际 %s", analytics.UpcomingDueDates[0].ScheduleID)
	}
}

func TestGetScheduleAnalytics_PastCursorExcluded(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, _ := setupTestSchedulingService(today)

	addSchedule(scheduleRepo, FrequencyMonthly, today.AddDate(0, 0, -3))
	addSchedule(scheduleRepo, FrequencyMonthly, today)

	analytics, err := svc.GetScheduleAnalytics(context.Background(), "")
	if err != nil {
		t.Fatalf("分析应成功: %v", err)
	}
	// 游标已过期的排期不进 upcoming，但仍计入总数与频率分布
	if len(analytics.UpcomingDueDates) != 1 {
		t.Fatalf("期望 1 条 upcoming，实际 %d", len(analytics.UpcomingDueDates))
	}
	if analytics.UpcomingDueDates[0].DaysUntilDue != 0 {
		t.Errorf("今天到期的排期距今应为 0 天，实际 %d", analytics.UpcomingDueDates[0].DaysUntilDue)
	}
	if analytics.TotalSchedules != 2 {
		t.Errorf("总排期数应为 2，实际 %d", analytics.TotalSchedules)
	}
	if analytics.FrequencyBreakdown[FrequencyMonthly] != 2 {
		t.Errorf("频率分布应计入全部排期，实际 %v", analytics.FrequencyBreakdown)
	}
}

// ── 批量维护测试 ──

func TestBulkUpdateSchedules_PerItemIsolation(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, _ := setupTestSchedulingService(today)

	start := mustDate(t, "2026-01-10")
	schedule := addSchedule(scheduleRepo, FrequencyMonthly, today)
	schedule.StartDate = &start
	scheduleRepo.schedules[schedule.ScheduleID].StartDate = &start

	newFreq := FrequencyQuarterly
	req := &dto.BulkUpdateRequest{Updates: []dto.BulkUpdateItem{
		{ScheduleID: schedule.ScheduleID, Frequency: &newFreq},
		{ScheduleID: "sch-missing", Frequency: &newFreq},
	}}

	result, err := svc.BulkUpdateSchedules(context.Background(), req, "admin-001")
	if err != nil {
		t.Fatalf("批量更新应整体成功: %v", err)
	}
	if result.UpdatedCount != 1 {
		t.Errorf("期望更新 1 条，实际 %d", result.UpdatedCount)
	}
	if result.ErrorCount != 1 {
		t.Errorf("期望 1 条错误，实际 %d", result.ErrorCount)
	}

	// 游标以库中已有起始日为基准重算: 2026-01-10 + 90 天
	updated, _ := scheduleRepo.GetByID(context.Background(), schedule.ScheduleID)
	if updated.Frequency != FrequencyQuarterly {
		t.Errorf("频率应已更新，实际 %s", updated.Frequency)
	}
	if updated.NextDueDate == nil || formatDate(*updated.NextDueDate) != "2026-04-10" {
		t.Errorf("游标应重算为 2026-04-10，实际 %v", updated.NextDueDate)
	}
}

func TestBulkUpdateSchedules_SuppliedStartDateWins(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, _ := setupTestSchedulingService(today)

	oldStart := mustDate(t, "2026-01-10")
	schedule := addSchedule(scheduleRepo, FrequencyMonthly, today)
	scheduleRepo.schedules[schedule.ScheduleID].StartDate = &oldStart

	newStart := "2026-02-01"
	req := &dto.BulkUpdateRequest{Updates: []dto.BulkUpdateItem{
		{ScheduleID: schedule.ScheduleID, StartDate: &newStart},
	}}

	result, err := svc.BulkUpdateSchedules(context.Background(), req, "admin-001")
	if err != nil {
		t.Fatalf("批量更新应成功: %v", err)
	}
	if result.UpdatedCount != 1 {
		t.Fatalf("期望更新 1 条，实际 %d", result.UpdatedCount)
	}

	updated, _ := scheduleRepo.GetByID(context.Background(), schedule.ScheduleID)
	if updated.NextDueDate == nil || formatDate(*updated.NextDueDate) != "2026-03-03" {
		t.Errorf("游标应以提交的起始日为基准 2026-02-01+30 天，实际 %v", updated.NextDueDate)
	}
}

func TestBulkUpdateSchedules_AssignOnlyKeepsCursor(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, _ := setupTestSchedulingService(today)

	due := mustDate(t, "2026-04-15")
	schedule := addSchedule(scheduleRepo, FrequencyMonthly, due)

	assignee := "user-007"
	req := &dto.BulkUpdateRequest{Updates: []dto.BulkUpdateItem{
		{ScheduleID: schedule.ScheduleID, AssignedTo: &assignee},
	}}

	if _, err := svc.BulkUpdateSchedules(context.Background(), req, "admin-001"); err != nil {
		t.Fatalf("批量更新应成功: %v", err)
	}

	// 仅改负责人不触发游标重算
	updated, _ := scheduleRepo.GetByID(context.Background(), schedule.ScheduleID)
	if updated.NextDueDate == nil || !updated.NextDueDate.Equal(due) {
		t.Errorf("游标不应变动，期望 %s 实际 %v", formatDate(due), updated.NextDueDate)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != "user-007" {
		t.Errorf("负责人应已更新，实际 %v", updated.AssignedTo)
	}
}

// ── 统计测试 ──

func TestGetComplianceStatistics(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, _, recordRepo := setupTestSchedulingService(today)

	past := today.AddDate(0, 0, -5)
	future := today.AddDate(0, 0, 5)
	done := today.AddDate(0, 0, -2)
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: "sch-001", DueDate: past, Status: model.RecordStatusPending,
	})
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: "sch-001", DueDate: future, Status: model.RecordStatusPending,
	})
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: "sch-001", DueDate: done,
		Status: model.RecordStatusCompleted, CompletedDate: &done,
	})

	stats, err := svc.GetComplianceStatistics(context.Background(), "")
	if err != nil {
		t.Fatalf("统计应成功: %v", err)
	}
	if stats.TotalRecords != 3 {
		t.Errorf("期望 3 条记录，实际 %d", stats.TotalRecords)
	}
	if stats.CompletedRecords != 1 {
		t.Errorf("期望 1 条完成，实际 %d", stats.CompletedRecords)
	}
	if stats.OverdueRecords != 1 {
		t.Errorf("期望 1 条逾期待办，实际 %d", stats.OverdueRecords)
	}
	if stats.CompletionRate < 33.3 || stats.CompletionRate > 33.4 {
		t.Errorf("完成率应约为 33.33，实际 %.2f", stats.CompletionRate)
	}
}

// ── 面板测试 ──

func TestGetFacilityDashboard(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, recordRepo := setupTestSchedulingService(today)

	schedule := addSchedule(scheduleRepo, FrequencyMonthly, today)

	feb := mustDate(t, "2026-02-15")
	mar := mustDate(t, "2026-03-17")
	febDone := mustDate(t, "2026-02-14")
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: schedule.ScheduleID, DueDate: feb,
		Status: model.RecordStatusCompleted, CompletedDate: &febDone,
	})
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: schedule.ScheduleID, DueDate: mar, Status: model.RecordStatusPending,
	})
	// 去年的记录不应进入 2026 面板
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: schedule.ScheduleID, DueDate: mustDate(t, "2025-12-20"), Status: model.RecordStatusOverdue,
	})

	dashboard, err := svc.GetFacilityDashboard(context.Background(), "fac-001", 2026)
	if err != nil {
		t.Fatalf("面板应成功: %v", err)
	}
	if len(dashboard.Schedules) != 1 {
		t.Fatalf("期望 1 条排期行，实际 %d", len(dashboard.Schedules))
	}
	monthly := dashboard.Schedules[0].MonthlyStatus
	if len(monthly) != 2 {
		t.Errorf("期望 2 个月份格，实际 %d", len(monthly))
	}
	if monthly[2].Status != model.RecordStatusCompleted {
		t.Errorf("2 月格应为 completed，实际 %s", monthly[2].Status)
	}
	if monthly[2].CompletedDate == nil || *monthly[2].CompletedDate != "2026-02-14" {
		t.Errorf("2 月格完成日错误: %v", monthly[2].CompletedDate)
	}
	if monthly[3].Status != model.RecordStatusPending {
		t.Errorf("3 月格应为 pending，实际 %s", monthly[3].Status)
	}
	if _, ok := monthly[12]; ok {
		t.Error("去年 12 月记录不应出现在 2026 面板")
	}
}

// ── 游标重算测试 ──

func TestRecalculateNextDueDate_FromLatestCompletion(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, recordRepo := setupTestSchedulingService(today)

	schedule := addSchedule(scheduleRepo, FrequencyMonthly, mustDate(t, "2026-02-10"))
	start := mustDate(t, "2026-01-01")
	scheduleRepo.schedules[schedule.ScheduleID].StartDate = &start

	// 两条已完成记录，基准取完成日最晚的一条
	early := mustDate(t, "2026-02-10")
	late := mustDate(t, "2026-02-20")
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: schedule.ScheduleID, DueDate: mustDate(t, "2026-01-31"),
		Status: model.RecordStatusCompleted, CompletedDate: &early,
	})
	recordRepo.Insert(context.Background(), &model.ComplianceRecord{
		ScheduleID: schedule.ScheduleID, DueDate: mustDate(t, "2026-02-15"),
		Status: model.RecordStatusCompleted, CompletedDate: &late,
	})

	resp, err := svc.RecalculateNextDueDate(context.Background(), schedule.ScheduleID)
	if err != nil {
		t.Fatalf("重算应成功: %v", err)
	}
	// 2026-02-20 + 30 天 = 2026-03-22
	if resp.NextDueDate == nil || *resp.NextDueDate != "2026-03-22" {
		t.Errorf("游标应从最近完成日推进为 2026-03-22，实际 %v", resp.NextDueDate)
	}
}

func TestRecalculateNextDueDate_FallsBackToStartDate(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, _ := setupTestSchedulingService(today)

	schedule := addSchedule(scheduleRepo, FrequencyQuarterly, mustDate(t, "2026-02-10"))
	start := mustDate(t, "2026-01-10")
	scheduleRepo.schedules[schedule.ScheduleID].StartDate = &start

	resp, err := svc.RecalculateNextDueDate(context.Background(), schedule.ScheduleID)
	if err != nil {
		t.Fatalf("重算应成功: %v", err)
	}
	// 无完成记录时基准为起始日：2026-01-10 + 90 天 = 2026-04-10
	if resp.NextDueDate == nil || *resp.NextDueDate != "2026-04-10" {
		t.Errorf("游标应从起始日推进为 2026-04-10，实际 %v", resp.NextDueDate)
	}
}

func TestRecalculateNextDueDate_QueryFailureSurfaced(t *testing.T) {
	today := mustDate(t, "2026-03-02")
	svc, scheduleRepo, recordRepo := setupTestSchedulingService(today)

	schedule := addSchedule(scheduleRepo, FrequencyMonthly, mustDate(t, "2026-04-19"))
	start := mustDate(t, "2026-01-10")
	scheduleRepo.schedules[schedule.ScheduleID].StartDate = &start

	// 完成记录查询瞬时失败：必须上抛，而非当作"无完成记录"回退到起始日
	storeErr := errors.New("connection reset")
	recordRepo.latestErr = storeErr

	_, err := svc.RecalculateNextDueDate(context.Background(), schedule.ScheduleID)
	if !errors.Is(err, storeErr) {
		t.Fatalf("期望上抛存储错误，实际: %v", err)
	}
	stored := scheduleRepo.schedules[schedule.ScheduleID]
	if stored.NextDueDate == nil || !stored.NextDueDate.Equal(mustDate(t, "2026-04-19")) {
		t.Errorf("失败时游标不应被改写，实际 %v", stored.NextDueDate)
	}
}

func TestRecalculateNextDueDate_ScheduleMissing(t *testing.T) {
	svc, _, _ := setupTestSchedulingService(mustDate(t, "2026-03-02"))

	_, err := svc.RecalculateNextDueDate(context.Background(), "sch-missing")
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/scheduling_service_test.go
