package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 月度检查状态。工作流：draft → inspector_signed → deputy_signed（终态）。
const (
	InspectionStatusDraft           = "draft"
	InspectionStatusInspectorSigned = "inspector_signed"
	InspectionStatusDeputySigned    = "deputy_signed"
)

// 缺陷状态
const (
	DeficiencyStatusOpen        = "open"
	DeficiencyStatusInProgress  = "in_progress"
	DeficiencyStatusResolved    = "resolved"
	DeficiencyStatusCarriedOver = "carried_over"
)

// 签名类型
const (
	SignatureTypeInspector = "inspector"
	SignatureTypeDeputy    = "deputy"
)

// CarryoverDeficiency 结转缺陷快照
// 创建检查时从上月未整改缺陷复制而来的不可变副本；
// 与源缺陷相互独立，任何一方的后续变更不影响另一方
type CarryoverDeficiency struct {
	OriginalID           string  `json:"original_id"`
	AreaType             string  `json:"area_type"`
	Location             string  `json:"location,omitempty"`
	Description          string  `json:"description"`
	CitationCode         string  `json:"citation_code,omitempty"`
	CitationSection      string  `json:"citation_section,omitempty"`
	Severity             string  `json:"severity"`
	CorrectiveAction     string  `json:"corrective_action,omitempty"`
	TargetCompletionDate *string `json:"target_completion_date,omitempty"` // YYYY-MM-DD
	CarryoverFromMonth   int     `json:"carryover_from_month"`
	ViolationCodeID      *string `json:"violation_code_id,omitempty"`
}

// CarryoverList JSONB 结转缺陷列表，实现 GORM Scanner/Valuer 接口
type CarryoverList []CarryoverDeficiency

// Scan 将 JSONB 文本解析为结转列表
func (l *CarryoverList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("CarryoverList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, l)
}

// Value 将结转列表序列化为 JSONB 文本
func (l CarryoverList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// MonthlyInspection 月度检查表 — 对应 monthly_inspections
// (facility_id, year, month) 唯一；创建操作幂等（已存在则原样返回）
type MonthlyInspection struct {
	InspectionID          string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"              json:"inspection_id"`
	FacilityID            string        `gorm:"type:uuid;not null;uniqueIndex:uq_inspection_facility_ym"    json:"facility_id"`
	Year                  int           `gorm:"not null;uniqueIndex:uq_inspection_facility_ym"              json:"year"`
	Month                 int           `gorm:"not null;uniqueIndex:uq_inspection_facility_ym"              json:"month"`
	InspectionDate        *time.Time    `gorm:"type:date"                                                   json:"inspection_date,omitempty"`
	Status                string        `gorm:"type:varchar(20);not null;default:'draft'"                   json:"status"`
	CreatedBy             string        `gorm:"type:varchar(100)"                                           json:"created_by,omitempty"`
	FormData              JSONMap       `gorm:"type:jsonb;not null;default:'{}'"                            json:"form_data"`
	Notes                 string        `gorm:"type:text"                                                   json:"notes,omitempty"`
	CarryoverDeficiencies CarryoverList `gorm:"type:jsonb;not null;default:'[]'"                            json:"carryover_deficiencies"`
	CreatedAt             time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"created_at"`
	UpdatedAt             time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"                          json:"updated_at"`

	// 关联
	Facility     *Facility               `gorm:"foreignKey:FacilityID;references:FacilityID" json:"facility,omitempty"`
	Deficiencies []InspectionDeficiency  `gorm:"foreignKey:InspectionID"                     json:"deficiencies,omitempty"`
	Signatures   []InspectionSignature   `gorm:"foreignKey:InspectionID"                     json:"signatures,omitempty"`
}

func (MonthlyInspection) TableName() string { return "monthly_inspections" }

// InspectionDeficiency 检查缺陷表 — 对应 inspection_deficiencies
type InspectionDeficiency struct {
	DeficiencyID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"deficiency_id"`
	InspectionID         string     `gorm:"type:uuid;not null"                             json:"inspection_id"`
	ViolationCodeID      *string    `gorm:"type:uuid"                                      json:"violation_code_id,omitempty"`
	AreaType             string     `gorm:"type:varchar(50);not null"                      json:"area_type"`
	Location             string     `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Description          string     `gorm:"type:text;not null"                             json:"description"`
	CitationCode         string     `gorm:"type:varchar(50)"                               json:"citation_code,omitempty"`
	CitationSection      string     `gorm:"type:varchar(100)"                              json:"citation_section,omitempty"`
	Severity             string     `gorm:"type:varchar(20);not null;default:'medium'"     json:"severity"` // low | medium | high | critical
	Status               string     `gorm:"type:varchar(20);not null;default:'open'"       json:"status"`
	CorrectiveAction     string     `gorm:"type:text"                                      json:"corrective_action,omitempty"`
	TargetCompletionDate *time.Time `gorm:"type:date"                                      json:"target_completion_date,omitempty"`
	ActualCompletionDate *time.Time `gorm:"type:date"                                      json:"actual_completion_date,omitempty"`
	CompletedBy          string     `gorm:"type:varchar(100)"                              json:"completed_by,omitempty"`
	CarryoverFromMonth   *int       `json:"carryover_from_month,omitempty"`
	CreatedAt            time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt            time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	ViolationCode *ViolationCode `gorm:"foreignKey:ViolationCodeID;references:CodeID" json:"violation_code,omitempty"`
}

func (InspectionDeficiency) TableName() string { return "inspection_deficiencies" }

// InspectionSignature 检查签名表 — 对应 inspection_signatures
// (inspection_id, signature_type) 唯一：每类签名只允许一次
type InspectionSignature struct {
	SignatureID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"signature_id"`
	InspectionID     string    `gorm:"type:uuid;not null"                             json:"inspection_id"`
	SignatureType    string    `gorm:"type:varchar(20);not null"                      json:"signature_type"`
	SignedBy         string    `gorm:"type:varchar(100);not null"                     json:"signed_by"`
	SignedAt         time.Time `gorm:"not null"                                       json:"signed_at"`
	SignatureData    string    `gorm:"type:text"                                      json:"signature_data,omitempty"`
	IPAddress        string    `gorm:"type:varchar(45)"                               json:"ip_address,omitempty"`
	UserAgent        string    `gorm:"type:varchar(500)"                              json:"user_agent,omitempty"`
	VerificationHash string    `gorm:"type:varchar(256)"                              json:"verification_hash,omitempty"`
}

func (InspectionSignature) TableName() string { return "inspection_signatures" }

// [自证通过] internal/model/monthly_inspection.go
