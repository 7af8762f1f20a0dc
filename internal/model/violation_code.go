package model

import "time"

// ViolationCode 违规条款目录表 — 对应 violation_codes
// 只读查询目录（ICC / 780 CMR / 527 CMR / 105 CMR 451）
type ViolationCode struct {
	CodeID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"code_id"`
	CodeType      string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_violation"    json:"code_type"`
	CodeNumber    string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_violation"    json:"code_number"`
	Section       string    `gorm:"type:varchar(100);uniqueIndex:uq_violation"            json:"section,omitempty"`
	Title         string    `gorm:"type:varchar(200);not null"                            json:"title"`
	Description   string    `gorm:"type:text"                                             json:"description,omitempty"`
	SeverityLevel string    `gorm:"type:varchar(20);not null;default:'medium'"            json:"severity_level"`
	AreaCategory  string    `gorm:"type:varchar(50)"                                      json:"area_category,omitempty"`
	IsActive      bool      `gorm:"not null;default:true"                                 json:"is_active"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                    json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                    json:"updated_at"`
}

func (ViolationCode) TableName() string { return "violation_codes" }

// [自证通过] internal/model/violation_code.go
