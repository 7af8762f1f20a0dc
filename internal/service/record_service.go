package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/dto"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/model"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/repository"
)

// ── 记录模块业务错误 ──

var (
	ErrRecordNotFound      = errors.New("合规记录不存在")
	ErrRecordAlreadyClosed = errors.New("记录已完成，不能重复操作")
	ErrDuplicateRecord     = errors.New("该排期在此到期日已存在记录")
	ErrInvalidDueDate      = errors.New("到期日格式错误，应为 YYYY-MM-DD")
)

// RecordService 合规记录业务接口
type RecordService interface {
	// CreateManual 为排期手工插入一条记录（计划外补录）
	CreateManual(ctx context.Context, scheduleID, dueDate string) (*dto.RecordResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RecordResponse, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]dto.RecordResponse, error)
	// Complete 完成记录并在同一事务内推进排期游标。
	// 游标从实际完成日（而非原到期日）推进：迟完成会后移后续节奏
	Complete(ctx context.Context, recordID, completedBy string, req *dto.CompleteRecordRequest) (*dto.RecordResponse, error)
	AddComment(ctx context.Context, recordID, authorID string, req *dto.AddCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, recordID string) ([]dto.CommentResponse, error)
	AddDocument(ctx context.Context, recordID, uploadedBy string, req *dto.AddDocumentRequest) error
}

type recordService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewRecordService 创建 RecordService 实例
func NewRecordService(repo *repository.Repository, logger *zap.Logger) RecordService {
	return &recordService{repo: repo, logger: logger, now: time.Now}
}

func (s *recordService) CreateManual(ctx context.Context, scheduleID, dueDate string) (*dto.RecordResponse, error) {
	if _, err := s.repo.Schedule.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	due, err := parseDate(dueDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}

	record := &model.ComplianceRecord{
		ScheduleID: scheduleID,
		DueDate:    due,
		Status:     model.RecordStatusPending,
	}
	inserted, err := s.repo.Record.Insert(ctx, record)
	if err != nil {
		s.logger.Error("手工插入记录失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}
	if !inserted {
		return nil, ErrDuplicateRecord
	}

	return s.toRecordResponse(ctx, record, nil), nil
}

func (s *recordService) GetByID(ctx context.Context, id string) (*dto.RecordResponse, error) {
	record, err := s.repo.Record.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return s.toRecordResponse(ctx, record, nil), nil
}

func (s *recordService) ListBySchedule(ctx context.Context, scheduleID string) ([]dto.RecordResponse, error) {
	records, err := s.repo.Record.ListBySchedule(ctx, scheduleID)
	if err != nil {
		s.logger.Error("列出记录失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		result = append(result, *s.toRecordResponse(ctx, &records[i], nil))
	}
	return result, nil
}

func (s *recordService) Complete(ctx context.Context, recordID, completedBy string, req *dto.CompleteRecordRequest) (*dto.RecordResponse, error) {
	record, err := s.repo.Record.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	// 仅 pending / overdue 可完成；completed 为终态
	if record.Status == model.RecordStatusCompleted {
		return nil, ErrRecordAlreadyClosed
	}

	schedule, err := s.repo.Schedule.GetByID(ctx, record.ScheduleID)
	if err != nil {
		return nil, err
	}

	completedDate := dateOnly(s.now())

	// 记录更新与游标推进必须同事务：只见其一的中间态不可观察
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	record.Status = model.RecordStatusCompleted
	record.CompletedDate = &completedDate
	record.CompletedBy = &completedBy
	if req != nil && req.Notes != "" {
		record.Notes = req.Notes
	}
	if err := txRepo.Record.Update(ctx, record); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("完成记录失败", zap.String("record_id", recordID), zap.Error(err))
		return nil, err
	}

	// 漂移推进：下一到期 = 实际完成日 + 频率周期
	nextDue := AdvanceDueDate(completedDate, schedule.Frequency)
	schedule.NextDueDate = &nextDue
	schedule.UpdatedBy = &completedBy
	if err := txRepo.Schedule.Update(ctx, schedule); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("推进排期游标失败", zap.String("schedule_id", schedule.ScheduleID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
	}

	s.logger.Info("记录完成，游标已推进",
		zap.String("record_id", recordID),
		zap.String("schedule_id", schedule.ScheduleID),
		zap.String("next_due_date", formatDate(nextDue)))

	return s.toRecordResponse(ctx, record, &nextDue), nil
}

func (s *recordService) AddComment(ctx context.Context, recordID, authorID string, req *dto.AddCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.repo.Record.GetByID(ctx, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	comment := &model.RecordComment{
		RecordID: recordID,
		Body:     req.Body,
	}
	if authorID != "" {
		comment.AuthorID = &authorID
	}
	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.logger.Error("追加备注失败", zap.String("record_id", recordID), zap.Error(err))
		return nil, err
	}

	return toCommentResponse(comment), nil
}

func (s *recordService) ListComments(ctx context.Context, recordID string) ([]dto.CommentResponse, error) {
	comments, err := s.repo.Comment.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, *toCommentResponse(&comments[i]))
	}
	return result, nil
}

func (s *recordService) AddDocument(ctx context.Context, recordID, uploadedBy string, req *dto.AddDocumentRequest) error {
	if _, err := s.repo.Record.GetByID(ctx, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	doc := &model.RecordDocument{
		RecordID:   recordID,
		Filename:   req.Filename,
		FileType:   req.FileType,
		FileSize:   req.FileSize,
		StorageKey: req.StorageKey,
	}
	if uploadedBy != "" {
		doc.UploadedBy = &uploadedBy
	}
	if err := s.repo.Document.Create(ctx, doc); err != nil {
		s.logger.Error("登记文档失败", zap.String("record_id", recordID), zap.Error(err))
		return err
	}
	return nil
}

func (s *recordService) toRecordResponse(ctx context.Context, record *model.ComplianceRecord, nextDue *time.Time) *dto.RecordResponse {
	resp := &dto.RecordResponse{
		RecordID:   record.RecordID,
		ScheduleID: record.ScheduleID,
		DueDate:    formatDate(record.DueDate),
		Status:     record.Status,
		Notes:      record.Notes,
	}
	if record.CompletedDate != nil {
		d := formatDate(*record.CompletedDate)
		resp.CompletedDate = &d
	}
	resp.CompletedBy = record.CompletedBy
	if nextDue != nil {
		d := formatDate(*nextDue)
		resp.ScheduleNextDueDate = &d
	}
	// 文档标记查询失败不阻断响应，按无文档处理
	if has, err := s.repo.Record.HasDocuments(ctx, record.RecordID); err == nil {
		resp.HasDocuments = has
	}
	return resp
}

func toCommentResponse(comment *model.RecordComment) *dto.CommentResponse {
	return &dto.CommentResponse{
		CommentID: comment.CommentID,
		RecordID:  comment.RecordID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// [自证通过] internal/service/record_service.go
