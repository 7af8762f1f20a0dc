package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/dto"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/service"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/pkg/response"
)

// InspectionHandler 月度检查模块 HTTP 处理器
type InspectionHandler struct {
	inspectionSvc service.InspectionService
}

// NewInspectionHandler 创建 InspectionHandler
func NewInspectionHandler(inspectionSvc service.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionSvc: inspectionSvc}
}

// CreateInspection 创建月度检查（幂等，含上月缺陷结转）
// POST /api/v1/inspections
func (h *InspectionHandler) CreateInspection(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	inspection, err := h.inspectionSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		if errors.Is(err, service.ErrFacilityNotFound) {
			response.NotFound(c, 12001, "设施不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, inspection)
}

// GetInspection 查询单个检查
// GET /api/v1/inspections/:id
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	inspection, err := h.inspectionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInspectionNotFound) {
			response.NotFound(c, 16001, "月度检查不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, inspection)
}

// ListInspections 列出检查
// GET /api/v1/inspections?facility_id=&year=
func (h *InspectionHandler) ListInspections(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	inspections, err := h.inspectionSvc.List(c.Request.Context(), c.Query("facility_id"), year)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, inspections)
}

// UpdateFormData 更新检查表单数据
// PUT /api/v1/inspections/:id/form
func (h *InspectionHandler) UpdateFormData(c *gin.Context) {
	var req dto.UpdateFormDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	inspection, err := h.inspectionSvc.UpdateFormData(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInspectionNotFound):
			response.NotFound(c, 16001, "月度检查不存在")
		case errors.Is(err, service.ErrInspectionFinalized):
			response.Conflict(c, 16002, "检查已完成双签，不能再修改")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, inspection)
}

// AddDeficiency 添加缺陷
// POST /api/v1/inspections/:id/deficiencies
func (h *InspectionHandler) AddDeficiency(c *gin.Context) {
	var req dto.AddDeficiencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	deficiency, err := h.inspectionSvc.AddDeficiency(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInspectionNotFound):
			response.NotFound(c, 16001, "月度检查不存在")
		case errors.Is(err, service.ErrInspectionFinalized):
			response.Conflict(c, 16002, "检查已完成双签，不能再修改")
		case errors.Is(err, service.ErrInvalidDueDate):
			response.BadRequest(c, 16003, "目标整改日期格式错误")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, deficiency)
}

// ListDeficiencies 列出检查下的全部缺陷
// GET /api/v1/inspections/:id/deficiencies
func (h *InspectionHandler) ListDeficiencies(c *gin.Context) {
	deficiencies, err := h.inspectionSvc.ListDeficiencies(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, deficiencies)
}

// UpdateDeficiencyStatus 更新缺陷状态
// PUT /api/v1/deficiencies/:id/status
func (h *InspectionHandler) UpdateDeficiencyStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDeficiencyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	deficiency, err := h.inspectionSvc.UpdateDeficiencyStatus(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		if errors.Is(err, service.ErrDeficiencyNotFound) {
			response.NotFound(c, 16004, "缺陷不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, deficiency)
}

// AddSignature 添加签名并推进工作流
// POST /api/v1/inspections/:id/signatures
func (h *InspectionHandler) AddSignature(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AddSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	meta := &service.SignatureMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	inspection, err := h.inspectionSvc.AddSignature(c.Request.Context(), c.Param("id"), &req, userID, meta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInspectionNotFound):
			response.NotFound(c, 16001, "月度检查不存在")
		case errors.Is(err, service.ErrSignatureExists):
			response.Conflict(c, 16005, "该类型签名已存在")
		case errors.Is(err, service.ErrDeputyBeforeInspector):
			response.Conflict(c, 16006, "检查员签名前不能进行副署签名")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, inspection)
}

// AutoGenerate 为全部活跃设施批量创建指定年月的检查
// POST /api/v1/inspections/auto-generate
func (h *InspectionHandler) AutoGenerate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AutoGenerateInspectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.inspectionSvc.AutoGenerate(c.Request.Context(), &req, userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetStatistics 检查统计
// GET /api/v1/inspections/statistics?facility_id=&year=
func (h *InspectionHandler) GetStatistics(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	stats, err := h.inspectionSvc.GetStatistics(c.Request.Context(), c.Query("facility_id"), year)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// ListViolationCodes 列出违规条款目录
// GET /api/v1/violation-codes?code_type=
func (h *InspectionHandler) ListViolationCodes(c *gin.Context) {
	codes, err := h.inspectionSvc.ListViolationCodes(c.Request.Context(), c.Query("code_type"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, codes)
}

// CreateViolationCode 录入违规条款
// POST /api/v1/violation-codes
func (h *InspectionHandler) CreateViolationCode(c *gin.Context) {
	var req dto.CreateViolationCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	code, err := h.inspectionSvc.CreateViolationCode(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, code)
}

// [自证通过] internal/api/handler/inspection_handler.go
