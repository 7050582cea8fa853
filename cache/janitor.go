package cache

import (
	"context"
	"fmt"

	"violet-dnscache/middleware"

	"github.com/robfig/cron/v3"
)

// Janitor 定时清理器，按 cron 表达式对 Store 执行主动过期清理
//
// get/put 内的清理仍是主要机制；Janitor 只负责回收写入后再未被访问的条目。
type Janitor struct {
	store    *Store
	logger   *middleware.Logger
	cron     *cron.Cron
	cronExpr string
}

// NewJanitor 创建新的清理器
func NewJanitor(store *Store, cronExpr string, logger *middleware.Logger) *Janitor {
	if logger == nil {
		logger = middleware.NewDiscardLogger()
	}
	return &Janitor{
		store:    store,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()), // 支持秒字段 (6 个字段格式)
		cronExpr: cronExpr,
	}
}

// Start 启动定时清理
func (j *Janitor) Start(ctx context.Context) error {
	if j.cronExpr == "" {
		return nil // 未配置清理，跳过
	}

	if _, err := j.cron.AddFunc(j.cronExpr, j.RunOnce); err != nil {
		return fmt.Errorf("添加定时任务失败: %w", err)
	}

	j.cron.Start()

	// 等待上下文取消
	go func() {
		<-ctx.Done()
		j.Stop()
	}()

	return nil
}

// RunOnce 立即执行一次清理
func (j *Janitor) RunOnce() {
	removed := j.store.Sweep()
	j.logger.LogSweep(removed, j.store.Used())
}

// Stop 停止定时清理，等待正在执行的任务完成
func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}
