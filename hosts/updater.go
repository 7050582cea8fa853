package hosts

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Updater 定时重新加载 hosts 文件
type Updater struct {
	loader   *Loader
	cron     *cron.Cron
	cronExpr string
	filename string
}

// NewUpdater 创建新的更新器
func NewUpdater(loader *Loader, cronExpr, filename string) *Updater {
	return &Updater{
		loader:   loader,
		cron:     cron.New(cron.WithSeconds()), // 支持秒字段 (6 个字段格式)
		cronExpr: cronExpr,
		filename: filename,
	}
}

// Start 启动定时更新
func (u *Updater) Start(ctx context.Context) error {
	if u.cronExpr == "" {
		return nil // 未配置更新，跳过
	}

	// 添加定时任务
	_, err := u.cron.AddFunc(u.cronExpr, func() {
		if _, _, err := u.loader.Load(u.filename); err != nil {
			u.loader.logger.LogError("hosts", "", err, map[string]interface{}{"file": u.filename})
		}
	})
	if err != nil {
		return fmt.Errorf("添加定时任务失败: %w", err)
	}

	// 启动 cron
	u.cron.Start()

	// 等待上下文取消
	go func() {
		<-ctx.Done()
		u.Stop()
	}()

	return nil
}

// Stop 停止定时更新
func (u *Updater) Stop() {
	if u.cron != nil {
		<-u.cron.Stop().Done()
	}
}
