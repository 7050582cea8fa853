package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// 与 Janitor / Updater 使用的解析器一致（6 个字段，支持 @every 等描述符）
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Validate 验证配置
func Validate(cfg *Config) error {
	// 验证 Cache
	if err := validateCache(&cfg.Cache); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	// 验证 Hosts
	if err := validateHosts(&cfg.Hosts); err != nil {
		return fmt.Errorf("hosts: %w", err)
	}

	// 验证 Log
	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

func validateCache(cfg *CacheConfig) error {
	if cfg.MaxCapacity < 0 {
		return fmt.Errorf("max_capacity 不能为负数，当前为: %d", cfg.MaxCapacity)
	}
	if err := validateCron(cfg.Sweep); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	return nil
}

func validateHosts(cfg *HostsConfig) error {
	if !cfg.Enable {
		return nil
	}

	if cfg.File == "" {
		return fmt.Errorf("启用时必须配置 file")
	}
	if cfg.TTL <= 0 {
		return fmt.Errorf("ttl 必须大于 0，当前为: %d", cfg.TTL)
	}
	if err := validateCron(cfg.Update); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

func validateCron(expr string) error {
	if expr == "" {
		return nil
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("cron 表达式无效: %w", err)
	}
	return nil
}

func validateLog(cfg *LogConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Level] {
		return fmt.Errorf("level 必须是 debug, info, warn 或 error")
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Format] {
		return fmt.Errorf("format 必须是 json 或 text")
	}

	return nil
}
