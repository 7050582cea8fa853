package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"violet-dnscache/cache"
	"violet-dnscache/config"
	"violet-dnscache/hosts"
	"violet-dnscache/middleware"
)

func main() {
	// 解析命令行参数
	configFile := flag.String("c", "config.yaml", "配置文件路径")
	runtimeDir := flag.String("d", "", "运行目录（配置文件和 hosts 文件的目录）")
	flag.Parse()

	// 如果指定了运行目录，切换到该目录并查找配置文件
	if *runtimeDir != "" {
		if err := os.Chdir(*runtimeDir); err != nil {
			fmt.Printf("切换到运行目录失败: %v\n", err)
			os.Exit(1)
		}

		// 查找 config.yaml 或 config.yml
		*configFile = ""
		if _, err := os.Stat("config.yaml"); err == nil {
			*configFile = "config.yaml"
		} else if _, err := os.Stat("config.yml"); err == nil {
			*configFile = "config.yml"
		} else {
			fmt.Printf("运行目录中未找到 config.yaml 或 config.yml\n")
			os.Exit(1)
		}
	}

	// 先创建一个临时 logger 用于启动阶段（配置还没加载）
	tmpLogger := middleware.NewLogger("info", "text")

	// 阶段 1: 配置加载与验证
	tmpLogger.Info("=== 阶段 1: 配置加载与验证 ===")
	tmpLogger.Info("加载配置文件: %s", *configFile)
	cfg, err := config.LoadAndValidate(*configFile)
	if err != nil {
		tmpLogger.Error("配置加载失败: %v", err)
		os.Exit(1)
	}
	tmpLogger.Info("配置加载成功")

	// 阶段 2: 组件初始化
	logger := middleware.NewLogger(cfg.Log.Level, cfg.Log.Format)
	logger.Info("=== 阶段 2: 组件初始化 ===")

	dnsCache, err := cache.NewMemoryDNSCache(cfg.Cache.MaxCapacity, logger)
	if err != nil {
		logger.Error("初始化 DNS Cache 失败: %v", err)
		os.Exit(1)
	}
	logger.Info("DNS Cache 初始化成功 (id=%s, max_capacity=%d)", dnsCache.Store().ID(), cfg.Cache.MaxCapacity)

	// 阶段 3: hosts 预加载
	logger.Info("=== 阶段 3: hosts 预加载 ===")
	var hostsLoader *hosts.Loader
	if cfg.Hosts.Enable {
		hostsLoader = hosts.NewLoader(dnsCache, cfg.Hosts.TTL, logger)
		if _, _, err := hostsLoader.Load(cfg.Hosts.File); err != nil {
			logger.Warn("加载 hosts 文件失败: %v", err)
		}
	} else {
		logger.Info("未启用 hosts 预加载")
	}

	// 阶段 4: 启动服务
	logger.Info("=== 阶段 4: 启动服务 ===")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 启动定时清理
	if cfg.Cache.Sweep != "" {
		janitor := cache.NewJanitor(dnsCache.Store(), cfg.Cache.Sweep, logger)
		if err := janitor.Start(ctx); err != nil {
			logger.Warn("启动定时清理失败: %v", err)
		} else {
			logger.Info("定时清理已启动")
		}
	}

	// 启动 hosts 定时更新
	if hostsLoader != nil && cfg.Hosts.Update != "" {
		updater := hosts.NewUpdater(hostsLoader, cfg.Hosts.Update, cfg.Hosts.File)
		if err := updater.Start(ctx); err != nil {
			logger.Warn("启动定时更新失败: %v", err)
		} else {
			logger.Info("hosts 定时更新已启动")
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- NewConsole(dnsCache, os.Stdout).Run(ctx, os.Stdin)
	}()

	// 等待信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("=== Violet DNS Cache 已启动，输入 help 查看命令 ===")

	select {
	case <-sigChan:
		logger.Info("正在优雅关闭...")
	case err := <-done:
		if err != nil {
			logger.Error("控制台异常退出: %v", err)
		}
	}
	cancel()

	logger.Info("已停止")
}
