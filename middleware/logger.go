package middleware

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger 日志中间件
type Logger struct {
	log   *logrus.Logger
	level string
}

// NewLogger 创建日志中间件
func NewLogger(level, format string) *Logger {
	log := logrus.New()

	// 设置日志级别
	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	// 设置格式
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	return &Logger{
		log:   log,
		level: level,
	}
}

// NewDiscardLogger 创建丢弃所有输出的日志（测试使用）
func NewDiscardLogger() *Logger {
	l := NewLogger("error", "text")
	l.log.SetOutput(io.Discard)
	return l
}

// SetOutput 设置输出目标
func (l *Logger) SetOutput(w io.Writer) {
	l.log.SetOutput(w)
}

// Info 记录 info 日志
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Debug 记录 debug 日志
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// Warn 记录 warn 日志
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Error 记录 error 日志
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// LogCacheHit 记录缓存命中（DEBUG 级别）
func (l *Logger) LogCacheHit(domain, ipv4 string, remainingTTL int) {
	l.log.WithFields(logrus.Fields{
		"domain":        domain,
		"ipv4":          ipv4,
		"remaining_ttl": remainingTTL,
	}).Debug("[缓存命中]")
}

// LogCacheMiss 记录缓存未命中（DEBUG 级别）
func (l *Logger) LogCacheMiss(domain string) {
	l.log.WithFields(logrus.Fields{
		"domain": domain,
	}).Debug("[缓存未命中]")
}

// LogCacheSet 记录缓存写入（DEBUG 级别）
func (l *Logger) LogCacheSet(domain, ipv4 string, ttlSecs int) {
	l.log.WithFields(logrus.Fields{
		"domain":  domain,
		"ipv4":    ipv4,
		"ttl_sec": ttlSecs,
	}).Debug("[缓存写入]")
}

// LogCacheDelete 记录缓存删除（DEBUG 级别）
func (l *Logger) LogCacheDelete(domain string) {
	l.log.WithFields(logrus.Fields{
		"domain": domain,
	}).Debug("[缓存删除]")
}

// LogCacheEvict 记录条目被移除（DEBUG 级别）
func (l *Logger) LogCacheEvict(domain, reason string) {
	l.log.WithFields(logrus.Fields{
		"domain": domain,
		"reason": reason,
	}).Debug("[缓存淘汰]")
}

// LogSweep 记录定时清理结果（清理数为 0 时为 DEBUG 级别）
func (l *Logger) LogSweep(removed, used int) {
	entry := l.log.WithFields(logrus.Fields{
		"removed": removed,
		"used":    used,
	})
	if removed == 0 {
		entry.Debug("[过期清理]")
		return
	}
	entry.Info("过期清理完成")
}

// LogHostsLoad 记录 hosts 文件加载（INFO 级别）
func (l *Logger) LogHostsLoad(file string, loaded, skipped int) {
	l.log.WithFields(logrus.Fields{
		"file":    file,
		"loaded":  loaded,
		"skipped": skipped,
	}).Info("hosts 文件加载完成")
}

// LogError 记录错误（ERROR 级别）
func (l *Logger) LogError(context, domain string, err error, additionalInfo map[string]interface{}) {
	fields := logrus.Fields{
		"context": context,
		"domain":  domain,
		"error":   err.Error(),
	}
	for k, v := range additionalInfo {
		fields[k] = v
	}
	l.log.WithFields(fields).Error("发生错误")
}
