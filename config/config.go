package config

// Config 主配置结构
type Config struct {
	Cache CacheConfig `yaml:"cache"`
	Hosts HostsConfig `yaml:"hosts"`
	Log   LogConfig   `yaml:"log"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	MaxCapacity int    `yaml:"max_capacity"`
	Sweep       string `yaml:"sweep"` // cron 表达式，留空则只在 get/put 时清理
}

// HostsConfig hosts 文件预加载配置
type HostsConfig struct {
	Enable bool   `yaml:"enable"`
	File   string `yaml:"file"`
	TTL    int    `yaml:"ttl"`    // 写入缓存的 TTL（秒）
	Update string `yaml:"update"` // cron 表达式
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			MaxCapacity: 1024,
		},
		Hosts: HostsConfig{
			TTL: 3600,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
