package hosts

import (
	"fmt"

	"violet-dnscache/middleware"
)

// HostsCache hosts 记录写入目标
type HostsCache interface {
	Put(domain, ipv4 string, ttlSecs int) error
}

// Loader hosts 文件加载器
type Loader struct {
	parser *Parser
	cache  HostsCache
	ttl    int
	logger *middleware.Logger
}

// NewLoader 创建新的加载器
func NewLoader(cache HostsCache, ttlSecs int, logger *middleware.Logger) *Loader {
	if logger == nil {
		logger = middleware.NewDiscardLogger()
	}
	return &Loader{
		parser: NewParser(),
		cache:  cache,
		ttl:    ttlSecs,
		logger: logger,
	}
}

// Load 加载 hosts 文件并写入缓存，返回写入数和跳过数
func (l *Loader) Load(filename string) (int, int, error) {
	records, skipped, err := l.parser.ParseFile(filename)
	if err != nil {
		return 0, 0, fmt.Errorf("解析 hosts 文件失败: %w", err)
	}

	loaded := 0
	for _, rec := range records {
		if err := l.cache.Put(rec.Domain, rec.IPv4, l.ttl); err != nil {
			l.logger.LogError("hosts", rec.Domain, err, map[string]interface{}{"file": filename})
			skipped++
			continue
		}
		loaded++
	}

	l.logger.LogHostsLoad(filename, loaded, skipped)
	return loaded, skipped, nil
}
