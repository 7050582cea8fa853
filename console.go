package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"violet-dnscache/cache"
	"violet-dnscache/utils"
)

const consoleHelp = `commands:
  put <domain> <ipv4> <ttl>  写入缓存
  get <domain>               查询缓存
  del <domain>               删除缓存
  keys                       按 MRU -> LRU 列出所有键
  stats                      统计信息
  sweep                      立即清理过期条目
  clear                      清空缓存
  help                       显示帮助
  quit                       退出`

// Console 基于行的命令控制台
type Console struct {
	cache *cache.MemoryDNSCache
	out   io.Writer
}

// NewConsole 创建控制台
func NewConsole(c *cache.MemoryDNSCache, out io.Writer) *Console {
	return &Console{cache: c, out: out}
}

// Run 逐行读取命令直到输入结束、quit 或 ctx 取消
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if !c.Exec(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Exec 执行一条命令，返回 false 表示退出
func (c *Console) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "put":
		if len(args) != 3 {
			c.printf("usage: put <domain> <ipv4> <ttl>")
			return true
		}
		ttl, err := strconv.Atoi(args[2])
		if err != nil {
			c.printf("error: ttl 必须是整数: %s", args[2])
			return true
		}
		if err := c.cache.Put(args[0], args[1], ttl); err != nil {
			c.printf("error: %v", err)
			return true
		}
		c.printf("OK")

	case "get":
		if len(args) != 1 {
			c.printf("usage: get <domain>")
			return true
		}
		ip, ttl, ok := c.cache.Lookup(args[0])
		if !ok {
			c.printf("(nil)")
			return true
		}
		c.printf("%s", utils.NewARecord(args[0], ip, ttl).String())

	case "del":
		if len(args) != 1 {
			c.printf("usage: del <domain>")
			return true
		}
		_ = c.cache.Delete(args[0])
		c.printf("OK")

	case "keys":
		for _, k := range c.cache.Store().Keys() {
			c.printf("%s", k)
		}

	case "stats":
		s := c.cache.Store().Stats()
		c.printf("id=%s used=%d capacity=%d hits=%d misses=%d expirations=%d evictions=%d hit_ratio=%.2f",
			s.ID, s.Used, s.Capacity, s.Hits, s.Misses, s.Expirations, s.Evictions, s.HitRatio())

	case "sweep":
		c.printf("removed %d", c.cache.Store().Sweep())

	case "clear":
		_ = c.cache.Clear()
		c.printf("OK")

	case "help":
		c.printf("%s", consoleHelp)

	case "quit", "exit":
		return false

	default:
		c.printf("unknown command: %s (输入 help 查看命令)", cmd)
	}
	return true
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}
