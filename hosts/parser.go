package hosts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"violet-dnscache/utils"
)

// Record hosts 文件中的一条映射
type Record struct {
	Domain string
	IPv4   string
}

// Parser hosts 文件解析器
type Parser struct{}

// NewParser 创建新的解析器
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile 解析 hosts 文件
func (p *Parser) ParseFile(filename string) ([]Record, int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("打开 hosts 文件失败: %w", err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse 解析 "ipv4 name [alias...]" 格式，返回记录和跳过的条目数
//
// 注释、IPv6 地址以及不合法的域名都会被跳过。
func (p *Parser) Parse(r io.Reader) ([]Record, int, error) {
	var records []Record
	skipped := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		ip := fields[0]
		names := fields[1:]
		if !utils.ValidIPv4(ip) || len(names) == 0 {
			skipped += max(len(names), 1)
			continue
		}

		for _, name := range names {
			if !utils.ValidDomain(name) {
				skipped++
				continue
			}
			records = append(records, Record{Domain: name, IPv4: ip})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("读取 hosts 文件失败: %w", err)
	}

	return records, skipped, nil
}
