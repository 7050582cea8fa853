package utils

import (
	"math"
	"net"
	"net/netip"

	"github.com/miekg/dns"
)

// ValidDomain 检查域名格式
//
// 要求至少两级，每级 1-63 个字母、数字或连字符且不以连字符开头或结尾，
// 顶级域至少两个字母，不接受末尾的点。
func ValidDomain(domain string) bool {
	if domain == "" || domain[len(domain)-1] == '.' {
		return false
	}
	if _, ok := dns.IsDomainName(domain); !ok {
		return false
	}

	labels := dns.SplitDomainName(domain)
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !validLabel(label) {
			return false
		}
	}
	return validTLD(labels[len(labels)-1])
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isLetter(c) && !isDigit(c) && c != '-' {
			return false
		}
	}
	return true
}

func validTLD(tld string) bool {
	if len(tld) < 2 {
		return false
	}
	for i := 0; i < len(tld); i++ {
		if !isLetter(tld[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// ValidIPv4 检查点分十进制 IPv4 地址
func ValidIPv4(addr string) bool {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return false
	}
	return ip.Is4()
}

// NewARecord 将缓存命中转换为 A 记录，TTL 为剩余秒数，截断到 uint32 范围
func NewARecord(domain, ipv4 string, ttl int) *dns.A {
	if ttl < 0 {
		ttl = 0
	}
	if uint64(ttl) > math.MaxUint32 {
		ttl = math.MaxUint32
	}
	return &dns.A{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(domain),
			Rrtype: dns.TypeA,
			Class:  dns.ClassINET,
			Ttl:    uint32(ttl),
		},
		A: net.ParseIP(ipv4).To4(),
	}
}
