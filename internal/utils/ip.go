package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// 反向代理场景下依次尝试的 header
var ipHeaders = []string{
	"CF-Connecting-IP",
	"X-Real-IP",
	"X-Forwarded-For",
	"X-Client-IP",
}

// GetRealClientIP 获取客户端真实 IP, 用于审计日志
func GetRealClientIP(c *gin.Context) string {
	for _, header := range ipHeaders {
		// X-Forwarded-For 可能包含多个IP，取第一个合法IP
		for _, ip := range strings.Split(c.GetHeader(header), ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	ip, _, err := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
	if err == nil && net.ParseIP(ip) != nil {
		return ip
	}
	return ""
}
