// Package rediskey builds every redis key the bridge reads or writes.
package rediskey

import "fmt"

// prefix is app.name, set once at startup.
var prefix = "pg-bridge"

func SetPrefix(p string) {
	if p != "" {
		prefix = p
	}
}

// Merchant caches one mall's settings row.
func Merchant(mallID string) string {
	return fmt.Sprintf("%s:merchant:%s", prefix, mallID)
}

// AccessToken is written by the OAuth component and read by the Mall client.
func AccessToken(mallID string) string {
	return fmt.Sprintf("%s:mall:token:%s", prefix, mallID)
}

// NotifyRate holds the delivery success rate of one Mall notification host.
func NotifyRate(host string) string {
	return fmt.Sprintf("%s:notify:rate:%s", prefix, host)
}

// NotifyDegraded is set while a host's rate is under the alert threshold.
func NotifyDegraded(host string) string {
	return fmt.Sprintf("%s:notify:degraded:%s", prefix, host)
}
