package timeutil

import (
	"time"
)

const DateTimeLayout = "2006-01-02 15:04:05"

// NowIn 返回指定时区的当前时间, 时区无效时退回 UTC
func NowIn(tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Now().UTC()
	}
	return time.Now().In(loc)
}

// FormatIn 按时区格式化为 2006-01-02 15:04:05 MST
func FormatIn(t time.Time, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateTimeLayout + " MST")
}
