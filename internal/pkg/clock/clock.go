// Package clock 统一业务时间：当前时刻与按业务时区计算的日历日期
package clock

import (
	"sync"
	"time"
)

var (
	mu       sync.RWMutex
	location = time.UTC
	nowFunc  = time.Now
)

// SetLocation 设置业务时区（如 Asia/Kolkata）
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	mu.Lock()
	location = loc
	mu.Unlock()
	return nil
}

// Location 返回业务时区
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return location
}

// SetNow 替换当前时间来源，返回恢复函数（测试用）
func SetNow(fn func() time.Time) func() {
	mu.Lock()
	prev := nowFunc
	nowFunc = fn
	mu.Unlock()
	return func() {
		mu.Lock()
		nowFunc = prev
		mu.Unlock()
	}
}

// Now 当前时刻（业务时区）
func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowFunc().In(location)
}

// Today 今天的日历日期，以 UTC 零点表示
func Today() time.Time {
	return DateOf(Now())
}

// DateOf 取 t 在其自身时区下的日历日期，以 UTC 零点表示。
// 所有日期列都按这个形式存储，比较时不受数据库时区影响。
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays 日期加减天数
func AddDays(date time.Time, days int) time.Time {
	return DateOf(date).AddDate(0, 0, days)
}

// DaysBetween 两个日期相差的天数（to - from）
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// StartOfMonth 某日期所在月份的第一天
func StartOfMonth(date time.Time) time.Time {
	y, m, _ := date.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// StartOfDay 日历日期在业务时区的零点时刻，用于时间戳列的区间查询
func StartOfDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Location())
}

// DateLayout 请求与响应中的日期格式
const DateLayout = "2006-01-02"

// ParseDate 解析 YYYY-MM-DD，返回 UTC 零点
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ParseOptionalDate 空串返回 nil
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
