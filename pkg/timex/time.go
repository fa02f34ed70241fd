// Package timex provides a time type with a fixed JSON layout and SQL support
// Package timex 提供固定 JSON 格式并支持数据库读写的时间类型
package timex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout JSON 输出格式
const Layout = "2006-01-02 15:04:05"

type Time time.Time

func Now() Time {
	return Time(time.Now())
}

// MarshalJSON 输出为 "2006-01-02 15:04:05"，零值输出 null
func (t Time) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + tt.Format(Layout) + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*t = Time(time.Time{})
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timex: invalid time %s", s)
	}
	s = s[1 : len(s)-1]
	for _, layout := range []string{Layout, time.RFC3339Nano} {
		if tt, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*t = Time(tt)
			return nil
		}
	}
	return fmt.Errorf("timex: cannot parse %q", s)
}

// Value 写入数据库
func (t Time) Value() (driver.Value, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return nil, nil
	}
	return tt, nil
}

// Scan 读取数据库
func (t *Time) Scan(v interface{}) error {
	switch value := v.(type) {
	case nil:
		*t = Time(time.Time{})
	case time.Time:
		*t = Time(value)
	case string:
		return t.parseString(value)
	case []byte:
		return t.parseString(string(value))
	default:
		return fmt.Errorf("timex: cannot scan %T", v)
	}
	return nil
}

func (t *Time) parseString(s string) error {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999",
		Layout,
	} {
		if tt, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*t = Time(tt)
			return nil
		}
	}
	return fmt.Errorf("timex: cannot parse %q", s)
}

func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) String() string {
	return time.Time(t).Format(Layout)
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}
