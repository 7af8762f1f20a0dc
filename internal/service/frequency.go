package service

import "time"

// ── 频率计算 ──
//
// 频率代码映射为固定天数增量，非日历精确（"月"恒为 30 天，"季"恒为 90 天）。
// 这是业务既定的固定增量策略；在监管方确认前不得改为日历月运算。

// 频率代码。字符串值为对外契约的一部分，按原样存储与传输。
const (
	FrequencyWeekly       = "W"
	FrequencyMonthly      = "M"
	FrequencyQuarterly    = "Q"
	FrequencySemiAnnually = "SA"
	FrequencyAnnually     = "A"
	FrequencyTwoYears     = "2y"
	FrequencyThreeYears   = "3y"
	FrequencyFiveYears    = "5y"
)

// defaultFrequencyDays 未识别代码的回退增量（按月处理）
const defaultFrequencyDays = 30

var frequencyDays = map[string]int{
	FrequencyWeekly:       7,
	FrequencyMonthly:      30,
	FrequencyQuarterly:    90,
	FrequencySemiAnnually: 180,
	FrequencyAnnually:     365,
	FrequencyTwoYears:     730,
	FrequencyThreeYears:   1095,
	FrequencyFiveYears:    1825,
}

var frequencyDisplayNames = map[string]string{
	FrequencyWeekly:       "Weekly",
	FrequencyMonthly:      "Monthly",
	FrequencyQuarterly:    "Quarterly",
	FrequencySemiAnnually: "Semi-Annually",
	FrequencyAnnually:     "Annually",
	FrequencyTwoYears:     "Every 2 Years",
	FrequencyThreeYears:   "Every 3 Years",
	FrequencyFiveYears:    "Every 5 Years",
}

// AdvanceDueDate 按频率代码推进日期。纯函数、永不失败：
// 未识别的代码静默回退为 30 天增量。该回退属于对外可观察行为，
// 不得改为抛出校验错误。
func AdvanceDueDate(d time.Time, frequency string) time.Time {
	days, ok := frequencyDays[frequency]
	if !ok {
		days = defaultFrequencyDays
	}
	return d.AddDate(0, 0, days)
}

// isKnownFrequency 判断频率代码是否在已知表内。
// 仅用于请求入口的前置校验；引擎内部依旧对未知代码静默回退
func isKnownFrequency(frequency string) bool {
	_, ok := frequencyDays[frequency]
	return ok
}

// FrequencyDisplay 返回频率代码的展示名；未识别的代码原样返回
func FrequencyDisplay(frequency string) string {
	if name, ok := frequencyDisplayNames[frequency]; ok {
		return name
	}
	return frequency
}

// dateOnly 截断到日期（UTC 零点）。DATE 列比较与游标推进统一使用该精度
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// formatDate 输出 YYYY-MM-DD
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// parseDate 解析 YYYY-MM-DD
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// [自证通过] internal/service/frequency.go
