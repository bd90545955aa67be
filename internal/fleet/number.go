package fleet

import (
	"math"
	"strconv"
	"strings"
)

// Number 派生指标数值，非有限值（NaN/±Inf）序列化为 null
type Number float64

// MarshalJSON 实现 json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(FormatNumber(f)), nil
}

// Float 返回原始 float64
func (n Number) Float() float64 {
	return float64(n)
}

// IsFinite 是否为有限值
func (n Number) IsFinite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FormatNumber 以最短可还原的十进制形式输出数值
// 非有限值输出 NaN / Infinity / -Infinity，极大或极小值使用指数形式
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		e, _ := strconv.Atoi(exp)
		if e < 0 {
			return mantissa + "e-" + strconv.Itoa(-e)
		}
		return mantissa + "e+" + strconv.Itoa(e)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseCode 解析车辆编号的整数前缀，无数字前缀时返回 NaN
// 支持前导空白、正负号以及 0x 十六进制前缀
func ParseCode(code string) float64 {
	s := strings.TrimSpace(code)
	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && digitValue(s[end]) < base {
		end++
	}
	if end == 0 {
		return math.NaN()
	}

	value := 0.0
	for i := 0; i < end; i++ {
		value = value*float64(base) + float64(digitValue(s[i]))
	}
	return sign * value
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 36
	}
}
