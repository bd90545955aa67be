package fleet

import (
	"fmt"
	"math"
	"strconv"
)

// Gradient 多色线性渐变
type Gradient struct {
	stops [][3]float64
}

// NewGradient 由十六进制颜色（不含 #）创建渐变
func NewGradient(colors ...string) (*Gradient, error) {
	if len(colors) < 2 {
		return nil, fmt.Errorf("gradient needs at least 2 colors, got %d", len(colors))
	}
	g := &Gradient{}
	for _, c := range colors {
		v, err := strconv.ParseUint(c, 16, 32)
		if err != nil || len(c) != 6 {
			return nil, fmt.Errorf("invalid color %q", c)
		}
		g.stops = append(g.stops, [3]float64{
			float64(v >> 16 & 0xff),
			float64(v >> 8 & 0xff),
			float64(v & 0xff),
		})
	}
	return g, nil
}

// MustGradient 同 NewGradient，出错时 panic
func MustGradient(colors ...string) *Gradient {
	g, err := NewGradient(colors...)
	if err != nil {
		panic(err)
	}
	return g
}

// ColorAt 返回 t ∈ [0,1] 处的颜色（#rrggbb），t 非有限时返回空串
func (g *Gradient) ColorAt(t float64) string {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return ""
	}
	t = math.Max(0, math.Min(1, t))

	segments := len(g.stops) - 1
	pos := t * float64(segments)
	i := int(pos)
	if i >= segments {
		i = segments - 1
	}
	local := pos - float64(i)

	from, to := g.stops[i], g.stops[i+1]
	var rgb [3]int
	for c := 0; c < 3; c++ {
		rgb[c] = int(math.Round(from[c] + (to[c]-from[c])*local))
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

// IntensityGradient 里程强度配色：白 → 琥珀
var IntensityGradient = MustGradient("ffffff", "ffa600")
