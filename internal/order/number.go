package order

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// NumberGenerator issues short human-typeable order numbers.
type NumberGenerator interface {
	Next(prefix string) string
}

// TimeNumberGenerator builds prefix + last 6 digits of the unix millisecond
// clock + 3 random digits, e.g. "GPD-482913057".
type TimeNumberGenerator struct {
	now    func() time.Time
	random func(n int) int
}

func NewNumberGenerator() *TimeNumberGenerator {
	return &TimeNumberGenerator{now: time.Now, random: rand.IntN}
}

func (g *TimeNumberGenerator) Next(prefix string) string {
	ms := strconv.FormatInt(g.now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("%s%s%03d", prefix, ms, g.random(1000))
}
