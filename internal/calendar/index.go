package calendar

import (
	"sort"
	"time"
)

// TradingDayIndex maps each distinct calendar day of a sorted series to the
// position of its last record. It is immutable once built.
type TradingDayIndex struct {
	days      []time.Time
	positions []int
}

// NewTradingDayIndex builds the index from ascending timestamps.
func NewTradingDayIndex(dates []time.Time) *TradingDayIndex {
	idx := &TradingDayIndex{
		days:      make([]time.Time, 0, len(dates)),
		positions: make([]int, 0, len(dates)),
	}
	for pos, t := range dates {
		day := Day(t)
		if n := len(idx.days); n > 0 && idx.days[n-1].Equal(day) {
			idx.positions[n-1] = pos
			continue
		}
		idx.days = append(idx.days, day)
		idx.positions = append(idx.positions, pos)
	}
	return idx
}

// Len returns the number of distinct days.
func (x *TradingDayIndex) Len() int { return len(x.days) }

// LastOnOrBefore returns the position of the last record on the greatest
// indexed day <= target. ok is false when target precedes the first day.
func (x *TradingDayIndex) LastOnOrBefore(target time.Time) (pos int, ok bool) {
	day := Day(target)
	// first day strictly after target
	k := sort.Search(len(x.days), func(i int) bool { return x.days[i].After(day) })
	if k == 0 {
		return 0, false
	}
	return x.positions[k-1], true
}
