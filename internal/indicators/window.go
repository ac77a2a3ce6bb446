package indicators

import "github.com/shopspring/decimal"

type slot struct {
	value decimal.Decimal
	valid bool
}

// NumericWindow is a fixed-size rolling window. Invalid values take a slot
// but count toward neither the sum nor the number of valid values.
type NumericWindow struct {
	slots  []slot
	next   int
	filled int
	sum    decimal.Decimal
	valid  int
}

func NewNumericWindow(size int) *NumericWindow {
	if size < 1 {
		size = 1
	}
	return &NumericWindow{slots: make([]slot, size)}
}

// Push adds a value, evicting the oldest one once the window is full.
func (w *NumericWindow) Push(value float64, ok bool) {
	if w.filled == len(w.slots) {
		old := w.slots[w.next]
		if old.valid {
			w.sum = w.sum.Sub(old.value)
			w.valid--
		}
	} else {
		w.filled++
	}

	s := slot{valid: ok && finite(value)}
	if s.valid {
		s.value = decimal.NewFromFloat(value)
		w.sum = w.sum.Add(s.value)
		w.valid++
	}
	w.slots[w.next] = s
	w.next = (w.next + 1) % len(w.slots)
}

// Len is the number of slots in use, valid or not.
func (w *NumericWindow) Len() int { return w.filled }

// Valid is the number of valid values in the window.
func (w *NumericWindow) Valid() int { return w.valid }

func (w *NumericWindow) Sum() float64 {
	return w.sum.InexactFloat64()
}

// Mean averages the valid values, rounded to four places. An empty window
// yields 0.
func (w *NumericWindow) Mean() float64 {
	if w.valid == 0 {
		return 0
	}
	return w.sum.Div(decimal.NewFromInt(int64(w.valid))).Round(precision).InexactFloat64()
}
