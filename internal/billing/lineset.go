package billing

import (
	"fmt"
	"strings"

	"github.com/posada-hms/posada/internal/fx"
)

// Line is one payment entry in a line set. RawAmount is what the operator
// typed; for CASH_LOCAL it is local currency, for every other method USD.
// Both derived amounts are recomputed on every edit.
type Line struct {
	ID          int64   `json:"id"`
	Method      Method  `json:"method"`
	RawAmount   float64 `json:"raw_amount"`
	AmountUSD   float64 `json:"amount_usd"`
	AmountLocal float64 `json:"amount_local"`
	Reference   string  `json:"reference"`
}

// Violation flags a line that cannot be committed.
type Violation struct {
	Position int    `json:"position"`
	Method   Method `json:"method"`
	Message  string `json:"message"`
}

// LineSet is an ordered, mutable collection of payment lines. IDs grow
// monotonically over the set's lifetime and are never reused after removal.
type LineSet struct {
	lines  []Line
	nextID int64
}

// NewLineSet returns an empty line set.
func NewLineSet() *LineSet {
	return &LineSet{nextID: 1}
}

// Add appends a line defaulted to a zero cash-USD payment and returns its id.
func (s *LineSet) Add() int64 {
	id := s.nextID
	s.nextID++
	s.lines = append(s.lines, Line{ID: id, Method: MethodCashUSD})
	return id
}

// Remove deletes a line. Removing an absent id is a no-op.
func (s *LineSet) Remove(id int64) {
	for i, l := range s.lines {
		if l.ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// LineUpdate carries the editable fields of a line; nil fields keep their
// current value.
type LineUpdate struct {
	RawAmount *float64
	Method    *Method
	Reference *string
}

// Update edits a line and re-derives both currency amounts at the given
// rate. A method change between CASH_LOCAL and anything else flips how
// RawAmount is interpreted, so derivation always runs from RawAmount.
func (s *LineSet) Update(id int64, upd LineUpdate, rate float64) error {
	for i := range s.lines {
		if s.lines[i].ID != id {
			continue
		}
		if upd.RawAmount != nil {
			s.lines[i].RawAmount = *upd.RawAmount
		}
		if upd.Method != nil {
			s.lines[i].Method = *upd.Method
		}
		if upd.Reference != nil {
			s.lines[i].Reference = *upd.Reference
		}
		s.lines[i].derive(rate)
		return nil
	}
	return fmt.Errorf("line %d not found", id)
}

func (l *Line) derive(rate float64) {
	if l.Method == MethodCashLocal {
		l.AmountLocal = fx.Round2(l.RawAmount)
		l.AmountUSD = fx.ToUSD(rate, l.RawAmount)
		return
	}
	l.AmountUSD = l.RawAmount
	l.AmountLocal = fx.ToLocal(rate, l.RawAmount)
}

// Validate reports every line whose method requires a reference but whose
// reference trims to empty. Positions are 1-based.
func (s *LineSet) Validate() []Violation {
	var out []Violation
	for i, l := range s.lines {
		if l.Method.RequiresReference() && strings.TrimSpace(l.Reference) == "" {
			out = append(out, Violation{
				Position: i + 1,
				Method:   l.Method,
				Message:  fmt.Sprintf("payment #%d (%s) requires a reference number", i+1, l.Method),
			})
		}
	}
	return out
}

// TotalUSD sums every line's USD amount, negative and zero lines included.
func (s *LineSet) TotalUSD() float64 {
	var total float64
	for _, l := range s.lines {
		total += l.AmountUSD
	}
	return total
}

// CollectedUSD sums only the lines that persist at commit: those with a
// positive USD amount.
func (s *LineSet) CollectedUSD() float64 {
	var total float64
	for _, l := range s.lines {
		if l.AmountUSD > 0 {
			total += l.AmountUSD
		}
	}
	return total
}

// Lines returns a copy of the current lines in order.
func (s *LineSet) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}
