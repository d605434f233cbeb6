// Package row implements Row, an ordered sequence of Values. A Row knows
// nothing about column names or types — those live in the container that
// owns it — so it is a plain positional sequence, first-class iterable and
// indexable by position, mirroring the Rust source's FqxRow (a newtype
// over Vec<FqxValue>).
package row

import (
	"fastqx/internal/errors"
	"fastqx/internal/value"
)

// Row is an ordered sequence of Values.
type Row []value.Value

// New builds a Row from the given values.
func New(values ...value.Value) Row {
	r := make(Row, len(values))
	copy(r, values)
	return r
}

// Len returns the number of cells.
func (r Row) Len() int { return len(r) }

// At returns the value at position i, or an IndexOutOfRange error.
func (r Row) At(i int) (value.Value, error) {
	if i < 0 || i >= len(r) {
		return value.Value{}, errors.NewIndexOutOfRange("row index %d out of range [0,%d)", i, len(r))
	}
	return r[i], nil
}

// Clone returns an independent copy of r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Select returns a shorter row made of the cells at positions, in the
// requested order; an out-of-range position is reported rather than
// silently dropped.
func (r Row) Select(positions []int) (Row, error) {
	out := make(Row, len(positions))
	for i, p := range positions {
		v, err := r.At(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Append returns a new row extended with other's cells.
func (r Row) Append(other Row) Row {
	out := make(Row, 0, len(r)+len(other))
	out = append(out, r...)
	out = append(out, other...)
	return out
}

// arith applies f position-wise between r and other. A row shorter than
// the other is treated as having Nulls beyond its length, per spec.
func (r Row) arith(other Row, f func(a, b value.Value) value.Value) Row {
	n := len(r)
	if len(other) > n {
		n = len(other)
	}
	out := make(Row, n)
	for i := 0; i < n; i++ {
		a := value.NewNull()
		if i < len(r) {
			a = r[i]
		}
		b := value.NewNull()
		if i < len(other) {
			b = other[i]
		}
		out[i] = f(a, b)
	}
	return out
}

func (r Row) Add(other Row) Row { return r.arith(other, value.Value.Add) }
func (r Row) Sub(other Row) Row { return r.arith(other, value.Value.Sub) }
func (r Row) Mul(other Row) Row { return r.arith(other, value.Value.Mul) }
func (r Row) Div(other Row) Row { return r.arith(other, value.Value.Div) }
func (r Row) Rem(other Row) Row { return r.arith(other, value.Value.Rem) }

// Equal compares two rows position-wise using Value.Equal.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if !r[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// GroupKey builds a comparable group-by key out of the cells at positions,
// usable directly as a Go map key regardless of arity. See
// value.Value.EncodeKey for the per-variant encoding rules (floats compare
// by bit pattern, documented NaN caveat included).
func (r Row) GroupKey(positions []int) (string, error) {
	var buf []byte
	for _, p := range positions {
		v, err := r.At(p)
		if err != nil {
			return "", err
		}
		buf = v.EncodeKey(buf)
	}
	return string(buf), nil
}

// Values returns the row's values as-is (the row already is a []Value;
// this exists for call sites that want to signal "owned snapshot").
func (r Row) Values() []value.Value { return []value.Value(r) }
