// Package value implements the typed, nullable scalar at the bottom of the
// fastqx data model: ValueType, the closed column-type enumeration, and
// Value, a tagged union with one payload field per non-Null variant.
//
// Values are never boxed as interface{}; the variant set is closed and
// small, so dispatch is exhaustive switch over Kind rather than a type
// assertion or a trait object (mirrors the Rust source's enum FqxValue).
package value

import (
	"math"
	"strconv"
	"strings"
	"time"

	fqxerr "fastqx/internal/errors"
)

// ValueType is the closed enumeration of column types.
type ValueType int

const (
	Null ValueType = iota
	Bool
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	F64
	String
	Blob
	Timestamp // wall-clock with offset
	DateTime  // naive
	Date
	Time
)

func (t ValueType) String() string {
	switch t {
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case U8:
		return "U8"
	case U16:
		return "U16"
	case U32:
		return "U32"
	case U64:
		return "U64"
	case I8:
		return "I8"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case I64:
		return "I64"
	case F32:
		return "F32"
	case F64:
		return "F64"
	case String:
		return "String"
	case Blob:
		return "Blob"
	case Timestamp:
		return "Timestamp"
	case DateTime:
		return "DateTime"
	case Date:
		return "Date"
	case Time:
		return "Time"
	default:
		return "Unknown"
	}
}

// IsNumeric reports whether t is an integer or float variant.
func (t ValueType) IsNumeric() bool {
	switch t {
	case U8, U16, U32, U64, I8, I16, I32, I64, F32, F64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether t is F32 or F64.
func (t ValueType) IsFloat() bool {
	return t == F32 || t == F64
}

// IsTemporal reports whether t is one of the four temporal variants.
func (t ValueType) IsTemporal() bool {
	switch t {
	case Timestamp, DateTime, Date, Time:
		return true
	default:
		return false
	}
}

// Value is a tagged union: Kind selects which payload field is live.
// Exactly one of the fields below is meaningful for a given Kind; Null
// carries none.
type Value struct {
	Kind ValueType

	boolVal   bool
	intVal    int64   // I8..I64
	uintVal   uint64  // authoritative for U8..U64
	floatVal  float64 // F32 (truncated to float32 precision) and F64
	stringVal string
	blobVal   []byte
	timeVal   time.Time
}

func NewNull() Value                { return Value{Kind: Null} }
func NewBool(v bool) Value          { return Value{Kind: Bool, boolVal: v} }
func NewU8(v uint8) Value           { return Value{Kind: U8, uintVal: uint64(v)} }
func NewU16(v uint16) Value         { return Value{Kind: U16, uintVal: uint64(v)} }
func NewU32(v uint32) Value         { return Value{Kind: U32, uintVal: uint64(v)} }
func NewU64(v uint64) Value         { return Value{Kind: U64, uintVal: v} }
func NewI8(v int8) Value            { return Value{Kind: I8, intVal: int64(v)} }
func NewI16(v int16) Value          { return Value{Kind: I16, intVal: int64(v)} }
func NewI32(v int32) Value          { return Value{Kind: I32, intVal: int64(v)} }
func NewI64(v int64) Value          { return Value{Kind: I64, intVal: v} }
func NewF32(v float32) Value        { return Value{Kind: F32, floatVal: float64(v)} }
func NewF64(v float64) Value        { return Value{Kind: F64, floatVal: v} }
func NewString(v string) Value      { return Value{Kind: String, stringVal: v} }
func NewBlob(v []byte) Value        { return Value{Kind: Blob, blobVal: v} }
func NewTimestamp(v time.Time) Value { return Value{Kind: Timestamp, timeVal: v} }
func NewDateTime(v time.Time) Value  { return Value{Kind: DateTime, timeVal: v} }
func NewDate(v time.Time) Value      { return Value{Kind: Date, timeVal: v} }
func NewTime(v time.Time) Value      { return Value{Kind: Time, timeVal: v} }

func (v Value) IsNull() bool    { return v.Kind == Null }
func (v Value) IsNumeric() bool { return v.Kind.IsNumeric() }
func (v Value) IsFloat() bool   { return v.Kind.IsFloat() }

// Bool, Int, Uint, Float, Str, Bytes, TimeVal return the payload for the
// matching variant family; they do not check Kind — callers switch on
// Kind first, the way the rest of this package does.
func (v Value) Bool() bool          { return v.boolVal }
func (v Value) Int() int64          { return v.intVal }
func (v Value) Uint() uint64        { return v.uintVal }
func (v Value) Float() float64      { return v.floatVal }
func (v Value) Str() string         { return v.stringVal }
func (v Value) Bytes() []byte       { return v.blobVal }
func (v Value) TimeVal() time.Time  { return v.timeVal }

// asF64 widens any numeric variant to float64 for comparison/arithmetic
// staging. ok is false for non-numeric or Null.
func (v Value) asF64() (float64, bool) {
	switch v.Kind {
	case U8, U16, U32, U64:
		return float64(v.uintVal), true
	case I8, I16, I32, I64:
		return float64(v.intVal), true
	case F32, F64:
		return v.floatVal, true
	default:
		return 0, false
	}
}

// Equal implements the spec's equality contract: same variant and
// payload; Null equals only Null.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case Null:
		return true
	case Bool:
		return v.boolVal == other.boolVal
	case U8, U16, U32, U64:
		return v.uintVal == other.uintVal
	case I8, I16, I32, I64:
		return v.intVal == other.intVal
	case F32, F64:
		return v.floatVal == other.floatVal
	case String:
		return v.stringVal == other.stringVal
	case Blob:
		return string(v.blobVal) == string(other.blobVal)
	case Timestamp, DateTime, Date, Time:
		return v.timeVal.Equal(other.timeVal)
	default:
		return false
	}
}

// Compare implements the spec's partial order: numeric vs numeric widens
// to F64, String vs String is lexicographic, Blob vs Blob is byte-wise,
// temporal vs temporal (same variant) is chronological. ok is false when
// no ordering is defined (Null on either side, or incompatible variants).
func (v Value) Compare(other Value) (cmp int, ok bool) {
	if v.Kind == Null || other.Kind == Null {
		return 0, false
	}
	if v.Kind.IsNumeric() && other.Kind.IsNumeric() {
		a, _ := v.asF64()
		b, _ := other.asF64()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	if v.Kind == String && other.Kind == String {
		return strings.Compare(v.stringVal, other.stringVal), true
	}
	if v.Kind == Blob && other.Kind == Blob {
		return strings.Compare(string(v.blobVal), string(other.blobVal)), true
	}
	if v.Kind.IsTemporal() && v.Kind == other.Kind {
		switch {
		case v.timeVal.Before(other.timeVal):
			return -1, true
		case v.timeVal.After(other.timeVal):
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// Less reports whether v precedes other, treating an undefined ordering
// as false (used by the Min/Max accumulators in package fastqx).
func (v Value) Less(other Value) bool {
	c, ok := v.Compare(other)
	return ok && c < 0
}

func coerceToKind(kind ValueType, f float64) Value {
	switch kind {
	case U8:
		return NewU8(uint8(f))
	case U16:
		return NewU16(uint16(f))
	case U32:
		return NewU32(uint32(f))
	case U64:
		return NewU64(uint64(f))
	case I8:
		return NewI8(int8(f))
	case I16:
		return NewI16(int16(f))
	case I32:
		return NewI32(int32(f))
	case I64:
		return NewI64(int64(f))
	case F32:
		return NewF32(float32(f))
	case F64:
		return NewF64(f)
	default:
		return NewNull()
	}
}

type arithOp int

const (
	opAdd arithOp = iota
	opSub
	opMul
	opDiv
	opRem
)

func (v Value) arith(other Value, op arithOp) Value {
	if v.IsNull() || other.IsNull() {
		return NewNull()
	}
	if !v.Kind.IsNumeric() || !other.Kind.IsNumeric() {
		return NewNull()
	}
	if !v.Kind.IsFloat() && !other.Kind.IsFloat() {
		return v.intArith(other, op)
	}
	a, _ := v.asF64()
	b, _ := other.asF64()
	var r float64
	switch op {
	case opAdd:
		r = a + b
	case opSub:
		r = a - b
	case opMul:
		r = a * b
	case opDiv:
		if b == 0 {
			return NewNull()
		}
		r = a / b
	case opRem:
		if b == 0 {
			return NewNull()
		}
		r = math.Mod(a, b)
	}
	return coerceToKind(v.Kind, r)
}

// intArith performs the op in v's own native integer width (uint64 for
// U8..U64, int64 for I8..I64) rather than staging through float64, so
// I64/U64 operands keep full precision above 2^53. The right operand
// widens into that same signedness, mirroring the Rust source's
// `u8::try_from($rhs)`: a negative rhs against an unsigned lhs has no
// representation and yields Null rather than wrapping.
func (v Value) intArith(other Value, op arithOp) Value {
	if v.Kind == U8 || v.Kind == U16 || v.Kind == U32 || v.Kind == U64 {
		a := v.uintVal
		var b uint64
		if other.Kind.IsFloat() {
			return NewNull()
		}
		switch other.Kind {
		case U8, U16, U32, U64:
			b = other.uintVal
		default:
			if other.intVal < 0 {
				return NewNull()
			}
			b = uint64(other.intVal)
		}
		switch op {
		case opAdd:
			return coerceUintToKind(v.Kind, a+b)
		case opSub:
			return coerceUintToKind(v.Kind, a-b)
		case opMul:
			return coerceUintToKind(v.Kind, a*b)
		case opDiv:
			if b == 0 {
				return NewNull()
			}
			return coerceUintToKind(v.Kind, a/b)
		case opRem:
			if b == 0 {
				return NewNull()
			}
			return coerceUintToKind(v.Kind, a%b)
		}
		return NewNull()
	}

	a := v.intVal
	var b int64
	switch other.Kind {
	case U8, U16, U32, U64:
		b = int64(other.uintVal)
	default:
		b = other.intVal
	}
	switch op {
	case opAdd:
		return coerceIntToKind(v.Kind, a+b)
	case opSub:
		return coerceIntToKind(v.Kind, a-b)
	case opMul:
		return coerceIntToKind(v.Kind, a*b)
	case opDiv:
		if b == 0 {
			return NewNull()
		}
		return coerceIntToKind(v.Kind, a/b)
	case opRem:
		if b == 0 {
			return NewNull()
		}
		return coerceIntToKind(v.Kind, a%b)
	}
	return NewNull()
}

func coerceUintToKind(kind ValueType, u uint64) Value {
	switch kind {
	case U8:
		return NewU8(uint8(u))
	case U16:
		return NewU16(uint16(u))
	case U32:
		return NewU32(uint32(u))
	case U64:
		return NewU64(u)
	default:
		return NewNull()
	}
}

func coerceIntToKind(kind ValueType, i int64) Value {
	switch kind {
	case I8:
		return NewI8(int8(i))
	case I16:
		return NewI16(int16(i))
	case I32:
		return NewI32(int32(i))
	case I64:
		return NewI64(i)
	default:
		return NewNull()
	}
}

// Add, Sub, Mul, Div, Rem implement the Value arithmetic contract: the
// right operand is coerced to the left's variant, Null propagates, a
// non-numeric operand yields Null, and division/remainder by zero yields
// Null rather than panicking.
func (v Value) Add(other Value) Value { return v.arith(other, opAdd) }
func (v Value) Sub(other Value) Value { return v.arith(other, opSub) }
func (v Value) Mul(other Value) Value { return v.arith(other, opMul) }
func (v Value) Div(other Value) Value { return v.arith(other, opDiv) }
func (v Value) Rem(other Value) Value { return v.arith(other, opRem) }

// String stringifies the value for display/CSV output. Null maps to the
// empty string.
func (v Value) String() string {
	switch v.Kind {
	case Null:
		return ""
	case Bool:
		return strconv.FormatBool(v.boolVal)
	case U8, U16, U32, U64:
		return strconv.FormatUint(v.uintVal, 10)
	case I8, I16, I32, I64:
		return strconv.FormatInt(v.intVal, 10)
	case F32:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 32)
	case F64:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
	case String:
		return v.stringVal
	case Blob:
		return string(v.blobVal)
	case Timestamp:
		return v.timeVal.Format(time.RFC3339)
	case DateTime:
		return v.timeVal.Format("2006-01-02T15:04:05")
	case Date:
		return v.timeVal.Format("2006-01-02")
	case Time:
		return v.timeVal.Format("15:04:05")
	default:
		return ""
	}
}

// TryCast parses/widens/narrows v into target, coercing Null to Null and
// failing out-of-range numeric conversions to Null (never an error —
// callers that need the failure to be loud should check IsNull on the
// result, matching the spec's "out-of-range => Null" contract).
func (v Value) TryCast(target ValueType) Value {
	if v.Kind == target {
		return v
	}
	if v.IsNull() || target == Null {
		return NewNull()
	}
	if v.Kind == String {
		parsed, err := Parse(v.stringVal, target)
		if err != nil {
			return NewNull()
		}
		return parsed
	}
	if target == String {
		return NewString(v.String())
	}
	if target.IsNumeric() && v.Kind.IsNumeric() {
		f, _ := v.asF64()
		if !fitsInRange(target, f) {
			return NewNull()
		}
		return coerceToKind(target, f)
	}
	if target == Blob && v.Kind == Blob {
		return v
	}
	return NewNull()
}

func fitsInRange(target ValueType, f float64) bool {
	switch target {
	case U8:
		return f >= 0 && f <= math.MaxUint8
	case U16:
		return f >= 0 && f <= math.MaxUint16
	case U32:
		return f >= 0 && f <= math.MaxUint32
	case U64:
		return f >= 0 && f <= math.MaxUint64
	case I8:
		return f >= math.MinInt8 && f <= math.MaxInt8
	case I16:
		return f >= math.MinInt16 && f <= math.MaxInt16
	case I32:
		return f >= math.MinInt32 && f <= math.MaxInt32
	case I64:
		return f >= math.MinInt64 && f <= math.MaxInt64
	case F32, F64:
		return true
	default:
		return true
	}
}

// Parse parses s into a Value of the given ValueType; an empty string
// always parses to Null (callers — notably the CSV reader — rely on
// this). A parse failure returns a *errors.Error of kind ParseError.
func Parse(s string, target ValueType) (Value, error) {
	if s == "" {
		return NewNull(), nil
	}
	switch target {
	case Null:
		return NewNull(), nil
	case Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, fqxerr.NewParseError("cannot parse %q as Bool", s)
		}
		return NewBool(b), nil
	case U8, U16, U32, U64:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Value{}, fqxerr.NewParseError("cannot parse %q as %s", s, target)
		}
		return coerceToKind(target, float64(u)), nil
	case I8, I16, I32, I64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, fqxerr.NewParseError("cannot parse %q as %s", s, target)
		}
		return coerceToKind(target, float64(i)), nil
	case F32, F64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fqxerr.NewParseError("cannot parse %q as %s", s, target)
		}
		return coerceToKind(target, f), nil
	case String:
		return NewString(s), nil
	case Blob:
		return NewBlob([]byte(s)), nil
	case Timestamp:
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return Value{}, fqxerr.NewParseError("cannot parse %q as Timestamp", s)
		}
		return NewTimestamp(t), nil
	case DateTime:
		t, err := time.Parse("2006-01-02T15:04:05", s)
		if err != nil {
			return Value{}, fqxerr.NewParseError("cannot parse %q as DateTime", s)
		}
		return NewDateTime(t), nil
	case Date:
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return Value{}, fqxerr.NewParseError("cannot parse %q as Date", s)
		}
		return NewDate(t), nil
	case Time:
		t, err := time.Parse("15:04:05", s)
		if err != nil {
			return Value{}, fqxerr.NewParseError("cannot parse %q as Time", s)
		}
		return NewTime(t), nil
	default:
		return Value{}, fqxerr.NewParseError("unknown target type for %q", s)
	}
}

// EncodeKey appends a canonical, type-tagged byte encoding of v to buf and
// returns the extended slice. It underlies group_by's key vectors: two
// Values encode identically iff they should collide as group keys.
// Floats encode by IEEE bit pattern rather than by value, per the spec's
// documented NaN caveat (NaN keys collide only with bit-identical NaNs,
// never with a numerically-equal-looking float).
func (v Value) EncodeKey(buf []byte) []byte {
	buf = append(buf, byte(v.Kind))
	switch v.Kind {
	case Null:
		// no payload
	case Bool:
		if v.boolVal {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case U8, U16, U32, U64:
		buf = appendUint64(buf, v.uintVal)
	case I8, I16, I32, I64:
		buf = appendUint64(buf, uint64(v.intVal))
	case F32:
		buf = appendUint64(buf, uint64(math.Float32bits(float32(v.floatVal))))
	case F64:
		buf = appendUint64(buf, math.Float64bits(v.floatVal))
	case String:
		buf = append(buf, v.stringVal...)
	case Blob:
		buf = append(buf, v.blobVal...)
	case Timestamp, DateTime, Date, Time:
		buf = appendUint64(buf, uint64(v.timeVal.UnixNano()))
	}
	buf = append(buf, 0) // field separator
	return buf
}

func appendUint64(buf []byte, u uint64) []byte {
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(u>>(8*i)))
	}
	return buf
}
