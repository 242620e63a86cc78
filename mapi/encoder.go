package mapi

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/sensepost/outmsg/utils"
)

// EncodedValue is a property value in the layout the property stream needs.
// Fixed length values sit in Inline, variable length and fixed multi-valued ones in Data.
// Multi-valued strings keep one entry per value in Values and their lengths in Data.
type EncodedValue struct {
	Type   PropertyType
	Inline []byte
	Data   []byte
	Values [][]byte
}

type layout uint8

const (
	layoutUnsupported layout = iota
	layoutFixed
	layoutVariable
	layoutMultipleFixed
	layoutMultipleVariable
)

// layoutOf is the single place deciding how a type is stored, every type in constants.go is listed
func layoutOf(t PropertyType) layout {
	switch t {
	case PtypNull, PtypInteger16, PtypInteger32, PtypFloating32, PtypFloating64, PtypCurrency,
		PtypFloatingTime, PtypErrorCode, PtypBoolean, PtypInteger64, PtypTime:
		return layoutFixed
	case PtypString, PtypString8, PtypBinary, PtypGUID:
		return layoutVariable
	case PtypMultipleInteger16, PtypMultipleInteger32, PtypMultipleFloating32, PtypMultipleFloating64,
		PtypMultipleCurrency, PtypMultipleFloatingTime, PtypMultipleInteger64, PtypMultipleTime, PtypMultipleGUID:
		return layoutMultipleFixed
	case PtypMultipleString, PtypMultipleString8:
		return layoutMultipleVariable
	case PtypUnspecified, PtypObject, PtypServerID, PtypRestriction, PtypRuleAction, PtypMultipleBinary:
		return layoutUnsupported
	}
	return layoutUnsupported
}

// Supported reports whether values of the type can be encoded
func (t PropertyType) Supported() bool {
	return layoutOf(t) != layoutUnsupported
}

// IsFixed reports whether the value is stored inline in the property stream
func (t PropertyType) IsFixed() bool {
	return layoutOf(t) == layoutFixed
}

// element sizes of the fixed length types
var fixedSizes = map[PropertyType]int{
	PtypNull:         0,
	PtypInteger16:    2,
	PtypInteger32:    4,
	PtypFloating32:   4,
	PtypFloating64:   8,
	PtypCurrency:     8,
	PtypFloatingTime: 8,
	PtypErrorCode:    4,
	PtypBoolean:      1,
	PtypInteger64:    8,
	PtypTime:         8,
	PtypGUID:         16,
}

// 100ns intervals between 1601-01-01 and 1970-01-01
const fileTimeEpochDelta = 116444736000000000

var fileTimeEpoch = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)

// seconds between 1899-12-30 and 1970-01-01
const oleDateEpochUnix = -2209161600

var string8Encoding = charmap.Windows1252

// Encode converts a Go value into the byte layout of property type t.
// Currency takes a float64 amount, which is scaled by 10000, or an integer that is already in
// fixed point units: 2 stores 0.0002 while 2.0 stores 2.
func Encode(t PropertyType, value interface{}) (*EncodedValue, error) {
	ev := &EncodedValue{Type: t}
	switch layoutOf(t) {
	case layoutFixed:
		b, err := encodeScalar(t, value)
		if err != nil {
			return nil, err
		}
		ev.Inline = b
	case layoutVariable:
		b, err := encodeScalar(t, value)
		if err != nil {
			return nil, err
		}
		ev.Data = b
	case layoutMultipleFixed:
		items, err := sliceItems(t, value)
		if err != nil {
			return nil, err
		}
		ev.Data = []byte{}
		for _, item := range items {
			b, err := encodeScalar(t.Base(), item)
			if err != nil {
				return nil, err
			}
			ev.Data = append(ev.Data, b...)
		}
	case layoutMultipleVariable:
		items, err := sliceItems(t, value)
		if err != nil {
			return nil, err
		}
		ev.Data = []byte{}
		for _, item := range items {
			b, err := encodeScalar(t.Base(), item)
			if err != nil {
				return nil, err
			}
			b = append(b, terminator(t.Base())...)
			ev.Values = append(ev.Values, b)
			ev.Data = append(ev.Data, utils.EncodeNum(uint32(len(b)))...)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return ev, nil
}

func encodeScalar(t PropertyType, value interface{}) ([]byte, error) {
	switch t {
	case PtypNull:
		return []byte{}, nil
	case PtypInteger16:
		n, err := toInt(t, value, 16)
		return utils.EncodeNum(int16(n)), err
	case PtypInteger32, PtypErrorCode:
		n, err := toInt(t, value, 32)
		return utils.EncodeNum(int32(n)), err
	case PtypInteger64:
		n, err := toInt(t, value, 64)
		return utils.EncodeNum(n), err
	case PtypCurrency:
		//currency is a fixed point number scaled by 10000
		if f, ok := value.(float64); ok {
			return utils.EncodeNum(int64(math.Round(f * 10000))), nil
		}
		n, err := toInt(t, value, 64)
		return utils.EncodeNum(n), err
	case PtypFloating32:
		f, err := toFloat(t, value)
		return utils.EncodeNum(float32(f)), err
	case PtypFloating64:
		f, err := toFloat(t, value)
		return utils.EncodeNum(f), err
	case PtypFloatingTime:
		if tm, ok := value.(time.Time); ok {
			return utils.EncodeNum(toOleDate(tm)), nil
		}
		f, err := toFloat(t, value)
		return utils.EncodeNum(f), err
	case PtypBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, mismatch(t, value)
		}
		if b {
			return []byte{0x01}, nil
		}
		return []byte{0x00}, nil
	case PtypTime:
		tm, ok := value.(time.Time)
		if !ok {
			return nil, mismatch(t, value)
		}
		if tm.Before(fileTimeEpoch) {
			return nil, fmt.Errorf("%w: %s is before the FILETIME epoch", ErrTypeMismatch, tm.UTC().Format(time.RFC3339))
		}
		return utils.EncodeNum(toFileTime(tm)), nil
	case PtypGUID:
		switch g := value.(type) {
		case uuid.UUID:
			return utils.GUIDToByteArray(g), nil
		case [16]byte:
			return utils.GUIDToByteArray(uuid.UUID(g)), nil
		}
		return nil, mismatch(t, value)
	case PtypString:
		s, ok := value.(string)
		if !ok {
			return nil, mismatch(t, value)
		}
		return utils.UTF16(s), nil
	case PtypString8:
		s, ok := value.(string)
		if !ok {
			return nil, mismatch(t, value)
		}
		b, err := encoding.ReplaceUnsupported(string8Encoding.NewEncoder()).Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
		}
		return b, nil
	case PtypBinary:
		b, ok := value.([]byte)
		if !ok {
			return nil, mismatch(t, value)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func terminator(t PropertyType) []byte {
	switch t {
	case PtypString:
		return []byte{0x00, 0x00}
	case PtypString8:
		return []byte{0x00}
	}
	return nil
}

// Decode turns an encoded value back into the Go value Encode accepts for its type
func Decode(ev *EncodedValue) (interface{}, error) {
	t := ev.Type
	switch layoutOf(t) {
	case layoutFixed:
		return decodeScalar(t, ev.Inline)
	case layoutVariable:
		return decodeScalar(t, ev.Data)
	case layoutMultipleFixed:
		size := fixedSizes[t.Base()]
		if len(ev.Data)%size != 0 {
			return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrTypeMismatch, len(ev.Data), size)
		}
		out := reflect.MakeSlice(reflect.SliceOf(goType(t.Base())), 0, len(ev.Data)/size)
		for off := 0; off < len(ev.Data); off += size {
			v, err := decodeScalar(t.Base(), ev.Data[off:off+size])
			if err != nil {
				return nil, err
			}
			out = reflect.Append(out, reflect.ValueOf(v))
		}
		return out.Interface(), nil
	case layoutMultipleVariable:
		out := make([]string, 0, len(ev.Values))
		for _, b := range ev.Values {
			b = b[:len(b)-len(terminator(t.Base()))]
			v, err := decodeScalar(t.Base(), b)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(string))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func decodeScalar(t PropertyType, b []byte) (interface{}, error) {
	if size, ok := fixedSizes[t]; ok && len(b) < size {
		return nil, fmt.Errorf("%w: %d bytes is too short for %s", ErrTypeMismatch, len(b), t)
	}
	switch t {
	case PtypNull:
		return nil, nil
	case PtypInteger16:
		return int16(utils.DecodeUint16(b)), nil
	case PtypInteger32, PtypErrorCode:
		return int32(utils.DecodeUint32(b)), nil
	case PtypInteger64, PtypCurrency:
		return int64(utils.DecodeUint64(b)), nil
	case PtypFloating32:
		return math.Float32frombits(utils.DecodeUint32(b)), nil
	case PtypFloating64:
		return math.Float64frombits(utils.DecodeUint64(b)), nil
	case PtypFloatingTime:
		return fromOleDate(math.Float64frombits(utils.DecodeUint64(b))), nil
	case PtypBoolean:
		return b[0] != 0, nil
	case PtypTime:
		return fromFileTime(utils.DecodeUint64(b)), nil
	case PtypGUID:
		return utils.ByteArrayToGUID(b[:16])
	case PtypString:
		return utils.FromUnicode(b)
	case PtypString8:
		s, err := string8Encoding.NewDecoder().Bytes(b)
		return string(s), err
	case PtypBinary:
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func goType(t PropertyType) reflect.Type {
	switch t {
	case PtypInteger16:
		return reflect.TypeOf(int16(0))
	case PtypInteger32, PtypErrorCode:
		return reflect.TypeOf(int32(0))
	case PtypInteger64, PtypCurrency:
		return reflect.TypeOf(int64(0))
	case PtypFloating32:
		return reflect.TypeOf(float32(0))
	case PtypFloating64:
		return reflect.TypeOf(float64(0))
	case PtypFloatingTime, PtypTime:
		return reflect.TypeOf(time.Time{})
	case PtypGUID:
		return reflect.TypeOf(uuid.UUID{})
	}
	return reflect.TypeOf(new(interface{})).Elem()
}

// ParsePropertyType converts text, as found in configuration files, into the Go value for type t
func ParsePropertyType(text string, t PropertyType) (interface{}, error) {
	if !t.Supported() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	if t.IsMultiValued() {
		parts := strings.Split(text, ";")
		out := reflect.MakeSlice(reflect.SliceOf(parsedType(t.Base())), 0, len(parts))
		for _, part := range parts {
			v, err := ParsePropertyType(strings.TrimSpace(part), t.Base())
			if err != nil {
				return nil, err
			}
			out = reflect.Append(out, reflect.ValueOf(v))
		}
		return out.Interface(), nil
	}

	var v interface{}
	var err error
	switch t {
	case PtypNull:
		return nil, nil
	case PtypInteger16:
		var n int64
		n, err = parseInt(text, 16)
		v = int16(n)
	case PtypInteger32, PtypErrorCode:
		var n int64
		n, err = parseInt(text, 32)
		v = int32(n)
	case PtypInteger64:
		v, err = parseInt(text, 64)
	case PtypCurrency, PtypFloating64:
		v, err = strconv.ParseFloat(text, 64)
	case PtypFloating32:
		var f float64
		f, err = strconv.ParseFloat(text, 32)
		v = float32(f)
	case PtypBoolean:
		v, err = strconv.ParseBool(text)
	case PtypTime, PtypFloatingTime:
		v, err = parseTime(text)
	case PtypGUID:
		v, err = uuid.Parse(text)
	case PtypString, PtypString8:
		v = text
	case PtypBinary:
		v = []byte(text)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q as %s: %v", ErrParse, text, t, err)
	}
	return v, nil
}

// the Go type ParsePropertyType produces for a scalar type
func parsedType(t PropertyType) reflect.Type {
	switch t {
	case PtypCurrency:
		return reflect.TypeOf(float64(0))
	case PtypFloatingTime:
		return reflect.TypeOf(time.Time{})
	case PtypString, PtypString8:
		return reflect.TypeOf("")
	}
	return goType(t)
}

// parseInt reads decimal text, or hexadecimal with a 0x prefix. A leading zero is not octal.
func parseInt(text string, bits int) (int64, error) {
	sign := ""
	digits := text
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		sign, digits = digits[:1], digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		hex := digits[2:]
		if strings.HasPrefix(hex, "-") || strings.HasPrefix(hex, "+") {
			return 0, fmt.Errorf("invalid hexadecimal %q", text)
		}
		return strconv.ParseInt(sign+hex, 16, bits)
	}
	return strconv.ParseInt(text, 10, bits)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func parseTime(text string) (time.Time, error) {
	var err error
	for _, format := range timeLayouts {
		var tm time.Time
		if tm, err = time.Parse(format, text); err == nil {
			return tm.UTC(), nil
		}
	}
	return time.Time{}, err
}

func toInt(t PropertyType, value interface{}, bits uint) (int64, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint8, uint16, uint32, uint64, uint:
		//unsigned values keep their bit pattern, 0xFFFFFFFF is a valid PtypInteger32
		u := reflect.ValueOf(v).Uint()
		if bits < 64 && u >= 1<<bits {
			return 0, fmt.Errorf("%w: %d overflows %s", ErrTypeMismatch, u, t)
		}
		return int64(u), nil
	default:
		return 0, mismatch(t, value)
	}
	if bits < 64 {
		min, max := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
		if n < min || n > max {
			return 0, fmt.Errorf("%w: %d overflows %s", ErrTypeMismatch, n, t)
		}
	}
	return n, nil
}

func toFloat(t PropertyType, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int, int8, int16, int32, int64:
		return float64(reflect.ValueOf(v).Int()), nil
	}
	return 0, mismatch(t, value)
}

// sliceItems unpacks any slice value for a multi-valued type, []byte is not a list
func sliceItems(t PropertyType, value interface{}) ([]interface{}, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, mismatch(t, value)
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

func mismatch(t PropertyType, value interface{}) error {
	return fmt.Errorf("%w: %T for %s", ErrTypeMismatch, value, t)
}

func toFileTime(t time.Time) uint64 {
	return uint64(t.Unix()*10000000 + int64(t.Nanosecond()/100) + fileTimeEpochDelta)
}

func fromFileTime(ft uint64) time.Time {
	ticks := int64(ft) - fileTimeEpochDelta
	secs, rem := ticks/10000000, ticks%10000000
	if rem < 0 {
		secs--
		rem += 10000000
	}
	return time.Unix(secs, rem*100).UTC()
}

func toOleDate(t time.Time) float64 {
	return (float64(t.Unix()-oleDateEpochUnix) + float64(t.Nanosecond())/1e9) / 86400
}

func fromOleDate(days float64) time.Time {
	secs := days * 86400
	whole := math.Floor(secs)
	nsec := math.Round((secs - whole) * 1e9)
	return time.Unix(int64(whole)+oleDateEpochUnix, int64(nsec)).UTC()
}
