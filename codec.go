package sheetfdw

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	errNotIntegral = errors.New("value is not a whole number")
	errNotNumeric  = errors.New("value is not numeric")
	errNotDate     = errors.New("value is not a date")
)

// Codec converts between host values and remote cell values.
//
// Spreadsheets have no null: an empty cell is the null sentinel in both
// directions for every column type.
type Codec struct {
	// DecimalSeparator replaces "." when parsing numeric cell text.
	// Empty means ".".
	DecimalSeparator string
}

// ToRemote converts a host value into the form written to a cell.
func (c Codec) ToRemote(t ColumnType, v interface{}) (interface{}, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	if v == nil {
		return "", nil
	}

	var (
		out interface{}
		err error
	)
	switch t {
	case TypeUUID:
		out, err = uuidToRemote(v)
	case TypeString:
		out = stringToRemote(v)
	case TypeInteger:
		out, err = integerToRemote(v)
	case TypeFloat:
		out, err = floatToRemote(v)
	case TypeDate:
		out, err = dateToRemote(v)
	}
	if err != nil {
		return nil, &ConversionError{Type: t, Value: v, Err: err}
	}
	return out, nil
}

// ToHost converts a remote cell value into the host value for t.
// Empty and missing cells decode to nil.
func (c Codec) ToHost(t ColumnType, remote interface{}) (interface{}, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	if remote == nil {
		return nil, nil
	}
	if s, ok := remote.(string); ok && s == "" {
		return nil, nil
	}

	var (
		out interface{}
		err error
	)
	switch t {
	case TypeUUID:
		out, err = uuid.Parse(CellString(remote))
	case TypeString:
		out = CellString(remote)
	case TypeInteger:
		out, err = c.integerToHost(remote)
	case TypeFloat:
		out, err = c.floatToHost(remote)
	case TypeDate:
		out, err = c.dateToHost(remote)
	}
	if err != nil {
		return nil, &ConversionError{Type: t, Value: remote, Err: err}
	}
	return out, nil
}

// CellString renders a cell value as the text a spreadsheet search
// compares against.
func CellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case uuid.UUID:
		return val.String()
	case time.Time:
		return val.Format(time.DateOnly)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (c Codec) normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	if c.DecimalSeparator != "" && c.DecimalSeparator != "." {
		s = strings.Replace(s, c.DecimalSeparator, ".", 1)
	}
	return s
}

func (c Codec) integerToHost(remote interface{}) (interface{}, error) {
	switch val := remote.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		return wholeNumber(val)
	case string:
		s := c.normalizeNumber(val)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errNotNumeric
		}
		return wholeNumber(f)
	default:
		return nil, errNotNumeric
	}
}

func (c Codec) floatToHost(remote interface{}) (interface{}, error) {
	switch val := remote.(type) {
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(c.normalizeNumber(val), 64)
		if err != nil {
			return nil, errNotNumeric
		}
		return f, nil
	default:
		return nil, errNotNumeric
	}
}

func (c Codec) dateToHost(remote interface{}) (interface{}, error) {
	serial, err := c.floatToHost(remote)
	if err == nil {
		if !ValidSerial(serial.(float64)) {
			return nil, errNotDate
		}
		// Only the calendar date is kept; date columns carry no time of day.
		return SerialToDate(serial.(float64)), nil
	}
	if s, ok := remote.(string); ok {
		if t, perr := time.Parse(time.DateOnly, strings.TrimSpace(s)); perr == nil {
			return t, nil
		}
	}
	return nil, errNotDate
}

func wholeNumber(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errNotIntegral
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, strconv.ErrRange
	}
	return int64(f), nil
}

func uuidToRemote(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case uuid.UUID:
		return val.String(), nil
	case [16]byte:
		return uuid.UUID(val).String(), nil
	case string:
		id, err := uuid.Parse(val)
		if err != nil {
			return nil, err
		}
		return id.String(), nil
	default:
		return nil, fmt.Errorf("cannot use %T as uuid", v)
	}
}

func stringToRemote(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return CellString(val)
	}
}

func integerToRemote(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, strconv.ErrRange
		}
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, strconv.ErrRange
		}
		return int64(val), nil
	case float64:
		return wholeNumber(val)
	case string:
		return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	default:
		return nil, fmt.Errorf("cannot use %T as integer", v)
	}
}

func floatToRemote(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(val), 64)
	default:
		return nil, fmt.Errorf("cannot use %T as float", v)
	}
}

func dateToRemote(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case time.Time:
		return DateToSerial(val), nil
	case *time.Time:
		if val == nil {
			return "", nil
		}
		return DateToSerial(*val), nil
	case string:
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(val))
		if err != nil {
			return nil, err
		}
		return DateToSerial(t), nil
	default:
		return nil, fmt.Errorf("cannot use %T as date", v)
	}
}
