package arrowutils

import (
	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/werror"
)

// RequiredUint16 returns the uint16 cell at row for the named column.
// Absent columns surface ColumnNotFoundError; a type surprise surfaces
// ColumnTypeMismatchError.
func RequiredUint16(src FieldSource, name string, row int) (uint16, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, werror.Wrap(errNotFound(name))
	}
	return uint16FromArray(arr, name, row)
}

// OptionalUint16 behaves like RequiredUint16 but returns (0, false, nil)
// when the column is missing.
func OptionalUint16(src FieldSource, name string, row int) (uint16, bool, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, false, nil
	}
	v, err := uint16FromArray(arr, name, row)
	if err != nil {
		return 0, false, err
	}
	return v, !arr.IsNull(row), nil
}

func uint16FromArray(arr arrow.Array, name string, row int) (uint16, error) {
	if dict, ok := arr.(*array.Dictionary); ok {
		vidx, present := dictValueIndex(dict, row)
		if !present {
			return 0, nil
		}
		switch values := dict.Dictionary().(type) {
		case *array.Uint16:
			return values.Value(vidx), nil
		default:
			return 0, werror.Wrap(errTypeMismatch(name, "uint16", dict.Dictionary().DataType()))
		}
	}
	switch a := arr.(type) {
	case *array.Uint16:
		if a.IsNull(row) {
			return 0, nil
		}
		return a.Value(row), nil
	default:
		return 0, werror.Wrap(errTypeMismatch(name, "uint16", arr.DataType()))
	}
}

// RequiredUint32 returns the uint32 cell at row for the named column.
func RequiredUint32(src FieldSource, name string, row int) (uint32, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, werror.Wrap(errNotFound(name))
	}
	return uint32FromArray(arr, name, row)
}

// OptionalUint32 behaves like RequiredUint32 but tolerates a missing column.
func OptionalUint32(src FieldSource, name string, row int) (uint32, bool, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, false, nil
	}
	v, err := uint32FromArray(arr, name, row)
	if err != nil {
		return 0, false, err
	}
	return v, !arr.IsNull(row), nil
}

func uint32FromArray(arr arrow.Array, name string, row int) (uint32, error) {
	if dict, ok := arr.(*array.Dictionary); ok {
		vidx, present := dictValueIndex(dict, row)
		if !present {
			return 0, nil
		}
		switch values := dict.Dictionary().(type) {
		case *array.Uint32:
			return values.Value(vidx), nil
		default:
			return 0, werror.Wrap(errTypeMismatch(name, "uint32", dict.Dictionary().DataType()))
		}
	}
	switch a := arr.(type) {
	case *array.Uint32:
		if a.IsNull(row) {
			return 0, nil
		}
		return a.Value(row), nil
	default:
		return 0, werror.Wrap(errTypeMismatch(name, "uint32", arr.DataType()))
	}
}

// RequiredUint8 returns the uint8 cell at row for the named column.
func RequiredUint8(src FieldSource, name string, row int) (uint8, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, werror.Wrap(errNotFound(name))
	}
	switch a := arr.(type) {
	case *array.Uint8:
		if a.IsNull(row) {
			return 0, nil
		}
		return a.Value(row), nil
	default:
		return 0, werror.Wrap(errTypeMismatch(name, "uint8", arr.DataType()))
	}
}

// RequiredInt32 returns the int32 cell at row for the named column.
func RequiredInt32(src FieldSource, name string, row int) (int32, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, werror.Wrap(errNotFound(name))
	}
	switch a := arr.(type) {
	case *array.Int32:
		if a.IsNull(row) {
			return 0, nil
		}
		return a.Value(row), nil
	default:
		return 0, werror.Wrap(errTypeMismatch(name, "int32", arr.DataType()))
	}
}

// RequiredInt64 returns the int64 cell at row for the named column.
func RequiredInt64(src FieldSource, name string, row int) (int64, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, werror.Wrap(errNotFound(name))
	}
	return int64FromArray(arr, name, row)
}

// OptionalInt64 returns the int64 cell along with a presence flag; a column
// that is missing entirely is treated as always-absent (0, false, nil).
func OptionalInt64(src FieldSource, name string, row int) (int64, bool, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, false, nil
	}
	v, err := int64FromArray(arr, name, row)
	if err != nil {
		return 0, false, err
	}
	return v, !arr.IsNull(row), nil
}

func int64FromArray(arr arrow.Array, name string, row int) (int64, error) {
	switch a := arr.(type) {
	case *array.Int64:
		if a.IsNull(row) {
			return 0, nil
		}
		return a.Value(row), nil
	default:
		return 0, werror.Wrap(errTypeMismatch(name, "int64", arr.DataType()))
	}
}

// RequiredFloat64 returns the float64 cell at row for the named column.
func RequiredFloat64(src FieldSource, name string, row int) (float64, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, werror.Wrap(errNotFound(name))
	}
	return float64FromArray(arr, name, row)
}

// OptionalFloat64 returns the float64 cell, along with a presence flag.
func OptionalFloat64(src FieldSource, name string, row int) (float64, bool, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, false, nil
	}
	v, err := float64FromArray(arr, name, row)
	if err != nil {
		return 0, false, err
	}
	return v, !arr.IsNull(row), nil
}

func float64FromArray(arr arrow.Array, name string, row int) (float64, error) {
	switch a := arr.(type) {
	case *array.Float64:
		if a.IsNull(row) {
			return 0, nil
		}
		return a.Value(row), nil
	default:
		return 0, werror.Wrap(errTypeMismatch(name, "float64", arr.DataType()))
	}
}

// RequiredBool returns the bool cell at row for the named column.
func RequiredBool(src FieldSource, name string, row int) (bool, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return false, werror.Wrap(errNotFound(name))
	}
	switch a := arr.(type) {
	case *array.Boolean:
		if a.IsNull(row) {
			return false, nil
		}
		return a.Value(row), nil
	default:
		return false, werror.Wrap(errTypeMismatch(name, "bool", arr.DataType()))
	}
}

// RequiredString returns the string cell at row for the named column,
// transparently resolving dictionary-encoded string columns.
func RequiredString(src FieldSource, name string, row int) (string, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return "", werror.Wrap(errNotFound(name))
	}
	return stringFromArray(arr, name, row)
}

// OptionalString returns the string cell without failing when the column
// is absent.
func OptionalString(src FieldSource, name string, row int) (string, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return "", nil
	}
	return stringFromArray(arr, name, row)
}

func stringFromArray(arr arrow.Array, name string, row int) (string, error) {
	if dict, ok := arr.(*array.Dictionary); ok {
		vidx, present := dictValueIndex(dict, row)
		if !present {
			return "", nil
		}
		switch values := dict.Dictionary().(type) {
		case *array.String:
			return values.Value(vidx), nil
		case *array.Binary:
			return string(values.Value(vidx)), nil
		default:
			return "", werror.Wrap(errTypeMismatch(name, "string", dict.Dictionary().DataType()))
		}
	}
	switch a := arr.(type) {
	case *array.String:
		if a.IsNull(row) {
			return "", nil
		}
		return a.Value(row), nil
	case *array.LargeString:
		if a.IsNull(row) {
			return "", nil
		}
		return a.Value(row), nil
	default:
		return "", werror.Wrap(errTypeMismatch(name, "string", arr.DataType()))
	}
}

// RequiredBinary returns the byte-slice cell at row for the named column.
func RequiredBinary(src FieldSource, name string, row int) ([]byte, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return nil, werror.Wrap(errNotFound(name))
	}
	return binaryFromArray(arr, name, row)
}

// OptionalBinary tolerates a missing column, returning nil bytes.
func OptionalBinary(src FieldSource, name string, row int) ([]byte, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return nil, nil
	}
	return binaryFromArray(arr, name, row)
}

func binaryFromArray(arr arrow.Array, name string, row int) ([]byte, error) {
	if dict, ok := arr.(*array.Dictionary); ok {
		vidx, present := dictValueIndex(dict, row)
		if !present {
			return nil, nil
		}
		switch values := dict.Dictionary().(type) {
		case *array.Binary:
			return copyBytes(values.Value(vidx)), nil
		default:
			return nil, werror.Wrap(errTypeMismatch(name, "binary", dict.Dictionary().DataType()))
		}
	}
	switch a := arr.(type) {
	case *array.Binary:
		if a.IsNull(row) {
			return nil, nil
		}
		return copyBytes(a.Value(row)), nil
	case *array.FixedSizeBinary:
		if a.IsNull(row) {
			return nil, nil
		}
		return copyBytes(a.Value(row)), nil
	default:
		return nil, werror.Wrap(errTypeMismatch(name, "binary", arr.DataType()))
	}
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// RequiredTimestamp returns the nanosecond timestamp cell at row as a
// uint64, which is how both time_unix_nano and start_time_unix_nano are
// surfaced on the OTLP side.
func RequiredTimestamp(src FieldSource, name string, row int) (uint64, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return 0, werror.Wrap(errNotFound(name))
	}
	switch a := arr.(type) {
	case *array.Timestamp:
		if a.IsNull(row) {
			return 0, nil
		}
		return uint64(a.Value(row)), nil
	default:
		return 0, werror.Wrap(errTypeMismatch(name, "timestamp", arr.DataType()))
	}
}

// RequiredStruct returns a FieldSource over the named struct column, or nil
// when the row's struct value is null. Absence of the column itself is an
// error.
func RequiredStruct(src FieldSource, name string, row int) (FieldSource, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return nil, werror.Wrap(errNotFound(name))
	}
	s, ok := arr.(*array.Struct)
	if !ok {
		return nil, werror.Wrap(errTypeMismatch(name, "struct", arr.DataType()))
	}
	if s.IsNull(row) {
		return nil, nil
	}
	return StructSource(s), nil
}

// ListRange describes the half-open row range [Start, End) that a list
// cell occupies inside its flattened child array.
type ListRange struct {
	Start, End int
	Values     arrow.Array
}

// RequiredList returns the list range at row for the named column.
func RequiredList(src FieldSource, name string, row int) (*ListRange, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return nil, werror.Wrap(errNotFound(name))
	}
	l, ok := arr.(*array.List)
	if !ok {
		return nil, werror.Wrap(errTypeMismatch(name, "list", arr.DataType()))
	}
	if l.IsNull(row) {
		return nil, nil
	}
	offsets := l.Offsets()
	return &ListRange{
		Start:  int(offsets[row]),
		End:    int(offsets[row+1]),
		Values: l.ListValues(),
	}, nil
}

// RequiredSparseUnion returns the sparse-union array for the named column,
// or nil if the row's value is null.
func RequiredSparseUnion(src FieldSource, name string, row int) (*array.SparseUnion, error) {
	_, arr, ok := resolve(src, name)
	if !ok {
		return nil, werror.Wrap(errNotFound(name))
	}
	u, ok := arr.(*array.SparseUnion)
	if !ok {
		return nil, werror.Wrap(errTypeMismatch(name, "sparse_union", arr.DataType()))
	}
	if u.IsNull(row) {
		return nil, nil
	}
	return u, nil
}
