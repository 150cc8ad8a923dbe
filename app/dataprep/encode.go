// Package dataprep holds column transformations that prepare a loaded table
// for models which only accept numbers.
package dataprep

import (
	"fmt"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// Encoding records how one string column was mapped to integer codes.
// Codes are assigned 0, 1, 2, … in order of first appearance. Missing values
// form their own category at the position they were first seen.
type Encoding struct {
	Column   string
	Classes  []string // Classes[code] is the original value; "" at NullCode
	NullCode int      // code assigned to missing values, -1 if none were seen
	codes    map[string]int
}

// Code returns the code of a value.
func (e *Encoding) Code(value string) (int, bool) {
	code, ok := e.codes[value]
	return code, ok
}

// Decode returns the original value of a code. ok is false for unknown codes
// and for the null category.
func (e *Encoding) Decode(code int) (string, bool) {
	if code < 0 || code >= len(e.Classes) || code == e.NullCode {
		return "", false
	}
	return e.Classes[code], true
}

// LabelEncode replaces the values of a string column by their first-seen
// codes, narrowed to the smallest integer width that holds the number of
// distinct values.
func LabelEncode(col *frame.Column) (*frame.Column, *Encoding, error) {
	if col.Kind() != frame.KindString {
		return nil, nil, fmt.Errorf("label encode %q: expected a string column, got %s", col.Name(), col.DType())
	}
	enc := &Encoding{Column: col.Name(), NullCode: -1, codes: make(map[string]int)}
	out := make([]int64, col.Len())
	for i := range out {
		if col.IsNull(i) {
			if enc.NullCode < 0 {
				enc.NullCode = len(enc.Classes)
				enc.Classes = append(enc.Classes, "")
			}
			out[i] = int64(enc.NullCode)
			continue
		}
		v := col.Str(i)
		code, ok := enc.codes[v]
		if !ok {
			code = len(enc.Classes)
			enc.codes[v] = code
			enc.Classes = append(enc.Classes, v)
		}
		out[i] = int64(code)
	}
	maxCode := int64(max(len(enc.Classes)-1, 0))
	return frame.IntsAs(col.Name(), out, frame.SmallestIntType(0, maxCode)), enc, nil
}

// EncodeStrings label-encodes, in place, every string column of f whose name
// is not in exclude. Names in exclude that are not columns of f are ignored.
// It returns the encodings keyed by column name.
func EncodeStrings(f *frame.Frame, exclude ...string) (map[string]*Encoding, error) {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	encodings := make(map[string]*Encoding)
	for _, name := range f.ColumnsOfKind(frame.KindString) {
		if skip[name] {
			continue
		}
		col, _ := f.Column(name)
		encoded, enc, err := LabelEncode(col)
		if err != nil {
			return encodings, err
		}
		if err := f.Replace(encoded); err != nil {
			return encodings, fmt.Errorf("label encode %q: %w", name, err)
		}
		encodings[name] = enc
	}
	return encodings, nil
}
