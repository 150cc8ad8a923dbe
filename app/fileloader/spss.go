package fileloader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// SPSS system file (.sav) reading.
//
// Supported: uncompressed and bytecode-compressed data in either byte order,
// long variable names, value labels and discrete or range user-missing
// values. System-missing and user-missing numbers load as NaN. Numeric
// variables with value labels load as their labels. zlib-compressed files
// ($FL3) are not supported.

const (
	savHeaderSize = 176

	savRecVariable    = 2
	savRecValueLabels = 3
	savRecLabelVars   = 4
	savRecDocument    = 6
	savRecExtension   = 7
	savRecEnd         = 999

	savExtFloatInfo = 4
	savExtLongNames = 13

	savCompressNone     = 0
	savCompressBytecode = 1

	savCodePadding = 0
	savCodeEOF     = 252
	savCodeRaw     = 253
	savCodeSpaces  = 254
	savCodeSysmis  = 255
)

var errZlibSAV = errors.New("zlib compressed SPSS files are not supported")

type savVariable struct {
	name     string
	width    int // 0 for numeric
	segments int // 8-byte slots occupied in a case
	missing  []float64
	lo, hi   float64
	hasRange bool
	labels   map[float64]string
}

func (v *savVariable) isMissing(x float64) bool {
	if v.hasRange && x >= v.lo && x <= v.hi {
		return true
	}
	for _, m := range v.missing {
		if x == m {
			return true
		}
	}
	return false
}

type savReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (s *savReader) bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(s.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *savReader) int32() (int32, error) {
	if _, err := io.ReadFull(s.r, s.buf[:4]); err != nil {
		return 0, unexpected(err)
	}
	return int32(s.order.Uint32(s.buf[:4])), nil
}

func (s *savReader) float64() (float64, error) {
	if _, err := io.ReadFull(s.r, s.buf[:8]); err != nil {
		return 0, unexpected(err)
	}
	return math.Float64frombits(s.order.Uint64(s.buf[:8])), nil
}

func (s *savReader) skip(n int) error {
	_, err := io.CopyN(io.Discard, s.r, int64(n))
	return unexpected(err)
}

// unexpected turns a clean EOF inside the dictionary into an error.
func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// ReadSPSS reads an SPSS .sav system file.
func ReadSPSS(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseSAV(ctx, bufio.NewReader(file))
}

func parseSAV(ctx context.Context, r io.Reader) (*frame.Frame, error) {
	header := make([]byte, savHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read SPSS header: %w", err)
	}
	switch string(header[:4]) {
	case "$FL2":
	case "$FL3":
		return nil, errZlibSAV
	default:
		return nil, fmt.Errorf("not an SPSS system file (magic %q)", header[:4])
	}

	var order binary.ByteOrder = binary.LittleEndian
	if layout := order.Uint32(header[64:68]); layout != 2 && layout != 3 {
		order = binary.BigEndian
	}
	compression := int32(order.Uint32(header[72:76]))
	ncases := int32(order.Uint32(header[80:84]))
	bias := math.Float64frombits(order.Uint64(header[84:92]))

	switch compression {
	case savCompressNone, savCompressBytecode:
	case 2:
		return nil, errZlibSAV
	default:
		return nil, fmt.Errorf("unknown SPSS compression %d", compression)
	}

	s := &savReader{r: r, order: order}
	vars, sysmis, err := readSAVDictionary(s)
	if err != nil {
		return nil, err
	}

	var next func() ([]byte, error)
	if compression == savCompressBytecode {
		next = newSAVDecompressor(s, bias, sysmis).next
	} else {
		next = func() ([]byte, error) { return s.bytes(8) }
	}

	columns := make([][]any, len(vars))
	for j := range columns {
		columns[j] = []any{}
	}
	for row := 0; ncases < 0 || row < int(ncases); row++ {
		if row%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		values, err := readSAVCase(vars, next, order, sysmis)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", row+1, err)
		}
		for j, v := range values {
			columns[j] = append(columns[j], v)
		}
	}

	names := make([]string, len(vars))
	for j, v := range vars {
		names[j] = v.name
	}
	return frameFromValues(names, columns)
}

// readSAVDictionary reads every record up to the dictionary terminator and
// returns the variables in file order and the system-missing value.
func readSAVDictionary(s *savReader) ([]*savVariable, float64, error) {
	var vars []*savVariable
	// slots maps each 8-byte case slot to the variable that owns it
	var slots []*savVariable
	var longNames map[string]string
	sysmis := -math.MaxFloat64

	for {
		recType, err := s.int32()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read record type: %w", err)
		}
		switch recType {
		case savRecVariable:
			v, err := readSAVVariable(s)
			if err != nil {
				return nil, 0, err
			}
			if v == nil {
				if len(slots) == 0 {
					return nil, 0, fmt.Errorf("string continuation without a variable")
				}
				owner := slots[len(slots)-1]
				owner.segments++
				slots = append(slots, owner)
				continue
			}
			vars = append(vars, v)
			slots = append(slots, v)

		case savRecValueLabels:
			labels, err := readSAVValueLabels(s)
			if err != nil {
				return nil, 0, err
			}
			rt, err := s.int32()
			if err != nil {
				return nil, 0, err
			}
			if rt != savRecLabelVars {
				return nil, 0, fmt.Errorf("value labels not followed by variable list (record %d)", rt)
			}
			count, err := s.int32()
			if err != nil {
				return nil, 0, err
			}
			for range count {
				idx, err := s.int32()
				if err != nil {
					return nil, 0, err
				}
				if idx < 1 || int(idx) > len(slots) {
					return nil, 0, fmt.Errorf("value label variable index %d out of range", idx)
				}
				slots[idx-1].labels = labels
			}

		case savRecDocument:
			lines, err := s.int32()
			if err != nil {
				return nil, 0, err
			}
			if err := s.skip(int(lines) * 80); err != nil {
				return nil, 0, err
			}

		case savRecExtension:
			subtype, err := s.int32()
			if err != nil {
				return nil, 0, err
			}
			size, err := s.int32()
			if err != nil {
				return nil, 0, err
			}
			count, err := s.int32()
			if err != nil {
				return nil, 0, err
			}
			data, err := s.bytes(int(size) * int(count))
			if err != nil {
				return nil, 0, unexpected(err)
			}
			switch subtype {
			case savExtFloatInfo:
				if len(data) >= 8 {
					sysmis = math.Float64frombits(s.order.Uint64(data[:8]))
				}
			case savExtLongNames:
				longNames = parseSAVLongNames(data)
			}

		case savRecEnd:
			if _, err := s.int32(); err != nil {
				return nil, 0, err
			}
			for _, v := range vars {
				if long, ok := longNames[v.name]; ok {
					v.name = long
				}
			}
			return vars, sysmis, nil

		default:
			return nil, 0, fmt.Errorf("unknown SPSS record type %d", recType)
		}
	}
}

// readSAVVariable reads a variable record. It returns nil for the
// continuation records that extend a long string variable.
func readSAVVariable(s *savReader) (*savVariable, error) {
	var fields [5]int32
	for i := range fields {
		f, err := s.int32()
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	typ, hasLabel, nMissing := fields[0], fields[1], fields[2]
	name, err := s.bytes(8)
	if err != nil {
		return nil, unexpected(err)
	}

	if hasLabel == 1 {
		n, err := s.int32()
		if err != nil {
			return nil, err
		}
		if err := s.skip((int(n) + 3) / 4 * 4); err != nil {
			return nil, err
		}
	}

	v := &savVariable{
		name:     strings.TrimRight(string(name), " "),
		width:    int(max(typ, 0)),
		segments: 1,
	}
	count := int(nMissing)
	if count < 0 {
		count = -count
	}
	values := make([]float64, count)
	for i := range values {
		if values[i], err = s.float64(); err != nil {
			return nil, err
		}
	}

	if typ < 0 {
		return nil, nil
	}
	if typ == 0 {
		if nMissing < 0 && len(values) >= 2 {
			v.lo, v.hi, v.hasRange = values[0], values[1], true
			values = values[2:]
		}
		v.missing = values
	}
	return v, nil
}

func readSAVValueLabels(s *savReader) (map[float64]string, error) {
	count, err := s.int32()
	if err != nil {
		return nil, err
	}
	labels := make(map[float64]string, count)
	for range count {
		value, err := s.float64()
		if err != nil {
			return nil, err
		}
		lenByte, err := s.bytes(1)
		if err != nil {
			return nil, unexpected(err)
		}
		// label length byte plus label text is padded to a multiple of 8
		n := int(lenByte[0])
		padded := (n+1+7)/8*8 - 1
		text, err := s.bytes(padded)
		if err != nil {
			return nil, unexpected(err)
		}
		labels[value] = strings.TrimRight(string(text[:n]), " ")
	}
	return labels, nil
}

// parseSAVLongNames parses "SHORT=Long Name\tOTHER=Other" pairs.
func parseSAVLongNames(data []byte) map[string]string {
	names := make(map[string]string)
	for _, pair := range strings.Split(string(data), "\t") {
		short, long, ok := strings.Cut(pair, "=")
		if ok && short != "" {
			names[short] = long
		}
	}
	return names
}

// readSAVCase reads one case. io.EOF is only returned at a case boundary.
func readSAVCase(vars []*savVariable, next func() ([]byte, error), order binary.ByteOrder, sysmis float64) ([]any, error) {
	values := make([]any, len(vars))
	for j, v := range vars {
		if v.width == 0 {
			raw, err := next()
			if err != nil {
				if j > 0 {
					err = unexpected(err)
				}
				return nil, err
			}
			x := math.Float64frombits(order.Uint64(raw))
			switch {
			case x == sysmis || v.isMissing(x):
				values[j] = nil
			case v.labels != nil:
				if label, ok := v.labels[x]; ok {
					values[j] = label
				} else {
					values[j] = strconv.FormatFloat(x, 'g', -1, 64)
				}
			default:
				values[j] = x
			}
			continue
		}

		var sb bytes.Buffer
		for seg := 0; seg < v.segments; seg++ {
			raw, err := next()
			if err != nil {
				if j > 0 || seg > 0 {
					err = unexpected(err)
				}
				return nil, err
			}
			sb.Write(raw)
		}
		text := sb.Bytes()
		if len(text) > v.width {
			text = text[:v.width]
		}
		values[j] = strings.TrimRight(string(text), " ")
	}
	return values, nil
}

// savDecompressor expands bytecode-compressed case data into 8-byte slots.
type savDecompressor struct {
	s      *savReader
	bias   float64
	sysmis float64
	codes  []byte
	pos    int
	done   bool
}

func newSAVDecompressor(s *savReader, bias, sysmis float64) *savDecompressor {
	return &savDecompressor{s: s, bias: bias, sysmis: sysmis}
}

func (d *savDecompressor) next() ([]byte, error) {
	for {
		if d.done {
			return nil, io.EOF
		}
		if d.pos == len(d.codes) {
			codes, err := d.s.bytes(8)
			if err != nil {
				return nil, err
			}
			d.codes, d.pos = codes, 0
		}
		code := d.codes[d.pos]
		d.pos++

		switch code {
		case savCodePadding:
			continue
		case savCodeEOF:
			d.done = true
			return nil, io.EOF
		case savCodeRaw:
			raw, err := d.s.bytes(8)
			if err != nil {
				return nil, unexpected(err)
			}
			return raw, nil
		case savCodeSpaces:
			return []byte("        "), nil
		case savCodeSysmis:
			return d.encode(d.sysmis), nil
		default:
			return d.encode(float64(code) - d.bias), nil
		}
	}
}

func (d *savDecompressor) encode(x float64) []byte {
	raw := make([]byte, 8)
	d.s.order.PutUint64(raw, math.Float64bits(x))
	return raw
}
