package fileloader

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// Stata dta 115 variable type codes; 1-244 are fixed-width strings.
const (
	dtaByte   byte = 251
	dtaInt    byte = 252
	dtaDouble byte = 255
)

// dtaFixed pads s with NULs to width bytes.
func dtaFixed(s string, width int) []byte {
	b := make([]byte, width)
	copy(b, s)
	return b
}

// buildDTA encodes a little-endian Stata 115 file. String cells take the
// width of their type code; numeric cells must be int8, int16 or float64.
func buildDTA(t *testing.T, names []string, types []byte, rows [][]any) []byte {
	t.Helper()
	var b bytes.Buffer
	n := len(names)
	b.Write([]byte{115, 2, 1, 0})
	require.NoError(t, binary.Write(&b, binary.LittleEndian, int16(n)))
	require.NoError(t, binary.Write(&b, binary.LittleEndian, int32(len(rows))))
	b.Write(make([]byte, 81+18)) // data label, timestamp
	b.Write(types)
	for _, name := range names {
		b.Write(dtaFixed(name, 33))
	}
	b.Write(make([]byte, 2*(n+1))) // sort list
	for range names {
		b.Write(dtaFixed("%9.0g", 49))
	}
	b.Write(make([]byte, (33+81)*n)) // value label names, variable labels
	b.Write(make([]byte, 5))         // end of expansion fields

	for _, row := range rows {
		for j, cell := range row {
			if s, ok := cell.(string); ok {
				b.Write(dtaFixed(s, int(types[j])))
				continue
			}
			require.NoError(t, binary.Write(&b, binary.LittleEndian, cell))
		}
	}
	return b.Bytes()
}

func TestReadStata(t *testing.T) {
	stataMissing := math.Ldexp(1, 1023)
	data := buildDTA(t,
		[]string{"make", "year", "price", "doors", ""},
		[]byte{8, dtaInt, dtaDouble, dtaByte, dtaByte},
		[][]any{
			{"bmw", int16(2019), 31000.5, int8(4), int8(1)},
			{"audi", int16(2021), stataMissing, int8(2), int8(0)},
		})
	path := writeFile(t, "cars.stata", data)

	f, format, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, FormatStata, format)
	require.Equal(t, []string{"make", "year", "price", "doors", "Unnamed_A"}, f.Names())
	require.Equal(t, 2, f.NumRows())

	mk, _ := f.Column("make")
	require.Equal(t, "audi", mk.Str(1))
	year, _ := f.Column("year")
	require.Equal(t, frame.Int16, year.DType())
	require.Equal(t, []int64{2019, 2021}, year.Ints())
	price, _ := f.Column("price")
	require.Equal(t, 31000.5, price.Float(0))
	require.True(t, price.IsNull(1))
	doors, _ := f.Column("doors")
	require.Equal(t, frame.Int8, doors.DType())
	require.Equal(t, []int64{4, 2}, doors.Ints())
}

func TestReadStata_NoRows(t *testing.T) {
	data := buildDTA(t, []string{"make", "year"}, []byte{8, dtaInt}, nil)
	path := writeFile(t, "empty.stata", data)

	f, err := ReadStata(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"make", "year"}, f.Names())
	require.Equal(t, 0, f.NumRows())
}

func TestReadStata_NotStata(t *testing.T) {
	path := writeFile(t, "cars.stata", []byte("make,year\n"))
	_, err := ReadStata(context.Background(), path)
	require.Error(t, err)
}

// testdata/generated.sas is a sas7bdat file of 10 rows and 100 columns
// cycling through float, string and two integer-valued columns.
func TestReadSAS(t *testing.T) {
	f, format, err := Load(context.Background(), filepath.Join("testdata", "generated.sas"))
	require.NoError(t, err)
	require.Equal(t, FormatSAS, format)

	rows, cols := f.Shape()
	require.Equal(t, 10, rows)
	require.Equal(t, 100, cols)
	require.Equal(t, "Column1", f.Names()[0])
	require.Equal(t, "Column100", f.Names()[99])

	c1, _ := f.Column("Column1")
	require.InDelta(t, 0.636, c1.Float(0), 1e-9)
	c2, _ := f.Column("Column2")
	require.Equal(t, frame.String, c2.DType())
	require.Equal(t, "pear", c2.Str(0))
	require.Equal(t, "dog", c2.Str(1))
	c4, _ := f.Column("Column4")
	require.Equal(t, 2170.0, c4.Float(0))
	c8, _ := f.Column("Column8")
	require.True(t, c8.IsNull(0))
	require.Equal(t, 339.0, c8.Float(1))
}

func TestReadSAS_NotSAS(t *testing.T) {
	path := writeFile(t, "cars.sas", bytes.Repeat([]byte{0}, 1024))
	_, err := ReadSAS(context.Background(), path)
	require.Error(t, err)
}
