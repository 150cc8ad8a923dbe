package dataset

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GongJr0/Car-Price-Perdiction/app/cache"
	"github.com/GongJr0/Car-Price-Perdiction/app/fileloader"
	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
	"github.com/GongJr0/Car-Price-Perdiction/app/settings"
)

const carsCSV = `brand,model,year,doors,price,mileage,engine
a,m1,2015,2,12000,1.5,1000000000000.1
b,m2,2018,4,15500,2.25,2.5
a,m3,2011,4,9000,0.5,3.5
c,m4,2021,2,30000,3.75,4.5
`

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeCars(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.csv")
	require.NoError(t, os.WriteFile(path, []byte(carsCSV), 0o644))
	return path
}

func loadCars(t *testing.T, opts ...Option) *Dataset {
	t.Helper()
	opts = append([]Option{WithOutput(io.Discard), quiet()}, opts...)
	d, err := New(writeCars(t), opts...)
	require.NoError(t, err)
	return d
}

func column(t *testing.T, f *frame.Frame, name string) *frame.Column {
	t.Helper()
	col, ok := f.Column(name)
	require.True(t, ok, "column %q", name)
	return col
}

func TestNew_UnsupportedExtension(t *testing.T) {
	d, err := New("data.xyz", WithOutput(io.Discard), quiet())
	require.Nil(t, d)
	require.ErrorIs(t, err, fileloader.ErrUnsupportedFormat)

	var unsupported *fileloader.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "xyz", unsupported.Extension)
}

func TestNew_UnsupportedExtensionBeforeSettings(t *testing.T) {
	bad := filepath.Join(t.TempDir(), settings.FileName)
	require.NoError(t, os.WriteFile(bad, []byte("preview_rows: [\n"), 0o644))

	d, err := New("data.xyz", WithSettingsFile(bad), WithOutput(io.Discard), quiet())
	require.Nil(t, d)
	require.ErrorIs(t, err, fileloader.ErrUnsupportedFormat)
}

func TestNew_MissingFile(t *testing.T) {
	d, err := New(filepath.Join(t.TempDir(), "missing.csv"), WithOutput(io.Discard), quiet())
	require.Nil(t, d)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_InvalidSettings(t *testing.T) {
	s := settings.Default()
	s.PreviewRows = -1
	_, err := New(writeCars(t), WithSettings(s), WithOutput(io.Discard), quiet())
	require.Error(t, err)
}

func TestNew_LoadsAndDescribes(t *testing.T) {
	d := loadCars(t)
	require.Equal(t, fileloader.FormatCSV, d.Format())
	require.Equal(t, "(4, 7)", d.Shape())
	require.Equal(t, 4, d.Len())
	require.Equal(t, []string{"brand", "model", "year", "doors", "price", "mileage", "engine"}, d.Columns())
	require.NotEmpty(t, d.ID())
	require.False(t, d.IsSplit())
	require.Nil(t, d.Features())
	require.Nil(t, d.Label())
}

func TestNew_IDsAreUnique(t *testing.T) {
	path := writeCars(t)
	a, err := New(path, WithOutput(io.Discard), quiet())
	require.NoError(t, err)
	b, err := New(path, WithOutput(io.Discard), quiet())
	require.NoError(t, err)
	require.NotEqual(t, a.ID(), b.ID())
}

func TestNew_PrintsInfo(t *testing.T) {
	var out bytes.Buffer
	d, err := New(writeCars(t), WithOutput(&out), quiet())
	require.NoError(t, err)
	require.Equal(t, d.Info(), out.String())
	require.Contains(t, out.String(), "Data columns (total 7 columns)")
}

func TestNew_InfoCanBeSilenced(t *testing.T) {
	s := settings.Default()
	s.PrintInfoOnLoad = false
	var out bytes.Buffer
	_, err := New(writeCars(t), WithSettings(s), WithOutput(&out), quiet())
	require.NoError(t, err)
	require.Empty(t, out.String())
}

func TestNew_NarrowsIntegers(t *testing.T) {
	d := loadCars(t)

	year := column(t, d.Data(), "year")
	require.Equal(t, frame.Int16, year.DType())
	require.Equal(t, []int64{2015, 2018, 2011, 2021}, year.Ints())

	doors := column(t, d.Data(), "doors")
	require.Equal(t, frame.Int8, doors.DType())
	require.Equal(t, []int64{2, 4, 4, 2}, doors.Ints())

	price := column(t, d.Data(), "price")
	require.Equal(t, frame.Int16, price.DType())
	require.Equal(t, []int64{12000, 15500, 9000, 30000}, price.Ints())
}

func TestNew_NarrowsFloats(t *testing.T) {
	d := loadCars(t)

	mileage := column(t, d.Data(), "mileage")
	require.Equal(t, frame.Float32, mileage.DType())
	require.Equal(t, []float64{1.5, 2.25, 0.5, 3.75}, mileage.Floats())

	// float32 cannot hold the first value within tolerance
	engine := column(t, d.Data(), "engine")
	require.Equal(t, frame.Float64, engine.DType())
	require.Equal(t, 1000000000000.1, engine.Float(0))
}

func TestOptimize_Idempotent(t *testing.T) {
	d := loadCars(t)
	before := d.Data().Clone()
	d.OptimizeInt()
	d.OptimizeFloat()
	for _, name := range d.Columns() {
		require.True(t, column(t, before, name).Equal(column(t, d.Data(), name)), name)
	}
}

func TestEncodeStr(t *testing.T) {
	d := loadCars(t)
	require.NoError(t, d.EncodeStr("model"))

	brand := column(t, d.Data(), "brand")
	require.Equal(t, frame.KindInteger, brand.Kind())
	require.Equal(t, frame.Int8, brand.DType())
	require.Equal(t, []int64{0, 1, 0, 2}, brand.Ints())

	model := column(t, d.Data(), "model")
	require.Equal(t, frame.KindString, model.Kind())
	require.Equal(t, "m3", model.Str(2))

	enc, ok := d.Encodings()["brand"]
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, enc.Classes)
	_, ok = d.Encodings()["model"]
	require.False(t, ok)
}

func TestEncodeStr_KeepsEarlierEncodings(t *testing.T) {
	d := loadCars(t)
	require.NoError(t, d.EncodeStr("model"))
	require.NoError(t, d.EncodeStr())
	require.Contains(t, d.Encodings(), "brand")
	require.Contains(t, d.Encodings(), "model")
	require.Empty(t, d.Data().ColumnsOfKind(frame.KindString))
}

func TestSplitData_LabelInDrop(t *testing.T) {
	d := loadCars(t)
	err := d.SplitData("price", []string{"model", "price"})
	require.ErrorIs(t, err, ErrInvalidSplit)

	var invalid *InvalidSplitError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "price", invalid.Label)
	require.False(t, d.IsSplit())
}

func TestSplitData_MissingColumns(t *testing.T) {
	d := loadCars(t)
	require.ErrorIs(t, d.SplitData("price", []string{"colour"}), frame.ErrColumnNotFound)
	require.ErrorIs(t, d.SplitData("colour", nil), frame.ErrColumnNotFound)
	require.False(t, d.IsSplit())
}

func TestSplitData(t *testing.T) {
	d := loadCars(t)
	require.NoError(t, d.SplitData("price", []string{"model", "engine"}))
	require.True(t, d.IsSplit())

	require.Equal(t, []string{"brand", "doors", "mileage", "year"}, d.Features().Names())
	require.Equal(t, 4, d.Features().NumRows())
	require.Equal(t, "price", d.Label().Name())
	require.True(t, d.Label().Equal(column(t, d.Data(), "price")))

	// the table itself is untouched
	require.Equal(t, "(4, 7)", d.Shape())
}

func TestSplitData_CopiesAreIndependent(t *testing.T) {
	d := loadCars(t)
	require.NoError(t, d.SplitData("price", nil))
	require.NoError(t, d.EncodeStr())

	brand := column(t, d.Features(), "brand")
	require.Equal(t, frame.KindString, brand.Kind())
}

func TestSplitData_Overwrites(t *testing.T) {
	d := loadCars(t)
	require.NoError(t, d.SplitData("price", nil))
	require.NoError(t, d.SplitData("year", []string{"brand", "model"}))
	require.Equal(t, "year", d.Label().Name())
	require.Equal(t, []string{"doors", "engine", "mileage", "price"}, d.Features().Names())
}

func TestSplitData_ErrorKeepsPreviousSplit(t *testing.T) {
	d := loadCars(t)
	require.NoError(t, d.SplitData("price", []string{"model"}))
	features, label := d.Features(), d.Label()

	require.Error(t, d.SplitData("year", []string{"year"}))
	require.Error(t, d.SplitData("year", []string{"colour"}))
	require.Same(t, features, d.Features())
	require.Same(t, label, d.Label())
}

func TestSplitData_OnlyLabel(t *testing.T) {
	d := loadCars(t)
	drop := []string{"brand", "model", "year", "doors", "mileage", "engine"}
	require.NoError(t, d.SplitData("price", drop))
	require.Equal(t, 0, d.Features().NumCols())
	require.Equal(t, 4, d.Features().NumRows())
}

func TestReports(t *testing.T) {
	s := settings.Default()
	s.PreviewRows = 2
	d := loadCars(t, WithSettings(s))

	require.Contains(t, d.Head(), "m2")
	require.NotContains(t, d.Head(), "m3")
	require.Contains(t, d.Tail(), "m4")
	require.NotContains(t, d.Tail(), "m1")
	require.Contains(t, d.Describe(), "mean")
	require.Contains(t, d.String(), "m1")
}

func TestNew_UsesCache(t *testing.T) {
	s := settings.Default()
	s.EnableLoadCache = true
	tc := NewLoadCache(s, nil)
	path := writeCars(t)

	first, err := New(path, WithSettings(s), WithCache(tc), WithOutput(io.Discard), quiet())
	require.NoError(t, err)
	second, err := New(path, WithSettings(s), WithCache(tc), WithOutput(io.Discard), quiet())
	require.NoError(t, err)

	stats := tc.Stats()
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(1), stats.Misses)
	require.Equal(t, 1, stats.Entries)
	require.Equal(t, first.Shape(), second.Shape())
	require.Equal(t, frame.Int16, column(t, second.Data(), "price").DType())

	// datasets do not share a table
	require.NoError(t, first.EncodeStr())
	require.Equal(t, frame.KindString, column(t, second.Data(), "brand").Kind())
}

func TestNew_SettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), settings.FileName)
	require.NoError(t, os.WriteFile(path, []byte("preview_rows: 1\nprint_info_on_load: false\n"), 0o644))

	var out bytes.Buffer
	d, err := New(writeCars(t), WithSettingsFile(path), WithOutput(&out), quiet())
	require.NoError(t, err)
	require.Empty(t, out.String())
	require.Contains(t, d.Head(), "m1")
	require.NotContains(t, d.Head(), "m2")
}

func TestNew_CacheOffByDefault(t *testing.T) {
	tc := cache.NewTableCache(0)
	_, err := New(writeCars(t), WithCache(tc), WithOutput(io.Discard), quiet())
	require.NoError(t, err)
	require.Equal(t, cache.Stats{MaxSize: cache.DefaultMaxSize}, tc.Stats())
}

func TestCacheKey_SkipsClipboard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clipboard")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	tc := cache.NewTableCache(0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	d := &Dataset{path: path, format: fileloader.FormatClipboard, logger: logger}
	require.Empty(t, d.cacheKey(tc))

	d.format = fileloader.FormatCSV
	require.NotEmpty(t, d.cacheKey(tc))
	require.Empty(t, d.cacheKey(nil))
}
