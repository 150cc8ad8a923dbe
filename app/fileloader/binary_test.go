package fileloader

import (
	"context"
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

func TestReadXLSX_FirstSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.xlsx")
	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]any{"make", "year", "price"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]any{"bmw", 2019, 31000.5}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A3", &[]any{"audi", 2021}))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	f, format, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, FormatXLSX, format)
	require.Equal(t, []string{"make", "year", "price"}, f.Names())

	year, _ := f.Column("year")
	require.Equal(t, []int64{2019, 2021}, year.Ints())
	price, _ := f.Column("price")
	require.Equal(t, 31000.5, price.Float(0))
	require.True(t, price.IsNull(1))
}

func carsRecord(t *testing.T, ids []int64, names []string, valid []bool) arrow.Record {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "price", Type: arrow.PrimitiveTypes.Float32},
		{Name: "make", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	prices := make([]float32, len(ids))
	for i, id := range ids {
		prices[i] = float32(id) * 1.5
	}
	b.Field(0).(*array.Int64Builder).AppendValues(ids, nil)
	b.Field(1).(*array.Float32Builder).AppendValues(prices, nil)
	b.Field(2).(*array.StringBuilder).AppendValues(names, valid)
	return b.NewRecord()
}

func writeParquet(t *testing.T, path string, rec arrow.Record) {
	t.Helper()
	tbl := array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec})
	defer tbl.Release()

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, pqarrow.WriteTable(tbl, file, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
}

func TestReadParquet_File(t *testing.T) {
	rec := carsRecord(t, []int64{1, 2, 3}, []string{"bmw", "", "vw"}, []bool{true, false, true})
	defer rec.Release()
	path := filepath.Join(t.TempDir(), "cars.parquet")
	writeParquet(t, path, rec)

	f, err := ReadParquet(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "price", "make"}, f.Names())

	id, _ := f.Column("id")
	require.Equal(t, []int64{1, 2, 3}, id.Ints())
	price, _ := f.Column("price")
	require.Equal(t, frame.Float32, price.DType())
	require.Equal(t, 4.5, price.Float(2))
	mk, _ := f.Column("make")
	require.True(t, mk.IsNull(1))
	require.Equal(t, "vw", mk.Str(2))
}

func TestReadParquet_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cars.parquet")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "year=2020"), 0755))

	first := carsRecord(t, []int64{1, 2}, []string{"a", "b"}, nil)
	defer first.Release()
	second := carsRecord(t, []int64{3}, []string{"c"}, nil)
	defer second.Release()
	writeParquet(t, filepath.Join(dir, "part-0.parquet"), first)
	writeParquet(t, filepath.Join(dir, "year=2020", "part-1.parquet"), second)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_SUCCESS"), nil, 0644))

	f, format, err := Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, FormatParquet, format)

	id, _ := f.Column("id")
	require.Equal(t, []int64{1, 2, 3}, id.Ints())
}

func TestReadParquet_DirectoryKeepsSchemaDtypes(t *testing.T) {
	dir := t.TempDir()
	first := carsRecord(t, []int64{1, 2}, []string{"a", "b"}, nil)
	defer first.Release()
	second := carsRecord(t, []int64{3}, []string{""}, []bool{false})
	defer second.Release()
	writeParquet(t, filepath.Join(dir, "part-0.parquet"), first)
	writeParquet(t, filepath.Join(dir, "part-1.parquet"), second)

	f, err := ReadParquet(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 3, f.NumRows())

	mk, _ := f.Column("make")
	require.Equal(t, frame.String, mk.DType())
	require.Equal(t, "b", mk.Str(1))
	require.True(t, mk.IsNull(2))
	id, _ := f.Column("id")
	require.Equal(t, frame.Int64, id.DType())
}

func TestReadParquet_DirectorySchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	first := carsRecord(t, []int64{1}, []string{"a"}, nil)
	defer first.Release()
	writeParquet(t, filepath.Join(dir, "part-0.parquet"), first)

	schema := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int32}}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int32Builder).AppendValues([]int32{2}, nil)
	other := b.NewRecord()
	defer other.Release()
	writeParquet(t, filepath.Join(dir, "part-1.parquet"), other)

	_, err := ReadParquet(context.Background(), dir)
	require.ErrorContains(t, err, "part-1.parquet")
}

func TestReadParquet_AllNullStringColumn(t *testing.T) {
	rec := carsRecord(t, []int64{1, 2}, []string{"", ""}, []bool{false, false})
	defer rec.Release()
	path := filepath.Join(t.TempDir(), "cars.parquet")
	writeParquet(t, path, rec)

	f, err := ReadParquet(context.Background(), path)
	require.NoError(t, err)
	mk, _ := f.Column("make")
	require.Equal(t, frame.String, mk.DType())
	require.Equal(t, 2, mk.NullCount())
}

func TestArrowColumn_Dtypes(t *testing.T) {
	col := arrowColumn("n", arrow.PrimitiveTypes.Uint8, []any{uint8(1), uint8(200)})
	require.Equal(t, frame.Int16, col.DType())
	require.Equal(t, []int64{1, 200}, col.Ints())

	col = arrowColumn("n", arrow.PrimitiveTypes.Int32, []any{int32(1), nil})
	require.Equal(t, frame.Float64, col.DType())
	require.True(t, col.IsNull(1))

	col = arrowColumn("n", arrow.PrimitiveTypes.Uint64, []any{uint64(math.MaxUint64)})
	require.Equal(t, frame.Float64, col.DType())

	col = arrowColumn("b", arrow.FixedWidthTypes.Boolean, []any{true, nil})
	require.Equal(t, frame.Bool, col.DType())
	require.True(t, col.IsNull(1))

	col = arrowColumn("d", arrow.FixedWidthTypes.Date32, []any{"2020-01-02"})
	require.Equal(t, frame.String, col.DType())
	require.Equal(t, "2020-01-02", col.Str(0))
}

func TestReadFeather(t *testing.T) {
	rec := carsRecord(t, []int64{7, 8}, []string{"x", "y"}, nil)
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "cars.feather")
	file, err := os.Create(path)
	require.NoError(t, err)
	w, err := ipc.NewFileWriter(file, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(memory.DefaultAllocator))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	require.NoError(t, file.Close())

	f, err := ReadFeather(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 4, f.NumRows())
	id, _ := f.Column("id")
	require.Equal(t, []int64{7, 8, 7, 8}, id.Ints())
}

func TestArrowValue_Dictionary(t *testing.T) {
	dt := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int8, ValueType: arrow.BinaryTypes.String}
	b := array.NewDictionaryBuilder(memory.DefaultAllocator, dt).(*array.BinaryDictionaryBuilder)
	defer b.Release()
	require.NoError(t, b.AppendString("petrol"))
	require.NoError(t, b.AppendString("diesel"))
	require.NoError(t, b.AppendString("petrol"))
	arr := b.NewArray()
	defer arr.Release()

	require.Equal(t, "diesel", arrowValue(arr, 1))
	require.Equal(t, "petrol", arrowValue(arr, 2))
}

func TestReadPickle_DictOfLists(t *testing.T) {
	// pickle.dumps({"a": [1, 2], "b": ["x", "y"]}, protocol=2)
	payload := "\x80\x02}(X\x01\x00\x00\x00a](K\x01K\x02eX\x01\x00\x00\x00b](X\x01\x00\x00\x00xX\x01\x00\x00\x00yeu."
	f, err := ReadPickle(context.Background(), writeFile(t, "d.pickle", []byte(payload)))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, f.Names())

	a, _ := f.Column("a")
	require.Equal(t, []int64{1, 2}, a.Ints())
	b, _ := f.Column("b")
	require.Equal(t, "y", b.Str(1))
}

func TestReadPickle_ListOfRecords(t *testing.T) {
	// pickle.dumps([{"a": 1}, {"a": 2, "b": "z"}], protocol=2)
	payload := "\x80\x02](}X\x01\x00\x00\x00aK\x01s}(X\x01\x00\x00\x00aK\x02X\x01\x00\x00\x00bX\x01\x00\x00\x00zue."
	f, err := ReadPickle(context.Background(), writeFile(t, "l.pickle", []byte(payload)))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, f.Names())

	b, _ := f.Column("b")
	require.True(t, b.IsNull(0))
	require.Equal(t, "z", b.Str(1))
}

func TestReadPickle_UnsupportedPayload(t *testing.T) {
	// pickle.dumps(5, protocol=2)
	_, err := ReadPickle(context.Background(), writeFile(t, "n.pickle", []byte("\x80\x02K\x05.")))
	require.ErrorContains(t, err, "unsupported pickle payload")
}

func TestReadSQL_FirstTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.sql")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE "car listings" (make TEXT, year INTEGER, price REAL)`,
		`INSERT INTO "car listings" VALUES ('bmw', 2019, 31000.5), ('audi', 2021, NULL)`,
		`CREATE TABLE other (x INTEGER)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	f, err := ReadSQL(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"make", "year", "price"}, f.Names())

	year, _ := f.Column("year")
	require.Equal(t, []int64{2019, 2021}, year.Ints())
	price, _ := f.Column("price")
	require.True(t, math.IsNaN(price.Float(1)))
}

func TestReadSQL_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.sql")
	_, err := ReadSQL(context.Background(), missing)
	require.Error(t, err)
	_, statErr := os.Stat(missing)
	require.True(t, os.IsNotExist(statErr))

	path := filepath.Join(t.TempDir(), "empty.sql")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`PRAGMA user_version = 1`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = ReadSQL(context.Background(), path)
	require.ErrorIs(t, err, ErrNoColumns)
}

func TestSeriesColumn(t *testing.T) {
	col, err := seriesColumn("n", []int16{1, 2, 3}, nil)
	require.NoError(t, err)
	require.Equal(t, frame.Int16, col.DType())

	col, err = seriesColumn("n", []int32{1, 2, 3}, []bool{false, true, false})
	require.NoError(t, err)
	require.Equal(t, frame.Float64, col.DType())
	require.True(t, col.IsNull(1))

	col, err = seriesColumn("f", []float32{1.5, 2}, []bool{true, false})
	require.NoError(t, err)
	require.Equal(t, frame.Float32, col.DType())
	require.True(t, col.IsNull(0))

	col, err = seriesColumn("s", []string{"a", ""}, []bool{false, true})
	require.NoError(t, err)
	require.Equal(t, frame.String, col.DType())
	require.True(t, col.IsNull(1))

	_, err = seriesColumn("c", []complex64{1}, nil)
	require.Error(t, err)
}
