// Package fileloader reads tabular files into frames. The reader is chosen
// from the file extension (the text after the last "."), out of a closed set
// of formats:
//
//	csv        comma separated text, first row is the header
//	xlsx       Excel workbook, first sheet
//	json       records, values, split or columns oriented JSON
//	parquet    Parquet file, or a directory of Parquet parts
//	feather    Arrow IPC file
//	html       first <table> of an HTML document
//	pickle     Python pickle of a dict of lists or a list of dicts
//	sql        SQLite database, first table
//	hdf        HDF5 file, one column per root-level 1-D dataset
//	stata      Stata .dta (formats 115-117)
//	sas        SAS sas7bdat
//	spss       SPSS .sav
//	fwf        fixed-width text, column spans inferred from the data
//	clipboard  system clipboard text, tab or whitespace separated
//
// Text formats (csv, json, html, fwf) are decompressed transparently when the
// file starts with a gzip, bzip2 or xz signature.
package fileloader

// Format identifies one of the supported file formats.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXLSX
	FormatJSON
	FormatParquet
	FormatFeather
	FormatHTML
	FormatPickle
	FormatSQL
	FormatHDF
	FormatStata
	FormatSAS
	FormatSPSS
	FormatFWF
	FormatClipboard
)

// formatExtensions maps each extension to its Format
var formatExtensions = map[string]Format{
	"csv":       FormatCSV,
	"xlsx":      FormatXLSX,
	"json":      FormatJSON,
	"parquet":   FormatParquet,
	"feather":   FormatFeather,
	"html":      FormatHTML,
	"pickle":    FormatPickle,
	"sql":       FormatSQL,
	"hdf":       FormatHDF,
	"stata":     FormatStata,
	"sas":       FormatSAS,
	"spss":      FormatSPSS,
	"fwf":       FormatFWF,
	"clipboard": FormatClipboard,
}

// Formats returns every supported format in declaration order.
func Formats() []Format {
	return []Format{
		FormatCSV, FormatXLSX, FormatJSON, FormatParquet, FormatFeather, FormatHTML, FormatPickle,
		FormatSQL, FormatHDF, FormatStata, FormatSAS, FormatSPSS, FormatFWF, FormatClipboard,
	}
}

// String returns the extension of the format
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatJSON:
		return "json"
	case FormatParquet:
		return "parquet"
	case FormatFeather:
		return "feather"
	case FormatHTML:
		return "html"
	case FormatPickle:
		return "pickle"
	case FormatSQL:
		return "sql"
	case FormatHDF:
		return "hdf"
	case FormatStata:
		return "stata"
	case FormatSAS:
		return "sas"
	case FormatSPSS:
		return "spss"
	case FormatFWF:
		return "fwf"
	case FormatClipboard:
		return "clipboard"
	default:
		return "unknown"
	}
}

// isText reports whether the format is read from text and may be compressed.
func (f Format) isText() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatHTML, FormatFWF:
		return true
	}
	return false
}
