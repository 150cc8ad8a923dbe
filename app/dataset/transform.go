package dataset

import (
	"fmt"

	"github.com/GongJr0/Car-Price-Perdiction/app/dataprep"
	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// OptimizeInt narrows every integer column to the smallest signed width that
// holds its values. Values are unchanged.
func (d *Dataset) OptimizeInt() {
	d.narrow(frame.KindInteger, frame.DowncastInteger)
}

// OptimizeFloat stores float columns as float32 where every value survives
// the conversion within tolerance. Other float columns stay float64.
func (d *Dataset) OptimizeFloat() {
	d.narrow(frame.KindFloat, frame.DowncastFloat)
}

func (d *Dataset) narrow(kind frame.Kind, downcast func(*frame.Column) *frame.Column) {
	before := d.data.MemoryUsage()
	for _, name := range d.data.ColumnsOfKind(kind) {
		col, _ := d.data.Column(name)
		narrowed := downcast(col)
		if narrowed == col {
			continue
		}
		// same name and length, cannot fail
		_ = d.data.Replace(narrowed)
		d.logger.Debug("column narrowed", "column", name, "from", col.DType().String(), "to", narrowed.DType().String())
	}
	if after := d.data.MemoryUsage(); after != before {
		d.logger.Debug("memory reduced", "kind", kind.String(),
			"before", frame.FormatBytes(before), "after", frame.FormatBytes(after))
	}
}

// EncodeStr label-encodes, in place, every string column whose name is not in
// exclude. Codes follow the order in which values first appear; missing
// values share one code. Encoded columns use the narrowest integer width.
//
// Encodings from earlier calls are kept; a column encoded twice keeps the
// newest encoding.
func (d *Dataset) EncodeStr(exclude ...string) error {
	encodings, err := dataprep.EncodeStrings(d.data, exclude...)
	if d.encodings == nil {
		d.encodings = make(map[string]*dataprep.Encoding, len(encodings))
	}
	for name, enc := range encodings {
		d.encodings[name] = enc
	}
	if err != nil {
		return fmt.Errorf("failed to encode string columns: %w", err)
	}
	d.logger.Debug("string columns encoded", "columns", len(encodings))
	return nil
}
