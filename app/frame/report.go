package frame

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// describePercentiles are the quantiles reported by Describe.
var describePercentiles = []float64{0.25, 0.5, 0.75}

// Render formats the frame as an aligned text table. Row labels start at
// offset so a tail view keeps the original row numbers.
func (f *Frame) Render(offset int) string {
	if f.NumCols() == 0 {
		return fmt.Sprintf("Empty frame\nColumns: []\nIndex: [%d rows]\n", f.rows)
	}
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "\t")
	for _, name := range f.Names() {
		fmt.Fprint(w, name, "\t")
	}
	fmt.Fprintln(w)
	for i := 0; i < f.rows; i++ {
		fmt.Fprint(w, strconv.Itoa(offset+i), "\t")
		for _, col := range f.columns {
			fmt.Fprint(w, col.Format(i), "\t")
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return sb.String()
}

// Info returns a per-column summary: non-null counts, dtypes, dtype totals
// and the deep memory usage of the frame.
func (f *Frame) Info() string {
	var sb strings.Builder
	if f.rows == 0 {
		sb.WriteString("RangeIndex: 0 entries\n")
	} else {
		fmt.Fprintf(&sb, "RangeIndex: %d entries, 0 to %d\n", f.rows, f.rows-1)
	}
	fmt.Fprintf(&sb, "Data columns (total %d columns):\n", len(f.columns))

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " #\tColumn\tNon-Null Count\tDtype\t")
	fmt.Fprintln(w, "---\t------\t--------------\t-----\t")
	counts := make(map[string]int)
	for i, col := range f.columns {
		fmt.Fprintf(w, " %d\t%s\t%d non-null\t%s\t\n", i, col.Name(), col.Len()-col.NullCount(), col.DType())
		counts[col.DType().String()]++
	}
	w.Flush()

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s(%d)", name, counts[name])
	}
	fmt.Fprintf(&sb, "dtypes: %s\n", strings.Join(parts, ", "))
	fmt.Fprintf(&sb, "memory usage: %s\n", FormatBytes(f.MemoryUsage()))
	return sb.String()
}

// FormatBytes renders a byte count with binary units.
func FormatBytes(n int64) string {
	size := float64(n)
	for _, unit := range []string{"bytes", "KB", "MB", "GB", "TB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f PB", size)
}

// Describe returns summary statistics. Numeric columns report count, mean,
// sample standard deviation, min, quartiles and max; a frame without numeric
// columns reports count, unique, top and freq of its string columns.
func (f *Frame) Describe() string {
	var numeric []*Column
	for _, col := range f.columns {
		if k := col.Kind(); k == KindInteger || k == KindFloat {
			numeric = append(numeric, col)
		}
	}
	if len(numeric) == 0 {
		return f.describeStrings()
	}

	labels := []string{"count", "mean", "std", "min"}
	for _, p := range describePercentiles {
		labels = append(labels, strconv.FormatFloat(p*100, 'f', -1, 64)+"%")
	}
	labels = append(labels, "max")

	stats := make([][]float64, len(numeric))
	for i, col := range numeric {
		stats[i] = numericSummary(col)
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "\t")
	for _, col := range numeric {
		fmt.Fprint(w, col.Name(), "\t")
	}
	fmt.Fprintln(w)
	for r, label := range labels {
		fmt.Fprint(w, label, "\t")
		for i := range numeric {
			fmt.Fprint(w, strconv.FormatFloat(stats[i][r], 'f', 6, 64), "\t")
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return sb.String()
}

// numericSummary returns count, mean, std, min, percentiles and max of the
// non-null values of col.
func numericSummary(col *Column) []float64 {
	var values []float64
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			values = append(values, col.Float(i))
		}
	}
	out := []float64{float64(len(values))}
	if len(values) == 0 {
		for range len(describePercentiles) + 4 {
			out = append(out, math.NaN())
		}
		return out
	}
	std := math.NaN()
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	out = append(out, stat.Mean(values, nil), std, floats.Min(values))
	slices.Sort(values)
	for _, p := range describePercentiles {
		out = append(out, Quantile(values, p))
	}
	return append(out, floats.Max(values))
}

// Quantile returns the p-quantile of sorted values using linear
// interpolation between the closest ranks.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func (f *Frame) describeStrings() string {
	var cols []*Column
	for _, col := range f.columns {
		if col.Kind() == KindString {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return "no numeric or string columns to describe\n"
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "\t")
	for _, col := range cols {
		fmt.Fprint(w, col.Name(), "\t")
	}
	fmt.Fprintln(w)

	rows := [4][]string{}
	for _, col := range cols {
		count, unique, top, freq := stringSummary(col)
		rows[0] = append(rows[0], strconv.Itoa(count))
		rows[1] = append(rows[1], strconv.Itoa(unique))
		rows[2] = append(rows[2], top)
		rows[3] = append(rows[3], strconv.Itoa(freq))
	}
	for r, label := range []string{"count", "unique", "top", "freq"} {
		fmt.Fprint(w, label, "\t")
		for _, cell := range rows[r] {
			fmt.Fprint(w, cell, "\t")
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return sb.String()
}

// stringSummary returns the non-null count, the number of distinct values,
// the most frequent value (first seen wins ties) and its frequency.
func stringSummary(col *Column) (count, unique int, top string, freq int) {
	seen := make(map[string]int)
	var order []string
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		count++
		v := col.Str(i)
		if _, ok := seen[v]; !ok {
			order = append(order, v)
		}
		seen[v]++
	}
	for _, v := range order {
		if seen[v] > freq {
			top, freq = v, seen[v]
		}
	}
	return count, len(order), top, freq
}
