package dataset

import (
	"fmt"
)

// Head renders the first PreviewRows rows.
func (d *Dataset) Head() string {
	return d.data.Head(d.settings.PreviewRows).Render(0)
}

// Tail renders the last PreviewRows rows, labelled with their row numbers.
func (d *Dataset) Tail() string {
	tail := d.data.Tail(d.settings.PreviewRows)
	return tail.Render(d.data.NumRows() - tail.NumRows())
}

// Info renders the column summary printed on load.
func (d *Dataset) Info() string { return d.data.Info() }

// Describe renders summary statistics of every column.
func (d *Dataset) Describe() string { return d.data.Describe() }

// Shape renders the table dimensions as "(rows, columns)".
func (d *Dataset) Shape() string {
	rows, cols := d.data.Shape()
	return fmt.Sprintf("(%d, %d)", rows, cols)
}

// Columns returns the column names in table order.
func (d *Dataset) Columns() []string { return d.data.Names() }

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.data.NumRows() }

// String implements fmt.Stringer with the full table.
func (d *Dataset) String() string { return d.data.Render(0) }
