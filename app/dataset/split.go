package dataset

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ErrInvalidSplit is matched by every InvalidSplitError.
var ErrInvalidSplit = errors.New("invalid split")

// InvalidSplitError is returned by SplitData when the label column is also
// listed among the columns to drop.
type InvalidSplitError struct {
	Label string
}

func (e *InvalidSplitError) Error() string {
	return fmt.Sprintf("label column %q cannot be dropped", e.Label)
}

// Is makes errors.Is(err, ErrInvalidSplit) hold.
func (e *InvalidSplitError) Is(target error) bool {
	return target == ErrInvalidSplit
}

// SplitData separates the table into a feature table and a label column.
// The columns in drop are removed first; the label is then taken out and the
// remaining columns, sorted by name, form the features. Both are copies, so
// later changes to the table do not reach them.
//
// A label listed in drop yields an *InvalidSplitError. A name in drop, or a
// label, that is not a column yields an error wrapping
// frame.ErrColumnNotFound. On error the previous split is left untouched.
func (d *Dataset) SplitData(label string, drop []string) error {
	if slices.Contains(drop, label) {
		return &InvalidSplitError{Label: label}
	}

	remaining, err := d.data.Drop(drop...)
	if err != nil {
		return fmt.Errorf("failed to drop columns: %w", err)
	}
	target, ok := remaining.Column(label)
	if !ok {
		return fmt.Errorf("label column: %w: %q", frame.ErrColumnNotFound, label)
	}

	features, err := remaining.Drop(label)
	if err != nil {
		return err
	}
	if names := features.Names(); len(names) > 0 {
		sort.Strings(names)
		if features, err = features.Select(names...); err != nil {
			return err
		}
	}

	d.features = features.Clone()
	d.label = target.Clone()
	d.logger.Debug("dataset split", "label", label, "dropped", len(drop), "features", d.features.NumCols())
	return nil
}
