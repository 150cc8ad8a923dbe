package fileloader

import (
	"context"
	"fmt"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ReadPickle reads a Python pickle holding plain containers: a dict mapping
// column names to lists, tuples or {row: value} dicts, or a list of record
// dicts. Pickled pandas objects need pandas classes to rebuild and are
// rejected.
func ReadPickle(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	obj, err := pickle.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to unpickle: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frameFromPickle(obj)
}

func frameFromPickle(obj any) (*frame.Frame, error) {
	switch v := obj.(type) {
	case *types.Dict:
		return pickleColumns(v)
	case *types.List:
		return pickleRecords(*v)
	case *types.Tuple:
		return pickleRecords(*v)
	}
	return nil, fmt.Errorf("unsupported pickle payload of type %T", obj)
}

func pickleColumns(d *types.Dict) (*frame.Frame, error) {
	names := make([]string, 0, d.Len())
	columns := make([][]any, 0, d.Len())
	for _, entry := range *d {
		values, err := pickleSequence(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("column %v: %w", entry.Key, err)
		}
		names = append(names, fmt.Sprint(entry.Key))
		columns = append(columns, values)
	}
	return frameFromValues(names, columns)
}

// pickleSequence returns the values of a list, a tuple or a dict keyed by row.
func pickleSequence(v any) ([]any, error) {
	switch s := v.(type) {
	case *types.List:
		return []any(*s), nil
	case *types.Tuple:
		return []any(*s), nil
	case *types.Dict:
		out := make([]any, 0, s.Len())
		for _, entry := range *s {
			out = append(out, entry.Value)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list, tuple or dict of values, got %T", v)
}

func pickleRecords(items []any) (*frame.Frame, error) {
	var names []string
	index := make(map[string]int)
	records := make([]*types.Dict, len(items))
	for i, item := range items {
		rec, ok := item.(*types.Dict)
		if !ok {
			return nil, fmt.Errorf("record %d is a %T, not a dict", i, item)
		}
		records[i] = rec
		for _, entry := range *rec {
			name := fmt.Sprint(entry.Key)
			if _, seen := index[name]; !seen {
				index[name] = len(names)
				names = append(names, name)
			}
		}
	}

	columns := make([][]any, len(names))
	for j := range columns {
		columns[j] = make([]any, len(records))
	}
	for i, rec := range records {
		for _, entry := range *rec {
			columns[index[fmt.Sprint(entry.Key)]][i] = entry.Value
		}
	}
	return frameFromValues(names, columns)
}
