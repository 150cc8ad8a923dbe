package fileloader

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.design/x/clipboard"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// readClipboardText returns the text content of the system clipboard.
// Replaced in tests.
var readClipboardText = func() ([]byte, error) {
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		return nil, fmt.Errorf("clipboard unavailable: %w", clipboardErr)
	}
	return clipboard.Read(clipboard.FmtText), nil
}

// ReadClipboard reads a table from the system clipboard; path is only used
// to select this reader.
func ReadClipboard(ctx context.Context, path string) (*frame.Frame, error) {
	text, err := readClipboardText()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseClipboardText(string(text))
}

// ParseClipboardText parses copied table text. When every non-blank line
// holds a tab, as with cells copied from a spreadsheet, fields are tab
// separated; otherwise they are separated by runs of whitespace. The first
// line is the header.
func ParseClipboardText(text string) (*frame.Frame, error) {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoColumns
	}

	tabbed := true
	for _, line := range lines {
		tabbed = tabbed && strings.Contains(line, "\t")
	}
	split := strings.Fields
	if tabbed {
		split = func(s string) []string { return strings.Split(s, "\t") }
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, split(line))
	}
	return frameFromRecords(split(lines[0]), rows)
}
