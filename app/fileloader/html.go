package fileloader

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// ReadHTML reads the first <table> of an HTML document. A leading row made of
// <th> cells is the header; otherwise columns are numbered. Cells spanning
// several columns are repeated in each of them.
func ReadHTML(ctx context.Context, path string) (*frame.Frame, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	rc, _, err := OpenText(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parseHTMLTable(ctx, rc)
}

func parseHTMLTable(ctx context.Context, r io.Reader) (*frame.Frame, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	table := findElement(doc, atom.Table)
	if table == nil {
		return nil, fmt.Errorf("no tables found: %w", ErrNoColumns)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows [][]string
	var header []string
	for i, tr := range tableRows(table) {
		cells, allHeader := rowCells(tr)
		if i == 0 && allHeader {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}

	if header == nil {
		width := 0
		for _, row := range rows {
			width = max(width, len(row))
		}
		header = positionalHeaders(width)
	}
	return frameFromRecords(header, rows)
}

// findElement returns the first element with the given tag, depth first.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// tableRows collects the <tr> elements of table, looking through thead,
// tbody and tfoot but not into nested tables.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

// rowCells returns the text of each cell in tr and whether every cell is a
// <th>.
func rowCells(tr *html.Node) ([]string, bool) {
	var cells []string
	allHeader := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		if c.DataAtom == atom.Td {
			allHeader = false
		}
		text := nodeText(c)
		for span := colspan(c); span > 0; span-- {
			cells = append(cells, text)
		}
	}
	return cells, allHeader && len(cells) > 0
}

func colspan(n *html.Node) int {
	for _, attr := range n.Attr {
		if attr.Key == "colspan" {
			if v, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil && v > 0 {
				return v
			}
		}
	}
	return 1
}

// nodeText returns the text below n with runs of whitespace collapsed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
