package compile

import (
	"io"

	"github.com/kilianc/ghaml/internal/ghaml/ast"
	"github.com/kilianc/ghaml/internal/ghaml/source"
)

// Parse builds the tree for the lines of sc and classifies it. Lines are read
// and parsed one at a time so the first fault in source order is the one
// reported. Every non-blank line is handed to list under the parent its
// indentation selects; lines nested under a silent comment are skipped
// unparsed.
func Parse(sc *source.Scanner, list *ast.NodeList) (*ast.Document, error) {
	doc := ast.NewDocument()
	tr := source.NewTracker[ast.Node]()

	silent := -1
	for {
		line, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line.Blank() {
			continue
		}
		if silent >= 0 {
			if line.Depth > silent {
				continue
			}
			silent = -1
		}

		parent, ok, err := tr.Parent(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			parent = doc
		}
		anchor, err := list.Parse(parent, line)
		if err != nil {
			return nil, err
		}
		if _, ok := anchor.(*ast.SilentComment); ok {
			silent = line.Depth
		}
		tr.Push(line.Depth, anchor)
	}

	ast.Classify(doc)
	return doc, nil
}
