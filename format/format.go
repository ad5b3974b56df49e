// Package format encodes tablature trees for the command line.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/tablature/source"
	"github.com/dhamidi/tablature/tabast"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(tree *tabast.Tree) error
}

// NewEncoder returns the encoder for the named format: "json" or "tree".
func NewEncoder(name string, w io.Writer, src source.Text) (Encoder, error) {
	switch name {
	case "json":
		return NewASTJSONEncoder(w, src), nil
	case "tree", "":
		return NewTreeEncoder(w, src), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}
