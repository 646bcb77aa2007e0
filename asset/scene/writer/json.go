package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/achilleasa/lumen/asset/compiler/input"
)

// Encode a scene as indented JSON in the format understood by the JSON
// scene reader.
func Encode(w io.Writer, sc *input.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sc); err != nil {
		return fmt.Errorf("writeScene: %s", err.Error())
	}
	return nil
}
