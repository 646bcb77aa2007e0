package writer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/achilleasa/lumen/asset/compiler/input"
)

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write scene definition
	Write(*input.Scene) error
}

// Write scene to a file. The output format is selected by the file extension.
func WriteScene(sc *input.Scene, filename string) error {
	var writer Writer
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		writer = newJSONSceneWriter(filename)
	default:
		return fmt.Errorf("writeScene: unsupported file format %q", filepath.Ext(filename))
	}
	return writer.Write(sc)
}

type jsonSceneWriter struct {
	filename string
}

func newJSONSceneWriter(filename string) *jsonSceneWriter {
	return &jsonSceneWriter{filename: filename}
}

func (w *jsonSceneWriter) Write(sc *input.Scene) error {
	f, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("writeScene: %s", err.Error())
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if err = Encode(buf, sc); err != nil {
		return err
	}
	return buf.Flush()
}
