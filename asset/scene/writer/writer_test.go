package writer

import (
	"math/rand"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/achilleasa/lumen/asset/scene/builtin"
	"github.com/achilleasa/lumen/asset/scene/reader"
)

func TestExportedScenesCanBeReadBack(t *testing.T) {
	dir := t.TempDir()

	for _, entry := range builtin.List() {
		exp, err := builtin.Generate(entry.Name, rand.New(rand.NewSource(3)))
		if err != nil {
			t.Fatal(err)
		}

		filename := filepath.Join(dir, entry.Name+".json")
		if err = WriteScene(exp, filename); err != nil {
			t.Fatalf("[%s] %v", entry.Name, err)
		}

		got, err := reader.ReadScene(filename, 0)
		if err != nil {
			t.Fatalf("[%s] %v", entry.Name, err)
		}

		if !reflect.DeepEqual(exp.Primitives, got.Primitives) {
			t.Fatalf("[%s] expected primitives to survive the export", entry.Name)
		}
		if !reflect.DeepEqual(exp.Materials, got.Materials) {
			t.Fatalf("[%s] expected materials to survive the export", entry.Name)
		}
		if !reflect.DeepEqual(exp.Camera, got.Camera) || exp.Background != got.Background {
			t.Fatalf("[%s] expected camera and background to survive the export", entry.Name)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	sc, _ := builtin.Generate("cornell", rand.New(rand.NewSource(0)))
	err := WriteScene(sc, filepath.Join(t.TempDir(), "scene.yaml"))
	if err == nil || !strings.Contains(err.Error(), "unsupported file format") {
		t.Fatalf("expected unsupported format error; got %v", err)
	}
}
