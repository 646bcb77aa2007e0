package reader

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/asset/compiler/input"
	"github.com/achilleasa/lumen/asset/scene/builtin"
)

// Scene names with this prefix select an entry from the builtin scene catalogue.
const BuiltinPrefix = "builtin:"

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*input.Scene, error)
}

// Read scene from file or generate a builtin scene. The seed is only used
// by builtin scenes that place their geometry at random.
func ReadScene(filename string, seed int64) (*input.Scene, error) {
	if strings.HasPrefix(filename, BuiltinPrefix) {
		return builtin.Generate(strings.TrimPrefix(filename, BuiltinPrefix), rand.New(rand.NewSource(seed)))
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	// Select reader based on file extension
	var reader Reader
	switch res.Ext() {
	case ".json":
		reader = newJSONReader()
	case ".obj":
		reader = newWavefrontReader()
	default:
		return nil, fmt.Errorf("readScene: unsupported file format %q", res.Ext())
	}
	return reader.Read(res)
}
