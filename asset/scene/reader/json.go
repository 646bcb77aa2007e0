package reader

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/asset/compiler/input"
	"github.com/achilleasa/lumen/log"
)

type jsonSceneReader struct {
	logger log.Logger
}

func newJSONReader() *jsonSceneReader {
	return &jsonSceneReader{
		logger: log.New("json scene reader"),
	}
}

// Read a scene description. Fields missing from the document keep the
// defaults of input.NewScene; unknown fields are rejected.
func (r *jsonSceneReader) Read(sceneRes *asset.Resource) (*input.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	rawScene := input.NewScene()
	dec := json.NewDecoder(sceneRes)
	dec.DisallowUnknownFields()
	if err := dec.Decode(rawScene); err != nil {
		return nil, fmt.Errorf("[%s] error: %s", sceneRes.Path(), err.Error())
	}
	rawScene.AssetRelPath = sceneRes

	r.logger.Infof(
		"scene defines %d textures, %d materials, %d primitives and %d lights",
		len(rawScene.Textures), len(rawScene.Materials), len(rawScene.Primitives), len(rawScene.Lights),
	)
	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return rawScene, nil
}
