package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/asset/compiler/input"
	"github.com/achilleasa/lumen/asset/material"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/types"
)

const defaultMaterialName = "default"

type wavefrontMaterial struct {
	Name string

	// Diffuse/Albedo color.
	Kd types.Vec3

	// Specular color.
	Ks types.Vec3

	// Emissive color and scaler.
	Ke       types.Vec3
	KeScaler float64

	// Transmission filter
	Tf types.Vec3

	// Index of refraction.
	Ni float64

	// Roughness; used as the fuzz factor for metals.
	Pr float64

	// Diffuse texture.
	KdTex string

	// True if this material is used by at least one face.
	Used bool
}

func (wf *wavefrontMaterial) isEmissive() bool {
	return maxComponent(wf.Ke) > 0
}

// Map wavefront material properties to a material definition.
func (wf *wavefrontMaterial) toMaterial() *input.Material {
	isSpecular := maxComponent(wf.Ks) > 0
	isTransmissive := maxComponent(wf.Tf) > 0

	mat := &input.Material{Name: wf.Name}
	switch {
	case wf.isEmissive():
		mat.Type = material.BxdfDiffuseLight.String()
		scale := wf.KeScaler
		if scale == 0 {
			scale = 1
		}
		emission := wf.Ke.Mul(scale)
		mat.Emission = &emission
	case wf.Ni != 0 && (isSpecular || isTransmissive):
		mat.Type = material.BxdfDielectric.String()
		mat.IOR = wf.Ni
	case isSpecular:
		mat.Type = material.BxdfMetal.String()
		albedo := wf.Ks
		mat.Albedo = &albedo
		mat.Fuzz = wf.Pr
	default:
		mat.Type = material.BxdfLambertian.String()
		albedo := wf.Kd
		mat.Albedo = &albedo
		if wf.KdTex != "" {
			mat.Texture = wf.KdTex
		}
	}
	return mat
}

// A named group of triangles.
type wavefrontMesh struct {
	Name       string
	Primitives []*input.Primitive
}

type wavefrontSceneReader struct {
	logger log.Logger

	// The parsed scene.
	rawScene *input.Scene

	meshes []*wavefrontMesh

	// Mesh copies requested via instance directives.
	instances []*input.Primitive

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial *wavefrontMaterial

	// Parsed wavefront materials.
	materials []*wavefrontMaterial

	// List of vertices, normals and uv coords.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new wavefront scene reader.
func newWavefrontReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:         log.New("wavefront scene reader"),
		rawScene:       input.NewScene(),
		matNameToIndex: make(map[string]int, 0),
		vertexList:     make([]types.Vec3, 0),
		normalList:     make([]types.Vec3, 0),
		uvList:         make([]types.Vec2, 0),
		errStack:       make([]string, 0),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*input.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	// If no mesh instances are defined, emit each defined mesh as-is
	if len(r.instances) == 0 {
		for _, mesh := range r.meshes {
			r.rawScene.Primitives = append(r.rawScene.Primitives, mesh.Primitives...)
		}
	} else {
		r.rawScene.Primitives = append(r.rawScene.Primitives, r.instances...)
	}

	r.processMaterials()
	r.rawScene.AssetRelPath = sceneRes

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return r.rawScene, nil
}

// Generate scene materials (and the image textures they use) for material
// entries that are in use.
func (r *wavefrontSceneReader) processMaterials() {
	pruned := 0
	textures := make(map[string]bool)
	for _, wfMat := range r.materials {
		if !wfMat.Used {
			r.logger.Infof("skipping unused material %q", wfMat.Name)
			pruned++
			continue
		}

		mat := wfMat.toMaterial()
		if mat.Texture != "" && !textures[mat.Texture] {
			textures[mat.Texture] = true
			r.rawScene.Textures = append(r.rawScene.Textures, &input.Texture{
				Name: mat.Texture,
				Type: input.TextureImage,
				Path: mat.Texture,
			})
		}
		r.rawScene.Materials = append(r.rawScene.Materials, mat)
	}

	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return fmt.Errorf("%s", errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Create and select a default material for surfaces not using one.
func (r *wavefrontSceneReader) defaultMaterial() *wavefrontMaterial {
	matIndex, exists := r.matNameToIndex[defaultMaterialName]
	if !exists {
		r.materials = append(r.materials, &wavefrontMaterial{
			Name: defaultMaterialName,
			Kd:   types.Vec3{0.7, 0.7, 0.7},
		})
		matIndex = len(r.materials) - 1
		r.matNameToIndex[defaultMaterialName] = matIndex
	}
	r.curMaterial = r.materials[matIndex]
	return r.curMaterial
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relUvOffset := len(r.uvList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			matIndex, exists := r.matNameToIndex[matName]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, matName)
			}

			r.curMaterial = r.materials[matIndex]
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.uvList = append(r.uvList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedMesh()
			r.meshes = append(r.meshes, &wavefrontMesh{Name: lineTokens[1]})
		case "f":
			primList, err := r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			// If no object has been defined create a default one
			if len(r.meshes) == 0 {
				r.meshes = append(r.meshes, &wavefrontMesh{Name: "default"})
			}

			mesh := r.meshes[len(r.meshes)-1]
			mesh.Primitives = append(mesh.Primitives, primList...)
		case "camera_fov":
			r.rawScene.Camera.FOV, err = parseFloat(lineTokens)
		case "camera_eye":
			r.rawScene.Camera.LookFrom, err = parseVec3(lineTokens)
		case "camera_look":
			r.rawScene.Camera.LookAt, err = parseVec3(lineTokens)
		case "camera_up":
			r.rawScene.Camera.Up, err = parseVec3(lineTokens)
		case "camera_aperture":
			r.rawScene.Camera.Aperture, err = parseFloat(lineTokens)
		case "camera_focus":
			r.rawScene.Camera.FocusDist, err = parseFloat(lineTokens)
		case "background":
			r.rawScene.Background, err = parseVec3(lineTokens)
		case "instance":
			err = r.parseMeshInstance(lineTokens)
		}

		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}

	r.verifyLastParsedMesh()
	return scanner.Err()
}

// Drop the last parsed mesh if it contains no primitives.
func (r *wavefrontSceneReader) verifyLastParsedMesh() {
	lastMeshIndex := len(r.meshes) - 1
	if lastMeshIndex >= 0 && len(r.meshes[lastMeshIndex].Primitives) == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, r.meshes[lastMeshIndex].Name)
		r.meshes = r.meshes[:lastMeshIndex]
	}
}

// Parse mesh instance definition. Definitions use the following format:
// instance mesh_name tX tY tZ yaw pitch roll sX sY sZ
// where:
// - tX, tY, tZ       : translation vector
// - yaw, pitch, roll : rotation angles in degrees around the X, Y and Z axis
// - sX, sY, sZ	      : scale
//
// The scale is baked into a copy of the mesh vertices; rotation and
// translation are attached as primitive transforms.
func (r *wavefrontSceneReader) parseMeshInstance(lineTokens []string) error {
	if len(lineTokens) != 11 {
		return fmt.Errorf(`unsupported syntax for "instance"; expected 10 arguments: mesh_name tX tY tZ yaw pitch roll sX sY sZ; got %d`, len(lineTokens)-1)
	}

	meshName := lineTokens[1]
	var mesh *wavefrontMesh
	for _, m := range r.meshes {
		if m.Name == meshName {
			mesh = m
			break
		}
	}
	if mesh == nil {
		return fmt.Errorf(`unknown mesh with name "%s"`, meshName)
	}

	var args [9]float64
	for index := range args {
		v, err := strconv.ParseFloat(lineTokens[index+2], 64)
		if err != nil {
			return err
		}
		args[index] = v
	}
	translation := types.Vec3{args[0], args[1], args[2]}
	rotation := types.Vec3{args[3], args[4], args[5]}
	scale := types.Vec3{args[6], args[7], args[8]}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return fmt.Errorf("instance scale components must be non-zero")
	}

	transforms := make([]input.Transform, 0, 4)
	for axis, angle := range rotation {
		if angle == 0 {
			continue
		}
		var rotAxis types.Vec3
		rotAxis[axis] = 1
		transforms = append(transforms, input.Transform{Type: input.TransformRotate, Axis: rotAxis, Angle: angle})
	}
	if translation != (types.Vec3{}) {
		transforms = append(transforms, input.Transform{Type: input.TransformTranslate, Offset: translation})
	}

	for _, prim := range mesh.Primitives {
		inst := *prim
		for i := range inst.Vertices {
			inst.Vertices[i] = inst.Vertices[i].MulVec(scale)
		}
		if prim.Normals != nil {
			normals := *prim.Normals
			for i := range normals {
				normals[i] = normals[i].MulVec(types.Vec3{1 / scale[0], 1 / scale[1], 1 / scale[2]}).Normalize()
			}
			inst.Normals = &normals
		}
		inst.Transforms = append([]input.Transform(nil), transforms...)
		r.instances = append(r.instances, &inst)
	}

	return nil
}

// Parse face definition. Each face definitions consists of 3 arguments,
// one for each vertex. Each one of the vertex arguments is comprised of
// 1, 2 or 3 args separated by a slash character. The following formats are
// supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex/uv list.
//
// This method only works with triangular/quad faces and will return an error if a
// face with more than 4 vertices is encountered.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) ([]*input.Primitive, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	var normals [4]types.Vec3
	var uv [4]types.Vec2
	var vOffset int
	var err error
	expIndices := 0
	hasNormals := false
	hasUVs := false
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]

		if expIndices > 1 && vTokens[1] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
			uv[arg] = r.uvList[vOffset]
			hasUVs = true
		}

		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			normals[arg] = r.normalList[vOffset]
			hasNormals = true
		}
	}

	// If no material defined select the default. Also flag the current material
	// as being in use so we don't prune it later.
	if r.curMaterial == nil {
		r.curMaterial = r.defaultMaterial()
	}
	r.curMaterial.Used = true

	// Assemble vertices into one or two primitives depending on whether we are parsing a triangular or a quad face
	primitives := make([]*input.Primitive, 0, 2)
	indiceList := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		indiceList = append(indiceList, [3]int{0, 2, 3})
	}

	for _, indices := range indiceList {
		prim := &input.Primitive{
			Type:     input.PrimTriangle,
			Material: r.curMaterial.Name,
			Light:    r.curMaterial.isEmissive(),
		}

		var triNormals [3]types.Vec3
		var triUVs [3]types.Vec2
		for triIndex, selectIndex := range indices {
			prim.Vertices[triIndex] = vertices[selectIndex]
			triNormals[triIndex] = normals[selectIndex]
			triUVs[triIndex] = uv[selectIndex]
		}
		if hasNormals {
			prim.Normals = &triNormals
		}
		if hasUVs {
			prim.UVs = &triUVs
		}
		primitives = append(primitives, prim)
	}

	return primitives, nil
}

// Parse a wavefront material library.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *wavefrontMaterial = nil
	var matName string = ""

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			curMaterial = &wavefrontMaterial{Name: matName}
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
				if !exists {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}

				// Overwrite material but keep the original name
				*curMaterial = *r.materials[baseMaterialIndex]
				curMaterial.Name = matName
				curMaterial.Used = false
			case "Kd", "Ks", "Ke", "Tf":
				var target *types.Vec3
				switch lineTokens[0] {
				case "Kd":
					target = &curMaterial.Kd
				case "Ks":
					target = &curMaterial.Ks
				case "Ke":
					target = &curMaterial.Ke
				case "Tf":
					target = &curMaterial.Tf
				}

				*target, err = parseVec3(lineTokens)
			case "Ni":
				curMaterial.Ni, err = parseFloat(lineTokens)
			case "Pr":
				curMaterial.Pr, err = parseFloat(lineTokens)
			case "KeScaler":
				curMaterial.KeScaler, err = parseFloat(lineTokens)
			case "map_Kd":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				// Resolve texture paths relative to the material library
				texRes, texErr := asset.NewResource(lineTokens[len(lineTokens)-1], res)
				if texErr != nil {
					return r.emitError(res.Path(), lineNum, "%s", texErr.Error())
				}
				curMaterial.KdTex = texRes.Path()
				texRes.Close()
			}

			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return scanner.Err()
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat(lineTokens []string) (float64, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	return strconv.ParseFloat(lineTokens[1], 64)
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 64)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = coord
	}
	return v, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 64)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = coord
	}
	return v, nil
}

func maxComponent(v types.Vec3) float64 {
	max := v[0]
	if v[1] > max {
		max = v[1]
	}
	if v[2] > max {
		max = v[2]
	}
	return max
}
