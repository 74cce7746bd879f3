package render

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/primitives"
)

// gpuMesh is a primitive uploaded for drawing. The vertex slices stay referenced here
// because the mesh points into them.
type gpuMesh struct {
	mesh     rl.Mesh
	mtl      rl.Material
	vertices []float32
	normals  []float32
}

// flatten expands an indexed triangle list into one vertex per corner with the face
// normal on each, so faces shade flat. Triangles with out-of-range indices are skipped.
func flatten(positions []mgl32.Vec3, indices []uint32) (vertices, normals []float32) {
	tris := len(indices) / 3
	vertices = make([]float32, 0, tris*9)
	normals = make([]float32, 0, tris*9)
	n := uint32(len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= n || b >= n || c >= n {
			continue
		}
		v0, v1, v2 := positions[a], positions[b], positions[c]
		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		if l := normal.Len(); l > 0 {
			normal = normal.Mul(1 / l)
		}
		for _, v := range [3]mgl32.Vec3{v0, v1, v2} {
			vertices = append(vertices, v[0], v[1], v[2])
			normals = append(normals, normal[0], normal[1], normal[2])
		}
	}
	return vertices, normals
}

// uploadMesh builds the GPU mesh for kind from the same data picking uses, so what is
// drawn is exactly what can be clicked.
func uploadMesh(reg *primitives.Registry, kind primitives.Kind, shader rl.Shader) *gpuMesh {
	positions, indices := reg.Data(kind)
	vertices, normals := flatten(positions, indices)
	g := &gpuMesh{vertices: vertices, normals: normals}
	if len(vertices) == 0 {
		return g
	}
	g.mesh.VertexCount = int32(len(vertices) / 3)
	g.mesh.TriangleCount = g.mesh.VertexCount / 3
	g.mesh.Vertices = &g.vertices[0]
	g.mesh.Normals = &g.normals[0]
	rl.UploadMesh(&g.mesh, false)

	g.mtl = rl.LoadMaterialDefault()
	if rl.IsShaderValid(shader) {
		g.mtl.Shader = shader
	}
	return g
}

func (g *gpuMesh) unload() {
	if g.mesh.VaoID != 0 {
		rl.UnloadMesh(&g.mesh)
	}
}

func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.NewMatrix(
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	)
}

func toVector3(v mgl32.Vec3) rl.Vector3 { return rl.NewVector3(v[0], v[1], v[2]) }

func toVector2(v mgl32.Vec2) rl.Vector2 { return rl.NewVector2(v[0], v[1]) }

func toColor(c primitives.Color) color.RGBA { return rl.NewColor(c.R, c.G, c.B, c.A) }

// hexColor parses a config color, falling back when it is malformed.
func hexColor(s string, fallback color.RGBA) color.RGBA {
	c, err := primitives.ParseColor(s)
	if err != nil {
		return fallback
	}
	return toColor(c)
}
