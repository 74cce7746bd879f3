package render

import rl "github.com/gen2brain/raylib-go/raylib"

// Directional light with ambient and Blinn-Phong specular. "highlight" brightens the
// selected entity.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = transpose(inverse(mat3(matModel))) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
uniform float highlight;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = colDiffuse.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * colDiffuse.rgb;
  float spec = pow(max(dot(N, normalize(L + V)), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * step(0.0, NdotL);
  vec3 lit = amb + diffuse + specular;
  finalColor = vec4(mix(lit, vec3(1.0), highlight * 0.25), colDiffuse.a);
}
`
)

var (
	ambientColor = [4]float32{0.2, 0.22, 0.26, 1.0}
	lightColor   = [3]float32{1.0, 0.98, 0.95}
)

const (
	lightIntensity   = float32(0.75)
	specularPower    = float32(48.0)
	specularStrength = float32(0.35)
)

// litShader wraps the lit program and its uniform locations, looked up once.
type litShader struct {
	shader                       rl.Shader
	viewPos, lightDir, highlight int32
}

func loadLitShader() litShader {
	s := litShader{shader: rl.LoadShaderFromMemory(litVS, litFS)}
	if !rl.IsShaderValid(s.shader) {
		return s
	}
	s.viewPos = rl.GetShaderLocation(s.shader, "viewPos")
	s.lightDir = rl.GetShaderLocation(s.shader, "lightDir")
	s.highlight = rl.GetShaderLocation(s.shader, "highlight")

	// Constant uniforms are set once; arrays are copied so cgo never sees package globals.
	amb := ambientColor
	col := lightColor
	if loc := rl.GetShaderLocation(s.shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(s.shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(s.shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(s.shader, loc, col[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(s.shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(s.shader, loc, []float32{lightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(s.shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(s.shader, loc, []float32{specularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(s.shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(s.shader, loc, []float32{specularStrength}, rl.ShaderUniformFloat)
	}
	return s
}

func (s litShader) valid() bool { return rl.IsShaderValid(s.shader) }

// setView updates the per-frame uniforms.
func (s litShader) setView(viewPos, lightDir [3]float32) {
	if !s.valid() {
		return
	}
	if s.viewPos >= 0 {
		rl.SetShaderValueV(s.shader, s.viewPos, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if s.lightDir >= 0 {
		rl.SetShaderValueV(s.shader, s.lightDir, lightDir[:], rl.ShaderUniformVec3, 1)
	}
}

func (s litShader) setHighlight(on bool) {
	if !s.valid() || s.highlight < 0 {
		return
	}
	v := float32(0)
	if on {
		v = 1
	}
	rl.SetShaderValue(s.shader, s.highlight, []float32{v}, rl.ShaderUniformFloat)
}

func (s litShader) unload() {
	if s.valid() {
		rl.UnloadShader(s.shader)
	}
}
