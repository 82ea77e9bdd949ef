package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/taigrr/airframe/pkg/render"
)

// maxLights is the number of directional lights the shader evaluates.
const maxLights = 4

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aColor;

uniform mat4 uModel;
uniform mat4 uViewProj;

out vec3 vNormal;
out vec4 vColor;

void main() {
    vNormal = mat3(uModel) * aNormal;
    vColor = aColor;
    gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
}
`

const fragmentShaderTemplate = `#version 410 core
precision %s float;

in vec3 vNormal;
in vec4 vColor;

uniform vec3 uAmbient;
uniform int uLightCount;
uniform vec3 uLightDir[%d];
uniform vec3 uLightColor[%d];

out vec4 FragColor;

void main() {
    vec3 normal = normalize(vNormal);
    vec3 light = uAmbient;
    for (int i = 0; i < uLightCount; i++) {
        light += uLightColor[i] * max(dot(normal, uLightDir[i]), 0.0);
    }
    FragColor = vec4(clamp(light * vColor.rgb, 0.0, 1.0), vColor.a);
}
`

// shaderSources returns the lambert program sources for precision p.
func shaderSources(p render.Precision) (vertex, fragment string) {
	return vertexShaderSource, fmt.Sprintf(fragmentShaderTemplate, p.Qualifier(), maxLights, maxLights)
}

// program is the linked lambert program and its uniform locations.
type program struct {
	id         uint32
	model      int32
	viewProj   int32
	ambient    int32
	lightCount int32
	lightDir   int32
	lightColor int32
}

func newProgram(p render.Precision) (*program, error) {
	vs, fs := shaderSources(p)
	id, err := compileProgram(vs, fs)
	if err != nil {
		return nil, err
	}
	return &program{
		id:         id,
		model:      uniform(id, "uModel"),
		viewProj:   uniform(id, "uViewProj"),
		ambient:    uniform(id, "uAmbient"),
		lightCount: uniform(id, "uLightCount"),
		lightDir:   uniform(id, "uLightDir"),
		lightColor: uniform(id, "uLightColor"),
	}, nil
}

func (p *program) delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return id, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
