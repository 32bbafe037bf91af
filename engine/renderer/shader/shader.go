package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader serves.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
// It holds the expanded source and everything reflected from it.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              map[int][]wgpu.VertexBufferLayout
	entryPoint                 string

	includes map[string]string
	defines  map[string]string
}

// Shader defines the interface for a pre-processed and reflected WGSL shader stage. It exposes
// the expanded source, entry point, bind group layout descriptors and vertex buffer layouts
// needed for pipeline creation and bind group wiring.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as its debug label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL source after include and define expansion.
	//
	// Returns:
	//   - string: the expanded WGSL source
	Source() string

	// ShaderType returns the stage this shader serves.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader's stage.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// BindGroupLayoutDescriptors retrieves all reflected bind group layout descriptors.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupFromVarName retrieves the binding index of a variable within a group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayouts retrieves the reflected vertex buffer layouts keyed by buffer slot.
	// Empty for fragment shaders and for vertex shaders that pull all data from storage buffers.
	//
	// Returns:
	//   - map[int][]wgpu.VertexBufferLayout: layouts keyed by slot
	VertexLayouts() map[int][]wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShader expands and reflects WGSL source. Failure to expand the source or to find an
// entry point for the stage is a configuration error and panics.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the shader serves
//   - source: the raw WGSL source, usually embedded with go:embed
//   - options: include and define registries
//
// Returns:
//   - Shader: the reflected shader
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) Shader {
	s := &shader{
		key:        key,
		shaderType: shaderType,
		includes:   make(map[string]string),
		defines:    make(map[string]string),
	}
	for _, opt := range options {
		opt(s)
	}

	processed, err := NewPreProcessor(s.includes, s.defines).Process(source)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to pre-process %s: %v", key, err))
	}
	s.source = processed
	s.entryPoint = parseEntryPoint(processed, shaderType)
	if s.entryPoint == "" {
		panic(fmt.Sprintf("shader: %s has no entry point for its stage", key))
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(processed)
	} else {
		s.vertexLayouts = make(map[int][]wgpu.VertexBufferLayout)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(processed, visibility)
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayouts() map[int][]wgpu.VertexBufferLayout {
	return s.vertexLayouts
}
