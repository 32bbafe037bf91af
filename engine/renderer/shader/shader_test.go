package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const vertexStruct = `struct VertexInput {
    @location(0) position: vec3f,
    @location(1) normal: vec3f,
    @location(2) color: vec3f,
}`

const cameraStruct = `struct CameraUniform {
    view_proj: mat4x4f,
    position: vec3f,
}`

const testVertexSource = `//@oxy:include vertex
//@oxy:include camera

struct VertexOutput {
    @builtin(position) clip: vec4f,
    @location(0) color: vec3f,
}

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<storage, read> offsets: array<vec4f>;

@vertex
fn vs_main(in: VertexInput, @builtin(instance_index) i: u32) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.view_proj * vec4f(in.position + offsets[i].xyz, 1.0);
    out.color = in.color;
    return out;
}
`

const testFragmentSource = `@group(0) @binding(0) var albedo: {{COLOR_TEXTURE}};
@group(0) @binding(1) var depth: {{DEPTH_TEXTURE}};

@fragment
fn fs_main(@builtin(position) p: vec4f) -> @location(0) vec4f {
    var sum = vec4f(0.0);
    for (var i = 0; i < {{SAMPLE_COUNT}}; i++) {
        sum += textureLoad(albedo, vec2i(p.xy), i);
    }
    return sum;
}
`

func TestPreProcessorIncludesAndDefines(t *testing.T) {
	pp := NewPreProcessor(
		map[string]string{"a": "A\n//@oxy:include b", "b": "B"},
		map[string]string{"N": "4"},
	)
	got, err := pp.Process("//@oxy:include a\nlet n = {{N}};\n{{ N }}")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if want := "A\nB\nlet n = 4;\n4"; got != want {
		t.Errorf("Process = %q, want %q", got, want)
	}
}

func TestPreProcessorErrors(t *testing.T) {
	tests := []struct {
		name     string
		includes map[string]string
		source   string
		wantErr  string
	}{
		{"unknown include", nil, "x\n//@oxy:include missing", `line 2: unknown include "missing"`},
		{"empty include", nil, "//@oxy:include", "include without a name"},
		{"cycle", map[string]string{"a": "//@oxy:include b", "b": "//@oxy:include a"}, "//@oxy:include a", "include cycle"},
		{"unknown define", nil, "let x = {{NOPE}};", `unknown define "NOPE"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPreProcessor(tt.includes, nil).Process(tt.source)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewShaderReflectsVertexStage(t *testing.T) {
	s := NewShader("test_vs", ShaderTypeVertex, testVertexSource,
		WithInclude("vertex", vertexStruct),
		WithIncludes(map[string]string{"camera": cameraStruct}),
	)

	if s.EntryPoint() != "vs_main" {
		t.Errorf("entry point = %q, want vs_main", s.EntryPoint())
	}

	layouts := s.VertexLayouts()
	if len(layouts) != 1 {
		t.Fatalf("got %d vertex layouts, want 1 (the output struct has a builtin)", len(layouts))
	}
	vl := layouts[0][0]
	if vl.ArrayStride != 36 || len(vl.Attributes) != 3 {
		t.Errorf("layout stride %d with %d attributes, want 36 and 3", vl.ArrayStride, len(vl.Attributes))
	}
	if vl.Attributes[2].Offset != 24 || vl.Attributes[2].Format != wgpu.VertexFormatFloat32x3 {
		t.Errorf("color attribute = %+v", vl.Attributes[2])
	}

	groups := s.BindGroupLayoutDescriptors()
	cam := groups[0].Entries[0]
	if cam.Buffer.Type != wgpu.BufferBindingTypeUniform || cam.Buffer.MinBindingSize != 80 {
		t.Errorf("camera entry = %+v, want an 80-byte uniform", cam.Buffer)
	}
	if cam.Visibility != wgpu.ShaderStageVertex {
		t.Errorf("camera visibility = %v, want vertex", cam.Visibility)
	}
	off := groups[1].Entries[0]
	if off.Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage || off.Buffer.MinBindingSize != 16 {
		t.Errorf("offsets entry = %+v, want read-only storage with a 16-byte stride", off.Buffer)
	}

	if b, ok := s.BindGroupFromVarName(1, "offsets"); !ok || b != 0 {
		t.Errorf("BindGroupFromVarName(1, offsets) = %d, %v", b, ok)
	}
	if _, ok := s.BindGroupFromVarName(0, "missing"); ok {
		t.Error("unknown variable should not be found")
	}
}

func TestNewShaderSampleVariants(t *testing.T) {
	tests := []struct {
		samples      uint32
		multisampled bool
		sampleType   wgpu.TextureSampleType
		loop         string
	}{
		{4, true, wgpu.TextureSampleTypeUnfilterableFloat, "i < 4;"},
		{1, false, wgpu.TextureSampleTypeFloat, "i < 1;"},
	}
	for _, tt := range tests {
		s := NewShader("test_fs", ShaderTypeFragment, testFragmentSource, WithDefines(SampleDefines(tt.samples)))
		entries := s.BindGroupLayoutDescriptors()[0].Entries
		if len(entries) != 2 {
			t.Fatalf("samples=%d: got %d entries, want 2", tt.samples, len(entries))
		}
		color, depth := entries[0].Texture, entries[1].Texture
		if color.Multisampled != tt.multisampled || color.SampleType != tt.sampleType {
			t.Errorf("samples=%d: color texture = %+v", tt.samples, color)
		}
		if depth.SampleType != wgpu.TextureSampleTypeDepth || depth.Multisampled != tt.multisampled {
			t.Errorf("samples=%d: depth texture = %+v", tt.samples, depth)
		}
		if !strings.Contains(s.Source(), tt.loop) {
			t.Errorf("samples=%d: expanded source is missing %q", tt.samples, tt.loop)
		}
		if entries[0].Visibility != wgpu.ShaderStageFragment {
			t.Errorf("samples=%d: visibility = %v, want fragment", tt.samples, entries[0].Visibility)
		}
	}
}

func TestNewShaderPanicsWithoutEntryPoint(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a fragment shader without @fragment")
		}
	}()
	NewShader("broken", ShaderTypeFragment, "fn helper() {}")
}
