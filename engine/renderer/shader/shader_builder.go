package shader

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithInclude registers a WGSL source for `//@oxy:include name` lines.
//
// Parameters:
//   - name: the include name
//   - source: the WGSL text spliced in place of the directive
//
// Returns:
//   - ShaderBuilderOption: a function that registers the include
func WithInclude(name, source string) ShaderBuilderOption {
	return func(s *shader) {
		s.includes[name] = source
	}
}

// WithIncludes registers every entry of includes. Later entries override earlier ones.
//
// Parameters:
//   - includes: WGSL sources keyed by include name
//
// Returns:
//   - ShaderBuilderOption: a function that registers the includes
func WithIncludes(includes map[string]string) ShaderBuilderOption {
	return func(s *shader) {
		for k, v := range includes {
			s.includes[k] = v
		}
	}
}

// WithDefine registers the replacement for `{{name}}` placeholders.
//
// Parameters:
//   - name: the placeholder name
//   - value: the replacement text
//
// Returns:
//   - ShaderBuilderOption: a function that registers the define
func WithDefine(name, value string) ShaderBuilderOption {
	return func(s *shader) {
		s.defines[name] = value
	}
}

// WithDefines registers every entry of defines.
//
// Parameters:
//   - defines: replacement text keyed by placeholder name
//
// Returns:
//   - ShaderBuilderOption: a function that registers the defines
func WithDefines(defines map[string]string) ShaderBuilderOption {
	return func(s *shader) {
		for k, v := range defines {
			s.defines[k] = v
		}
	}
}
