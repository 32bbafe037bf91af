// pre_processor.go implements the Oxy WGSL pre-processor. It expands two constructs
// before reflection runs:
//
//   - `//@oxy:include <name>` on a line of its own is replaced with the registered WGSL
//     source for name. Includes may include other sources; a cycle is an error.
//   - `{{NAME}}` anywhere in a line is replaced with the registered define for NAME.
//     Defines are how one source serves both multisampled and single-sampled targets.
//
// Registries are supplied by the caller, so GPU struct owners (camera, light, tilemap)
// never import this package.
package shader

import (
	"fmt"
	"regexp"
	"strings"
)

// includeDirective is the line prefix that marks an include.
const includeDirective = "//@oxy:include"

// defineRegex matches {{NAME}} placeholders.
var defineRegex = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	includes map[string]string
	defines  map[string]string
}

// PreProcessor expands include directives and define placeholders in WGSL source.
type PreProcessor interface {
	// Process expands every include and placeholder in source.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error naming the line of an unknown include, an include cycle, or an unknown define
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor over the given registries. Either map may be nil.
//
// Parameters:
//   - includes: WGSL sources keyed by include name
//   - defines: replacement text keyed by placeholder name
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(includes, defines map[string]string) PreProcessor {
	return &preProcessor{includes: includes, defines: defines}
}

func (p *preProcessor) Process(source string) (string, error) {
	expanded, err := p.expand(source, nil)
	if err != nil {
		return "", err
	}
	return p.substitute(expanded)
}

// expand replaces include lines recursively. stack holds the includes being expanded.
func (p *preProcessor) expand(source string, stack []string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
		if !ok {
			out = append(out, line)
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return "", fmt.Errorf("line %d: include without a name", i+1)
		}
		for _, open := range stack {
			if open == name {
				return "", fmt.Errorf("line %d: include cycle through %q", i+1, name)
			}
		}
		body, ok := p.includes[name]
		if !ok {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, name)
		}
		nested, err := p.expand(body, append(stack, name))
		if err != nil {
			return "", fmt.Errorf("include %q: %w", name, err)
		}
		out = append(out, nested)
	}
	return strings.Join(out, "\n"), nil
}

// substitute replaces {{NAME}} placeholders, failing on the first unknown name.
func (p *preProcessor) substitute(source string) (string, error) {
	var missing string
	result := defineRegex.ReplaceAllStringFunc(source, func(m string) string {
		name := defineRegex.FindStringSubmatch(m)[1]
		v, ok := p.defines[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("unknown define %q", missing)
	}
	return result, nil
}
