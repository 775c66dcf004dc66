package debug

import (
	"fmt"
	"sync"

	"github.com/vertere-lang/vertere/compiler/codegen"
)

// SourceMap is the line-level correspondence between one Source file and
// one generated-target file, built directly from a codegen.Result's
// SourceMap slice.
type SourceMap struct {
	SourceFile    string
	GeneratedFile string
	Mappings      []codegen.SourceMapping
}

// FromCompileResult builds a SourceMap from one Generate call's result,
// so a debugger session can be seeded straight off a compile without a
// separate serialization step.
func FromCompileResult(sourceFile, generatedFile string, result codegen.Result) *SourceMap {
	return &SourceMap{SourceFile: sourceFile, GeneratedFile: generatedFile, Mappings: result.SourceMap}
}

// Registry indexes SourceMaps by source file, for a debug session that
// spans more than one compiled file.
type Registry struct {
	maps  map[string]*SourceMap
	mutex sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{maps: make(map[string]*SourceMap)}
}

// Register adds or replaces the SourceMap for sm.SourceFile.
func (r *Registry) Register(sm *SourceMap) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.maps[sm.SourceFile] = sm
}

// Get retrieves the SourceMap registered for sourceFile.
func (r *Registry) Get(sourceFile string) (*SourceMap, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	sm, ok := r.maps[sourceFile]
	return sm, ok
}

// TranslateBreakpoint resolves a Source-line breakpoint to the closest
// generated-target line, for setting in an external debugger attached to
// the compiled output.
func (r *Registry) TranslateBreakpoint(sourceFile string, sourceLine int) (*Breakpoint, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	sm, ok := r.maps[sourceFile]
	if !ok {
		return nil, fmt.Errorf("no source map for %s", sourceFile)
	}

	best, ok := closestByDistance(sm.Mappings, func(m codegen.SourceMapping) int { return m.SourcePos.Line }, sourceLine)
	if !ok {
		return nil, fmt.Errorf("no mapping found for line %d in %s", sourceLine, sourceFile)
	}

	return &Breakpoint{
		SourceFile:    sourceFile,
		SourceLine:    best.SourcePos.Line,
		GeneratedFile: sm.GeneratedFile,
		GeneratedLine: best.GeneratedLine,
	}, nil
}

// TranslateLocation resolves a generated-target line (as reported by a
// debugger stopped in the generated code) back to its Source file, line,
// and column.
func (r *Registry) TranslateLocation(generatedFile string, generatedLine int) (string, int, int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var sm *SourceMap
	for _, candidate := range r.maps {
		if candidate.GeneratedFile == generatedFile {
			sm = candidate
			break
		}
	}
	if sm == nil {
		return "", 0, 0, fmt.Errorf("no source map for generated file %s", generatedFile)
	}

	best, ok := closestByDistance(sm.Mappings, func(m codegen.SourceMapping) int { return m.GeneratedLine }, generatedLine)
	if !ok {
		return "", 0, 0, fmt.Errorf("no mapping found for generated line %d in %s", generatedLine, generatedFile)
	}
	return sm.SourceFile, best.SourcePos.Line, best.SourcePos.Column, nil
}

// closestByDistance returns the mapping whose key(m) is nearest to target,
// preferring an exact match.
func closestByDistance(mappings []codegen.SourceMapping, key func(codegen.SourceMapping) int, target int) (codegen.SourceMapping, bool) {
	var best codegen.SourceMapping
	found := false
	minDistance := int(^uint(0) >> 1)
	for _, m := range mappings {
		if key(m) == target {
			return m, true
		}
		if d := abs(key(m) - target); d < minDistance {
			minDistance = d
			best = m
			found = true
		}
	}
	return best, found
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
