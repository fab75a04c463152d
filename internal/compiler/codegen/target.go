// Package codegen defines the code generation targets a Sylvre program can be
// emitted to. Each target lives in its own subpackage and registers a
// Generator factory here; the parser and AST know nothing about targets.
package codegen

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sylvre-lang/sylvre/internal/compiler/ast"
	cerrors "github.com/sylvre-lang/sylvre/internal/compiler/errors"
)

// Target names a code generation target language
type Target string

// JavaScript is the only target shipped with the compiler
const JavaScript Target = "javascript"

// ErrUnknownTarget is returned when no generator is registered for a target
var ErrUnknownTarget = errors.New("unknown code generation target")

// Output is the result of generating one program
type Output struct {
	Code   string                   `json:"code"`
	Errors []cerrors.TranspileError `json:"errors"`
}

// HasErrors reports whether generation rejected any construct
func (o *Output) HasErrors() bool {
	return len(o.Errors) != 0
}

// Generator emits target code for a parsed program. A Generator is used for
// a single call to Generate.
type Generator interface {
	Generate(program *ast.Program) *Output
}

// Factory creates a fresh Generator
type Factory func() Generator

var (
	registryMu sync.RWMutex
	registry   = map[Target]Factory{}
)

// Register makes a target available. Registering the same target twice
// replaces the earlier factory.
func Register(target Target, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[target] = factory
}

// Lookup returns a new generator for target
func Lookup(target Target) (Generator, error) {
	registryMu.RLock()
	factory, ok := registry[target]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	return factory(), nil
}

// IsRegistered reports whether target has a generator
func IsRegistered(target Target) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[target]
	return ok
}

// Targets returns all registered targets sorted by name
func Targets() []Target {
	registryMu.RLock()
	defer registryMu.RUnlock()

	targets := make([]Target, 0, len(registry))
	for target := range registry {
		targets = append(targets, target)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets
}
