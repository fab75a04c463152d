// Package stdlib provides the static registry of the Sylvre library: the
// modules reachable through the `Sylvre` namespace, their members, and the
// identifiers each target reserves. Tables are loaded from embedded YAML
// once per target and are read-only afterwards.
package stdlib

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// LibraryName is the base identifier that introduces a library reference
const LibraryName = "Sylvre"

//go:embed data/*.yaml
var dataFS embed.FS

// MemberDef maps a Sylvre module member to its target equivalent
type MemberDef struct {
	Name        string `yaml:"name" json:"name"`
	Target      string `yaml:"target" json:"target"`
	Description string `yaml:"description" json:"description"`
}

// ModuleDef maps a Sylvre module to its target namespace. An empty
// namespace means members are emitted unqualified.
type ModuleDef struct {
	Name        string      `yaml:"name" json:"name"`
	Namespace   string      `yaml:"namespace" json:"namespace"`
	Description string      `yaml:"description" json:"description"`
	Members     []MemberDef `yaml:"members" json:"members"`
}

// Registry is the library binding table and reserved-word table for one target
type Registry struct {
	target   string
	modules  []*ModuleDef
	byName   map[string]*ModuleDef
	members  map[string]map[string]MemberDef
	reserved map[string]struct{}
}

type registryFile struct {
	Target   string      `yaml:"target"`
	Modules  []ModuleDef `yaml:"modules"`
	Reserved []string    `yaml:"reserved"`
}

var (
	registriesMu sync.Mutex
	registries   = map[string]*registryOnce{}
)

type registryOnce struct {
	once sync.Once
	reg  *Registry
	err  error
}

// ForTarget returns the registry embedded for target, loading it on first use
func ForTarget(target string) (*Registry, error) {
	registriesMu.Lock()
	entry, ok := registries[target]
	if !ok {
		entry = &registryOnce{}
		registries[target] = entry
	}
	registriesMu.Unlock()

	entry.once.Do(func() {
		data, err := dataFS.ReadFile("data/" + target + ".yaml")
		if err != nil {
			entry.err = fmt.Errorf("no library table for target %q", target)
			return
		}
		entry.reg, entry.err = Parse(data)
	})
	return entry.reg, entry.err
}

// JavaScript returns the JavaScript registry. The table is embedded, so a
// load failure is a build defect and panics.
func JavaScript() *Registry {
	reg, err := ForTarget("javascript")
	if err != nil {
		panic(fmt.Sprintf("stdlib: %v", err))
	}
	return reg
}

// Parse builds a registry from a YAML table
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing library table: %w", err)
	}

	reg := &Registry{
		target:   file.Target,
		modules:  make([]*ModuleDef, 0, len(file.Modules)),
		byName:   make(map[string]*ModuleDef, len(file.Modules)),
		members:  make(map[string]map[string]MemberDef, len(file.Modules)),
		reserved: make(map[string]struct{}, len(file.Reserved)),
	}

	for i := range file.Modules {
		module := &file.Modules[i]
		if module.Name == "" {
			return nil, fmt.Errorf("library table: module %d has no name", i)
		}
		if _, dup := reg.byName[module.Name]; dup {
			return nil, fmt.Errorf("library table: duplicate module %s", module.Name)
		}

		members := make(map[string]MemberDef, len(module.Members))
		for _, member := range module.Members {
			if member.Name == "" || member.Target == "" {
				return nil, fmt.Errorf("library table: incomplete member in module %s", module.Name)
			}
			if _, dup := members[member.Name]; dup {
				return nil, fmt.Errorf("library table: duplicate member %s.%s", module.Name, member.Name)
			}
			members[member.Name] = member
		}

		reg.modules = append(reg.modules, module)
		reg.byName[module.Name] = module
		reg.members[module.Name] = members
	}

	for _, word := range file.Reserved {
		reg.reserved[word] = struct{}{}
	}

	return reg, nil
}

// Target returns the code generation target this table belongs to
func (r *Registry) Target() string {
	return r.target
}

// Module looks up a module by its exact, case-sensitive name
func (r *Registry) Module(name string) (*ModuleDef, bool) {
	module, ok := r.byName[name]
	return module, ok
}

// Member looks up a member of module
func (r *Registry) Member(module, member string) (MemberDef, bool) {
	members, ok := r.members[module]
	if !ok {
		return MemberDef{}, false
	}
	def, ok := members[member]
	return def, ok
}

// Modules returns all modules in table order
func (r *Registry) Modules() []*ModuleDef {
	return r.modules
}

// GetNamespaces returns a sorted list of all module names
func (r *Registry) GetNamespaces() []string {
	names := make([]string, 0, len(r.modules))
	for _, module := range r.modules {
		names = append(names, module.Name)
	}
	sort.Strings(names)
	return names
}

// TotalMemberCount returns the number of members across all modules
func (r *Registry) TotalMemberCount() int {
	total := 0
	for _, module := range r.modules {
		total += len(module.Members)
	}
	return total
}

// IsReserved reports whether name collides with a reserved word of the target
func (r *Registry) IsReserved(name string) bool {
	_, ok := r.reserved[name]
	return ok
}

// ReservedWords returns the reserved words sorted
func (r *Registry) ReservedWords() []string {
	words := make([]string, 0, len(r.reserved))
	for word := range r.reserved {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}
