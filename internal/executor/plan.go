package executor

import (
	"path/filepath"
	"sort"
)

// Plan is the language-specific recipe for one execution: an optional
// compile step plus a run step, all rooted in a per-request scratch dir.
type Plan struct {
	Language string
	// SourceName pins the entry-point filename when the toolchain requires
	// one (javac). Empty means "main"+Ext.
	SourceName string
	Ext        string

	// CompileArgv returns the compiler invocation, or nil for direct-run.
	CompileArgv func(dir, source string) []string
	// RunArgv returns the run invocation for the (possibly compiled) program.
	RunArgv func(dir, source string) []string
}

// NeedsCompile reports whether the plan has a separate compile step.
func (p Plan) NeedsCompile() bool {
	return p.CompileArgv != nil
}

// SourceFile returns the path the submitted code must be written to.
func (p Plan) SourceFile(dir string) string {
	if p.SourceName != "" {
		return filepath.Join(dir, p.SourceName)
	}
	return filepath.Join(dir, "main"+p.Ext)
}

// Registry maps language identifiers to execution plans. Pure lookup, no
// process state.
type Registry struct {
	plans map[string]Plan
}

// NewRegistry returns the built-in toolchain table.
func NewRegistry() *Registry {
	r := &Registry{plans: make(map[string]Plan)}

	r.add(Plan{
		Language: "javascript",
		Ext:      ".js",
		RunArgv: func(dir, source string) []string {
			return []string{"node", source}
		},
	})
	r.add(Plan{
		Language: "python",
		Ext:      ".py",
		RunArgv: func(dir, source string) []string {
			return []string{"python3", source}
		},
	})
	r.add(Plan{
		Language: "c",
		Ext:      ".c",
		CompileArgv: func(dir, source string) []string {
			return []string{"gcc", source, "-o", filepath.Join(dir, "a.out")}
		},
		RunArgv: func(dir, source string) []string {
			return []string{filepath.Join(dir, "a.out")}
		},
	})
	r.add(Plan{
		Language: "cpp",
		Ext:      ".cpp",
		CompileArgv: func(dir, source string) []string {
			return []string{"g++", source, "-o", filepath.Join(dir, "a.out")}
		},
		RunArgv: func(dir, source string) []string {
			return []string{filepath.Join(dir, "a.out")}
		},
	})
	r.add(Plan{
		Language:   "java",
		SourceName: "Main.java",
		Ext:        ".java",
		CompileArgv: func(dir, source string) []string {
			return []string{"javac", source}
		},
		RunArgv: func(dir, source string) []string {
			return []string{"java", "-cp", dir, "Main"}
		},
	})

	return r
}

func (r *Registry) add(p Plan) {
	r.plans[p.Language] = p
}

// Lookup resolves a language identifier to its plan.
func (r *Registry) Lookup(language string) (Plan, bool) {
	p, ok := r.plans[language]
	return p, ok
}

// Languages lists supported identifiers in sorted order.
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.plans))
	for lang := range r.plans {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
