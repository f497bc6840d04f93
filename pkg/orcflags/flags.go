// Package orcflags parses the compiler's single configuration surface:
// a comma-separated flag string, cached once at startup (spec §4.1).
package orcflags

import "strings"

// Recognized flag names.
const (
	Backup = "backup"
	Debug  = "debug"
)

// Flags answers "is flag X set?" against a cached, comma-split set.
type Flags struct {
	set map[string]bool
}

// New splits cfg on commas into a set of tokens, trimming whitespace
// and ignoring empty tokens.
func New(cfg string) *Flags {
	f := &Flags{set: make(map[string]bool)}
	for _, tok := range strings.Split(cfg, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			f.set[tok] = true
		}
	}
	return f
}

// Has reports whether name was present in the configuration string.
func (f *Flags) Has(name string) bool {
	if f == nil {
		return false
	}
	return f.set[name]
}

// Backup reports whether the "backup" flag is set.
func (f *Flags) Backup() bool { return f.Has(Backup) }

// Debug reports whether the "debug" flag is set.
func (f *Flags) Debug() bool { return f.Has(Debug) }
