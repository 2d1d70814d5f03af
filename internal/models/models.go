package models

import "math/big"

// FlagDefinition is one named constant read from a `#define NAME VALUE` line.
// Value is arbitrary precision so oversized masks render in full.
type FlagDefinition struct {
	Name  string
	Value *big.Int
}

// NewFlagDefinition builds a FlagDefinition from a machine-sized value.
func NewFlagDefinition(name string, value int64) FlagDefinition {
	return FlagDefinition{Name: name, Value: big.NewInt(value)}
}

// EntryKind classifies a filesystem path at the moment it is visited.
type EntryKind int

const (
	EntryMissing EntryKind = iota
	EntryFile
	EntryDirectory
)

func (k EntryKind) String() string {
	switch k {
	case EntryFile:
		return "file"
	case EntryDirectory:
		return "directory"
	default:
		return "missing"
	}
}

// Report collects what a canonicalizer run did to each path it looked at.
type Report struct {
	Formatted []string // rewritten, or in diff mode: would be rewritten
	Unchanged []string // already canonical (diff mode only)
	Skipped   []string // extension did not match
}

// Count is the number of files reported as formatted.
func (r Report) Count() int {
	return len(r.Formatted)
}
