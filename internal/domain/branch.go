package domain

import (
	"strings"
	"time"
)

type Branch struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// branchQualifier is the leading particle employees prefix to branch names
// in free text ("branch of ..."). It must be stripped before matching.
const branchQualifier = "فرع"

// Directory is the fixed, ordered set of canonical branch names. It is built
// once at startup from configuration and never mutated afterwards.
type Directory struct {
	names []string
	index map[string]struct{}
}

func NewDirectory(names []string) *Directory {
	d := &Directory{
		names: make([]string, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	copy(d.names, names)
	for _, n := range names {
		d.index[n] = struct{}{}
	}
	return d
}

// List returns the canonical names in directory order.
func (d *Directory) List() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

func (d *Directory) Contains(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Normalize strips the leading branch qualifier and surrounding whitespace,
// then requires an exact match against the directory. No fuzzy or
// case-insensitive matching: a near-miss is safer rejected than guessed.
func (d *Directory) Normalize(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	name = strings.TrimSpace(strings.TrimPrefix(name, branchQualifier+" "))
	if name == "" {
		return "", false
	}
	if !d.Contains(name) {
		return "", false
	}
	return name, true
}
