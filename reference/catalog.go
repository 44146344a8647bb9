// Package reference keeps track of the reference sequences declared by the
// input alignment files.
package reference

import (
	"strings"

	"github.com/biogo/store/llrb"
)

// FileRef identifies a reference within one input file.
type FileRef struct {
	FileID int
	RefID  int
}

// Ref is a reference sequence and the input files that declare it.
type Ref struct {
	Name  string
	Len   int
	Files []FileRef
	Seq   string
}

// Compare orders references by name for use in llrb.
func (r *Ref) Compare(c llrb.Comparable) int {
	return strings.Compare(r.Name, c.(*Ref).Name)
}

// Base returns the reference base at 0-based position pos, or 'N' when
// the sequence is unknown at that position.
func (r *Ref) Base(pos int) byte {
	if pos < 0 || pos >= len(r.Seq) {
		return 'N'
	}
	return r.Seq[pos]
}

// Catalog holds the references of a dataset ordered by name.
type Catalog struct {
	byName llrb.Tree
	byFile map[FileRef]*Ref
}

func NewCatalog() *Catalog {
	return &Catalog{
		byFile: make(map[FileRef]*Ref),
	}
}

// Add records that file fileID declares reference name with id refID.
func (c *Catalog) Add(name string, length int, fr FileRef) *Ref {
	ref := c.Get(name)
	if ref == nil {
		ref = &Ref{Name: name, Len: length}
		c.byName.Insert(ref)
	}
	if length > ref.Len {
		ref.Len = length
	}
	ref.Files = append(ref.Files, fr)
	c.byFile[fr] = ref
	return ref
}

// Get returns the reference with the given name, or nil.
func (c *Catalog) Get(name string) *Ref {
	if r := c.byName.Get(&Ref{Name: name}); r != nil {
		return r.(*Ref)
	}
	return nil
}

// Lookup returns the reference declared by file fileID with id refID.
func (c *Catalog) Lookup(fileID, refID int) (*Ref, bool) {
	r, ok := c.byFile[FileRef{fileID, refID}]
	return r, ok
}

// Len returns the number of distinct references.
func (c *Catalog) Len() int {
	return c.byName.Len()
}

// Refs returns the references in name order.
func (c *Catalog) Refs() []*Ref {
	refs := make([]*Ref, 0, c.byName.Len())
	c.byName.Do(func(item llrb.Comparable) bool {
		refs = append(refs, item.(*Ref))
		return false
	})
	return refs
}
