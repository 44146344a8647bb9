package reference

import (
	"os"
	"strings"

	"github.com/guigolab/alncol/fatal"
	log "github.com/sirupsen/logrus"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/fasta"
)

// Fill loads the sequences of the catalog references from a FASTA file.
// Records are matched on the first word of their name. Records with no
// matching reference are reported and skipped.
func (c *Catalog) Fill(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fatal.Wrap(fatal.FileOpen, "reference.Fill", err)
	}
	filled := 0
	for _, rec := range fasta.Read(path) {
		name := rec.Name
		if f := strings.Fields(name); len(f) > 0 {
			name = f[0]
		}
		ref := c.Get(name)
		if ref == nil {
			log.WithFields(log.Fields{
				"Name": name,
				"File": path,
			}).Warn("Sequence does not match any reference of the alignments")
			continue
		}
		ref.Seq = strings.ToUpper(dna.BasesToString(rec.Seq))
		if len(ref.Seq) != ref.Len {
			log.WithFields(log.Fields{
				"Name":   name,
				"Header": ref.Len,
				"Fasta":  len(ref.Seq),
			}).Warn("Reference length differs between alignments and sequence")
		}
		filled++
	}
	log.WithFields(log.Fields{
		"File":       path,
		"References": filled,
	}).Debug("Reference sequences loaded")
	return nil
}
