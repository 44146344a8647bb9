package reference

import (
	"strings"

	"github.com/biogo/hts/sam"
	alnsam "github.com/guigolab/alncol/sam"
	log "github.com/sirupsen/logrus"
)

// Illumina is the read group platform for which sampling is reliable.
const Illumina = "ILLUMINA"

var platformTag = sam.NewTag("PL")

// Platforms is the set of sequencing platforms declared by read groups.
type Platforms map[string]struct{}

// OnlyIllumina reports whether every declared platform is Illumina.
// A dataset with no read group platform counts as Illumina.
func (p Platforms) OnlyIllumina() bool {
	for pl := range p {
		if pl != Illumina {
			return false
		}
	}
	return true
}

// ParseHeaders reads the header of every file of src and builds the
// reference catalog. Files not sorted by coordinate are reported but
// still accepted.
func ParseHeaders(src *alnsam.Source) (*Catalog, Platforms, error) {
	catalog := NewCatalog()
	platforms := make(Platforms)
	for fileID := 0; fileID < src.Len(); fileID++ {
		r, err := src.Open(fileID)
		if err != nil {
			return nil, nil, err
		}
		h := r.Header()
		if h.SortOrder != sam.Coordinate {
			log.WithFields(log.Fields{
				"File":      src.Files[fileID],
				"SortOrder": h.SortOrder.String(),
			}).Warn("Alignments are not sorted by coordinate")
		}
		for _, ref := range h.Refs() {
			catalog.Add(ref.Name(), ref.Len(), FileRef{FileID: fileID, RefID: ref.ID()})
		}
		for _, rg := range h.RGs() {
			if pl := rg.Get(platformTag); pl != "" {
				platforms[strings.ToUpper(pl)] = struct{}{}
			}
		}
		if err := r.Close(); err != nil {
			return nil, nil, err
		}
	}
	log.WithFields(log.Fields{
		"References": catalog.Len(),
		"Files":      src.Len(),
	}).Debug("Headers parsed")
	return catalog, platforms, nil
}
