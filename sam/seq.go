package sam

// complement maps A/C/G/T (either case) to the upper case complement and
// everything else to 'N'.
var complement [256]byte

func init() {
	for i := range complement {
		complement[i] = 'N'
	}
	for _, p := range [][2]byte{{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'}} {
		complement[p[0]] = p[1]
		complement[p[0]+'a'-'A'] = p[1]
	}
}

// Complement returns the complement of base b. Non-nucleotides become 'N'.
func Complement(b byte) byte {
	return complement[b]
}

// ReverseComplement writes the reverse-complement of src to dst.
// It panics if len(dst) != len(src).
func ReverseComplement(dst, src []byte) {
	if len(dst) != len(src) {
		panic("sam: ReverseComplement requires len(dst) == len(src)")
	}
	n := len(src)
	for i, b := range src {
		dst[n-1-i] = complement[b]
	}
}

// IsNucleotide reports whether b is one of A, C, G or T in upper case.
func IsNucleotide(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}

// IsNucleotides reports whether every byte of s is a nucleotide.
func IsNucleotides(s []byte) bool {
	for _, b := range s {
		if !IsNucleotide(b) {
			return false
		}
	}
	return true
}
