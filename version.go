package alncol

import "fmt"

// Version of the output format. The major number changes whenever a field
// is added to or removed from the lines written by Writer.
const (
	FormatMajor = 1
	FormatMinor = 0
)

// FormatVersion returns the version of the output format.
func FormatVersion() string {
	return fmt.Sprintf("%d.%d", FormatMajor, FormatMinor)
}
