// Package timestamp renders the template tokens used in collector
// timestamps and archive title placeholders.
package timestamp

import (
	"fmt"
	"strings"
	"time"
)

// Format replaces the tokens YYYY, MM, DD, HH and mm (case-sensitive) in
// template with the zero-padded calendar fields of now. Any other text
// passes through unchanged. The tokens are disjoint, so a single
// non-overlapping pass is sufficient.
func Format(template string, now time.Time) string {
	r := strings.NewReplacer(
		"YYYY", fmt.Sprintf("%04d", now.Year()),
		"MM", fmt.Sprintf("%02d", int(now.Month())),
		"DD", fmt.Sprintf("%02d", now.Day()),
		"HH", fmt.Sprintf("%02d", now.Hour()),
		"mm", fmt.Sprintf("%02d", now.Minute()),
	)
	return r.Replace(template)
}
