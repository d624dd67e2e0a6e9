package collector

import "strings"

// titleSanitizer maps the characters that are unsafe in note filenames to a
// hyphen.
var titleSanitizer = strings.NewReplacer(
	`\`, "-",
	"/", "-",
	":", "-",
	"*", "-",
	"?", "-",
	`"`, "-",
	"<", "-",
	">", "-",
	"|", "-",
)

// SanitizeTitle rewrites raw into a filename-safe note title: unsafe
// characters become hyphens and surrounding whitespace is trimmed. The
// result may be empty.
func SanitizeTitle(raw string) string {
	return strings.TrimSpace(titleSanitizer.Replace(raw))
}
