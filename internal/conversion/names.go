package conversion

import "strings"

// SplitFullName splits a combined name on the first space.
// "Mary Ann Smith" yields ("Mary", "Ann Smith"); a single word has no last name.
func SplitFullName(full string) (first, last string) {
	full = strings.Join(strings.Fields(full), " ")
	if full == "" {
		return "", ""
	}
	first, last, _ = strings.Cut(full, " ")
	return first, last
}
