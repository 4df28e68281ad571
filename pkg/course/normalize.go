package course

import "strings"

var arabicToPersian = strings.NewReplacer(
	"ي", "ی",
	"ك", "ک",
	"ى", "ی",
)

// NormalizePersian replaces Arabic yeh and kaf with their Persian forms.
// Portal data mixes both, which breaks equality and search.
func NormalizePersian(s string) string {
	return arabicToPersian.Replace(s)
}

// foldForMatch prepares text for loose comparisons: normalised letters,
// no ZWNJ, collapsed whitespace, lower-case.
func foldForMatch(s string) string {
	s = NormalizePersian(s)
	s = strings.ReplaceAll(s, "\u200c", " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
