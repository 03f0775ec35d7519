package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// scripts written without spaces between words.
var unspacedScripts = map[string]bool{
	"Hans": true,
	"Hant": true,
	"Hani": true,
	"Jpan": true,
	"Hira": true,
	"Kana": true,
	"Thai": true,
	"Laoo": true,
	"Khmr": true,
	"Mymr": true,
	"Tibt": true,
}

// Language returns the language subtag of a locale identifier, e.g. "de" for "de-DE".
func Language(tag string) string {
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return rawLanguage(tag)
	}
	base, _ := t.Base()
	return base.String()
}

// Script returns the script of a locale, inferring the likely script when the
// identifier does not name one.
func Script(tag string) string {
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	script, _ := t.Script()
	return script.String()
}

// Region returns the region subtag if the identifier has one explicitly.
func Region(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	region, conf := t.Region()
	if conf != language.Exact {
		return ""
	}
	return region.String()
}

// Subsumes reports whether locale a covers locale b: same language and
// either a has no region or the regions match.
func Subsumes(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if Language(a) != Language(b) {
		return false
	}
	ra := Region(a)
	return ra == "" || ra == Region(b)
}

// Joiner returns the separator placed between adjacent segments of text in
// the given locale.
func Joiner(tag string) string {
	if unspacedScripts[Script(tag)] {
		return ""
	}
	return " "
}

// Canonical returns the BCP-47 form of tag, or tag itself if it cannot be parsed.
func Canonical(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}

func rawLanguage(tag string) string {
	tag = strings.ReplaceAll(tag, "_", "-")
	if i := strings.Index(tag, "-"); i >= 0 {
		return strings.ToLower(tag[:i])
	}
	return strings.ToLower(tag)
}
