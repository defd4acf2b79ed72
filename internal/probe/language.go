package probe

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// tag keys checked for a stream language, most specific first.
var languageTagKeys = []string{"language", "LANGUAGE", "language_ietf", "lang"}

func languageTag(tags Tags) string {
	for _, key := range languageTagKeys {
		if value := strings.TrimSpace(tags[key]); value != "" && value != "und" {
			return value
		}
	}
	return ""
}

// languageName resolves an ISO 639 code to its English display name.
// Unrecognized codes pass through unchanged so the report never loses
// information.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
