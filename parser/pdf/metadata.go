package pdf

import (
	"strings"
	"unicode"
	"unicode/utf8"

	lpdf "github.com/ledongthuc/pdf"
)

// infoKeys maps document information dictionary entries to MuPDF metadata names.
var infoKeys = map[string]string{
	"Title":        "title",
	"Author":       "author",
	"Subject":      "subject",
	"Keywords":     "keywords",
	"Creator":      "creator",
	"Producer":     "producer",
	"CreationDate": "creationDate",
	"ModDate":      "modDate",
	"Trapped":      "trapped",
}

// infoMetadata flattens the Info dictionary. Unknown entries keep their name with
// the first letter lower-cased; empty values are dropped.
func infoMetadata(info lpdf.Value, version string) map[string]string {
	meta := make(map[string]string)
	if version != "" {
		meta["format"] = "PDF " + version
	}

	if info.Kind() != lpdf.Dict {
		return meta
	}

	for _, key := range info.Keys() {
		value := infoValue(info.Key(key))
		if value == "" {
			continue
		}
		name, ok := infoKeys[key]
		if !ok {
			name = lowerFirst(key)
		}
		meta[name] = value
	}
	return meta
}

func infoValue(v lpdf.Value) string {
	switch v.Kind() {
	case lpdf.String:
		return strings.TrimSpace(v.Text())
	case lpdf.Name:
		return v.Name()
	case lpdf.Integer, lpdf.Real, lpdf.Bool:
		return v.String()
	default:
		return ""
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
