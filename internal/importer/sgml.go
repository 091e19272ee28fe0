package importer

import (
	"strings"
)

// tag is one element scanned from an SGML-flavored OFX/OFC document.
// Closing tags keep their leading slash in name. value is the text
// between this tag and the next one; for unclosed leaf elements that
// text is the element's value.
type tag struct {
	name  string
	value string
}

// scanTags tokenizes SGML-flavored content. The older bank dialects do
// not close leaf elements, so this cannot be handed to an XML parser:
// values simply run until the next '<'. Declarations and processing
// instructions are skipped.
func scanTags(data string) []tag {
	var tags []tag
	for i := 0; i < len(data); {
		open := strings.IndexByte(data[i:], '<')
		if open < 0 {
			break
		}
		i += open + 1
		end := strings.IndexByte(data[i:], '>')
		if end < 0 {
			break
		}
		name := strings.TrimSpace(data[i : i+end])
		i += end + 1

		if name == "" || strings.HasPrefix(name, "?") || strings.HasPrefix(name, "!") {
			continue
		}
		// Drop attributes; bank exports never carry meaningful ones.
		if sp := strings.IndexAny(name, " \t"); sp >= 0 && !strings.HasPrefix(name, "/") {
			name = name[:sp]
		}

		next := strings.IndexByte(data[i:], '<')
		var value string
		if next < 0 {
			value = data[i:]
		} else {
			value = data[i : i+next]
		}
		tags = append(tags, tag{name: strings.ToUpper(name), value: unescapeSGML(strings.TrimSpace(value))})
	}
	return tags
}

// unescapeSGML resolves the few entities banks actually emit.
func unescapeSGML(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"&nbsp;", " ",
	)
	return r.Replace(s)
}
