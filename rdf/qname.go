package rdf

import "strings"

// SplitIRI splits an IRI into a namespace and a local name suitable for a
// prefixed name. The split happens after the last '#', '/' or ':' such that
// the local part is a valid name.
func SplitIRI(iri IRI) (namespace, local string, ok bool) {
	value := iri.Value
	cut := strings.LastIndexAny(value, "#/:")
	if cut < 0 || cut == len(value)-1 {
		return "", "", false
	}
	// shrink the local part until it starts with a name start char
	for i := cut + 1; i < len(value); i++ {
		if isQNameLocal(value[i:]) {
			return value[:i], value[i:], true
		}
		if !isNameChar(value[i]) {
			break
		}
	}
	return "", "", false
}

func isQNameLocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}
