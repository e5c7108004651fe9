package rdf

import (
	"net/url"
	"strings"
	"sync"
)

const (
	// SkolemAuthority is the authority used for skolem IRIs minted here.
	SkolemAuthority = "https://rdflib.github.io"
	// SkolemBasePath is the path under SkolemAuthority holding minted genids.
	SkolemBasePath = "/.well-known/genid/rdflib/"
	// wellKnownGenID marks skolem IRIs minted by any system (RFC 7511 style).
	wellKnownGenID = "/.well-known/genid/"
)

// SkolemNamespace is the namespace bound to the "genid" prefix.
const SkolemNamespace = SkolemAuthority + SkolemBasePath

// Skolemize returns the skolem IRI for b. Empty authority or basepath select
// SkolemAuthority and SkolemBasePath.
func (b BlankNode) Skolemize(authority, basepath string) IRI {
	if authority == "" {
		authority = SkolemAuthority
	}
	if basepath == "" {
		basepath = SkolemBasePath
	}
	return IRI{Value: strings.TrimSuffix(authority, "/") + basepath + b.ID}
}

// IsSkolem reports whether iri was minted with the default skolem base path.
func IsSkolem(iri IRI) bool {
	u, err := url.Parse(iri.Value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	return strings.HasPrefix(u.Path, SkolemBasePath) && len(u.Path) > len(SkolemBasePath)
}

// IsExternalSkolem reports whether iri is a well-known genid IRI minted by
// another system.
func IsExternalSkolem(iri IRI) bool {
	u, err := url.Parse(iri.Value)
	if err != nil || u.Scheme == "" {
		return false
	}
	return strings.HasPrefix(u.Path, wellKnownGenID) && !IsSkolem(iri)
}

var externalSkolems sync.Map // string -> BlankNode

// DeSkolemize maps a skolem IRI back to a blank node. IRIs minted here recover
// their original identifier. External genids map to a fresh blank node that is
// reused for the same IRI for the life of the process. Other IRIs are not
// skolem IRIs and report false.
func DeSkolemize(iri IRI) (BlankNode, bool) {
	if IsSkolem(iri) {
		u, _ := url.Parse(iri.Value)
		return BlankNode{ID: u.Path[len(SkolemBasePath):]}, true
	}
	if IsExternalSkolem(iri) {
		b, _ := externalSkolems.LoadOrStore(iri.Value, NewBlankNode())
		return b.(BlankNode), true
	}
	return BlankNode{}, false
}
