// Package rdf provides the RDF term model and streaming codecs shared by the
// store and graph packages.
//
// Terms form a closed set: IRI, BlankNode and Literal. All three are
// comparable values, so they can be used as map keys and compared with ==.
// Compare gives the total order IRI < BlankNode < Literal. A nil Term in a
// Pattern or QuadPattern is a wildcard.
//
// Every write path validates its terms with ValidateTerm; malformed terms
// are reported as *InvalidTermError. Code maps any error produced by this
// module to a stable ErrorCode.
//
// Codecs are plugins resolved by name through RegisterParser and
// RegisterSerializer. N-Triples, N-Quads and JSON-LD are registered by
// default:
//
//	r, err := rdf.NewReader(strings.NewReader(input), rdf.FormatNTriples)
//	if err != nil {
//	    // handle error
//	}
//	for quad, err := range rdf.Statements(r) {
//	    if err != nil {
//	        // handle error
//	    }
//	    // process quad.S, quad.P, quad.O, quad.G
//	}
//
// For unsupported formats, NewReader and NewWriter return ErrUnsupportedFormat.
// FormatAuto sniffs the input with DetectFormat.
//
// Blank nodes map to and from skolem IRIs under SkolemAuthority with
// BlankNode.Skolemize and DeSkolemize.
package rdf
