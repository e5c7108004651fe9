package rdf

import (
	"strconv"
	"strings"
)

// RDFNS is the RDF vocabulary namespace.
const RDFNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// XSDNS is the XML Schema datatypes namespace.
const XSDNS = "http://www.w3.org/2001/XMLSchema#"

// Frequently used RDF vocabulary terms.
var (
	RDFType       = IRI{Value: RDFNS + "type"}
	RDFValue      = IRI{Value: RDFNS + "value"}
	RDFFirst      = IRI{Value: RDFNS + "first"}
	RDFRest       = IRI{Value: RDFNS + "rest"}
	RDFNil        = IRI{Value: RDFNS + "nil"}
	RDFSubject    = IRI{Value: RDFNS + "subject"}
	RDFPredicate  = IRI{Value: RDFNS + "predicate"}
	RDFObject     = IRI{Value: RDFNS + "object"}
	RDFStatement  = IRI{Value: RDFNS + "Statement"}
	RDFSeq        = IRI{Value: RDFNS + "Seq"}
	RDFLangString = IRI{Value: RDFNS + "langString"}

	XSDString  = IRI{Value: XSDNS + "string"}
	XSDInteger = IRI{Value: XSDNS + "integer"}
)

// DefaultGraphIRI names the default graph of a dataset.
var DefaultGraphIRI = IRI{Value: "urn:x-rdflib:default"}

// containerPrefix is the prefix of the rdf:_1, rdf:_2, ... membership properties.
const containerPrefix = RDFNS + "_"

// ContainerMembership returns the rdf:_n membership property.
func ContainerMembership(n int) IRI {
	return IRI{Value: containerPrefix + strconv.Itoa(n)}
}

// ContainerIndex returns n for an rdf:_n membership property.
func ContainerIndex(p IRI) (int, bool) {
	if !strings.HasPrefix(p.Value, containerPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(p.Value[len(containerPrefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
