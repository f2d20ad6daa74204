// Package taxonomy loads nested category trees and flattens them into
// core.Entry values with precomputed search metadata.
//
// A taxonomy document is a mapping from root label to node:
//
//	Skincare:
//	  By Category:
//	    UV Protection:
//	      _meta: {id: 3fa9b1c2, definition: Sun protection}
//	Pantry:
//	  Spices: [Cumin, Paprika]
//
// JSON documents are accepted as well. Key order is preserved so flattening,
// and with it lexical tie-breaking, is deterministic.
package taxonomy
