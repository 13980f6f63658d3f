// Package html renders form pages as HTML documents with pongo2 templates.
//
// A View streams one HTTP response: the first render writes the whole
// document, later renders append a fragment that swaps the page content in
// place, and a redirect either answers 303 or navigates from script when the
// document has already started.
package html
