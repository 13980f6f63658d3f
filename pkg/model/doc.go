// Package model defines the typed form model shared by the flow engine,
// the form definitions, and the views. A FormModel lists its fields in
// render order together with the ordered validation rules that guard its
// submission. Field names are the vocabulary of invalid-field sets; the
// Input name is what the browser (or terminal) submits, so the two may
// differ (the register form submits "rePass" for the "confirm" field).
//
// Entities (Furniture, User) are plain records exchanged with the remote
// data API. Identity is assigned by the API; forms only carry it as an
// opaque key.
package model
