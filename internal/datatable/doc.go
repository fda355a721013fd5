// Package datatable resolves the language-tagged data.csv into one row set per
// language projection.
//
// Header cells are either a bare field name, bound to the implicit "default"
// language, or "field:lang", bound to that language only. Every non-default
// projection sees the default columns with its own columns laid over them.
package datatable
