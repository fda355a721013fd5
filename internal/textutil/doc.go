// Package textutil provides the naming helpers that map deck names onto
// filesystem paths and back.
//
// Deck names use "::" to separate hierarchy levels. On disk each level
// separator becomes "__" and any remaining filesystem-unsafe characters are
// replaced, so a deck directory name is always a single path segment.
package textutil
