// Package textutil provides text fingerprinting and similarity scoring for
// short name strings.
//
// Names are fingerprinted as character-bigram frequency vectors rather than
// word tokens: player names are one to three tokens long, so token overlap is
// too coarse to separate a misspelling from a different person. Bigrams keep
// "Jaylen"/"Jalen" close and "Jaylen"/"Justin" far apart.
//
// Fingerprints carry a precomputed vector norm so cosine similarity between
// any two names is a single map walk.
package textutil
