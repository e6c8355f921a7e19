// Package transform expresses transpose, simplify and permute as
// generators over arc pairs that feed package arcsort, the same "produce
// arcs, then sort" shape package parsort.Sort expects from its caller.
// None of these transformations need to look at more than one arc at a
// time, so none of them need their own buffering: the sort downstream does
// all of it. Union instead lazily merges inputs that are already sorted,
// without going through arcsort.
package transform

import "github.com/vigna/bvgraph/arcsort"

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "transform: " + string(e) }

// ArcSource drives add once per arc in some (not necessarily sorted)
// order, stopping early and returning add's error if add fails.
type ArcSource func(add func(arcsort.Arc) error) error

// Transpose swaps every arc's Src and Dst. Applying it twice is the
// identity up to resort (spec.md's "transpose∘transpose = id" invariant),
// since arcsort re-sorts by the new Src either way.
func Transpose(src ArcSource) ArcSource {
	return func(add func(arcsort.Arc) error) error {
		return src(func(a arcsort.Arc) error {
			return add(arcsort.Arc{Src: a.Dst, Dst: a.Src, Label: a.Label})
		})
	}
}

// Simplify symmetrizes src (emitting both (u,v) and (v,u) for every arc)
// and drops self-loops, so simplify(G) and simplify(transpose(G)) always
// produce the same arc set once sorted and deduplicated (spec.md's
// "simplify(G) = simplify(transpose(G))" invariant) — duplicate arcs this
// produces (e.g. from an already-symmetric input) are left for the
// downstream sort/merge step to collapse, the same way arcsort.Sorter
// never assumes its input is duplicate-free.
func Simplify(src ArcSource) ArcSource {
	return func(add func(arcsort.Arc) error) error {
		return src(func(a arcsort.Arc) error {
			if a.Src == a.Dst {
				return nil
			}
			if err := add(a); err != nil {
				return err
			}
			return add(arcsort.Arc{Src: a.Dst, Dst: a.Src, Label: a.Label})
		})
	}
}

// Permute remaps every arc's endpoints through perm (old id -> new id).
// Permute(G, invert(perm)) applied to Permute(G, perm) is the identity
// (spec.md's permutation-inverse invariant), since perm is required to be
// a bijection on [0, len(perm)).
func Permute(src ArcSource, perm []uint64) ArcSource {
	return func(add func(arcsort.Arc) error) error {
		return src(func(a arcsort.Arc) error {
			if a.Src >= uint64(len(perm)) || a.Dst >= uint64(len(perm)) {
				return Error("permute: arc endpoint out of range of permutation")
			}
			return add(arcsort.Arc{Src: perm[a.Src], Dst: perm[a.Dst], Label: a.Label})
		})
	}
}

// InvertPermutation returns perm's inverse, i.e. the permutation q such
// that q[perm[i]] == i for all i. Panics (not an error: this is a logic
// bug in the caller, not a data error) if perm is not a bijection on
// [0, len(perm)).
func InvertPermutation(perm []uint64) []uint64 {
	inv := make([]uint64, len(perm))
	seen := make([]bool, len(perm))
	for i, p := range perm {
		if p >= uint64(len(perm)) || seen[p] {
			panic(Error("InvertPermutation: not a bijection"))
		}
		seen[p] = true
		inv[p] = uint64(i)
	}
	return inv
}
