// Package match implements is_of_form, Verily's schema-matching
// algorithm: it decides whether a ground term matches a schematic term
// modulo a supplied set of free variables, accumulating the witnessing
// substitution as it goes.
package match

import (
	"sort"

	"github.com/verily-lang/verily/term"
)

// FreeVars is the mutable set of schema variables still awaiting a
// binding. Membership and removal are linear scans by term.Eq, which is
// appropriate for the schema-sized sets rules carry (see package rule).
type FreeVars struct {
	vars []term.Term
}

// NewFreeVars returns a FreeVars set containing the given terms.
func NewFreeVars(vars ...term.Term) *FreeVars {
	fv := &FreeVars{vars: append([]term.Term(nil), vars...)}
	return fv
}

// Contains reports whether v is still unbound in fv.
func (fv *FreeVars) Contains(v term.Term) bool {
	for _, x := range fv.vars {
		if term.Eq(x, v) {
			return true
		}
	}
	return false
}

// Remove deletes the first occurrence of v from fv, if present.
func (fv *FreeVars) Remove(v term.Term) {
	for i, x := range fv.vars {
		if term.Eq(x, v) {
			fv.vars = append(fv.vars[:i], fv.vars[i+1:]...)
			return
		}
	}
}

// Empty reports whether every free variable has been bound.
func (fv *FreeVars) Empty() bool {
	return len(fv.vars) == 0
}

// Len returns the number of still-unbound variables.
func (fv *FreeVars) Len() int {
	return len(fv.vars)
}

// Snapshot returns an independent copy of fv, for callers that must
// restore state after a speculative match fails (see IsOfForm).
func (fv *FreeVars) Snapshot() *FreeVars {
	return NewFreeVars(fv.vars...)
}

// Sorted returns the free variables in the deterministic term.Less
// order, for reproducible pretty-printing and iteration.
func (fv *FreeVars) Sorted() []term.Term {
	out := append([]term.Term(nil), fv.vars...)
	sort.Slice(out, func(i, j int) bool { return term.Less(out[i], out[j]) })
	return out
}

// IsOfForm decides whether ground matches the schema form, given the
// mutable accumulators free and subs:
//
//  1. If some existing binding in *subs already covers form, the match
//     succeeds iff ground equals that binding's replacement. This makes
//     a repeated free-variable occurrence linear: the second occurrence
//     must equal the first.
//  2. Else if form is a member of *free, record (form, ground) in *subs,
//     remove form from *free, and succeed.
//  3. Else compare heads and arity; on a match, recurse pairwise over
//     children.
//
// free and subs are mutated in place on success. On failure, partial
// mutations from the failed branch are NOT rolled back — callers that
// need to retry a speculative match must snapshot free and subs first.
func IsOfForm(ground, form term.Term, free *FreeVars, subs *term.Subst) bool {
	for _, b := range *subs {
		if term.Eq(b.Pattern, form) {
			return term.Eq(ground, b.Replacement)
		}
	}
	if free.Contains(form) {
		*subs = append(*subs, term.Binding{Pattern: form, Replacement: ground})
		free.Remove(form)
		return true
	}
	if ground.Head != form.Head || len(ground.Children) != len(form.Children) {
		return false
	}
	for i := range ground.Children {
		if !IsOfForm(ground.Children[i], form.Children[i], free, subs) {
			return false
		}
	}
	return true
}

// SnapshotSubst returns an independent copy of a substitution
// accumulator, mirroring FreeVars.Snapshot for the other half of the
// matcher's mutable state.
func SnapshotSubst(subs term.Subst) term.Subst {
	return append(term.Subst(nil), subs...)
}
