// Package kb implements the knowledge base: an append-only, deduplicated
// sequence of theorems, each carrying the provenance needed to
// reconstruct its proof.
package kb

import (
	"github.com/verily-lang/verily/errors"
	"github.com/verily-lang/verily/term"
)

// AxiomRule is the sentinel RuleIndex value marking a theorem as an
// axiom rather than a rule application.
const AxiomRule = -1

// Theorem is an entry in the knowledge base.
type Theorem struct {
	// Index is this theorem's position in the knowledge base,
	// assigned on insertion; it is a stable identifier referenced by
	// later theorems' Premises.
	Index int
	// Thm is the statement, always in beta_star normal form.
	Thm term.Term
	// RuleIndex is the index of the rule used to derive Thm, or
	// AxiomRule if Thm was asserted directly.
	RuleIndex int
	// Premises lists the earlier theorem indices that discharged the
	// rule's premises, in declared order. Empty for axioms.
	Premises []int
}

// IsAxiom reports whether t was asserted directly rather than derived.
func (t Theorem) IsAxiom() bool {
	return t.RuleIndex == AxiomRule
}

// KB is the append-only, deduplicated knowledge base.
type KB struct {
	known []Theorem
	// index buckets theorem positions by term.String(), a fast but
	// non-injective key: a quoted-string leaf like "(f x)" renders
	// identically to the compound (f x). Every lookup confirms the
	// candidate with term.Eq before treating it as a hit, so a
	// collision only costs a short linear scan within the bucket
	// instead of silently merging two structurally distinct theorems.
	index map[string][]int
}

// New returns an empty knowledge base.
func New() *KB {
	return &KB{index: make(map[string][]int)}
}

// Len returns the number of theorems in the base.
func (kb *KB) Len() int {
	return len(kb.known)
}

// All returns the theorems in insertion order. The slice is owned by kb
// and must not be mutated by the caller.
func (kb *KB) All() []Theorem {
	return kb.known
}

// Get returns the theorem at index i, or an error if i is out of range
// — an out-of-range lookup indicates a bug in the caller, per the
// engine's error-handling design.
func (kb *KB) Get(i int) (Theorem, error) {
	if i < 0 || i >= len(kb.known) {
		return Theorem{}, errors.New("kb: invalid theorem index %d (have %d theorems)", i, len(kb.known))
	}
	return kb.known[i], nil
}

// Has reports whether the beta_star reduction of t already occurs in
// the base, returning the existing theorem if so.
func (kb *KB) Has(t term.Term) (Theorem, bool) {
	reduced := term.BetaStar(t)
	for _, i := range kb.index[reduced.String()] {
		if term.Eq(kb.known[i].Thm, reduced) {
			return kb.known[i], true
		}
	}
	return Theorem{}, false
}

// AddAxiom inserts t as a ground theorem with RuleIndex = AxiomRule. It
// goes through AddTheorem, so t is reduced to beta_star normal form like
// any other theorem (knowledge base invariant 1) and is deduplicated the
// same way: if the reduced statement is already known, as an axiom or as
// a derived theorem, that existing theorem is returned unchanged.
func (kb *KB) AddAxiom(t term.Term) Theorem {
	thm, added := kb.AddTheorem(t, AxiomRule, nil)
	_ = added
	return thm
}

// AddTheorem reduces thm to beta_star normal form and, if it is not
// already present, appends a new theorem with the given provenance.
// When thm is already known, the existing theorem is returned and added
// is false — no duplicate is inserted (knowledge base invariant 3).
func (kb *KB) AddTheorem(thm term.Term, ruleIndex int, premises []int) (Theorem, bool) {
	reduced := term.BetaStar(thm)
	if existing, ok := kb.Has(reduced); ok {
		return existing, false
	}
	t := Theorem{
		Index:     len(kb.known),
		Thm:       reduced,
		RuleIndex: ruleIndex,
		Premises:  append([]int(nil), premises...),
	}
	key := reduced.String()
	kb.index[key] = append(kb.index[key], len(kb.known))
	kb.known = append(kb.known, t)
	return t, true
}
