// Package rule implements InferenceRule: a schematic (free-variables,
// premises, consequence) triple, its forward/backward classification,
// and the partial-specialization primitive that peels one premise at a
// time.
package rule

import (
	"fmt"
	"strings"

	"github.com/verily-lang/verily/match"
	"github.com/verily-lang/verily/term"
)

// Direction classifies where a rule's free variables occur, and
// therefore which search directions may legally apply it.
type Direction int

const (
	// Bidirectional rules are both forward- and backward-derivable.
	Bidirectional Direction = iota
	// ForwardOnly rules bind every free variable from their premises
	// but not from their consequence alone.
	ForwardOnly
	// BackwardOnly rules bind every free variable from their
	// consequence but not from their premises alone.
	BackwardOnly
)

func (d Direction) String() string {
	switch d {
	case Bidirectional:
		return "bidirectional"
	case ForwardOnly:
		return "forward"
	case BackwardOnly:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ErrUnclassifiable is returned by New when neither classification
// holds: some free variable occurs in no premise, and either some free
// variable is missing from the consequence or the consequence contains
// REPLACE, so neither search direction can bind every variable.
type ErrUnclassifiable struct {
	Rule Rule
}

func (e *ErrUnclassifiable) Error() string {
	return fmt.Sprintf("rule is neither forward- nor backward-derivable: %v", e.Rule)
}

// Rule is a schematic inference rule: a named-or-anonymous triple of
// free variables, an ordered list of premise schemas, and a consequence
// schema.
type Rule struct {
	// Name is the rule's human-readable label, or "" if anonymous (in
	// which case callers identify the rule by its insertion index).
	Name string

	FreeVars    []term.Term
	Premises    []term.Term
	Consequence term.Term

	Direction Direction
}

// New constructs a rule and classifies it. It returns *ErrUnclassifiable
// if the rule is neither forward- nor backward-derivable (see
// ErrUnclassifiable).
func New(name string, freeVars, premises []term.Term, consequence term.Term) (Rule, error) {
	r := Rule{
		Name:        name,
		FreeVars:    append([]term.Term(nil), freeVars...),
		Premises:    append([]term.Term(nil), premises...),
		Consequence: consequence,
	}

	forward := allBoundByPremises(r.FreeVars, r.Premises)
	backward := !term.ContainsHead(r.Consequence, term.ReplaceHead) && allContained(r.Consequence, r.FreeVars)

	switch {
	case forward && backward:
		r.Direction = Bidirectional
	case forward:
		r.Direction = ForwardOnly
	case backward:
		r.Direction = BackwardOnly
	default:
		return Rule{}, &ErrUnclassifiable{Rule: r}
	}
	return r, nil
}

func allBoundByPremises(freeVars, premises []term.Term) bool {
	for _, fv := range freeVars {
		bound := false
		for _, p := range premises {
			if term.Contains(p, fv) {
				bound = true
				break
			}
		}
		if !bound {
			return false
		}
	}
	return true
}

func allContained(t term.Term, vars []term.Term) bool {
	for _, v := range vars {
		if !term.Contains(t, v) {
			return false
		}
	}
	return true
}

// IsForwardApplicable reports whether r may be applied in forward
// saturation (i.e. it is not backward-only).
func (r Rule) IsForwardApplicable() bool {
	return r.Direction != BackwardOnly
}

// IsBackwardApplicable reports whether r may be applied in backward
// search (i.e. it is not forward-only).
func (r Rule) IsBackwardApplicable() bool {
	return r.Direction != ForwardOnly
}

// RemoveFirstReq performs partial specialization: given a candidate
// term for the rule's first premise, it returns a new rule with that
// premise discharged — the remaining premises and the consequence
// rewritten under the discovered substitution, and the free-variable
// set restricted to whatever remains unbound. It reports false if sub
// does not match the first premise.
//
// This is the natural primitive for an iterative-deepening backward
// search that peels one premise per recursive step; the engine in this
// package set uses the flatter variant that matches the whole rule at
// once (see package engine), so RemoveFirstReq is not on that hot path.
func (r Rule) RemoveFirstReq(sub term.Term) (Rule, bool) {
	if len(r.Premises) == 0 {
		return Rule{}, false
	}
	free := match.NewFreeVars(r.FreeVars...)
	var subs term.Subst
	if !match.IsOfForm(sub, r.Premises[0], free, &subs) {
		return Rule{}, false
	}

	newPremises := make([]term.Term, 0, len(r.Premises)-1)
	for _, p := range r.Premises[1:] {
		newPremises = append(newPremises, term.Replace(p, subs))
	}
	newConsequence := term.Replace(r.Consequence, subs)

	return Rule{
		Name:        r.Name,
		FreeVars:    free.Sorted(),
		Premises:    newPremises,
		Consequence: newConsequence,
		Direction:   r.Direction,
	}, true
}

// String renders the rule as "[direction]<freevars>(premises) -> consequence".
func (r Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%v]<", r.Direction)
	for i, fv := range r.FreeVars {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fv.String())
	}
	b.WriteString(">(")
	for i, p := range r.Premises {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	fmt.Fprintf(&b, ") -> %v", r.Consequence)
	return b.String()
}

// Label returns the rule's name if set, otherwise the decimal string of
// index — matching InferenceRule's "name-or-index" display convention.
func Label(name string, index int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%d", index)
}
