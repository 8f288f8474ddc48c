// Package proof reconstructs a human-readable proof tree for any
// theorem already present in a knowledge base. Reconstruction is a
// pure read of the base: it never adds, removes, or touches a theorem.
package proof

import (
	"strconv"

	"github.com/verily-lang/verily/kb"
	"github.com/verily-lang/verily/rule"
	"github.com/verily-lang/verily/term"
)

// Reconstruct walks the knowledge base from index and returns a proof
// tree:
//
//	(axiom <thm>)
//	(theorem <thm> (rule_application (rule <name>) (premises <child>...)))
//
// where each <child> is itself a proof tree for the corresponding
// premise index. rules is indexed by rule index and is used only to
// recover a rule's display name; it may be nil or shorter than the
// highest rule index referenced if every such rule was added without a
// name (Reconstruct falls back to the numeric index in that case).
func Reconstruct(base *kb.KB, rules []rule.Rule, index int) (term.Term, error) {
	thm, err := base.Get(index)
	if err != nil {
		return term.Term{}, err
	}
	if thm.IsAxiom() {
		return term.New("axiom", thm.Thm), nil
	}

	premiseNodes := make([]term.Term, len(thm.Premises))
	for i, p := range thm.Premises {
		node, err := Reconstruct(base, rules, p)
		if err != nil {
			return term.Term{}, err
		}
		premiseNodes[i] = node
	}

	return term.New("theorem",
		thm.Thm,
		term.New("rule_application",
			term.New("rule", term.Leaf(ruleLabel(rules, thm.RuleIndex))),
			term.New("premises", premiseNodes...),
		),
	), nil
}

// ruleLabel returns a rule's name, falling back to its numeric index
// when the rule has no name or rules does not reach that far.
func ruleLabel(rules []rule.Rule, ruleIndex int) string {
	if ruleIndex >= 0 && ruleIndex < len(rules) && rules[ruleIndex].Name != "" {
		return rules[ruleIndex].Name
	}
	return strconv.Itoa(ruleIndex)
}
