// Package latex renders terms, rules, and proof trees as LaTeX using
// the mathpartir package's \inferrule* notation, for the --latex report
// mode.
package latex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verily-lang/verily/kb"
	"github.com/verily-lang/verily/proof"
	"github.com/verily-lang/verily/rule"
	"github.com/verily-lang/verily/term"
)

// SanitizeName escapes underscores so a rule or symbol name is safe to
// use as a LaTeX command argument or label.
func SanitizeName(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c == '_' {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

var infixOps = map[string]string{
	"and":     "\\land",
	"or":      "\\lor",
	"implies": "\\implies",
	"iff":     "\\iff",
	"in":      "\\in",
	"==":      "=",
}

// WriteTerm renders t into b using the per-head-symbol table: infix
// connectives, quantifiers, REPLACE's substitution-bracket notation,
// proof-tree "axiom"/"theorem" nodes, and a \texttt{name}(args...)
// fallback for anything else.
func WriteTerm(b *strings.Builder, t term.Term) {
	switch t.Head {
	case "and", "or", "implies", "iff", "in", "==":
		b.WriteString("(")
		WriteTerm(b, at(t, 0))
		fmt.Fprintf(b, " %s ", infixOps[t.Head])
		WriteTerm(b, at(t, 1))
		b.WriteString(")")
		return
	case "not":
		b.WriteString(" \\lnot ")
		WriteTerm(b, at(t, 0))
		return
	case "prime":
		WriteTerm(b, at(t, 0))
		b.WriteString("' ")
		return
	case "forall":
		b.WriteString("( \\forall ")
		WriteTerm(b, at(t, 0))
		b.WriteString(" . ")
		WriteTerm(b, at(t, 1))
		b.WriteString(" )")
		return
	case "exists":
		b.WriteString("( \\exists ")
		WriteTerm(b, at(t, 0))
		b.WriteString(" . ")
		WriteTerm(b, at(t, 1))
		b.WriteString(" )")
		return
	case term.ReplaceHead:
		WriteTerm(b, at(t, 0))
		b.WriteString(" [ ")
		WriteTerm(b, at(t, 1))
		b.WriteString(" := ")
		WriteTerm(b, at(t, 2))
		b.WriteString(" ]")
		return
	case "axiom":
		b.WriteString("\\inferrule*[right=axiom]{\\,}{\n")
		WriteTerm(b, at(t, 0))
		b.WriteString("\n}")
		return
	case "theorem":
		writeTheoremNode(b, t)
		return
	case "_":
		b.WriteString("(")
		for i, child := range t.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			WriteTerm(b, child)
		}
		b.WriteString(")")
		return
	}

	if t.IsLeaf() {
		fmt.Fprintf(b, "\\texttt{%s}", SanitizeName(t.Head))
		return
	}
	fmt.Fprintf(b, "\\texttt{%s}(", SanitizeName(t.Head))
	for i, child := range t.Children {
		if i > 0 {
			b.WriteString(", ")
		}
		WriteTerm(b, child)
	}
	b.WriteString(")")
}

// writeTheoremNode renders a proof.Reconstruct "theorem" node:
// (theorem <thm> (rule_application (rule <name>) (premises <p>...))).
func writeTheoremNode(b *strings.Builder, t term.Term) {
	thm := at(t, 0)
	ruleApp := at(t, 1)
	ruleName := at(at(ruleApp, 0), 0).Head
	premises := at(ruleApp, 1)

	fmt.Fprintf(b, "\\inferrule*[right=%s]{", SanitizeName(ruleName))
	if len(premises.Children) == 0 {
		b.WriteString("\\,")
	}
	for i, premise := range premises.Children {
		if i > 0 {
			b.WriteString("\n")
		}
		WriteTerm(b, premise)
	}
	b.WriteString("}{\n")
	WriteTerm(b, thm)
	b.WriteString("\n}")
}

func at(t term.Term, i int) term.Term {
	if i >= len(t.Children) {
		return term.Term{}
	}
	return t.Children[i]
}

// Document renders the full report: every rule's inference-rule
// schema, then every axiom and selected theorem's proof tree, as a
// standalone LaTeX document.
func Document(rules []rule.Rule, base *kb.KB, axiomIndices, theoremIndices []int) (string, error) {
	var b strings.Builder
	b.WriteString("\\documentclass{article}\n" +
		"\\usepackage{amsmath}\n" +
		"\\usepackage{amssymb}\n" +
		"\\usepackage{mathpartir}\n" +
		"\\begin{document}\n\n")

	b.WriteString("\\textbf{Rules:}\n\n")
	for i, r := range rules {
		if len(r.FreeVars) > 0 {
			b.WriteString("For generic")
			for j, fv := range sortedFreeVars(r.FreeVars) {
				if j > 0 {
					b.WriteString(",")
				}
				fmt.Fprintf(&b, " \\texttt{%s}", fv.Head)
			}
			b.WriteString(":\n\n")
		}

		b.WriteString("\\[\n\\inferrule*[right=")
		b.WriteString(SanitizeName(rule.Label(r.Name, i)))
		b.WriteString("]{")
		if len(r.Premises) == 0 {
			b.WriteString("\\,")
		}
		for j, premise := range r.Premises {
			if j > 0 {
				b.WriteString("\n")
			}
			WriteTerm(&b, premise)
		}
		b.WriteString("}{\n")
		WriteTerm(&b, r.Consequence)
		b.WriteString("  }\n\\]\n\n")
	}

	b.WriteString("\\textbf{Axioms:}\n\n")
	for _, idx := range axiomIndices {
		tree, err := proof.Reconstruct(base, rules, idx)
		if err != nil {
			return "", err
		}
		b.WriteString("\\[\n")
		WriteTerm(&b, tree)
		b.WriteString("\n\\]\n\n")
	}

	b.WriteString("\\textbf{Selected Theorems:}\n\n")
	for _, idx := range theoremIndices {
		tree, err := proof.Reconstruct(base, rules, idx)
		if err != nil {
			return "", err
		}
		b.WriteString("\\[\n")
		WriteTerm(&b, tree)
		b.WriteString("\n\\]\n\n")
	}

	b.WriteString("\\end{document}\n")
	return b.String(), nil
}

func sortedFreeVars(vars []term.Term) []term.Term {
	out := make([]term.Term, len(vars))
	copy(out, vars)
	sort.Slice(out, func(i, j int) bool { return term.Less(out[i], out[j]) })
	return out
}
