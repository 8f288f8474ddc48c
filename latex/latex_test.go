package latex_test

import (
	"strings"
	"testing"

	"github.com/verily-lang/verily/kb"
	"github.com/verily-lang/verily/latex"
	"github.com/verily-lang/verily/proof"
	"github.com/verily-lang/verily/rule"
	"github.com/verily-lang/verily/term"
	"github.com/verily-lang/verily/test_helpers"
)

var (
	leaf = term.Leaf
	comp = term.New
)

func render(t term.Term) string {
	var b strings.Builder
	latex.WriteTerm(&b, t)
	return b.String()
}

func TestSanitizeName(t *testing.T) {
	got := latex.SanitizeName("modus_ponens")
	want := `modus\_ponens`
	if got != want {
		t.Errorf("SanitizeName() = %q, want %q", got, want)
	}
}

func TestWriteTerm_Infix(t *testing.T) {
	got := render(comp("implies", leaf("P"), leaf("Q")))
	want := `(\texttt{P} \implies \texttt{Q})`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteTerm_Not(t *testing.T) {
	got := render(comp("not", leaf("P")))
	want := ` \lnot \texttt{P}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteTerm_Replace(t *testing.T) {
	got := render(term.New(term.ReplaceHead, comp("f", leaf("x")), leaf("x"), leaf("a")))
	want := `\texttt{f}(\texttt{x}) [ \texttt{x} := \texttt{a} ]`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteTerm_UnderscoreList(t *testing.T) {
	got := render(comp("_", leaf("x"), leaf("y"), leaf("z")))
	want := `(\texttt{x}, \texttt{y}, \texttt{z})`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteTerm_DefaultCompound(t *testing.T) {
	got := render(comp("holds", leaf("x"), leaf("y")))
	want := `\texttt{holds}(\texttt{x}, \texttt{y})`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteTerm_DefaultLeaf(t *testing.T) {
	got := render(leaf("P"))
	want := `\texttt{P}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteTerm_NestedProofTree(t *testing.T) {
	base := kb.New()
	base.AddAxiom(comp("implies", leaf("P"), leaf("Q")))
	base.AddAxiom(leaf("P"))
	base.AddTheorem(leaf("Q"), 0, []int{0, 1})

	a, b := leaf("a"), leaf("b")
	r, err := rule.New("modus_ponens", []term.Term{a, b},
		[]term.Term{comp("implies", a, b), a}, b)
	if err != nil {
		t.Fatalf("rule.New: %v", err)
	}

	tree, err := proof.Reconstruct(base, []rule.Rule{r}, 2)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	got := render(tree)
	want := test_helpers.Dedent(`
        \inferrule*[right=modus\_ponens]{\inferrule*[right=axiom]{\,}{
        (\texttt{P} \implies \texttt{Q})
        }
        \inferrule*[right=axiom]{\,}{
        \texttt{P}
        }}{
        \texttt{Q}
        }`)
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDocument_RendersRulesAxiomsTheorems(t *testing.T) {
	base := kb.New()
	base.AddAxiom(comp("implies", leaf("P"), leaf("Q")))
	base.AddAxiom(leaf("P"))
	base.AddTheorem(leaf("Q"), 0, []int{0, 1})

	a, b := leaf("a"), leaf("b")
	r, err := rule.New("modus_ponens", []term.Term{a, b},
		[]term.Term{comp("implies", a, b), a}, b)
	if err != nil {
		t.Fatalf("rule.New: %v", err)
	}

	doc, err := latex.Document([]rule.Rule{r}, base, []int{0, 1}, []int{2})
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	for _, want := range []string{
		`\documentclass{article}`,
		`modus\_ponens`,
		`\textbf{Axioms:}`,
		`\textbf{Selected Theorems:}`,
		`\end{document}`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}
