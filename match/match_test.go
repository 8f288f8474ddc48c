package match_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verily-lang/verily/match"
	"github.com/verily-lang/verily/term"
)

var (
	leaf = term.Leaf
	comp = term.New
)

func TestIsOfForm_Ground(t *testing.T) {
	free := match.NewFreeVars()
	var subs term.Subst
	ground := comp("implies", leaf("P"), leaf("Q"))
	if !match.IsOfForm(ground, ground, free, &subs) {
		t.Fatalf("expected ground term to match itself")
	}
	if len(subs) != 0 {
		t.Errorf("expected no substitutions, got %v", subs)
	}
}

func TestIsOfForm_FreeVariable(t *testing.T) {
	a, b := leaf("a"), leaf("b")
	form := term.New("implies", leaf("A"), leaf("B"))
	ground := term.New("implies", a, b)

	free := match.NewFreeVars(leaf("A"), leaf("B"))
	var subs term.Subst
	if !match.IsOfForm(ground, form, free, &subs) {
		t.Fatalf("expected match")
	}
	if !free.Empty() {
		t.Errorf("expected all free variables consumed, got %d left", free.Len())
	}
	want := term.Subst{
		{Pattern: leaf("A"), Replacement: a},
		{Pattern: leaf("B"), Replacement: b},
	}
	if diff := cmp.Diff(want, term.Subst(subs)); diff != "" {
		t.Errorf("subs mismatch (-want +got):\n%s", diff)
	}
}

func TestIsOfForm_RepeatedVariableMustAgree(t *testing.T) {
	form := comp("eq", leaf("X"), leaf("X"))

	free := match.NewFreeVars(leaf("X"))
	var subs term.Subst
	if !match.IsOfForm(comp("eq", leaf("a"), leaf("a")), form, free, &subs) {
		t.Errorf("expected matching repeated occurrences to succeed")
	}

	free2 := match.NewFreeVars(leaf("X"))
	var subs2 term.Subst
	if match.IsOfForm(comp("eq", leaf("a"), leaf("b")), form, free2, &subs2) {
		t.Errorf("expected mismatched repeated occurrences to fail")
	}
}

func TestIsOfForm_HeadArityMismatch(t *testing.T) {
	free := match.NewFreeVars()
	var subs term.Subst
	if match.IsOfForm(comp("f", leaf("a")), comp("g", leaf("a")), free, &subs) {
		t.Errorf("expected head mismatch to fail")
	}
	free = match.NewFreeVars()
	subs = nil
	if match.IsOfForm(comp("f", leaf("a")), comp("f", leaf("a"), leaf("b")), free, &subs) {
		t.Errorf("expected arity mismatch to fail")
	}
}

func TestIsOfForm_FailureDoesNotRollBackMutations(t *testing.T) {
	// form = (pair X Y) where the second component mismatches; the
	// contract says partial mutation from a failed branch is visible.
	form := comp("pair", leaf("X"), leaf("Y"))
	ground := comp("pair", leaf("a"), leaf("b"))
	free := match.NewFreeVars(leaf("X"), leaf("Z")) // Y not free -> fails on second child
	var subs term.Subst
	if match.IsOfForm(ground, form, free, &subs) {
		t.Fatalf("expected overall failure (Y is not free)")
	}
	if free.Contains(leaf("X")) {
		t.Errorf("X should have been consumed by the first child match before failure")
	}
	if len(subs) != 1 {
		t.Errorf("expected the partial binding for X to remain, got %v", subs)
	}
}

func TestIsOfForm_Idempotence(t *testing.T) {
	// Match idempotence law: applying the residual substitution to the
	// form reproduces the ground term.
	form := comp("implies", leaf("A"), leaf("B"))
	ground := comp("implies", leaf("p"), leaf("q"))
	free := match.NewFreeVars(leaf("A"), leaf("B"))
	var subs term.Subst
	if !match.IsOfForm(ground, form, free, &subs) {
		t.Fatalf("expected match")
	}
	got := term.Replace(form, subs)
	if !term.Eq(got, ground) {
		t.Errorf("Replace(form, subs) = %v, want %v", got, ground)
	}
}
