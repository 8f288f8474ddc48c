package test_helpers

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/verily-lang/verily/term"
)

// IgnorePos ignores term.Term's Pos field, which carries only source
// location for diagnostics and varies between a hand-built expected
// term and one that came out of the parser.
var IgnorePos = cmp.Options{
	cmpopts.IgnoreFields(term.Term{}, "Pos"),
}
