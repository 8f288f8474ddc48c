// Package engine implements Verily's two proof-search procedures —
// forward saturation and backward goal-directed search — with an
// optional shared-budget alternation between them, on top of a
// knowledge base and a set of classified inference rules.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/verily-lang/verily/kb"
	"github.com/verily-lang/verily/match"
	"github.com/verily-lang/verily/rule"
	"github.com/verily-lang/verily/term"
)

// DefaultPassLimit is the default depth/iteration budget, matching the
// original driver's default.
const DefaultPassLimit = 64

// Config carries the engine's session-local knobs. It replaces the
// original implementation's ambient globals (debug, pass_limit,
// alternate): every caller constructs one explicitly and hands it to
// New.
type Config struct {
	// PassLimit is the session's default depth/iteration budget; New
	// replaces a zero or negative value with DefaultPassLimit.
	// ForwardProve and BackwardProve take their budget as an explicit
	// argument and do not read this field.
	PassLimit int
	// EnableAlternation lets each search direction, on local failure,
	// invoke the other with a reduced budget.
	EnableAlternation bool
	// Logger receives debug and warning diagnostics. If nil, a
	// logger that discards everything but warnings and above is
	// used.
	Logger *logrus.Logger
}

// Engine holds one proof-search session: a knowledge base, the ordered
// set of rules added so far, and the exhausted-pairing memo used by
// forward saturation.
type Engine struct {
	KB    *kb.KB
	Rules []rule.Rule

	cfg    Config
	memo   map[string]struct{}
	logger *logrus.Logger
}

// New returns an engine over a fresh, empty knowledge base.
func New(cfg Config) *Engine {
	if cfg.PassLimit <= 0 {
		cfg.PassLimit = DefaultPassLimit
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Engine{
		KB:     kb.New(),
		cfg:    cfg,
		memo:   make(map[string]struct{}),
		logger: logger,
	}
}

// clearMemo drops the exhausted-pairing memo. It must run whenever a
// rule or axiom is added mid-session: a previously exhausted pairing
// can become viable once new rules or theorems exist, and the memo is
// keyed only by (rule index, theorem-index tuple), which says nothing
// about what has since been added.
func (e *Engine) clearMemo() {
	e.memo = make(map[string]struct{})
}

// AddRule classifies and appends a new inference rule. It returns
// *rule.ErrUnclassifiable, a fatal condition per the engine's error
// design, if the rule is neither forward- nor backward-derivable.
func (e *Engine) AddRule(name string, freeVars, premises []term.Term, consequence term.Term) (int, error) {
	r, err := rule.New(name, freeVars, premises, consequence)
	if err != nil {
		return -1, err
	}
	e.Rules = append(e.Rules, r)
	e.clearMemo()
	e.logger.WithFields(logrus.Fields{
		"rule_index": len(e.Rules) - 1,
		"direction":  r.Direction.String(),
	}).Debugf("added rule: %v", r)
	return len(e.Rules) - 1, nil
}

// AddAxiom inserts t as an axiom theorem.
func (e *Engine) AddAxiom(t term.Term) kb.Theorem {
	thm := e.KB.AddAxiom(t)
	e.clearMemo()
	e.logger.Debugf("added axiom: %v", thm.Thm)
	return thm
}

// Known returns every theorem derived or asserted so far, in insertion
// order.
func (e *Engine) Known() []kb.Theorem {
	return e.KB.All()
}

// ForwardProve attempts to derive goal by forward saturation: repeated
// round-robin application of forward-applicable rules over the
// theorems known at the start of each rule's turn, up to budget passes.
// If goal is already known, it is returned immediately without
// consulting any rule.
func (e *Engine) ForwardProve(goal term.Term, budget int) (kb.Theorem, bool) {
	if thm, ok := e.KB.Has(goal); ok {
		return thm, true
	}
	for pass := 0; pass < budget; pass++ {
		instantiated := 0
		for ruleIndex, r := range e.Rules {
			if !r.IsForwardApplicable() {
				continue
			}
			knownBefore := e.KB.Len()
			instantiated += e.instAll(ruleIndex, r, knownBefore)
			if instantiated > 0 {
				if thm, ok := e.KB.Has(goal); ok {
					return thm, true
				}
			}
		}
		e.logger.WithFields(logrus.Fields{
			"pass":         pass,
			"new_theorems": instantiated,
		}).Debug("forward pass complete")
		if instantiated == 0 {
			break
		}
	}
	if e.cfg.EnableAlternation {
		return e.BackwardProve(goal, budget-1)
	}
	return kb.Theorem{}, false
}

// instAll enumerates every ordered tuple of theorem indices in
// [0, firstN) whose length equals rule r's premise count, in
// lexicographic order, and attempts to instantiate r's consequence for
// each. It returns how many new theorems this produced, skipping
// tuples already known (via e.memo) to fail or to only reproduce a
// known theorem.
func (e *Engine) instAll(ruleIndex int, r rule.Rule, firstN int) int {
	nPremises := len(r.Premises)
	indices := make([]int, nPremises)
	added := 0

	var recurse func(pos int)
	recurse = func(pos int) {
		if pos == nPremises {
			if e.tryInstantiate(ruleIndex, r, indices) {
				added++
			}
			return
		}
		for i := 0; i < firstN; i++ {
			indices[pos] = i
			recurse(pos + 1)
		}
	}
	recurse(0)
	return added
}

// tryInstantiate attempts to match each of r's premises against the
// theorems at the given indices, sharing one matcher accumulator across
// premises, and — on a full match — adds the substituted consequence as
// a new theorem. It reports whether a genuinely new theorem was added.
func (e *Engine) tryInstantiate(ruleIndex int, r rule.Rule, indices []int) bool {
	key := memoKey(ruleIndex, indices)
	if _, exhausted := e.memo[key]; exhausted {
		return false
	}

	free := match.NewFreeVars(r.FreeVars...)
	var subs term.Subst
	for i, idx := range indices {
		thm, err := e.KB.Get(idx)
		if err != nil {
			// firstN is bounded by KB.Len() at call time, so this
			// indicates a bug in the caller, not a data error.
			panic(err)
		}
		if !match.IsOfForm(thm.Thm, r.Premises[i], free, &subs) {
			e.memo[key] = struct{}{}
			return false
		}
	}

	consequence := term.Replace(r.Consequence, subs)
	thm, added := e.KB.AddTheorem(consequence, ruleIndex, indices)
	if !added {
		e.memo[key] = struct{}{}
		return false
	}
	e.logger.WithFields(logrus.Fields{
		"theorem_index": thm.Index,
		"rule_index":    ruleIndex,
	}).Debugf("derived theorem: %v", thm.Thm)
	return true
}

// memoKey renders a (ruleIndex, indices) pairing as a comparable map
// key.
func memoKey(ruleIndex int, indices []int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(ruleIndex))
	for _, i := range indices {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// BackwardProve attempts to derive goal by goal-directed rule
// expansion: matching goal against each backward-applicable rule's
// consequence, then recursively proving every premise under the
// discovered substitution. If goal is already known, it is returned
// immediately.
func (e *Engine) BackwardProve(goal term.Term, budget int) (kb.Theorem, bool) {
	if thm, ok := e.KB.Has(goal); ok {
		return thm, true
	}
	if budget <= 0 {
		return kb.Theorem{}, false
	}

	for ruleIndex, r := range e.Rules {
		if !r.IsBackwardApplicable() {
			continue
		}
		free := match.NewFreeVars(r.FreeVars...)
		var subs term.Subst
		if !match.IsOfForm(goal, r.Consequence, free, &subs) {
			continue
		}
		if !free.Empty() {
			// The rule's classification guarantees the consequence
			// mentions every free variable, so a successful match
			// against it must consume them all. Reaching here means
			// classification and matching disagree: a bug, not a
			// proof failure.
			panic(fmt.Sprintf("engine: rule %d backward-matched %v but left %d free variable(s) unbound",
				ruleIndex, r.Consequence, free.Len()))
		}

		premises := make([]int, 0, len(r.Premises))
		ok := true
		for _, premiseSchema := range r.Premises {
			toProve := term.Replace(premiseSchema, subs)
			premiseThm, found := e.BackwardProve(toProve, budget-1)
			if !found {
				ok = false
				break
			}
			premises = append(premises, premiseThm.Index)
		}
		if ok {
			thm, _ := e.KB.AddTheorem(goal, ruleIndex, premises)
			e.logger.WithFields(logrus.Fields{
				"theorem_index": thm.Index,
				"rule_index":    ruleIndex,
			}).Debugf("derived theorem (backward): %v", thm.Thm)
			return thm, true
		}
	}

	if e.cfg.EnableAlternation {
		return e.ForwardProve(goal, budget-1)
	}
	return kb.Theorem{}, false
}
