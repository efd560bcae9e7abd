package parser

import (
	"sort"
	"strings"

	"github.com/ledgertext/beancount/ast"
)

// parseState carries the directive-order-dependent context a single parse
// accumulates outside the IR itself: the root-account rename table
// installed by `option "name_*"` directives, and the pushtag/poptag
// multiset. Neither is recorded as a directive (§4.1); both mutate this
// state transiently as directives stream past in parse order.
type parseState struct {
	rootNames map[ast.AccountType]string
	tags      *tagStack
}

func newParseState() *parseState {
	return &parseState{
		rootNames: make(map[ast.AccountType]string),
		tags:      newTagStack(),
	}
}

// applyOption installs a root-account rename if name is one of the five
// recognized "name_*" options. Any other option name is recorded on the
// Option directive but has no effect on subsequent parsing.
func (s *parseState) applyOption(name, value string) {
	switch name {
	case "name_assets":
		s.rootNames[ast.Assets] = value
	case "name_liabilities":
		s.rootNames[ast.Liabilities] = value
	case "name_equity":
		s.rootNames[ast.Equity] = value
	case "name_income":
		s.rootNames[ast.Income] = value
	case "name_expenses":
		s.rootNames[ast.Expenses] = value
	}
}

// resolveAccount resolves a raw "Root:Segment:..." account string against
// the currently active rename table.
func (s *parseState) resolveAccount(raw string) (ast.Account, bool) {
	parts := strings.Split(raw, ":")
	root := parts[0]
	t, ok := ast.AccountTypeFromRoot(root, s.rootNames)
	if !ok {
		return ast.Account{}, false
	}
	return ast.Account{Type: t, Parts: parts[1:]}, true
}

// tagStack is a multiset of currently pushed tags: pushtag nests, so the
// same tag can be pushed more than once and must be popped that many
// times before it stops being active (§4.5).
type tagStack struct {
	counts map[string]int
	order  []string // insertion order of currently-active tags
}

func newTagStack() *tagStack {
	return &tagStack{counts: make(map[string]int)}
}

func (s *tagStack) push(tag string) {
	if s.counts[tag] == 0 {
		s.order = append(s.order, tag)
	}
	s.counts[tag]++
}

// pop decrements tag's count, reporting false if the tag was not active.
func (s *tagStack) pop(tag string) bool {
	if s.counts[tag] <= 0 {
		return false
	}
	s.counts[tag]--
	if s.counts[tag] == 0 {
		delete(s.counts, tag)
		for i, t := range s.order {
			if t == tag {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return true
}

// active returns the tags currently on the stack, in the order they were
// first pushed, for unioning into a transaction's Tags (§8 testable
// property 6).
func (s *tagStack) active() []ast.Tag {
	if len(s.order) == 0 {
		return nil
	}
	out := make([]ast.Tag, len(s.order))
	for i, t := range s.order {
		out[i] = ast.Tag(t)
	}
	return out
}

// unbalanced reports the names still pushed at end of input, sorted for a
// deterministic error message.
func (s *tagStack) unbalanced() []string {
	if len(s.order) == 0 {
		return nil
	}
	names := append([]string(nil), s.order...)
	sort.Strings(names)
	return names
}
