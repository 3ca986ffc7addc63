// Package tree is the parse tree produced by the chart parser, with a
// bracketed (Penn Treebank style) reader and writer.
package tree

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Tree struct {
	Label    string
	Children []*Tree
}

func NewLeaf(label string) *Tree {
	return &Tree{Label: label}
}

func NewNode(label string, children ...*Tree) *Tree {
	return &Tree{label, children}
}

func (t *Tree) IsLeaf() bool {
	return len(t.Children) == 0
}

func (t *Tree) IsPreterminal() bool {
	return len(t.Children) == 1 && t.Children[0].IsLeaf()
}

func (t *Tree) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Tree) write(b *strings.Builder) {
	if t.IsLeaf() {
		b.WriteString(t.Label)
		return
	}
	b.WriteByte('(')
	b.WriteString(t.Label)
	for _, child := range t.Children {
		b.WriteByte(' ')
		child.write(b)
	}
	b.WriteByte(')')
}

// Leaves returns the terminals in order.
func (t *Tree) Leaves() []string {
	var leaves []string
	t.walk(func(node *Tree) {
		if node.IsLeaf() {
			leaves = append(leaves, node.Label)
		}
	})
	return leaves
}

// Preterminals returns the part-of-speech labels in order.
func (t *Tree) Preterminals() []string {
	var tags []string
	t.walk(func(node *Tree) {
		if node.IsPreterminal() {
			tags = append(tags, node.Label)
		}
	})
	return tags
}

func (t *Tree) walk(f func(*Tree)) {
	f(t)
	for _, child := range t.Children {
		child.walk(f)
	}
}

// Unfactor splices every node for which factored returns true into its
// parent, undoing grammar binarization. The root is never spliced.
func (t *Tree) Unfactor(factored func(string) bool) *Tree {
	if t.IsLeaf() || t.IsPreterminal() {
		return t
	}
	children := make([]*Tree, 0, len(t.Children))
	for _, child := range t.Children {
		child = child.Unfactor(factored)
		if !child.IsLeaf() && !child.IsPreterminal() && factored(child.Label) {
			children = append(children, child.Children...)
		} else {
			children = append(children, child)
		}
	}
	return &Tree{t.Label, children}
}

type Bracket struct {
	Label      string
	Start, End int
}

func (b Bracket) String() string {
	return fmt.Sprintf("%s[%d,%d]", b.Label, b.Start, b.End)
}

// Brackets lists the labeled spans of all phrasal nodes (preterminals and
// leaves excluded), in pre-order.
func (t *Tree) Brackets() []Bracket {
	var brackets []Bracket
	t.brackets(0, &brackets)
	return brackets
}

func (t *Tree) brackets(start int, out *[]Bracket) int {
	if t.IsLeaf() {
		return start + 1
	}
	if t.IsPreterminal() {
		return start + 1
	}
	at := len(*out)
	*out = append(*out, Bracket{t.Label, start, 0})
	end := start
	for _, child := range t.Children {
		end = child.brackets(end, out)
	}
	(*out)[at].End = end
	return end
}

// Read parses a single bracketed tree. An outer unlabeled bracket with a
// single child, as found in treebank files, is removed.
func Read(s string) (*Tree, error) {
	r := &reader{tokens: tokenize(s)}
	if len(r.tokens) == 0 {
		return nil, errors.New("empty tree")
	}
	t, err := r.node()
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.tokens) {
		return nil, errors.Errorf("trailing input after tree at token %d", r.pos)
	}
	if t.Label == "" && len(t.Children) == 1 {
		t = t.Children[0]
	}
	return t, nil
}

type reader struct {
	tokens []string
	pos    int
}

func tokenize(s string) []string {
	s = strings.NewReplacer("(", " ( ", ")", " ) ").Replace(s)
	return strings.Fields(s)
}

func (r *reader) node() (*Tree, error) {
	if r.pos >= len(r.tokens) {
		return nil, errors.New("unexpected end of tree")
	}
	tok := r.tokens[r.pos]
	r.pos++
	switch tok {
	case ")":
		return nil, errors.Errorf("unbalanced ')' at token %d", r.pos-1)
	case "(":
	default:
		return NewLeaf(tok), nil
	}
	t := &Tree{}
	if r.pos < len(r.tokens) && r.tokens[r.pos] != "(" && r.tokens[r.pos] != ")" {
		t.Label = r.tokens[r.pos]
		r.pos++
	}
	for {
		if r.pos >= len(r.tokens) {
			return nil, errors.New("missing ')'")
		}
		if r.tokens[r.pos] == ")" {
			r.pos++
			return t, nil
		}
		child, err := r.node()
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)
	}
}
