package ingest

import (
	"io"
	"strings"

	"github.com/shenwei356/xopen"

	"github.com/phac-nml/rebar-go"
)

// LoadLineageTreeFile reads a (possibly gzip-compressed) Newick file via
// xopen's transparent-decompression reader and parses it with
// LoadLineageTree.
func LoadLineageTreeFile(file string) (*rebar.LineageTree, error) {
	r, err := xopen.Ropen(file)
	if err != nil {
		return nil, &rebar.InputMalformedError{Source: file, Reason: err.Error()}
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &rebar.InputMalformedError{Source: file, Reason: err.Error()}
	}
	return LoadLineageTree(string(data))
}

// LoadLineageTree parses a Newick string into a *rebar.LineageTree (spec.md
// §6). The dialect handled here is deliberately narrow: named internal and
// leaf nodes, optional `:branch-length` annotations (ignored - the tree's
// only consulted relation is ancestry, not branch length), and nested
// parenthesized groups. No pack library in the retrieved examples offers a
// Newick parser, so this is a small hand-rolled recursive descent one
// (documented in DESIGN.md).
//
// Requires a node named "X" (the recombinant subtree root) and a root node
// named "MRCA"; either missing is an InputMalformedError.
func LoadLineageTree(newick string) (*rebar.LineageTree, error) {
	s := strings.TrimSpace(newick)
	s = strings.TrimSuffix(s, ";")

	p := &newickParser{input: s}
	rootName, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	if rootName != "MRCA" {
		return nil, &rebar.InputMalformedError{Source: "newick", Reason: "root node is not named MRCA"}
	}
	if !p.sawX {
		return nil, &rebar.InputMalformedError{Source: "newick", Reason: "tree has no node named X"}
	}
	return p.tree, nil
}

type newickParser struct {
	input string
	pos   int
	tree  *rebar.LineageTree
	sawX  bool
}

// parseRoot parses the whole string as a single top-level clade and
// returns its name, building p.tree as a side effect.
func (p *newickParser) parseRoot() (string, error) {
	name, children, err := p.parseClade()
	if err != nil {
		return "", err
	}
	p.tree = rebar.NewLineageTree(name)
	if name == "X" {
		p.sawX = true
	}
	for _, c := range children {
		if err := p.attach(name, c); err != nil {
			return "", err
		}
	}
	return name, nil
}

// clade is the parsed shape of one Newick subtree: its own name and its
// direct children (each themselves a clade), before being attached to the
// arena-backed LineageTree.
type clade struct {
	name     string
	children []clade
}

func (p *newickParser) attach(parent string, c clade) error {
	if err := p.tree.AddChild(parent, c.name); err != nil {
		return &rebar.InputMalformedError{Source: "newick", Reason: err.Error()}
	}
	if c.name == "X" {
		p.sawX = true
	}
	for _, gc := range c.children {
		if err := p.attach(c.name, gc); err != nil {
			return err
		}
	}
	return nil
}

func (p *newickParser) parseClade() (string, []clade, error) {
	var children []clade
	if p.peek() == '(' {
		p.pos++ // consume '('
		for {
			name, grandchildren, err := p.parseClade()
			if err != nil {
				return "", nil, err
			}
			children = append(children, clade{name: name, children: grandchildren})
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
		if p.peek() != ')' {
			return "", nil, &rebar.InputMalformedError{Source: "newick", Reason: "unbalanced parentheses"}
		}
		p.pos++ // consume ')'
	}
	name := p.parseLabel()
	return name, children, nil
}

func (p *newickParser) parseLabel() string {
	start := p.pos
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ',', ')', '(', ':':
			goto done
		}
		p.pos++
	}
done:
	label := p.input[start:p.pos]
	if p.peek() == ':' {
		p.pos++ // consume ':'
		for p.pos < len(p.input) {
			c := p.input[p.pos]
			if c == ',' || c == ')' {
				break
			}
			p.pos++
		}
	}
	return label
}

func (p *newickParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}
