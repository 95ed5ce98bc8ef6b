package parser

// xml.go builds a lightweight element tree from the raw feed text. Element
// lookup matches on the prefix-stripped local name, which accepts all the
// tag shapes Green Button exporters produce: unprefixed names, espi:-style
// prefixed names, and default-namespaced names. No namespace URI is
// enforced at parse time.

import (
	"io"
	"strings"

	"encoding/xml"
)

type xmlNode struct {
	name     xml.Name
	attrs    []xml.Attr
	text     strings.Builder
	children []*xmlNode
}

// decodeTree parses xmlText into an element tree and returns the root.
func decodeTree(xmlText string) (*xmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))

	var root *xmlNode
	var stack []*xmlNode

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name, attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					// Multiple roots cannot happen with a strict decoder,
					// keep the first one regardless.
					continue
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return root, nil
}

// local returns the element's prefix-stripped tag name.
func (n *xmlNode) local() string { return n.name.Local }

// content returns the element's own character data, trimmed.
func (n *xmlNode) content() string { return strings.TrimSpace(n.text.String()) }

// attr returns the value of the named attribute, matching on local name.
func (n *xmlNode) attr(name string) string {
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// child returns the first direct child with the given local name.
func (n *xmlNode) child(name string) *xmlNode {
	for _, c := range n.children {
		if c.local() == name {
			return c
		}
	}
	return nil
}

// childText returns the trimmed text of the first direct child with the
// given local name, or "" when absent.
func (n *xmlNode) childText(name string) string {
	if c := n.child(name); c != nil {
		return c.content()
	}
	return ""
}

// find returns the first descendant (or the node itself) with the given
// local name, searching depth-first in document order.
func (n *xmlNode) find(name string) *xmlNode {
	if n.local() == name {
		return n
	}
	for _, c := range n.children {
		if hit := c.find(name); hit != nil {
			return hit
		}
	}
	return nil
}

// findText returns the trimmed text of the first matching descendant,
// or "" when absent.
func (n *xmlNode) findText(name string) string {
	if hit := n.find(name); hit != nil {
		return hit.content()
	}
	return ""
}

// findAll returns every descendant with the given local name, in document
// order. The node itself is not considered.
func (n *xmlNode) findAll(name string) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.children {
		if c.local() == name {
			out = append(out, c)
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}
