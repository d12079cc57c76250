package applehealth

import (
	"encoding/xml"
	"io"
	"strings"
)

// Element is one node of an export document subtree. Only local names are kept.
type Element struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Element
	Text     string
}

// Attr returns the value of the attribute with the given local name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue is Attr with absent attributes read as empty string.
func (e *Element) AttrValue(name string) string {
	v, _ := e.Attr(name)
	return v
}

// Child returns the first direct child with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildText returns the trimmed text of the named child.
func (e *Element) ChildText(name string) (string, bool) {
	c := e.Child(name)
	if c == nil {
		return "", false
	}
	return strings.TrimSpace(c.Text), true
}

const arenaChunk = 256

// Arena hands out Elements for one subtree at a time. Reset makes every
// Element handed out so far reusable, so callers must copy what they need
// out of a subtree before resetting.
type Arena struct {
	chunks [][]Element
	next   int
	stack  []*Element
}

func NewArena() *Arena {
	return &Arena{}
}

// Reset releases the previous subtree.
func (a *Arena) Reset() {
	for i := 0; i < a.next; i++ {
		e := &a.chunks[i/arenaChunk][i%arenaChunk]
		e.Name = ""
		e.Attrs = e.Attrs[:0]
		e.Children = e.Children[:0]
		e.Text = ""
	}
	a.next = 0
}

// Len is the number of Elements in use.
func (a *Arena) Len() int { return a.next }

func (a *Arena) alloc(start xml.StartElement) *Element {
	if a.next == len(a.chunks)*arenaChunk {
		a.chunks = append(a.chunks, make([]Element, arenaChunk))
	}
	e := &a.chunks[a.next/arenaChunk][a.next%arenaChunk]
	a.next++
	e.Name = start.Name.Local
	e.Attrs = append(e.Attrs, start.Attr...)
	return e
}

// Build reads tokens from dec until the element opened by start is closed
// and returns the subtree rooted at it.
func (a *Arena) Build(dec *xml.Decoder, start xml.StartElement) (*Element, error) {
	root := a.alloc(start)
	stack := append(a.stack[:0], root)
	defer func() { a.stack = stack[:0] }()

	for len(stack) > 0 {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := a.alloc(t)
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, child)
			stack = append(stack, child)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.Text += string(t)
		}
	}
	return root, nil
}
