// Package svg is a small retained element tree for server-rendered charts.
// Views rebuild their whole tree on every render, so two renders of the same
// state compare equal with reflect.DeepEqual and serialize to identical bytes.
package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Attr is one element attribute. Attributes keep insertion order so output
// is stable.
type Attr struct {
	Name  string
	Value string
}

// Element is a node in the drawing.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// New creates an element with the given tag.
func New(tag string) *Element {
	return &Element{Tag: tag}
}

// Root creates an <svg> element sized width × height.
func Root(width, height float64) *Element {
	return New("svg").
		Set("xmlns", "http://www.w3.org/2000/svg").
		SetF("width", width).
		SetF("height", height)
}

// Set assigns an attribute, replacing an existing value.
func (e *Element) Set(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// SetF assigns a numeric attribute.
func (e *Element) SetF(name string, v float64) *Element {
	return e.Set(name, Num(v))
}

// Get returns an attribute value.
func (e *Element) Get(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attr returns an attribute value or "".
func (e *Element) Attr(name string) string {
	v, _ := e.Get(name)
	return v
}

// SetText sets character data.
func (e *Element) SetText(s string) *Element {
	e.Text = s
	return e
}

// Append adds children and returns e.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Add creates a child element and returns the child.
func (e *Element) Add(tag string) *Element {
	c := New(tag)
	e.Children = append(e.Children, c)
	return c
}

// HasClass reports whether the class attribute contains the token.
func (e *Element) HasClass(class string) bool {
	for _, c := range strings.Fields(e.Attr("class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Find returns every descendant (including e) that matches, depth first.
func (e *Element) Find(match func(*Element) bool) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(n *Element) {
		if match(n) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}

// FindClass returns every descendant carrying the class token.
func (e *Element) FindClass(class string) []*Element {
	return e.Find(func(n *Element) bool { return n.HasClass(class) })
}

// ByID returns the first descendant with the id, or nil.
func (e *Element) ByID(id string) *Element {
	found := e.Find(func(n *Element) bool { return n.Attr("id") == id })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// WriteTo serializes the tree as XML.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	if err := e.write(cw); err != nil {
		return cw.n, eris.Wrap(err, "svg: write")
	}
	return cw.n, nil
}

// String returns the serialized tree.
func (e *Element) String() string {
	var buf bytes.Buffer
	_, _ = e.WriteTo(&buf)
	return buf.String()
}

func (e *Element) write(w io.Writer) error {
	if _, err := io.WriteString(w, "<"+e.Tag); err != nil {
		return err
	}
	for _, a := range e.Attrs {
		if _, err := io.WriteString(w, " "+a.Name+`="`); err != nil {
			return err
		}
		if err := xml.EscapeText(w, []byte(a.Value)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `"`); err != nil {
			return err
		}
	}
	if len(e.Children) == 0 && e.Text == "" {
		_, err := io.WriteString(w, "/>")
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if e.Text != "" {
		if err := xml.EscapeText(w, []byte(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := c.write(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</"+e.Tag+">")
	return err
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Num formats a coordinate with at most three decimals.
func Num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // normalizes -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Translate formats a translate() transform.
func Translate(x, y float64) string {
	return "translate(" + Num(x) + "," + Num(y) + ")"
}
