package catalog

import (
	"encoding/xml"
	"fmt"
)

// Item field names written by the update step.
const (
	FieldMaterialType = "physical_material_type"
	FieldPolicy       = "policy"
	FieldEnumA        = "enumeration_a"
	FieldEnumB        = "enumeration_b"
	FieldChronI       = "chronology_i"
	FieldChronJ       = "chronology_j"
)

const itemDataElement = "item_data"

// Node is a generic XML element. Decoding and re-encoding a Node keeps
// elements and attributes this package knows nothing about.
type Node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []*Node    `xml:",any"`
}

// Child returns the first direct child named name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Nodes {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

func (n *Node) ensureChild(name string) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	c := &Node{XMLName: xml.Name{Local: name}}
	n.Nodes = append(n.Nodes, c)
	return c
}

// Attr returns the value of attribute name.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or adds attribute name.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// Item is one physical item record as returned by the items API.
type Item struct {
	root *Node
}

// ParseItem decodes an item document.
func ParseItem(data []byte) (*Item, error) {
	var root Node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}
	return &Item{root: &root}, nil
}

// Root returns the document element.
func (it *Item) Root() *Node {
	return it.root
}

// Link returns the item's own API URL.
func (it *Item) Link() string {
	v, _ := it.root.Attr("link")
	return v
}

// Field returns the text of an item_data field.
func (it *Item) Field(name string) (string, bool) {
	data := it.root.Child(itemDataElement)
	if data == nil {
		return "", false
	}
	c := data.Child(name)
	if c == nil {
		return "", false
	}
	return c.Text, true
}

// SetField sets an item_data field, creating it when missing.
func (it *Item) SetField(name, text string) {
	it.root.ensureChild(itemDataElement).ensureChild(name).Text = text
}

// SetCodedField sets a coded item_data field and its display label.
func (it *Item) SetCodedField(name, code, desc string) {
	field := it.root.ensureChild(itemDataElement).ensureChild(name)
	field.Text = code
	field.SetAttr("desc", desc)
}

// Marshal encodes the item for an update request.
func (it *Item) Marshal() ([]byte, error) {
	body, err := xml.Marshal(it.root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
