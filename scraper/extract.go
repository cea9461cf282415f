package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Mode selects what is read from a matched node.
type Mode string

const (
	// ModeText reads the node's text content, trimmed.
	ModeText Mode = "text"
	// ModeJoinedText concatenates every trimmed, non-blank text fragment
	// under the node.
	ModeJoinedText Mode = "joined-text"
)

// ModeAttr reads the named attribute of the node.
func ModeAttr(name string) Mode {
	return Mode("attribute:" + name)
}

func (m Mode) attr() (string, bool) {
	return strings.CutPrefix(string(m), "attribute:")
}

// Rule describes how to extract one field.
//
// Selector is resolved relative to the selection passed to Extract; an empty
// Selector targets that selection itself. When Label is set the rule is a
// labelled lookup: Selector must match a label node whose trimmed text equals
// Label, and the value is the first node matching Value that follows it in
// document order. A value node carrying the Exclude class is treated as
// missing.
type Rule struct {
	Field    string
	Selector string
	Mode     Mode

	Label   string
	Value   string
	Exclude string
}

// Extract applies rules to sel and returns one value per rule. Fields whose
// nodes are missing map to the empty string.
func Extract(sel *goquery.Selection, rules []Rule) map[string]string {
	out := make(map[string]string, len(rules))
	for _, r := range rules {
		out[r.Field] = extractOne(sel, r)
	}
	return out
}

func extractOne(sel *goquery.Selection, r Rule) string {
	target := sel
	if r.Selector != "" {
		target = sel.Find(r.Selector)
	}

	if r.Label != "" {
		target = labelledValue(target, r.Label, r.Value)
		if r.Exclude != "" && target.HasClass(r.Exclude) {
			return ""
		}
	}

	if target.Length() == 0 {
		return ""
	}
	return read(target.First(), r.Mode)
}

func labelledValue(candidates *goquery.Selection, label, value string) *goquery.Selection {
	labelNode := candidates.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == label
	}).First()
	if labelNode.Length() == 0 {
		return labelNode
	}

	return followingMatch(labelNode, value)
}

// followingMatch returns the first node matching selector that comes after
// from in document order, or an empty selection.
func followingMatch(from *goquery.Selection, selector string) *goquery.Selection {
	start := from.Get(0)
	root := start
	for root.Parent != nil {
		root = root.Parent
	}

	matches := goquery.NewDocumentFromNode(root).Find(selector)
	candidates := make(map[*html.Node]bool, matches.Length())
	for _, n := range matches.Nodes {
		candidates[n] = true
	}

	for n := nextInDocument(start); n != nil; n = nextInDocument(n) {
		if candidates[n] {
			return goquery.NewDocumentFromNode(n).Selection
		}
	}
	return from.Slice(0, 0)
}

func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func read(node *goquery.Selection, mode Mode) string {
	if name, ok := mode.attr(); ok {
		return node.AttrOr(name, "")
	}
	switch mode {
	case ModeJoinedText:
		return joinedText(node)
	default:
		return strings.TrimSpace(node.Text())
	}
}

func joinedText(node *goquery.Selection) string {
	var buf bytes.Buffer
	for _, n := range node.Nodes {
		appendStrippedStrings(n, &buf)
	}
	return buf.String()
}

func appendStrippedStrings(n *html.Node, buf *bytes.Buffer) {
	if n.Type == html.TextNode {
		buf.WriteString(strings.TrimSpace(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendStrippedStrings(c, buf)
	}
}

// ParseDocument parses an HTML body.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
