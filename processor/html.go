package processor

import (
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/doclai"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements never take an end tag.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// HTMLRepairer closes unclosed elements and drops stray end tags in HTML
// fragments. Balanced fragments are returned byte for byte, so repairing
// twice gives the same result as repairing once.
type HTMLRepairer struct{}

// NewHTMLRepairer returns the default markup repairer.
func NewHTMLRepairer() *HTMLRepairer {
	return &HTMLRepairer{}
}

// Repair returns fragment with its element structure made well formed.
// Input the HTML parser cannot handle is returned unchanged.
func (r *HTMLRepairer) Repair(fragment string) string {
	if !strings.ContainsAny(fragment, "<>") || Balanced(fragment) {
		return fragment
	}
	repaired, err := reserialize(fragment)
	if err != nil {
		return fragment
	}
	return repaired
}

// Balanced reports whether every non-void start tag in fragment has a
// matching end tag in the right order.
func Balanced(fragment string) bool {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var open []string

	for {
		switch z.Next() {
		case html.ErrorToken:
			return errors.Is(z.Err(), io.EOF) && len(open) == 0
		case html.StartTagToken:
			name, _ := z.TagName()
			if voidElements[atom.Lookup(name)] {
				continue
			}
			open = append(open, string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			last := len(open) - 1
			if last < 0 || open[last] != string(name) {
				return false
			}
			open = open[:last]
		}
	}
}

// reserialize parses fragment in a body context, which lets the HTML5
// parser apply its error recovery, and renders the result.
func reserialize(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", &doclai.ProcessorError{Message: "failed to parse fragment", Cause: err, ContentType: "html"}
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(body).Html()
}

var _ doclai.MarkupRepairer = (*HTMLRepairer)(nil)
