package fetcher

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var skipElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
	atom.Title:    true,
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Address: true, atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Nav: true,
	atom.Td: true, atom.Th: true, atom.Main: true, atom.Aside: true,
}

// ExtractText parses HTML and returns the page title followed by its visible
// text, one block per line with whitespace collapsed.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: parse html")
	}

	var title string
	var lines []string
	var cur strings.Builder

	flush := func() {
		line := strings.Join(strings.Fields(cur.String()), " ")
		if line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Title && title == "" && n.FirstChild != nil {
				title = strings.Join(strings.Fields(n.FirstChild.Data), " ")
			}
			if skipElements[n.DataAtom] {
				return
			}
			if blockElements[n.DataAtom] {
				flush()
			}
		}
		if n.Type == html.TextNode {
			cur.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.DataAtom] {
			flush()
		}
	}
	walk(doc)
	flush()

	body := strings.Join(lines, "\n")
	if title != "" && !strings.HasPrefix(body, title) {
		if body == "" {
			return title, nil
		}
		return title + "\n\n" + body, nil
	}
	return body, nil
}
