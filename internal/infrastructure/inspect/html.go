package inspect

import (
	"strings"

	"golang.org/x/net/html"
)

// CompactConfig controls what the compactor strips from page markup before it
// is served to an inspecting client.
type CompactConfig struct {
	StripTags  []string
	StripAttrs []string
	MaxBytes   int
}

func DefaultCompactConfig() CompactConfig {
	return CompactConfig{
		StripTags: []string{
			"script", "style", "noscript", "svg", "iframe",
			"link", "meta", "head", "title",
		},
		StripAttrs: []string{
			"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
		},
		MaxBytes: 130_000,
	}
}

// Compactor reduces raw document markup to the structural skeleton: scripts,
// styles, tracking attributes, and comments removed, output capped.
type Compactor struct {
	cfg CompactConfig
}

func NewCompactor(cfg CompactConfig) *Compactor {
	return &Compactor{cfg: cfg}
}

// Compact returns the cleaned body markup. Unparseable input comes back
// unchanged; serving raw markup beats serving nothing.
func (c *Compactor) Compact(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	body := findBody(doc)
	if body == nil {
		return raw
	}

	c.clean(body)

	var sb strings.Builder
	if err := html.Render(&sb, body); err != nil {
		return raw
	}
	return c.truncate(sb.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if b := findBody(child); b != nil {
			return b
		}
	}
	return nil
}

func (c *Compactor) clean(n *html.Node) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	for _, tag := range c.cfg.StripTags {
		if n.Data == tag {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
			return
		}
	}

	n.Attr = c.keepAttrs(n.Attr)

	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		c.clean(child)
		child = next
	}
}

func (c *Compactor) keepAttrs(attrs []html.Attribute) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if c.dropAttr(attr) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func (c *Compactor) dropAttr(attr html.Attribute) bool {
	for _, name := range c.cfg.StripAttrs {
		if attr.Key == name {
			return true
		}
	}
	// Data, ARIA, and inline handler attributes carry nothing an inspecting
	// human needs.
	return strings.HasPrefix(attr.Key, "data-") ||
		strings.HasPrefix(attr.Key, "aria-") ||
		strings.HasPrefix(attr.Key, "on")
}

func (c *Compactor) truncate(s string) string {
	if c.cfg.MaxBytes > 0 && len(s) > c.cfg.MaxBytes {
		return s[:c.cfg.MaxBytes] + "\n<!-- truncated -->"
	}
	return s
}
