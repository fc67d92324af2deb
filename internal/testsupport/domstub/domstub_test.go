package domstub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuerySelectorAll_DocumentOrderAcrossSelectorList(t *testing.T) {
	btn := NewElement("button")
	link := NewElement("a")
	field := NewElement("input")
	doc := NewElement("html").Append(btn, link, field)

	// "a" precedes "button" in the list but the button comes first in the
	// document; results must follow document order, not list order.
	got := doc.QuerySelectorAll("a, button, input")

	require.Len(t, got, 3)
	assert.Same(t, btn, got[0])
	assert.Same(t, link, got[1])
	assert.Same(t, field, got[2])
}

func TestQuerySelectorAll_ElementMatchingSeveralPartsAppearsOnce(t *testing.T) {
	btn := NewElement("button")
	btn.Attrs["type"] = "submit"
	doc := NewElement("html").Append(btn)

	got := doc.QuerySelectorAll(`button, [type="submit"]`)

	require.Len(t, got, 1)
	assert.Same(t, btn, got[0])
}

func TestQuerySelectorAll_NestedMatchesInterleaveWithSiblings(t *testing.T) {
	inner := NewElement("a")
	wrap := NewElement("div").Append(inner)
	after := NewElement("button")
	doc := NewElement("html").Append(wrap, after)

	got := doc.QuerySelectorAll("a, button")

	require.Len(t, got, 2)
	assert.Same(t, inner, got[0])
	assert.Same(t, after, got[1])
}
