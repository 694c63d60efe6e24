// Package extract turns an unstructured product page into structured review
// records. It is deliberately best-effort: the page layout is adversarial and
// shifting, so every lookup is an ordered probe chain that degrades to "no
// result" instead of failing.
package extract

// Node is one element of a page's structure. Implementations exist for a live
// browser page and for a static HTML snapshot; the extractor never knows
// which one it is walking.
//
// A page handle is not safe for concurrent structural access — one extraction
// pass owns it for the duration.
type Node interface {
	// Find returns descendants matching a CSS selector, in document order.
	// An unknown or unmatched selector yields an empty slice, never an error.
	Find(selector string) []Node

	// Attr returns the attribute value, or "" when absent.
	Attr(name string) string

	// Text returns the node's flattened text.
	Text() string

	// Click activates the node when the backing page supports it.
	// Static snapshots no-op. Failures are expected and ignorable.
	Click() error

	// Key identifies the underlying element within one extraction pass, so
	// the same element reached through two probes is counted once.
	Key() string
}

// Page is the root handle the extractor is driven with: the document itself,
// with Text returning the full-page text snapshot.
type Page = Node
