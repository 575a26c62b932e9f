package email

import "net/textproto"

// Headers is a case-insensitive multimap of raw header values. Keys are
// stored in canonical MIME form (e.g. "Message-Id", "In-Reply-To").
type Headers map[string][]string

// Add appends a value under the canonical form of name.
func (h Headers) Add(name, value string) {
	key := textproto.CanonicalMIMEHeaderKey(name)
	h[key] = append(h[key], value)
}

// Get returns the first value for name, or "" when absent.
func (h Headers) Get(name string) string {
	values := h[textproto.CanonicalMIMEHeaderKey(name)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns all values for name in document order.
func (h Headers) Values(name string) []string {
	return h[textproto.CanonicalMIMEHeaderKey(name)]
}

// Has reports whether at least one value exists for name.
func (h Headers) Has(name string) bool {
	return len(h[textproto.CanonicalMIMEHeaderKey(name)]) > 0
}
