package dispatch

import (
	"fmt"
	"hash/fnv"
)

// Target is the resolved destination of a client: the interface it
// implements, the logical client name and the base URL every request
// is issued against.
type Target struct {
	// Iface is the declared interface name, e.g. "OrderService".
	Iface string
	// Name is the logical client name, e.g. "orders".
	Name string
	// URL is the absolute base URL, e.g. "http://orders".
	URL string
}

// String renders the target for logs and the intercepted String method.
func (t Target) String() string {
	return fmt.Sprintf("%s(name=%s, url=%s)", t.Iface, t.Name, t.URL)
}

// Equal reports whether two targets address the same destination.
func (t Target) Equal(other Target) bool {
	return t == other
}

// Hash returns a stable hash of the target.
func (t Target) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(t.Iface))
	h.Write([]byte{0})
	h.Write([]byte(t.Name))
	h.Write([]byte{0})
	h.Write([]byte(t.URL))
	return h.Sum64()
}
