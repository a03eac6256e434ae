// File: protocol/urid.go
// Author: momentics <momentics@gmail.com>
//
// URID intern table: a stable numeric id per URI string, assigned by the
// host and cached on the child side. Id 0 is never a valid mapping.

package protocol

// URIDTable caches urid<->uri pairs. Single-goroutine use; the bridge
// serializes access.
type URIDTable struct {
	uris []string
}

// Lookup returns the interned id for uri, if any.
func (t *URIDTable) Lookup(uri string) (uint32, bool) {
	for i, u := range t.uris {
		if u != "" && u == uri {
			return uint32(i), true
		}
	}
	return 0, false
}

// Add interns uri under urid, growing the table as needed. Re-adding the
// same pair is a no-op.
func (t *URIDTable) Add(urid uint32, uri string) {
	if urid == 0 {
		return
	}
	for uint32(len(t.uris)) <= urid {
		t.uris = append(t.uris, "")
	}
	t.uris[urid] = uri
}

// URI returns the uri interned under urid, if any.
func (t *URIDTable) URI(urid uint32) (string, bool) {
	if urid < uint32(len(t.uris)) && t.uris[urid] != "" {
		return t.uris[urid], true
	}
	return "", false
}

// Len returns the number of interned pairs.
func (t *URIDTable) Len() int {
	n := 0
	for _, u := range t.uris {
		if u != "" {
			n++
		}
	}
	return n
}
