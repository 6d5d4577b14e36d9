package cache

import (
	"net/url"
	"strings"
)

// Key identifies one cacheable resource. Keys with the same name and
// params are equal and have the same String form.
type Key struct {
	name string
	id   string
}

// NewKey builds a key such as NewKey("current-user") or
// NewKey("room-questions", roomID).
func NewKey(name string, params ...string) Key {
	if len(params) == 0 {
		return Key{name: name, id: name}
	}
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, url.PathEscape(name))
	for _, p := range params {
		parts = append(parts, url.PathEscape(p))
	}
	return Key{name: name, id: strings.Join(parts, "/")}
}

func (k Key) Name() string   { return k.name }
func (k Key) String() string { return k.id }
