package stitch

import (
	"strconv"
	"strings"

	"shanhu.io/misc/strutil"
)

// maxResolveDepth bounds nested ${...} resolution. Going deeper than this
// most likely means the properties reference each other in a cycle.
const maxResolveDepth = 50

// Props is a write-once property store. Once a key is set, later writes to
// the same key are ignored. Values may reference other keys with
// ${key}, which are resolved when read.
type Props struct {
	m map[string]string
}

// NewProps creates an empty property store.
func NewProps() *Props {
	return &Props{m: make(map[string]string)}
}

// Set sets key to value if key has not been set yet. It returns true if
// the value is taken.
func (p *Props) Set(key, value string) bool {
	if _, ok := p.m[key]; ok {
		return false
	}
	p.m[key] = value
	return true
}

// Has checks if key is set.
func (p *Props) Has(key string) bool {
	_, ok := p.m[key]
	return ok
}

// Raw returns the unresolved value of key.
func (p *Props) Raw(key string) (string, bool) {
	v, ok := p.m[key]
	return v, ok
}

// Keys returns all keys, sorted.
func (p *Props) Keys() []string {
	set := make(map[string]bool)
	for k := range p.m {
		set[k] = true
	}
	return strutil.SortedList(set)
}

// Lookup returns the resolved value of key, and if the key is set.
func (p *Props) Lookup(key string) (string, bool, error) {
	v, ok := p.m[key]
	if !ok {
		return "", false, nil
	}
	ret, err := p.resolve(key, v, 0)
	if err != nil {
		return "", false, err
	}
	return ret, true, nil
}

// Get returns the resolved value of key. A key that is not set resolves to
// an empty string.
func (p *Props) Get(key string) (string, error) {
	v, _, err := p.Lookup(key)
	return v, err
}

// GetDefault returns the resolved value of key, or def if the key is not
// set.
func (p *Props) GetDefault(key, def string) (string, error) {
	v, ok, err := p.Lookup(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// GetBool reads a boolean property. "true", "yes", "on" and the empty
// string are true; "false", "no" and "off" are false. Anything else, or a
// key that is not set, gives def.
func (p *Props) GetBool(key string, def bool) (bool, error) {
	v, ok, err := p.Lookup(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "true", "yes", "on", "":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return def, nil
}

// GetInt reads an integer property. A value that is not an integer, or a
// key that is not set, gives def.
func (p *Props) GetInt(key string, def int) (int, error) {
	v, ok, err := p.Lookup(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, nil
	}
	return i, nil
}

// Substitute resolves all ${key} references in s.
func (p *Props) Substitute(s string) (string, error) {
	return p.resolve("", s, 0)
}

func (p *Props) resolve(key, v string, depth int) (string, error) {
	if depth > maxResolveDepth {
		return "", &ConfigError{
			Key: key,
			Msg: "max resolution depth reached, likely a reference cycle",
		}
	}

	var sb strings.Builder
	for {
		start := strings.Index(v, "${")
		if start < 0 {
			sb.WriteString(v)
			return sb.String(), nil
		}
		end := strings.Index(v[start:], "}")
		if end < 0 {
			return "", &ConfigError{
				Key: key,
				Msg: "unterminated reference in " + strconv.Quote(v),
			}
		}
		end += start

		sb.WriteString(v[:start])
		sub := v[start+2 : end]
		if raw, ok := p.m[sub]; ok {
			got, err := p.resolve(sub, raw, depth+1)
			if err != nil {
				return "", err
			}
			sb.WriteString(got)
		}
		v = v[end+1:]
	}
}
