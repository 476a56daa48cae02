package subst

import "sort"

// TransformFunc is a pure string function applied to a resolved token value.
type TransformFunc func(string) string

// Transforms maps a transform name, as written in "$(Name:name())", to its function.
type Transforms map[string]TransformFunc

// DefaultTransforms returns a fresh registry holding the built-in transforms.
func DefaultTransforms() Transforms {
	return Transforms{
		"upper": ASCIIUpper,
		"lower": ASCIILower,
	}
}

// Register adds or replaces a transform.
func (t Transforms) Register(name string, fn TransformFunc) {
	t[name] = fn
}

// Names returns the registered transform names in sorted order.
func (t Transforms) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ASCIIUpper uppercases ASCII letters and leaves every other byte untouched.
func ASCIIUpper(s string) string {
	return mapASCII(s, 'a', 'z', 'A'-'a')
}

// ASCIILower lowercases ASCII letters and leaves every other byte untouched.
func ASCIILower(s string) string {
	return mapASCII(s, 'A', 'Z', 'a'-'A')
}

func mapASCII(s string, lo, hi byte, delta int) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < lo || c > hi {
			continue
		}
		if b == nil {
			b = []byte(s)
		}
		b[i] = byte(int(c) + delta)
	}
	if b == nil {
		return s
	}
	return string(b)
}
