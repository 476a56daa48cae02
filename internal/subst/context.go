package subst

import (
	"fmt"
	"sort"
)

const (
	ProjectNameKey = "ProjectName"
	hashKey        = "#"
)

// Context is the read-only substitution context of one run.
type Context struct {
	values     map[string]string
	transforms Transforms
}

// Option configures a Context.
type Option func(*Context)

// WithVariables adds extra context values. Names must pass ValidateVariableName.
func WithVariables(vars map[string]string) Option {
	return func(c *Context) {
		for k, v := range vars {
			c.values[k] = v
		}
	}
}

// WithTransform registers a transform for this context only.
func WithTransform(name string, fn TransformFunc) Option {
	return func(c *Context) {
		c.transforms.Register(name, fn)
	}
}

// NewContext validates projectName and builds the context for a run.
func NewContext(projectName string, opts ...Option) (*Context, error) {
	if err := ValidateProjectName(projectName); err != nil {
		return nil, err
	}

	c := &Context{
		values:     map[string]string{},
		transforms: DefaultTransforms(),
	}
	for _, opt := range opts {
		opt(c)
	}
	for k := range c.values {
		if err := ValidateVariableName(k); err != nil {
			return nil, err
		}
	}
	c.values[ProjectNameKey] = projectName
	c.values[hashKey] = "#"
	return c, nil
}

// ValidateProjectName checks that name can be used as a class-name prefix in
// the generated sources.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidProjectName)
	}
	if !IsIdentifier(name) {
		return fmt.Errorf("%w: %q must contain only letters, digits and underscores and not start with a digit", ErrInvalidProjectName, name)
	}
	return nil
}

// ValidateVariableName checks that name can be bound as an extra variable.
// ProjectName and "#" are reserved.
func ValidateVariableName(name string) error {
	if name == ProjectNameKey || name == hashKey {
		return fmt.Errorf("variable name %q is reserved", name)
	}
	if !IsIdentifier(name) {
		return fmt.Errorf("variable name %q is not an identifier", name)
	}
	return nil
}

// Lookup returns the value bound to name.
func (c *Context) Lookup(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns the bound token names in sorted order.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.values))
	for k := range c.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Resolve computes the replacement text for tok.
func (c *Context) Resolve(tok Token) (string, error) {
	v := tok.Name
	if !tok.Literal {
		var ok bool
		if v, ok = c.values[tok.Name]; !ok {
			return "", ErrUnresolvedToken
		}
	}
	for _, name := range tok.Transforms {
		fn, ok := c.transforms[name]
		if !ok {
			return "", fmt.Errorf("%w %q", ErrUnknownTransform, name)
		}
		v = fn(v)
	}
	return v, nil
}
