package statement

import (
	"sort"

	"github.com/framesql/framesql"
)

// Container holds a named collection of SQL statement templates for a
// database. The contents are copied on construction and never change, so a
// Container is safe for concurrent use.
type Container struct {
	statements map[string]string
}

// NewContainer builds a Container from a name to statement text map.
func NewContainer(statements map[string]string) *Container {
	c := &Container{statements: make(map[string]string, len(statements))}
	for name, stmt := range statements {
		c.statements[name] = stmt
	}
	return c
}

// Statement returns the template registered under name.
func (c *Container) Statement(name string) (string, error) {
	stmt, ok := c.statements[name]
	if !ok {
		return "", framesql.NewError(framesql.ErrInvalidInput,
			"no statement named %q in the container", name)
	}
	return stmt, nil
}

// Names returns the registered statement names in sorted order.
func (c *Container) Names() []string {
	names := make([]string, 0, len(c.statements))
	for name := range c.statements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
