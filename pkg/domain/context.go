package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Context identifies the project/entity/task a session is working against.
// It is created by a ContextResolver, handed to exactly one engine instance,
// and replaced wholesale (never mutated) when the scene changes.
type Context struct {
	Project string `json:"project"`
	Entity  string `json:"entity,omitempty"`
	Task    string `json:"task,omitempty"`

	// FilesystemLocations are the on-disk folders associated with this
	// context ("Jump to File System" targets).
	FilesystemLocations []string `json:"filesystem_locations,omitempty"`

	// WebURL is the context page on the pipeline web front-end.
	WebURL string `json:"web_url,omitempty"`
}

// Equal reports whether two contexts identify the same project/entity/task.
// Locations and URL are derived data and do not participate in identity.
func (c *Context) Equal(other *Context) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Project == other.Project && c.Entity == other.Entity && c.Task == other.Task
}

// Sufficient reports whether the context carries enough information to
// start an engine. A context without a project cannot configure anything.
func (c *Context) Sufficient() bool {
	return c != nil && c.Project != ""
}

func (c *Context) String() string {
	if c == nil {
		return "<no context>"
	}
	s := c.Project
	if c.Entity != "" {
		s += " / " + c.Entity
	}
	if c.Task != "" {
		s += " / " + c.Task
	}
	return s
}

// Serialize encodes the context for transport through an environment
// variable: base64 over the JSON form, so the value survives shells and
// process spawning untouched.
func (c *Context) Serialize() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to serialize context: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DeserializeContext is the inverse of Serialize.
func DeserializeContext(s string) (*Context, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("context payload is not valid base64: %w", err)
	}
	var c Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to deserialize context: %w", err)
	}
	return &c, nil
}
