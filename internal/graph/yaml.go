package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseError represents an error encountered while parsing a procedure
// definition, with positional information where available.
type ParseError struct {
	// Message is the human-readable error message
	Message string
	// Line is the line number where the error occurred (1-indexed, 0 if unknown)
	Line int
	// Column is the column number where the error occurred (1-indexed, 0 if unknown)
	Column int
	// NodeID is the ID of the node being parsed when the error occurred (if applicable)
	NodeID string
	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("parse error at line %d:%d (node %s): %s", e.Line, e.Column, e.NodeID, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// yamlProcedure mirrors the top-level YAML document structure.
type yamlProcedure struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Nodes       []yaml.Node `yaml:"nodes"`
	Connections []yaml.Node `yaml:"connections"`
}

// yamlNode mirrors a single node entry. The free-form config map is decoded
// into the node's typed payload after unmarshaling.
type yamlNode struct {
	ID          string         `yaml:"id"`
	Type        string         `yaml:"type"`
	Label       string         `yaml:"label"`
	Description string         `yaml:"description"`
	Config      map[string]any `yaml:"config"`
	Metadata    map[string]any `yaml:"metadata"`
}

// yamlConnection mirrors a single connection entry.
type yamlConnection struct {
	ID     string `yaml:"id"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	Handle string `yaml:"handle"`
}

// Parse parses a YAML procedure definition into a Graph.
// Structural problems (missing IDs, undecodable payloads) surface as
// ParseError values carrying the source position of the offending entry.
func Parse(data []byte) (*Graph, error) {
	var doc yamlProcedure
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid YAML: %v", err),
			Err:     err,
		}
	}

	if doc.Name == "" {
		return nil, &ParseError{Message: "procedure name is required"}
	}
	if len(doc.Nodes) == 0 {
		return nil, &ParseError{Message: "procedure has no nodes"}
	}

	nodes := make([]*Node, 0, len(doc.Nodes))
	for _, raw := range doc.Nodes {
		var yn yamlNode
		if err := raw.Decode(&yn); err != nil {
			return nil, &ParseError{
				Message: fmt.Sprintf("invalid node entry: %v", err),
				Line:    raw.Line,
				Column:  raw.Column,
				Err:     err,
			}
		}
		if yn.ID == "" {
			return nil, &ParseError{
				Message: "node id is required",
				Line:    raw.Line,
				Column:  raw.Column,
			}
		}

		node := &Node{
			ID:          yn.ID,
			Type:        NodeType(yn.Type),
			Label:       yn.Label,
			Description: yn.Description,
			Status:      NodeStatusIdle,
			Metadata:    yn.Metadata,
		}
		if err := decodePayload(node, yn.Config); err != nil {
			return nil, &ParseError{
				Message: err.Error(),
				Line:    raw.Line,
				Column:  raw.Column,
				NodeID:  yn.ID,
				Err:     err,
			}
		}
		nodes = append(nodes, node)
	}

	connections := make([]Connection, 0, len(doc.Connections))
	for i, raw := range doc.Connections {
		var yc yamlConnection
		if err := raw.Decode(&yc); err != nil {
			return nil, &ParseError{
				Message: fmt.Sprintf("invalid connection entry: %v", err),
				Line:    raw.Line,
				Column:  raw.Column,
				Err:     err,
			}
		}
		if yc.Source == "" || yc.Target == "" {
			return nil, &ParseError{
				Message: "connection source and target are required",
				Line:    raw.Line,
				Column:  raw.Column,
			}
		}
		if yc.ID == "" {
			yc.ID = fmt.Sprintf("c%d", i+1)
		}
		connections = append(connections, Connection{
			ID:     yc.ID,
			Source: yc.Source,
			Target: yc.Target,
			Handle: yc.Handle,
		})
	}

	g := New(doc.Name, nodes, connections)
	g.Description = doc.Description
	return g, nil
}

// ParseFile reads and parses a YAML procedure definition from disk.
func ParseFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{
			Message: fmt.Sprintf("reading procedure file: %v", err),
			Err:     err,
		}
	}
	return Parse(data)
}
