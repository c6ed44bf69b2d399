package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProcedure = `
name: fire-response
nodes:
  - id: start
    type: start
    label: Report received
  - id: ask
    type: user-interaction
    config:
      instruction: Ask whether a fire is visible
  - id: check
    type: if
    config:
      condition: contains fire
  - id: dispatch
    type: end
    config:
      message: Units dispatched.
  - id: stand-down
    type: end
    config:
      message: No action needed.
connections:
  - source: start
    target: ask
  - source: ask
    target: check
  - source: check
    target: dispatch
    handle: "true"
  - source: check
    target: stand-down
    handle: "false"
`

func writeProcedure(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "procedure.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateProcedure(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		wantError     bool
		errorContains string
	}{
		{
			name:    "valid procedure",
			content: validProcedure,
		},
		{
			name: "missing start node",
			content: `
name: broken
nodes:
  - id: only
    type: end
`,
			wantError:     true,
			errorContains: "failed validation",
		},
		{
			name:          "not yaml",
			content:       "{{nope",
			wantError:     true,
			errorContains: "parse error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProcedure(t, tt.content)
			err := validateProcedure(validateCmd, []string{path})
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateProcedureMissingFile(t *testing.T) {
	err := validateProcedure(validateCmd, []string{filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
}
