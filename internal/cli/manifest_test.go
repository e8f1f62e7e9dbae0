package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chorify/chorify/internal/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifests(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
		wantErr  bool
	}{
		{
			name: "multiple documents",
			content: `---
name: Groceries
items:
  - item: milk
    quantity: 2
---
name: Hardware
items: []`,
			expected: []string{
				`{"items":[{"item":"milk","quantity":2}],"name":"Groceries"}`,
				`{"items":[],"name":"Hardware"}`,
			},
		},
		{
			name:     "single document without separator",
			content:  "description: Pay rent\ndue_date: 2024-06-01\ndone: false",
			expected: []string{`{"description":"Pay rent","done":false,"due_date":"2024-06-01"}`},
		},
		{
			name:     "empty and trailing documents are skipped",
			content:  "---\n---\nname: Only\n---\n",
			expected: []string{`{"name":"Only"}`},
		},
		{
			name:     "only separators",
			content:  "---\n---\n",
			expected: nil,
		},
		{
			name:    "document that is not a mapping",
			content: "name: ok\n---\n- a\n- b",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			content: "name: ok\n---\ninvalid: yaml: content: here",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := parseManifests([]byte(tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, docs, len(tt.expected))
			for i, want := range tt.expected {
				assert.JSONEq(t, want, string(docs[i]))
			}
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("CHORIFY_TEST_STORE", "Corner shop")

	out, err := expandEnv([]byte("name: {{ .ENV.CHORIFY_TEST_STORE }}"))
	require.NoError(t, err)
	assert.Equal(t, "name: Corner shop", string(out))

	_, err = expandEnv([]byte("name: {{ .ENV.CHORIFY_TEST_UNSET_VAR }}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing environment variable: CHORIFY_TEST_UNSET_VAR")

	_, err = expandEnv([]byte("name: {{ .ENV.X }"))
	assert.Error(t, err)

	out, err = expandEnv(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestShoppingDraftsFromFile(t *testing.T) {
	t.Setenv("CHORIFY_TEST_QTY", "6")
	file := filepath.Join(t.TempDir(), "lists.yaml")
	content := "name: Groceries\nitems:\n\t- item: eggs\n\t  quantity: {{ .ENV.CHORIFY_TEST_QTY }}\n\t- bread\n---\nname: Party\nitems:\n  chips: 3\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))

	drafts, err := shoppingDraftsFromFile(file)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Groceries", drafts[0].Name)
	assert.Equal(t, []resources.ShoppingItem{{Item: "eggs", Quantity: "6"}, {Item: "bread"}}, drafts[0].Items)
	assert.Equal(t, []resources.ShoppingItem{{Item: "chips", Quantity: "3"}}, drafts[1].Items)

	_, err = shoppingDraftsFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTodoDraftsFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "chores.yaml")
	content := "description: Pay rent\ndue_date: 2024-06-01\n---\ndescription: Water plants\ndone: true\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))

	drafts, err := todoDraftsFromFile(file)
	require.NoError(t, err)
	assert.Equal(t, []resources.ToDoDraft{
		{Description: "Pay rent", DueDate: "2024-06-01"},
		{Description: "Water plants", Done: true},
	}, drafts)
}
