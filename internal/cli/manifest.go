package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/chorify/chorify/internal/resources"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

type templateContext struct {
	ENV map[string]string
}

var missingKeyRegex = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// readManifests reads a file of one or more YAML documents separated by ---
// and returns every non-empty document converted to JSON. {{ .ENV.NAME }}
// placeholders are expanded first.
func readManifests(filename string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data, err = expandEnv(replaceTabsWithSpaces(data))
	if err != nil {
		return nil, err
	}
	return parseManifests(data)
}

func parseManifests(data []byte) ([]json.RawMessage, error) {
	var docs []json.RawMessage
	content := strings.TrimSpace(string(data))
	if content == "" || strings.Trim(content, "- \n\t") == "" {
		return docs, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for n := 1; ; n++ {
		var node yaml.Node
		if err := decoder.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		if len(node.Content) == 0 {
			continue
		}
		root := node.Content[0]
		if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
			continue
		}
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("document %d is not a mapping", n)
		}
		if len(root.Content) == 0 {
			continue
		}
		out, err := yaml.Marshal(root)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
		doc, err := sigsyaml.YAMLToJSON(out)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// expandEnv replaces {{ .ENV.VAR }} placeholders with values from the
// environment or a .env file in the working directory. Variables already set
// in the environment win over the file.
func expandEnv(input []byte) ([]byte, error) {
	_ = godotenv.Load()

	env := map[string]string{}
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	tmpl, err := template.New("manifest").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, templateContext{ENV: env}); err != nil {
		if m := missingKeyRegex.FindStringSubmatch(err.Error()); len(m) == 2 {
			return nil, fmt.Errorf("missing environment variable: %s (set it in your shell or .env file)", m[1])
		}
		return nil, fmt.Errorf("template error: %w", err)
	}
	return out.Bytes(), nil
}

func replaceTabsWithSpaces(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\t"), []byte("    "))
}

func shoppingDraftsFromFile(filename string) ([]resources.ShoppingListDraft, error) {
	docs, err := readManifests(filename)
	if err != nil {
		return nil, err
	}
	drafts := make([]resources.ShoppingListDraft, 0, len(docs))
	for i, doc := range docs {
		var l resources.ShoppingList
		if err := json.Unmarshal(doc, &l); err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		drafts = append(drafts, resources.ShoppingListDraft{Name: l.Name, Items: l.Items})
	}
	return drafts, nil
}

func todoDraftsFromFile(filename string) ([]resources.ToDoDraft, error) {
	docs, err := readManifests(filename)
	if err != nil {
		return nil, err
	}
	drafts := make([]resources.ToDoDraft, 0, len(docs))
	for i, doc := range docs {
		var t resources.ToDoList
		if err := json.Unmarshal(doc, &t); err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		drafts = append(drafts, resources.ToDoDraft{Description: t.Description, DueDate: t.DueDate, Done: t.Done})
	}
	return drafts, nil
}
