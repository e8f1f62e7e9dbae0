package resources

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var rec struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":7,"b":"abc","c":null}`), &rec))
	assert.Equal(t, ID("7"), rec.A)
	assert.Equal(t, ID("abc"), rec.B)
	assert.Equal(t, ID(""), rec.C)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &bad))

	out, err := json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}{"7", "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":7,"b":"abc"}`, string(out))
}

func TestIDKeepsNonCanonicalNumbersAsStrings(t *testing.T) {
	for _, raw := range []string{"007", "+5", "-0"} {
		t.Run(raw, func(t *testing.T) {
			var td ToDoList
			require.NoError(t, json.Unmarshal([]byte(`{"id":"`+raw+`","description":"x","due_date":null,"done":false}`), &td))
			assert.Equal(t, ID(raw), td.ID)

			out, err := json.Marshal(td)
			require.NoError(t, err)
			assert.Equal(t, raw, gjson.GetBytes(out, "id").Str)
			assert.Equal(t, gjson.String, gjson.GetBytes(out, "id").Type)
		})
	}

	out, err := json.Marshal(ID("-12"))
	require.NoError(t, err)
	assert.Equal(t, "-12", string(out))
}

func TestShoppingItemsShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ShoppingItems
	}{
		{"array of pairs", `[{"item":"milk","quantity":"2"},{"item":"eggs","quantity":12}]`,
			ShoppingItems{{"milk", "2"}, {"eggs", "12"}}},
		{"object keeps document order", `{"zucchini":"1","apples":"6"}`,
			ShoppingItems{{"zucchini", "1"}, {"apples", "6"}}},
		{"array of names", `["bread"]`, ShoppingItems{{Item: "bread"}}},
		{"null", `null`, ShoppingItems{}},
		{"empty", `[]`, ShoppingItems{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ShoppingItems
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var got ShoppingItems
	assert.Error(t, json.Unmarshal([]byte(`"milk"`), &got))
}

func TestShoppingListEncoding(t *testing.T) {
	out, err := json.Marshal(ShoppingList{Name: "Groceries"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Groceries","items":[]}`, string(out))
}

func TestToDoListEncoding(t *testing.T) {
	out, err := json.Marshal(ToDoList{ID: "3", Description: "Pay rent"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"description":"Pay rent","due_date":null,"done":false}`, string(out))

	var td ToDoList
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"description":"x","due_date":"2024-05-01","done":true}`), &td))
	assert.Equal(t, ToDoList{ID: "3", Description: "x", DueDate: "2024-05-01", Done: true}, td)

	assert.Equal(t, "milk - 2", ShoppingItem{"milk", "2"}.String())
	assert.Equal(t, "milk", ShoppingItem{Item: "milk"}.String())
}

func TestParseShoppingItems(t *testing.T) {
	assert.Equal(t, ShoppingItem{"milk", "2"}, ParseShoppingItem(" milk = 2 "))
	assert.Equal(t, ShoppingItem{Item: "rye bread"}, ParseShoppingItem("rye bread"))

	items := ParseShoppingItems("milk=2, eggs=12,, bread")
	assert.Equal(t, ShoppingItems{{"milk", "2"}, {"eggs", "12"}, {Item: "bread"}}, items)
	assert.Equal(t, "milk=2, eggs=12, bread", FormatShoppingItems(items))
	assert.Equal(t, ShoppingItems{}, ParseShoppingItems("  "))
}
