// Package resources holds the shopping list and to-do resource types and the
// controllers that keep an in-memory copy of each collection in step with the
// Chorify API.
package resources

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Endpoints of the two collections, relative to the API base address.
const (
	ShoppingListsEndpoint = "shopping-lists/"
	ToDoListsEndpoint     = "todo-lists/"
)

// ID is a server assigned identifier in its canonical text form. The server
// may send it as a JSON number or string.
type ID string

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	switch r.Type {
	case gjson.Null:
		*id = ""
	case gjson.Number:
		*id = ID(r.Raw)
	case gjson.String:
		*id = ID(r.Str)
	default:
		return fmt.Errorf("invalid id: %s", string(b))
	}
	return nil
}

// MarshalJSON writes ids in canonical integer form as numbers and everything
// else, including "007" or "+5", as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Resource is a record held by a Controller.
type Resource interface {
	GetID() ID
}

// ShoppingItem is a single item/quantity pair of a shopping list.
type ShoppingItem struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
}

// ParseShoppingItem reads an item written as "name=quantity". The quantity is
// optional.
func ParseShoppingItem(entry string) ShoppingItem {
	item, quantity, _ := strings.Cut(entry, "=")
	return ShoppingItem{
		Item:     strings.TrimSpace(item),
		Quantity: strings.TrimSpace(quantity),
	}
}

// ParseShoppingItems reads a comma separated list of "name=quantity" items.
// Blank entries are skipped.
func ParseShoppingItems(list string) ShoppingItems {
	out := ShoppingItems{}
	for _, entry := range strings.Split(list, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		out = append(out, ParseShoppingItem(entry))
	}
	return out
}

// FormatShoppingItems is the inverse of ParseShoppingItems.
func FormatShoppingItems(items ShoppingItems) string {
	parts := make([]string, 0, len(items))
	for _, i := range items {
		if i.Quantity == "" {
			parts = append(parts, i.Item)
			continue
		}
		parts = append(parts, i.Item+"="+i.Quantity)
	}
	return strings.Join(parts, ", ")
}

func (i ShoppingItem) String() string {
	if i.Quantity == "" {
		return i.Item
	}
	return i.Item + " - " + i.Quantity
}

// ShoppingItems is the ordered item list of a shopping list. The server stores
// items as free-form JSON and has been seen to return either an array of
// {item, quantity} pairs or an object mapping item names to quantities. Both
// decode into the same ordered sequence; encoding always uses the array form.
type ShoppingItems []ShoppingItem

// UnmarshalJSON decodes either item shape, keeping document order.
func (items *ShoppingItems) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return fmt.Errorf("invalid items: %s", string(b))
	}
	r := gjson.ParseBytes(b)
	out := ShoppingItems{}
	switch {
	case r.Type == gjson.Null:
	case r.IsArray():
		r.ForEach(func(_, v gjson.Result) bool {
			if v.IsObject() {
				out = append(out, ShoppingItem{
					Item:     jsonText(v.Get("item")),
					Quantity: jsonText(v.Get("quantity")),
				})
			} else {
				out = append(out, ShoppingItem{Item: jsonText(v)})
			}
			return true
		})
	case r.IsObject():
		r.ForEach(func(k, v gjson.Result) bool {
			out = append(out, ShoppingItem{
				Item:     k.String(),
				Quantity: jsonText(v),
			})
			return true
		})
	default:
		return fmt.Errorf("items must be an array or an object, got %s", r.Type)
	}
	*items = out
	return nil
}

// MarshalJSON always writes an array, never null.
func (items ShoppingItems) MarshalJSON() ([]byte, error) {
	if items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]ShoppingItem(items))
}

// jsonText renders strings as-is, null or missing values as empty and any other
// value as its JSON text.
func jsonText(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Null:
		return ""
	default:
		return strings.TrimSpace(r.Raw)
	}
}

// ShoppingList is a named list of items to buy.
type ShoppingList struct {
	ID    ID            `json:"id,omitempty"`
	Name  string        `json:"name"`
	Items ShoppingItems `json:"items"`
}

func (s ShoppingList) GetID() ID {
	return s.ID
}

// ToDoList is a single to-do entry.
type ToDoList struct {
	ID          ID     `json:"id,omitempty"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Done        bool   `json:"done"`
}

func (t ToDoList) GetID() ID {
	return t.ID
}

// MarshalJSON sends an empty due date as null, which the server accepts for
// an unset date.
func (t ToDoList) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID          ID      `json:"id,omitempty"`
		Description string  `json:"description"`
		DueDate     *string `json:"due_date"`
		Done        bool    `json:"done"`
	}
	w := wire{ID: t.ID, Description: t.Description, Done: t.Done}
	if t.DueDate != "" {
		w.DueDate = &t.DueDate
	}
	return json.Marshal(w)
}
