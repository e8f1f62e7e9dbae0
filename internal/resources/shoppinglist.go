package resources

import (
	"context"
	"sync"

	"github.com/chorify/chorify/internal/common/httpclient"
	"github.com/rs/zerolog"
)

// ShoppingListDraft is the not yet submitted input for a new shopping list.
type ShoppingListDraft struct {
	Name  string         `json:"name"`
	Items []ShoppingItem `json:"items"`
}

// EmptyShoppingListDraft is the draft a form starts with: no name and one
// blank item row.
func EmptyShoppingListDraft() ShoppingListDraft {
	return ShoppingListDraft{Items: []ShoppingItem{{}}}
}

// ShoppingListController manages the shopping list collection and its create
// draft.
type ShoppingListController struct {
	*Controller[ShoppingList]

	draftMu sync.Mutex
	draft   ShoppingListDraft
}

// NewShoppingListController returns a controller for shopping-lists/.
func NewShoppingListController(client httpclient.HTTPClientInterface, logger zerolog.Logger) *ShoppingListController {
	return &ShoppingListController{
		Controller: NewController[ShoppingList]("shopping list", ShoppingListsEndpoint, client, logger),
		draft:      EmptyShoppingListDraft(),
	}
}

// Draft returns a copy of the current draft.
func (c *ShoppingListController) Draft() ShoppingListDraft {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	d := c.draft
	d.Items = append([]ShoppingItem(nil), c.draft.Items...)
	return d
}

// SetDraftName sets the name of the new list.
func (c *ShoppingListController) SetDraftName(name string) {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	c.draft.Name = name
}

// AddDraftItem appends a blank item row.
func (c *ShoppingListController) AddDraftItem() {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	c.draft.Items = append(c.draft.Items, ShoppingItem{})
}

// SetDraftItem sets the item row at index i. Out of range indexes are ignored.
func (c *ShoppingListController) SetDraftItem(i int, item, quantity string) {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	if i < 0 || i >= len(c.draft.Items) {
		return
	}
	c.draft.Items[i] = ShoppingItem{Item: item, Quantity: quantity}
}

// RemoveDraftItem drops the item row at index i.
func (c *ShoppingListController) RemoveDraftItem(i int) {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	if i < 0 || i >= len(c.draft.Items) {
		return
	}
	c.draft.Items = append(c.draft.Items[:i:i], c.draft.Items[i+1:]...)
}

// SetDraft replaces the whole draft.
func (c *ShoppingListController) SetDraft(d ShoppingListDraft) {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	c.draft = d
}

// SubmitDraft creates a list from the draft. On success the draft is reset to
// EmptyShoppingListDraft; on failure it is kept for another attempt.
func (c *ShoppingListController) SubmitDraft(ctx context.Context) (ShoppingList, error) {
	draft := c.Draft()
	if draft.Items == nil {
		draft.Items = []ShoppingItem{}
	}
	created, err := c.Create(ctx, draft)
	if err != nil {
		return created, err
	}
	c.SetDraft(EmptyShoppingListDraft())
	return created, nil
}
