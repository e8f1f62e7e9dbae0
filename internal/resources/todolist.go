package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chorify/chorify/internal/common/httpclient"
	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"
)

// ToDoDraft is the not yet submitted input for a new to-do entry.
type ToDoDraft struct {
	Description string
	DueDate     string
	Done        bool
}

func (d ToDoDraft) record() ToDoList {
	return ToDoList{Description: d.Description, DueDate: d.DueDate, Done: d.Done}
}

// ToDoListController manages the to-do collection and its create draft.
type ToDoListController struct {
	*Controller[ToDoList]

	draftMu sync.Mutex
	draft   ToDoDraft
}

// NewToDoListController returns a controller for todo-lists/.
func NewToDoListController(client httpclient.HTTPClientInterface, logger zerolog.Logger) *ToDoListController {
	return &ToDoListController{
		Controller: NewController[ToDoList]("to-do list", ToDoListsEndpoint, client, logger),
	}
}

// Draft returns the current draft.
func (c *ToDoListController) Draft() ToDoDraft {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	return c.draft
}

// SetDraft replaces the draft.
func (c *ToDoListController) SetDraft(d ToDoDraft) {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	c.draft = d
}

// SubmitDraft creates an entry from the draft and resets the draft on success.
func (c *ToDoListController) SubmitDraft(ctx context.Context) (ToDoList, error) {
	created, err := c.Create(ctx, c.Draft().record())
	if err != nil {
		return created, err
	}
	c.SetDraft(ToDoDraft{})
	return created, nil
}

// SetDone patches only the done flag of the entry.
func (c *ToDoListController) SetDone(ctx context.Context, id ID, done bool) (ToDoList, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "done", done)
	if err != nil {
		return ToDoList{}, fmt.Errorf("failed to build patch body: %w", err)
	}
	return c.Patch(ctx, id, json.RawMessage(body))
}

// ToggleDone flips the done flag of an entry held in the collection.
func (c *ToDoListController) ToggleDone(ctx context.Context, id ID) (ToDoList, error) {
	item, ok := c.Find(id)
	if !ok {
		return ToDoList{}, fmt.Errorf("to-do %s is not loaded", id)
	}
	return c.SetDone(ctx, id, !item.Done)
}
