package resources

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/chorify/chorify/internal/common/httpclient"
	"github.com/rs/zerolog"
)

// Controller keeps an ordered in-memory copy of one collection. The copy only
// changes after the server confirms a request; failures are logged, returned to
// the caller and leave the copy as it was.
//
// Requests are not serialized: when calls for the same id overlap, whichever
// response is processed last wins.
type Controller[T Resource] struct {
	name     string
	endpoint string
	client   httpclient.HTTPClientInterface
	logger   zerolog.Logger

	mu         sync.RWMutex
	collection []T
	loading    bool
	editing    *T
	closed     bool
}

// NewController returns a controller for the collection at endpoint. It starts
// in the loading state until the first FetchAll completes.
func NewController[T Resource](name, endpoint string, client httpclient.HTTPClientInterface, logger zerolog.Logger) *Controller[T] {
	return &Controller[T]{
		name:     name,
		endpoint: endpoint,
		client:   client,
		logger:   logger.With().Str("resource", name).Logger(),
		loading:  true,
	}
}

// Name returns the human readable resource name.
func (c *Controller[T]) Name() string {
	return c.name
}

// FetchAll replaces the collection with the server's list. loading is cleared
// whatever the outcome.
func (c *Controller[T]) FetchAll(ctx context.Context) error {
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	rsp, err := c.client.List(ctx, c.endpoint)
	if err != nil {
		c.logFailure("fetch", "", err)
		return err
	}
	var items []T
	if err := rsp.Decode(&items); err != nil {
		c.logFailure("fetch", "", err)
		return err
	}
	if items == nil {
		items = []T{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.collection = items
	return nil
}

// Create posts draft and appends the record returned by the server.
func (c *Controller[T]) Create(ctx context.Context, draft any) (T, error) {
	var created T
	rsp, err := c.client.Create(ctx, c.endpoint, draft)
	if err != nil {
		c.logFailure("create", "", err)
		return created, err
	}
	if err := rsp.Decode(&created); err != nil {
		c.logFailure("create", "", err)
		return created, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.collection = append(c.collection, created)
	}
	return created, nil
}

// Update replaces the full record on the server and swaps the returned record
// into the collection. A record that is not in the collection is not added.
// A successful update ends any edit in progress.
func (c *Controller[T]) Update(ctx context.Context, edited T) (T, error) {
	id := edited.GetID()
	rsp, err := c.client.Replace(ctx, c.itemPath(id), edited)
	if err != nil {
		c.logFailure("update", id, err)
		return edited, err
	}
	return c.applyRecord("update", id, rsp, true)
}

// Patch sends only fields and swaps the returned record into the collection.
func (c *Controller[T]) Patch(ctx context.Context, id ID, fields any) (T, error) {
	rsp, err := c.client.Patch(ctx, c.itemPath(id), fields)
	if err != nil {
		c.logFailure("patch", id, err)
		var zero T
		return zero, err
	}
	return c.applyRecord("patch", id, rsp, false)
}

// Remove deletes the record and drops it from the collection.
func (c *Controller[T]) Remove(ctx context.Context, id ID) error {
	if err := c.client.Delete(ctx, c.itemPath(id)); err != nil {
		c.logFailure("delete", id, err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	for i, item := range c.collection {
		if item.GetID() == id {
			c.collection = append(c.collection[:i:i], c.collection[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Controller[T]) applyRecord(op string, id ID, rsp *httpclient.Response, endEdit bool) (T, error) {
	var updated T
	if err := rsp.Decode(&updated); err != nil {
		c.logFailure(op, id, err)
		return updated, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return updated, nil
	}
	for i, item := range c.collection {
		if item.GetID() == updated.GetID() {
			c.collection[i] = updated
			break
		}
	}
	if endEdit {
		c.editing = nil
	}
	return updated, nil
}

// Items returns a copy of the collection in server order.
func (c *Controller[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.collection))
	copy(out, c.collection)
	return out
}

// Len returns the number of records held.
func (c *Controller[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.collection)
}

// Loading reports whether the initial fetch is still outstanding.
func (c *Controller[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Find returns the record with the given id.
func (c *Controller[T]) Find(id ID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.collection {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// StartEditing marks the record with the given id as being edited and returns
// a copy of it to use as the edit draft.
func (c *Controller[T]) StartEditing(id ID) (T, bool) {
	item, ok := c.Find(id)
	if !ok {
		return item, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = &item
	return item, true
}

// Editing returns the record being edited, if any.
func (c *Controller[T]) Editing() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.editing == nil {
		var zero T
		return zero, false
	}
	return *c.editing, true
}

// CancelEditing leaves the editing state without sending anything.
func (c *Controller[T]) CancelEditing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
}

// Close tears the controller down. Responses to requests still in flight are
// dropped instead of being applied.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// itemPath escapes id as a single path segment; the client sends it unchanged.
func (c *Controller[T]) itemPath(id ID) string {
	return strings.TrimRight(c.endpoint, "/") + "/" + url.PathEscape(string(id)) + "/"
}

func (c *Controller[T]) logFailure(op string, id ID, err error) {
	ev := c.logger.Error().Err(err).Str("op", op)
	if id != "" {
		ev = ev.Str("id", string(id))
	}
	if status := httpclient.StatusCode(err); status != 0 {
		ev = ev.Int("status", status)
	}
	ev.Msgf("problem with the %s operation for %s", op, c.name)
}
