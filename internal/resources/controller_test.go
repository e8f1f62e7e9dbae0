package resources

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/chorify/chorify/internal/apitest"
	"github.com/chorify/chorify/internal/common/apperrors"
	"github.com/chorify/chorify/internal/common/httpclient"
	"github.com/chorify/chorify/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server   *apitest.Server
	requests *requestLog
	client   *httpclient.HTTPClient
	shopping *ShoppingListController
	todos    *ToDoListController
}

type sentRequest struct {
	Method      string
	Path        string
	EscapedPath string
	Body        string
}

// requestLog records every request before handing it to the fake API.
type requestLog struct {
	next http.Handler

	mu   sync.Mutex
	sent []sentRequest
}

func (l *requestLog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}
	l.mu.Lock()
	l.sent = append(l.sent, sentRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		EscapedPath: r.URL.EscapedPath(),
		Body:        string(body),
	})
	l.mu.Unlock()
	l.next.ServeHTTP(w, r)
}

func (l *requestLog) last() sentRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.sent) == 0 {
		return sentRequest{}
	}
	return l.sent[len(l.sent)-1]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	server := apitest.NewServer()
	token, err := server.CreateUser("ann", "ann@example.com", "s3cretpass")
	require.NoError(t, err)

	sess := session.New(session.NewMemoryStorage(), zerolog.Nop())
	sess.SetToken(token)
	requests := &requestLog{next: server}
	client := httpclient.NewTestClient(requests, sess)
	return &fixture{
		server:   server,
		requests: requests,
		client:   client,
		shopping: NewShoppingListController(client, zerolog.Nop()),
		todos:    NewToDoListController(client, zerolog.Nop()),
	}
}

func idPath(endpoint string, id int64) string {
	return "/api/" + endpoint + strconv.FormatInt(id, 10) + "/"
}

func TestFetchAllReplacesCollection(t *testing.T) {
	f := newFixture(t)
	f.server.SeedShoppingList("ann", "Groceries", `[{"item":"milk","quantity":"2"}]`)
	f.server.SeedShoppingList("ann", "Hardware", `{"nails":"100","glue":"1"}`)
	f.server.SeedShoppingList("bob", "Other", `[]`)

	assert.True(t, f.shopping.Loading())
	require.NoError(t, f.shopping.FetchAll(context.Background()))
	assert.False(t, f.shopping.Loading())

	items := f.shopping.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Groceries", items[0].Name)
	assert.Equal(t, ShoppingItems{{"nails", "100"}, {"glue", "1"}}, items[1].Items)
}

func TestFetchAllFailureKeepsCollection(t *testing.T) {
	f := newFixture(t)
	f.server.SeedToDo("ann", "Pay rent", "", false)
	require.NoError(t, f.todos.FetchAll(context.Background()))

	f.server.FailNext(http.MethodGet, "/api/todo-lists/", http.StatusInternalServerError)
	err := f.todos.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrHTTPStatus))
	assert.Equal(t, http.StatusInternalServerError, httpclient.StatusCode(err))
	assert.Equal(t, 1, f.todos.Len())
	assert.False(t, f.todos.Loading())
}

func TestFetchAllUnauthenticated(t *testing.T) {
	server := apitest.NewServer()
	client := httpclient.NewTestClient(server, session.New(session.NewMemoryStorage(), zerolog.Nop()))
	c := NewToDoListController(client, zerolog.Nop())

	err := c.FetchAll(context.Background())
	assert.Equal(t, http.StatusUnauthorized, httpclient.StatusCode(err))
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Loading())
}

func TestCreateAppendsServerRecord(t *testing.T) {
	f := newFixture(t)
	f.server.SeedToDo("ann", "Existing", "", false)
	require.NoError(t, f.todos.FetchAll(context.Background()))

	f.todos.SetDraft(ToDoDraft{Description: "Water plants", DueDate: "2024-06-01"})
	created, err := f.todos.SubmitDraft(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2024-06-01", created.DueDate)
	assert.Equal(t, ToDoDraft{}, f.todos.Draft())

	items := f.todos.Items()
	require.Len(t, items, 2)
	assert.Equal(t, created, items[1])
}

func TestCreateFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.shopping.FetchAll(context.Background()))

	f.shopping.SetDraftName("")
	_, err := f.shopping.SubmitDraft(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpclient.StatusCode(err))
	assert.Equal(t, 0, f.shopping.Len())
	assert.Equal(t, EmptyShoppingListDraft(), f.shopping.Draft())
}

func TestShoppingDraftEditing(t *testing.T) {
	f := newFixture(t)
	f.shopping.SetDraftName("Party")
	f.shopping.SetDraftItem(0, "chips", "3")
	f.shopping.AddDraftItem()
	f.shopping.SetDraftItem(1, "soda", "6")
	f.shopping.AddDraftItem()
	f.shopping.RemoveDraftItem(2)
	f.shopping.SetDraftItem(9, "ignored", "")

	d := f.shopping.Draft()
	assert.Equal(t, "Party", d.Name)
	assert.Equal(t, []ShoppingItem{{"chips", "3"}, {"soda", "6"}}, d.Items)

	d.Items[0].Item = "mutated"
	assert.Equal(t, "chips", f.shopping.Draft().Items[0].Item)

	created, err := f.shopping.SubmitDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ShoppingItems{{"chips", "3"}, {"soda", "6"}}, created.Items)
	assert.Equal(t, EmptyShoppingListDraft(), f.shopping.Draft())
}

func TestUpdateReplacesInPlace(t *testing.T) {
	f := newFixture(t)
	f.server.SeedShoppingList("ann", "First", `[]`)
	second := f.server.SeedShoppingList("ann", "Second", `[]`)
	f.server.SeedShoppingList("ann", "Third", `[]`)
	require.NoError(t, f.shopping.FetchAll(context.Background()))

	id := ID(strconv.FormatInt(second, 10))
	draft, ok := f.shopping.StartEditing(id)
	require.True(t, ok)
	editing, ok := f.shopping.Editing()
	require.True(t, ok)
	assert.Equal(t, "Second", editing.Name)

	draft.Name = "Renamed"
	draft.Items = ShoppingItems{{"tape", "1"}}
	updated, err := f.shopping.Update(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	names := []string{}
	for _, l := range f.shopping.Items() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"First", "Renamed", "Third"}, names)
	_, editingNow := f.shopping.Editing()
	assert.False(t, editingNow)
}

func TestUpdateFailureKeepsEditing(t *testing.T) {
	f := newFixture(t)
	id := f.server.SeedShoppingList("ann", "Groceries", `[]`)
	require.NoError(t, f.shopping.FetchAll(context.Background()))

	draft, ok := f.shopping.StartEditing(ID(strconv.FormatInt(id, 10)))
	require.True(t, ok)
	draft.Name = "Changed"

	f.server.FailNext(http.MethodPut, idPath(ShoppingListsEndpoint, id), http.StatusBadGateway)
	_, err := f.shopping.Update(context.Background(), draft)
	require.Error(t, err)

	got, _ := f.shopping.Find(draft.ID)
	assert.Equal(t, "Groceries", got.Name)
	_, editing := f.shopping.Editing()
	assert.True(t, editing)

	f.shopping.CancelEditing()
	_, editing = f.shopping.Editing()
	assert.False(t, editing)
}

func TestStartEditingUnknownID(t *testing.T) {
	f := newFixture(t)
	_, ok := f.shopping.StartEditing("404")
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	keep := f.server.SeedToDo("ann", "Keep", "", false)
	drop := f.server.SeedToDo("ann", "Drop", "", false)
	require.NoError(t, f.todos.FetchAll(context.Background()))

	f.server.FailNext(http.MethodDelete, idPath(ToDoListsEndpoint, drop), http.StatusInternalServerError)
	require.Error(t, f.todos.Remove(context.Background(), ID(strconv.FormatInt(drop, 10))))
	assert.Equal(t, 2, f.todos.Len())

	require.NoError(t, f.todos.Remove(context.Background(), ID(strconv.FormatInt(drop, 10))))
	items := f.todos.Items()
	require.Len(t, items, 1)
	assert.Equal(t, ID(strconv.FormatInt(keep, 10)), items[0].ID)

	err := f.todos.Remove(context.Background(), ID(strconv.FormatInt(drop, 10)))
	assert.Equal(t, http.StatusNotFound, httpclient.StatusCode(err))
	assert.Equal(t, items, f.todos.Items())
}

func TestRemoveOfUnloadedRecordKeepsCollection(t *testing.T) {
	f := newFixture(t)
	f.server.SeedToDo("ann", "Loaded", "", false)
	require.NoError(t, f.todos.FetchAll(context.Background()))
	before := f.todos.Items()

	later := f.server.SeedToDo("ann", "Seeded later", "", false)
	require.NoError(t, f.todos.Remove(context.Background(), ID(strconv.FormatInt(later, 10))))
	assert.Equal(t, http.MethodDelete, f.requests.last().Method)
	assert.Equal(t, before, f.todos.Items())
}

func TestItemPathEscapesIDOnce(t *testing.T) {
	f := newFixture(t)

	_ = f.todos.Remove(context.Background(), ID("a b"))
	sent := f.requests.last()
	assert.Equal(t, "/api/todo-lists/a b/", sent.Path)
	assert.Equal(t, "/api/todo-lists/a%20b/", sent.EscapedPath)

	_ = f.todos.Remove(context.Background(), ID("a/b"))
	sent = f.requests.last()
	assert.Equal(t, "/api/todo-lists/a/b/", sent.Path)
	assert.Equal(t, "/api/todo-lists/a%2Fb/", sent.EscapedPath)
}

func TestSetDoneSendsOnlyDone(t *testing.T) {
	f := newFixture(t)
	id := f.server.SeedToDo("ann", "Pay rent", "2024-05-01", false)
	require.NoError(t, f.todos.FetchAll(context.Background()))

	updated, err := f.todos.ToggleDone(context.Background(), ID(strconv.FormatInt(id, 10)))
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "2024-05-01", updated.DueDate)

	sent := f.requests.last()
	assert.Equal(t, http.MethodPatch, sent.Method)
	assert.Equal(t, idPath(ToDoListsEndpoint, id), sent.Path)
	assert.Equal(t, `{"done":true}`, sent.Body)

	got, ok := f.todos.Find(updated.ID)
	require.True(t, ok)
	assert.True(t, got.Done)
	assert.Equal(t, "Pay rent", got.Description)
	assert.Equal(t, "2024-05-01", got.DueDate)

	_, err = f.todos.ToggleDone(context.Background(), "999")
	assert.Error(t, err)
}

func TestSetDoneFailureKeepsCollection(t *testing.T) {
	f := newFixture(t)
	id := f.server.SeedToDo("ann", "Pay rent", "2024-05-01", false)
	require.NoError(t, f.todos.FetchAll(context.Background()))
	before := f.todos.Items()

	f.server.FailNext(http.MethodPatch, idPath(ToDoListsEndpoint, id), http.StatusInternalServerError)
	_, err := f.todos.SetDone(context.Background(), ID(strconv.FormatInt(id, 10)), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrHTTPStatus)
	assert.Equal(t, before, f.todos.Items())
}

func TestClosedControllerDropsResponses(t *testing.T) {
	f := newFixture(t)
	f.server.SeedToDo("ann", "Pay rent", "", false)
	f.todos.Close()

	require.NoError(t, f.todos.FetchAll(context.Background()))
	assert.Equal(t, 0, f.todos.Len())

	_, err := f.todos.Create(context.Background(), ToDoList{Description: "Late"})
	require.NoError(t, err)
	assert.Equal(t, 0, f.todos.Len())
}

func TestCanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.shopping.FetchAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransport))
	assert.Equal(t, 0, httpclient.StatusCode(err))
}

func TestCreateThenFetchRoundTrip(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.shopping.FetchAll(context.Background()))

	f.shopping.SetDraftName("Groceries")
	f.shopping.SetDraftItem(0, "Milk", "2")
	created, err := f.shopping.SubmitDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EmptyShoppingListDraft(), f.shopping.Draft())
	require.Equal(t, []ShoppingList{created}, f.shopping.Items())

	fresh := NewShoppingListController(f.client, zerolog.Nop())
	require.NoError(t, fresh.FetchAll(context.Background()))
	items := fresh.Items()
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "Groceries", items[0].Name)
	assert.Equal(t, ShoppingItems{{Item: "Milk", Quantity: "2"}}, items[0].Items)
}

func TestUpdateOfUnloadedRecordDoesNotInsert(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.todos.FetchAll(context.Background()))
	id := f.server.SeedToDo("ann", "Seeded later", "", false)

	updated, err := f.todos.Update(context.Background(), ToDoList{
		ID:          ID(strconv.FormatInt(id, 10)),
		Description: "Renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Description)
	assert.Equal(t, 0, f.todos.Len())
}
