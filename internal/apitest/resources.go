package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/chorify/chorify/internal/common/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const dateLayout = "2006-01-02"

type shoppingList struct {
	ID    int64
	Owner string
	Name  string
	Items json.RawMessage
}

func (l *shoppingList) render() json.RawMessage {
	out, _ := sjson.SetBytes([]byte(`{}`), "id", l.ID)
	out, _ = sjson.SetBytes(out, "name", l.Name)
	out, _ = sjson.SetRawBytes(out, "items", l.Items)
	return out
}

type todo struct {
	ID          int64
	Owner       string
	Description string
	DueDate     string
	Done        bool
}

func (t *todo) render() json.RawMessage {
	out, _ := sjson.SetBytes([]byte(`{}`), "id", t.ID)
	out, _ = sjson.SetBytes(out, "description", t.Description)
	if t.DueDate == "" {
		out, _ = sjson.SetRawBytes(out, "due_date", []byte("null"))
	} else {
		out, _ = sjson.SetBytes(out, "due_date", t.DueDate)
	}
	out, _ = sjson.SetBytes(out, "done", t.Done)
	return out
}

// SeedShoppingList stores a list for username with items given as raw JSON and
// returns its id. Any JSON shape is accepted for items.
func (s *Server) SeedShoppingList(username, name, itemsJSON string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.shopping = append(s.shopping, &shoppingList{
		ID:    s.nextID,
		Owner: username,
		Name:  name,
		Items: json.RawMessage(itemsJSON),
	})
	return s.nextID
}

// SeedToDo stores a to-do item for username and returns its id.
func (s *Server) SeedToDo(username, description, dueDate string, done bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.todos = append(s.todos, &todo{
		ID:          s.nextID,
		Owner:       username,
		Description: description,
		DueDate:     dueDate,
		Done:        done,
	})
	return s.nextID
}

func readJSONBody(r *http.Request) (gjson.Result, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil || !gjson.ValidBytes(body) {
		return gjson.Result{}, httpx.ErrUnableToParseReqData()
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		errs := httpx.FieldErrors{}
		errs.Add("non_field_errors", "Invalid data. Expected a dictionary.")
		return gjson.Result{}, errs
	}
	return doc, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, httpx.ErrNotFound()
	}
	return id, nil
}

func listRsp(items []json.RawMessage) *httpx.Response {
	out := []byte(`[]`)
	for _, item := range items {
		out, _ = sjson.SetRawBytes(out, "-1", item)
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: json.RawMessage(out)}
}

// Shopping lists

// validateShopping checks a shopping-list body. items may be omitted on create,
// where it defaults to an empty list, and on PATCH; a PUT must carry it.
func validateShopping(doc gjson.Result, partial, replace bool) (httpx.FieldErrors, gjson.Result, gjson.Result) {
	errs := httpx.FieldErrors{}
	name := doc.Get("name")
	items := doc.Get("items")
	if name.Exists() {
		if name.Type != gjson.String {
			errs.Add("name", "Not a valid string.")
		} else if name.String() == "" {
			errs.Add("name", "This field may not be blank.")
		}
	} else if !partial {
		errs.Add("name", "This field is required.")
	}
	if !items.Exists() && replace {
		errs.Add("items", "This field is required.")
	}
	return errs, name, items
}

func (s *Server) listShopping(r *http.Request) (*httpx.Response, error) {
	u := currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []json.RawMessage
	for _, l := range s.shopping {
		if l.Owner == u.Username {
			out = append(out, l.render())
		}
	}
	return listRsp(out), nil
}

func (s *Server) createShopping(r *http.Request) (*httpx.Response, error) {
	doc, err := readJSONBody(r)
	if err != nil {
		return nil, err
	}
	errs, name, items := validateShopping(doc, false, false)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	raw := json.RawMessage(`[]`)
	if items.Exists() {
		raw = json.RawMessage(items.Raw)
	}
	u := currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l := &shoppingList{ID: s.nextID, Owner: u.Username, Name: name.String(), Items: raw}
	s.shopping = append(s.shopping, l)
	return &httpx.Response{StatusCode: http.StatusCreated, Response: l.render()}, nil
}

// caller holds s.mu
func (s *Server) findShopping(r *http.Request) (int, error) {
	id, err := pathID(r)
	if err != nil {
		return -1, err
	}
	u := currentUser(r)
	for i, l := range s.shopping {
		if l.ID == id && l.Owner == u.Username {
			return i, nil
		}
	}
	return -1, httpx.ErrNotFound()
}

func (s *Server) getShopping(r *http.Request) (*httpx.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findShopping(r)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: s.shopping[i].render()}, nil
}

func (s *Server) updateShopping(partial bool) httpx.RequestHandler {
	return func(r *http.Request) (*httpx.Response, error) {
		doc, err := readJSONBody(r)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		i, err := s.findShopping(r)
		if err != nil {
			return nil, err
		}
		errs, name, items := validateShopping(doc, partial, !partial)
		if err := errs.OrNil(); err != nil {
			return nil, err
		}
		l := s.shopping[i]
		if name.Exists() {
			l.Name = name.String()
		}
		if items.Exists() {
			l.Items = json.RawMessage(items.Raw)
		}
		return &httpx.Response{StatusCode: http.StatusOK, Response: l.render()}, nil
	}
}

func (s *Server) deleteShopping(r *http.Request) (*httpx.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findShopping(r)
	if err != nil {
		return nil, err
	}
	s.shopping = append(s.shopping[:i], s.shopping[i+1:]...)
	return &httpx.Response{StatusCode: http.StatusNoContent}, nil
}

// To-do lists

func validateTodo(doc gjson.Result, partial bool) httpx.FieldErrors {
	errs := httpx.FieldErrors{}
	description := doc.Get("description")
	if description.Exists() {
		if description.Type != gjson.String {
			errs.Add("description", "Not a valid string.")
		} else if description.String() == "" {
			errs.Add("description", "This field may not be blank.")
		}
	} else if !partial {
		errs.Add("description", "This field is required.")
	}
	if due := doc.Get("due_date"); due.Exists() && due.Type != gjson.Null {
		if _, err := time.Parse(dateLayout, due.String()); due.Type != gjson.String || err != nil {
			errs.Add("due_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		}
	}
	if done := doc.Get("done"); done.Exists() && !done.IsBool() {
		errs.Add("done", "Must be a valid boolean.")
	}
	return errs
}

func applyTodo(t *todo, doc gjson.Result) {
	if v := doc.Get("description"); v.Exists() {
		t.Description = v.String()
	}
	if v := doc.Get("due_date"); v.Exists() {
		if v.Type == gjson.Null {
			t.DueDate = ""
		} else {
			t.DueDate = v.String()
		}
	}
	if v := doc.Get("done"); v.Exists() {
		t.Done = v.Bool()
	}
}

func (s *Server) listTodos(r *http.Request) (*httpx.Response, error) {
	u := currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []json.RawMessage
	for _, t := range s.todos {
		if t.Owner == u.Username {
			out = append(out, t.render())
		}
	}
	return listRsp(out), nil
}

func (s *Server) createTodo(r *http.Request) (*httpx.Response, error) {
	doc, err := readJSONBody(r)
	if err != nil {
		return nil, err
	}
	if err := validateTodo(doc, false).OrNil(); err != nil {
		return nil, err
	}
	u := currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := &todo{ID: s.nextID, Owner: u.Username}
	applyTodo(t, doc)
	s.todos = append(s.todos, t)
	return &httpx.Response{StatusCode: http.StatusCreated, Response: t.render()}, nil
}

// caller holds s.mu
func (s *Server) findTodo(r *http.Request) (int, error) {
	id, err := pathID(r)
	if err != nil {
		return -1, err
	}
	u := currentUser(r)
	for i, t := range s.todos {
		if t.ID == id && t.Owner == u.Username {
			return i, nil
		}
	}
	return -1, httpx.ErrNotFound()
}

func (s *Server) getTodo(r *http.Request) (*httpx.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findTodo(r)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: s.todos[i].render()}, nil
}

func (s *Server) updateTodo(partial bool) httpx.RequestHandler {
	return func(r *http.Request) (*httpx.Response, error) {
		doc, err := readJSONBody(r)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		i, err := s.findTodo(r)
		if err != nil {
			return nil, err
		}
		if err := validateTodo(doc, partial).OrNil(); err != nil {
			return nil, err
		}
		t := s.todos[i]
		applyTodo(t, doc)
		return &httpx.Response{StatusCode: http.StatusOK, Response: t.render()}, nil
	}
}

func (s *Server) deleteTodo(r *http.Request) (*httpx.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findTodo(r)
	if err != nil {
		return nil, err
	}
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	return &httpx.Response{StatusCode: http.StatusNoContent}, nil
}
