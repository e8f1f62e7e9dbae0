// Package apitest implements an in-memory Chorify REST API. It follows the
// routes, payloads and error shapes of the real service closely enough to drive
// the client in tests and to try the CLI locally with `chorify dev-server`.
package apitest

import (
	"net/http"
	"strings"
	"sync"

	"github.com/chorify/chorify/internal/common/httpx"
	commonmiddleware "github.com/chorify/chorify/internal/common/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Options configures a Server.
type Options struct {
	// AllowedOrigins enables CORS for browser clients on these origins.
	AllowedOrigins []string
	// RegistrationNoContent makes registration answer 204 without a token,
	// as the service does when e-mail verification is mandatory.
	RegistrationNoContent bool
}

// Server is the in-memory API. The zero value is not usable; call NewServer.
type Server struct {
	Router *chi.Mux

	opts Options

	mu       sync.Mutex
	nextID   int64
	users    map[string]*user  // by username
	tokens   map[string]string // token -> username
	shopping []*shoppingList
	todos    []*todo
	failures map[string][]int // "METHOD /path" -> queued statuses
}

// NewServer creates a server with its routes mounted.
func NewServer(opts ...Options) *Server {
	s := &Server{
		users:    make(map[string]*user),
		tokens:   make(map[string]string),
		failures: make(map[string][]int),
	}
	if len(opts) > 0 {
		s.opts = opts[0]
	}
	s.Router = chi.NewRouter()
	s.MountHandlers()
	return s
}

// MountHandlers installs middleware and routes under /api.
func (s *Server) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	if len(s.opts.AllowedOrigins) > 0 {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	s.Router.Use(s.injectFailures)
	s.Router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.ErrNotFound().Send(w)
	})
	s.Router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.ErrStatus(http.StatusMethodNotAllowed).Send(w)
	})

	s.Router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/registration/", httpx.WrapHttpRsp(s.register))
			r.Post("/login/", httpx.WrapHttpRsp(s.login))
			r.With(s.authenticate).Post("/logout/", httpx.WrapHttpRsp(s.logout))
		})
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Route("/shopping-lists", func(r chi.Router) {
				r.Get("/", httpx.WrapHttpRsp(s.listShopping))
				r.Post("/", httpx.WrapHttpRsp(s.createShopping))
				r.Get("/{id}/", httpx.WrapHttpRsp(s.getShopping))
				r.Put("/{id}/", httpx.WrapHttpRsp(s.updateShopping(false)))
				r.Patch("/{id}/", httpx.WrapHttpRsp(s.updateShopping(true)))
				r.Delete("/{id}/", httpx.WrapHttpRsp(s.deleteShopping))
			})
			r.Route("/todo-lists", func(r chi.Router) {
				r.Get("/", httpx.WrapHttpRsp(s.listTodos))
				r.Post("/", httpx.WrapHttpRsp(s.createTodo))
				r.Get("/{id}/", httpx.WrapHttpRsp(s.getTodo))
				r.Put("/{id}/", httpx.WrapHttpRsp(s.updateTodo(false)))
				r.Patch("/{id}/", httpx.WrapHttpRsp(s.updateTodo(true)))
				r.Delete("/{id}/", httpx.WrapHttpRsp(s.deleteTodo))
			})
		})
	})
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// FailNext makes the next request matching method and path answer with status
// instead of being handled. Queued failures are consumed in order.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := failureKey(method, path)
	s.failures[key] = append(s.failures[key], status)
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := failureKey(r.Method, r.URL.Path)
		s.mu.Lock()
		queue := s.failures[key]
		status := 0
		if len(queue) > 0 {
			status = queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			httpx.ErrStatus(status).Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func failureKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}
