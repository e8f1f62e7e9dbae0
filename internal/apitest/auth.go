package apitest

import (
	"context"
	"net/http"
	"strings"

	"github.com/chorify/chorify/internal/common/httpx"
	"github.com/chorify/chorify/internal/common/uuid"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type user struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
}

type registrationReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type keyRsp struct {
	Key string `json:"key"`
}

const minPasswordLength = 8

var validate = validator.New()

type userContextKey struct{}

// CreateUser registers a user directly and returns a valid token for it.
func (s *Server) CreateUser(username, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.users[username] = &user{ID: s.nextID, Username: username, Email: email, PasswordHash: hash}
	return s.issueToken(username), nil
}

// caller holds s.mu
func (s *Server) issueToken(username string) string {
	token := uuid.NewToken()
	s.tokens[token] = username
	return token
}

func (s *Server) register(r *http.Request) (*httpx.Response, error) {
	var req registrationReq
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}

	errs := httpx.FieldErrors{}
	if req.Username == "" {
		errs.Add("username", "This field is required.")
	}
	if req.Email != "" {
		if err := validate.Var(req.Email, "email"); err != nil {
			errs.Add("email", "Enter a valid email address.")
		}
	}
	if req.Password1 == "" {
		errs.Add("password1", "This field is required.")
	} else if len(req.Password1) < minPasswordLength {
		errs.Add("password1", "This password is too short. It must contain at least 8 characters.")
	}
	if req.Password2 == "" {
		errs.Add("password2", "This field is required.")
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	if req.Password1 != req.Password2 {
		errs.Add("non_field_errors", "The two password fields didn't match.")
		return nil, errs
	}

	s.mu.Lock()
	_, exists := s.users[req.Username]
	s.mu.Unlock()
	if exists {
		errs.Add("username", "A user with that username already exists.")
		return nil, errs
	}

	token, err := s.CreateUser(req.Username, req.Email, req.Password1)
	if err != nil {
		return nil, err
	}
	if s.opts.RegistrationNoContent {
		s.mu.Lock()
		delete(s.tokens, token)
		s.mu.Unlock()
		return &httpx.Response{StatusCode: http.StatusNoContent}, nil
	}
	return &httpx.Response{StatusCode: http.StatusCreated, Response: keyRsp{Key: token}}, nil
}

func (s *Server) login(r *http.Request) (*httpx.Response, error) {
	var req loginReq
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	errs := httpx.FieldErrors{}
	if identifier == "" {
		errs.Add("username", "This field is required.")
	}
	if req.Password == "" {
		errs.Add("password", "This field is required.")
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	u := s.findUser(identifier)
	s.mu.Unlock()
	if u == nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		errs.Add("non_field_errors", "Unable to log in with provided credentials.")
		return nil, errs
	}

	s.mu.Lock()
	token := s.issueToken(u.Username)
	s.mu.Unlock()
	return &httpx.Response{StatusCode: http.StatusOK, Response: keyRsp{Key: token}}, nil
}

func (s *Server) logout(r *http.Request) (*httpx.Response, error) {
	token := tokenFromHeader(r)
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   map[string]string{"detail": "Successfully logged out."},
	}, nil
}

// caller holds s.mu
func (s *Server) findUser(identifier string) *user {
	if u, ok := s.users[identifier]; ok {
		return u
	}
	for _, u := range s.users {
		if u.Email != "" && strings.EqualFold(u.Email, identifier) {
			return u
		}
	}
	return nil
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromHeader(r)
		if token == "" {
			httpx.ErrNotAuthenticated().Send(w)
			return
		}
		s.mu.Lock()
		username, ok := s.tokens[token]
		var u *user
		if ok {
			u = s.users[username]
		}
		s.mu.Unlock()
		if u == nil {
			httpx.ErrInvalidToken().Send(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey{}, u)))
	})
}

func tokenFromHeader(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || scheme != "Token" {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentUser(r *http.Request) *user {
	u, _ := r.Context().Value(userContextKey{}).(*user)
	return u
}
