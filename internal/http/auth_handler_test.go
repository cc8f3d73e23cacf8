package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func authTestRouter(t *testing.T) (*mockUserRepo, *gin.Engine) {
	t.Helper()
	repo, tokens, users := newAuthFixture(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(zap.NewNop(), tokens, users))

	authH := NewAuthHandler(zap.NewNop(), users, tokens)
	userH := NewUserHandler(zap.NewNop(), users)
	r.POST("/auth/register", authH.Register)
	r.POST("/auth/login", authH.Login)
	r.GET("/auth/me", RequireAuth(), authH.Me)
	r.DELETE("/users/:id", RequireAuth(), userH.DeleteUser)
	return repo, r
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthFlow_RegisterLoginMe(t *testing.T) {
	_, r := authTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "shopper@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "shopper@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var loginResp struct {
		Token string `json:"token"`
		User  struct {
			ID    string   `json:"id"`
			Roles []string `json:"roles"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if loginResp.Token == "" {
		t.Fatalf("expected a token")
	}
	if len(loginResp.User.Roles) != 1 || loginResp.User.Roles[0] != "customer" {
		t.Fatalf("expected default customer role, got %v", loginResp.User.Roles)
	}

	rec = doJSON(r, http.MethodGet, "/auth/me", loginResp.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow_DuplicateRegister(t *testing.T) {
	_, r := authTestRouter(t)

	body := gin.H{"email": "shopper@example.com", "password": "secret123"}
	if rec := doJSON(r, http.MethodPost, "/auth/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	if rec := doJSON(r, http.MethodPost, "/auth/register", "", body); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rec.Code)
	}
}

func TestAuthFlow_BadCredentials(t *testing.T) {
	_, r := authTestRouter(t)

	if rec := doJSON(r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "shopper@example.com",
		"password": "secret123",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}

	rec := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "shopper@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDeleteUser_SelfThenTokenUnusable(t *testing.T) {
	_, r := authTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "shopper@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	var registerResp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &registerResp); err != nil {
		t.Fatalf("decode register: %v", err)
	}

	rec = doJSON(r, http.MethodDelete, "/users/"+registerResp.User.ID, registerResp.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// El sujeto ya no existe: el token deja de autenticar.
	rec = doJSON(r, http.MethodGet, "/auth/me", registerResp.Token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after delete, got %d", rec.Code)
	}
}
