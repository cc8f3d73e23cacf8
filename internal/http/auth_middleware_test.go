package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shop-api/internal/cache"
	"shop-api/internal/domain"
	"shop-api/internal/repository"
	"shop-api/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) FindByIDOrEmail(_ context.Context, key string) (domain.User, error) {
	if user, ok := m.usersByID[key]; ok {
		return user, nil
	}
	if id, ok := m.usersByEmail[key]; ok {
		return m.usersByID[id], nil
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) error {
	if _, ok := m.usersByID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) (string, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	delete(m.usersByID, id)
	delete(m.usersByEmail, user.Email)
	return id, nil
}

func newAuthFixture(t *testing.T) (*mockUserRepo, *service.TokenService, *service.UserService) {
	t.Helper()
	repo := newMockUserRepo()
	userCache := cache.NewUserCache(cache.NewMemoryStore())
	tokens := service.NewTokenService("secret", 15*time.Minute)
	users := service.NewUserService(zap.NewNop(), repo, userCache, 5*time.Minute)
	return repo, tokens, users
}

func seedRepoUser(t *testing.T, repo *mockUserRepo, email, password string, blocked bool, roles ...domain.Role) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleCustomer}
	}
	user := domain.User{
		ID:           "id-" + email,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
		Blocked:      blocked,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create: %v", err)
	}
	return user
}

func testRouter(tokens *service.TokenService, users *service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(zap.NewNop(), tokens, users))
	r.GET("/public", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	r.GET("/admin", RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_AnonymousPassesPublicRoute(t *testing.T) {
	_, tokens, users := newAuthFixture(t)
	r := testRouter(tokens, users)

	if rec := doGet(r, "/public", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous public, got %d", rec.Code)
	}
	if rec := doGet(r, "/private", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous private, got %d", rec.Code)
	}
	if rec := doGet(r, "/admin", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous admin route, got %d", rec.Code)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	repo, tokens, users := newAuthFixture(t)
	user := seedRepoUser(t, repo, "user@example.com", "secret123", false)
	r := testRouter(tokens, users)

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if rec := doGet(r, "/private", token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthenticate_WrongSecretIsAuthFailureNotServerError(t *testing.T) {
	repo, tokens, users := newAuthFixture(t)
	user := seedRepoUser(t, repo, "user@example.com", "secret123", false)
	r := testRouter(tokens, users)

	forged := service.NewTokenService("other-secret", 15*time.Minute)
	token, err := forged.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := doGet(r, "/private", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", rec.Code)
	}
}

func TestAuthenticate_UnknownSubjectRejected(t *testing.T) {
	_, tokens, users := newAuthFixture(t)
	r := testRouter(tokens, users)

	ghost := domain.User{ID: "ghost", Email: "ghost@example.com", Roles: []domain.Role{domain.RoleCustomer}}
	token, err := tokens.Issue(ghost)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if rec := doGet(r, "/private", token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown subject, got %d", rec.Code)
	}
}

func TestAuthenticate_BlockedUserRejected(t *testing.T) {
	repo, tokens, users := newAuthFixture(t)
	user := seedRepoUser(t, repo, "blocked@example.com", "secret123", true)
	r := testRouter(tokens, users)

	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if rec := doGet(r, "/private", token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for blocked user, got %d", rec.Code)
	}
}

func TestRequireRole_DistinguishesAuthz(t *testing.T) {
	repo, tokens, users := newAuthFixture(t)
	customer := seedRepoUser(t, repo, "customer@example.com", "secret123", false)
	admin := seedRepoUser(t, repo, "admin@example.com", "secret123", false, domain.RoleCustomer, domain.RoleAdmin)
	r := testRouter(tokens, users)

	customerToken, err := tokens.Issue(customer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	adminToken, err := tokens.Issue(admin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Autenticado sin el rol: 403, no 401.
	if rec := doGet(r, "/admin", customerToken); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := doGet(r, "/admin", adminToken); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_ExpiredTokenRejected(t *testing.T) {
	repo, tokens, users := newAuthFixture(t)
	user := seedRepoUser(t, repo, "user@example.com", "secret123", false)
	r := testRouter(tokens, users)

	token, err := tokens.IssueWithTTL(user, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if rec := doGet(r, "/private", token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}
