package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shop-api/internal/cache"
	"shop-api/internal/domain"
	"shop-api/internal/repository"
)

// UserService resuelve identidades con cache-first sobre el credential
// store y coordina las escrituras de usuarios.
type UserService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	cache    *cache.UserCache
	cacheTTL time.Duration
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserBlocked        = errors.New("user blocked")
)

func NewUserService(logger *zap.Logger, users repository.UserRepository, userCache *cache.UserCache, cacheTTL time.Duration) *UserService {
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultTTL
	}
	return &UserService{
		logger:   logger,
		users:    users,
		cache:    userCache,
		cacheTTL: cacheTTL,
	}
}

// ResolveOptions modifica el camino de lectura de Resolve.
type ResolveOptions struct {
	// ForceRefresh invalida la entrada cacheada antes de leer.
	ForceRefresh bool
	// IncludeSecret omite el cache por completo y devuelve el hash de
	// password; el resultado nunca se escribe al cache compartido.
	IncludeSecret bool
}

// Resolve devuelve el usuario identificado por id o email. Camino
// normal: cache primero, store en miss con write-through bajo la clave
// consultada. No hay caching negativo: un ausente se vuelve a
// consultar en la próxima llamada.
func (s *UserService) Resolve(ctx context.Context, idOrEmail string, opts ResolveOptions) (domain.User, error) {
	key := normalizeKey(idOrEmail)
	if key == "" {
		return domain.User{}, ErrUserNotFound
	}

	if opts.ForceRefresh {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			return domain.User{}, err
		}
	}

	if opts.IncludeSecret {
		user, err := s.users.FindByIDOrEmail(ctx, key)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return user, err
	}

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		return domain.User{}, err
	}
	if ok {
		return cached, nil
	}

	user, err := s.users.FindByIDOrEmail(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	user.PasswordHash = ""
	if err := s.cache.Set(ctx, key, user, s.cacheTTL); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UpsertUserInput son los campos de escritura; los opcionales en nil o
// vacío no sobreescriben.
type UpsertUserInput struct {
	Email    string
	Password string
	Roles    []domain.Role
	Blocked  *bool
}

// Upsert crea o actualiza el usuario identificado por email. Tras la
// escritura, el cache se refresca bajo AMBAS claves (id y email) sin
// TTL: el registro recién escrito queda cacheado hasta invalidación
// explícita, a diferencia del camino de lectura.
func (s *UserService) Upsert(ctx context.Context, input UpsertUserInput) (domain.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidEmail
	}

	now := time.Now().UTC()
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		user = domain.User{
			ID:        uuid.NewString(),
			Email:     email,
			Roles:     input.Roles,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if len(user.Roles) == 0 {
			user.Roles = []domain.Role{domain.RoleCustomer}
		}
		if input.Blocked != nil {
			user.Blocked = *input.Blocked
		}
		if input.Password != "" {
			hash, err := hashPassword(input.Password)
			if err != nil {
				return domain.User{}, err
			}
			user.PasswordHash = hash
		}
		if err := s.users.Create(ctx, user); err != nil {
			return domain.User{}, err
		}
	case err != nil:
		return domain.User{}, err
	default:
		if len(input.Roles) > 0 {
			user.Roles = input.Roles
		}
		if input.Blocked != nil {
			user.Blocked = *input.Blocked
		}
		if input.Password != "" {
			hash, err := hashPassword(input.Password)
			if err != nil {
				return domain.User{}, err
			}
			user.PasswordHash = hash
		}
		user.UpdatedAt = now
		if err := s.users.Update(ctx, user); err != nil {
			return domain.User{}, err
		}
	}

	if err := s.cache.Set(ctx, user.ID, user, 0); err != nil {
		return domain.User{}, err
	}
	if err := s.cache.Set(ctx, user.Email, user, 0); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Remove borra al usuario targetID. Solo el propio usuario o un admin
// pueden hacerlo. Se invalidan la clave de id del target y la clave de
// email del solicitante antes del borrado.
func (s *UserService) Remove(ctx context.Context, targetID string, requester domain.User) (string, error) {
	if requester.ID != targetID && !requester.IsAdmin() {
		return "", ErrForbidden
	}

	if err := s.cache.Invalidate(ctx, targetID); err != nil {
		return "", err
	}
	if email := normalizeEmail(requester.Email); email != "" {
		if err := s.cache.Invalidate(ctx, email); err != nil {
			return "", err
		}
	}

	deleted, err := s.users.Delete(ctx, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	s.logger.Info("user removed", zap.String("user_id", deleted), zap.String("by", requester.ID))
	return deleted, nil
}

// Register crea una cuenta nueva con el rol base; el email no puede
// estar tomado.
func (s *UserService) Register(ctx context.Context, email, password string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidEmail
	}
	if strings.TrimSpace(password) == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, err
	}

	return s.Upsert(ctx, UpsertUserInput{Email: email, Password: password})
}

// Authenticate verifica credenciales leyendo el store directo (con
// secret); nunca revela cuál parte falló.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Resolve(ctx, email, ResolveOptions{IncludeSecret: true})
	if errors.Is(err, ErrUserNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if user.Blocked {
		return domain.User{}, ErrUserBlocked
	}

	user.PasswordHash = ""
	return user, nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// normalizeKey baja a minúsculas las claves con forma de email; los
// ids se usan tal cual.
func normalizeKey(idOrEmail string) string {
	key := strings.TrimSpace(idOrEmail)
	if strings.Contains(key, "@") {
		return strings.ToLower(key)
	}
	return key
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
