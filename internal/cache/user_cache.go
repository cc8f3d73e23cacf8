package cache

import (
	"context"
	"encoding/json"
	"time"

	"shop-api/internal/domain"
)

const userCachePrefix = "auth:user:"

// UserCache guarda copias desnormalizadas de usuarios bajo claves de id
// o email. Las dos claves de un mismo usuario expiran de forma
// independiente.
type UserCache struct {
	store Store
}

// NewUserCache crea un UserCache sobre el Store dado.
func NewUserCache(store Store) *UserCache {
	return &UserCache{store: store}
}

// Get devuelve la entrada cacheada o ausente. Una entrada corrupta se
// trata como miss, no como error.
func (c *UserCache) Get(ctx context.Context, key string) (domain.User, bool, error) {
	raw, ok, err := c.store.Get(ctx, userCachePrefix+key)
	if err != nil {
		return domain.User{}, false, err
	}
	if !ok {
		return domain.User{}, false, nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return domain.User{}, false, nil
	}
	return user, true, nil
}

// Set sobreescribe la entrada bajo la clave dada. El hash de password
// nunca se serializa (json:"-"), así el cache compartido no retiene
// secretos. Un ttl <= 0 deja la entrada sin expiración.
func (c *UserCache) Set(ctx context.Context, key string, user domain.User, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, userCachePrefix+key, string(data), ttl)
}

// Invalidate elimina una sola clave; no afecta la otra clave (id o
// email) que apunte al mismo usuario.
func (c *UserCache) Invalidate(ctx context.Context, key string) error {
	return c.store.Del(ctx, userCachePrefix+key)
}
