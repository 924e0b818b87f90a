package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/PromptManager/internal/pkg/config"
)

// Redis databases; the membership cache uses DB 0.
const (
	appSessionDB   = 1
	oauthSessionDB = 2
)

// NewRedisStorage returns session storage on a dedicated database of the
// configured Redis instance.
func NewRedisStorage(cfg config.Cache, database int) fiber.Storage {
	return redis.New(redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		Database: database,
		Reset:    false,
	})
}

// NewSessionStore creates the app session store backed by Redis.
func NewSessionStore(cfg config.Cache, secure bool) *session.Store {
	return NewStore(NewRedisStorage(cfg, appSessionDB), secure)
}

// NewOAuthSessionStore creates the store that keeps OAuth state between the
// redirect to the provider and the callback.
func NewOAuthSessionStore(cfg config.Cache, cookieName string, secure bool) *session.Store {
	return session.New(session.Config{
		Storage:        NewRedisStorage(cfg, oauthSessionDB),
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   secure,
		Expiration:     72 * time.Hour,
	})
}

// NewStore creates the app session store on the given storage. A nil storage
// keeps sessions in memory.
func NewStore(storage fiber.Storage, secure bool) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
		Expiration:     time.Hour * 24 * 7,
		KeyLookup:      "cookie:session_id",
	})
}

// SetSessionValue stores a key-value pair in the user's individual session
func SetSessionValue(store *session.Store, c *fiber.Ctx, key string, value string) error {
	if store == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %v", err)
	}

	sess.Set(key, value)
	return sess.Save()
}

// GetSessionValue retrieves a value by key from the user's individual session
func GetSessionValue(store *session.Store, c *fiber.Ctx, key string) string {
	if store == nil {
		return ""
	}

	sess, err := store.Get(c)
	if err != nil {
		return ""
	}

	if strValue, ok := sess.Get(key).(string); ok {
		return strValue
	}
	return ""
}
