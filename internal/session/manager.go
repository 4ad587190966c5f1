package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/autoshop/internal/models"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

type cachedSession struct {
	token     string
	expiresAt time.Time
}

// Manager maps opaque session ids to backend bearer tokens. Tokens never
// leave the server; clients only ever see the session id.
type Manager struct {
	db *gorm.DB

	mu    sync.Mutex
	cache map[string]cachedSession
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		db:    db,
		cache: make(map[string]cachedSession),
	}
}

// Create stores a backend token and returns the session id to hand out.
func (m *Manager) Create(backendToken string, ttl time.Duration) (string, error) {
	sessionID := uuid.NewString()
	expiresAt := time.Now().Add(ttl)

	record := models.AdminSession{
		SessionID:    sessionID,
		BackendToken: backendToken,
		ExpiresAt:    expiresAt,
	}
	if err := m.db.Create(&record).Error; err != nil {
		return "", err
	}

	m.mu.Lock()
	m.cache[sessionID] = cachedSession{token: backendToken, expiresAt: expiresAt}
	m.mu.Unlock()

	return sessionID, nil
}

// Token resolves a session id to its backend token.
func (m *Manager) Token(sessionID string) (string, error) {
	m.mu.Lock()
	cached, ok := m.cache[sessionID]
	m.mu.Unlock()

	if ok {
		if time.Now().Before(cached.expiresAt) {
			return cached.token, nil
		}
		m.Revoke(sessionID)
		return "", ErrNotFound
	}

	var record models.AdminSession
	err := m.db.Where("session_id = ?", sessionID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if time.Now().After(record.ExpiresAt) {
		m.Revoke(sessionID)
		return "", ErrNotFound
	}

	m.mu.Lock()
	m.cache[sessionID] = cachedSession{token: record.BackendToken, expiresAt: record.ExpiresAt}
	m.mu.Unlock()

	return record.BackendToken, nil
}

// Revoke removes a session from the cache and the database.
func (m *Manager) Revoke(sessionID string) {
	m.mu.Lock()
	delete(m.cache, sessionID)
	m.mu.Unlock()

	m.db.Where("session_id = ?", sessionID).Delete(&models.AdminSession{})
}
