package api

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxtlistan-service/internal/config"
	"vaxtlistan-service/internal/importer"
)

func TestEvictStaleSessions(t *testing.T) {
	h := New(config.Config{}, zerolog.Nop(), nil, nil, nil, nil)
	require.Positive(t, h.sessionTTL)

	fresh := &importer.Session{ID: "fresh", CreatedAt: time.Now()}
	stale := &importer.Session{ID: "stale", CreatedAt: time.Now().Add(-h.sessionTTL - time.Minute)}
	h.sessions[fresh.ID] = fresh
	h.sessions[stale.ID] = stale

	h.evictStale()

	assert.Contains(t, h.sessions, "fresh")
	assert.NotContains(t, h.sessions, "stale", "abandoned review sessions are reclaimed")
}
