package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type testConfig struct {
	signingKey string
	sessionTTL time.Duration
	resetTTL   time.Duration
	bcryptCost int
}

func (c testConfig) GetSigningKey() string        { return c.signingKey }
func (c testConfig) GetSessionTTL() time.Duration { return c.sessionTTL }
func (c testConfig) GetResetTTL() time.Duration   { return c.resetTTL }
func (c testConfig) GetBcryptCost() int           { return c.bcryptCost }

func newTestConfig() testConfig {
	return testConfig{
		signingKey: "test-secret",
		resetTTL:   15 * time.Minute,
		bcryptCost: 4,
	}
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To       string
	Username string
	Link     string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, username, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Username: username, Link: resetLink})
	return nil
}

func (m *recordingMailer) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db))
	require.NoError(t, SeedDefaultRoles(ctx, db))

	// enforce FK constraints, sqlite has them off by default
	_, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, repo RepositoryManager, username, password, roleName string, enabled int) *User {
	t.Helper()

	ctx := context.Background()

	role, err := repo.Roles().GetByName(ctx, roleName)
	require.NoError(t, err)

	hasher := NewHasher(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	user, err := repo.Users().Create(ctx, &User{
		Username:     username,
		PasswordHash: hash,
		RoleID:       role.ID,
		Enabled:      enabled,
	})
	require.NoError(t, err)

	profile, err := repo.Profiles().Create(ctx, &UserProfile{
		UserID:         user.ID,
		Email:          username + "@example.com",
		FullName:       "Test " + username,
		DocumentType:   "CC",
		DocumentNumber: fmt.Sprintf("doc-%s", username),
	})
	require.NoError(t, err)

	user.Profile = profile

	return user
}
