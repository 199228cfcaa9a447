package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trackit-be/internal/database"
	"trackit-be/internal/entities"
	"trackit-be/internal/idgen"
	"trackit-be/internal/repository"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRepos(t *testing.T) (repository.UserRepository, repository.ExpenseRepository) {
	t.Helper()
	db := newTestDB(t)
	ids, err := idgen.New(1)
	require.NoError(t, err)
	return repository.NewUserRepository(db), repository.NewExpenseRepository(db, ids)
}

type fakeTokens struct{}

func (fakeTokens) GenerateSessionToken(userID string) (string, error) { return "session-" + userID, nil }
func (fakeTokens) GenerateResetToken(userID string) (string, error)   { return "reset-" + userID, nil }

type sentReset struct{ to, link string }

type fakeMailer struct {
	err  error
	sent []sentReset
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, link string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentReset{to: to, link: link})
	return nil
}

// brokenUsers fails every call the way an unreachable store would.
type brokenUsers struct{}

var errDown = errors.New("connection refused")

func (brokenUsers) Create(context.Context, *entities.User) (*entities.User, error) {
	return nil, errDown
}

func (brokenUsers) FindByEmail(context.Context, string) (*entities.User, error) {
	return nil, errDown
}

var nopLog = zap.NewNop().Sugar()
