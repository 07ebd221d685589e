package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"medreport/internal/auth"
	dom "medreport/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memUserRepo is an in-memory UserRepo with the same contract as the
// Postgres one: pgx.ErrNoRows on miss, unique-violation errors on
// duplicate email or google id.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]dom.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]dom.User)}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

func (r *memUserRepo) Create(_ context.Context, name, email string, passwordHash, googleID *string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return dom.User{}, uniqueViolation()
		}
		if googleID != nil && u.GoogleID != nil && *u.GoogleID == *googleID {
			return dom.User{}, uniqueViolation()
		}
	}
	now := time.Now()
	u := dom.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		GoogleID:     googleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) GetByGoogleID(_ context.Context, googleID string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) UpdateName(_ context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *memUserRepo) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = &passwordHash
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *memUserRepo) SetGoogleID(_ context.Context, id, googleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != id && u.GoogleID != nil && *u.GoogleID == googleID {
			return uniqueViolation()
		}
	}
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.GoogleID = &googleID
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeGoogle resolves credentials from a fixed map; anything else fails
// verification.
type fakeGoogle struct {
	identities map[string]auth.GoogleIdentity
}

func (f fakeGoogle) Verify(_ context.Context, credential string) (auth.GoogleIdentity, error) {
	id, ok := f.identities[credential]
	if !ok {
		return auth.GoogleIdentity{}, auth.ErrInvalidAssertion
	}
	return id, nil
}

func newTestService(repo *memUserRepo, google auth.GoogleVerifier) (*AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	if google == nil {
		google = fakeGoogle{}
	}
	return NewAuthService(repo, tokens, google, bcrypt.MinCost), tokens
}

func TestSignupThenLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	svc, tokens := newTestService(repo, nil)

	u, err := svc.Signup(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.True(t, u.HasPassword())
	assert.False(t, u.IsGoogleConnected())

	tok, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	userID, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	svc, _ := newTestService(repo, nil)

	_, err := svc.Signup(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Other Alice", "a@x.com", "different")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, repo.count())
}

func TestSignupWeakPassword(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(newMemUserRepo(), nil)
	_, err := svc.Signup(context.Background(), "Alice", "a@x.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	svc, _ := newTestService(repo, nil)

	u, err := svc.Signup(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Account unaffected.
	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.HasPassword())
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(newMemUserRepo(), nil)
	_, err := svc.Login(context.Background(), "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginGoogleOnlyAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	google := fakeGoogle{identities: map[string]auth.GoogleIdentity{
		"cred-bob": {Sub: "ext-42", Email: "b@x.com", Name: "Bob"},
	}}
	svc, _ := newTestService(repo, google)

	_, err := svc.GoogleLogin(ctx, "cred-bob")
	require.NoError(t, err)

	for _, password := range []string{"", "anything"} {
		_, err = svc.Login(ctx, "b@x.com", password)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "password %q", password)
	}
}

func TestGoogleLoginCreatesAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	google := fakeGoogle{identities: map[string]auth.GoogleIdentity{
		"cred-bob": {Sub: "ext-42", Email: "b@x.com", Name: "Bob"},
	}}
	svc, tokens := newTestService(repo, google)

	tok, err := svc.GoogleLogin(ctx, "cred-bob")
	require.NoError(t, err)

	userID, err := tokens.Verify(tok)
	require.NoError(t, err)

	u, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)
	assert.Equal(t, "b@x.com", u.Email)
	assert.False(t, u.HasPassword())
	assert.True(t, u.IsGoogleConnected())
}

func TestGoogleLoginLinksExistingAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	google := fakeGoogle{identities: map[string]auth.GoogleIdentity{
		"cred-alice": {Sub: "ext-7", Email: "a@x.com", Name: "Alice G"},
	}}
	svc, tokens := newTestService(repo, google)

	created, err := svc.Signup(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	tok, err := svc.GoogleLogin(ctx, "cred-alice")
	require.NoError(t, err)

	userID, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID, "no second account should be created")
	assert.Equal(t, 1, repo.count())

	u, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.True(t, u.HasPassword())
	assert.True(t, u.IsGoogleConnected())
}

func TestGoogleLoginMixedCaseEmailReusesAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	google := fakeGoogle{identities: map[string]auth.GoogleIdentity{
		"cred-bob": {Sub: "ext-42", Email: "Bob@x.com", Name: "Bob"},
	}}
	svc, tokens := newTestService(repo, google)

	created, err := svc.Signup(ctx, "Bob", "Bob@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", created.Email)

	tok, err := svc.GoogleLogin(ctx, "cred-bob")
	require.NoError(t, err)

	userID, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, 1, repo.count(), "one address must not split into two accounts")

	u, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.True(t, u.IsGoogleConnected())
	assert.Equal(t, "bob@x.com", u.Email)
}

func TestGoogleLoginInvalidCredential(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(newMemUserRepo(), nil)
	_, err := svc.GoogleLogin(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestConnectGoogleEmailMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	google := fakeGoogle{identities: map[string]auth.GoogleIdentity{
		"cred-other": {Sub: "ext-9", Email: "other@x.com", Name: "Other"},
	}}
	svc, _ := newTestService(repo, google)

	u, err := svc.Signup(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	err = svc.ConnectGoogle(ctx, u.ID, "cred-other")
	assert.ErrorIs(t, err, ErrEmailMismatch)
}

func TestConnectGoogleAlreadyLinked(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	google := fakeGoogle{identities: map[string]auth.GoogleIdentity{
		"cred-bob":   {Sub: "ext-42", Email: "b@x.com", Name: "Bob"},
		"cred-alice": {Sub: "ext-42", Email: "a@x.com", Name: "Alice"},
	}}
	svc, _ := newTestService(repo, google)

	_, err := svc.GoogleLogin(ctx, "cred-bob")
	require.NoError(t, err)

	u, err := svc.Signup(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	err = svc.ConnectGoogle(ctx, u.ID, "cred-alice")
	assert.ErrorIs(t, err, ErrGoogleTaken)
}

func TestConnectGoogleSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	google := fakeGoogle{identities: map[string]auth.GoogleIdentity{
		"cred-alice": {Sub: "ext-7", Email: "a@x.com", Name: "Alice"},
	}}
	svc, _ := newTestService(repo, google)

	u, err := svc.Signup(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.ConnectGoogle(ctx, u.ID, "cred-alice"))

	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsGoogleConnected())

	// Relinking the same account is idempotent.
	assert.NoError(t, svc.ConnectGoogle(ctx, u.ID, "cred-alice"))
}

func TestSetPasswordOnGoogleOnlyAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	google := fakeGoogle{identities: map[string]auth.GoogleIdentity{
		"cred-bob": {Sub: "ext-42", Email: "b@x.com", Name: "Bob"},
	}}
	svc, tokens := newTestService(repo, google)

	tok, err := svc.GoogleLogin(ctx, "cred-bob")
	require.NoError(t, err)
	userID, err := tokens.Verify(tok)
	require.NoError(t, err)

	// No current password required on the creation path.
	created, err := svc.SetOrChangePassword(ctx, userID, "", "secret1")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.True(t, u.HasPassword())

	// Now it is a change, so the current password is required.
	_, err = svc.SetOrChangePassword(ctx, userID, "", "secret2")
	assert.ErrorIs(t, err, ErrMissingCurrentPassword)

	_, err = svc.SetOrChangePassword(ctx, userID, "wrong", "secret2")
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	created, err = svc.SetOrChangePassword(ctx, userID, "secret1", "secret2")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.Login(ctx, "b@x.com", "secret2")
	assert.NoError(t, err)
}

func TestSetPasswordTooShort(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	svc, _ := newTestService(repo, nil)

	u, err := svc.Signup(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.SetOrChangePassword(ctx, u.ID, "secret1", "tiny")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestUpdateName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newMemUserRepo()
	svc, _ := newTestService(repo, nil)

	u, err := svc.Signup(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateName(ctx, u.ID, "Alice B"))
	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)

	// Empty name leaves the current one unchanged.
	require.NoError(t, svc.UpdateName(ctx, u.ID, "  "))
	got, err = svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
}

func TestGetProfileNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(newMemUserRepo(), nil)
	_, err := svc.GetProfile(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
