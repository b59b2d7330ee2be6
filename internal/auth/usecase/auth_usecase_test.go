package usecase

import (
	"fmt"
	"testing"
	"time"

	authdomain "lifehub-backend/internal/auth/domain"
	authdto "lifehub-backend/internal/auth/dto"
	"lifehub-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]*authdomain.User
	tokens map[string]*authdomain.RefreshToken
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  map[string]*authdomain.User{},
		tokens: map[string]*authdomain.RefreshToken{},
	}
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	r.nextID++
	user.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return r.tokens[token], nil
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error {
	delete(r.tokens, token)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	resp, err := u.Register(&authdto.RegisterRequest{
		Email: "alice@example.com", Password: "secret123", Name: "Alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	login, err := u.Login(&authdto.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	_, err := u.Register(&authdto.RegisterRequest{Email: "alice@example.com", Password: "secret123", Name: "Alice"})
	require.NoError(t, err)

	_, err = u.Register(&authdto.RegisterRequest{Email: "alice@example.com", Password: "other456", Name: "Imposter"})
	assert.EqualError(t, err, "email already registered")
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	_, err := u.Register(&authdto.RegisterRequest{Email: "alice@example.com", Password: "secret123", Name: "Alice"})
	require.NoError(t, err)

	_, err = u.Login(&authdto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.EqualError(t, err, "invalid email or password")

	_, err = u.Login(&authdto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.EqualError(t, err, "invalid email or password")
}

func TestValidateToken(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	resp, err := u.Register(&authdto.RegisterRequest{Email: "alice@example.com", Password: "secret123", Name: "Alice"})
	require.NoError(t, err)

	user, err := u.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	_, err = u.ValidateToken("garbage.token.here")
	assert.Error(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	resp, err := u.Register(&authdto.RegisterRequest{Email: "alice@example.com", Password: "secret123", Name: "Alice"})
	require.NoError(t, err)

	refreshed, err := u.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)
}

func TestRefreshTokenAfterLogout(t *testing.T) {
	repo := newFakeUserRepo()
	u := NewAuthUsecase(repo, testConfig())

	resp, err := u.Register(&authdto.RegisterRequest{Email: "alice@example.com", Password: "secret123", Name: "Alice"})
	require.NoError(t, err)

	require.NoError(t, u.Logout(resp.RefreshToken))

	_, err = u.RefreshToken(resp.RefreshToken)
	assert.EqualError(t, err, "refresh token expired")
}
