package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/socialverse/internal/repository"
	"github.com/d60-Lab/socialverse/internal/testutil"
)

var testSecret = []byte("test-secret")

func newAuth(t *testing.T, ttl time.Duration) AuthService {
	t.Helper()
	db := testutil.NewDB(t)
	return NewAuthService(repository.NewUserRepository(db), AuthOptions{
		Secret:     testSecret,
		TTL:        ttl,
		BcryptCost: bcrypt.MinCost,
	})
}

func TestRegister_DuplicateUsername(t *testing.T) {
	auth := newAuth(t, 0)
	ctx := context.Background()

	res, err := auth.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)
	assert.NotEmpty(t, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = auth.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestRegister_Validation(t *testing.T) {
	auth := newAuth(t, 0)
	ctx := context.Background()

	_, err := auth.Register(ctx, "  ", "pw")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogin(t *testing.T) {
	auth := newAuth(t, 0)
	ctx := context.Background()

	reg, err := auth.Register(ctx, "alice", "correct horse")
	require.NoError(t, err)

	res, err := auth.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, reg.User, res.User)

	uid, err := auth.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, uid)

	_, err = auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyToken_Rejects(t *testing.T) {
	auth := newAuth(t, 0)

	_, err := auth.VerifyToken("")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = auth.VerifyToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = auth.VerifyToken(forged)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.VerifyToken(none)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	empty, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = auth.VerifyToken(empty)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyToken_Expiry(t *testing.T) {
	auth := newAuth(t, time.Hour)
	svc := auth.(*authService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	res, err := auth.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)

	_, err = auth.VerifyToken(res.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
