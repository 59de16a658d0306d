package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/userdir/internal/db"
	"github.com/vaughan-dsouza/userdir/internal/models"
	"github.com/vaughan-dsouza/userdir/internal/store"
	"github.com/vaughan-dsouza/userdir/internal/utils"
)

type testDeps struct {
	store *store.Users
	dir   *Directory
	auth  *Auth
}

func setup(t *testing.T, name string) *testDeps {
	t.Helper()
	d, err := db.Connect(db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, db.EnsureSchema(context.Background(), d))

	s := store.NewUsers(d, time.Second)
	tokens, err := utils.NewTokenIssuer("test-secret")
	require.NoError(t, err)

	dir := NewDirectory(s)
	return &testDeps{store: s, dir: dir, auth: NewAuth(dir, s, tokens)}
}

func strPtr(s string) *string { return &s }

func amy() models.NewUser {
	return models.NewUser{FirstName: "Amy", LastName: "Lee", Email: "amy@example.com", Password: "pw123"}
}

func TestDirectory_CreateAndGet(t *testing.T) {
	d := setup(t, "svc_create")
	ctx := context.Background()

	u, err := d.dir.Create(ctx, amy())
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Empty(t, u.Password)

	got, err := d.dir.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.User{
		ID: u.ID, FirstName: "Amy", LastName: "Lee", Email: "amy@example.com", Role: "user",
	}, *got)

	stored, err := d.store.GetByEmail(ctx, "amy@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.Password)
	assert.True(t, utils.CheckPassword("pw123", stored.Password))
}

func TestDirectory_CreateConflictLeavesRowCount(t *testing.T) {
	d := setup(t, "svc_conflict")
	ctx := context.Background()

	_, err := d.dir.Create(ctx, amy())
	require.NoError(t, err)

	_, err = d.dir.Create(ctx, amy())
	assert.ErrorIs(t, err, ErrConflict)

	n, err := d.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDirectory_CreateValidation(t *testing.T) {
	d := setup(t, "svc_validation")

	in := amy()
	in.FirstName = ""
	in.Email = "not-an-email"
	_, err := d.dir.Create(context.Background(), in)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "first_name is required")
	assert.Contains(t, err.Error(), "email must be a valid email address")
}

func TestDirectory_UpdateMerges(t *testing.T) {
	d := setup(t, "svc_update")
	ctx := context.Background()

	in := amy()
	in.Avatar = strPtr("https://example.com/a.png")
	u, err := d.dir.Create(ctx, in)
	require.NoError(t, err)

	got, err := d.dir.Update(ctx, u.ID, models.UserPatch{Email: strPtr("new@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", got.Email)
	assert.Equal(t, "Amy", got.FirstName)
	assert.Equal(t, "Lee", got.LastName)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, "https://example.com/a.png", *got.Avatar)
	assert.Empty(t, got.Password)

	// password only changes when supplied, and is re-hashed
	_, err = d.dir.Update(ctx, u.ID, models.UserPatch{Password: strPtr("newpw")})
	require.NoError(t, err)
	_, err = d.auth.Login(ctx, "new@x.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = d.auth.Login(ctx, "new@x.com", "newpw")
	assert.NoError(t, err)

	same, err := d.dir.Update(ctx, u.ID, models.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", same.Email)
}

func TestDirectory_UpdateErrors(t *testing.T) {
	d := setup(t, "svc_update_err")
	ctx := context.Background()

	_, err := d.dir.Update(ctx, 99, models.UserPatch{FirstName: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = d.dir.Update(ctx, 99, models.UserPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.dir.Create(ctx, amy())
	require.NoError(t, err)
	bob := amy()
	bob.Email = "bob@example.com"
	b, err := d.dir.Create(ctx, bob)
	require.NoError(t, err)

	_, err = d.dir.Update(ctx, b.ID, models.UserPatch{Email: strPtr("amy@example.com")})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = d.dir.Update(ctx, b.ID, models.UserPatch{Email: strPtr("nope")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	blanks := []struct {
		name  string
		patch models.UserPatch
		msg   string
	}{
		{"first_name", models.UserPatch{FirstName: strPtr("")}, "first_name must not be empty"},
		{"whitespace last_name", models.UserPatch{LastName: strPtr("   ")}, "last_name must not be empty"},
		{"role", models.UserPatch{Role: strPtr("")}, "role must not be empty"},
		{"password", models.UserPatch{Password: strPtr("")}, "password must not be empty"},
	}
	for _, tc := range blanks {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.dir.Update(ctx, b.ID, tc.patch)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}

	got, err := d.dir.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amy", got.FirstName)
	assert.Equal(t, "Lee", got.LastName)
	assert.Equal(t, "user", got.Role)
	_, err = d.auth.Login(ctx, "bob@example.com", "pw123")
	assert.NoError(t, err)
}

func TestDirectory_PasswordByteLimit(t *testing.T) {
	d := setup(t, "svc_pw_limit")
	ctx := context.Background()

	in := amy()
	in.Password = strings.Repeat("a", 80)
	_, err := d.dir.Create(ctx, in)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "password must be at most 72 bytes")

	// multi-byte runes count by byte: 25 x 3 bytes
	in.Password = strings.Repeat("€", 25)
	_, err = d.dir.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in.Password = strings.Repeat("a", 72)
	u, err := d.dir.Create(ctx, in)
	require.NoError(t, err)

	_, err = d.dir.Update(ctx, u.ID, models.UserPatch{Password: strPtr(strings.Repeat("b", 80))})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "password must be at most 72 bytes")

	_, err = d.auth.Login(ctx, "amy@example.com", strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestDirectory_Delete(t *testing.T) {
	d := setup(t, "svc_delete")
	ctx := context.Background()

	assert.ErrorIs(t, d.dir.Delete(ctx, 1234), ErrNotFound)

	u, err := d.dir.Create(ctx, amy())
	require.NoError(t, err)
	require.NoError(t, d.dir.Delete(ctx, u.ID))

	_, err = d.dir.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirectory_ListHidesHashes(t *testing.T) {
	d := setup(t, "svc_list")
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		in := amy()
		in.Email = email
		_, err := d.dir.Create(ctx, in)
		require.NoError(t, err)
	}

	users, err := d.dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}
	assert.Less(t, users[0].ID, users[1].ID)
}

func TestAuth_SignupThenLogin(t *testing.T) {
	d := setup(t, "svc_login")
	ctx := context.Background()

	u, err := d.auth.Signup(ctx, SignupInput{
		FirstName: "Amy", LastName: "Lee", Email: "amy@example.com", Password: "pw123",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", u.Role)

	res, err := d.auth.Login(ctx, "amy@example.com", "pw123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Empty(t, res.User.Password)

	id, err := d.auth.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	me, err := d.auth.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "amy@example.com", me.Email)

	_, err = d.auth.Signup(ctx, SignupInput{
		FirstName: "Amy", LastName: "Lee", Email: "amy@example.com", Password: "other",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuth_LoginFailuresAreIdentical(t *testing.T) {
	d := setup(t, "svc_login_fail")
	ctx := context.Background()

	_, err := d.auth.Signup(ctx, SignupInput{
		FirstName: "Amy", LastName: "Lee", Email: "amy@example.com", Password: "pw123",
	})
	require.NoError(t, err)

	_, wrongPassword := d.auth.Login(ctx, "amy@example.com", "nope")
	_, unknownEmail := d.auth.Login(ctx, "ghost@example.com", "pw123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuth_UnknownEmailStillComparesHash(t *testing.T) {
	d := setup(t, "svc_login_decoy")
	ctx := context.Background()

	_, err := d.auth.Signup(ctx, SignupInput{
		FirstName: "Amy", LastName: "Lee", Email: "amy@example.com", Password: "pw123",
	})
	require.NoError(t, err)

	var hashes []string
	d.auth.check = func(plaintext, hash string) bool {
		hashes = append(hashes, hash)
		return utils.CheckPassword(plaintext, hash)
	}

	_, err = d.auth.Login(ctx, "ghost@example.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.Len(t, hashes, 1)
	assert.True(t, strings.HasPrefix(hashes[0], "$2"), "expected a bcrypt hash, got %q", hashes[0])

	_, err = d.auth.Login(ctx, "amy@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Len(t, hashes, 2)
}

type failingStore struct {
	UserStore
	err error
}

func (f failingStore) GetByEmail(context.Context, string) (*models.User, error) { return nil, f.err }
func (f failingStore) ExistsByEmail(context.Context, string) (bool, error)     { return false, f.err }

func TestServices_PropagateStoreErrors(t *testing.T) {
	boom := errors.New("disk I/O error")
	fs := failingStore{err: boom}
	tokens, err := utils.NewTokenIssuer("s")
	require.NoError(t, err)

	dir := NewDirectory(fs)
	a := NewAuth(dir, fs, tokens)

	_, err = a.Login(context.Background(), "amy@example.com", "pw")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	_, err = dir.Create(context.Background(), amy())
	assert.ErrorIs(t, err, boom)
}
