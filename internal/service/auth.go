package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/vaughan-dsouza/userdir/internal/models"
	"github.com/vaughan-dsouza/userdir/internal/store"
	"github.com/vaughan-dsouza/userdir/internal/utils"
)

// SignupInput omits role: self-registered users always get the default role.
type SignupInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Avatar    *string `json:"avatar"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Auth wires login and signup over the directory, store and token issuer.
type Auth struct {
	dir    *Directory
	store  UserStore
	tokens *utils.TokenIssuer
	check  func(plaintext, hash string) bool
}

func NewAuth(dir *Directory, s UserStore, tokens *utils.TokenIssuer) *Auth {
	return &Auth{dir: dir, store: s, tokens: tokens, check: utils.CheckPassword}
}

func (a *Auth) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	return a.dir.Create(ctx, models.NewUser{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Avatar:    in.Avatar,
	})
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (a *Auth) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := a.store.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// Spend the same hashing work as a real mismatch.
		a.check(password, decoyHash())
		log.Println("login rejected: invalid credentials")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !a.check(password, u.Password) {
		log.Println("login rejected: invalid credentials")
		return nil, ErrInvalidCredentials
	}

	token, _, err := a.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}

	u.Password = ""
	return &LoginResult{Token: token, User: u}, nil
}

var (
	decoyOnce sync.Once
	decoy     string
)

// decoyHash is a bcrypt hash no submitted password is expected to match.
func decoyHash() string {
	decoyOnce.Do(func() {
		h, err := utils.HashPassword("decoy password for unknown accounts")
		if err != nil {
			log.Printf("decoy hash: %v", err)
		}
		decoy = h
	})
	return decoy
}

// Authenticate verifies a bearer token and returns its user id.
func (a *Auth) Authenticate(token string) (int64, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// Me returns the record of an authenticated caller.
func (a *Auth) Me(ctx context.Context, userID int64) (*models.User, error) {
	return a.dir.Get(ctx, userID)
}
