package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/vaughan-dsouza/userdir/internal/models"
	"github.com/vaughan-dsouza/userdir/internal/store"
	"github.com/vaughan-dsouza/userdir/internal/utils"
)

// UserStore is the slice of the credential store the services need.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id int64, p models.UserPatch) error
	Delete(ctx context.Context, id int64) error
}

// Directory implements user CRUD. Returned users never carry a password hash.
type Directory struct {
	store    UserStore
	validate *validator.Validate
	hash     func(string) (string, error)
}

func NewDirectory(s UserStore) *Directory {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// bcrypt limits the byte length, not the rune count, so max= will not do.
	_ = v.RegisterValidation("pwbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= models.MaxPasswordBytes
	})
	return &Directory{
		store:    s,
		validate: v,
		hash:     utils.HashPassword,
	}
}

func (d *Directory) List(ctx context.Context) ([]models.User, error) {
	users, err := d.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (d *Directory) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := d.store.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	u.Password = ""
	return u, nil
}

// Create hashes the password and inserts the record. The email pre-check only
// produces a friendlier path; the store's unique index decides races.
func (d *Directory) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	if err := d.check(in); err != nil {
		return nil, err
	}

	exists, err := d.store.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	hash, err := d.hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
		Role:      in.Role,
		Avatar:    in.Avatar,
	}
	if u.Role == "" {
		u.Role = models.DefaultRole
	}
	if err := d.store.Create(ctx, u); err != nil {
		return nil, translate(err)
	}

	u.Password = ""
	return u, nil
}

// Update merges p into user id. A supplied password is re-hashed; omitted
// fields keep their stored values.
func (d *Directory) Update(ctx context.Context, id int64, p models.UserPatch) (*models.User, error) {
	if err := d.check(p); err != nil {
		return nil, err
	}
	if p.Empty() {
		return d.Get(ctx, id)
	}

	if p.Password != nil {
		hash, err := d.hash(*p.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		p.Password = &hash
	}

	if err := d.store.Update(ctx, id, p); err != nil {
		return nil, translate(err)
	}
	return d.Get(ctx, id)
}

func (d *Directory) Delete(ctx context.Context, id int64) error {
	return translate(d.store.Delete(ctx, id))
}

func (d *Directory) check(v any) error {
	err := d.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, describe(fe))
		}
		return &ValidationError{Detail: strings.Join(fields, "; ")}
	}
	return err
}

func describe(fe validator.FieldError) string {
	name := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "notblank", "min":
		return name + " must not be empty"
	case "pwbytes":
		return fmt.Sprintf("%s must be at most %d bytes", name, models.MaxPasswordBytes)
	default:
		return name + " is invalid"
	}
}

// jsonName turns FirstName into first_name for error messages.
func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// translate maps store sentinels onto the service taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicateEmail):
		return ErrConflict
	default:
		return err
	}
}
