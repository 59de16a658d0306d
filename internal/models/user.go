package models

// User is one row of the users table. The password hash never leaves the
// store layer in a response: it is tagged out of JSON.
type User struct {
	ID        int64   `db:"id" json:"id"`
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Email     string  `db:"email" json:"email"`
	Password  string  `db:"password" json:"-"`
	Role      string  `db:"role" json:"role"`
	Avatar    *string `db:"avatar" json:"avatar"`
}

const DefaultRole = "user"

// MaxPasswordBytes is the longest plaintext bcrypt accepts.
const MaxPasswordBytes = 72

// UserPatch carries a partial update. Nil fields keep their stored value;
// supplied fields other than avatar may not be blank.
// Password holds plaintext until the service replaces it with a hash.
type UserPatch struct {
	FirstName *string `json:"first_name" validate:"omitnil,notblank"`
	LastName  *string `json:"last_name" validate:"omitnil,notblank"`
	Email     *string `json:"email" validate:"omitnil,email"`
	Password  *string `json:"password" validate:"omitnil,min=1,pwbytes"`
	Role      *string `json:"role" validate:"omitnil,notblank"`
	Avatar    *string `json:"avatar"`
}

func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Password == nil && p.Role == nil && p.Avatar == nil
}

// NewUser is the input for creating a record.
type NewUser struct {
	FirstName string  `json:"first_name" validate:"required,notblank"`
	LastName  string  `json:"last_name" validate:"required,notblank"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,pwbytes"`
	Role      string  `json:"role"`
	Avatar    *string `json:"avatar"`
}
