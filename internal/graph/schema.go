// Package graph exposes the user directory as a GraphQL schema.
package graph

import (
	"context"
	"errors"
	"log"

	"github.com/graphql-go/graphql"

	"github.com/vaughan-dsouza/userdir/internal/models"
	"github.com/vaughan-dsouza/userdir/internal/service"
)

// Directory is what the resolvers need from the user directory service.
type Directory interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
	Update(ctx context.Context, id int64, p models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"first_name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"last_name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"avatar":     &graphql.Field{Type: graphql.String},
	},
})

func userIDArg() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)}
}

func stringArg(required bool) *graphql.ArgumentConfig {
	if required {
		return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	}
	return &graphql.ArgumentConfig{Type: graphql.String}
}

// NewSchema builds the executable schema bound to dir.
func NewSchema(dir Directory) (graphql.Schema, error) {
	r := &resolver{dir: dir}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(userType)),
				Resolve: r.users,
			},
			"user": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"user_id": userIDArg()},
				Resolve: r.user,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"first_name": stringArg(true),
					"last_name":  stringArg(true),
					"email":      stringArg(true),
					"password":   stringArg(true),
					"role":       stringArg(false),
					"avatar":     stringArg(false),
				},
				Resolve: r.createUser,
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"user_id":    userIDArg(),
					"first_name": stringArg(false),
					"last_name":  stringArg(false),
					"email":      stringArg(false),
					"role":       stringArg(false),
					"password":   stringArg(false),
					"avatar":     stringArg(false),
				},
				Resolve: r.updateUser,
			},
			"deleteUser": &graphql.Field{
				Type:    graphql.String,
				Args:    graphql.FieldConfigArgument{"user_id": userIDArg()},
				Resolve: r.deleteUser,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

type resolver struct {
	dir Directory
}

func (r *resolver) users(p graphql.ResolveParams) (interface{}, error) {
	users, err := r.dir.List(p.Context)
	if err != nil {
		return nil, publicError(err)
	}
	out := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		out = append(out, toGraph(&users[i]))
	}
	return out, nil
}

// user resolves to null for an unknown id rather than an error.
func (r *resolver) user(p graphql.ResolveParams) (interface{}, error) {
	u, err := r.dir.Get(p.Context, userID(p.Args))
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, publicError(err)
	}
	return toGraph(u), nil
}

func (r *resolver) createUser(p graphql.ResolveParams) (interface{}, error) {
	in := models.NewUser{
		FirstName: stringValue(p.Args, "first_name"),
		LastName:  stringValue(p.Args, "last_name"),
		Email:     stringValue(p.Args, "email"),
		Password:  stringValue(p.Args, "password"),
		Role:      stringValue(p.Args, "role"),
		Avatar:    optString(p.Args, "avatar"),
	}
	u, err := r.dir.Create(p.Context, in)
	if err != nil {
		return nil, publicError(err)
	}
	return toGraph(u), nil
}

func (r *resolver) updateUser(p graphql.ResolveParams) (interface{}, error) {
	patch := models.UserPatch{
		FirstName: optString(p.Args, "first_name"),
		LastName:  optString(p.Args, "last_name"),
		Email:     optString(p.Args, "email"),
		Role:      optString(p.Args, "role"),
		Password:  optString(p.Args, "password"),
		Avatar:    optString(p.Args, "avatar"),
	}
	u, err := r.dir.Update(p.Context, userID(p.Args), patch)
	if err != nil {
		return nil, publicError(err)
	}
	return toGraph(u), nil
}

func (r *resolver) deleteUser(p graphql.ResolveParams) (interface{}, error) {
	if err := r.dir.Delete(p.Context, userID(p.Args)); err != nil {
		return nil, publicError(err)
	}
	return "User deleted successfully", nil
}

func toGraph(u *models.User) map[string]interface{} {
	m := map[string]interface{}{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"role":       u.Role,
		"avatar":     nil,
	}
	if u.Avatar != nil {
		m["avatar"] = *u.Avatar
	}
	return m
}

func userID(args map[string]interface{}) int64 {
	id, _ := args["user_id"].(int)
	return int64(id)
}

func stringValue(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func optString(args map[string]interface{}, key string) *string {
	s, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// publicError hides store detail; only business failures keep their message.
func publicError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return errors.New("User not found")
	case errors.Is(err, service.ErrConflict):
		return errors.New("User already exists")
	case errors.Is(err, service.ErrInvalidInput):
		return err
	default:
		log.Printf("graphql: internal error: %v", err)
		return errors.New("Internal server error")
	}
}
