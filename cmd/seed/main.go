// Command seed creates the users table and loads the demo accounts.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/vaughan-dsouza/userdir/internal/config"
	"github.com/vaughan-dsouza/userdir/internal/db"
	"github.com/vaughan-dsouza/userdir/internal/models"
	"github.com/vaughan-dsouza/userdir/internal/store"
)

// demoHash is the legacy scrypt hash every demo account was created with.
const demoHash = "scrypt:32768:8:1$JEM9CYUgAciYtGds$f67d02727f7ce8af533c856f6c901ae77eaef9a486e3f747c4e68597d4a89d5d20c12e8cde8bf56f67b16b7e1d55ee966e3de17d985ea80f16321dcbaa72ae6f"

func avatar(color, text, name string) *string {
	s := "https://via.placeholder.com/150/" + color + "/" + text + "?Text=" + name
	return &s
}

var demoUsers = []models.User{
	{FirstName: "John", LastName: "Doe", Email: "john@example.com", Avatar: avatar("0000FF", "808080", "JohnDoe")},
	{FirstName: "Jane", LastName: "Smith", Email: "jane@example.com", Avatar: avatar("FF0000", "FFFFFF", "JaneSmith")},
	{FirstName: "Alice", LastName: "Wonder", Email: "alice@example.com", Avatar: avatar("FFFF00", "000000", "AliceWonder")},
	{FirstName: "Bob", LastName: "Builder", Email: "bob@example.com", Avatar: avatar("008000", "FFFFFF", "BobBuilder")},
	{FirstName: "Charlie", LastName: "Chap", Email: "charlie@example.com", Avatar: avatar("000000", "FFFFFF", "CharlieChap")},
	{FirstName: "Dana", LastName: "Scully", Email: "dana@example.com", Avatar: avatar("FF00FF", "000000", "DanaScully")},
	{FirstName: "Edward", LastName: "Snow", Email: "edward@example.com", Avatar: avatar("800080", "FFFFFF", "EdwardSnow")},
	{FirstName: "Fiona", LastName: "Sharp", Email: "fiona@example.com", Avatar: avatar("008080", "FFFFFF", "FionaSharp")},
	{FirstName: "George", LastName: "Clay", Email: "george@example.com", Avatar: avatar("FFA500", "FFFFFF", "GeorgeClay")},
	{FirstName: "Hannah", LastName: "Lee", Email: "hannah@example.com", Avatar: avatar("800000", "FFFFFF", "HannahLee")},
}

func main() {
	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbConn, err := db.Connect(cfg.Driver, cfg.URL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer dbConn.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	users := store.NewUsers(dbConn, cfg.Timeout)
	inserted, err := seed(ctx, users, demoUsers)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("database initialized: %d of %d demo users inserted", inserted, len(demoUsers))
}

// seed inserts each user whose email is not taken yet.
func seed(ctx context.Context, users *store.Users, list []models.User) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	inserted := 0
	for _, u := range list {
		u.Password = demoHash
		err := users.Create(ctx, &u)
		if errors.Is(err, store.ErrDuplicateEmail) {
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
