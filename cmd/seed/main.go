package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"imageshare/config"
	"imageshare/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	// A couple of placeholder images so listings are not empty on a fresh db
	images := []struct {
		filename, original, mime, description, tags string
		size                                        int64
	}{
		{"seed-sunset.jpg", "sunset.jpg", "image/jpeg", "Sunset over the bay", "{sunset,nature}", 482113},
		{"seed-cat.png", "cat.png", "image/png", "Office cat", "{cat,office}", 120554},
	}
	for _, img := range images {
		if _, err := db.Exec(`
			INSERT INTO images (filename, original_name, mime_type, size_bytes, uploader, description, tags)
			SELECT $1, $2, $3, $4, $5::uuid, $6, $7::text[]
			WHERE NOT EXISTS (SELECT 1 FROM images WHERE filename = $1)
		`, img.filename, img.original, img.mime, img.size, id, img.description, img.tags); err != nil {
			log.Fatalf("failed to seed image %s: %v", img.filename, err)
		}
	}
	fmt.Printf("seeded %d images for %s\n", len(images), email)
}
