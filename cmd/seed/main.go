package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/farbari/farbari-api/config"
	"github.com/farbari/farbari-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hasher := helpers.NewPasswordHasher(cfg.BcryptCost)

	adminEmail := "admin@farbari.local"
	adminPassword := "Admin!Pass123"
	hash, err := hasher.Hash(adminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, is_verified)
		VALUES ($1, $2, $3, 'admin', true)
		ON CONFLICT (email) DO UPDATE SET role = 'admin'
		RETURNING id
	`, adminEmail, hash, "Farbari Admin").Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", adminID, adminEmail, adminPassword)

	demoEmail := "demo@farbari.local"
	demoPassword := "Demo!Pass123"
	demoHash, err := hasher.Hash(demoPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var demoID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, is_verified)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, demoEmail, demoHash, "Demo User").Scan(&demoID)
	if err != nil {
		log.Fatalf("failed to seed demo user: %v", err)
	}
	fmt.Printf("seeded demo user: id=%s email=%s password=%s\n", demoID, demoEmail, demoPassword)

	// A visible demo listing so the marketplace is not empty on first boot.
	var postID string
	err = db.QueryRow(`
		INSERT INTO posts (
			owner_id, title, description,
			pet_name, pet_species, pet_breed, pet_age_value, pet_age_unit,
			pet_gender, pet_size, pet_color, pet_health_status, pet_energy,
			location_city, location_state, location_country,
			adoption_fee, status, urgency, is_approved, approved_by
		)
		SELECT
			$1, 'Friendly beagle looking for a family', 'Biscuit is a three year old beagle who loves long walks and gets along with everyone he meets. He is house trained and up to date on his shots.',
			'Biscuit', 'dog', 'Beagle', 3, 'years',
			'male', 'medium', 'tricolor', 'excellent', 'moderate',
			'Austin', 'TX', 'US',
			50, 'active', 'medium', true, $2
		WHERE NOT EXISTS (SELECT 1 FROM posts WHERE owner_id = $1)
		RETURNING id
	`, demoID, adminID).Scan(&postID)
	if err != nil && err != sql.ErrNoRows {
		log.Fatalf("failed to seed post: %v", err)
	}
	if postID != "" {
		fmt.Printf("seeded demo post: id=%s\n", postID)
	}
}
