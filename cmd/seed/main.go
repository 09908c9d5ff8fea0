package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariefcatur/go-shop-api.git/internal/config"
	"github.com/ariefcatur/go-shop-api.git/internal/postgres"
)

type seedProduct struct {
	name  string
	price string
	stock int
}

var products = []seedProduct{
	{"Laptop", "999.99", 50},
	{"Smartphone", "699.99", 100},
	{"Wireless Headphones", "199.99", 75},
	{"Tablet", "449.99", 30},
	{"Smart Watch", "299.99", 40},
	{"USB-C Cable", "19.99", 200},
	{"Wireless Mouse", "49.99", 80},
	{"Mechanical Keyboard", "129.99", 35},
	{"Monitor 27\"", "349.99", 25},
	{"Webcam HD", "89.99", 60},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := []struct {
		name, email string
		admin       bool
	}{
		{"Admin User", "admin@example.com", true},
		{"John Doe", "john@example.com", false},
	}
	for _, u := range users {
		_, err := db.Exec(ctx, `
			INSERT INTO users(id, name, email, password_hash, is_admin)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING`,
			uuid.NewString(), u.name, u.email, string(hash), u.admin)
		if err != nil {
			log.Fatalf("seed user %s: %v", u.email, err)
		}
	}

	for _, p := range products {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			log.Fatalf("seed product %s: %v", p.name, err)
		}
		_, err = db.Exec(ctx, `
			INSERT INTO products(id, name, price, stock)
			SELECT $1, $2, $3, $4
			WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $2)`,
			uuid.NewString(), p.name, price, p.stock)
		if err != nil {
			log.Fatalf("seed product %s: %v", p.name, err)
		}
	}

	log.Printf("seeded %d users and %d products", len(users), len(products))
}
