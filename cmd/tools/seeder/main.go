package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

type seedRule struct {
	ID         string
	Name       string
	Kind       string
	Magnitude  int64
	ProductIDs []string
	Active     bool
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	rules := []seedRule{
		{ID: "rule-anniversary-15", Name: "Anniversary 15% off", Kind: "percentage", Magnitude: 15, Active: true},
		{ID: "rule-clearance-30", Name: "Clearance 30% off", Kind: "percentage", Magnitude: 30, ProductIDs: []string{"prod-legacy-001", "prod-legacy-002"}, Active: true},
		{ID: "rule-flat-5000", Name: "Rp5.000 off accessories", Kind: "fixed", Magnitude: 5000, ProductIDs: []string{"prod-acc-cable", "prod-acc-case"}, Active: true},
		{ID: "rule-vip-20", Name: "VIP 20% off", Kind: "percentage", Magnitude: 20, ProductIDs: []string{"prod-flagship"}, Active: true},
		{ID: "rule-retired-50", Name: "Retired launch promo", Kind: "percentage", Magnitude: 50, Active: false},
	}

	log.Println("Seeding discount rules...")
	for _, rule := range rules {
		if rule.ProductIDs == nil {
			rule.ProductIDs = []string{}
		}
		_, err := conn.Exec(ctx, `
			INSERT INTO discount_rules (id, name, kind, magnitude, product_ids, active)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				kind = EXCLUDED.kind,
				magnitude = EXCLUDED.magnitude,
				product_ids = EXCLUDED.product_ids,
				active = EXCLUDED.active,
				updated_at = now()
		`, rule.ID, rule.Name, rule.Kind, rule.Magnitude, rule.ProductIDs, rule.Active)
		if err != nil {
			log.Fatalf("Failed to seed rule %s: %v", rule.ID, err)
		}
	}

	log.Printf("Seeding completed: %d rules", len(rules))
}
