package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"property-marketplace/internal/config"
	pg "property-marketplace/internal/infra/db/postgres"
	"property-marketplace/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planRepo := pg.NewPlanRepo(pool)
	planUC := usecase.NewPlanUseCase(planRepo)

	// If plans already exist, do nothing
	plans, err := planUC.List(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (days=%d, price=%d %s)\n", p.Name, p.DurationDays, p.Price, p.Currency)
		}
		return
	}

	// Seed a few sample premium plans for testing the upgrade flow
	seed := []struct {
		Name  string
		Days  int
		Price int64
	}{
		{"Weekly Boost", 7, 50_000},
		{"Monthly Premium", 30, 150_000},
		{"Quarterly Premium", 90, 360_000},
	}

	for _, s := range seed {
		p, err := planUC.Create(ctx, s.Name, s.Days, s.Price, "IDR")
		if err != nil {
			log.Fatalf("create plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, days=%d, price=%d %s)\n", p.Name, p.ID, p.DurationDays, p.Price, p.Currency)
	}

	fmt.Println("✅ Seeding complete.")
}
