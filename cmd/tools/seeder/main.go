// Command seeder loads demo data for local development: a handful of
// representatives, products and an admin user.
package main

import (
	"context"
	"log"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/nandoportifolio33/cotacao-api/internal/config"
	"github.com/nandoportifolio33/cotacao-api/internal/db"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	seedRepresentatives(ctx, pool)
	seedProducts(ctx, pool)
	seedAdminUser(ctx, pool)

	log.Println("seeding completed")
}

func seedRepresentatives(ctx context.Context, pool *pgxpool.Pool) {
	reps := []struct {
		nome, empresa, contato string
		categorias             []string
	}{
		{"Ana Distribuidora", "Distribuidora Nacional", "5511999990001", []string{"Medicamentos"}},
		{"Bruno Farma", "Farma Atacado", "5511999990002", []string{"Medicamentos", "Perfumaria"}},
		{"Carla Dermo", "Dermo Brasil", "5511999990003", []string{"Dermocosméticos", "Cosméticos"}},
	}
	for _, rep := range reps {
		_, err := pool.Exec(ctx, `
			INSERT INTO representantes (id, nome, empresa, contato, categorias, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT DO NOTHING`,
			uuid.New(), rep.nome, rep.empresa, rep.contato, rep.categorias)
		if err != nil {
			log.Fatalf("seed representative %s: %v", rep.nome, err)
		}
	}
	log.Printf("seeded %d representatives", len(reps))
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool) {
	products := []struct {
		codigo, nome, laboratorio, grupo, curva string
		estoque                                 int
		compra, custo, venda                    float64
	}{
		{"1001", "Dipirona 500mg 10cp", "Genérico SA", "Analgésicos", "A", 120, 3.20, 3.45, 6.90},
		{"1002", "Paracetamol 750mg 20cp", "Genérico SA", "Analgésicos", "A", 85, 4.10, 4.40, 8.50},
		{"1003", "Protetor Solar FPS 60", "Dermo Brasil", "Dermocosméticos", "B", 14, 32.00, 34.10, 62.90},
	}
	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO produtos (id, codigo, nome, laboratorio, grupo, curva_abc, estoque,
			                      preco_compra, preco_custo, preco_venda, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
			ON CONFLICT DO NOTHING`,
			uuid.New(), p.codigo, p.nome, p.laboratorio, p.grupo, p.curva, p.estoque, p.compra, p.custo, p.venda)
		if err != nil {
			log.Fatalf("seed product %s: %v", p.nome, err)
		}
	}
	log.Printf("seeded %d products", len(products))
}

func seedAdminUser(ctx context.Context, pool *pgxpool.Pool) {
	hash, err := argon2id.CreateHash("admin123", argon2id.DefaultParams)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO usuarios (id, nome, email, password_hash, ativo, created_at, updated_at)
		VALUES ($1, 'Administrador', 'admin@farmacia.local', $2, true, now(), now())
		ON CONFLICT DO NOTHING`,
		uuid.New(), hash)
	if err != nil {
		log.Fatalf("seed admin user: %v", err)
	}
	log.Println("seeded admin user admin@farmacia.local")
}
