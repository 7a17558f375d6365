// cmd/seed - loads product, stock and consumption fixtures into the
// purchasing database for local development.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type dbKeyType struct{}

var dbKey dbKeyType

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.TrimSpace(s), Valid: true}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the purchasing database with fixture data",
		Commands: []*cli.Command{
			{
				Name:  "produtos",
				Usage: "Seed products from a CSV export",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with product rows",
						Value:   "./data/seeds/produtos.csv",
						EnvVars: []string{"SEED_PRODUTOS_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedProdutos,
			},
			{
				Name:  "estoque",
				Usage: "Seed stock balances from a CSV export",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with stock rows",
						Value:   "./data/seeds/estoque.csv",
						EnvVars: []string{"SEED_ESTOQUE_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedEstoque,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// seedProdutos expects columns:
// id_produto_tiny,codigo,nome,gtin,fornecedor_codigo,fornecedor_nome,embalagem_qtd,preco_custo
func seedProdutos(c *cli.Context) error {
	db := c.Context.Value(dbKey).(*sql.DB)

	file, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open products file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil { // header
		return fmt.Errorf("failed to read products header: %w", err)
	}

	const query = `
		INSERT INTO produtos
			(id_produto_tiny, codigo, nome, gtin, fornecedor_codigo, fornecedor_nome,
			 embalagem_qtd, preco_custo, rastrear_compras)
		VALUES ($1, $2, $3, $4, $5, $6, GREATEST($7, 1), $8, TRUE)
		ON CONFLICT (id_produto_tiny) DO UPDATE SET
			codigo = EXCLUDED.codigo,
			nome = EXCLUDED.nome,
			gtin = EXCLUDED.gtin,
			fornecedor_codigo = EXCLUDED.fornecedor_codigo,
			fornecedor_nome = EXCLUDED.fornecedor_nome,
			embalagem_qtd = EXCLUDED.embalagem_qtd,
			preco_custo = EXCLUDED.preco_custo
	`

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read product row: %w", err)
		}
		if len(record) < 8 {
			log.Printf("skipping short row: %v", record)
			continue
		}

		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			log.Printf("skipping row with bad id %q: %v", record[0], err)
			continue
		}
		embalagem, _ := strconv.ParseFloat(record[6], 64)
		custo, _ := strconv.ParseFloat(record[7], 64)

		if _, err := db.ExecContext(c.Context, query,
			id, record[1], record[2], nullIfEmpty(record[3]),
			nullIfEmpty(record[4]), nullIfEmpty(record[5]),
			embalagem, custo,
		); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", id, err)
		}
		count++
	}

	log.Printf("seeded %d products", count)
	return nil
}

// seedEstoque expects columns: id_produto_tiny,saldo,reservado
func seedEstoque(c *cli.Context) error {
	db := c.Context.Value(dbKey).(*sql.DB)

	file, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open stock file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil { // header
		return fmt.Errorf("failed to read stock header: %w", err)
	}

	const query = `
		INSERT INTO estoque (id_produto_tiny, saldo, reservado, atualizado_em)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id_produto_tiny) DO UPDATE SET
			saldo = EXCLUDED.saldo,
			reservado = EXCLUDED.reservado,
			atualizado_em = NOW()
	`

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read stock row: %w", err)
		}
		if len(record) < 3 {
			log.Printf("skipping short row: %v", record)
			continue
		}

		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			log.Printf("skipping row with bad id %q: %v", record[0], err)
			continue
		}
		saldo, _ := strconv.ParseFloat(record[1], 64)
		reservado, _ := strconv.ParseFloat(record[2], 64)

		if _, err := db.ExecContext(c.Context, query, id, saldo, reservado); err != nil {
			return fmt.Errorf("failed to insert stock for product %d: %w", id, err)
		}
		count++
	}

	log.Printf("seeded %d stock rows", count)
	return nil
}
