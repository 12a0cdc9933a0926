package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	intconfig "fleet-backend/internal/config"
)

func main() {
	env := intconfig.LoadEnv()

	path := os.Getenv("MIGRATIONS_PATH")
	if path == "" {
		path = "file://migrations"
	}

	m, err := migrate.New(path, "mysql://"+intconfig.ResolveDSN(env.DBDSN))
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate init gagal: %v\n", err)
		os.Exit(1)
	}
	defer func() { _, _ = m.Close() }()

	if len(os.Args) > 1 && os.Args[1] == "down" {
		if err := m.Steps(-1); err != nil {
			fmt.Fprintf(os.Stderr, "migrate down gagal: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("satu migrasi dibatalkan")
		return
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("tidak ada migrasi baru")
			return
		}
		fmt.Fprintf(os.Stderr, "migrate up gagal: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("migrasi selesai")
}
