package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/activos-cl/patrimonio-api/pkg/config"
	"github.com/activos-cl/patrimonio-api/pkg/logger"
)

// Clave del advisory lock que serializa la ejecución de migraciones
// cuando hay más de una réplica desplegándose a la vez.
const migrationLockKey = 8120471

func main() {
	dir := flag.String("dir", "migrations", "directorio con los archivos .sql")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear el pool de conexiones")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a la base de datos")
	}

	conn, err := acquireLock(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo tomar el lock de migraciones")
	}
	defer conn.Release()

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			filename   TEXT NOT NULL,
			checksum   TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear schema_migrations")
	}

	files, err := discover(*dir)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudieron listar las migraciones")
	}

	applied := 0
	for _, name := range files {
		ok, err := apply(ctx, pool, *dir, name)
		if err != nil {
			log.Fatal().Err(err).Str("migration", name).Msg("migración fallida")
		}
		if ok {
			log.Info().Str("migration", name).Msg("migración aplicada")
			applied++
		} else {
			log.Debug().Str("migration", name).Msg("migración ya aplicada")
		}
	}

	log.Info().Int("applied", applied).Int("total", len(files)).Msg("migraciones al día")
}

func acquireLock(ctx context.Context, pool *pgxpool.Pool) (*pgxpool.Conn, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", migrationLockKey).Scan(&locked); err != nil {
		conn.Release()
		return nil, err
	}
	if !locked {
		conn.Release()
		return nil, errors.New("otro proceso está migrando en este momento")
	}
	return conn, nil
}

// discover devuelve los archivos NNN_descripcion.sql ordenados por versión.
func discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, _, found := strings.Cut(e.Name(), "_")
		if !found {
			return nil, errors.New("nombre de migración inválido: " + e.Name())
		}
		if seen[version] {
			return nil, errors.New("versión de migración duplicada: " + version)
		}
		seen[version] = true
		names = append(names, e.Name())
	}

	sort.Strings(names)
	return names, nil
}

// apply ejecuta una migración dentro de una transacción y registra su checksum.
// Devuelve false cuando la versión ya estaba aplicada con el mismo contenido.
func apply(ctx context.Context, pool *pgxpool.Pool, dir, name string) (bool, error) {
	version, _, _ := strings.Cut(name, "_")

	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return false, err
	}
	sum := sha256.Sum256(raw)
	checksum := hex.EncodeToString(sum[:])

	var existing string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&existing)
	switch {
	case err == nil:
		if existing != checksum {
			return false, errors.New("el contenido de " + name + " cambió después de aplicarse")
		}
		return false, nil
	case errors.Is(err, pgx.ErrNoRows):
		// pendiente de aplicar
	default:
		return false, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(raw)); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)",
		version, name, checksum); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}
