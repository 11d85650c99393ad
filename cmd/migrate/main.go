package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create_donors",
		sql: `
create table if not exists donors (
    id            uuid primary key default gen_random_uuid(),
    name          text not null,
    email         text not null unique,
    password_hash text not null,
    phone         text not null,
    address       text not null,
    role          text not null default 'individual',
    country       text not null default '',
    created_at    timestamptz not null default now(),
    updated_at    timestamptz not null default now()
);`,
	},
	{
		version: 2,
		name:    "create_ngos",
		sql: `
create table if not exists ngos (
    id                  uuid primary key default gen_random_uuid(),
    name                text not null,
    email               text not null unique,
    password_hash       text not null,
    phone               text not null,
    address             text not null,
    registration_number text not null default '',
    is_verified         boolean not null default false,
    country             text not null default '',
    created_at          timestamptz not null default now(),
    updated_at          timestamptz not null default now()
);`,
	},
	{
		version: 3,
		name:    "create_donations",
		sql: `
create table if not exists donations (
    id             uuid primary key default gen_random_uuid(),
    donor_id       uuid not null references donors(id),
    ngo_id         uuid references ngos(id),
    status         text not null default 'pending',
    food_type      text not null,
    quantity       text not null,
    description    text not null default '',
    pickup_address text not null,
    pickup_date    timestamptz not null,
    contact_phone  text not null,
    notes          text not null default '',
    claimed_at     timestamptz,
    collected_at   timestamptz,
    completed_at   timestamptz,
    created_at     timestamptz not null default now(),
    updated_at     timestamptz not null default now(),
    constraint donations_status_check check (
        status in ('pending', 'assigned', 'collected', 'delivered', 'cancelled')
    ),
    constraint donations_claim_check check (
        (ngo_id is null) = (status in ('pending', 'cancelled'))
    )
);`,
	},
	{
		version: 4,
		name:    "donation_indexes",
		sql: `
create index if not exists donations_donor_created_idx on donations (donor_id, created_at desc);
create index if not exists donations_ngo_status_idx on donations (ngo_id, status);
create index if not exists donations_status_pickup_idx on donations (status, pickup_date);`,
	},
}

func main() {
	var dryRun bool
	flag.BoolVar(&dryRun, "dry-run", false, "print pending migrations without applying them")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("open database: %w", err))
	}
	defer db.Close()
	db.SetConnMaxLifetime(time.Minute)

	if err := db.Ping(); err != nil {
		exitWithError(fmt.Errorf("connect database: %w", err))
	}

	if _, err := db.Exec(`
create table if not exists schema_migrations (
    version    int primary key,
    name       text not null,
    applied_at timestamptz not null default now()
);`); err != nil {
		exitWithError(fmt.Errorf("ensure schema_migrations: %w", err))
	}

	applied := map[int]bool{}
	rows, err := db.Query(`select version from schema_migrations`)
	if err != nil {
		exitWithError(fmt.Errorf("read schema_migrations: %w", err))
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			exitWithError(err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		exitWithError(err)
	}
	rows.Close()

	pending := 0
	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		pending++
		if dryRun {
			fmt.Printf("pending: %03d_%s\n", m.version, m.name)
			continue
		}
		if err := apply(db, m); err != nil {
			exitWithError(fmt.Errorf("apply %03d_%s: %w", m.version, m.name, err))
		}
		fmt.Printf("applied: %03d_%s\n", m.version, m.name)
	}
	if pending == 0 {
		fmt.Println("schema up to date")
	}
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(m.sql); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`insert into schema_migrations (version, name) values ($1, $2)`, m.version, m.name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
	os.Exit(1)
}
