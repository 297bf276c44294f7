package repository

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// NewPostgresDB creates and initializes a PostgreSQL database connection
func NewPostgresDB(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables
	if err := createPostgresTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createPostgresTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT 'es',
		newsletter BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS web_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMP NOT NULL,
		last_activity_at TIMESTAMP NOT NULL DEFAULT NOW(),
		ip_address TEXT,
		user_agent TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_web_sessions_user_id ON web_sessions(user_id);

	CREATE TABLE IF NOT EXISTS lists (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		list_type TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(user_id, list_type)
	);

	CREATE INDEX IF NOT EXISTS idx_lists_user_id ON lists(user_id);

	CREATE TABLE IF NOT EXISTS list_cards (
		list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		set_code TEXT NOT NULL,
		card_id BIGINT NOT NULL,
		card_name TEXT NOT NULL,
		card_image TEXT NOT NULL,
		local_image_path TEXT,
		set_name TEXT NOT NULL,
		set_rarity TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		price DOUBLE PRECISION,
		notes TEXT,
		is_for_sale BOOLEAN NOT NULL DEFAULT FALSE,
		added_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (list_id, set_code)
	);

	CREATE INDEX IF NOT EXISTS idx_list_cards_list_id ON list_cards(list_id);

	CREATE TABLE IF NOT EXISTS decks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		cover_image TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_decks_user_id ON decks(user_id);

	CREATE TABLE IF NOT EXISTS deck_cards (
		deck_id TEXT NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
		card_id BIGINT NOT NULL,
		zone TEXT NOT NULL,
		card_name TEXT NOT NULL,
		card_image TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (deck_id, card_id, zone)
	);

	CREATE INDEX IF NOT EXISTS idx_deck_cards_deck_id ON deck_cards(deck_id);

	CREATE TABLE IF NOT EXISTS shared_links (
		token TEXT PRIMARY KEY,
		list_type TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shared_links_expires_at ON shared_links(expires_at);
	CREATE INDEX IF NOT EXISTS idx_shared_links_user_id ON shared_links(user_id);
	`

	_, err := db.Exec(schema)
	return err
}
