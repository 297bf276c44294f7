package repository

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB creates and initializes a SQLite database
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
	-- Users table
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT 'es',
		newsletter INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		is_active INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	-- Web sessions
	CREATE TABLE IF NOT EXISTS web_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL,
		last_activity_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		ip_address TEXT,
		user_agent TEXT,
		is_active INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_web_sessions_user_id ON web_sessions(user_id);

	-- Card lists (one row per user per list type, created lazily)
	CREATE TABLE IF NOT EXISTS lists (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		list_type TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, list_type)
	);

	CREATE INDEX IF NOT EXISTS idx_lists_user_id ON lists(user_id);

	-- Card entries; set_code is the natural key within a list
	CREATE TABLE IF NOT EXISTS list_cards (
		list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		set_code TEXT NOT NULL,
		card_id INTEGER NOT NULL,
		card_name TEXT NOT NULL,
		card_image TEXT NOT NULL,
		local_image_path TEXT,
		set_name TEXT NOT NULL,
		set_rarity TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		price REAL,
		notes TEXT,
		is_for_sale INTEGER NOT NULL DEFAULT 0,
		added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (list_id, set_code)
	);

	CREATE INDEX IF NOT EXISTS idx_list_cards_list_id ON list_cards(list_id);

	-- Decks
	CREATE TABLE IF NOT EXISTS decks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		cover_image TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_decks_user_id ON decks(user_id);

	-- Deck cards; a card may hold one entry per zone
	CREATE TABLE IF NOT EXISTS deck_cards (
		deck_id TEXT NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
		card_id INTEGER NOT NULL,
		zone TEXT NOT NULL,
		card_name TEXT NOT NULL,
		card_image TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (deck_id, card_id, zone)
	);

	CREATE INDEX IF NOT EXISTS idx_deck_cards_deck_id ON deck_cards(deck_id);

	-- Shared links (time-bounded read tokens)
	CREATE TABLE IF NOT EXISTS shared_links (
		token TEXT PRIMARY KEY,
		list_type TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shared_links_expires_at ON shared_links(expires_at);
	CREATE INDEX IF NOT EXISTS idx_shared_links_user_id ON shared_links(user_id);
	`

	_, err := db.Exec(schema)
	return err
}
