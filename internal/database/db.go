package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// Default admin seeded on first start. The password must be rotated in
// any real deployment.
const (
	defaultAdminEmail    = "admin@startupeval.com"
	defaultAdminPassword = "admin123"
	defaultAdminName     = "System Admin"
	defaultAdminRole     = "super_admin"
)

// DB represents the database connection with pooling
type DB struct {
	*sql.DB
	pool     *ConnectionPool
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// ConnectionPool manages database connection pooling
type ConnectionPool struct {
	db           *sql.DB
	maxOpenConns int
	maxIdleConns int
	maxLifetime  time.Duration
}

// NewConnectionPool creates a new database connection pool
func NewConnectionPool(db *sql.DB, maxOpen, maxIdle int, maxLifetime time.Duration) *ConnectionPool {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return &ConnectionPool{
		db:           db,
		maxOpenConns: maxOpen,
		maxIdleConns: maxIdle,
		maxLifetime:  maxLifetime,
	}
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	stats := cp.db.Stats()

	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": cp.maxOpenConns,
		"max_idle_connections": cp.maxIdleConns,
		"max_lifetime_seconds": cp.maxLifetime.Seconds(),
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// NewDB creates a new database connection with pooling, runs migrations
// and seeds the default admin account.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "startup_evaluation.db")

	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool := NewConnectionPool(db, 25, 5, 5*time.Minute)

	database := &DB{
		DB:       db,
		pool:     pool,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.seedDefaultAdmin(); err != nil {
		return nil, fmt.Errorf("failed to seed default admin: %w", err)
	}

	if err := database.initPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Database initialized with connection pooling",
		"path", dbPath,
		"max_open_conns", pool.maxOpenConns,
		"max_idle_conns", pool.maxIdleConns)

	return database, nil
}

// migrate creates the necessary tables
func (db *DB) migrate() error {
	queries := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			subscription_type TEXT NOT NULL DEFAULT 'free',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		// Admin users table
		`CREATE TABLE IF NOT EXISTS admin_users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'admin',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login DATETIME,
			created_at DATETIME NOT NULL
		)`,

		// Saved evaluations
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			answers TEXT NOT NULL,
			evaluation_data TEXT NOT NULL,
			overall_score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,

		// Daily usage counters
		`CREATE TABLE IF NOT EXISTS analytics (
			date TEXT PRIMARY KEY,
			daily_users INTEGER NOT NULL DEFAULT 0,
			daily_evaluations INTEGER NOT NULL DEFAULT 0,
			daily_registrations INTEGER NOT NULL DEFAULT 0
		)`,

		// Indexes for performance
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// seedDefaultAdmin inserts the bootstrap admin account if none exists.
func (db *DB) seedDefaultAdmin() error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM admin_users WHERE email = ?`, defaultAdminEmail).Scan(&count); err != nil {
		return fmt.Errorf("failed to check for default admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), 10)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := NewAdminUser(defaultAdminEmail, string(hash), defaultAdminName, defaultAdminRole)
	_, err = db.Exec(`
		INSERT INTO admin_users (id, email, password_hash, name, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, admin.ID, admin.Email, admin.PasswordHash, admin.Name, admin.Role, admin.IsActive, admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert default admin: %w", err)
	}

	slog.Info("Default admin account created", "email", defaultAdminEmail)
	return nil
}

// initPreparedStatements initializes frequently used prepared statements
func (db *DB) initPreparedStatements() error {
	statements := map[string]string{
		"insert_user": `INSERT INTO users (id, email, password_hash, name, subscription_type, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,

		"get_user_by_email": `SELECT id, email, password_hash, name, subscription_type, is_active, last_login, created_at, updated_at
			FROM users WHERE email = ? AND is_active = 1`,

		"get_user_by_id": `SELECT id, email, password_hash, name, subscription_type, is_active, last_login, created_at, updated_at
			FROM users WHERE id = ? AND is_active = 1`,

		"insert_project": `INSERT INTO projects (id, user_id, name, description, answers, evaluation_data, overall_score, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"get_projects_by_user": `SELECT id, name, description, overall_score, created_at, updated_at
			FROM projects WHERE user_id = ? ORDER BY created_at DESC`,

		"get_project": `SELECT id, user_id, name, description, answers, evaluation_data, overall_score, created_at, updated_at
			FROM projects WHERE id = ? AND user_id = ?`,

		"delete_project": `DELETE FROM projects WHERE id = ? AND user_id = ?`,
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, query := range statements {
		stmt, err := db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		db.prepared[name] = stmt

		slog.Debug("Prepared statement initialized", "name", name)
	}

	return nil
}

// GetPreparedStatement retrieves a prepared statement
func (db *DB) GetPreparedStatement(name string) (*sql.Stmt, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	stmt, exists := db.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}

	return stmt, nil
}

// GetPoolStats returns database connection pool statistics
func (db *DB) GetPoolStats() map[string]interface{} {
	return db.pool.GetStats()
}

// Close closes the database connection and prepared statements
func (db *DB) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, stmt := range db.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}

	db.prepared = make(map[string]*sql.Stmt)

	return db.DB.Close()
}
