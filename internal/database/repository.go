package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// analyticsColumns whitelists the counters BumpAnalytics may touch. The
// metric name is spliced into SQL, so it must never come from user input.
var analyticsColumns = map[string]bool{
	"daily_users":         true,
	"daily_evaluations":   true,
	"daily_registrations": true,
}

// CreateUser inserts a new user row.
func (r *Repository) CreateUser(user *User) error {
	stmt, err := r.db.GetPreparedStatement("insert_user")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(user.ID, user.Email, user.PasswordHash, user.Name,
		user.SubscriptionType, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail returns the active user with the given email, or
// (nil, nil) when no such user exists.
func (r *Repository) GetUserByEmail(email string) (*User, error) {
	stmt, err := r.db.GetPreparedStatement("get_user_by_email")
	if err != nil {
		return nil, err
	}

	return scanUser(stmt.QueryRow(email))
}

// GetUserByID returns the active user with the given ID, or (nil, nil)
// when no such user exists.
func (r *Repository) GetUserByID(id string) (*User, error) {
	stmt, err := r.db.GetPreparedStatement("get_user_by_id")
	if err != nil {
		return nil, err
	}

	return scanUser(stmt.QueryRow(id))
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var lastLogin sql.NullTime

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.SubscriptionType, &user.IsActive, &lastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return &user, nil
}

// UpdateUserLastLogin stamps the login time for a user.
func (r *Repository) UpdateUserLastLogin(id string) error {
	_, err := r.db.Exec(`UPDATE users SET last_login = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// UpdateUserProfile updates name and/or email. Empty strings leave the
// field unchanged.
func (r *Repository) UpdateUserProfile(id, name, email string) error {
	query := `UPDATE users SET updated_at = ?`
	args := []interface{}{time.Now()}

	if name != "" {
		query += `, name = ?`
		args = append(args, name)
	}
	if email != "" {
		query += `, email = ?`
		args = append(args, email)
	}

	query += ` WHERE id = ?`
	args = append(args, id)

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdateUserPassword replaces a user's password hash.
func (r *Repository) UpdateUserPassword(id, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetSubscription changes a user's subscription tier.
func (r *Repository) SetSubscription(id, subscriptionType string) error {
	_, err := r.db.Exec(`UPDATE users SET subscription_type = ?, updated_at = ? WHERE id = ?`,
		subscriptionType, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

// GetAdminByEmail returns the active admin with the given email, or
// (nil, nil) when no such admin exists.
func (r *Repository) GetAdminByEmail(email string) (*AdminUser, error) {
	row := r.db.QueryRow(`
		SELECT id, email, password_hash, name, role, is_active, last_login, created_at
		FROM admin_users WHERE email = ? AND is_active = 1
	`, email)
	return scanAdmin(row)
}

// GetAdminByID returns the active admin with the given ID, or (nil, nil)
// when no such admin exists.
func (r *Repository) GetAdminByID(id string) (*AdminUser, error) {
	row := r.db.QueryRow(`
		SELECT id, email, password_hash, name, role, is_active, last_login, created_at
		FROM admin_users WHERE id = ? AND is_active = 1
	`, id)
	return scanAdmin(row)
}

func scanAdmin(row *sql.Row) (*AdminUser, error) {
	var admin AdminUser
	var lastLogin sql.NullTime

	err := row.Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Name,
		&admin.Role, &admin.IsActive, &lastLogin, &admin.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query admin: %w", err)
	}

	if lastLogin.Valid {
		admin.LastLogin = &lastLogin.Time
	}
	return &admin, nil
}

// UpdateAdminLastLogin stamps the login time for an admin.
func (r *Repository) UpdateAdminLastLogin(id string) error {
	_, err := r.db.Exec(`UPDATE admin_users SET last_login = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update admin last login: %w", err)
	}
	return nil
}

// CreateProject inserts a new project row.
func (r *Repository) CreateProject(project *Project) error {
	stmt, err := r.db.GetPreparedStatement("insert_project")
	if err != nil {
		return err
	}

	_, err = stmt.Exec(project.ID, project.UserID, project.Name, project.Description,
		project.Answers, project.EvaluationData, project.OverallScore,
		project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// ListProjectsByUser returns the summaries of a user's projects, newest
// first.
func (r *Repository) ListProjectsByUser(userID string) ([]ProjectSummary, error) {
	stmt, err := r.db.GetPreparedStatement("get_projects_by_user")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []ProjectSummary
	for rows.Next() {
		var p ProjectSummary
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.OverallScore, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Description = description.String
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// GetProject returns one project scoped to its owner, or (nil, nil) when
// no matching row exists.
func (r *Repository) GetProject(projectID, userID string) (*Project, error) {
	stmt, err := r.db.GetPreparedStatement("get_project")
	if err != nil {
		return nil, err
	}

	var p Project
	var description sql.NullString
	err = stmt.QueryRow(projectID, userID).Scan(&p.ID, &p.UserID, &p.Name, &description,
		&p.Answers, &p.EvaluationData, &p.OverallScore, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query project: %w", err)
	}

	p.Description = description.String
	return &p, nil
}

// DeleteProject removes one project scoped to its owner. Returns false
// when no matching row existed.
func (r *Repository) DeleteProject(projectID, userID string) (bool, error) {
	stmt, err := r.db.GetPreparedStatement("delete_project")
	if err != nil {
		return false, err
	}

	result, err := stmt.Exec(projectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}

	return affected > 0, nil
}

// CountUsers returns the number of active users.
func (r *Repository) CountUsers() (int64, error) {
	return r.countQuery(`SELECT COUNT(*) FROM users WHERE is_active = 1`)
}

// CountPremiumUsers returns the number of active premium users.
func (r *Repository) CountPremiumUsers() (int64, error) {
	return r.countQuery(`SELECT COUNT(*) FROM users WHERE subscription_type = 'premium' AND is_active = 1`)
}

// CountRecentUsers returns the active users created in the last 7 days.
func (r *Repository) CountRecentUsers() (int64, error) {
	return r.countQuery(`SELECT COUNT(*) FROM users WHERE created_at >= date('now', '-7 days') AND is_active = 1`)
}

// CountProjects returns the total number of projects.
func (r *Repository) CountProjects() (int64, error) {
	return r.countQuery(`SELECT COUNT(*) FROM projects`)
}

// CountRecentProjects returns the projects created in the last 7 days.
func (r *Repository) CountRecentProjects() (int64, error) {
	return r.countQuery(`SELECT COUNT(*) FROM projects WHERE created_at >= date('now', '-7 days')`)
}

func (r *Repository) countQuery(query string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

// ListUsers returns a page of users matching the search term (email or
// name substring) together with the total match count.
func (r *Repository) ListUsers(search string, limit, offset int) ([]User, int64, error) {
	condition := ""
	args := []interface{}{}
	if search != "" {
		condition = `WHERE (email LIKE ? OR name LIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users `+condition, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT id, email, name, subscription_type, is_active, last_login, created_at
		FROM users ` + condition + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var lastLogin sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.SubscriptionType, &u.IsActive, &lastLogin, &u.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		if lastLogin.Valid {
			u.LastLogin = &lastLogin.Time
		}
		users = append(users, u)
	}

	return users, total, rows.Err()
}

// BumpAnalytics increments one daily counter for today's row, creating
// the row if needed.
func (r *Repository) BumpAnalytics(metric string) error {
	if !analyticsColumns[metric] {
		return fmt.Errorf("unknown analytics metric: %s", metric)
	}

	today := time.Now().Format("2006-01-02")
	query := fmt.Sprintf(`
		INSERT INTO analytics (date, %s) VALUES (?, 1)
		ON CONFLICT(date) DO UPDATE SET %s = %s + 1
	`, metric, metric, metric)

	if _, err := r.db.Exec(query, today); err != nil {
		return fmt.Errorf("failed to update analytics: %w", err)
	}
	return nil
}

// GetTodayAnalytics returns today's counters. A missing row yields a
// zeroed row stamped with today's date.
func (r *Repository) GetTodayAnalytics() (*AnalyticsRow, error) {
	today := time.Now().Format("2006-01-02")

	var row AnalyticsRow
	err := r.db.QueryRow(`
		SELECT date, daily_users, daily_evaluations, daily_registrations
		FROM analytics WHERE date = ?
	`, today).Scan(&row.Date, &row.DailyUsers, &row.DailyEvaluations, &row.DailyRegistrations)
	if err == sql.ErrNoRows {
		return &AnalyticsRow{Date: today}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analytics: %w", err)
	}

	return &row, nil
}

// GetWeeklyAnalytics returns the last 7 days of counters, newest first.
func (r *Repository) GetWeeklyAnalytics() ([]AnalyticsRow, error) {
	rows, err := r.db.Query(`
		SELECT date, daily_users, daily_evaluations, daily_registrations
		FROM analytics WHERE date >= date('now', '-7 days')
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly analytics: %w", err)
	}
	defer rows.Close()

	var result []AnalyticsRow
	for rows.Next() {
		var row AnalyticsRow
		if err := rows.Scan(&row.Date, &row.DailyUsers, &row.DailyEvaluations, &row.DailyRegistrations); err != nil {
			return nil, fmt.Errorf("failed to scan analytics row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
