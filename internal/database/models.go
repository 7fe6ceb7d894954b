package database

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID               string     `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Name             string     `json:"name" db:"name"`
	SubscriptionType string     `json:"subscription_type" db:"subscription_type"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	LastLogin        *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// AdminUser represents a dashboard administrator
type AdminUser struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Name         string     `json:"name" db:"name"`
	Role         string     `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Project represents a saved idea evaluation. Answers and EvaluationData
// are stored as JSON text and handed back to the client verbatim.
type Project struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"-" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	Answers        string    `json:"-" db:"answers"`
	EvaluationData string    `json:"-" db:"evaluation_data"`
	OverallScore   int       `json:"overallScore" db:"overall_score"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// ProjectSummary is the list-view projection of a project (no payloads).
type ProjectSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	OverallScore int       `json:"overallScore"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AnalyticsRow holds one day of usage counters.
type AnalyticsRow struct {
	Date               string `json:"date"`
	DailyUsers         int64  `json:"daily_users"`
	DailyEvaluations   int64  `json:"daily_evaluations"`
	DailyRegistrations int64  `json:"daily_registrations"`
}

// NewUser creates a new user with generated ID
func NewUser(email, passwordHash, name string) *User {
	now := time.Now()
	return &User{
		ID:               uuid.New().String(),
		Email:            email,
		PasswordHash:     passwordHash,
		Name:             name,
		SubscriptionType: "free",
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewAdminUser creates a new admin with generated ID
func NewAdminUser(email, passwordHash, name, role string) *AdminUser {
	return &AdminUser{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
}

// NewProject creates a new project with generated ID
func NewProject(userID, name, description, answers, evaluationData string, overallScore int) *Project {
	now := time.Now()
	return &Project{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           name,
		Description:    description,
		Answers:        answers,
		EvaluationData: evaluationData,
		OverallScore:   overallScore,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
