package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *Repository, email string) *User {
	t.Helper()
	user := NewUser(email, "hash", "Test User")
	require.NoError(t, repo.CreateUser(user))
	return user
}

func TestProjectLifecycle(t *testing.T) {
	_, repo := newTestDB(t)
	owner := seedUser(t, repo, "owner@example.com")

	project := NewProject(owner.ID, "Clinic no-shows", "Predict patient no-shows",
		`["answer one"]`, `{"overallScore":55}`, 55)
	require.NoError(t, repo.CreateProject(project))

	loaded, err := repo.GetProject(project.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Clinic no-shows", loaded.Name)
	assert.Equal(t, `["answer one"]`, loaded.Answers)
	assert.Equal(t, 55, loaded.OverallScore)

	summaries, err := repo.ListProjectsByUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, project.ID, summaries[0].ID)

	deleted, err := repo.DeleteProject(project.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := repo.GetProject(project.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestProjectOwnerScoping(t *testing.T) {
	_, repo := newTestDB(t)
	alice := seedUser(t, repo, "alice@example.com")
	mallory := seedUser(t, repo, "mallory@example.com")

	project := NewProject(alice.ID, "Secret idea", "", `[]`, `{}`, 40)
	require.NoError(t, repo.CreateProject(project))

	// Another user cannot read or delete someone else's project
	loaded, err := repo.GetProject(project.ID, mallory.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	deleted, err := repo.DeleteProject(project.ID, mallory.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	stillThere, err := repo.GetProject(project.ID, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, stillThere)
}

func TestListProjectsNewestFirst(t *testing.T) {
	_, repo := newTestDB(t)
	owner := seedUser(t, repo, "owner@example.com")

	first := NewProject(owner.ID, "First", "", `[]`, `{}`, 10)
	require.NoError(t, repo.CreateProject(first))
	time.Sleep(10 * time.Millisecond)
	second := NewProject(owner.ID, "Second", "", `[]`, `{}`, 20)
	require.NoError(t, repo.CreateProject(second))

	summaries, err := repo.ListProjectsByUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Second", summaries[0].Name)
	assert.Equal(t, "First", summaries[1].Name)
}

func TestBumpAnalytics(t *testing.T) {
	_, repo := newTestDB(t)

	require.NoError(t, repo.BumpAnalytics("daily_evaluations"))
	require.NoError(t, repo.BumpAnalytics("daily_evaluations"))
	require.NoError(t, repo.BumpAnalytics("daily_users"))

	today, err := repo.GetTodayAnalytics()
	require.NoError(t, err)
	assert.Equal(t, int64(2), today.DailyEvaluations)
	assert.Equal(t, int64(1), today.DailyUsers)
	assert.Equal(t, int64(0), today.DailyRegistrations)
}

func TestBumpAnalyticsRejectsUnknownMetric(t *testing.T) {
	_, repo := newTestDB(t)

	err := repo.BumpAnalytics("users; DROP TABLE users")
	assert.Error(t, err)
}

func TestGetTodayAnalyticsEmpty(t *testing.T) {
	_, repo := newTestDB(t)

	today, err := repo.GetTodayAnalytics()
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), today.Date)
	assert.Zero(t, today.DailyEvaluations)
}

func TestCounts(t *testing.T) {
	_, repo := newTestDB(t)
	user := seedUser(t, repo, "a@example.com")
	seedUser(t, repo, "b@example.com")

	require.NoError(t, repo.SetSubscription(user.ID, "premium"))
	require.NoError(t, repo.CreateProject(NewProject(user.ID, "P", "", `[]`, `{}`, 1)))

	users, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(2), users)

	premium, err := repo.CountPremiumUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), premium)

	projects, err := repo.CountProjects()
	require.NoError(t, err)
	assert.Equal(t, int64(1), projects)
}

func TestListUsersSearchAndPaging(t *testing.T) {
	_, repo := newTestDB(t)
	seedUser(t, repo, "anna@example.com")
	seedUser(t, repo, "annabel@example.com")
	seedUser(t, repo, "zoe@example.com")

	matched, total, err := repo.ListUsers("anna", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, matched, 2)

	paged, total, err := repo.ListUsers("", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, paged, 2)
}
