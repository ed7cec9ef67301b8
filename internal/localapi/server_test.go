package localapi_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quizdeck/quizdeck/internal/api"
	"github.com/quizdeck/quizdeck/internal/db"
	"github.com/quizdeck/quizdeck/internal/localapi"
)

type tokens struct{ access, refresh string }

func (c *tokens) AccessToken() string     { return c.access }
func (c *tokens) RefreshToken() string    { return c.refresh }
func (c *tokens) SetAccessToken(t string) { c.access = t }
func (c *tokens) Clear()                  { c.access, c.refresh = "", "" }

type fixture struct {
	store *localapi.SQLStore
	url   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	store := localapi.NewSQLStore(dbh)
	auth := localapi.NewAuthService("test-secret", 15*time.Minute, time.Hour)
	srv := httptest.NewServer(localapi.NewServer(store, auth, nil).Router(localapi.ServerConfig{}))
	t.Cleanup(srv.Close)

	return &fixture{store: store, url: srv.URL + "/api/v1"}
}

// client registers an account and returns an authenticated API client. Roles
// beyond the default are set directly in the store, then re-logged-in so the
// token carries them.
func (f *fixture) client(t *testing.T, email string, roles ...string) (*api.Client, api.User) {
	t.Helper()
	ctx := context.Background()

	creds := &tokens{}
	c := api.New(f.url, 5*time.Second, creds)

	resp, err := c.Register(ctx, api.RegisterRequest{
		Email:    email,
		Password: "hunter2hunter2",
		FullName: "Test Person",
	})
	require.NoError(t, err)

	if len(roles) > 0 {
		require.NoError(t, f.store.SetRoles(ctx, resp.User.ID, roles))
		resp, err = c.Login(ctx, api.LoginRequest{Email: email, Password: "hunter2hunter2"})
		require.NoError(t, err)
	}
	creds.access, creds.refresh = resp.AccessToken, resp.RefreshToken
	return c, resp.User
}

// seedQuiz creates a quiz with two questions through the admin API.
func seedQuiz(t *testing.T, admin *api.Client) api.Quiz {
	t.Helper()
	ctx := context.Background()

	quiz, err := admin.CreateQuiz(ctx, api.CreateQuizInput{
		Title:           "Capitals",
		Description:     "Geography basics",
		DurationMinutes: 10,
	})
	require.NoError(t, err)

	for _, in := range []api.CreateQuestionInput{
		{
			Content: "Capital of France?",
			Type:    "single_choice",
			Answers: []api.Answer{{Content: "Paris", IsCorrect: yes()}, {Content: "Lyon"}},
		},
		{
			Content: "Capital of Japan?",
			Type:    "single_choice",
			Answers: []api.Answer{{Content: "Tokyo", IsCorrect: yes()}, {Content: "Osaka"}},
		},
	} {
		q, err := admin.CreateQuestion(ctx, in)
		require.NoError(t, err)
		require.NoError(t, admin.AddQuestionToQuiz(ctx, quiz.ID, q.ID))
	}

	quiz, err = admin.GetQuiz(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 2)
	return quiz
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, u := f.client(t, "alice@example.com")
	require.Equal(t, []string{"user"}, u.Roles)

	page, err := c.ListQuizzes(ctx, api.ListOpts{Size: 20})
	require.NoError(t, err)
	require.Empty(t, page.Content)

	// Duplicate registration is rejected.
	_, err = c.Register(ctx, api.RegisterRequest{
		Email: "alice@example.com", Password: "hunter2hunter2", FullName: "Dup",
	})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 409, apiErr.Status)
}

func TestRegularUserCannotManageQuizzes(t *testing.T) {
	f := newFixture(t)
	c, _ := f.client(t, "bob@example.com")

	_, err := c.CreateQuiz(context.Background(), api.CreateQuizInput{Title: "x", DurationMinutes: 5})
	require.ErrorIs(t, err, api.ErrForbidden)
}

func TestAnswerKeysHiddenFromTakers(t *testing.T) {
	f := newFixture(t)
	admin, _ := f.client(t, "admin@example.com", "admin")
	quiz := seedQuiz(t, admin)

	// Admin sees the key.
	for _, q := range quiz.Questions {
		found := false
		for _, a := range q.Answers {
			if a.IsCorrect != nil {
				found = true
			}
		}
		require.True(t, found, "admin view should carry correctness flags")
	}

	taker, _ := f.client(t, "carol@example.com")
	got, err := taker.GetQuiz(context.Background(), quiz.ID)
	require.NoError(t, err)
	for _, q := range got.Questions {
		for _, a := range q.Answers {
			require.Nil(t, a.IsCorrect, "taker view must not leak the answer key")
		}
	}
}

func TestSubmitExamGradesAndStores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin, _ := f.client(t, "admin@example.com", "admin")
	quiz := seedQuiz(t, admin)

	taker, u := f.client(t, "dave@example.com")
	got, err := taker.GetQuiz(ctx, quiz.ID)
	require.NoError(t, err)

	// Answer the first question correctly (the key position is known from the
	// seed), leave the second unanswered.
	answers := []api.AnswerPair{{
		QuestionID:       got.Questions[0].ID,
		SelectedAnswerID: got.Questions[0].Answers[0].ID,
	}}
	res, err := taker.SubmitExam(ctx, api.ExamSubmission{
		UserID:    u.ID,
		QuizID:    quiz.ID,
		Answers:   answers,
		TimeSpent: 42,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalQuestions)
	require.Equal(t, 1, res.CorrectAnswers)
	require.Equal(t, 50.0, res.Score)
	require.Equal(t, "Capitals", res.QuizTitle)

	mine, err := taker.UserSubmissions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, res.ID, mine[0].ID)

	// Submitting on someone else's behalf is rejected.
	_, err = taker.SubmitExam(ctx, api.ExamSubmission{UserID: "someone-else", QuizID: quiz.ID})
	require.ErrorIs(t, err, api.ErrForbidden)
}

func TestRefreshFlowAgainstServer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	creds := &tokens{}
	c := api.New(f.url, 5*time.Second, creds)
	resp, err := c.Register(ctx, api.RegisterRequest{
		Email: "eve@example.com", Password: "hunter2hunter2", FullName: "Eve",
	})
	require.NoError(t, err)

	// A garbage access token with a valid refresh token: the client recovers
	// without the caller noticing.
	creds.access, creds.refresh = "garbage", resp.RefreshToken
	page, err := c.ListQuizzes(ctx, api.ListOpts{Size: 20})
	require.NoError(t, err)
	require.NotNil(t, page.Content)
	require.NotEqual(t, "garbage", creds.access)

	// Garbage refresh token: session is cleared and the error surfaces.
	creds.access, creds.refresh = "garbage", "also-garbage"
	_, err = c.ListQuizzes(ctx, api.ListOpts{Size: 20})
	require.Error(t, err)
	require.Empty(t, creds.access)
	require.Empty(t, creds.refresh)
}

func TestRoleManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin, _ := f.client(t, "admin@example.com", "admin")
	_, u := f.client(t, "frank@example.com")

	require.NoError(t, admin.AssignRole(ctx, u.ID, "admin"))

	users, err := admin.ListUsers(ctx, api.ListOpts{Size: 50})
	require.NoError(t, err)
	var frank api.User
	for _, cand := range users.Content {
		if cand.ID == u.ID {
			frank = cand
		}
	}
	require.ElementsMatch(t, []string{"user", "admin"}, frank.Roles)

	require.NoError(t, admin.RevokeRole(ctx, u.ID, "admin"))

	// The last role cannot be removed.
	err = admin.RevokeRole(ctx, u.ID, "user")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.Status)
}
