package api

// Wire types for the quiz platform REST API.

type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FullName  string   `json:"fullName"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

type Answer struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	// IsCorrect is only populated on admin surfaces. Exam payloads served to
	// takers never carry it.
	IsCorrect *bool `json:"isCorrect,omitempty"`
}

type Question struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Type    string   `json:"type"` // single_choice | multiple_choice
	Order   int      `json:"order"`
	Answers []Answer `json:"answers"`
}

type Quiz struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"durationMinutes"`
	Questions       []Question `json:"questions,omitempty"`
	CreatedAt       string     `json:"createdAt,omitempty"`
	UpdatedAt       string     `json:"updatedAt,omitempty"`
}

// Page is the paginated list envelope used by the backend's list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

type AnswerPair struct {
	QuestionID       string `json:"questionId"`
	SelectedAnswerID string `json:"selectedAnswerId"`
}

type ExamSubmission struct {
	UserID    string       `json:"userId"`
	QuizID    string       `json:"quizId"`
	Answers   []AnswerPair `json:"answers"`
	TimeSpent int          `json:"timeSpent,omitempty"` // seconds
}

type ExamResult struct {
	ID               string  `json:"id"`
	Score            float64 `json:"score"` // 0-100
	TotalQuestions   int     `json:"totalQuestions"`
	CorrectAnswers   int     `json:"correctAnswers"`
	IncorrectAnswers int     `json:"incorrectAnswers"`
	SubmittedAt      string  `json:"submittedAt"`
	QuizTitle        string  `json:"quizTitle"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	User         User   `json:"user"`
}

type CreateQuestionInput struct {
	Content string   `json:"content"`
	Type    string   `json:"type"`
	Order   int      `json:"order,omitempty"`
	Answers []Answer `json:"answers,omitempty"`
}

type UpdateQuestionInput struct {
	Content string   `json:"content,omitempty"`
	Type    string   `json:"type,omitempty"`
	Order   *int     `json:"order,omitempty"`
	Answers []Answer `json:"answers,omitempty"`
}

type CreateQuizInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
}

type UpdateQuizInput struct {
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
