package entity

import "time"

// Question formats.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

// Difficulty tiers.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is one typed quiz item. Type decides which answer fields are
// set: multiple_choice carries exactly 4 options and a correct answer in
// {A,B,C,D}; true_false carries "true"/"false" (compared case-insensitively
// at evaluation time); short_answer carries a non-empty answer key.
type Question struct {
	Id            string   `json:"id"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	AnswerKey     string   `json:"answerKey,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Concept       string   `json:"concept,omitempty"`
}

// Quiz holds 1..questionCount questions generated from a note's concepts.
// A quiz with zero questions is never produced.
type Quiz struct {
	Id           string     `json:"id"`
	SourceNoteId string     `json:"sourceNoteId"`
	Title        string     `json:"title"`
	Questions    []Question `json:"questions"`
	Difficulty   string     `json:"difficulty"`
	CreatedAt    time.Time  `json:"createdAt"`
	IsLocal      bool       `json:"isLocal"`
}

// QuizProgress accumulates answer submissions for one quiz. Counters only
// ever grow.
type QuizProgress struct {
	QuizId            string    `json:"quizId"`
	TotalQuestions    int       `json:"totalQuestions"`
	CorrectAnswers    int       `json:"correctAnswers"`
	TotalTimeSpent    int64     `json:"totalTimeSpent"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	StartedAt         time.Time `json:"startedAt"`
}
