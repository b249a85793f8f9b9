package dto

import "studybuddy-be/internal/entity"

type GenerateQuizRequest struct {
	NoteId        string   `json:"noteId" validate:"required"`
	QuestionCount int      `json:"questionCount" validate:"omitempty,min=1,max=20"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	QuestionTypes []string `json:"questionTypes" validate:"omitempty,dive,oneof=multipleChoice trueFalse shortAnswer"`
}

type QuizResponse struct {
	Quiz *entity.Quiz `json:"quiz"`
}

type QuizListResponse struct {
	Quizzes []*entity.Quiz `json:"quizzes"`
	Total   int            `json:"total"`
}

type SubmitAnswerRequest struct {
	QuizId      string `json:"-"`
	QuestionId  string `json:"questionId" validate:"required"`
	Answer      string `json:"answer" validate:"required"`
	TimeSpentMs int64  `json:"timeSpentMs" validate:"omitempty,min=0"`
}

type SubmitAnswerResponse struct {
	Correct       bool                 `json:"correct"`
	CorrectAnswer string               `json:"correctAnswer,omitempty"`
	Explanation   string               `json:"explanation,omitempty"`
	Progress      *entity.QuizProgress `json:"progress"`
}
