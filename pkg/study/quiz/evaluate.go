package quiz

import (
	"strings"
	"time"

	"studybuddy-be/internal/entity"
)

// EvaluateAnswer grades one submitted answer. Multiple choice is an
// exact match against the correct letter, true/false compares
// case-insensitively, and short answers use a bag-of-words overlap:
// correct iff shared tokens >= min(2, int(0.3 * keyTokenCount)), with a
// floor of 1 for non-empty keys. Approximate grading, not semantic.
func EvaluateAnswer(question entity.Question, userAnswer string) bool {
	switch question.Type {
	case entity.QuestionTypeMultipleChoice:
		return userAnswer == question.CorrectAnswer
	case entity.QuestionTypeTrueFalse:
		return strings.EqualFold(strings.TrimSpace(userAnswer), question.CorrectAnswer)
	case entity.QuestionTypeShortAnswer:
		keyTokens := tokenize(question.AnswerKey)
		if len(keyTokens) == 0 {
			return false
		}
		answerTokens := tokenize(userAnswer)

		threshold := int(0.3 * float64(len(keyTokens)))
		if threshold > 2 {
			threshold = 2
		}
		if threshold < 1 {
			threshold = 1
		}

		overlap := 0
		for token := range keyTokens {
			if answerTokens[token] {
				overlap++
			}
		}
		return overlap >= threshold
	}
	return false
}

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		tokens[token] = true
	}
	return tokens
}

// ApplyProgress folds one answer submission into a quiz's progress
// record, creating it on first use. Counters only accumulate.
func ApplyProgress(progress *entity.QuizProgress, quiz *entity.Quiz, correct bool, timeSpentMs int64) *entity.QuizProgress {
	if progress == nil {
		progress = &entity.QuizProgress{
			QuizId:         quiz.Id,
			TotalQuestions: len(quiz.Questions),
			StartedAt:      time.Now(),
		}
	}
	progress.QuestionsAnswered++
	if correct {
		progress.CorrectAnswers++
	}
	if timeSpentMs > 0 {
		progress.TotalTimeSpent += timeSpentMs
	}
	return progress
}
