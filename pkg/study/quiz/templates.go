package quiz

import (
	"fmt"

	"studybuddy-be/internal/entity"
)

// localQuestion builds one question from the deterministic templates.
// Multiple choice always carries exactly 4 options with the correct
// content in slot A, and true/false statements are always framed as
// true. Both are known positional biases kept for compatibility with
// existing stored quizzes.
func localQuestion(concept string, insight entity.ConceptInsight, questionType, difficulty string) *entity.Question {
	tier, ok := localTemplates[difficulty]
	if !ok {
		tier = localTemplates[entity.DifficultyMedium]
	}

	explanation := fmt.Sprintf("Concept: %s (difficulty: %s)", concept, difficulty)
	keyFact := insight.KeyFact
	if keyFact == "" {
		keyFact = fmt.Sprintf("Understand the core idea behind %s.", concept)
	}

	switch questionType {
	case TypeMultipleChoice:
		return &entity.Question{
			Type:          entity.QuestionTypeMultipleChoice,
			Question:      fmt.Sprintf(tier.choiceQuestion, concept),
			Options:       buildChoiceOptions(tier, concept),
			CorrectAnswer: "A",
			Explanation:   explanation,
		}
	case TypeTrueFalse:
		return &entity.Question{
			Type:          entity.QuestionTypeTrueFalse,
			Question:      fmt.Sprintf(tier.trueFalseQuestion, concept, keyFact),
			CorrectAnswer: "true",
			Explanation:   explanation,
		}
	case TypeShortAnswer:
		return &entity.Question{
			Type:        entity.QuestionTypeShortAnswer,
			Question:    fmt.Sprintf(tier.shortAnswerQuestion, concept),
			AnswerKey:   keyFact,
			Explanation: explanation,
		}
	}
	return nil
}

type templateTier struct {
	choiceQuestion      string
	choiceOptions       [4]string
	trueFalseQuestion   string
	shortAnswerQuestion string
}

var localTemplates = map[string]templateTier{
	entity.DifficultyEasy: {
		choiceQuestion: "What is the basic definition of %s?",
		choiceOptions: [4]string{
			"A defining characteristic of %s",
			"A process related to %s",
			"An example of %s",
			"An application of %s",
		},
		trueFalseQuestion:   "True or false: regarding %s, %s",
		shortAnswerQuestion: "Briefly define: %s",
	},
	entity.DifficultyMedium: {
		choiceQuestion: "Which is the most relevant characteristic of %s?",
		choiceOptions: [4]string{
			"A fundamental aspect of %s",
			"A secondary process within %s",
			"A side benefit of %s",
			"A practical application of %s",
		},
		trueFalseQuestion:   "True or false: regarding %s, %s",
		shortAnswerQuestion: "Explain the importance of %s",
	},
	entity.DifficultyHard: {
		choiceQuestion: "What is the most complex aspect of %s?",
		choiceOptions: [4]string{
			"The internal mechanism of %s",
			"A surface-level description of %s",
			"An unrelated property of %s",
			"A simplified view of %s",
		},
		trueFalseQuestion:   "True or false: regarding %s, %s",
		shortAnswerQuestion: "Critically analyze: %s",
	},
}

func buildChoiceOptions(tier templateTier, concept string) []string {
	options := make([]string, 4)
	for i, template := range tier.choiceOptions {
		options[i] = fmt.Sprintf(template, concept)
	}
	return options
}
