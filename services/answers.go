package services

import "strings"

// AnswerVerdict classifies one answer-check attempt.
type AnswerVerdict string

const (
	// VerdictEmpty means the user submitted nothing; the UI asks for an
	// answer instead of marking the attempt wrong.
	VerdictEmpty     AnswerVerdict = "empty"
	VerdictCorrect   AnswerVerdict = "correct"
	VerdictIncorrect AnswerVerdict = "incorrect"
)

// AnswerCheck is the outcome of checking a free-text quiz or practice answer.
// Expected is populated only for incorrect attempts, where the UI reveals the
// stored answer.
type AnswerCheck struct {
	Verdict  AnswerVerdict `json:"verdict"`
	Message  string        `json:"message"`
	Expected string        `json:"expected,omitempty"`
}

// CheckTextAnswer compares a user's free-text answer against the stored one.
// Matching is exact after trimming and case-folding; there is no partial
// credit and no further normalization.
func CheckTextAnswer(input, expected string) AnswerCheck {
	input = strings.TrimSpace(input)
	expected = strings.TrimSpace(expected)

	if input == "" {
		return AnswerCheck{Verdict: VerdictEmpty, Message: "Type an answer before checking."}
	}
	if strings.EqualFold(input, expected) {
		return AnswerCheck{Verdict: VerdictCorrect, Message: "Correct!"}
	}
	return AnswerCheck{
		Verdict:  VerdictIncorrect,
		Message:  "Incorrect. The correct answer is: " + expected,
		Expected: expected,
	}
}

// ChoiceCheck is the outcome of answering a multiple-choice question. A choice
// answer is terminal: every option is disabled and the correct one revealed no
// matter which option was picked.
type ChoiceCheck struct {
	Correct       bool   `json:"correct"`
	Message       string `json:"message"`
	DisableAll    bool   `json:"disableAll"`
	RevealCorrect bool   `json:"revealCorrect"`
}

// CheckChoice evaluates a clicked option by its own correctness flag, exactly
// as the rendered markup discloses it.
func CheckChoice(isCorrect bool) ChoiceCheck {
	c := ChoiceCheck{Correct: isCorrect, DisableAll: true, RevealCorrect: true}
	if isCorrect {
		c.Message = "Correct! That is the right answer."
	} else {
		c.Message = "Wrong answer!"
	}
	return c
}
