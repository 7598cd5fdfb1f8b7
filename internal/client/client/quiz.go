package client

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionTrueFalse      = "true-false"
	QuestionOpenEnded      = "open-ended"

	QuizTypeAll = "all"
)

// QuizRequest is the body of /api/generate-quiz.
type QuizRequest struct {
	Text         string `json:"text"`
	QuizType     string `json:"quiz_type"`
	NumQuestions int    `json:"num_questions"`
	Source       string `json:"source"`
}

type Quiz struct {
	Questions []Question `json:"questions"`
}

// Question is one quiz item. Answer holds a string for multiple-choice and
// a bool for true-false questions; open-ended questions carry a
// SuggestedAnswer instead and are not graded.
type Question struct {
	Type            string          `json:"type"`
	Question        string          `json:"question"`
	Options         []string        `json:"options,omitempty"`
	Answer          json.RawMessage `json:"answer,omitempty"`
	Context         string          `json:"context,omitempty"`
	SuggestedAnswer string          `json:"suggested_answer,omitempty"`
	KeyPoints       []string        `json:"key_points,omitempty"`
}

// Graded reports whether Check can decide correctness.
func (q Question) Graded() bool {
	return q.Type == QuestionMultipleChoice || q.Type == QuestionTrueFalse
}

// CorrectAnswer renders the expected answer for display.
func (q Question) CorrectAnswer() string {
	switch q.Type {
	case QuestionMultipleChoice:
		var s string
		_ = json.Unmarshal(q.Answer, &s)
		return s
	case QuestionTrueFalse:
		var b bool
		if err := json.Unmarshal(q.Answer, &b); err != nil {
			return ""
		}
		if b {
			return "True"
		}
		return "False"
	default:
		return q.SuggestedAnswer
	}
}

// Check grades answer. For multiple-choice, answer is either the option text
// or its 1-based number; for true-false it is anything strconv.ParseBool
// accepts or yes/no. Ungraded questions always report false.
func (q Question) Check(answer string) bool {
	answer = strings.TrimSpace(answer)

	switch q.Type {
	case QuestionMultipleChoice:
		var want string
		if err := json.Unmarshal(q.Answer, &want); err != nil {
			return false
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
			answer = q.Options[n-1]
		}
		return answer == want
	case QuestionTrueFalse:
		var want bool
		if err := json.Unmarshal(q.Answer, &want); err != nil {
			return false
		}
		got, ok := parseBoolAnswer(answer)
		return ok && got == want
	default:
		return false
	}
}

func parseBoolAnswer(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	b, err := strconv.ParseBool(s)
	return b, err == nil
}

// Score grades answers against the questions in order. graded counts the
// questions that can be graded; missing answers count as wrong.
func (q *Quiz) Score(answers []string) (correct, graded int) {
	for i, question := range q.Questions {
		if !question.Graded() {
			continue
		}
		graded++
		if i < len(answers) && question.Check(answers[i]) {
			correct++
		}
	}
	return correct, graded
}
