package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/studycompanion/internal/client/client"
)

const (
	defaultItems = 5
	minItems     = 3
	maxItems     = 20
)

var errNoSummary = errors.New("no summary to study")

// studyInput returns the text and source of the last summary.
func (a *App) studyInput() (string, string, error) {
	s := a.summary()
	if s == nil {
		fmt.Fprintln(a.out, "Process some material first (text, youtube, pdf or voice)")
		return "", "", errNoSummary
	}
	text := client.GenerationText(s)
	if text == "" {
		fmt.Fprintln(a.out, "The last summary has no text to study")
		return "", "", client.ErrNoText
	}
	src := s.Source
	if src == "" {
		src = client.SourceText
	}
	return text, src, nil
}

// askCount prompts for a number of items, clamped to [minItems, maxItems].
func (a *App) askCount(prompt string) (int, error) {
	ans, err := getSimpleText(a.reader, fmt.Sprintf("%s (%d-%d) [%d]", prompt, minItems, maxItems, defaultItems), a.out)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(ans)
	if err != nil {
		return defaultItems, nil
	}
	return max(minItems, min(maxItems, n)), nil
}

// Quiz generates a quiz from the last summary, asks every question and prints
// the score over the graded ones.
func (a *App) Quiz(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	text, src, err := a.studyInput()
	if err != nil {
		return err
	}
	n, err := a.askCount("How many questions")
	if err != nil {
		return err
	}

	quiz, err := a.api.GenerateQuiz(ctx, client.QuizRequest{
		Text:         text,
		QuizType:     client.QuizTypeAll,
		NumQuestions: n,
		Source:       src,
	})
	if err != nil {
		a.reportAPIError("Quiz generation", err)
		return err
	}
	if len(quiz.Questions) == 0 {
		fmt.Fprintln(a.out, "The backend returned no questions")
		return nil
	}

	answers := make([]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		fmt.Fprintf(a.out, "\nQuestion %d/%d: %s\n", i+1, len(quiz.Questions), q.Question)
		prompt := "Your answer"
		switch q.Type {
		case client.QuestionMultipleChoice:
			for j, opt := range q.Options {
				fmt.Fprintf(a.out, "  %d) %s\n", j+1, opt)
			}
			prompt = "Your answer (number or text)"
		case client.QuestionTrueFalse:
			prompt = "True or false?"
		}

		ans, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		answers[i] = ans

		switch {
		case !q.Graded():
			if q.SuggestedAnswer != "" {
				fmt.Fprintln(a.out, "Suggested answer:", q.SuggestedAnswer)
			}
		case q.Check(ans):
			fmt.Fprintln(a.out, "Correct!")
		default:
			fmt.Fprintln(a.out, "Wrong, the answer is:", q.CorrectAnswer())
		}
	}

	correct, graded := quiz.Score(answers)
	if graded > 0 {
		fmt.Fprintf(a.out, "\nScore: %d/%d\n", correct, graded)
	}
	return nil
}

// Flashcards generates a deck from the last summary and prints it.
func (a *App) Flashcards(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	text, src, err := a.studyInput()
	if err != nil {
		return err
	}
	n, err := a.askCount("How many flashcards")
	if err != nil {
		return err
	}

	deck, err := a.api.GenerateFlashcards(ctx, client.FlashcardsRequest{Text: text, NumCards: n, Source: src})
	if err != nil {
		a.reportAPIError("Flashcard generation", err)
		return err
	}

	for i, c := range deck.Flashcards {
		fmt.Fprintf(a.out, "\n[%d] %s\n    %s\n", i+1, c.Front, c.Back)
		if c.Example != "" {
			fmt.Fprintf(a.out, "    e.g. %s\n", c.Example)
		}
	}
	fmt.Fprintf(a.out, "\n%d flashcards\n", len(deck.Flashcards))
	return nil
}
