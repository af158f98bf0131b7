package content

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rcliao/jagarana/internal/model"
)

// ErrInvalidOption is returned when an answer does not index the question's
// options.
var ErrInvalidOption = errors.New("option out of range")

// AnswerResult is the outcome of answering a question.
type AnswerResult struct {
	ID         string `json:"id"`
	Selected   int    `json:"selected"`
	Correct    bool   `json:"correct"`
	Answer     int    `json:"answer"`
	AnswerText string `json:"answer_text"`
	Insight    string `json:"insight"`
}

// Quiz serves questions and records answers. Answering any question,
// right or wrong, satisfies the quiz requirement.
type Quiz struct {
	catalog *Catalog
	rec     *model.Progress
	saver   Saver
	sel     *Selector
}

func NewQuiz(c *Catalog, rec *model.Progress, saver Saver, rng *rand.Rand) *Quiz {
	return &Quiz{
		catalog: c,
		rec:     rec,
		saver:   saver,
		sel:     NewSelector(c.QuestionIDs(), &rec.QuizAnswered, rng),
	}
}

// Next picks a question, preferring unanswered ones. Nothing is recorded
// until the question is answered.
func (q *Quiz) Next() Question {
	qu, _ := q.catalog.Question(q.sel.Pick())
	return qu
}

// Answer grades selected against question id and records the attempt.
func (q *Quiz) Answer(ctx context.Context, id string, selected int) (AnswerResult, error) {
	qu, err := q.catalog.Question(id)
	if err != nil {
		return AnswerResult{}, err
	}
	if selected < 0 || selected >= len(qu.Options) {
		return AnswerResult{}, fmt.Errorf("%w: %d of %d", ErrInvalidOption, selected, len(qu.Options))
	}

	q.rec.QuizAttempted = true
	q.sel.Mark(id)
	q.saver.Save(ctx)

	return AnswerResult{
		ID:         id,
		Selected:   selected,
		Correct:    selected == qu.Correct,
		Answer:     qu.Correct,
		AnswerText: qu.Options[qu.Correct],
		Insight:    qu.Insight,
	}, nil
}

// Attempted reports whether any question has been answered.
func (q *Quiz) Attempted() bool { return q.rec.QuizAttempted }

// Answered returns how many distinct questions have been answered.
func (q *Quiz) Answered() int { return len(q.rec.QuizAnswered) }

// Total returns the catalog size.
func (q *Quiz) Total() int { return len(q.catalog.Questions) }
