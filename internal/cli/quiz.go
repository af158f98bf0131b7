package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Show a quiz question",
		Run:   runQuizNext,
	}

	next := &cobra.Command{
		Use:   "next",
		Short: "Show a quiz question, preferring unanswered ones",
		Args:  cobra.NoArgs,
		Run:   runQuizNext,
	}

	answer := &cobra.Command{
		Use:   "answer <id> <option>",
		Short: "Answer a quiz question by option number (1-based)",
		Args:  cobra.ExactArgs(2),
		Run:   runQuizAnswer,
	}

	cmd.AddCommand(next, answer)
	RootCmd.AddCommand(cmd)
}

type questionOutput struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answered int      `json:"answered"`
}

func runQuizNext(cmd *cobra.Command, args []string) {
	s := mustOpenSession(cmd)
	defer s.Close()

	q := s.tr.NextQuestion()
	options := make([]string, len(q.Options))
	for i, o := range q.Options {
		options[i] = fmt.Sprintf("%d. %s", i+1, o)
	}
	printJSON(cmd, questionOutput{
		ID:       q.ID,
		Question: q.Question,
		Options:  options,
		Answered: len(s.tr.Snapshot().QuizAnswered),
	})
}

type answerOutput struct {
	ID      string   `json:"id"`
	Correct bool     `json:"correct"`
	Answer  string   `json:"answer"`
	Insight string   `json:"insight"`
	Events  []string `json:"events"`
}

func runQuizAnswer(cmd *cobra.Command, args []string) {
	option, err := strconv.Atoi(args[1])
	if err != nil {
		exitErr("parse option", err)
	}

	s := mustOpenSession(cmd)
	defer s.Close()

	res, err := s.tr.AnswerQuiz(cmd.Context(), args[0], option-1)
	if err != nil {
		exitErr("answer", err)
	}

	printJSON(cmd, answerOutput{
		ID:      res.ID,
		Correct: res.Correct,
		Answer:  res.AnswerText,
		Insight: res.Insight,
		Events:  s.events.Lines(),
	})
}
