package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"learnos/internal/quiz"

	"github.com/spf13/cobra"
)

// NewQuizCommand creates the quiz command.
func NewQuizCommand(rootOpts *RootOptions) *cobra.Command {
	var revealDelay time.Duration

	cmd := &cobra.Command{
		Use:          "quiz <topic>",
		Short:        "Take the quiz for a topic",
		Long:         "Fetches the lesson for a topic and runs its quiz. Answer with 1-4, r resets, q quits.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lesson, err := rootOpts.client().Generate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderLesson(cmd.OutOrStdout(), lesson)

			revealed := make(chan quiz.Result, len(lesson.Quiz)+1)
			machine := quiz.New(lesson.Quiz,
				quiz.WithRevealDelay(revealDelay),
				quiz.WithOnReveal(func(r quiz.Result) { revealed <- r }),
			)
			return runQuiz(cmd.Context(), machine, revealed, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&revealDelay, "reveal-delay", quiz.DefaultRevealDelay, "pause before showing whether an answer is correct")
	return cmd
}

func runQuiz(ctx context.Context, m *quiz.StateMachine, revealed <-chan quiz.Result, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		current := nextUnanswered(m)
		if current < 0 {
			fmt.Fprintf(out, "\nScore: %d/%d. Press r to retry or q to quit.\n", m.Score(), m.Len())
		} else {
			st, _ := m.State(current)
			fmt.Fprintln(out)
			renderQuestion(out, current, st)
			fmt.Fprint(out, "Answer (1-4, r reset, q quit): ")
		}

		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch input {
		case "q":
			fmt.Fprintf(out, "Final score: %d/%d\n", m.Score(), m.Len())
			return nil
		case "r":
			m.Reset()
			fmt.Fprintln(out, "Quiz reset.")
			continue
		case "":
			continue
		}

		if current < 0 {
			continue
		}
		choice, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintf(out, "Unknown input %q\n", input)
			continue
		}
		if _, ok := m.Select(current, choice-1); !ok {
			fmt.Fprintf(out, "Pick an option between 1 and %d\n", len(optionLabels))
			continue
		}

		select {
		case r := <-revealed:
			st, _ := m.State(r.Question)
			renderReveal(out, st)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func nextUnanswered(m *quiz.StateMachine) int {
	for i, st := range m.Snapshot() {
		if !st.Answered {
			return i
		}
	}
	return -1
}
