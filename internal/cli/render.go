package cli

import (
	"fmt"
	"io"

	"learnos/internal/dto"
	"learnos/internal/quiz"
)

var optionLabels = []string{"A", "B", "C", "D"}

func label(i int) string {
	if i >= 0 && i < len(optionLabels) {
		return optionLabels[i]
	}
	return fmt.Sprint(i + 1)
}

func renderLesson(w io.Writer, lesson *dto.LessonResponse) {
	fmt.Fprintf(w, "# %s\n\n", lesson.Topic)

	fmt.Fprintln(w, "## Key concepts")
	for _, c := range lesson.KeyConcepts {
		fmt.Fprintf(w, "- %s: %s\n", c.Title, c.Explanation)
	}

	fmt.Fprintln(w, "\n## Analogies")
	for _, a := range lesson.Analogies {
		fmt.Fprintf(w, "- %s: %s\n", a.Concept, a.Analogy)
	}
	fmt.Fprintln(w)
}

func renderQuestion(w io.Writer, n int, st quiz.QuestionState) {
	fmt.Fprintf(w, "Q%d. %s\n", n+1, st.Question.Question)
	for i, opt := range st.Question.Options {
		marker := " "
		if st.Answered && i == st.Selected {
			marker = ">"
		}
		fmt.Fprintf(w, " %s %d) %s\n", marker, i+1, opt)
	}
}

func renderReveal(w io.Writer, st quiz.QuestionState) {
	if st.Correct {
		fmt.Fprintln(w, "Correct!")
		return
	}
	fmt.Fprintf(w, "Not quite. The answer is %d) %s\n",
		st.CorrectAnswer+1, st.Question.Options[st.CorrectAnswer])
}
