package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "generate <topic>",
		Short:        "Print the lesson for a topic",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			lesson, err := rootOpts.client().Generate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderLesson(out, lesson)
			fmt.Fprintln(out, "## Quiz")
			for i, q := range lesson.Quiz {
				fmt.Fprintf(out, "Q%d. %s\n", i+1, q.Question)
				for j, opt := range q.Options {
					fmt.Fprintf(out, "   %s) %s\n", label(j), opt)
				}
			}
			return nil
		},
	}
}

// NewLessonsCommand creates the lessons command.
func NewLessonsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "lessons",
		Short:        "List stored lessons, newest first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := rootOpts.client().ListLessons(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No lessons yet.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOPIC\tCREATED")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\n", s.Topic, s.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}
