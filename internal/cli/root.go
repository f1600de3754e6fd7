// Package cli implements the learnos terminal client.
package cli

import (
	"time"

	"learnos/internal/client"

	"github.com/spf13/cobra"
)

// DefaultServer is the API address used when --server is not given.
const DefaultServer = "http://localhost:3000"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server  string
	Timeout time.Duration
}

func (o *RootOptions) client() *client.LessonClient {
	return client.New(o.Server, o.Timeout)
}

// NewRootCommand creates the root command for the learnos CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "learnos",
		Short: "Five-minute lessons on any topic",
		Long:  "learnos fetches beginner lessons from a LearnOS server and quizzes you on them in the terminal.",

		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", DefaultServer, "LearnOS server address")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 90*time.Second, "request timeout")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewQuizCommand(opts))
	cmd.AddCommand(NewLessonsCommand(opts))

	return cmd
}
