package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/polish/internal/describe"
)

func describeCommand() *cli.Command {
	return &cli.Command{
		Name:      "describe",
		Usage:     "Describe a rule or a rule set",
		ArgsUsage: "NAME",
		Action: func(_ context.Context, cmd *cli.Command) error {
			stderr := errWriter(cmd)
			if cmd.Args().Len() != 1 {
				fmt.Fprintln(stderr, "Error: describe expects exactly one rule or set name")
				return cli.Exit("", ExitConfigError)
			}

			resolver, err := newResolver()
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return cli.Exit("", ExitException)
			}
			if err := describe.New(resolver).Describe(outWriter(cmd), cmd.Args().First()); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}
			return nil
		},
	}
}
