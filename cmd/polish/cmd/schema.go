package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/polish/internal/schemas"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the configuration file",
		Action: func(_ context.Context, cmd *cli.Command) error {
			resolver, err := newResolver()
			if err != nil {
				fmt.Fprintf(errWriter(cmd), "Error: %v\n", err)
				return cli.Exit("", ExitException)
			}
			data, err := schemas.Marshal(schemas.Config(resolver.Registry(), resolver.Catalog()))
			if err != nil {
				return err
			}
			_, err = outWriter(cmd).Write(data)
			return err
		},
	}
}
