package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes/adapters/notefile"
	"notekeeper/internal/notes/domain/entities"
)

func newValidateCmd() *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a note file",
		Long: `Validate a JSON or YAML note file as a note input, or as a stored
record with --record. Prints the validated note as JSON, or one line per
offending field and exits with status 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := notefile.ValidateFile(args[0], record)
			if err != nil {
				var vErr *entities.ValidationError
				if errors.As(err, &vErr) {
					for _, f := range vErr.Fields {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s (%s)\n", f.Field, f.Message, f.Reason)
					}
					return errSilent
				}
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "require an integer id")

	return cmd
}
