package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/telhawk-relay/internal/transform/xslt"
)

func newTransformCmd(load configLoader) *cobra.Command {
	var stylesheet string

	cmd := &cobra.Command{
		Use:   "transform [file]",
		Short: "Apply a stylesheet to a document once",
		Long: `transform reads an XML document from file, or stdin when no file is
given, applies the stylesheet and writes the result to stdout.

Stylesheets are resolved like route endpoints: configured resource
directories first, then the embedded resources.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			var input []byte
			if len(args) == 1 {
				input, err = os.ReadFile(args[0])
			} else {
				input, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			t := xslt.New(stylesheet, newResolver(cfg), nil)
			defer t.Close()

			out, err := t.Transform(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&stylesheet, "stylesheet", "s", "xslt/cheese.xsl", "stylesheet resource name")
	return cmd
}
