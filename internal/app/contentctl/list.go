package contentctl

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newListCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Print one collection",
		Example: `  contentctl list posts
  contentctl list settings -f yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			stores, done, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			v, err := stores.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), format, v)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")
	return cmd
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
