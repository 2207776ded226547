package contentctl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExportCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every collection to <dir>/<collection>.<format>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			stores, done, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for _, name := range stores.Names() {
				v, err := stores.Export(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("export %s: %w", name, err)
				}
				var buf bytes.Buffer
				if err := encode(&buf, format, v); err != nil {
					return fmt.Errorf("encode %s: %w", name, err)
				}
				path := filepath.Join(dir, name+"."+format)
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "file format: json or yaml")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Replace collections with <dir>/<collection>.json, .yaml or .yml",
		Long: `Every collection with a file in <dir> is replaced; collections without
one are left alone. Records are validated before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, done, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			imported := 0
			for _, name := range stores.Names() {
				data, path, err := readCollection(args[0], name)
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				if err != nil {
					return err
				}
				if err := stores.Import(cmd.Context(), name, data); err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				imported++
				fmt.Fprintln(cmd.OutOrStdout(), "imported", path)
			}
			if imported == 0 {
				return fmt.Errorf("no collection files found in %s", args[0])
			}
			return nil
		},
	}
}

// readCollection returns the collection's file as JSON. YAML files are
// converted so the stores only ever decode JSON.
func readCollection(dir, name string) ([]byte, string, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, err
		}
		if ext == ".json" {
			return data, path, nil
		}
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, path, fmt.Errorf("parse %s: %w", path, err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, path, fmt.Errorf("convert %s: %w", path, err)
		}
		return out, path, nil
	}
	return nil, "", fs.ErrNotExist
}
