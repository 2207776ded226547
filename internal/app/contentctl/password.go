package contentctl

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/wavesite/internal/app/system/authutil"
	"github.com/spf13/cobra"
)

// newHashPasswordCmd reads a password from stdin and prints its bcrypt hash
// for WAVESITE_ADMIN_PASSWORD_HASH. It never touches the content backend.
func newHashPasswordCmd() *cobra.Command {
	var allowWeak bool
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash an admin password read from stdin",
		Example: `  printf '%s' "$PASSWORD" | contentctl hash-password`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no password on stdin")
			}
			password := strings.TrimRight(line, "\r\n")
			if !allowWeak {
				if err := authutil.ValidatePassword(password); err != nil {
					return err
				}
			}
			hash, err := authutil.HashPassword(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	cmd.Flags().BoolVar(&allowWeak, "allow-weak", false, "skip the password policy (dev only)")
	return cmd
}
