package cli

import (
	"github.com/spf13/cobra"
)

// runEvent opens a session, runs fn and closes the session.
func runEvent(opts *RootOptions, fn func(s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(opts, cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(s, args)
	}
}
