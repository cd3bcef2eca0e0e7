package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/dalemusser/hostpro/internal/app/system/auth"
	"github.com/spf13/cobra"
)

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash HostPro stores for a password",
		Long: `Print the bcrypt hash HostPro stores for a password.

With no argument the password is read from the first line of stdin, which
keeps it out of shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: hashPassword,
	}
}

func hashPassword(cmd *cobra.Command, args []string) error {
	var pw string
	if len(args) == 1 {
		pw = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}
	if len(pw) < auth.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := auth.HashPassword(pw)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
