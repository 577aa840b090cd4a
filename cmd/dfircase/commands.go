package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmcdonald/dfircase/internal/archival"
	"github.com/jmcdonald/dfircase/internal/config"
)

var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func newCreateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new case folder tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			path, err := a.cases.Create(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Case '%s' created at %s\n", green("*"), strings.TrimSpace(args[0]), path)
			return nil
		},
	}
}

func newArchiveCmd(flags *globalFlags) *cobra.Command {
	var (
		dest          string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "archive <folder>",
		Short: "Archive a case folder and remove it once the ZIP exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			req := archival.Request{Source: args[0], Destination: config.ExpandPath(dest)}
			if req.Destination == "" {
				req.Destination, _ = a.store.Read()
			}
			if passwordStdin {
				req.PasswordRequested = true
				if req.Password, err = readPassword(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
			}
			if a.settings.ConfirmDowngrade {
				// Nobody to ask; refuse rather than write an unprotected archive.
				req.ConfirmDowngrade = func(string) bool { return false }
			}

			out, err := a.workflow.Archive(cmd.Context(), req)
			for _, n := range out.Notices {
				fmt.Fprintln(cmd.ErrOrStderr(), yellow(n.Message))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Archived and deleted: %s -> %s (%s, %s)\n",
				green("*"), args[0], out.OutputPath, out.Method, out.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "destination directory (default: stored backup location)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the ZIP password from the first line of stdin")
	return cmd
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLocationCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "location [path]",
		Short: "Show or set the backup location",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			if len(args) == 1 {
				if err := a.store.Write(args[0]); err != nil {
					return err
				}
			}

			location, ok := a.store.Read()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not Set")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}
}

func newInitCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.settings
			if path == "" {
				path = config.SettingsPath()
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.DefaultSettings(backendStrategy).Save(path); err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created settings at %s\n", path)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dfircase %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  Backend strategy: %s\n", backendStrategy)
		},
	}
}
