package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmcdonald/dfircase/internal/adapters/osfs"
	"github.com/jmcdonald/dfircase/internal/adapters/s3mirror"
	"github.com/jmcdonald/dfircase/internal/adapters/sevenzip"
	"github.com/jmcdonald/dfircase/internal/adapters/ziparchiver"
	"github.com/jmcdonald/dfircase/internal/archival"
	"github.com/jmcdonald/dfircase/internal/backend"
	"github.com/jmcdonald/dfircase/internal/cases"
	"github.com/jmcdonald/dfircase/internal/config"
	"github.com/jmcdonald/dfircase/internal/logging"
	"github.com/jmcdonald/dfircase/internal/picker"
	"github.com/jmcdonald/dfircase/internal/shell"
)

// globalFlags are shared by every command.
type globalFlags struct {
	debug    bool
	workDir  string
	settings string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "dfircase",
		Short: "DFIR Case Manager - create and archive case folders",
		Long: `dfircase creates standard case folder trees in the working directory and
archives finished cases into (optionally AES-256 protected) ZIP files at
a backup location. Without a command it starts the interactive menu.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()
			return a.newShell(cmd).Run(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&flags.workDir, "workdir", "w", "", "directory holding the case folders (default: current directory)")
	rootCmd.PersistentFlags().StringVarP(&flags.settings, "config", "c", "", "settings file (default: ~/.dfircase/settings.yaml)")

	rootCmd.AddCommand(
		newCreateCmd(flags),
		newArchiveCmd(flags),
		newLocationCmd(flags),
		newInitCmd(flags),
		newVersionCmd(),
	)
	return rootCmd
}

// app holds the wired services for one command invocation.
type app struct {
	settings *config.Settings
	log      *zap.Logger
	workDir  string
	cases    *cases.Service
	store    *config.LocationStore
	workflow *archival.Workflow
}

func newApp(flags *globalFlags) (*app, error) {
	log, err := logging.New(flags.debug)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	settings, err := config.LoadSettings(flags.settings, backendStrategy)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	workDir := config.ExpandPath(flags.workDir)
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	if workDir, err = filepath.Abs(workDir); err != nil {
		return nil, err
	}

	fs := osfs.New()
	locator, err := backend.New(settings.Backend, fs, workDir, log)
	if err != nil {
		return nil, err
	}

	var sevenOpts []sevenzip.Option
	if flags.debug {
		sevenOpts = append(sevenOpts, sevenzip.WithOutput(os.Stderr))
	}

	wfOpts := []archival.Option{archival.WithLogger(log)}
	if settings.Offsite.Enabled {
		mirror, err := s3mirror.New(settings.Offsite)
		if err != nil {
			return nil, err
		}
		wfOpts = append(wfOpts, archival.WithMirror(mirror))
	}

	locationFile := config.ExpandPath(settings.LocationFile)
	if !filepath.IsAbs(locationFile) {
		locationFile = filepath.Join(workDir, locationFile)
	}

	log.Debug("settings loaded",
		zap.String("workdir", workDir),
		zap.String("backend", locator.Strategy()),
		zap.String("location_file", locationFile),
		zap.Bool("offsite", settings.Offsite.Enabled),
	)

	return &app{
		settings: settings,
		log:      log,
		workDir:  workDir,
		cases:    cases.NewService(fs, workDir),
		store:    config.NewLocationStore(fs, locationFile),
		workflow: archival.New(fs, workDir, locator, sevenzip.New(sevenOpts...), ziparchiver.New(), wfOpts...),
	}, nil
}

// newShell builds the interactive shell on the command's streams.
func (a *app) newShell(cmd *cobra.Command) *shell.Shell {
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	fp := picker.New(osfs.New(), picker.WithIO(in, out))
	s := shell.New(version, a.cases, a.store, fp, a.workflow)
	s.In, s.Out, s.Err = in, out, cmd.ErrOrStderr()
	s.Log = a.log
	s.ConfirmDowngrade = a.settings.ConfirmDowngrade
	if a.settings.OpenAfterCreate {
		s.Open = cases.OpenInFileManager
	}
	return s
}

func (a *app) close() {
	_ = a.log.Sync()
}
