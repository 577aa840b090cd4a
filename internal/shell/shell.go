// Package shell provides the interactive case-management menu with
// injectable input and output for testing.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/jmcdonald/dfircase/internal/archival"
	"github.com/jmcdonald/dfircase/internal/cases"
	"github.com/jmcdonald/dfircase/internal/ports"
)

// CaseService lists and scaffolds case folders.
type CaseService interface {
	List() ([]string, error)
	Create(name string) (string, error)
}

// LocationStore persists the backup location.
type LocationStore interface {
	Read() (string, bool)
	Write(location string) error
}

// ArchiveService archives a case folder.
type ArchiveService interface {
	Archive(ctx context.Context, req archival.Request) (*archival.Outcome, error)
}

const (
	locationTitle    = "Select Case Backup Location"
	destinationTitle = "Select backup location for the ZIP"
	rule             = "========================================"
)

// Shell is the numbered menu loop.
type Shell struct {
	In      io.Reader // Standard input
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version

	Cases    CaseService
	Location LocationStore
	Picker   ports.FolderPicker
	Archiver ArchiveService

	// Open shows a freshly created case. Nil disables it.
	Open cases.Opener
	// ConfirmDowngrade asks before a protected archive falls back to a
	// standard one.
	ConfirmDowngrade bool

	Log *zap.Logger

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	red    func(a ...interface{}) string

	reader   *bufio.Reader
	location string
}

// New creates a Shell on the process's standard streams.
func New(version string, cs CaseService, store LocationStore, picker ports.FolderPicker, archiver ArchiveService) *Shell {
	return &Shell{
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Version:  version,
		Cases:    cs,
		Location: store,
		Picker:   picker,
		Archiver: archiver,
		Log:      zap.NewNop(),
		green:    color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:   color.New(color.FgYellow).SprintFunc(),
		cyan:     color.New(color.FgCyan).SprintFunc(),
		red:      color.New(color.FgRed).SprintFunc(),
	}
}

// NewForTesting creates a Shell with scripted input, captured output and no colors.
func NewForTesting(in io.Reader, out io.Writer, cs CaseService, store LocationStore, picker ports.FolderPicker, archiver ArchiveService) *Shell {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &Shell{
		In:       in,
		Out:      out,
		Err:      out,
		Version:  "test",
		Cases:    cs,
		Location: store,
		Picker:   picker,
		Archiver: archiver,
		Log:      zap.NewNop(),
		green:    noColor,
		yellow:   noColor,
		cyan:     noColor,
		red:      noColor,
	}
}

// Run shows the menu until the user exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	s.reader = bufio.NewReader(s.In)

	fmt.Fprintf(s.Out, "\n%s v%s\n", s.cyan("DFIR Case Manager"), s.Version)
	s.ensureLocation()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printMenu()
		choice, ok := s.prompt("Enter your choice: ")
		if !ok {
			fmt.Fprintln(s.Out)
			return nil
		}

		switch choice {
		case "1":
			s.CreateCase()
		case "2":
			if s.location == "" {
				fmt.Fprintln(s.Out, "Backup location not configured.")
				if s.location = s.selectLocation(); s.location == "" {
					continue
				}
			}
			s.ArchiveCase(ctx)
		case "3":
			s.ChangeLocation()
		case "0":
			return nil
		default:
			fmt.Fprintln(s.Out, "Invalid choice. Try again.")
		}
	}
}

func (s *Shell) ensureLocation() {
	if location, ok := s.Location.Read(); ok {
		s.location = location
		return
	}
	fmt.Fprintln(s.Out, "No valid backup location configured.")
	s.location = s.selectLocation()
	if s.location == "" {
		fmt.Fprintln(s.Out, s.yellow("No backup location selected. Some features will not work."))
	}
}

func (s *Shell) printMenu() {
	location := s.location
	if location == "" {
		location = "Not Set"
	}
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, rule)
	fmt.Fprintln(s.Out, "         CASE MANAGEMENT MENU")
	fmt.Fprintln(s.Out, rule)
	fmt.Fprintln(s.Out, "[1] Create a new case")
	fmt.Fprintln(s.Out, "[2] Archive an existing case")
	fmt.Fprintln(s.Out, "[3] Change backup location")
	fmt.Fprintln(s.Out, "[0] Exit")
	fmt.Fprintln(s.Out, rule)
	fmt.Fprintf(s.Out, "Current backup location: %s\n", s.cyan(location))
	fmt.Fprintln(s.Out, rule)
}

// prompt prints label and reads one trimmed line. It reports false once
// input is exhausted.
func (s *Shell) prompt(label string) (string, bool) {
	if s.reader == nil {
		s.reader = bufio.NewReader(s.In)
	}
	fmt.Fprint(s.Out, label)
	line, err := s.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (s *Shell) confirm(label string) bool {
	answer, ok := s.prompt(label)
	return ok && strings.HasPrefix(strings.ToLower(answer), "y")
}

// selectLocation asks the picker for a backup location and stores it.
func (s *Shell) selectLocation() string {
	dir, err := s.Picker.PickDirectory(locationTitle, "")
	if err != nil {
		fmt.Fprintf(s.Err, "Error: %v\n", err)
		return ""
	}
	if dir == "" {
		return ""
	}
	if err := s.Location.Write(dir); err != nil {
		fmt.Fprintf(s.Err, "Error saving backup location: %v\n", err)
		return ""
	}
	location, ok := s.Location.Read()
	if !ok {
		return ""
	}
	return location
}

// CreateCase prompts for a name and scaffolds the case.
func (s *Shell) CreateCase() {
	name, _ := s.prompt("Enter the case name: ")
	path, err := s.Cases.Create(name)
	if errors.Is(err, cases.ErrInvalidCaseName) {
		fmt.Fprintln(s.Out, "Invalid case name.")
		return
	}
	if err != nil {
		fmt.Fprintf(s.Err, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.Out, "%s Case '%s' created successfully.\n", s.green("*"), strings.TrimSpace(name))

	if s.Open != nil {
		if err := s.Open(path); err != nil {
			s.Log.Warn("opening case folder", zap.String("path", path), zap.Error(err))
			fmt.Fprintf(s.Out, "%s Could not open %s: %v\n", s.yellow("!"), path, err)
		}
	}
}

// ArchiveCase walks the user through archiving one case folder.
func (s *Shell) ArchiveCase(ctx context.Context) {
	folders, err := s.Cases.List()
	if err != nil {
		fmt.Fprintf(s.Err, "Error: %v\n", err)
		return
	}
	if len(folders) == 0 {
		fmt.Fprintln(s.Out, "No folders found.")
		return
	}

	for i, folder := range folders {
		fmt.Fprintf(s.Out, "[%d] %s\n", i+1, folder)
	}
	choice, _ := s.prompt("Enter the number of the folder to archive: ")
	target, err := archival.Select(folders, choice)
	if err != nil {
		fmt.Fprintln(s.Out, "Invalid selection.")
		return
	}

	req := archival.Request{Source: target}
	req.PasswordRequested = s.confirm("Do you want to password protect the ZIP file? (y/n): ")
	if req.PasswordRequested {
		req.Password, _ = s.prompt("Enter password for ZIP file: ")
		if req.Password == "" {
			fmt.Fprintln(s.Out, s.yellow("No password entered, creating unprotected ZIP."))
		}
	}

	dest, err := s.Picker.PickDirectory(destinationTitle, s.location)
	if err != nil {
		fmt.Fprintf(s.Err, "Error: %v\n", err)
		return
	}
	if dest == "" {
		fmt.Fprintln(s.Out, "No location selected.")
		return
	}
	req.Destination = dest

	if s.ConfirmDowngrade {
		req.ConfirmDowngrade = func(reason string) bool {
			fmt.Fprintf(s.Out, "%s Password protection is unavailable: %s\n", s.yellow("!"), reason)
			return s.confirm("Create an unprotected ZIP instead? (y/n): ")
		}
	}

	out, err := s.Archiver.Archive(ctx, req)
	s.printNotices(out)
	s.report(target, out, err)
}

func (s *Shell) printNotices(out *archival.Outcome) {
	if out == nil {
		return
	}
	for _, n := range out.Notices {
		switch n.Kind {
		case archival.NoticePasswordDowngrade:
			// Already shown when the password was entered.
		case archival.NoticeOffsiteCopied:
			fmt.Fprintln(s.Out, n.Message)
		default:
			fmt.Fprintln(s.Out, s.yellow(n.Message))
		}
	}
}

func (s *Shell) report(target string, out *archival.Outcome, err error) {
	switch {
	case err == nil:
		fmt.Fprintf(s.Out, "%s Archived and deleted: %s %s\n", s.green("*"), target, s.yellow(out.Summary()))
	case errors.Is(err, archival.ErrArchiveNotCreated):
		s.Log.Debug("archive not created", zap.Error(err))
		fmt.Fprintln(s.Out, s.red("Failed to create archive."))
	case errors.Is(err, archival.ErrDowngradeDeclined):
		fmt.Fprintf(s.Out, "Archive cancelled. %s was left in place.\n", target)
	case errors.Is(err, archival.ErrNoDestination):
		fmt.Fprintln(s.Out, "No location selected.")
	case errors.Is(err, archival.ErrCleanupFailed):
		fmt.Fprintf(s.Out, "%s Archive written to %s\n", s.green("*"), out.OutputPath)
		fmt.Fprintf(s.Err, "%s %v\n", s.red("x"), err)
	default:
		fmt.Fprintf(s.Err, "Error: %v\n", err)
	}
}

// ChangeLocation picks a new backup location and refreshes the menu.
func (s *Shell) ChangeLocation() {
	if location := s.selectLocation(); location != "" {
		fmt.Fprintf(s.Out, "New backup location set: %s\n", location)
	} else {
		fmt.Fprintln(s.Out, "No backup location selected.")
	}
	s.location, _ = s.Location.Read()
}
