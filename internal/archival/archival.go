// Package archival moves a finished case folder into a zip archive at the
// backup destination.
//
// The source folder is removed only after the archive has been confirmed
// on disk. Password-protected requests use the external compression
// backend; when the backend is missing or cannot be launched the request
// is downgraded to a standard archive and the caller is told so through
// Outcome.Notices.
package archival

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmcdonald/dfircase/internal/cases"
	"github.com/jmcdonald/dfircase/internal/ports"
	"github.com/jmcdonald/dfircase/internal/preflight"
)

var (
	ErrNoCandidates       = errors.New("no folders found")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrNoDestination      = errors.New("no location selected")
	ErrDestinationInvalid = errors.New("invalid destination")
	ErrSourceNotFound     = errors.New("case folder not found")
	ErrArchiveExists      = errors.New("archive already exists")
	ErrArchiveNotCreated  = errors.New("failed to create archive")
	ErrDowngradeDeclined  = errors.New("unprotected archive declined")
	ErrCleanupFailed      = errors.New("archive created but case folder could not be removed")
)

// Method describes how an archive was produced.
type Method string

const (
	MethodEncrypted Method = "aes256"
	MethodStandard  Method = "standard"
)

// NoticeKind classifies informational messages raised during a run.
type NoticeKind int

const (
	NoticePasswordDowngrade NoticeKind = iota
	NoticeBackendUnavailable
	NoticeLaunchFailed
	NoticeOffsiteCopied
	NoticeOffsiteFailed
)

// Notice is an informational message for the user. Notices never abort a run.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Request describes one archive run.
type Request struct {
	// Source is the case folder name, a direct child of the working directory.
	Source string
	// Destination is the directory the archive is written to.
	Destination string
	// Password enables AES-256 encryption when non-empty.
	Password string
	// PasswordRequested records that the user asked for protection. With
	// an empty Password this produces a downgrade notice.
	PasswordRequested bool
	// ConfirmDowngrade, when set, is asked before a password-protected
	// request falls back to a standard archive. Returning false aborts
	// the run with ErrDowngradeDeclined.
	ConfirmDowngrade func(reason string) bool
}

// OutputPath is Destination/<Source>.zip.
func (r Request) OutputPath() string {
	return filepath.Join(r.Destination, r.Source+".zip")
}

// Outcome reports what an archive run did. It is returned alongside
// errors too, so notices raised before a failure are not lost.
type Outcome struct {
	OperationID string
	OutputPath  string
	Method      Method
	FileCount   int
	SizeBytes   int64
	Notices     []Notice
}

func (o *Outcome) notice(kind NoticeKind, format string, args ...any) {
	o.Notices = append(o.Notices, Notice{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Workflow archives case folders.
type Workflow struct {
	fs         ports.FileSystem
	workDir    string
	locator    ports.BackendLocator
	compressor ports.Compressor
	archiver   ports.Archiver
	mirror     ports.Mirror
	log        *zap.Logger

	checkDestination func(dir string) error
	newID            func() string
}

// Option is a functional option for configuring Workflow.
type Option func(*Workflow)

// WithMirror uploads every confirmed archive to m.
func WithMirror(m ports.Mirror) Option {
	return func(w *Workflow) { w.mirror = m }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Workflow) { w.log = log }
}

// WithDestinationCheck replaces preflight.CheckDestination.
func WithDestinationCheck(fn func(dir string) error) Option {
	return func(w *Workflow) { w.checkDestination = fn }
}

// New creates a Workflow archiving folders below workDir.
func New(fs ports.FileSystem, workDir string, locator ports.BackendLocator, compressor ports.Compressor, archiver ports.Archiver, opts ...Option) *Workflow {
	w := &Workflow{
		fs:               fs,
		workDir:          workDir,
		locator:          locator,
		compressor:       compressor,
		archiver:         archiver,
		log:              zap.NewNop(),
		checkDestination: preflight.CheckDestination,
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Select maps a 1-based menu choice onto candidates.
func Select(candidates []string, input string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(candidates) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSelection, input)
	}
	return candidates[n-1], nil
}

// Archive runs one archive request. The returned Outcome is never nil.
func (w *Workflow) Archive(ctx context.Context, req Request) (*Outcome, error) {
	out := &Outcome{OperationID: w.newID()}
	log := w.log.With(zap.String("op", out.OperationID), zap.String("source", req.Source))

	sourceDir, err := w.validate(req)
	if err != nil {
		log.Debug("request rejected", zap.Error(err))
		return out, err
	}
	out.OutputPath = req.OutputPath()

	if req.PasswordRequested && req.Password == "" {
		out.notice(NoticePasswordDowngrade, "No password entered, creating unprotected ZIP.")
	}

	useBackend := req.Password != ""
	var handle ports.BackendHandle
	if useBackend {
		handle, err = w.locator.Resolve()
		if err != nil {
			if !errors.Is(err, ports.ErrBackendNotFound) {
				return out, fmt.Errorf("locating compression backend: %w", err)
			}
			log.Warn("compression backend unavailable", zap.String("strategy", w.locator.Strategy()), zap.Error(err))
			out.notice(NoticeBackendUnavailable, "Compression backend unavailable (%v), creating unprotected ZIP.", err)
			if !confirm(req, err.Error()) {
				return out, ErrDowngradeDeclined
			}
			useBackend = false
		}
	}

	var cause error
	if useBackend {
		err := w.compressor.CreateEncrypted(ctx, handle, out.OutputPath, sourceDir, req.Password)
		var launchErr *ports.LaunchError
		switch {
		case err == nil:
			out.Method = MethodEncrypted
		case errors.As(err, &launchErr):
			log.Warn("compression backend failed to launch", zap.Error(err))
			out.notice(NoticeLaunchFailed, "Error: %v. Falling back to standard zip (no password support).", launchErr)
			if !confirm(req, launchErr.Error()) {
				return out, ErrDowngradeDeclined
			}
			useBackend = false
		default:
			return out, err
		}
	}

	if !useBackend {
		out.Method = MethodStandard
		out.FileCount, cause = w.archiver.Create(out.OutputPath, sourceDir)
		if cause != nil {
			log.Warn("standard archiver failed", zap.Error(cause))
		}
	}

	// The archive on disk is the only success signal.
	info, err := w.fs.Stat(out.OutputPath)
	if err != nil || info.IsDir() {
		log.Warn("archive not created", zap.String("output", out.OutputPath))
		if cause != nil {
			return out, fmt.Errorf("%w: %v", ErrArchiveNotCreated, cause)
		}
		return out, ErrArchiveNotCreated
	}
	out.SizeBytes = info.Size()

	if err := w.fs.RemoveAll(sourceDir); err != nil {
		log.Warn("removing case folder", zap.Error(err))
		return out, fmt.Errorf("%w: %v", ErrCleanupFailed, err)
	}
	log.Info("case archived",
		zap.String("output", out.OutputPath),
		zap.String("method", string(out.Method)),
		zap.Int64("size", out.SizeBytes),
	)

	if w.mirror != nil {
		w.copyOffsite(ctx, log, out)
	}
	return out, nil
}

func (w *Workflow) validate(req Request) (string, error) {
	if err := cases.ValidateName(req.Source); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	sourceDir := filepath.Join(w.workDir, req.Source)
	info, err := w.fs.Lstat(sourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, sourceDir)
	}
	// A linked case would be archived empty and then unlinked.
	if info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("%w: %s is a symbolic link", ErrSourceNotFound, sourceDir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, sourceDir)
	}

	if req.Destination == "" {
		return "", ErrNoDestination
	}
	if err := w.checkDestination(req.Destination); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDestinationInvalid, err)
	}
	if within(sourceDir, req.Destination) {
		return "", fmt.Errorf("%w: %s is inside the case folder", ErrDestinationInvalid, req.Destination)
	}

	if _, err := w.fs.Stat(req.OutputPath()); err == nil {
		return "", fmt.Errorf("%w: %s", ErrArchiveExists, req.OutputPath())
	}
	return sourceDir, nil
}

func (w *Workflow) copyOffsite(ctx context.Context, log *zap.Logger, out *Outcome) {
	location, err := w.mirror.Upload(ctx, out.OutputPath, filepath.Base(out.OutputPath))
	if err != nil {
		log.Warn("offsite copy failed", zap.Error(err))
		out.notice(NoticeOffsiteFailed, "Offsite copy failed: %v", err)
		return
	}
	out.notice(NoticeOffsiteCopied, "Offsite copy stored at %s", location)
}

func confirm(req Request, reason string) bool {
	if req.ConfirmDowngrade == nil {
		return true
	}
	return req.ConfirmDowngrade(reason)
}

// within reports whether target is base or below it.
func within(base, target string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
