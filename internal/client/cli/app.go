package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"golang.org/x/term"
)

// TaskStore is the part of store.Store the console needs.
type TaskStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	ListTasks(ctx context.Context, username string) ([]models.Task, error)
	AddTask(ctx context.Context, username, title string) (*models.Task, error)
	DeleteTask(ctx context.Context, username, taskID string) (bool, error)
	DeleteAllTasks(ctx context.Context, username string) (bool, error)
	DeleteMultiple(ctx context.Context, username string, taskIDs []string) (int, error)
	SetCompletion(ctx context.Context, username, taskID string, completed bool) (bool, error)
	CompleteMultiple(ctx context.Context, username string, taskIDs []string, completed bool) (int, error)
	RenameTask(ctx context.Context, username, taskID, title string) (bool, error)
	ToggleTask(ctx context.Context, username, taskID string) (bool, error)
	Reorder(ctx context.Context, username string, taskIDs []string) (bool, error)
}

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type App struct {
	store       TaskStore
	logger      logging.Logger
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewApp returns a console over st reading commands from in. Destructive
// commands ask for confirmation only when in is a terminal.
func NewApp(st TaskStore, in io.Reader, out io.Writer, l logging.Logger) *App {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isTerminal(int(f.Fd()))
	}
	return &App{
		store:       st,
		logger:      l.With("module", "cli"),
		reader:      bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Run blocks in the REPL until exit or end of input.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to taskboard console (type 'help' for commands)")
	runREPL(ctx, a, a.reader, a.out)
}
