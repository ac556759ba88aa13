package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests can provide a lightweight stub.
type execIface interface {
	Users(ctx context.Context) error
	AddUser(ctx context.Context, name string) error
	ShowUser(ctx context.Context, name string) error
	Tasks(ctx context.Context, user string) error
	Add(ctx context.Context, user, title string) error
	SetDone(ctx context.Context, user string, ids []string, done bool) error
	Toggle(ctx context.Context, user, id string) error
	Rename(ctx context.Context, user, id, title string) error
	Remove(ctx context.Context, user string, ids []string) error
	Clear(ctx context.Context, user string) error
	Reorder(ctx context.Context, user string, ids []string) error
}

const helpText = `Available commands:
  users                          list users
  adduser <name>                 create a user
  user <name>                    show one user
  tasks <user>                   list a user's tasks
  add <user> <title...>          add a task
  done|undo <user> <id...>       mark tasks complete or incomplete
  toggle <user> <id>             flip completion
  rename <user> <id> [title...]  change a title ("" or none clears it)
  rm <user> <id...>              delete tasks
  clear <user>                   delete all tasks
  reorder <user> <id...>         set the order (unlisted tasks are dropped)
  exit | quit`

// usage maps a command to its argument synopsis and minimum arg count.
var usage = map[string]struct {
	synopsis string
	min      int
}{
	"adduser": {"adduser <name>", 1},
	"user":    {"user <name>", 1},
	"tasks":   {"tasks <user>", 1},
	"add":     {"add <user> <title...>", 2},
	"done":    {"done <user> <id...>", 2},
	"undo":    {"undo <user> <id...>", 2},
	"toggle":  {"toggle <user> <id>", 2},
	"rename":  {"rename <user> <id> [title...]", 2},
	"rm":      {"rm <user> <id...>", 2},
	"clear":   {"clear <user>", 1},
	"reorder": {"reorder <user> [id...]", 1},
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on end of input or on "exit"/"quit". Command errors are
// printed and the loop continues.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for {
		line, err := GetSimpleText(reader, "tb> ", w)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(w, "Error:", err)
			}
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if u, ok := usage[cmd]; ok && len(args) < u.min {
			fmt.Fprintln(w, "Usage:", u.synopsis)
			continue
		}

		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			fmt.Fprintln(w, "Error:", err)
		}
	}
}

// titleArg joins the title words. A bare "" stands for the empty title.
func titleArg(words []string) string {
	title := strings.Join(words, " ")
	if title == `""` {
		return ""
	}
	return title
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "users":
		return a.Users(ctx)
	case "adduser":
		return a.AddUser(ctx, args[0])
	case "user":
		return a.ShowUser(ctx, args[0])
	case "tasks":
		return a.Tasks(ctx, args[0])
	case "add":
		return a.Add(ctx, args[0], strings.Join(args[1:], " "))
	case "done":
		return a.SetDone(ctx, args[0], args[1:], true)
	case "undo":
		return a.SetDone(ctx, args[0], args[1:], false)
	case "toggle":
		return a.Toggle(ctx, args[0], args[1])
	case "rename":
		return a.Rename(ctx, args[0], args[1], titleArg(args[2:]))
	case "rm":
		return a.Remove(ctx, args[0], args[1:])
	case "clear":
		return a.Clear(ctx, args[0])
	case "reorder":
		return a.Reorder(ctx, args[0], args[1:])
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
