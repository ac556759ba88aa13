// Package cli provides the taskboard admin console: a line-oriented REPL
// that runs every task store operation directly against the configured
// storage backend, without going through the HTTP API.
//
// Commands:
//
//	users                          list users
//	adduser <name>                 create a user
//	user <name>                    show one user
//	tasks <user>                   list a user's tasks
//	add <user> <title...>          add a task
//	done|undo <user> <id...>       mark tasks complete or incomplete
//	toggle <user> <id>             flip completion
//	rename <user> <id> [title...]  change a title ("" or none clears it)
//	rm <user> <id...>              delete tasks
//	clear <user>                   delete all tasks (asks first on a terminal)
//	reorder <user> <id...>         set the order; unlisted tasks are dropped
//	help, exit|quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. It may run next to the server on the same storage: writes
// on both sides go through the backend's lock.
package cli
