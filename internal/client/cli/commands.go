package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

func (a *App) Users(ctx context.Context) error {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s\t%s\n", u.UserName, u.CreatedAt)
	}
	return nil
}

func (a *App) AddUser(ctx context.Context, name string) error {
	u, err := a.store.CreateUser(ctx, name)
	if err != nil {
		return err
	}
	a.logger.Info(ctx, "User created", "username", u.UserName)
	fmt.Fprintf(a.out, "User %s created\n", u.UserName)
	return nil
}

func (a *App) ShowUser(ctx context.Context, name string) error {
	u, err := a.store.GetUser(ctx, name)
	if err != nil {
		return err
	}
	tasks, err := a.store.ListTasks(ctx, name)
	if err != nil {
		return err
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(a.out, "%s\tcreated %s\t%d/%d done\n", u.UserName, u.CreatedAt, done, len(tasks))
	return nil
}

func (a *App) Tasks(ctx context.Context, user string) error {
	tasks, err := a.store.ListTasks(ctx, user)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}
	for i, t := range tasks {
		fmt.Fprintln(a.out, formatTask(i+1, t))
	}
	return nil
}

func formatTask(n int, t models.Task) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("%2d. [%s] %s  %s", n, mark, t.ID, t.Title)
}

func (a *App) Add(ctx context.Context, user, title string) error {
	t, err := a.store.AddTask(ctx, user, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task %s added\n", t.ID)
	return nil
}

func (a *App) SetDone(ctx context.Context, user string, ids []string, done bool) error {
	if len(ids) == 1 {
		ok, err := a.store.SetCompletion(ctx, user, ids[0], done)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Task not found")
			return nil
		}
		fmt.Fprintln(a.out, "Task updated")
		return nil
	}

	n, err := a.store.CompleteMultiple(ctx, user, ids, done)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d tasks updated\n", n)
	return nil
}

func (a *App) Toggle(ctx context.Context, user, id string) error {
	completed, err := a.store.ToggleTask(ctx, user, id)
	if err != nil {
		return err
	}
	state := "open"
	if completed {
		state = "done"
	}
	fmt.Fprintf(a.out, "Task %s is now %s\n", id, state)
	return nil
}

func (a *App) Rename(ctx context.Context, user, id, title string) error {
	ok, err := a.store.RenameTask(ctx, user, id, title)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Task not found")
		return nil
	}
	fmt.Fprintln(a.out, "Task renamed")
	return nil
}

func (a *App) Remove(ctx context.Context, user string, ids []string) error {
	if len(ids) == 1 {
		ok, err := a.store.DeleteTask(ctx, user, ids[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "User has no tasks")
			return nil
		}
		fmt.Fprintln(a.out, "Task deleted")
		return nil
	}

	n, err := a.store.DeleteMultiple(ctx, user, ids)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d tasks deleted\n", n)
	return nil
}

func (a *App) Clear(ctx context.Context, user string) error {
	if a.interactive {
		ok, err := Confirm(a.reader, fmt.Sprintf("Delete all tasks of %s?", user), a.out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
	}

	ok, err := a.store.DeleteAllTasks(ctx, user)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "User not found")
		return nil
	}
	a.logger.Info(ctx, "Tasks cleared", "username", user)
	fmt.Fprintln(a.out, "All tasks deleted")
	return nil
}

func (a *App) Reorder(ctx context.Context, user string, ids []string) error {
	ok, err := a.store.Reorder(ctx, user, ids)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "User not found")
		return nil
	}
	fmt.Fprintln(a.out, "Tasks reordered")
	return nil
}
