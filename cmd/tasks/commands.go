package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tgienger/tasks/internal/config"
	"github.com/tgienger/tasks/internal/models"
	"github.com/tgienger/tasks/internal/prefs"
	"github.com/tgienger/tasks/internal/tasks"
)

// withEnv runs fn with a ready environment and closes it afterwards
func withEnv(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := setup(ctx, flags)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}

// withTasks loads the signed-in user's tasks before calling fn
func withTasks(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, e *env, user *models.User, repo *tasks.Repository) error) error {
	return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
		user, err := e.requireUser(ctx)
		if err != nil {
			return err
		}
		repo := e.newRepository()
		if err := repo.Load(ctx, user.ID); err != nil {
			return err
		}
		return fn(ctx, e, user, repo)
	})
}

// resolveTask finds the task whose id equals or starts with ref
func resolveTask(list []models.Task, ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Task{}, fmt.Errorf("task id is required")
	}
	var matches []models.Task
	for _, t := range list {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("no task matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("%q matches %d tasks, use more characters", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printTasks(w io.Writer, list []models.Task, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tDUE\tTITLE")
	today := models.DateOf(now)
	for _, t := range list {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.String()
			if !t.Completed && t.DueDate.Before(today) {
				due += " (overdue)"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", shortID(t.ID), done, t.Priority, due, t.Title)
	}
	return tw.Flush()
}

func listCmd(flags *globalFlags) *cobra.Command {
	var filterName, query string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := tasks.ParseFilter(filterName)
			if err != nil {
				return err
			}
			return withTasks(cmd, flags, func(ctx context.Context, e *env, user *models.User, repo *tasks.Repository) error {
				now := time.Now()
				visible := tasks.Visible(repo.State().Snapshot(), filter, query, now)
				if len(visible) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
					return nil
				}
				return printTasks(cmd.OutOrStdout(), visible, now)
			})
		},
	}

	cmd.Flags().StringVarP(&filterName, "filter", "f", string(tasks.FilterAll), "Filter: all, pending, completed, today, overdue")
	cmd.Flags().StringVarP(&query, "search", "s", "", "Only show tasks whose title contains this text")
	return cmd
}

func addCmd(flags *globalFlags) *cobra.Command {
	var description, priority, due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := buildDraft(strings.Join(args, " "), description, priority, due)
			if err != nil {
				return err
			}
			return withTasks(cmd, flags, func(ctx context.Context, e *env, user *models.User, repo *tasks.Repository) error {
				task, err := repo.Create(ctx, user.ID, draft)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task added successfully (%s)\n", shortID(task.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(models.DefaultPriority), "Priority: low, medium, high")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func buildDraft(title, description, priority, due string) (models.Draft, error) {
	p, err := models.ParsePriority(priority)
	if err != nil {
		return models.Draft{}, err
	}
	d := models.Draft{Title: title, Description: description, Priority: p}
	if due != "" {
		date, err := models.ParseDate(due)
		if err != nil {
			return models.Draft{}, fmt.Errorf("invalid due date %q: %w", due, err)
		}
		d.DueDate = &date
	}
	return d, d.Validate()
}

func editCmd(flags *globalFlags) *cobra.Command {
	var (
		title, description, priority, due string
		clearDue                          bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.Patch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				p, err := models.ParsePriority(priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if cmd.Flags().Changed("due") {
				d, err := models.ParseDate(due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				patch.DueDate = &d
			}
			patch.ClearDueDate = clearDue
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to change, pass at least one flag")
			}
			if err := patch.Validate(); err != nil {
				return err
			}

			return withTasks(cmd, flags, func(ctx context.Context, e *env, user *models.User, repo *tasks.Repository) error {
				t, err := resolveTask(repo.State().Snapshot(), args[0])
				if err != nil {
					return err
				}
				if _, err := repo.Update(ctx, t.ID, patch); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Task updated successfully")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority: low, medium, high")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	return cmd
}

func doneCmd(flags *globalFlags) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, flags, func(ctx context.Context, e *env, user *models.User, repo *tasks.Repository) error {
				t, err := resolveTask(repo.State().Snapshot(), args[0])
				if err != nil {
					return err
				}
				if _, err := repo.ToggleComplete(ctx, t.ID, !undo); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Task updated successfully")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task as pending again")
	return cmd
}

func rmCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, flags, func(ctx context.Context, e *env, user *models.User, repo *tasks.Repository) error {
				t, err := resolveTask(repo.State().Snapshot(), args[0])
				if err != nil {
					return err
				}
				if err := repo.Delete(ctx, t.ID); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Task deleted successfully")
				return nil
			})
		},
	}
}

func statsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts per filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, flags, func(ctx context.Context, e *env, user *models.User, repo *tasks.Repository) error {
				counts := tasks.Count(repo.State().Snapshot(), time.Now())
				out := cmd.OutOrStdout()
				for _, f := range tasks.Filters() {
					fmt.Fprintf(out, "%-10s %d\n", f.Label(), counts[f])
				}
				fmt.Fprintf(out, "%-10s %d%%\n", "Done", counts.CompletionRate())
				return nil
			})
		},
	}
}

// readPassword reads one line from in. The password flag takes precedence.
func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func signupCmd(flags *globalFlags) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				user, err := e.auth.SignUp(ctx, args[0], pw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s\n", user.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func loginCmd(flags *globalFlags) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				user, err := e.auth.SignIn(ctx, args[0], pw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func logoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				if err := e.auth.SignOut(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func whoamiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				user, err := e.requireUser(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}
}

func avatarCmd(flags *globalFlags) *cobra.Command {
	var listOptions bool

	cmd := &cobra.Command{
		Use:   "avatar [url]",
		Short: "Show or set the profile image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listOptions {
				for i, url := range prefs.AvatarOptions() {
					fmt.Fprintf(out, "%d  %s\n", i+1, url)
				}
				return nil
			}
			return withEnv(cmd, flags, func(ctx context.Context, e *env) error {
				user, err := e.requireUser(ctx)
				if err != nil {
					return err
				}
				if len(args) == 0 {
					url, err := prefs.Avatar(ctx, e.prefs, user.ID)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, url)
					return nil
				}
				if err := prefs.SetAvatar(ctx, e.prefs, user.ID, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(out, "Profile image updated")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&listOptions, "list", false, "List the built-in images")
	return cmd
}

func configCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(config.NewLoader(nil), flags)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				data, err := yaml.Marshal(cfg.Redacted())
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a default config file if none exists",
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.NewLoader(nil).EnsureUserConfig()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the config file path",
			Run: func(cmd *cobra.Command, args []string) {
				path := flags.configPath
				if path == "" {
					path = config.UserConfigPath()
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			},
		},
	)
	return cmd
}
