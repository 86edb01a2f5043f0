package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"library-manager/internal/generator"
	"library-manager/internal/model"
	"library-manager/internal/output"
)

const nothingFound = "Nothing was found"

// Execute runs the CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	defer a.Close()
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "library-cli",
		Short: "Manage a small library catalog",
		Long: `library-cli keeps a catalog of books in a JSON file (or a Postgres table).

Books can be added, removed, searched by title, author or year, and marked
as available or checked_out. Run "library-cli shell" for the interactive mode.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./library.yaml)")
	flags.String("file", "", "library file (default is library.json)")
	flags.StringP("format", "o", "", "output format: text, table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored log output")

	rootCmd.AddCommand(
		a.newAddCommand(),
		a.newDeleteCommand(),
		a.newStatusCommand(),
		a.newFindCommand(),
		a.newListCommand(),
		a.newInitCommand(),
		a.newShellCommand(),
	)

	return rootCmd
}

func (a *App) newAddCommand() *cobra.Command {
	var (
		title  string
		author string
		year   int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Example: `  library-cli add --title "Война и мир" --author "Лев Толстой" --year 1869`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := a.Manager()
			if err != nil {
				return err
			}
			result, err := manager.AddBook(title, author, year)
			if err != nil {
				return err
			}
			return a.renderResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "book author")
	cmd.Flags().IntVar(&year, "year", 0, "publication year (required)")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func (a *App) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a book by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			manager, err := a.Manager()
			if err != nil {
				return err
			}
			result, err := manager.DeleteBook(id)
			if err != nil {
				return err
			}
			return a.renderResult(cmd.OutOrStdout(), result)
		},
	}
}

func (a *App) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "status ID STATUS",
		Short:     "Change the status of a book",
		Long:      "Change the status of a book. STATUS is one of: available, checked_out.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(model.StatusAvailable), string(model.StatusCheckedOut)},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			manager, err := a.Manager()
			if err != nil {
				return err
			}
			result, err := manager.ChangeStatus(id, args[1])
			if err != nil {
				return err
			}
			return a.renderResult(cmd.OutOrStdout(), result)
		},
	}
}

func (a *App) newFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find QUERY",
		Short: "Find books by exact title, author or year",
		Long: `Find books whose title or author equals QUERY exactly. If QUERY is a
number, books published in that year are listed after them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.Manager()
			if err != nil {
				return err
			}
			books := manager.FindBooks(strings.Join(args, " "))
			if len(books) == 0 && a.format == output.FormatText {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), nothingFound)
				return err
			}
			return a.render(cmd.OutOrStdout(), books)
		},
	}
}

func (a *App) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := a.Manager()
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), manager.ListBooks())
		},
	}
}

func (a *App) newInitCommand() *cobra.Command {
	var (
		seed   bool
		force  bool
		backup bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new library file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outcome, err := generator.GenerateLibrary(generator.Config{
				Path:   a.config.LibraryFile,
				Seed:   seed,
				Force:  force,
				Backup: backup,
			}, *a.logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if outcome.BackupPath != "" {
				fmt.Fprintf(out, "Previous library saved to %s\n", outcome.BackupPath)
			}
			_, err = fmt.Fprintf(out, "Created %s with %d books\n", outcome.Path, outcome.Books)
			return err
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "fill the library with sample books")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing library file")
	cmd.Flags().BoolVar(&backup, "backup", true, "keep a .bak copy when replacing a file")

	return cmd
}

func (a *App) newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := a.Manager()
			if err != nil {
				return err
			}
			sh := newShell(manager, a.formatter, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
			return sh.Run(cmd.Context())
		},
	}
}

// parseID converts a command argument to a book id.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", s)
	}
	return id, nil
}
