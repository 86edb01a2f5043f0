package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"library-manager/internal/librarymanager"
	"library-manager/internal/output"
)

const shellHelp = `Enter one of the following commands:
- add book
- delete book
- find book
- list books
- change status
- help
- exit
`

// shell is the interactive prompt loop.
type shell struct {
	manager   *librarymanager.Manager
	formatter output.Formatter
	in        *bufio.Scanner
	out       io.Writer
	logger    *zerolog.Logger
}

func newShell(manager *librarymanager.Manager, formatter output.Formatter, in io.Reader, out io.Writer, logger *zerolog.Logger) *shell {
	return &shell{
		manager:   manager,
		formatter: formatter,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger,
	}
}

// Run reads commands until "exit", end of input or ctx is cancelled.
// Only storage failures end the loop with an error.
func (s *shell) Run(ctx context.Context) error {
	fmt.Fprint(s.out, shellHelp)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, ok := s.prompt(">")
		if !ok {
			return s.in.Err()
		}

		var err error
		switch command := strings.ToLower(strings.TrimSpace(line)); command {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help":
			fmt.Fprint(s.out, shellHelp)
		case "add book":
			err = s.addBook()
		case "delete book":
			err = s.deleteBook()
		case "find book":
			err = s.findBook()
		case "list books":
			err = s.formatter.Format(s.out, s.manager.ListBooks())
		case "change status":
			err = s.changeStatus()
		default:
			s.logger.Debug().Str("command", command).Msg("Unknown shell command")
			fmt.Fprintln(s.out, "Unknown command")
		}
		if err != nil {
			return err
		}
	}
}

// prompt prints label and reads one line. ok is false at end of input.
func (s *shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return s.in.Text(), true
}

func (s *shell) addBook() error {
	title, ok := s.prompt("Title: ")
	if !ok {
		return nil
	}
	author, ok := s.prompt("Author: ")
	if !ok {
		return nil
	}
	yearText, ok := s.prompt("Year: ")
	if !ok {
		return nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearText))
	if err != nil {
		fmt.Fprintln(s.out, "! Year must be a number !")
		return nil
	}

	result, err := s.manager.AddBook(title, author, year)
	if err != nil {
		return err
	}
	return s.formatter.Format(s.out, result)
}

func (s *shell) deleteBook() error {
	id, ok := s.promptID("Id of the book to delete: ")
	if !ok {
		return nil
	}
	result, err := s.manager.DeleteBook(id)
	if err != nil {
		return err
	}
	return s.formatter.Format(s.out, result)
}

func (s *shell) changeStatus() error {
	id, ok := s.promptID("Id of the book: ")
	if !ok {
		return nil
	}
	status, ok := s.prompt("New status (available, checked_out): ")
	if !ok {
		return nil
	}
	result, err := s.manager.ChangeStatus(id, strings.TrimSpace(status))
	if err != nil {
		return err
	}
	return s.formatter.Format(s.out, result)
}

func (s *shell) findBook() error {
	query, ok := s.prompt("Title, author or year: ")
	if !ok {
		return nil
	}
	books := s.manager.FindBooks(query)
	if len(books) == 0 {
		fmt.Fprintln(s.out, nothingFound)
		return nil
	}
	return s.formatter.Format(s.out, books)
}

// promptID reads an id, printing an error for non-integer input.
func (s *shell) promptID(label string) (int, bool) {
	text, ok := s.prompt(label)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		fmt.Fprintln(s.out, "! Invalid id !")
		return 0, false
	}
	return id, true
}
