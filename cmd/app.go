// Package cmd implements the CLI application to manage a bookkeeping file.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/bookkeep"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addAccountCmd{}, "book")
	c.Register(&accountsCmd{}, "book")
	c.Register(&addCategoryCmd{}, "book")
	c.Register(&categoriesCmd{}, "book")
	c.Register(&addOpCmd{}, "book")
	c.Register(&opsCmd{}, "book")

	c.Register(&reconcileCmd{}, "reconciliation")
	c.Register(&checkCmd{}, "reconciliation")

	c.Register(&analyzeCmd{}, "reports")

	c.Register(&importCmd{}, "exchange")
	c.Register(&exportCmd{}, "exchange")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var bookFile = flag.String("book-file", "book.json", "Path to the book file (JSON format)")
var verbose = flag.Bool("v", false, "Log command execution details to stderr")

// logger returns the logger commands run under. Quiet unless -v is set.
func logger() zerolog.Logger {
	if !*verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// LoadBook reads the book from the app book file.
func LoadBook() (*bookkeep.Book, error) {
	f, err := os.Open(*bookFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, book file does not exist, starting from an empty book")
		return bookkeep.NewBook(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open book file %q: %w", *bookFile, err)
	}
	defer f.Close()
	return bookkeep.DecodeBook(f)
}

// SaveBook writes the book back to the app book file.
func SaveBook(b *bookkeep.Book) error {
	f, err := os.Create(*bookFile)
	if err != nil {
		return fmt.Errorf("could not create book file %q: %w", *bookFile, err)
	}
	defer f.Close()
	return bookkeep.EncodeBook(f, b)
}
