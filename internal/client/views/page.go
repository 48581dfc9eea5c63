package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
)

var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrUsage             = errors.New("usage")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("Insufficient funds for withdrawal. Transaction canceled.")
	ErrNotEligible       = errors.New("only buyers with a fulfilled purchase can review")
	ErrMissingListing    = errors.New("price and quantity are required")
)

// Page is a screen the shell can show.
type Page interface {
	Title() string
	// Load is called once when the page is mounted.
	Load(ctx context.Context) error
	Render(w io.Writer)
	Commands() []Command
	// Handle runs a page-local command. ErrUnknownCommand means the page
	// does not have one by that name.
	Handle(ctx context.Context, name string, args []string) (Outcome, error)
}

type Command struct {
	Name string
	Args string
	Help string
}

// Outcome tells the shell what to do after a command. Navigate is a route
// path to open; Notice is printed as a success message.
type Outcome struct {
	Navigate string
	Notice   string
}

func usage(c Command) error {
	return fmt.Errorf("%w: %s %s", ErrUsage, c.Name, c.Args)
}

func intArg(args []string, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	n, err := strconv.Atoi(args[i])
	return n, err == nil
}

func floatArg(args []string, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	f, err := strconv.ParseFloat(args[i], 64)
	return f, err == nil
}

func restArg(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return strings.Join(args[i:], " ")
}

// index resolves a 1-based list position typed by the user.
func index(args []string, i, n int) (int, bool) {
	k, ok := intArg(args, i)
	if !ok || k < 1 || k > n {
		return 0, false
	}
	return k - 1, true
}

// pager is a 1-based page cursor over a listing with total pages.
type pager struct {
	page  int
	total int
}

func newPager() pager { return pager{page: 1} }

// to moves the cursor to p, clamped to the known page range, and reports
// whether it changed.
func (p *pager) to(n int) bool {
	if p.total > 0 && n > p.total {
		n = p.total
	}
	if n < 1 {
		n = 1
	}
	if n == p.page {
		return false
	}
	p.page = n
	return true
}

func (p *pager) String() string { return format.PageOf(p.page, p.total) }

var pagingCommands = []Command{
	{Name: "next", Help: "next page"},
	{Name: "prev", Help: "previous page"},
	{Name: "page", Args: "<n>", Help: "jump to page n"},
}

// turn handles the paging commands for p. handled is false for any other
// command; moved is true when the cursor changed and the view must reload.
func turn(p *pager, name string, args []string) (handled, moved bool, err error) {
	switch name {
	case "next":
		return true, p.to(p.page + 1), nil
	case "prev":
		return true, p.to(p.page - 1), nil
	case "page":
		n, ok := intArg(args, 0)
		if !ok {
			return true, false, usage(pagingCommands[2])
		}
		return true, p.to(n), nil
	}
	return false, false, nil
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, format.Heading(title))
}

func empty(w io.Writer, msg string) {
	fmt.Fprintln(w, format.Muted(msg))
}
