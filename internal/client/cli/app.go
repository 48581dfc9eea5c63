package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/dmitrijs2005/zamazon/internal/client/client"
	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/client/nav"
	"github.com/dmitrijs2005/zamazon/internal/client/services"
	"github.com/dmitrijs2005/zamazon/internal/client/session"
	"github.com/dmitrijs2005/zamazon/internal/client/views"
	"github.com/dmitrijs2005/zamazon/internal/logging"
)

// API is everything the pages need from the backend. *client.Client
// implements it.
type API interface {
	views.CatalogAPI
	views.ProductAPI
	views.CartAPI
	views.AccountAPI
	views.HistoryAPI
	views.InventoryAPI
	views.OrdersAPI
	views.UserAPI
	views.SocialAPI
}

// Session is the part of the session store the shell uses.
type Session interface {
	session.Reader
	Subscribe(fn func(bool)) (unsubscribe func())
}

// Metrics records stale drops for the views and prints the stats command.
type Metrics interface {
	views.StaleRecorder
	WriteSummary(w io.Writer) error
}

type Deps struct {
	API     API
	Auth    services.AuthService
	Session Session
	Metrics Metrics
	Logger  logging.Logger

	In  io.Reader
	Out io.Writer
}

// startVerifier runs the session verifier without blocking the shell.
// Tests replace it with a synchronous call.
var startVerifier = func(ctx context.Context, auth services.AuthService) {
	go auth.Verify(ctx)
}

// maxRedirects bounds guard redirects followed by a single navigation.
const maxRedirects = 3

type App struct {
	api     API
	auth    services.AuthService
	session Session
	metrics Metrics
	logger  logging.Logger
	guard   *session.Guard
	router  *nav.Router

	in     io.Reader
	reader *bufio.Reader
	out    io.Writer

	path      string
	page      views.Page
	protected bool
	category  string

	// sessionChanged is set when the session flag flips and cleared
	// whenever a page is opened.
	sessionChanged atomic.Bool
}

func NewApp(d Deps) *App {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}

	a := &App{
		api:      d.API,
		auth:     d.Auth,
		session:  d.Session,
		metrics:  d.Metrics,
		logger:   d.Logger,
		in:       d.In,
		reader:   bufio.NewReader(d.In),
		out:      d.Out,
		category: models.Categories[0],
	}
	a.guard = session.NewGuard(d.Session)
	a.router = a.routes()
	return a
}

// Run starts the verifier, opens the home page and blocks in the REPL
// until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	// The store delivers writes one at a time, so last needs no lock.
	last := a.session.Read()
	unsubscribe := a.session.Subscribe(func(v bool) {
		if v != last {
			last = v
			a.sessionChanged.Store(true)
		}
	})
	defer unsubscribe()

	startVerifier(ctx, a.auth)

	a.println(format.Heading("Welcome to Zamazon") + " (type 'help' for commands)")
	a.open(ctx, "/")
	runREPL(ctx, a, a.reader)
	return nil
}

// open resolves path, following guard redirects, then loads and renders
// the page. Interactive pages run their prompts right after rendering.
func (a *App) open(ctx context.Context, path string) {
	a.sessionChanged.Store(false)

	for range maxRedirects {
		res, err := a.router.Resolve(path)
		if err != nil {
			a.alert(err)
			return
		}
		if res.Redirect != "" {
			a.logger.Debug(ctx, "guard redirect", "from", path, "to", res.Redirect)
			a.println(format.Muted("Please login to continue."))
			path = res.Redirect
			continue
		}

		a.path, a.page, a.protected = res.Path, res.Page, res.Protected
		if err := a.page.Load(ctx); err != nil {
			a.alert(err)
		}
		a.render()

		if r, ok := a.page.(interactive); ok {
			out, err := r.Run(ctx)
			a.apply(ctx, out, err)
		}
		return
	}
	a.alert(fmt.Errorf("too many redirects opening %s", path))
}

// apply shows the result of a page command.
func (a *App) apply(ctx context.Context, out views.Outcome, err error) {
	if err != nil {
		a.alert(err)
	} else if out.Notice != "" {
		a.println(format.Success(out.Notice))
	}

	if out.Navigate != "" {
		a.open(ctx, out.Navigate)
		return
	}
	if err == nil {
		a.render()
	}
}

// refresh leaves a protected page once the session flipped to signed out.
// Any other flip keeps the current page and its state; the main bar catches
// up on the next render.
func (a *App) refresh(ctx context.Context) {
	if !a.sessionChanged.Swap(false) {
		return
	}
	if a.protected && a.path != "" && !a.session.Read() {
		a.open(ctx, a.path)
	}
}

// render draws the bars and the current page. A protected page goes through
// the guard; when it refuses, nothing is drawn and the next refresh follows
// the redirect.
func (a *App) render() {
	if a.page == nil {
		return
	}
	if !a.protected {
		_ = a.draw(a.out)
		return
	}
	redirect, err := a.guard.Render(a.out, a.draw)
	if err != nil {
		a.alert(err)
	}
	if redirect != "" {
		a.sessionChanged.Store(true)
	}
}

func (a *App) draw(w io.Writer) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, nav.MainBar(a.session.Read()))
	fmt.Fprintln(w, nav.CategoryBar(a.category))
	fmt.Fprintln(w)
	a.page.Render(w)
	return nil
}

func (a *App) prompt() string {
	return fmt.Sprintf("zamazon %s> ", a.path)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) alert(err error) {
	a.println(format.Alert(client.Message(err)))
}

func (a *App) text(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

// password reads without echo from a terminal and falls back to a plain
// line otherwise, so piped input still works.
func (a *App) password(prompt string) (string, error) {
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := GetPassword(int(f.Fd()), prompt, a.out)
		if err != nil {
			return "", err
		}
		defer wipe(pw)
		return string(pw), nil
	}
	fmt.Fprint(a.out, prompt+": ")
	line, err := readLine(a.reader)
	a.println()
	return line, err
}
