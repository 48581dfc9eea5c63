package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/zamazon/internal/client/format"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/client/nav"
	"github.com/dmitrijs2005/zamazon/internal/client/views"
)

// shortcuts are global commands that open a fixed path.
var shortcuts = map[string]string{
	"home":     "/",
	"cart":     "/cart",
	"account":  "/account",
	"users":    "/users",
	"login":    "/login",
	"register": "/register",
}

var globalCommands = []views.Command{
	{Name: "go", Args: "<path>", Help: "open a page by path"},
	{Name: "home", Help: "all products"},
	{Name: "category", Args: "<" + strings.Join(models.Categories, "|") + ">", Help: "browse a category"},
	{Name: "product", Args: "<name>", Help: "open a product"},
	{Name: "user", Args: "<id>", Help: "open a user profile"},
	{Name: "order", Args: "<id>", Help: "open one of your orders"},
	{Name: "users", Help: "find a user"},
	{Name: "cart", Help: "your cart"},
	{Name: "account", Help: "your account"},
	{Name: "login", Help: "sign in"},
	{Name: "register", Help: "create an account"},
	{Name: "logout", Help: "sign out"},
	{Name: "stats", Help: "backend request counters"},
	{Name: "help", Help: "show this list"},
	{Name: "exit", Help: "leave the program"},
}

// runREPL reads a line at a time from reader, splits it on whitespace and
// dispatches the first word. A command the current page lists shadows a
// global one of the same name, so "order" places the order on the cart
// page. The loop exits on EOF or on "exit"/"quit".
//
// Errors from commands are printed as alerts and never end the loop.
func runREPL(ctx context.Context, a *App, reader *bufio.Reader) {
	for {
		fmt.Fprint(a.out, a.prompt())
		line, err := readLine(reader)
		if err != nil {
			a.println()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		if quit := a.exec(ctx, parts[0], parts[1:]); quit {
			a.println("Bye!")
			return
		}
		a.refresh(ctx)
	}
}

func (a *App) exec(ctx context.Context, cmd string, args []string) (quit bool) {
	if a.pageHas(cmd) {
		a.dispatch(ctx, cmd, args)
		return false
	}
	if path, ok := shortcuts[cmd]; ok && len(args) == 0 {
		a.open(ctx, path)
		return false
	}

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		a.help()
	case "stats":
		if a.metrics == nil {
			a.println(format.Muted("metrics are disabled"))
			break
		}
		if err := a.metrics.WriteSummary(a.out); err != nil {
			a.alert(err)
		}
	case "go":
		if len(args) != 1 {
			a.alert(fmt.Errorf("%w: go <path>", views.ErrUsage))
			break
		}
		a.open(ctx, args[0])
	case "category":
		if len(args) != 1 || !slices.Contains(models.Categories, args[0]) {
			a.alert(fmt.Errorf("%w: category is one of %v", views.ErrUsage, models.Categories))
			break
		}
		a.open(ctx, nav.CategoryPath(args[0]))
	case "product":
		if len(args) == 0 {
			a.alert(fmt.Errorf("%w: product <name>", views.ErrUsage))
			break
		}
		a.open(ctx, views.ProductPath(strings.Join(args, " ")))
	case "user", "order":
		if len(args) != 1 {
			a.alert(fmt.Errorf("%w: %s <id>", views.ErrUsage, cmd))
			break
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			a.alert(fmt.Errorf("%w: %s <id>", views.ErrUsage, cmd))
			break
		}
		if cmd == "user" {
			a.open(ctx, views.UserPath(id))
		} else {
			a.open(ctx, views.OrderPath(id))
		}
	case "logout":
		a.logout(ctx)
	default:
		a.dispatch(ctx, cmd, args)
	}
	return false
}

func (a *App) pageHas(cmd string) bool {
	if a.page == nil {
		return false
	}
	return slices.ContainsFunc(a.page.Commands(), func(c views.Command) bool { return c.Name == cmd })
}

// dispatch hands cmd to the current page.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) {
	if a.page == nil {
		a.println("Unknown command:", cmd)
		return
	}

	if v, ok := a.page.(*views.ProfileView); ok && cmd == "password" && len(args) == 0 {
		out, err := a.changePassword(ctx, v)
		a.apply(ctx, out, err)
		return
	}

	out, err := a.page.Handle(ctx, cmd, args)
	if errors.Is(err, views.ErrUnknownCommand) {
		a.println("Unknown command:", cmd, format.Muted("(type 'help' for commands)"))
		return
	}
	a.apply(ctx, out, err)
}

func (a *App) changePassword(ctx context.Context, v *views.ProfileView) (views.Outcome, error) {
	pw, err := a.password("New password")
	if err != nil {
		return views.Outcome{}, err
	}
	confirm, err := a.password("Confirm password")
	if err != nil {
		return views.Outcome{}, err
	}
	if err := v.ChangePassword(ctx, pw, confirm); err != nil {
		return views.Outcome{}, err
	}
	return views.Outcome{Notice: "Password updated."}, nil
}

func (a *App) logout(ctx context.Context) {
	if err := a.auth.Logout(ctx); err != nil {
		a.alert(err)
	} else {
		a.println(format.Success("Logged out."))
	}
	a.open(ctx, "/")
}

func (a *App) help() {
	a.println(format.Heading("Commands"))
	printCommands(a, globalCommands)
	a.println(format.Muted("  pages: " + strings.Join(a.router.Patterns(), " ")))
	if a.page == nil {
		return
	}
	if cmds := a.page.Commands(); len(cmds) > 0 {
		a.println(format.Heading(a.page.Title()))
		printCommands(a, cmds)
	}
}

func printCommands(a *App, cmds []views.Command) {
	for _, c := range cmds {
		name := c.Name
		if c.Args != "" {
			name += " " + c.Args
		}
		a.println(fmt.Sprintf("  %-28s %s", name, format.Muted(c.Help)))
	}
}
