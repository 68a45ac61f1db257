package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"powgate/internal/entity"
)

// App runs one CLI command under a signal-scoped context, so an
// interrupt cancels an in-flight proof-of-work search.
type App struct {
	runner Runner
	args   []string
}

func New(runner Runner, args []string) *App {
	return &App{runner: runner, args: args}
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.runner.Run(ctx, a.args)
}

const registerFallback = "registration failed, please try again"
const loginFallback = "login failed, please try again"

// CLI dispatches the register/login/logout/whoami commands.
type CLI struct {
	log      *slog.Logger
	sessions SessionManager
	reg      Registrar
	out      io.Writer
}

func NewCLI(log *slog.Logger, sessions SessionManager, reg Registrar, out io.Writer) *CLI {
	return &CLI{log: log, sessions: sessions, reg: reg, out: out}
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: client <register|login|logout|whoami> [args]")
	}
	c.log.Debug("running command", "command", args[0])
	switch args[0] {
	case "register":
		return c.register(ctx, args[1:])
	case "login":
		return c.login(ctx, args[1:])
	case "logout":
		c.sessions.Logout()
		fmt.Fprintln(c.out, "logged out")
		return nil
	case "whoami":
		return c.whoami(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// register creates the account and, on success, hands control to the
// auth flow so the new user ends up logged in.
func (c *CLI) register(ctx context.Context, args []string) error {
	creds, err := credsFromArgs(args, "register")
	if err != nil {
		return err
	}
	if err := c.reg.Submit(ctx, creds); err != nil {
		fmt.Fprintln(c.out, entity.UserMessage(err, registerFallback))
		return err
	}
	fmt.Fprintln(c.out, "account created")

	profile, err := c.sessions.Login(ctx, creds)
	if err != nil {
		fmt.Fprintln(c.out, entity.UserMessage(err, loginFallback))
		return err
	}
	fmt.Fprintf(c.out, "logged in as %s\n", profile.Username)
	return nil
}

func (c *CLI) login(ctx context.Context, args []string) error {
	creds, err := credsFromArgs(args, "login")
	if err != nil {
		return err
	}
	profile, err := c.sessions.Login(ctx, creds)
	if err != nil {
		fmt.Fprintln(c.out, entity.UserMessage(err, loginFallback))
		return err
	}
	fmt.Fprintf(c.out, "logged in as %s\n", profile.Username)
	return nil
}

func (c *CLI) whoami(ctx context.Context) error {
	if c.sessions.Restore(ctx) == entity.StateAuthenticated {
		if profile, ok := c.sessions.Profile(); ok {
			fmt.Fprintln(c.out, profile.Username)
			return nil
		}
	}
	fmt.Fprintln(c.out, "anonymous")
	return nil
}

func credsFromArgs(args []string, cmd string) (entity.Credentials, error) {
	if len(args) != 2 {
		return entity.Credentials{}, fmt.Errorf("usage: client %s <username> <password>", cmd)
	}
	return entity.Credentials{Username: args[0], Password: args[1]}, nil
}
