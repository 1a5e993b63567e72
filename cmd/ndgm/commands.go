package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/ndgm-hq/ndgm-rfid-client/pkg/api"
)

// runner carries the lazily opened client into command handlers.
type runner struct {
	out    io.Writer
	client *api.Client
	open   func() error
	close  func()
	opts   options
}

type options struct {
	Output string `short:"o" long:"output" choice:"json" choice:"yaml" default:"json" description:"output format"`

	Base     baseCommand     `command:"base" description:"show or set the API base URL"`
	Login    loginCommand    `command:"login" description:"log in and store the token"`
	Logout   logoutCommand   `command:"logout" description:"forget the stored token and user"`
	Whoami   whoamiCommand   `command:"whoami" description:"show the stored user"`
	Register registerCommand `command:"register" description:"register a user"`
	Scan     scanCommand     `command:"scan" description:"record an RFID scan"`
	Logs     logsCommand     `command:"logs" description:"list access logs (filters as key=value)"`
	Users    usersCommand    `command:"users" description:"list users"`
	Get      getCommand      `command:"get" description:"GET an arbitrary API path"`
}

func (r *runner) parse(args []string) error {
	r.opts.Base.r = r
	r.opts.Login.r = r
	r.opts.Logout.r = r
	r.opts.Whoami.r = r
	r.opts.Register.r = r
	r.opts.Scan.r = r
	r.opts.Logs.r = r
	r.opts.Users.r = r
	r.opts.Get.r = r

	parser := flags.NewParser(&r.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if r.client == nil && r.open != nil {
			if err := r.open(); err != nil {
				return err
			}
		}
		if r.close != nil {
			defer r.close()
		}
		return cmd.Execute(args)
	}
	_, err := parser.ParseArgs(args)
	return err
}

func (r *runner) print(v any) error {
	return writeOutput(r.out, r.opts.Output, v)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

type baseCommand struct {
	r    *runner
	Args struct {
		URL string `positional-arg-name:"url"`
	} `positional-args:"yes"`
}

func (c *baseCommand) Execute([]string) error {
	if c.Args.URL == "" {
		return c.r.print(map[string]string{"baseUrl": c.r.client.Base()})
	}
	base, err := c.r.client.SetBase(c.Args.URL)
	if err != nil {
		return err
	}
	return c.r.print(map[string]string{"baseUrl": base})
}

type loginCommand struct {
	r        *runner
	IDNumber string `short:"i" long:"id" required:"true" description:"user id number"`
	Password string `short:"p" long:"password" env:"NDGM_PASSWORD" required:"true" description:"password"`
}

func (c *loginCommand) Execute([]string) error {
	ctx, stop := signalContext()
	defer stop()

	resp, err := c.r.client.Login(ctx, c.IDNumber, c.Password)
	if err != nil {
		return err
	}
	return c.r.print(map[string]any{
		"loggedIn": resp.Token != "",
		"user":     resp.User,
	})
}

type logoutCommand struct {
	r *runner
}

func (c *logoutCommand) Execute([]string) error {
	if err := c.r.client.Logout(); err != nil {
		return err
	}
	return c.r.print(map[string]bool{"loggedIn": false})
}

type whoamiCommand struct {
	r *runner
}

func (c *whoamiCommand) Execute([]string) error {
	return c.r.print(map[string]any{
		"baseUrl":  c.r.client.Base(),
		"loggedIn": c.r.client.Token() != "",
		"user":     c.r.client.StoredUser(),
	})
}

type registerCommand struct {
	r        *runner
	Name     string `short:"n" long:"name" required:"true" description:"full name"`
	IDNumber string `short:"i" long:"id" required:"true" description:"user id number"`
	Role     string `short:"r" long:"role" default:"user" description:"role"`
}

func (c *registerCommand) Execute([]string) error {
	ctx, stop := signalContext()
	defer stop()

	resp, err := c.r.client.Register(ctx, c.Name, c.IDNumber, c.Role)
	if err != nil {
		return err
	}
	return c.r.print(resp)
}

type scanCommand struct {
	r         *runner
	User      string `short:"u" long:"user" required:"true" description:"user id number on the badge"`
	ScannerID string `short:"s" long:"scanner" required:"true" description:"rfid scanner id"`
}

func (c *scanCommand) Execute([]string) error {
	ctx, stop := signalContext()
	defer stop()

	resp, err := c.r.client.Scan(ctx, c.User, c.ScannerID)
	if err != nil {
		return err
	}
	return c.r.print(resp)
}

type logsCommand struct {
	r *runner
}

func (c *logsCommand) Execute(args []string) error {
	query, err := parseQuery(args)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	logs, err := c.r.client.GetLogs(ctx, query)
	if err != nil {
		return err
	}
	if logs == nil {
		logs = []api.LogEntry{}
	}
	return c.r.print(logs)
}

type usersCommand struct {
	r *runner
}

func (c *usersCommand) Execute([]string) error {
	ctx, stop := signalContext()
	defer stop()

	users, err := c.r.client.GetUsers(ctx)
	if err != nil {
		return err
	}
	if users == nil {
		users = []api.User{}
	}
	return c.r.print(users)
}

type getCommand struct {
	r    *runner
	Args struct {
		Path string `positional-arg-name:"path" required:"yes"`
	} `positional-args:"yes"`
}

func (c *getCommand) Execute([]string) error {
	ctx, stop := signalContext()
	defer stop()

	data, err := c.r.client.Get(ctx, c.Args.Path)
	if err != nil {
		return err
	}
	return c.r.print(data)
}

// parseQuery turns ["from=2024-01-01", "to=2024-02-01"] into a LogQuery.
func parseQuery(args []string) (api.LogQuery, error) {
	if len(args) == 0 {
		return nil, nil
	}
	q := make(api.LogQuery, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid filter %q (expected key=value)", arg)
		}
		q[k] = v
	}
	return q, nil
}
