package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/ndgm-hq/ndgm-rfid-client/internal/app"
	"github.com/ndgm-hq/ndgm-rfid-client/internal/config"
	"github.com/ndgm-hq/ndgm-rfid-client/internal/logger"
	"github.com/ndgm-hq/ndgm-rfid-client/pkg/api"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, flagsErr.Message)
			return
		}
		fmt.Fprintf(os.Stderr, "ndgm: %v\n", describeError(err))
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	r := &runner{out: stdout}
	r.open = func() error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log, err := logger.Init(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		a, err := app.New(cfg, log)
		if err != nil {
			_ = logger.Close()
			return fmt.Errorf("init app: %w", err)
		}
		r.client = a.Client()
		r.close = func() {
			_ = a.Close()
			_ = logger.Close()
		}
		return nil
	}
	return r.parse(args)
}

// describeError adds the status code to API errors.
func describeError(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Kind == api.KindHTTP {
		return fmt.Sprintf("%s (status %d)", apiErr.Message, apiErr.StatusCode)
	}
	return err.Error()
}
