package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-auth-client/internal/config"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	os.Exit(exitCode(run(os.Args[1:])))
}

// exitCode maps a command error to the process exit status. Interrupted commands exit with 130.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.Is(err, context.Canceled):
		log.Warn().Msg("interrupted")
		return 130
	default:
		log.Error().Err(err).Msg("command failed")
		return 1
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c.GetLogLevel())
	log.Debug().Str("app", c.GetAppName()).Str("env", c.GetEnv()).Msg("starting")

	if len(args) == 0 {
		displayAppname(c.GetAppName())
		usage()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, ok := commands[args[0]]
	if !ok {
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	app, err := newApp(ctx, c)
	if err != nil {
		return err
	}
	defer app.Close()
	return cmd.run(ctx, app, args[1:])
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: identity <command> [arguments]")
	fmt.Fprintln(os.Stderr)
	for _, name := range commandOrder {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", name, commands[name].help)
	}
}
