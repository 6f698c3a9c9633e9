package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"todoBoard/internal/board"
	"todoBoard/internal/logger"

	flag "github.com/spf13/pflag"
)

const usage = `usage: board [flags] <command> [args]

commands:
  list                          print the board once
  watch                         redraw the board until interrupted
  add -d DEADLINE TEXT...       create a task
  done ID                       toggle a task's done flag
  edit ID [-t TEXT] [-d DEADLINE]
                                change a task's text and/or deadline
  rm ID [-y]                    delete a task

flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err != errUsage && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "board:", err)
		}
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("board", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.Usage = func() {
		fmt.Fprint(stderr, usage)
		global.PrintDefaults()
	}

	server := global.StringP("server", "s", envOr("TODO_BOARD_SERVER", "http://localhost:3000"), "todo API base URL")
	interval := global.Duration("interval", board.DefaultPollInterval, "refresh interval for watch")
	verbose := global.BoolP("verbose", "v", false, "log requests to stderr")

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}

	if *verbose {
		if err := logger.Init(true); err != nil {
			return err
		}
		defer logger.Sync()
	}

	term := &terminal{out: stdout}
	b := board.New(board.NewClient(*server), term, alerts{out: stderr}, board.WithPollInterval(*interval))

	command, rest := global.Arg(0), global.Args()[1:]
	switch command {
	case "list", "ls":
		return b.Load(ctx)

	case "watch":
		term.clear = true
		return b.Run(ctx)

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		fs.SetOutput(stderr)
		deadline := fs.StringP("deadline", "d", "", "deadline, e.g. 2099-01-01T09:00")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return b.Create(ctx, strings.Join(fs.Args(), " "), *deadline)

	case "done":
		id, err := single(rest)
		if err != nil {
			return err
		}
		if err := b.Load(ctx); err != nil {
			return err
		}
		return b.ToggleDone(ctx, id)

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ContinueOnError)
		fs.SetOutput(stderr)
		text := fs.StringP("text", "t", "", "new text")
		deadline := fs.StringP("deadline", "d", "", "new deadline")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := single(fs.Args())
		if err != nil {
			return err
		}
		return edit(ctx, b, id, fs.Changed("text"), *text, *deadline)

	case "rm", "delete":
		fs := flag.NewFlagSet("rm", flag.ContinueOnError)
		fs.SetOutput(stderr)
		yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		id, err := single(fs.Args())
		if err != nil {
			return err
		}
		if !*yes && !confirm(stdin, stdout, fmt.Sprintf("Delete task %s? [y/N] ", id)) {
			return nil
		}
		return b.Delete(ctx, id)

	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		global.Usage()
		return errUsage
	}
}

// edit keeps the current text unless a new one was given.
func edit(ctx context.Context, b *board.Board, id string, textChanged bool, text, deadline string) error {
	if err := b.Load(ctx); err != nil {
		return err
	}
	if err := b.BeginEdit(id); err != nil {
		return fmt.Errorf("task %s: %w", id, err)
	}

	if !textChanged {
		for _, row := range b.View().Rows {
			if row.Todo.ID == id {
				text = row.Draft.Text
			}
		}
	}
	return b.SaveEdit(ctx, id, text, deadline)
}

func single(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expected exactly one task id", errUsage)
	}
	return args[0], nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
