package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/linkpuzzle/internal/errors"
	"github.com/vytor/linkpuzzle/internal/game"
	"github.com/vytor/linkpuzzle/internal/render"
	"github.com/vytor/linkpuzzle/internal/services"
	"github.com/vytor/linkpuzzle/internal/share"
)

func printBoard(w io.Writer, s *game.Session) {
	fmt.Fprintln(w, render.Header(s.Puzzle().DayIndex))
	fmt.Fprint(w, render.Board(s))
	if h := render.History(s.History()); h != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w, render.Status(s))
}

func printFinish(ctx context.Context, w io.Writer, a *app, s *game.Session) {
	st := a.svc.Stats(ctx)
	highlight := 0
	if s.State() == game.Solved {
		highlight = s.GuessesUsed()
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, render.Stats(st, highlight))
	fmt.Fprintln(w)
	fmt.Fprintln(w, shareText(a, s))
}

func shareText(a *app, s *game.Session) string {
	return share.Text(share.Result{
		DayIndex:   s.Puzzle().DayIndex,
		History:    s.History(),
		Solved:     s.State() == game.Solved,
		MaxGuesses: s.Puzzle().MaxGuesses,
	}, a.cfg.ShareURL)
}

// printOutcome reports a submitted guess and returns whether the game ended.
func printOutcome(w io.Writer, s *game.Session, guess string, res services.SubmitResult) bool {
	switch res.Outcome.Kind {
	case game.OutcomeIgnored:
		return false
	case game.OutcomeInvalid:
		fmt.Fprintln(w, render.Invalid(game.Normalize(guess)))
		return false
	}
	fmt.Fprintln(w, render.Guess(res.Outcome.Record))
	fmt.Fprintln(w)
	printBoard(w, s)
	return res.Outcome.Terminal()
}

func confirm(w io.Writer, in *bufio.Scanner, prompt string) bool {
	fmt.Fprint(w, prompt)
	if !in.Scan() {
		return false
	}
	ans := strings.ToLower(strings.TrimSpace(in.Text()))
	return ans == "" || ans == "y" || ans == "yes"
}

func playCmd(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	s, _, err := a.svc.Load(ctx)
	for err != nil {
		if !errors.IsRetryable(err) || !confirm(w, in, fmt.Sprintf("Could not load the puzzle: %v\nretry? [Y/n] ", err)) {
			return err
		}
		s, _, err = a.svc.Load(ctx)
	}

	printBoard(w, s)
	if s.Over() {
		printFinish(ctx, w, a, s)
		return nil
	}

	for {
		fmt.Fprint(w, "> ")
		if !in.Scan() {
			fmt.Fprintln(w)
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		switch strings.ToLower(line) {
		case "?":
			fmt.Fprintln(w, render.Hints(s.Puzzle().Hints))
			continue
		case "q", "quit", "exit":
			return nil
		}

		res, err := a.svc.Submit(ctx, line)
		for err != nil && errors.IsRetryable(err) {
			if !confirm(w, in, fmt.Sprintf("Could not send %q: %v\nretry? [Y/n] ", line, err)) {
				break
			}
			res, err = a.svc.Submit(ctx, line)
		}
		// A conflict reloads the session from the server.
		s = a.svc.Session()
		if err != nil {
			if stderrors.Is(err, game.ErrGameOver) {
				fmt.Fprintln(w, "This puzzle was already finished on the server.")
				printBoard(w, s)
				printFinish(ctx, w, a, s)
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			continue
		}

		if printOutcome(w, s, line, res) {
			printFinish(ctx, w, a, s)
			return nil
		}
	}
}
