package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/linkpuzzle/internal/game"
	"github.com/vytor/linkpuzzle/internal/render"
	"github.com/vytor/linkpuzzle/internal/share"
)

func guessCmd(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	s, _, err := a.svc.Load(ctx)
	if err != nil {
		return err
	}
	if s.Over() {
		printBoard(w, s)
		return nil
	}

	word := strings.Join(args, " ")
	res, err := a.svc.Submit(ctx, word)
	if stderrors.Is(err, game.ErrGameOver) {
		s = a.svc.Session()
		printBoard(w, s)
		printFinish(ctx, w, a, s)
		return nil
	}
	if err != nil {
		return err
	}
	if res.Outcome.Kind == game.OutcomeIgnored {
		return fmt.Errorf("guess cannot be blank")
	}
	if printOutcome(w, s, word, res) {
		printFinish(ctx, w, a, s)
	}
	return nil
}

func statsCmd(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	// The streak can only be checked against today's puzzle; offline, show
	// what is stored.
	if _, _, err := a.svc.Load(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "could not reach the puzzle service, showing saved statistics: %v\n", err)
	}
	fmt.Fprint(w, render.Stats(a.svc.Stats(ctx), 0))
	return nil
}

func newShareCmd() *cobra.Command {
	var qrPath string
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print today's result for sharing",
		Args:  cobra.ExactArgs(0),
		RunE: run(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			s, _, err := a.svc.Load(ctx)
			if err != nil {
				return err
			}
			if !s.Over() {
				return fmt.Errorf("today's puzzle is not finished yet (%d guesses left)", s.GuessesLeft())
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, shareText(a, s))

			switch qrPath {
			case "":
			case "-":
				qr, err := share.TerminalQR(a.cfg.ShareURL)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "notice: %v\n", err)
					return nil
				}
				fmt.Fprint(w, qr)
			default:
				if err := share.WriteQR(a.cfg.ShareURL, qrPath, 256); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "notice: %v\n", err)
					return nil
				}
				fmt.Fprintf(w, "QR code written to %s\n", qrPath)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&qrPath, "qr", "", "also write a QR code of the play link to this PNG file (- prints it)")
	return cmd
}

func resetCmd(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	if err := a.svc.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Progress cleared; the next game starts a new server session. Statistics were kept.")
	return nil
}
