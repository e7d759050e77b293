// Package cli is the wanderstayctl command tree. It drives the same buses as the HTTP server,
// backed by in-process stores, so quotes match what the booking page would show.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"wanderstay/internal/app/wiring"
	domainbooking "wanderstay/internal/domain/booking"
	"wanderstay/internal/infra/obs"
	"wanderstay/internal/infra/seed"
	"wanderstay/internal/infra/storage/memory"
)

type rootOptions struct {
	fixtures string
	json     bool
	currency string
	hallFee  int64
	verbose  bool
}

// session is filled by the root pre-run hook before any subcommand runs.
type session struct {
	opts  rootOptions
	buses wiring.Buses
}

func NewRootCmd() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:           "wanderstayctl",
		Short:         "Search destinations and price stays from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if s.opts.hallFee < 0 {
				return fmt.Errorf("--hall-fee must not be negative")
			}
			catalog, err := seed.LoadFile(s.opts.fixtures)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if s.opts.verbose {
				logger = obs.NewLoggerTo(cmd.ErrOrStderr(), "dev")
			}
			s.buses = wiring.NewBuses(wiring.Deps{
				Catalog:         catalog,
				Verifications:   memory.NewVerificationRepository(),
				Uploader:        memory.NewDocumentStore(""),
				Outbox:          memory.NewOutbox(),
				Idempotency:     memory.NewIdempotencyStore(),
				Policy:          domainbooking.Policy{Currency: strings.ToUpper(s.opts.currency), HallFee: s.opts.hallFee},
				SuggestMinChars: 2,
				Logger:          logger,
			})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.opts.fixtures, "fixtures", "", "Destination fixtures JSON (defaults to the bundled catalog)")
	flags.BoolVar(&s.opts.json, "json", false, "Output JSON")
	flags.StringVar(&s.opts.currency, "currency", domainbooking.DefaultCurrency, "Currency for quotes")
	flags.Int64Var(&s.opts.hallFee, "hall-fee", domainbooking.DefaultHallFee, "Flat banquet hall fee")
	flags.BoolVarP(&s.opts.verbose, "verbose", "v", false, "Log bus traffic to stderr")

	root.AddCommand(searchCmd(s))
	root.AddCommand(destinationCmd(s))
	root.AddCommand(amenitiesCmd(s))
	root.AddCommand(suggestCmd(s))
	root.AddCommand(quoteCmd(s))
	return root
}

// Execute runs the command tree against os.Args and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}
