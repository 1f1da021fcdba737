package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sudeviagro/backoffice/internal/kernel"
	"github.com/sudeviagro/backoffice/internal/server"
	"github.com/sudeviagro/backoffice/pkg/event"
	"github.com/sudeviagro/backoffice/pkg/mirror"
)

// backoffice serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, gRPC health, queue workers and scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		return server.Start(ctx, app)
	},
}

// backoffice route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := kernel.NewDeps(mirror.NewSimulatedStore(), nil, nil, event.NewDispatcher(), nil)
		r, err := kernel.Router(deps)
		if err != nil {
			return err
		}

		infos := r.Routes()
		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

// boot is kernel.Boot for one-shot commands. The caller must run the
// returned cleanup.
func boot(ctx context.Context) (*kernel.App, func(), error) {
	app, err := kernel.Boot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return app, func() {
		if err := app.Close(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "close:", err)
		}
	}, nil
}
