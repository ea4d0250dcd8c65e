package main

import (
	"os"
	"os/signal"
	"syscall"

	phhttp "github.com/gogibeta/pageharvest/http"
	"golang.org/x/sync/errgroup"
)

// Run starts the HTTP service and blocks until interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := phhttp.New(phhttp.Config{
		Host:    c.Host,
		Port:    c.Port,
		Service: deps.Service,
		Cache:   deps.Cache,
		Metrics: phhttp.NewMetrics(),
		Logger:  deps.Logger,
	})

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx)
	})
	return g.Wait()
}
