// Package server wires the catalog together and runs its listeners.
//
//	c, err := server.Boot(ctx, server.Options{Migrate: true})
//	defer c.Close()
//	err = server.Start(ctx, c)
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalog/config"
	kgrpc "github.com/shashiranjanraj/catalog/pkg/grpc"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Start serves HTTP on APP_PORT, and gRPC health on GRPC_PORT when set, until
// ctx is cancelled or a listener fails. In-flight requests get
// shutdownTimeout to finish.
func Start(ctx context.Context, c *Catalog) error {
	lis, err := net.Listen("tcp", ":"+config.AppPort())
	if err != nil {
		return err
	}
	return serve(ctx, c, lis, config.GRPCPort())
}

func serve(ctx context.Context, c *Catalog, lis net.Listener, grpcPort string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hubDone := make(chan struct{})
	go func() {
		c.Hub.Run(ctx)
		close(hubDone)
	}()

	srv := &http.Server{
		Handler:           c.Application().Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errc := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	if grpcPort != "" {
		gs := kgrpc.New(c.Service.Ping)
		glis, err := kgrpc.Listen(grpcPort)
		if err != nil {
			shutdownHTTP(srv)
			return err
		}
		go func() {
			logger.Info("gRPC server listening", "addr", glis.Addr().String())
			if err := gs.Serve(glis); err != nil {
				errc <- err
			}
		}()
		defer kgrpc.Stop(gs)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errc:
		logger.Error("listener failed", "error", runErr)
	}

	cancel()
	<-hubDone
	if err := shutdownHTTP(srv); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func shutdownHTTP(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown", "error", err)
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
