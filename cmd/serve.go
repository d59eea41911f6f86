package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/isometry/lambda-http-server/internal/capture"
	"github.com/isometry/lambda-http-server/internal/config"
	"github.com/isometry/lambda-http-server/internal/controllers/aws"
	"github.com/isometry/lambda-http-server/internal/cors"
	"github.com/isometry/lambda-http-server/internal/environment"
	"github.com/isometry/lambda-http-server/internal/helpers"
	"github.com/isometry/lambda-http-server/internal/request"
	"github.com/isometry/lambda-http-server/internal/runtime"
	"github.com/isometry/lambda-http-server/pkg/invocation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdServe() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s", "service", "server"},
		Short:   "Serve the handler until interrupted (default)",
		RunE:    runServe,
	}
}

func identity() invocation.Identity {
	id := invocation.DefaultIdentity()
	id.FunctionName = config.Function.Name
	id.FunctionVersion = config.Function.Version
	id.Region = config.Function.Region
	id.AccountID = config.Function.AccountID
	id.APIID = config.Function.APIID
	id.DomainName = config.Function.DomainName
	id.DomainPrefix = config.Function.DomainPrefix
	id.MemoryLimitInMB = config.Function.MemoryLimitInMB
	id.LogGroupName = config.Function.LogGroupName
	id.LogStreamName = config.Function.LogStreamName
	return id
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := config.Validate(); err != nil {
		return err
	}
	handlerPath := invocation.NormalisePath(config.Service.Handler)
	handler, err := invocation.Resolve(handlerPath)
	if err != nil {
		logger.Error("failed to resolve handler", slog.String("handler", handlerPath), slog.Any("error", err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id := identity()
	var controller *aws.Controller
	if len(config.Environment.SSM) > 0 || config.Capture.Enabled {
		logger.Debug("Creating AWS controller...")
		controller, err = aws.NewController(ctx,
			aws.WithLogger(logger),
			aws.WithRegion(config.AWS.Region),
			aws.WithEndpoint(config.AWS.Endpoint))
		if err != nil {
			return err
		}
	}

	envOpts := []environment.Option{
		environment.WithLogger(logger),
		environment.WithFiles(config.Environment.Files...),
	}
	if controller != nil {
		envOpts = append(envOpts, environment.WithSSM(controller, config.Environment.SSM))
	}
	if err = environment.NewLoader(id, envOpts...).Load(ctx); err != nil {
		return errors.Wrap(err, "failed to load handler environment")
	}

	rtOpts := []runtime.Option{
		runtime.WithLogger(logger.With("component", "runtime")),
		runtime.WithTranslator(&request.Translator{Identity: &id}),
		runtime.WithPolicy(cors.NewPolicy(cors.WithLogger(logger.With("component", "cors")))),
		runtime.WithRethrow(config.Service.Rethrow),
		runtime.WithDumpEvents(config.Service.DumpEvents),
	}
	if config.Capture.Enabled {
		rtOpts = append(rtOpts, runtime.WithRecorder(capture.NewS3Recorder(controller, config.Capture.Bucket,
			capture.WithPrefix(config.Capture.Prefix))))
	}

	logger.Debug("Creating runtime...")
	rt := runtime.NewRuntime(handler, rtOpts...)

	// request lines are always printed, like a development web server
	accessLogger := helpers.NewLogger(logOutput, config.Global.Logging.Format,
		min(slog.LevelInfo, slog.LevelWarn-slog.Level(config.Global.Logging.Verbosity*4)),
		false).With("component", "access")

	s := &http.Server{
		Handler:           runtime.AccessLog(accessLogger, rt),
		Addr:              net.JoinHostPort(config.Service.Host, strconv.Itoa(config.Service.Port)),
		ReadHeaderTimeout: config.Service.ReadHeaderTimeout,
		WriteTimeout:      config.Service.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(logger.With("component", "http").Handler(), slog.LevelError),
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.Addr)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Starting server on http://%s\nHandler: %s\n", ln.Addr(), handlerPath)
	logger.Info("Serving...", "address", ln.Addr().String(), "handler", handlerPath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(ln)
	}()

	select {
	case err = <-errCh:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.Service.ShutdownTimeout)
	defer cancel()
	if err = s.Shutdown(shutdownCtx); err != nil {
		logger.Warn("abandoning in-flight requests", slog.Any("error", err), slog.Duration("timeout", config.Service.ShutdownTimeout))
		return s.Close()
	}
	return nil
}

