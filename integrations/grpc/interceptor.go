package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"

	cookiemiddleware "github.com/auth0/go-cookie-middleware"
	"github.com/auth0/go-cookie-middleware/core"
)

// Interceptor attaches the signed-cookie variable scope to gRPC calls.
type Interceptor struct {
	middleware      *cookiemiddleware.Middleware
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          Logger
}

// New creates a new gRPC interceptor with the provided options.
// WithMiddleware option is required.
func New(opts ...Option) (*Interceptor, error) {
	interceptor := &Interceptor{
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	if interceptor.middleware == nil {
		return nil, errors.New("middleware is required, use WithMiddleware option")
	}

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor. The variable
// scope is available to the handler and released when it returns.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping variables for excluded method",
					"method", info.FullMethod)
			}
			return handler(ctx, req)
		}

		ctx, release, err := i.attach(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		defer release()

		return handler(ctx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor. The
// variable scope lives as long as the stream handler.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping variables for excluded method",
					"method", info.FullMethod)
			}
			return handler(srv, ss)
		}

		ctx, release, err := i.attach(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		defer release()

		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          ctx,
		})
	}
}

func (i *Interceptor) attach(ctx context.Context, method string) (context.Context, func(), error) {
	creq := i.middleware.NewRequest(ctx, method, NewMetadataSource(ctx, method))

	if i.middleware.RequireValid() {
		if err := i.middleware.Check(creq); err != nil {
			creq.Release()
			if i.logger != nil {
				i.logger.Warn("signed cookie check failed",
					"error", err,
					"method", method)
			}
			return ctx, nil, i.errorHandler(err)
		}
	}

	return core.WithRequest(ctx, creq), creq.Release, nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the context carrying the variable scope.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// Get resolves a variable for a call passed through the interceptor.
func Get(ctx context.Context, name string) (core.Value, error) {
	return core.Get(ctx, name)
}

// Valid reports whether the call carries a valid signed cookie.
func Valid(ctx context.Context) bool {
	v, err := core.Get(ctx, cookiemiddleware.VarSecureCookie)
	return err == nil && v.Bool()
}
