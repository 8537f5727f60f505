// Package grpc provides gRPC server interceptors for the signed-cookie
// middleware.
//
// The interceptors build the same variable scope as the HTTP middleware from
// the incoming metadata: cookies come from the "cookie" metadata entries,
// http_* variables from the other entries, remote_addr from the peer and uri
// from the full method name. gRPC has no form body, so request_body and the
// form variables are never found.
//
// # Basic Usage
//
//	middleware, err := cookiemiddleware.New(
//	    cookiemiddleware.WithConfig(scope),
//	    cookiemiddleware.WithRequireValid(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	interceptor, err := cookiegrpc.New(
//	    cookiegrpc.WithMiddleware(middleware),
//	    cookiegrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// Locations are matched against the full method name, so a scope configured
// under "/myapp.Downloads/" applies to every method of that service.
//
// # Error Handling
//
// With enforcement enabled, DefaultErrorHandler maps a missing cookie to
// codes.Unauthenticated, a wrong or expired one to codes.PermissionDenied and
// evaluation failures to codes.Internal.
//
// # Reading Variables
//
//	func (s *server) Download(ctx context.Context, req *pb.DownloadRequest) (*pb.Chunk, error) {
//	    if !cookiegrpc.Valid(ctx) {
//	        return nil, status.Error(codes.PermissionDenied, "forbidden")
//	    }
//	    ...
//	}
package grpc
