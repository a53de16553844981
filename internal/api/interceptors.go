package api

import (
	"context"
	"strconv"

	"shareit/internal/domain"
	"shareit/internal/logging"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ErrorUnaryInterceptor turns domain errors returned by handlers into gRPC statuses.
func ErrorUnaryInterceptor(logger *zerolog.Logger) grpc.UnaryServerInterceptor {
	log := logging.Component(logger, "grpc")

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := status.FromError(err); ok {
			return nil, err
		}

		code := grpcCode(err)
		if code == codes.Internal {
			log.Error().Err(err).Str("method", info.FullMethod).Msg("grpc handler failed")
			return nil, status.Error(code, "internal error")
		}
		return nil, status.Error(code, err.Error())
	}
}

func grpcCode(err error) codes.Code {
	switch {
	case domain.IsNotFoundError(err):
		return codes.NotFound
	case domain.IsBadRequestError(err):
		return codes.InvalidArgument
	case domain.IsForbiddenError(err):
		return codes.PermissionDenied
	case domain.IsConflictError(err):
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// userIDFromMetadata reads the acting user from the same header the HTTP API uses.
func userIDFromMetadata(ctx context.Context, header string) (int64, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	raw := first(md.Get(header))
	if raw == "" {
		return 0, status.Errorf(codes.InvalidArgument, "%s metadata is required", header)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, status.Errorf(codes.InvalidArgument, "invalid %s: %q", header, raw)
	}
	return id, nil
}
