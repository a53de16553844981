package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"shareit/internal/config"
	"shareit/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func okHandler(_ context.Context, _ any) (any, error) {
	return "ok", nil
}

func TestAuthInterceptor(t *testing.T) {
	cfg := config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "X-Api-Key",
			APIKeys: []config.APIClientKey{
				{Key: "reader", Name: "reader", Permissions: []string{permReadBookings}},
				{Key: "items-only", Name: "items", Permissions: []string{permReadItems}},
				{Key: "any", Name: "any"},
			},
		},
		RateLimit: config.APIRateLimitConfig{RPS: 100, Burst: 200},
	}

	interceptor := NewAuthInterceptor(&cfg).Unary()
	info := &grpc.UnaryServerInfo{FullMethod: "/" + bookingServiceName + "/GetBooking"}
	withKey := func(key string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-api-key", key))
	}

	tests := []struct {
		name string
		ctx  context.Context
		code codes.Code
	}{
		{"Success", withKey("reader"), codes.OK},
		{"EmptyPermissionsAllowAll", withKey("any"), codes.OK},
		{"MissingMetadata", context.Background(), codes.Unauthenticated},
		{"MissingKey", metadata.NewIncomingContext(context.Background(), metadata.Pairs()), codes.Unauthenticated},
		{"InvalidKey", withKey("nope"), codes.Unauthenticated},
		{"PermissionDenied", withKey("items-only"), codes.PermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := interceptor(tt.ctx, "req", info, okHandler)
			assert.Equal(t, tt.code, status.Code(err))
			if tt.code == codes.OK {
				assert.Equal(t, "ok", resp)
			}
		})
	}
}

func TestAuthInterceptor_RateLimit(t *testing.T) {
	cfg := config.APIConfig{RateLimit: config.APIRateLimitConfig{RPS: 0.001, Burst: 1}}
	interceptor := NewAuthInterceptor(&cfg).Unary()
	info := &grpc.UnaryServerInfo{FullMethod: "/" + bookingServiceName + "/GetBooking"}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-api-key", "k"))

	_, err := interceptor(ctx, "req", info, okHandler)
	require.NoError(t, err)
	_, err = interceptor(ctx, "req", info, okHandler)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	other := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-api-key", "other"))
	_, err = interceptor(other, "req", info, okHandler)
	assert.NoError(t, err, "buckets are per client")
}

func TestErrorUnaryInterceptor(t *testing.T) {
	logger := zerolog.Nop()
	interceptor := ErrorUnaryInterceptor(&logger)
	info := &grpc.UnaryServerInfo{FullMethod: "/test"}

	tests := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{domain.NotFound(domain.EntityBooking, 3), codes.NotFound, "Booking with id=3 not found"},
		{domain.InvalidState("status", "booking should be in status WAITING"), codes.InvalidArgument, ""},
		{domain.NotAllowed("Not authorized"), codes.PermissionDenied, "Not authorized"},
		{domain.ErrConflict, codes.AlreadyExists, ""},
		{errors.New("db down"), codes.Internal, "internal error"},
		{status.Error(codes.Unavailable, "keep"), codes.Unavailable, "keep"},
	}
	for _, tt := range tests {
		_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
			return nil, tt.err
		})
		st, _ := status.FromError(err)
		assert.Equal(t, tt.code, st.Code(), tt.err.Error())
		if tt.msg != "" {
			assert.Equal(t, tt.msg, st.Message())
		}
	}

	resp, err := interceptor(context.Background(), nil, info, okHandler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestRequestIDFromMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(requestIDMetadataKey, "abc"))
	assert.Equal(t, "abc", requestIDFromMetadata(ctx))
	assert.Len(t, requestIDFromMetadata(context.Background()), 36)
}

func TestUserIDFromMetadata(t *testing.T) {
	header := "x-sharer-user-id"

	id, err := userIDFromMetadata(metadata.NewIncomingContext(context.Background(), metadata.Pairs(header, "7")), header)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	for _, raw := range []string{"", "abc", "-1"} {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(header, raw))
		_, err := userIDFromMetadata(ctx, header)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), raw)
	}
}

func TestRequiredPermissionHTTP(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{"GET", "/bookings/owner", permReadBookings},
		{"PATCH", "/bookings/1", permWriteBookings},
		{"GET", "/items/search", permReadItems},
		{"POST", "/items/1/comment", permWriteItems},
		{"DELETE", "/users/1", permWriteUsers},
		{"GET", "/users", permReadUsers},
		{"GET", "/other", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.path, nil)
		assert.Equal(t, tt.want, requiredPermissionHTTP(r), tt.method+" "+tt.path)
	}
}

func TestBuildTLSConfig(t *testing.T) {
	_, err := buildTLSConfig(config.APITLSConfig{Enabled: true})
	assert.Error(t, err)

	_, err = buildTLSConfig(config.APITLSConfig{Enabled: true, CertFile: "/nonexistent", KeyFile: "/nonexistent"})
	assert.Error(t, err)
}
