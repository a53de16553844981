package api

import (
	"context"
	"io"
	"math"
	"net"
	"strconv"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func startGRPC(t *testing.T, env *testEnv) *grpc.ClientConn {
	t.Helper()
	logger := zerolog.New(io.Discard)
	lis := bufconn.Listen(1 << 20)

	srv, err := newGRPCServer(env.cfg, env.deps.Bookings, lis, &logger)
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func invoke(ctx context.Context, conn *grpc.ClientConn, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	err = conn.Invoke(ctx, "/"+bookingServiceName+"/"+method, in, out)
	return out, err
}

func asUser(id string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "x-sharer-user-id", id)
}

func TestGRPCBookingService(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("Owner")
	booker := env.createUser("Booker")
	drill := env.createItem(owner, "Drill", true)
	rec := env.createBooking(booker, drill, "2025-01-10T10:00:00Z", "2025-01-12T10:00:00Z")
	booking := decode[models.Booking](t, rec)

	conn := startGRPC(t, env)
	ownerCtx := asUser(itoa(owner))

	t.Run("GetBooking", func(t *testing.T) {
		resp, err := invoke(ownerCtx, conn, "GetBooking", map[string]any{"id": booking.ID})
		require.NoError(t, err)
		fields := resp.AsMap()
		assert.Equal(t, float64(booking.ID), fields["id"])
		assert.Equal(t, "WAITING", fields["status"])
		assert.Equal(t, "2025-01-10T10:00:00Z", fields["start"])
	})

	t.Run("HiddenFromStranger", func(t *testing.T) {
		_, err := invoke(asUser("999"), conn, "GetBooking", map[string]any{"id": booking.ID})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("MissingUser", func(t *testing.T) {
		_, err := invoke(context.Background(), conn, "GetBooking", map[string]any{"id": booking.ID})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("ListOwnerBookings", func(t *testing.T) {
		resp, err := invoke(ownerCtx, conn, "ListOwnerBookings", map[string]any{"state": "future", "size": 5})
		require.NoError(t, err)
		list := resp.GetFields()["bookings"].GetListValue().GetValues()
		require.Len(t, list, 1)
		assert.Equal(t, "Drill", list[0].GetStructValue().GetFields()["item_name"].GetStringValue())
	})

	t.Run("ListUserBookings", func(t *testing.T) {
		resp, err := invoke(asUser(itoa(booker)), conn, "ListUserBookings", map[string]any{"state": "PAST"})
		require.NoError(t, err)
		assert.Empty(t, resp.GetFields()["bookings"].GetListValue().GetValues())
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		_, err := invoke(ownerCtx, conn, "ListOwnerBookings", map[string]any{"state": "SOMETIMES"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))

		_, err = invoke(ownerCtx, conn, "ListOwnerBookings", map[string]any{"size": 0})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("NonIntegerNumbers", func(t *testing.T) {
		// 1.5 would otherwise truncate to an existing booking id
		_, err := invoke(ownerCtx, conn, "GetBooking", map[string]any{"id": float64(booking.ID) + 0.5})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))

		_, err = invoke(ownerCtx, conn, "ListOwnerBookings", map[string]any{"size": 2.5})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))

		_, err = invoke(ownerCtx, conn, "ListOwnerBookings", map[string]any{"from": "10"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("OwnerWithoutItems", func(t *testing.T) {
		_, err := invoke(asUser(itoa(booker)), conn, "ListOwnerBookings", map[string]any{})
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})
}

func TestGRPCServer_Auth(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.API.Auth = config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			APIKeys:      []config.APIClientKey{{Key: "secret", Name: "crm"}},
		}
	})
	conn := startGRPC(t, env)

	_, err := invoke(asUser("1"), conn, "GetBooking", map[string]any{"id": 1})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(asUser("1"), "x-api-key", "secret")
	_, err = invoke(ctx, conn, "GetBooking", map[string]any{"id": 1})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestIntField(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int64
		present bool
		wantErr bool
	}{
		{"Whole", 42.0, 42, true, false},
		{"Negative", -3.0, -3, true, false},
		{"Fraction", 1.5, 0, false, true},
		{"NaN", math.NaN(), 0, false, true},
		{"Inf", math.Inf(1), 0, false, true},
		{"TooLarge", math.Pow(2, 60), 0, false, true},
		{"String", "7", 0, false, true},
		{"Missing", nil, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := map[string]any{}
			if tt.value != nil {
				fields["n"] = tt.value
			}
			req, err := structpb.NewStruct(fields)
			require.NoError(t, err)

			got, present, err := intField(req, "n")
			if tt.wantErr {
				assert.Equal(t, codes.InvalidArgument, status.Code(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.present, present)
			assert.Equal(t, tt.want, got)
		})
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
