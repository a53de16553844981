package api

import (
	"context"
	"math"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const bookingServiceName = "shareit.booking.v1.BookingService"

// bookingServer is the read side of the booking engine exposed over gRPC.
// Messages are google.protobuf.Struct so no generated code is needed.
type bookingServer interface {
	GetBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListUserBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListOwnerBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var bookingServiceDesc = grpc.ServiceDesc{
	ServiceName: bookingServiceName,
	HandlerType: (*bookingServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("GetBooking", bookingServer.GetBooking),
		unaryMethod("ListUserBookings", bookingServer.ListUserBookings),
		unaryMethod("ListOwnerBookings", bookingServer.ListOwnerBookings),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shareit/booking/v1/booking.proto",
}

func unaryMethod(
	name string,
	call func(bookingServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) grpc.MethodDesc {
	fullMethod := "/" + bookingServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(bookingServer), ctx, req.(*structpb.Struct))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handler)
		},
	}
}

type BookingGRPCService struct {
	bookings    domain.BookingService
	userHeader  string
	defaultSize int
	maxSize     int
}

func NewBookingGRPCService(bookings domain.BookingService, userHeader string, defaultSize, maxSize int) *BookingGRPCService {
	return &BookingGRPCService{
		bookings:    bookings,
		userHeader:  userHeader,
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

func (s *BookingGRPCService) GetBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromMetadata(ctx, s.userHeader)
	if err != nil {
		return nil, err
	}

	id, ok, err := intField(req, "id")
	if err != nil {
		return nil, err
	}
	if !ok || id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	booking, err := s.bookings.GetBooking(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(bookingFields(booking))
}

func (s *BookingGRPCService) ListUserBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.list(ctx, req, s.bookings.GetUserBookings)
}

func (s *BookingGRPCService) ListOwnerBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.list(ctx, req, s.bookings.GetOwnerBookings)
}

type listFunc func(ctx context.Context, userID int64, state models.BookingState, from, size int) ([]*models.Booking, error)

func (s *BookingGRPCService) list(ctx context.Context, req *structpb.Struct, fetch listFunc) (*structpb.Struct, error) {
	userID, err := userIDFromMetadata(ctx, s.userHeader)
	if err != nil {
		return nil, err
	}

	state, err := models.ParseBookingState(req.GetFields()["state"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	from, size := 0, s.defaultSize
	if v, ok, err := intField(req, "from"); err != nil {
		return nil, err
	} else if ok {
		from = int(v)
	}
	if v, ok, err := intField(req, "size"); err != nil {
		return nil, err
	} else if ok {
		size = int(v)
	}
	if from < 0 || size <= 0 || size > s.maxSize {
		return nil, status.Errorf(codes.InvalidArgument, "invalid page from=%d size=%d", from, size)
	}

	bookings, err := fetch(ctx, userID, state, from, size)
	if err != nil {
		return nil, err
	}

	list := make([]any, 0, len(bookings))
	for _, b := range bookings {
		list = append(list, bookingFields(b))
	}
	return structpb.NewStruct(map[string]any{"bookings": list})
}

// maxExactInt is the largest integer a float64 number value holds exactly.
const maxExactInt = 1 << 53

// intField reads an optional integer. Struct numbers are float64, so fractional,
// non-finite and out of range values are rejected instead of truncated.
func intField(req *structpb.Struct, name string) (int64, bool, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, false, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	f := n.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return 0, false, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
	}
	return int64(f), true, nil
}

func bookingFields(b *models.Booking) map[string]any {
	return map[string]any{
		"id":          b.ID,
		"item_id":     b.ItemID,
		"item_name":   b.ItemName,
		"owner_id":    b.OwnerID,
		"booker_id":   b.BookerID,
		"booker_name": b.BookerName,
		"start":       b.Start.UTC().Format(time.RFC3339),
		"end":         b.End.UTC().Format(time.RFC3339),
		"status":      string(b.Status),
	}
}
