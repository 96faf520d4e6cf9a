package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/server/auth"
)

func newTestServer(secret string) *GRPCServer {
	return &GRPCServer{
		logger:    nopLogger{},
		jwtSecret: []byte(secret),
	}
}

func TestInterceptor_DeviceMethod_AllowsWithoutToken(t *testing.T) {
	s := newTestServer("secret")

	ctx := context.Background()
	info := &grpc.UnaryServerInfo{FullMethod: "/evcam.v1.EVCam/Heartbeat"}
	handlerCalled := false

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(ctx, nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestInterceptor_OwnerMethod_MissingToken(t *testing.T) {
	s := newTestServer("secret")

	ctx := context.Background()
	info := &grpc.UnaryServerInfo{FullMethod: "/evcam.v1.EVCam/SendCommand"}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, info, h)
	if err == nil {
		t.Fatal("expected error")
	}
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "missing token" {
		t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_OwnerMethod_InvalidToken(t *testing.T) {
	s := newTestServer("secret")

	md := metadata.New(map[string]string{
		common.AccessTokenHeaderName: "not-a-valid-jwt",
	})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	info := &grpc.UnaryServerInfo{FullMethod: "/evcam.v1.EVCam/ListDevices"}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, info, h)
	if err == nil {
		t.Fatal("expected error")
	}
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_OwnerMethod_ValidTokenStampsUser(t *testing.T) {
	s := newTestServer("secret")

	token, err := auth.GenerateToken("user-42", s.jwtSecret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	md := metadata.New(map[string]string{
		common.AccessTokenHeaderName: token,
	})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	info := &grpc.UnaryServerInfo{FullMethod: "/evcam.v1.EVCam/BindDevice"}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		userID, ok := userIDFromContext(ctx)
		if !ok {
			t.Fatal("user id missing from handler context")
		}
		if userID != "user-42" {
			t.Fatalf("unexpected user id %q", userID)
		}
		return nil, nil
	}

	if _, err := s.accessTokenInterceptor(ctx, nil, info, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrorNotFound, codes.NotFound},
		{common.ErrorOffline, codes.FailedPrecondition},
		{common.ErrorInvalidCommand, codes.InvalidArgument},
		{common.ErrorUnauthorized, codes.PermissionDenied},
		{common.ErrorConflict, codes.AlreadyExists},
		{errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		if got := status.Code(mapError(tc.err)); got != tc.code {
			t.Errorf("mapError(%v): got %v, want %v", tc.err, got, tc.code)
		}
	}
}
