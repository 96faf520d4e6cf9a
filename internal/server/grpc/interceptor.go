package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// ownerMethods lists the methods that require an owner token. Device-facing
// methods authenticate inside the request instead.
var ownerMethods = map[string]bool{
	"BindDevice":      true,
	"UnbindDevice":    true,
	"GetDeviceStatus": true,
	"ListDevices":     true,
	"SendCommand":     true,
	"GetCommand":      true,
	"ListFiles":       true,
	"DeleteFile":      true,
	"PreviewFrameURL": true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	method := info.FullMethod[strings.LastIndex(info.FullMethod, "/")+1:]
	if ownerMethods[method] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		ctx = context.WithValue(ctx, userIDKey, userID)

	}

	return handler(ctx, req)
}

// userIDFromContext returns the identity stamped by the interceptor.
func userIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
