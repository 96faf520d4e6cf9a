// Package client wraps the gRPC connection to the backend and exposes typed
// owner-facing calls to the CLI.
package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/kooo/evcam-companion/internal/client/models"
	"github.com/kooo/evcam-companion/internal/common"
	pb "github.com/kooo/evcam-companion/internal/proto"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.EVCamClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewEVCamClientService(endpointURL, accessToken string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}
	if err := c.initGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewEVCamClient(conn)
	return nil
}

// SetAccessToken replaces the owner token used on subsequent calls.
func (s *GRPCClient) SetAccessToken(token string) {
	s.accessToken = token
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Bind(ctx context.Context, deviceID, name string) (*models.Device, error) {

	resp, err := s.client.BindDevice(ctx, &pb.BindDeviceRequest{DeviceID: deviceID, Name: name})
	if err != nil {
		return nil, s.mapError(err)
	}

	return deviceFromProto(resp.Device, nil), nil
}

func (s *GRPCClient) Unbind(ctx context.Context, deviceID string) error {

	_, err := s.client.UnbindDevice(ctx, &pb.UnbindDeviceRequest{DeviceID: deviceID})
	if err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) DeviceStatus(ctx context.Context, deviceID string) (*models.Device, error) {

	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	resp, err := s.client.GetDeviceStatus(ctx, &pb.GetDeviceStatusRequest{DeviceID: deviceID})
	if err != nil {
		return nil, s.mapError(err)
	}

	return deviceFromProto(resp.Status.Device, resp.Status), nil
}

func (s *GRPCClient) ListDevices(ctx context.Context, page, pageSize int) ([]*models.Device, int64, error) {

	resp, err := s.client.ListDevices(ctx, &pb.ListDevicesRequest{Page: int64(page), PageSize: int64(pageSize)})
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	devices := make([]*models.Device, 0, len(resp.Devices))
	for _, st := range resp.Devices {
		devices = append(devices, deviceFromProto(st.Device, st))
	}
	return devices, resp.Total, nil
}

func (s *GRPCClient) SendCommand(ctx context.Context, deviceID, kind string, params []byte) (string, error) {

	resp, err := s.client.SendCommand(ctx, &pb.SendCommandRequest{DeviceID: deviceID, Kind: kind, Params: params})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.CommandID, nil
}

func (s *GRPCClient) GetCommand(ctx context.Context, commandID string) (*models.Command, error) {

	resp, err := s.client.GetCommand(ctx, &pb.GetCommandRequest{CommandID: commandID})
	if err != nil {
		return nil, s.mapError(err)
	}

	return commandFromProto(resp.Command), nil
}

func (s *GRPCClient) ListFiles(ctx context.Context, deviceID, fileType string, page, pageSize int) ([]*models.File, int64, error) {

	resp, err := s.client.ListFiles(ctx, &pb.ListFilesRequest{
		DeviceID: deviceID,
		FileType: fileType,
		Page:     int64(page),
		PageSize: int64(pageSize),
	})
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	files := make([]*models.File, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, &models.File{
			ID:              f.ID,
			DeviceID:        f.DeviceID,
			FileName:        f.FileName,
			FileType:        f.FileType,
			Size:            f.Size,
			DurationSeconds: f.DurationSeconds,
			URL:             f.URL,
			ThumbURL:        f.ThumbURL,
			CreatedAt:       time.UnixMilli(f.CreatedAtUnixMs),
		})
	}
	return files, resp.Total, nil
}

func (s *GRPCClient) DeleteFile(ctx context.Context, fileID string) error {

	_, err := s.client.DeleteFile(ctx, &pb.DeleteFileRequest{FileID: fileID})
	if err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) PreviewFrameURL(ctx context.Context, deviceID string) (string, error) {

	resp, err := s.client.PreviewFrameURL(ctx, &pb.PreviewFrameURLRequest{DeviceID: deviceID})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.URL, nil
}

func deviceFromProto(d *pb.DeviceInfo, st *pb.DeviceStatus) *models.Device {
	if d == nil {
		return nil
	}
	out := &models.Device{
		ID:         d.ID,
		Name:       d.Name,
		Model:      d.Model,
		AppVersion: d.AppVersion,
		StatusInfo: d.StatusInfo,
		Recording:  d.Recording,
	}
	if st != nil {
		out.Online = st.Online
		out.SecondsSinceHeartbeat = st.SecondsSinceHeartbeat
	}
	return out
}

func commandFromProto(c *pb.Command) *models.Command {
	if c == nil {
		return nil
	}
	return &models.Command{
		ID:           c.ID,
		DeviceID:     c.DeviceID,
		Kind:         c.Kind,
		Status:       c.Status,
		Result:       c.Result,
		ErrorMessage: c.ErrorMessage,
		CreatedAt:    time.UnixMilli(c.CreatedAtUnixMs),
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.NotFound:
		return ErrNotFound
	case codes.FailedPrecondition:
		return ErrDeviceOffline
	case codes.AlreadyExists:
		return ErrDeviceConflict
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
