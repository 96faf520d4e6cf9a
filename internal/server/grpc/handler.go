package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kooo/evcam-companion/internal/common"
	pb "github.com/kooo/evcam-companion/internal/proto"
	"github.com/kooo/evcam-companion/internal/server/models"
	"github.com/kooo/evcam-companion/internal/server/services"
)

// mapError translates service sentinels into gRPC status codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorOffline):
		return status.Error(codes.FailedPrecondition, "device offline")
	case errors.Is(err, common.ErrorInvalidCommand):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.PermissionDenied, "unauthorized")
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, "device is bound to another user")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func requireUser(ctx context.Context) (string, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return userID, nil
}

func commandToProto(c *models.Command) *pb.Command {
	out := &pb.Command{
		ID:              c.ID,
		DeviceID:        c.DeviceID,
		Kind:            c.Kind,
		Params:          c.Params,
		Status:          c.Status,
		Result:          c.Result,
		ErrorMessage:    c.ErrorMessage,
		CreatedAtUnixMs: c.CreatedAt.UnixMilli(),
	}
	if c.CompletedAt != nil {
		out.CompletedAtUnixMs = c.CompletedAt.UnixMilli()
	}
	return out
}

func deviceToProto(d *models.Device) *pb.DeviceInfo {
	out := &pb.DeviceInfo{
		ID:          d.ID,
		Name:        d.Name,
		Model:       d.Model,
		AppVersion:  d.AppVersion,
		BoundUserID: d.BoundUserID,
		StatusInfo:  d.StatusInfo,
		Recording:   d.Recording,
	}
	if d.LastHeartbeat != nil {
		out.LastHeartbeatUnixMs = d.LastHeartbeat.UnixMilli()
	}
	return out
}

func statusToProto(st *services.Status) *pb.DeviceStatus {
	return &pb.DeviceStatus{
		Device:                deviceToProto(st.Device),
		Online:                st.Online,
		SecondsSinceHeartbeat: st.SecondsSinceHeartbeat,
	}
}

// Device-facing methods.

func (s *GRPCServer) RegisterDevice(ctx context.Context, req *pb.RegisterDeviceRequest) (*pb.RegisterDeviceResponse, error) {

	result, err := s.devices.Register(ctx, req.DeviceID, req.Name, req.Model, req.AppVersion)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "device", req.DeviceID, "error", err)
		return nil, mapError(err)
	}

	return &pb.RegisterDeviceResponse{IsNew: result.IsNew, Secret: result.Secret}, nil
}

func (s *GRPCServer) Heartbeat(ctx context.Context, req *pb.HeartbeatRequest) (*pb.HeartbeatResponse, error) {

	var statusInfo *string
	if req.StatusInfo != "" {
		statusInfo = &req.StatusInfo
	}
	var recording *bool
	switch req.RecordingState {
	case pb.RecordingActive:
		v := true
		recording = &v
	case pb.RecordingIdle:
		v := false
		recording = &v
	}

	result, err := s.devices.Heartbeat(ctx, req.DeviceID, req.Secret, statusInfo, recording)
	if err != nil {
		return nil, mapError(err)
	}

	return &pb.HeartbeatResponse{HasPendingCommands: result.HasPendingCommands}, nil
}

func (s *GRPCServer) PollCommands(ctx context.Context, req *pb.PollCommandsRequest) (*pb.PollCommandsResponse, error) {

	if _, err := s.devices.Authenticate(ctx, req.DeviceID, req.Secret); err != nil {
		return nil, mapError(err)
	}

	claimed, err := s.commands.Claim(ctx, req.DeviceID, int(req.Limit))
	if err != nil {
		return nil, mapError(err)
	}

	resp := &pb.PollCommandsResponse{Commands: make([]*pb.Command, 0, len(claimed))}
	for _, c := range claimed {
		resp.Commands = append(resp.Commands, commandToProto(c))
	}
	return resp, nil
}

func (s *GRPCServer) ReportResult(ctx context.Context, req *pb.ReportResultRequest) (*pb.ReportResultResponse, error) {

	if _, err := s.devices.Authenticate(ctx, req.DeviceID, req.Secret); err != nil {
		return nil, mapError(err)
	}

	if err := s.commands.Report(ctx, req.DeviceID, req.CommandID, req.Success, req.Result, req.ErrorMessage); err != nil {
		return nil, mapError(err)
	}

	return &pb.ReportResultResponse{}, nil
}

func (s *GRPCServer) PresignUpload(ctx context.Context, req *pb.PresignUploadRequest) (*pb.PresignUploadResponse, error) {

	asset, thumb, err := s.files.PresignUpload(ctx, req.DeviceID, req.Secret, req.FileType)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &pb.PresignUploadResponse{AssetKey: asset.Key, AssetURL: asset.URL}
	if thumb != nil {
		resp.ThumbKey = thumb.Key
		resp.ThumbURL = thumb.URL
	}
	return resp, nil
}

func (s *GRPCServer) PresignPreviewUpload(ctx context.Context, req *pb.PresignPreviewUploadRequest) (*pb.PresignPreviewUploadResponse, error) {

	ticket, err := s.files.PresignPreviewUpload(ctx, req.DeviceID, req.Secret)
	if err != nil {
		return nil, mapError(err)
	}

	return &pb.PresignPreviewUploadResponse{Key: ticket.Key, URL: ticket.URL}, nil
}

func (s *GRPCServer) CreateFileRecord(ctx context.Context, req *pb.CreateFileRecordRequest) (*pb.CreateFileRecordResponse, error) {

	rec := &models.FileRecord{
		StorageKey: req.StorageKey,
		ThumbKey:   req.ThumbKey,
		FileName:   req.FileName,
		FileType:   req.FileType,
		Size:       req.Size,
		CommandID:  req.CommandID,
	}
	if req.DurationSeconds > 0 {
		d := req.DurationSeconds
		rec.Duration = &d
	}

	fileID, err := s.files.CreateRecord(ctx, req.DeviceID, req.Secret, rec)
	if err != nil {
		return nil, mapError(err)
	}

	return &pb.CreateFileRecordResponse{FileID: fileID}, nil
}

// Owner-facing methods.

func (s *GRPCServer) BindDevice(ctx context.Context, req *pb.BindDeviceRequest) (*pb.BindDeviceResponse, error) {

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	device, err := s.devices.Bind(ctx, userID, req.DeviceID, req.Name)
	if err != nil {
		return nil, mapError(err)
	}

	return &pb.BindDeviceResponse{Device: deviceToProto(device)}, nil
}

func (s *GRPCServer) UnbindDevice(ctx context.Context, req *pb.UnbindDeviceRequest) (*pb.UnbindDeviceResponse, error) {

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.devices.Unbind(ctx, userID, req.DeviceID); err != nil {
		return nil, mapError(err)
	}

	return &pb.UnbindDeviceResponse{}, nil
}

func (s *GRPCServer) GetDeviceStatus(ctx context.Context, req *pb.GetDeviceStatusRequest) (*pb.GetDeviceStatusResponse, error) {

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.devices.GetStatus(ctx, userID, req.DeviceID)
	if err != nil {
		return nil, mapError(err)
	}

	return &pb.GetDeviceStatusResponse{Status: statusToProto(st)}, nil
}

func (s *GRPCServer) ListDevices(ctx context.Context, req *pb.ListDevicesRequest) (*pb.ListDevicesResponse, error) {

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.devices.List(ctx, userID, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, mapError(err)
	}

	resp := &pb.ListDevicesResponse{Total: list.Total, Devices: make([]*pb.DeviceStatus, 0, len(list.Devices))}
	for _, st := range list.Devices {
		resp.Devices = append(resp.Devices, statusToProto(st))
	}
	return resp, nil
}

func (s *GRPCServer) SendCommand(ctx context.Context, req *pb.SendCommandRequest) (*pb.SendCommandResponse, error) {

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	commandID, err := s.commands.Enqueue(ctx, userID, req.DeviceID, req.Kind, req.Params)
	if err != nil {
		return nil, mapError(err)
	}

	return &pb.SendCommandResponse{CommandID: commandID}, nil
}

func (s *GRPCServer) GetCommand(ctx context.Context, req *pb.GetCommandRequest) (*pb.GetCommandResponse, error) {

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	cmd, err := s.commands.GetByID(ctx, req.CommandID)
	if err != nil {
		return nil, mapError(err)
	}
	// commands are only visible to their issuer
	if cmd.UserID != userID {
		return nil, status.Error(codes.NotFound, "not found")
	}

	return &pb.GetCommandResponse{Command: commandToProto(cmd)}, nil
}

func (s *GRPCServer) ListFiles(ctx context.Context, req *pb.ListFilesRequest) (*pb.ListFilesResponse, error) {

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.files.List(ctx, userID, req.DeviceID, req.FileType, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, mapError(err)
	}

	resp := &pb.ListFilesResponse{Total: list.Total, Files: make([]*pb.FileInfo, 0, len(list.Files))}
	for _, v := range list.Files {
		fi := &pb.FileInfo{
			ID:              v.Record.ID,
			DeviceID:        v.Record.DeviceID,
			FileName:        v.Record.FileName,
			FileType:        v.Record.FileType,
			Size:            v.Record.Size,
			CommandID:       v.Record.CommandID,
			URL:             v.URL,
			ThumbURL:        v.ThumbURL,
			CreatedAtUnixMs: v.Record.CreatedAt.UnixMilli(),
		}
		if v.Record.Duration != nil {
			fi.DurationSeconds = *v.Record.Duration
		}
		resp.Files = append(resp.Files, fi)
	}
	return resp, nil
}

func (s *GRPCServer) DeleteFile(ctx context.Context, req *pb.DeleteFileRequest) (*pb.DeleteFileResponse, error) {

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.files.Delete(ctx, userID, req.FileID); err != nil {
		return nil, mapError(err)
	}

	return &pb.DeleteFileResponse{}, nil
}

func (s *GRPCServer) PreviewFrameURL(ctx context.Context, req *pb.PreviewFrameURLRequest) (*pb.PreviewFrameURLResponse, error) {

	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	url, err := s.files.PreviewFrameURL(ctx, userID, req.DeviceID)
	if err != nil {
		return nil, mapError(err)
	}

	return &pb.PreviewFrameURLResponse{URL: url}, nil
}
