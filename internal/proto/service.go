package proto

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the full gRPC service name.
const ServiceName = "evcam.v1.EVCam"

// EVCamServer is the server-side API. The first seven methods are
// device-facing and authenticate with the per-device secret carried in the
// request; the rest are owner-facing and expect a token in the
// "access_token" metadata key.
type EVCamServer interface {
	RegisterDevice(context.Context, *RegisterDeviceRequest) (*RegisterDeviceResponse, error)
	Heartbeat(context.Context, *HeartbeatRequest) (*HeartbeatResponse, error)
	PollCommands(context.Context, *PollCommandsRequest) (*PollCommandsResponse, error)
	ReportResult(context.Context, *ReportResultRequest) (*ReportResultResponse, error)
	PresignUpload(context.Context, *PresignUploadRequest) (*PresignUploadResponse, error)
	PresignPreviewUpload(context.Context, *PresignPreviewUploadRequest) (*PresignPreviewUploadResponse, error)
	CreateFileRecord(context.Context, *CreateFileRecordRequest) (*CreateFileRecordResponse, error)

	BindDevice(context.Context, *BindDeviceRequest) (*BindDeviceResponse, error)
	UnbindDevice(context.Context, *UnbindDeviceRequest) (*UnbindDeviceResponse, error)
	GetDeviceStatus(context.Context, *GetDeviceStatusRequest) (*GetDeviceStatusResponse, error)
	ListDevices(context.Context, *ListDevicesRequest) (*ListDevicesResponse, error)
	SendCommand(context.Context, *SendCommandRequest) (*SendCommandResponse, error)
	GetCommand(context.Context, *GetCommandRequest) (*GetCommandResponse, error)
	ListFiles(context.Context, *ListFilesRequest) (*ListFilesResponse, error)
	DeleteFile(context.Context, *DeleteFileRequest) (*DeleteFileResponse, error)
	PreviewFrameURL(context.Context, *PreviewFrameURLRequest) (*PreviewFrameURLResponse, error)
}

func RegisterEVCamServer(s grpc.ServiceRegistrar, srv EVCamServer) {
	s.RegisterService(&EVCam_ServiceDesc, srv)
}

// unaryHandler builds the grpc.MethodDesc handler for one unary method,
// replacing the per-method functions protoc-gen-go-grpc would emit.
func unaryHandler[Req any, Resp any](method string, call func(EVCamServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	full := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EVCamServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EVCamServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// EVCam_ServiceDesc plays the role of the generated service descriptor.
var EVCam_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EVCamServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterDevice", Handler: unaryHandler("RegisterDevice", EVCamServer.RegisterDevice)},
		{MethodName: "Heartbeat", Handler: unaryHandler("Heartbeat", EVCamServer.Heartbeat)},
		{MethodName: "PollCommands", Handler: unaryHandler("PollCommands", EVCamServer.PollCommands)},
		{MethodName: "ReportResult", Handler: unaryHandler("ReportResult", EVCamServer.ReportResult)},
		{MethodName: "PresignUpload", Handler: unaryHandler("PresignUpload", EVCamServer.PresignUpload)},
		{MethodName: "PresignPreviewUpload", Handler: unaryHandler("PresignPreviewUpload", EVCamServer.PresignPreviewUpload)},
		{MethodName: "CreateFileRecord", Handler: unaryHandler("CreateFileRecord", EVCamServer.CreateFileRecord)},
		{MethodName: "BindDevice", Handler: unaryHandler("BindDevice", EVCamServer.BindDevice)},
		{MethodName: "UnbindDevice", Handler: unaryHandler("UnbindDevice", EVCamServer.UnbindDevice)},
		{MethodName: "GetDeviceStatus", Handler: unaryHandler("GetDeviceStatus", EVCamServer.GetDeviceStatus)},
		{MethodName: "ListDevices", Handler: unaryHandler("ListDevices", EVCamServer.ListDevices)},
		{MethodName: "SendCommand", Handler: unaryHandler("SendCommand", EVCamServer.SendCommand)},
		{MethodName: "GetCommand", Handler: unaryHandler("GetCommand", EVCamServer.GetCommand)},
		{MethodName: "ListFiles", Handler: unaryHandler("ListFiles", EVCamServer.ListFiles)},
		{MethodName: "DeleteFile", Handler: unaryHandler("DeleteFile", EVCamServer.DeleteFile)},
		{MethodName: "PreviewFrameURL", Handler: unaryHandler("PreviewFrameURL", EVCamServer.PreviewFrameURL)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "evcam.proto",
}

// EVCamClient is the client-side API mirroring EVCamServer.
type EVCamClient interface {
	RegisterDevice(ctx context.Context, in *RegisterDeviceRequest, opts ...grpc.CallOption) (*RegisterDeviceResponse, error)
	Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error)
	PollCommands(ctx context.Context, in *PollCommandsRequest, opts ...grpc.CallOption) (*PollCommandsResponse, error)
	ReportResult(ctx context.Context, in *ReportResultRequest, opts ...grpc.CallOption) (*ReportResultResponse, error)
	PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error)
	PresignPreviewUpload(ctx context.Context, in *PresignPreviewUploadRequest, opts ...grpc.CallOption) (*PresignPreviewUploadResponse, error)
	CreateFileRecord(ctx context.Context, in *CreateFileRecordRequest, opts ...grpc.CallOption) (*CreateFileRecordResponse, error)

	BindDevice(ctx context.Context, in *BindDeviceRequest, opts ...grpc.CallOption) (*BindDeviceResponse, error)
	UnbindDevice(ctx context.Context, in *UnbindDeviceRequest, opts ...grpc.CallOption) (*UnbindDeviceResponse, error)
	GetDeviceStatus(ctx context.Context, in *GetDeviceStatusRequest, opts ...grpc.CallOption) (*GetDeviceStatusResponse, error)
	ListDevices(ctx context.Context, in *ListDevicesRequest, opts ...grpc.CallOption) (*ListDevicesResponse, error)
	SendCommand(ctx context.Context, in *SendCommandRequest, opts ...grpc.CallOption) (*SendCommandResponse, error)
	GetCommand(ctx context.Context, in *GetCommandRequest, opts ...grpc.CallOption) (*GetCommandResponse, error)
	ListFiles(ctx context.Context, in *ListFilesRequest, opts ...grpc.CallOption) (*ListFilesResponse, error)
	DeleteFile(ctx context.Context, in *DeleteFileRequest, opts ...grpc.CallOption) (*DeleteFileResponse, error)
	PreviewFrameURL(ctx context.Context, in *PreviewFrameURLRequest, opts ...grpc.CallOption) (*PreviewFrameURLResponse, error)
}

type evcamClient struct {
	cc grpc.ClientConnInterface
}

func NewEVCamClient(cc grpc.ClientConnInterface) EVCamClient {
	return &evcamClient{cc: cc}
}

func invoke[Req any, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *evcamClient) RegisterDevice(ctx context.Context, in *RegisterDeviceRequest, opts ...grpc.CallOption) (*RegisterDeviceResponse, error) {
	return invoke[RegisterDeviceRequest, RegisterDeviceResponse](ctx, c.cc, "RegisterDevice", in, opts)
}

func (c *evcamClient) Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error) {
	return invoke[HeartbeatRequest, HeartbeatResponse](ctx, c.cc, "Heartbeat", in, opts)
}

func (c *evcamClient) PollCommands(ctx context.Context, in *PollCommandsRequest, opts ...grpc.CallOption) (*PollCommandsResponse, error) {
	return invoke[PollCommandsRequest, PollCommandsResponse](ctx, c.cc, "PollCommands", in, opts)
}

func (c *evcamClient) ReportResult(ctx context.Context, in *ReportResultRequest, opts ...grpc.CallOption) (*ReportResultResponse, error) {
	return invoke[ReportResultRequest, ReportResultResponse](ctx, c.cc, "ReportResult", in, opts)
}

func (c *evcamClient) PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error) {
	return invoke[PresignUploadRequest, PresignUploadResponse](ctx, c.cc, "PresignUpload", in, opts)
}

func (c *evcamClient) PresignPreviewUpload(ctx context.Context, in *PresignPreviewUploadRequest, opts ...grpc.CallOption) (*PresignPreviewUploadResponse, error) {
	return invoke[PresignPreviewUploadRequest, PresignPreviewUploadResponse](ctx, c.cc, "PresignPreviewUpload", in, opts)
}

func (c *evcamClient) CreateFileRecord(ctx context.Context, in *CreateFileRecordRequest, opts ...grpc.CallOption) (*CreateFileRecordResponse, error) {
	return invoke[CreateFileRecordRequest, CreateFileRecordResponse](ctx, c.cc, "CreateFileRecord", in, opts)
}

func (c *evcamClient) BindDevice(ctx context.Context, in *BindDeviceRequest, opts ...grpc.CallOption) (*BindDeviceResponse, error) {
	return invoke[BindDeviceRequest, BindDeviceResponse](ctx, c.cc, "BindDevice", in, opts)
}

func (c *evcamClient) UnbindDevice(ctx context.Context, in *UnbindDeviceRequest, opts ...grpc.CallOption) (*UnbindDeviceResponse, error) {
	return invoke[UnbindDeviceRequest, UnbindDeviceResponse](ctx, c.cc, "UnbindDevice", in, opts)
}

func (c *evcamClient) GetDeviceStatus(ctx context.Context, in *GetDeviceStatusRequest, opts ...grpc.CallOption) (*GetDeviceStatusResponse, error) {
	return invoke[GetDeviceStatusRequest, GetDeviceStatusResponse](ctx, c.cc, "GetDeviceStatus", in, opts)
}

func (c *evcamClient) ListDevices(ctx context.Context, in *ListDevicesRequest, opts ...grpc.CallOption) (*ListDevicesResponse, error) {
	return invoke[ListDevicesRequest, ListDevicesResponse](ctx, c.cc, "ListDevices", in, opts)
}

func (c *evcamClient) SendCommand(ctx context.Context, in *SendCommandRequest, opts ...grpc.CallOption) (*SendCommandResponse, error) {
	return invoke[SendCommandRequest, SendCommandResponse](ctx, c.cc, "SendCommand", in, opts)
}

func (c *evcamClient) GetCommand(ctx context.Context, in *GetCommandRequest, opts ...grpc.CallOption) (*GetCommandResponse, error) {
	return invoke[GetCommandRequest, GetCommandResponse](ctx, c.cc, "GetCommand", in, opts)
}

func (c *evcamClient) ListFiles(ctx context.Context, in *ListFilesRequest, opts ...grpc.CallOption) (*ListFilesResponse, error) {
	return invoke[ListFilesRequest, ListFilesResponse](ctx, c.cc, "ListFiles", in, opts)
}

func (c *evcamClient) DeleteFile(ctx context.Context, in *DeleteFileRequest, opts ...grpc.CallOption) (*DeleteFileResponse, error) {
	return invoke[DeleteFileRequest, DeleteFileResponse](ctx, c.cc, "DeleteFile", in, opts)
}

func (c *evcamClient) PreviewFrameURL(ctx context.Context, in *PreviewFrameURLRequest, opts ...grpc.CallOption) (*PreviewFrameURLResponse, error) {
	return invoke[PreviewFrameURLRequest, PreviewFrameURLResponse](ctx, c.cc, "PreviewFrameURL", in, opts)
}
