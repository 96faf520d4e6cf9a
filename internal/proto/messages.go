package proto

// Shared messages.

type Command struct {
	ID                string
	DeviceID          string
	Kind              string
	Params            []byte
	Status            string
	Result            []byte
	ErrorMessage      string
	CreatedAtUnixMs   int64
	CompletedAtUnixMs int64
}

func (m *Command) marshal(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.DeviceID)
	b = appendString(b, 3, m.Kind)
	b = appendBytes(b, 4, m.Params)
	b = appendString(b, 5, m.Status)
	b = appendBytes(b, 6, m.Result)
	b = appendString(b, 7, m.ErrorMessage)
	b = appendInt(b, 8, m.CreatedAtUnixMs)
	b = appendInt(b, 9, m.CompletedAtUnixMs)
	return b
}

func (m *Command) unmarshal(b []byte) error {
	*m = Command{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.ID = f.str()
		case 2:
			m.DeviceID = f.str()
		case 3:
			m.Kind = f.str()
		case 4:
			m.Params = f.raw()
		case 5:
			m.Status = f.str()
		case 6:
			m.Result = f.raw()
		case 7:
			m.ErrorMessage = f.str()
		case 8:
			m.CreatedAtUnixMs = f.int()
		case 9:
			m.CompletedAtUnixMs = f.int()
		}
		return nil
	})
}

type DeviceInfo struct {
	ID                  string
	Name                string
	Model               string
	AppVersion          string
	BoundUserID         string
	StatusInfo          string
	Recording           bool
	LastHeartbeatUnixMs int64
}

func (m *DeviceInfo) marshal(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.Name)
	b = appendString(b, 3, m.Model)
	b = appendString(b, 4, m.AppVersion)
	b = appendString(b, 5, m.BoundUserID)
	b = appendString(b, 6, m.StatusInfo)
	b = appendBool(b, 7, m.Recording)
	b = appendInt(b, 8, m.LastHeartbeatUnixMs)
	return b
}

func (m *DeviceInfo) unmarshal(b []byte) error {
	*m = DeviceInfo{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.ID = f.str()
		case 2:
			m.Name = f.str()
		case 3:
			m.Model = f.str()
		case 4:
			m.AppVersion = f.str()
		case 5:
			m.BoundUserID = f.str()
		case 6:
			m.StatusInfo = f.str()
		case 7:
			m.Recording = f.bool()
		case 8:
			m.LastHeartbeatUnixMs = f.int()
		}
		return nil
	})
}

type DeviceStatus struct {
	Device *DeviceInfo
	Online bool
	// SecondsSinceHeartbeat is -1 when no heartbeat was ever received.
	SecondsSinceHeartbeat int64
}

func (m *DeviceStatus) marshal(b []byte) []byte {
	if m.Device != nil {
		b = appendMessage(b, 1, m.Device)
	}
	b = appendBool(b, 2, m.Online)
	b = appendInt(b, 3, m.SecondsSinceHeartbeat)
	return b
}

func (m *DeviceStatus) unmarshal(b []byte) error {
	*m = DeviceStatus{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Device = new(DeviceInfo)
			return m.Device.unmarshal(f.bytes)
		case 2:
			m.Online = f.bool()
		case 3:
			m.SecondsSinceHeartbeat = f.int()
		}
		return nil
	})
}

type FileInfo struct {
	ID              string
	DeviceID        string
	FileName        string
	FileType        string
	Size            int64
	DurationSeconds int64
	CommandID       string
	URL             string
	ThumbURL        string
	CreatedAtUnixMs int64
}

func (m *FileInfo) marshal(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.DeviceID)
	b = appendString(b, 3, m.FileName)
	b = appendString(b, 4, m.FileType)
	b = appendInt(b, 5, m.Size)
	b = appendInt(b, 6, m.DurationSeconds)
	b = appendString(b, 7, m.CommandID)
	b = appendString(b, 8, m.URL)
	b = appendString(b, 9, m.ThumbURL)
	b = appendInt(b, 10, m.CreatedAtUnixMs)
	return b
}

func (m *FileInfo) unmarshal(b []byte) error {
	*m = FileInfo{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.ID = f.str()
		case 2:
			m.DeviceID = f.str()
		case 3:
			m.FileName = f.str()
		case 4:
			m.FileType = f.str()
		case 5:
			m.Size = f.int()
		case 6:
			m.DurationSeconds = f.int()
		case 7:
			m.CommandID = f.str()
		case 8:
			m.URL = f.str()
		case 9:
			m.ThumbURL = f.str()
		case 10:
			m.CreatedAtUnixMs = f.int()
		}
		return nil
	})
}

// Device-facing requests and responses.

type RegisterDeviceRequest struct {
	DeviceID   string
	Name       string
	Model      string
	AppVersion string
}

func (m *RegisterDeviceRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.Name)
	b = appendString(b, 3, m.Model)
	b = appendString(b, 4, m.AppVersion)
	return b
}

func (m *RegisterDeviceRequest) unmarshal(b []byte) error {
	*m = RegisterDeviceRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.Name = f.str()
		case 3:
			m.Model = f.str()
		case 4:
			m.AppVersion = f.str()
		}
		return nil
	})
}

type RegisterDeviceResponse struct {
	IsNew  bool
	Secret string
}

func (m *RegisterDeviceResponse) marshal(b []byte) []byte {
	b = appendBool(b, 1, m.IsNew)
	b = appendString(b, 2, m.Secret)
	return b
}

func (m *RegisterDeviceResponse) unmarshal(b []byte) error {
	*m = RegisterDeviceResponse{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.IsNew = f.bool()
		case 2:
			m.Secret = f.str()
		}
		return nil
	})
}

// Recording states carried on a heartbeat. Zero means the device did not
// report the flag at all.
const (
	RecordingUnknown int64 = 0
	RecordingActive  int64 = 1
	RecordingIdle    int64 = 2
)

type HeartbeatRequest struct {
	DeviceID       string
	Secret         string
	StatusInfo     string
	RecordingState int64
}

func (m *HeartbeatRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.Secret)
	b = appendString(b, 3, m.StatusInfo)
	b = appendInt(b, 4, m.RecordingState)
	return b
}

func (m *HeartbeatRequest) unmarshal(b []byte) error {
	*m = HeartbeatRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.Secret = f.str()
		case 3:
			m.StatusInfo = f.str()
		case 4:
			m.RecordingState = f.int()
		}
		return nil
	})
}

type HeartbeatResponse struct {
	HasPendingCommands bool
}

func (m *HeartbeatResponse) marshal(b []byte) []byte {
	return appendBool(b, 1, m.HasPendingCommands)
}

func (m *HeartbeatResponse) unmarshal(b []byte) error {
	*m = HeartbeatResponse{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.HasPendingCommands = f.bool()
		}
		return nil
	})
}

type PollCommandsRequest struct {
	DeviceID string
	Secret   string
	Limit    int64
}

func (m *PollCommandsRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.Secret)
	b = appendInt(b, 3, m.Limit)
	return b
}

func (m *PollCommandsRequest) unmarshal(b []byte) error {
	*m = PollCommandsRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.Secret = f.str()
		case 3:
			m.Limit = f.int()
		}
		return nil
	})
}

type PollCommandsResponse struct {
	Commands []*Command
}

func (m *PollCommandsResponse) marshal(b []byte) []byte {
	for _, c := range m.Commands {
		b = appendMessage(b, 1, c)
	}
	return b
}

func (m *PollCommandsResponse) unmarshal(b []byte) error {
	*m = PollCommandsResponse{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			c := new(Command)
			if err := c.unmarshal(f.bytes); err != nil {
				return err
			}
			m.Commands = append(m.Commands, c)
		}
		return nil
	})
}

type ReportResultRequest struct {
	DeviceID     string
	Secret       string
	CommandID    string
	Success      bool
	Result       []byte
	ErrorMessage string
}

func (m *ReportResultRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.Secret)
	b = appendString(b, 3, m.CommandID)
	b = appendBool(b, 4, m.Success)
	b = appendBytes(b, 5, m.Result)
	b = appendString(b, 6, m.ErrorMessage)
	return b
}

func (m *ReportResultRequest) unmarshal(b []byte) error {
	*m = ReportResultRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.Secret = f.str()
		case 3:
			m.CommandID = f.str()
		case 4:
			m.Success = f.bool()
		case 5:
			m.Result = f.raw()
		case 6:
			m.ErrorMessage = f.str()
		}
		return nil
	})
}

type ReportResultResponse struct{}

func (m *ReportResultResponse) marshal(b []byte) []byte { return b }
func (m *ReportResultResponse) unmarshal([]byte) error  { return nil }

type PresignUploadRequest struct {
	DeviceID string
	Secret   string
	FileType string
}

func (m *PresignUploadRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.Secret)
	b = appendString(b, 3, m.FileType)
	return b
}

func (m *PresignUploadRequest) unmarshal(b []byte) error {
	*m = PresignUploadRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.Secret = f.str()
		case 3:
			m.FileType = f.str()
		}
		return nil
	})
}

type PresignUploadResponse struct {
	AssetKey string
	AssetURL string
	ThumbKey string
	ThumbURL string
}

func (m *PresignUploadResponse) marshal(b []byte) []byte {
	b = appendString(b, 1, m.AssetKey)
	b = appendString(b, 2, m.AssetURL)
	b = appendString(b, 3, m.ThumbKey)
	b = appendString(b, 4, m.ThumbURL)
	return b
}

func (m *PresignUploadResponse) unmarshal(b []byte) error {
	*m = PresignUploadResponse{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.AssetKey = f.str()
		case 2:
			m.AssetURL = f.str()
		case 3:
			m.ThumbKey = f.str()
		case 4:
			m.ThumbURL = f.str()
		}
		return nil
	})
}

type PresignPreviewUploadRequest struct {
	DeviceID string
	Secret   string
}

func (m *PresignPreviewUploadRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.Secret)
	return b
}

func (m *PresignPreviewUploadRequest) unmarshal(b []byte) error {
	*m = PresignPreviewUploadRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.Secret = f.str()
		}
		return nil
	})
}

type PresignPreviewUploadResponse struct {
	Key string
	URL string
}

func (m *PresignPreviewUploadResponse) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Key)
	b = appendString(b, 2, m.URL)
	return b
}

func (m *PresignPreviewUploadResponse) unmarshal(b []byte) error {
	*m = PresignPreviewUploadResponse{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Key = f.str()
		case 2:
			m.URL = f.str()
		}
		return nil
	})
}

type CreateFileRecordRequest struct {
	DeviceID        string
	Secret          string
	StorageKey      string
	ThumbKey        string
	FileName        string
	FileType        string
	Size            int64
	DurationSeconds int64
	CommandID       string
}

func (m *CreateFileRecordRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.Secret)
	b = appendString(b, 3, m.StorageKey)
	b = appendString(b, 4, m.ThumbKey)
	b = appendString(b, 5, m.FileName)
	b = appendString(b, 6, m.FileType)
	b = appendInt(b, 7, m.Size)
	b = appendInt(b, 8, m.DurationSeconds)
	b = appendString(b, 9, m.CommandID)
	return b
}

func (m *CreateFileRecordRequest) unmarshal(b []byte) error {
	*m = CreateFileRecordRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.Secret = f.str()
		case 3:
			m.StorageKey = f.str()
		case 4:
			m.ThumbKey = f.str()
		case 5:
			m.FileName = f.str()
		case 6:
			m.FileType = f.str()
		case 7:
			m.Size = f.int()
		case 8:
			m.DurationSeconds = f.int()
		case 9:
			m.CommandID = f.str()
		}
		return nil
	})
}

type CreateFileRecordResponse struct {
	FileID string
}

func (m *CreateFileRecordResponse) marshal(b []byte) []byte {
	return appendString(b, 1, m.FileID)
}

func (m *CreateFileRecordResponse) unmarshal(b []byte) error {
	*m = CreateFileRecordResponse{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.FileID = f.str()
		}
		return nil
	})
}

// Owner-facing requests and responses.

type BindDeviceRequest struct {
	DeviceID string
	Name     string
}

func (m *BindDeviceRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.Name)
	return b
}

func (m *BindDeviceRequest) unmarshal(b []byte) error {
	*m = BindDeviceRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.Name = f.str()
		}
		return nil
	})
}

type BindDeviceResponse struct {
	Device *DeviceInfo
}

func (m *BindDeviceResponse) marshal(b []byte) []byte {
	if m.Device != nil {
		b = appendMessage(b, 1, m.Device)
	}
	return b
}

func (m *BindDeviceResponse) unmarshal(b []byte) error {
	*m = BindDeviceResponse{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.Device = new(DeviceInfo)
			return m.Device.unmarshal(f.bytes)
		}
		return nil
	})
}

type UnbindDeviceRequest struct {
	DeviceID string
}

func (m *UnbindDeviceRequest) marshal(b []byte) []byte {
	return appendString(b, 1, m.DeviceID)
}

func (m *UnbindDeviceRequest) unmarshal(b []byte) error {
	*m = UnbindDeviceRequest{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.DeviceID = f.str()
		}
		return nil
	})
}

type UnbindDeviceResponse struct{}

func (m *UnbindDeviceResponse) marshal(b []byte) []byte { return b }
func (m *UnbindDeviceResponse) unmarshal([]byte) error  { return nil }

type GetDeviceStatusRequest struct {
	DeviceID string
}

func (m *GetDeviceStatusRequest) marshal(b []byte) []byte {
	return appendString(b, 1, m.DeviceID)
}

func (m *GetDeviceStatusRequest) unmarshal(b []byte) error {
	*m = GetDeviceStatusRequest{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.DeviceID = f.str()
		}
		return nil
	})
}

type GetDeviceStatusResponse struct {
	Status *DeviceStatus
}

func (m *GetDeviceStatusResponse) marshal(b []byte) []byte {
	if m.Status != nil {
		b = appendMessage(b, 1, m.Status)
	}
	return b
}

func (m *GetDeviceStatusResponse) unmarshal(b []byte) error {
	*m = GetDeviceStatusResponse{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.Status = new(DeviceStatus)
			return m.Status.unmarshal(f.bytes)
		}
		return nil
	})
}

type ListDevicesRequest struct {
	Page     int64
	PageSize int64
}

func (m *ListDevicesRequest) marshal(b []byte) []byte {
	b = appendInt(b, 1, m.Page)
	b = appendInt(b, 2, m.PageSize)
	return b
}

func (m *ListDevicesRequest) unmarshal(b []byte) error {
	*m = ListDevicesRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Page = f.int()
		case 2:
			m.PageSize = f.int()
		}
		return nil
	})
}

type ListDevicesResponse struct {
	Devices []*DeviceStatus
	Total   int64
}

func (m *ListDevicesResponse) marshal(b []byte) []byte {
	for _, d := range m.Devices {
		b = appendMessage(b, 1, d)
	}
	b = appendInt(b, 2, m.Total)
	return b
}

func (m *ListDevicesResponse) unmarshal(b []byte) error {
	*m = ListDevicesResponse{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			d := new(DeviceStatus)
			if err := d.unmarshal(f.bytes); err != nil {
				return err
			}
			m.Devices = append(m.Devices, d)
		case 2:
			m.Total = f.int()
		}
		return nil
	})
}

type SendCommandRequest struct {
	DeviceID string
	Kind     string
	Params   []byte
}

func (m *SendCommandRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.Kind)
	b = appendBytes(b, 3, m.Params)
	return b
}

func (m *SendCommandRequest) unmarshal(b []byte) error {
	*m = SendCommandRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.Kind = f.str()
		case 3:
			m.Params = f.raw()
		}
		return nil
	})
}

type SendCommandResponse struct {
	CommandID string
}

func (m *SendCommandResponse) marshal(b []byte) []byte {
	return appendString(b, 1, m.CommandID)
}

func (m *SendCommandResponse) unmarshal(b []byte) error {
	*m = SendCommandResponse{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.CommandID = f.str()
		}
		return nil
	})
}

type GetCommandRequest struct {
	CommandID string
}

func (m *GetCommandRequest) marshal(b []byte) []byte {
	return appendString(b, 1, m.CommandID)
}

func (m *GetCommandRequest) unmarshal(b []byte) error {
	*m = GetCommandRequest{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.CommandID = f.str()
		}
		return nil
	})
}

type GetCommandResponse struct {
	Command *Command
}

func (m *GetCommandResponse) marshal(b []byte) []byte {
	if m.Command != nil {
		b = appendMessage(b, 1, m.Command)
	}
	return b
}

func (m *GetCommandResponse) unmarshal(b []byte) error {
	*m = GetCommandResponse{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.Command = new(Command)
			return m.Command.unmarshal(f.bytes)
		}
		return nil
	})
}

type ListFilesRequest struct {
	DeviceID string
	FileType string
	Page     int64
	PageSize int64
}

func (m *ListFilesRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.DeviceID)
	b = appendString(b, 2, m.FileType)
	b = appendInt(b, 3, m.Page)
	b = appendInt(b, 4, m.PageSize)
	return b
}

func (m *ListFilesRequest) unmarshal(b []byte) error {
	*m = ListFilesRequest{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			m.DeviceID = f.str()
		case 2:
			m.FileType = f.str()
		case 3:
			m.Page = f.int()
		case 4:
			m.PageSize = f.int()
		}
		return nil
	})
}

type ListFilesResponse struct {
	Files []*FileInfo
	Total int64
}

func (m *ListFilesResponse) marshal(b []byte) []byte {
	for _, f := range m.Files {
		b = appendMessage(b, 1, f)
	}
	b = appendInt(b, 2, m.Total)
	return b
}

func (m *ListFilesResponse) unmarshal(b []byte) error {
	*m = ListFilesResponse{}
	return walkFields(b, func(f field) error {
		switch f.num {
		case 1:
			fi := new(FileInfo)
			if err := fi.unmarshal(f.bytes); err != nil {
				return err
			}
			m.Files = append(m.Files, fi)
		case 2:
			m.Total = f.int()
		}
		return nil
	})
}

type DeleteFileRequest struct {
	FileID string
}

func (m *DeleteFileRequest) marshal(b []byte) []byte {
	return appendString(b, 1, m.FileID)
}

func (m *DeleteFileRequest) unmarshal(b []byte) error {
	*m = DeleteFileRequest{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.FileID = f.str()
		}
		return nil
	})
}

type DeleteFileResponse struct{}

func (m *DeleteFileResponse) marshal(b []byte) []byte { return b }
func (m *DeleteFileResponse) unmarshal([]byte) error  { return nil }

type PreviewFrameURLRequest struct {
	DeviceID string
}

func (m *PreviewFrameURLRequest) marshal(b []byte) []byte {
	return appendString(b, 1, m.DeviceID)
}

func (m *PreviewFrameURLRequest) unmarshal(b []byte) error {
	*m = PreviewFrameURLRequest{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.DeviceID = f.str()
		}
		return nil
	})
}

type PreviewFrameURLResponse struct {
	URL string
}

func (m *PreviewFrameURLResponse) marshal(b []byte) []byte {
	return appendString(b, 1, m.URL)
}

func (m *PreviewFrameURLResponse) unmarshal(b []byte) error {
	*m = PreviewFrameURLResponse{}
	return walkFields(b, func(f field) error {
		if f.num == 1 {
			m.URL = f.str()
		}
		return nil
	})
}
