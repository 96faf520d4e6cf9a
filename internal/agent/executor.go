package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kooo/evcam-companion/internal/common"
	"github.com/kooo/evcam-companion/internal/logging"
	pb "github.com/kooo/evcam-companion/internal/proto"
)

// Executor runs claimed commands against the camera and uploads the media
// they produce.
type Executor struct {
	client   pb.EVCamClient
	camera   Camera
	uploader *Uploader
	deviceID string
	secret   string
	logger   logging.Logger

	mu         sync.Mutex
	seen       map[string]struct{}
	seenOrder  []string
	previewing bool
}

// seenLimit bounds the dedupe set on a long-lived daemon. A duplicate
// delivery only ever trails the original by a poll cycle or two, so the
// oldest ids are safe to evict.
const seenLimit = 1024

func NewExecutor(client pb.EVCamClient, camera Camera, uploader *Uploader, deviceID, secret string, logger logging.Logger) *Executor {
	return &Executor{
		client:   client,
		camera:   camera,
		uploader: uploader,
		deviceID: deviceID,
		secret:   secret,
		logger:   logger,
		seen:     make(map[string]struct{}),
	}
}

// MarkSeen records a command id and reports whether it was already known.
// The claim on the server is a one-shot handoff, but a retried poll response
// can deliver the same command twice; executing it twice must not happen.
func (e *Executor) MarkSeen(commandID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.seen[commandID]; ok {
		return true
	}
	if len(e.seenOrder) == seenLimit {
		delete(e.seen, e.seenOrder[0])
		e.seenOrder = e.seenOrder[1:]
	}
	e.seen[commandID] = struct{}{}
	e.seenOrder = append(e.seenOrder, commandID)
	return false
}

// Previewing reports whether a preview session is active.
func (e *Executor) Previewing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.previewing
}

func (e *Executor) setPreviewing(on bool) {
	e.mu.Lock()
	e.previewing = on
	e.mu.Unlock()
}

type recordParams struct {
	DurationSeconds int `json:"durationSeconds"`
}

// Execute runs one command and returns its result payload.
func (e *Executor) Execute(ctx context.Context, cmd *pb.Command) ([]byte, error) {
	switch cmd.Kind {
	case common.KindPhoto:
		return e.photo(ctx, cmd.ID)
	case common.KindRecord:
		return e.record(ctx, cmd)
	case common.KindStartRecording:
		return nil, e.camera.StartRecording(ctx)
	case common.KindStopRecording:
		return e.finishRecording(ctx, cmd.ID)
	case common.KindStatus:
		return json.Marshal(map[string]any{
			"statusInfo": e.camera.Status(),
			"recording":  e.camera.Recording(),
		})
	case common.KindStartPreview:
		e.setPreviewing(true)
		return nil, nil
	case common.KindStopPreview:
		e.setPreviewing(false)
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported command kind %q", cmd.Kind)
	}
}

func (e *Executor) photo(ctx context.Context, commandID string) ([]byte, error) {
	capture, err := e.camera.TakePhoto(ctx)
	if err != nil {
		return nil, fmt.Errorf("taking photo: %w", err)
	}
	return e.uploadCapture(ctx, capture, commandID)
}

func (e *Executor) record(ctx context.Context, cmd *pb.Command) ([]byte, error) {
	params := recordParams{DurationSeconds: 60}
	if len(cmd.Params) > 0 {
		if err := json.Unmarshal(cmd.Params, &params); err != nil {
			return nil, fmt.Errorf("parsing record params: %w", err)
		}
	}
	if params.DurationSeconds <= 0 {
		return nil, fmt.Errorf("invalid record duration %d", params.DurationSeconds)
	}

	if err := e.camera.StartRecording(ctx); err != nil {
		return nil, err
	}

	timer := time.NewTimer(time.Duration(params.DurationSeconds) * time.Second)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		// Stop the hardware before giving up so it is not left rolling.
		_, _ = e.camera.StopRecording(context.Background())
		return nil, ctx.Err()
	case <-timer.C:
	}

	return e.finishRecording(ctx, cmd.ID)
}

func (e *Executor) finishRecording(ctx context.Context, commandID string) ([]byte, error) {
	capture, err := e.camera.StopRecording(ctx)
	if err != nil {
		return nil, err
	}
	return e.uploadCapture(ctx, capture, commandID)
}

// uploadCapture pushes the media to presigned URLs and registers the file
// record, tying it to the originating command.
func (e *Executor) uploadCapture(ctx context.Context, capture *Capture, commandID string) ([]byte, error) {
	presigned, err := e.client.PresignUpload(ctx, &pb.PresignUploadRequest{
		DeviceID: e.deviceID,
		Secret:   e.secret,
		FileType: capture.FileType,
	})
	if err != nil {
		return nil, fmt.Errorf("presigning upload: %w", err)
	}

	contentType := "image/jpeg"
	if capture.FileType == "video" {
		contentType = "video/mp4"
	}
	if err := e.uploader.Put(ctx, presigned.AssetURL, capture.Data, contentType); err != nil {
		return nil, err
	}

	thumbKey := ""
	if presigned.ThumbURL != "" {
		if frame, ferr := e.camera.PreviewFrame(ctx); ferr == nil {
			if err := e.uploader.Put(ctx, presigned.ThumbURL, frame, "image/jpeg"); err == nil {
				thumbKey = presigned.ThumbKey
			} else {
				e.logger.Warn(ctx, "thumbnail upload failed", "error", err)
			}
		}
	}

	record, err := e.client.CreateFileRecord(ctx, &pb.CreateFileRecordRequest{
		DeviceID:        e.deviceID,
		Secret:          e.secret,
		StorageKey:      presigned.AssetKey,
		ThumbKey:        thumbKey,
		FileName:        capture.FileName,
		FileType:        capture.FileType,
		Size:            int64(len(capture.Data)),
		DurationSeconds: capture.DurationSeconds,
		CommandID:       commandID,
	})
	if err != nil {
		return nil, fmt.Errorf("creating file record: %w", err)
	}

	return json.Marshal(map[string]string{
		"fileId":     record.FileID,
		"storageKey": presigned.AssetKey,
	})
}
