// Package agent implements the on-device daemon: it registers the camera
// with the backend, heartbeats, polls for commands, executes them, and
// publishes preview frames while a preview session is active.
package agent

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/kooo/evcam-companion/internal/agent/config"
	"github.com/kooo/evcam-companion/internal/logging"
	pb "github.com/kooo/evcam-companion/internal/proto"
)

const pollBatchLimit = 10

type Agent struct {
	config   *config.Config
	conn     *grpc.ClientConn
	client   pb.EVCamClient
	camera   Camera
	executor *Executor
	logger   logging.Logger
	secret   string

	// wake lets a heartbeat that learned of pending work trigger an
	// immediate poll instead of waiting out the poll interval.
	wake chan struct{}
}

func NewAgent(c *config.Config, camera Camera, logger logging.Logger) (*Agent, error) {
	if c.DeviceID == "" {
		return nil, fmt.Errorf("device id is required")
	}

	conn, err := grpc.NewClient(c.ServerEndpointAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}

	return &Agent{
		config: c,
		conn:   conn,
		client: pb.NewEVCamClient(conn),
		camera: camera,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}, nil
}

func (a *Agent) Close() error {
	return a.conn.Close()
}

// Run registers the device and drives the heartbeat, poll, and preview
// loops until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.register(ctx); err != nil {
		return err
	}
	a.executor = NewExecutor(a.client, a.camera, NewUploader(), a.config.DeviceID, a.secret, a.logger)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		a.heartbeatLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		a.pollLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		a.previewLoop(ctx)
	}()
	wg.Wait()
	return nil
}

// register announces the device. A fresh registration yields a secret that
// is persisted for subsequent runs; a repeat registration keeps the stored
// one and just refreshes the advertised name and version.
func (a *Agent) register(ctx context.Context) error {
	stored, err := os.ReadFile(a.config.SecretPath)
	if err == nil {
		a.secret = string(stored)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading secret: %w", err)
	}

	resp, err := a.client.RegisterDevice(ctx, &pb.RegisterDeviceRequest{
		DeviceID:   a.config.DeviceID,
		Name:       a.config.DeviceName,
		Model:      a.config.Model,
		AppVersion: a.config.AppVersion,
	})
	if err != nil {
		return fmt.Errorf("registering device: %w", err)
	}

	if resp.IsNew {
		a.secret = resp.Secret
		if err := os.WriteFile(a.config.SecretPath, []byte(resp.Secret), 0o600); err != nil {
			return fmt.Errorf("persisting secret: %w", err)
		}
		a.logger.Info(ctx, "device registered", "device_id", a.config.DeviceID)
	} else {
		a.logger.Info(ctx, "device registration refreshed", "device_id", a.config.DeviceID)
	}
	return nil
}

func (a *Agent) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(a.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		a.heartbeat(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *Agent) heartbeat(ctx context.Context) {
	state := pb.RecordingIdle
	if a.camera.Recording() {
		state = pb.RecordingActive
	}

	resp, err := a.client.Heartbeat(ctx, &pb.HeartbeatRequest{
		DeviceID:       a.config.DeviceID,
		Secret:         a.secret,
		StatusInfo:     a.camera.Status(),
		RecordingState: state,
	})
	if err != nil {
		a.logger.Warn(ctx, "heartbeat failed", "error", err)
		return
	}

	if resp.HasPendingCommands {
		select {
		case a.wake <- struct{}{}:
		default:
		}
	}
}

func (a *Agent) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(a.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-a.wake:
		}
		a.poll(ctx)
	}
}

// poll claims pending commands and runs them in order. Claimed commands are
// executed exactly once even if a retried poll delivers a duplicate.
func (a *Agent) poll(ctx context.Context) {
	resp, err := a.client.PollCommands(ctx, &pb.PollCommandsRequest{
		DeviceID: a.config.DeviceID,
		Secret:   a.secret,
		Limit:    pollBatchLimit,
	})
	if err != nil {
		a.logger.Warn(ctx, "poll failed", "error", err)
		return
	}

	for _, cmd := range resp.Commands {
		if a.executor.MarkSeen(cmd.ID) {
			continue
		}
		a.logger.Info(ctx, "executing command", "command_id", cmd.ID, "kind", cmd.Kind)

		result, err := a.executor.Execute(ctx, cmd)
		if ctx.Err() != nil {
			return
		}
		a.report(ctx, cmd.ID, result, err)
	}
}

// report delivers the command verdict, retrying transient failures. A lost
// report leaves the command executing until the server sweeps it, so a few
// retries are worth the wait.
func (a *Agent) report(ctx context.Context, commandID string, result []byte, execErr error) {
	req := &pb.ReportResultRequest{
		DeviceID:  a.config.DeviceID,
		Secret:    a.secret,
		CommandID: commandID,
		Success:   execErr == nil,
		Result:    result,
	}
	if execErr != nil {
		req.ErrorMessage = execErr.Error()
		a.logger.Warn(ctx, "command failed", "command_id", commandID, "error", execErr)
	}

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(250*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if _, err := a.client.ReportResult(ctx, req); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		a.logger.Error(ctx, "reporting result failed", "command_id", commandID, "error", err)
	}
}

// previewLoop publishes a fresh frame every interval while a preview
// session is active.
func (a *Agent) previewLoop(ctx context.Context) {
	ticker := time.NewTicker(a.config.PreviewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if !a.executor.Previewing() {
			continue
		}
		a.publishFrame(ctx)
	}
}

func (a *Agent) publishFrame(ctx context.Context) {
	frame, err := a.camera.PreviewFrame(ctx)
	if err != nil {
		a.logger.Warn(ctx, "capturing preview frame failed", "error", err)
		return
	}

	presigned, err := a.client.PresignPreviewUpload(ctx, &pb.PresignPreviewUploadRequest{
		DeviceID: a.config.DeviceID,
		Secret:   a.secret,
	})
	if err != nil {
		a.logger.Warn(ctx, "presigning preview upload failed", "error", err)
		return
	}

	if err := a.executor.uploader.Put(ctx, presigned.URL, frame, "image/jpeg"); err != nil {
		a.logger.Warn(ctx, "preview frame upload failed", "error", err)
	}
}
