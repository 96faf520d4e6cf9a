package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log"
	"os"

	"github.com/kooo/evcam-companion/internal/client/client"
	"github.com/kooo/evcam-companion/internal/client/config"
	"github.com/kooo/evcam-companion/internal/client/models"
	"github.com/kooo/evcam-companion/internal/client/session"
)

// Backend is the API surface the CLI uses. The gRPC client satisfies it;
// tests provide a stub.
type Backend interface {
	Bind(ctx context.Context, deviceID, name string) (*models.Device, error)
	Unbind(ctx context.Context, deviceID string) error
	DeviceStatus(ctx context.Context, deviceID string) (*models.Device, error)
	ListDevices(ctx context.Context, page, pageSize int) ([]*models.Device, int64, error)
	SendCommand(ctx context.Context, deviceID, kind string, params []byte) (string, error)
	GetCommand(ctx context.Context, commandID string) (*models.Command, error)
	ListFiles(ctx context.Context, deviceID, fileType string, page, pageSize int) ([]*models.File, int64, error)
	DeleteFile(ctx context.Context, fileID string) error
	PreviewFrameURL(ctx context.Context, deviceID string) (string, error)
	Close() error
}

type App struct {
	config  *config.Config
	client  Backend
	session *session.Store
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := session.Open(ctx, c.SessionDBPath)
	if err != nil {
		log.Printf("error initializing session database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewEVCamClientService(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		config:  c,
		client:  apiClient,
		session: session.NewStore(db),
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// boundDevice resolves the device a command targets: an explicit argument
// wins, otherwise the session's bound camera is used.
func (a *App) boundDevice(ctx context.Context, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	sess, err := a.session.Load(ctx)
	if err != nil {
		return "", err
	}
	if sess.DeviceID == "" {
		return "", client.ErrNoBoundDevice
	}
	return sess.DeviceID, nil
}
