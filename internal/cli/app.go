package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dkalnina/notedrop/internal/capture"
	"github.com/dkalnina/notedrop/internal/config"
	"github.com/dkalnina/notedrop/internal/cryptox"
	"github.com/dkalnina/notedrop/internal/filex"
	"github.com/dkalnina/notedrop/internal/history"
	"github.com/dkalnina/notedrop/internal/imghost"
	"github.com/dkalnina/notedrop/internal/localdb"
	"github.com/dkalnina/notedrop/internal/logging"
	"github.com/dkalnina/notedrop/internal/notion"
	"github.com/dkalnina/notedrop/internal/secrets"
)

// submitter is the pipeline surface the shell needs. The real
// capture.Pipeline satisfies it; tests can provide a stub.
type submitter interface {
	Submit(ctx context.Context, req capture.Request) error
}

type App struct {
	config   *config.Config
	pipeline submitter
	secrets  *secrets.Provider
	history  history.Repository
	log      logging.Logger
	db       *sql.DB
	reader   *bufio.Reader
	out      io.Writer

	// sessionCtx bounds every background submission; cancelling it aborts
	// their outstanding network calls. wg tracks the submission goroutines.
	sessionCtx context.Context
	endSession context.CancelFunc
	wg         sync.WaitGroup
}

// NewApp opens the data directory and wires the full submission stack:
// vault-backed secrets, the configured image host client, the Notion
// publisher, and the local history log.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	dataDir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}

	db, err := localdb.Open(ctx, filepath.Join(dataDir, "notedrop.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	key, err := cryptox.LoadOrCreateKeyfile(filepath.Join(dataDir, "vault.key"))
	if err != nil {
		return nil, fmt.Errorf("failed to load vault key: %w", err)
	}

	provider := secrets.NewProvider(secrets.NewVaultStore(db, key))

	uploader, err := newUploader(cfg, provider)
	if err != nil {
		return nil, err
	}

	publisher := notion.NewClient(cfg.NotionBaseURL, provider, cfg.RequestTimeout)
	repo := history.NewSQLiteRepository(db)
	recorder := &historyRecorder{repo: repo, log: log}

	sessionCtx, endSession := context.WithCancel(context.Background())

	return &App{
		config:     cfg,
		pipeline:   capture.NewPipeline(provider, uploader, publisher, recorder, log),
		secrets:    provider,
		history:    repo,
		log:        log,
		db:         db,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		sessionCtx: sessionCtx,
		endSession: endSession,
	}, nil
}

func newUploader(cfg *config.Config, creds imghost.Credentials) (imghost.Uploader, error) {
	switch cfg.ImageHost {
	case config.ImageHostImgur:
		return imghost.NewImgurClient(cfg.ImgurBaseURL, creds, cfg.RequestTimeout), nil
	case config.ImageHostS3:
		return imghost.NewS3Uploader(imghost.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			BaseEndpoint:  cfg.S3BaseEndpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown image host: %q", cfg.ImageHost)
	}
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s)", a.config.ImageHost)
}

// Run starts the REPL and blocks until the user exits. Leaving the shell
// ends the capture session: in-flight submissions are cancelled rather than
// leaked, their outcomes still land in the history log.
func (a *App) Run(ctx context.Context) {
	a.log.Info(ctx, "notedrop shell started", "data_dir", a.config.DataDir)
	printlnFn("notedrop (type 'help' for commands)")

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)

	a.endSession()
	a.wg.Wait()
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "failed to close database", "error", err)
	}
}
