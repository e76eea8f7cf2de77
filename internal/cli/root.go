// Package cli is the taskmaster command-line client: auth commands against the API
// and task commands against local storage.
package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oksasatya/taskmaster/internal/client"
	"github.com/oksasatya/taskmaster/internal/dashboard"
	"github.com/oksasatya/taskmaster/pkg/helpers"
	"github.com/oksasatya/taskmaster/pkg/storage"
)

var ErrNotLoggedIn = errors.New("You are not logged in. Run `taskmaster login` first.")

// App carries what every command needs; it is filled in by the root PreRun.
type App struct {
	Config Config
	Out    io.Writer
	ErrOut io.Writer
	Logger *logrus.Logger
	Store  storage.Storage
	Auth   *client.Client

	v         *viper.Viper
	ownsStore bool
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

type Option func(*App)

// WithStorage skips the configured backend.
func WithStorage(s storage.Storage) Option { return func(a *App) { a.Store = s } }

func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) { a.Out, a.ErrOut = out, errOut }
}

func WithClock(now func() time.Time) Option { return func(a *App) { a.now = now } }

func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(a *App) { a.sleep = sleep }
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func NewRootCmd(opts ...Option) *cobra.Command {
	a := &App{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		v:      newViper(),
		now:    time.Now,
		sleep:  sleepCtx,
	}
	for _, opt := range opts {
		opt(a)
	}

	var configPath string
	root := &cobra.Command{
		Use:           "taskmaster",
		Short:         "TaskMaster - personal tasks with rewards",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), configPath)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.ownsStore {
				return storage.Close(a.Store)
			}
			return nil
		},
	}
	root.SetOut(a.Out)
	root.SetErr(a.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ~/.taskmaster/config.yaml)")
	pf.String("api-url", "", "auth API base URL")
	pf.String("storage", "", "storage backend: file, redis, gcs or memory")
	pf.Bool("verbose", false, "debug logging on stderr")
	pf.Duration("timeout", 0, "auth API request timeout")
	_ = a.v.BindPFlag("api_url", pf.Lookup("api-url"))
	_ = a.v.BindPFlag("storage", pf.Lookup("storage"))
	_ = a.v.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = a.v.BindPFlag("timeout", pf.Lookup("timeout"))

	root.AddCommand(registerCmd(a), loginCmd(a), logoutCmd(a), whoamiCmd(a))
	root.AddCommand(tasksCmd(a), subtasksCmd(a), rewardCmd(a))
	return root
}

func (a *App) init(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(a.v, configPath)
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Logger = helpers.NewCLILogger(a.ErrOut, cfg.Verbose)

	if a.Store == nil {
		s, err := storage.Open(ctx, storage.Options{
			Driver:         cfg.Storage,
			DataDir:        cfg.DataDir,
			RedisAddr:      cfg.RedisAddr,
			RedisPassword:  cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			GCSBucket:      cfg.GCSBucket,
			GCSCredentials: cfg.GCSCredentials,
			Logger:         a.Logger,
		})
		if err != nil {
			return err
		}
		a.Store, a.ownsStore = s, true
	}
	a.Auth = client.New(cfg.APIURL, a.Store, a.Logger,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	a.Logger.WithFields(logrus.Fields{"storage": cfg.Storage, "api_url": cfg.APIURL}).Debug("client ready")
	return nil
}

// controller opens the dashboard of the logged-in user.
func (a *App) controller(ctx context.Context) (*dashboard.Controller, error) {
	if a.Auth.Guard(ctx, client.ViewDashboard) != client.ViewDashboard {
		return nil, ErrNotLoggedIn
	}
	user := a.Auth.CurrentUser(ctx)
	store := dashboard.NewTaskStore(a.Store, a.Logger)
	return dashboard.NewController(ctx, store, user.Username, dashboard.WithClock(a.now)), nil
}
