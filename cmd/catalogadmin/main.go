package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talkincode/catalogadmin/config"
	"github.com/talkincode/catalogadmin/internal/adminapi"
	"github.com/talkincode/catalogadmin/internal/app"
	"github.com/talkincode/catalogadmin/internal/audit"
	"github.com/talkincode/catalogadmin/internal/auth"
	"github.com/talkincode/catalogadmin/internal/catalog"
	"github.com/talkincode/catalogadmin/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	cfile   = flag.String("c", "", "config yaml file")
	initdb  = flag.Bool("initdb", false, "drop and recreate all tables, then seed the default admin")
	hashpwd = flag.String("hashpwd", "", "print the bcrypt hash of a password and exit")
)

func main() {
	flag.Parse()

	if *hashpwd != "" {
		hash, err := auth.HashPassword(*hashpwd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.LoadConfig(*cfile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		zap.S().Errorf("application init failed: %v", err)
		application.Release()
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	if err := run(application); err != nil {
		zap.S().Error(err)
		application.Release()
		os.Exit(1)
	}
}

func run(application *app.Application) error {
	cfg := application.Config()
	db := application.DB()
	bus := application.Bus()

	if err := cfg.CheckSecret(); err != nil {
		return err
	}
	if cfg.WeakSecret() {
		zap.S().Warn("web.secret is a published default, admin tokens can be forged by anyone; do not use this outside development")
	}

	tokens := auth.NewTokenService([]byte(cfg.Web.Secret), cfg.TokenDuration(), cfg.System.Appid)
	loginService := auth.NewService(auth.NewGormAdminRepository(db), tokens, bus)
	productService := catalog.NewService(catalog.NewGormProductRepository(db), catalog.WithEventBus(bus))

	server := webserver.New(cfg, tokens)
	adminapi.New(loginService, productService, audit.NewGormOprLogRepository(db), db).Register(server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down admin api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
