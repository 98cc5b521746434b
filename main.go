package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/vendormart/vendormart/config"
	"github.com/vendormart/vendormart/internal/api"
	"github.com/vendormart/vendormart/internal/app"
	"github.com/vendormart/vendormart/internal/importer"
	"github.com/vendormart/vendormart/internal/vendor"
	"github.com/vendormart/vendormart/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	h         bool
	initdb    bool
	conffile  string
	importDir string
)

func init() {
	flag.BoolVar(&h, "h", false, "help usage")
	flag.BoolVar(&initdb, "initdb", false, "drop and recreate all tables")
	flag.StringVar(&conffile, "c", "/etc/vendormart.yml", "config file")
	flag.StringVar(&importDir, "import", "", "import legacy json collections from dir and exit")
}

func main() {
	flag.Parse()
	if h {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(conffile)
	a := app.NewApplication(cfg)
	a.Init(cfg)
	defer a.Release()

	if initdb {
		a.InitDb()
		zap.S().Info("database initialized")
		return
	}

	if importDir != "" {
		im := importer.New(a.DB(), a)
		if err := im.ImportDir(context.Background(), importDir); err != nil {
			zap.S().Fatalf("legacy import failed: %v", err)
		}
		zap.S().Info("legacy import finished")
		return
	}

	dispatcher, err := vendor.NewDispatcher(cfg.Otp, cfg.GetDataDir())
	if err != nil {
		zap.S().Fatalf("otp dispatcher init failed: %v", err)
	}
	defer dispatcher.Close()

	server := webserver.Init(cfg)
	api.Init(a, dispatcher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Listen)
	g.Go(func() error {
		a.StartBackgroundJobs(ctx)
		<-ctx.Done()
		return server.Echo().Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server stopped: %v", err)
	}
}
