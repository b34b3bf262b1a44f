package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"concierge/app/client/docstore"
	"concierge/app/client/llm"
	"concierge/app/config"
	"concierge/app/service/engine"
	"concierge/app/service/queue"
	"concierge/app/service/teashop"
	"concierge/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, llm.NewClient)
	do.Provide(di, docstore.NewClient)
	do.Provide(di, teashop.New)
	do.Provide(di, func(di *do.Injector) (engine.Assistant, error) {
		return do.MustInvoke[*teashop.Service](di), nil
	})
	do.Provide(di, queue.New)
	do.Provide(di, engine.New)

	slog.Info("Tea shop assistant started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		cancel()
	}()

	go do.MustInvoke[*queue.Service](di).RunReader(appCtx)

	do.MustInvoke[*engine.Service](di).Run(appCtx)
}
