// Command kiosk is the storefront and admin client. Each invocation loads the
// catalog from the API, runs one command and exits; the cart and the admin
// session survive between runs in the data directory.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"kantin-be/internal/config"
	"kantin-be/internal/gateway"
	"kantin-be/internal/localstore"
	"kantin-be/internal/logger"
	"kantin-be/internal/notify"
	"kantin-be/internal/order"
	"kantin-be/internal/store"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg := config.LoadKioskConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	kv, err := localstore.NewFileStore(cfg.DataDir)
	if err != nil {
		return err
	}

	gw := gateway.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, kv)

	notifier, closeNotifier := buildNotifier(cfg)
	defer closeNotifier()

	var opener order.Opener = order.PrintOpener{W: out}
	if os.Getenv("KANTIN_OPEN_BROWSER") == "true" {
		opener = order.BrowserOpener{}
	}

	st := store.New(store.Options{
		Gateway:     gw,
		KV:          kv,
		Opener:      opener,
		Notifier:    notifier,
		WhatsAppURL: cfg.WhatsAppURL,
	})
	defer st.Close()

	return newApp(st, out).dispatch(ctx, args)
}

// buildNotifier wires whichever order sinks are configured. A sink that fails
// to connect is skipped so orders still go out over WhatsApp.
func buildNotifier(cfg *config.KioskConfig) (notify.Notifier, func()) {
	var sinks notify.Multi
	closeFn := func() {}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.L().Warn("telegram disabled", zap.Error(err))
		} else {
			sinks = append(sinks, tg)
		}
	}

	if cfg.RabbitMQURL != "" {
		mq, err := notify.DialRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.L().Warn("rabbitmq disabled", zap.Error(err))
		} else {
			sinks = append(sinks, mq)
			closeFn = func() { _ = mq.Close() }
		}
	}

	if len(sinks) == 0 {
		return nil, closeFn
	}
	return sinks, closeFn
}
