package main

import (
	"context"
	"crypto/tls"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/bootstrap"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// serve listens on the configured address, over TLS when enabled, until the
// app shuts down.
func serve(app *fiber.App) error {
	cfg := global.MongoDB_ServerConfig
	address := ":" + cfg.Address
	log := logger.GetAppLogger()

	if cfg.EnableTLS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return err
		}
		ln, err := net.Listen("tcp", address)
		if err != nil {
			return err
		}
		tlsListener := tls.NewListener(ln, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})
		log.WithFields(logrus.Fields{"address": address, "cert": cfg.TLSCertFile}).Info("Starting server with HTTPS/TLS")
		return app.Listener(tlsListener, fiber.ListenConfig{DisableStartupMessage: true})
	}

	log.WithFields(logrus.Fields{"address": address, "protocol": "HTTP"}).Info("Starting server with HTTP")
	return app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

func main() {
	initLogger()
	InitGlobal()

	ctx := context.Background()
	backend := InitStore(ctx)
	defer backend.Close()

	services := bootstrap.NewServices(backend.Store, global.MongoDB_ServerConfig)
	app := InitFiberApp(backend, services)

	log := logger.GetAppLogger()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-stop
		log.WithField("signal", sig.String()).Info("Shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	if err := serve(app); err != nil {
		log.WithError(err).Error("Server stopped with error")
		backend.Close()
		os.Exit(1)
	}
	log.Info("Server stopped")
}
