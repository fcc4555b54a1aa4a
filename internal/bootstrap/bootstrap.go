// Package bootstrap opens the configured store and wires the services shared
// by the API server and the sheetctl CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/NamigGuliyef/avian-chat-sub000/config"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	basehdl "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/handler"
	reportsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/service"
	sheetsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/service"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/database"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store/memory"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store/mongostore"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Backend is an opened store together with its health check.
type Backend struct {
	Store  *store.Store
	Ping   basehdl.Pinger // nil for the memory driver
	client *mongo.Client
}

// OpenStore opens the store selected by cfg.StoreDriver. For MongoDB it
// connects, creates missing collections and registers them.
func OpenStore(ctx context.Context, cfg *config.Configuration) (*Backend, error) {
	if global.MongoDB_ColNames.Users == "" {
		global.InitColNames()
	}

	switch cfg.StoreDriver {
	case DriverMemory:
		logger.GetAppLogger().Warn("Using the in-memory store, data is lost on exit")
		return &Backend{Store: memory.New()}, nil
	case DriverMongo, "":
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	client, err := database.GetInstance(cfg)
	if err != nil {
		return nil, err
	}
	global.MongoDB_Session = client

	db := client.Database(cfg.MongoDB_DBName)
	if err := database.EnsureCollections(ctx, db, global.ColNameList()); err != nil {
		_ = database.CloseInstance(client)
		return nil, err
	}
	if err := RegisterCollections(db); err != nil {
		_ = database.CloseInstance(client)
		return nil, err
	}

	st, err := mongostore.New(global.RegistryCollections, global.MongoDB_ColNames)
	if err != nil {
		_ = database.CloseInstance(client)
		return nil, err
	}
	return &Backend{
		Store:  st,
		Ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
		client: client,
	}, nil
}

// RegisterCollections adds every owned collection of db to the global
// registry.
func RegisterCollections(db *mongo.Database) error {
	log := logger.GetAppLogger()
	for _, name := range global.ColNameList() {
		created := false
		_, err := global.RegistryCollections.GetOrCreate(name, func() (*mongo.Collection, error) {
			created = true
			return db.Collection(name), nil
		})
		if err != nil {
			return fmt.Errorf("register collection %s: %w", name, err)
		}
		if created {
			log.Debugf("Collection %s registered", name)
		}
	}
	return nil
}

// EnsureIndexes creates the model indexes. It does nothing for the memory
// driver.
func (b *Backend) EnsureIndexes(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	return mongostore.EnsureIndexes(ctx, global.RegistryCollections, global.MongoDB_ColNames)
}

// Close disconnects from MongoDB when connected and forgets the registered
// collections.
func (b *Backend) Close() {
	if b.client == nil {
		return
	}
	if n, err := global.RegistryCollections.ClearAll(nil); err == nil {
		logger.GetAppLogger().Debugf("Released %d collections", n)
	}
	_ = database.CloseInstance(b.client)
}

// Services are the domain services built over one store.
type Services struct {
	Store       *store.Store
	Tokens      *authsvc.TokenService
	Users       *authsvc.UserService
	Columns     *sheetsvc.ColumnService
	Rows        *sheetsvc.RowService
	Permissions *sheetsvc.PermissionService
	Imports     *sheetsvc.ImportService
	Reports     *reportsvc.ReportService
}

// NewServices wires the services over st using cfg for their limits.
func NewServices(st *store.Store, cfg *config.Configuration) *Services {
	users := authsvc.NewUserService(st.Users)
	columns := sheetsvc.NewColumnService(st)
	rows := sheetsvc.NewRowService(st, cfg.Row_MaxLimit)
	return &Services{
		Store:       st,
		Tokens:      authsvc.NewTokenService(cfg.JwtSecret, cfg.JwtIssuer),
		Users:       users,
		Columns:     columns,
		Rows:        rows,
		Permissions: sheetsvc.NewPermissionService(st, rows, columns, users, cfg.Permission_MaxRetries),
		Imports:     sheetsvc.NewImportService(st, rows),
		Reports: reportsvc.NewReportService(st, users, reportsvc.Options{
			Locale:          cfg.Report_Locale,
			DefaultPageSize: cfg.Report_DefaultPageSize,
			VisibleColumns:  cfg.Report_VisibleColumns,
		}),
	}
}
