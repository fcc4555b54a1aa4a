// Command sheetctl runs maintenance tasks against the sheet store: index
// creation, xlsx imports, report exports and user bootstrap.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/NamigGuliyef/avian-chat-sub000/config"
	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/bootstrap"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/spf13/cobra"
)

var envFiles []string

func main() {
	rootCmd := &cobra.Command{
		Use:           "sheetctl",
		Short:         "Maintenance commands for the sheet service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "Env files to load (default: config/env/<GO_ENV>.env)")

	rootCmd.AddCommand(
		newEnsureIndexesCmd(),
		newImportCmd(),
		newExportReportCmd(),
		newUserCmd(),
		newTokenCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// session is an opened store with its services.
type session struct {
	cfg      *config.Configuration
	backend  *bootstrap.Backend
	services *bootstrap.Services
}

func (s *session) Close() {
	s.backend.Close()
}

// open loads configuration and opens the configured store.
func open(ctx context.Context) (*session, error) {
	if err := logger.Init(nil); err != nil {
		return nil, err
	}
	global.InitColNames()
	global.InitValidator()

	cfg := config.NewConfig(envFiles...)
	if cfg == nil {
		return nil, fmt.Errorf("could not load configuration")
	}
	global.MongoDB_ServerConfig = cfg

	backend, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, backend: backend, services: bootstrap.NewServices(backend.Store, cfg)}, nil
}

// principalOf loads the user acting for a command.
func (s *session) principalOf(ctx context.Context, userID string) (authmodels.Principal, error) {
	id, err := utility.String2ObjectID("as", userID)
	if err != nil {
		return authmodels.Principal{}, err
	}
	user, err := s.services.Users.Get(ctx, id)
	if err != nil {
		return authmodels.Principal{}, err
	}
	return authmodels.Principal{UserID: user.ID, Role: user.Role, CompanyID: user.CompanyID}, nil
}
