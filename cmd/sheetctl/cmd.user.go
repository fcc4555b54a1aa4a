package main

import (
	"fmt"
	"time"

	authdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/dto"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage directory users",
	}

	var input authdto.UserCreateInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := global.ValidateStruct(input); err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.services.Users.Create(ctx, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), user.ID.Hex())
			return nil
		},
	}
	create.Flags().StringVar(&input.Name, "name", "", "Display name (required)")
	create.Flags().StringVar(&input.Email, "email", "", "Email address")
	create.Flags().StringVar(&input.Role, "role", "", "admin, supervisor, agent or partner (required)")
	create.Flags().StringVar(&input.CompanyID, "company", "", "Company id")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("role")

	cmd.AddCommand(create)
	return cmd
}

func newTokenCmd() *cobra.Command {
	var userID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := utility.String2ObjectID("user", userID)
			if err != nil {
				return err
			}
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.services.Users.Get(ctx, id)
			if err != nil {
				return err
			}
			token, err := s.services.Tokens.Issue(user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
