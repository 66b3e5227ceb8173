package main

import (
	"fmt"

	"GlobalDent/cache"
	"GlobalDent/database"
	"GlobalDent/models"
	"GlobalDent/routes"
	"GlobalDent/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed the operator roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// InitDB migrates and seeds roles on open.
			if _, err := database.InitDB(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default procedure catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.InitDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			// Without Redis there is no cached catalog to drop.
			redisClient, err := database.NewRedisClient(cmd.Context(), cfg)
			if err != nil {
				log.Warn().Err(err).Msg("Redis unavailable, seeding without cache invalidation")
			} else {
				defer redisClient.Close()
			}
			appCache := cache.NewCache(redisClient)

			if clear {
				log.Warn().Msg("Clearing clinic data")
				if err := database.ClearData(cmd.Context(), db, appCache); err != nil {
					return err
				}
				if err := models.SeedRoles(db); err != nil {
					return err
				}
			}

			created, err := database.SeedCatalog(cmd.Context(), db, appCache)
			if err != nil {
				return err
			}
			fmt.Printf("Procedure catalog seeded: %d new entries.\n", created)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "delete all clinic data before seeding")
	return cmd
}

func newCreateOperatorCommand() *cobra.Command {
	var input services.RegisterInput
	cmd := &cobra.Command{
		Use:   "create-operator",
		Short: "Create an operator account, e.g. the first Admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.InitDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			// Registration takes no Redis lock here: the client stays nil.
			svc, err := routes.NewServices(routes.Dependencies{Config: cfg, DB: db})
			if err != nil {
				return err
			}
			user, err := svc.Users.Register(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Printf("Operator %s (%s) created with id %d.\n", user.Username, user.Role.Name, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Username, "username", "", "operator username")
	cmd.Flags().StringVar(&input.Email, "email", "", "operator email")
	cmd.Flags().StringVar(&input.Password, "password", "", "operator password")
	cmd.Flags().StringVar(&input.Role, "role", "Admin", "operator role")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
