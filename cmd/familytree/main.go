package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hartono/familytree/api"
	"github.com/hartono/familytree/api/handlers"
	"github.com/hartono/familytree/config"
	"github.com/hartono/familytree/internal/audit"
	"github.com/hartono/familytree/internal/auth"
	"github.com/hartono/familytree/internal/calendar"
	"github.com/hartono/familytree/internal/family"
	"github.com/hartono/familytree/internal/models"
	"github.com/hartono/familytree/internal/repository"
)

// Version is set at build time with ldflags.
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "familytree",
		Short:   "Family-genealogy backend",
		Version: Version,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateSuperadminCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gin.SetMode(cfg.GinMode)

			db, err := repository.NewDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			recorder := audit.NewRecorder(db.DB)
			syncer := calendar.NewSyncer(db.DB)
			engine := family.NewEngine(db.DB, recorder, syncer)
			sessions := auth.NewSessionManager(db.DB, time.Duration(cfg.SessionTTLHours)*time.Hour)

			h := handlers.NewHandler(db.DB, engine, syncer, sessions, auth.AutoApprove)
			r := api.NewRouter(h)

			log.Printf("listening on %s", cfg.ListenAddr())
			return r.Run(cfg.ListenAddr())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run the schema migration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := repository.NewDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Println("migration complete")
			return nil
		},
	}
}

func newCreateSuperadminCmd() *cobra.Command {
	var username, password, name string

	cmd := &cobra.Command{
		Use:   "create-superadmin",
		Short: "Seed the first superadmin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := repository.NewDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			var count int64
			if err := db.DB.Model(&models.User{}).
				Where("username = ?", username).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("user %q already exists", username)
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			user := models.User{
				Username:     username,
				PasswordHash: hash,
				Name:         name,
				Role:         models.RoleSuperadmin,
				Status:       models.StatusApproved,
			}
			if err := db.DB.Create(&user).Error; err != nil {
				return err
			}
			fmt.Printf("superadmin %q created (id %d)\n", username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "superadmin", "login username")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().StringVar(&name, "name", "Super Admin", "display name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
