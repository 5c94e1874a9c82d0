package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
	"github.com/PlayraLive/h-ai-sub006/internal/config"
	"github.com/PlayraLive/h-ai-sub006/internal/dbmysql"
	"github.com/PlayraLive/h-ai-sub006/internal/logger"
	"github.com/PlayraLive/h-ai-sub006/internal/notif"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the MySQL schema",
	RunE:  runMigrate,
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete notifications older than the retention horizon",
	RunE:  runCleanup,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a bearer token signed with JWT_SECRET",
	RunE:  runToken,
}

func init() {
	cleanupCmd.Flags().Int("older-than-days", 0, "Retention in days (0 uses NOTIFICATION_RETENTION_DAYS)")
	cleanupCmd.Flags().Duration("timeout", 5*time.Minute, "Abort the cleanup after this long")

	tokenCmd.Flags().String("user", "", "User id placed in the token")
	tokenCmd.Flags().String("role", "", `Role claim, "service" for internal routes`)
	_ = tokenCmd.MarkFlagRequired("user")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.New(cfg)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
	return cfg, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := dbmysql.AutoMigrate(db); err != nil {
		return err
	}
	log.Info().Msg("Database migration completed")
	return nil
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetInt("older-than-days")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc := notif.NewNotificationService(cfg, dbmysql.NewNotificationRepository(db))
	deleted, err := svc.Cleanup(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d notifications\n", deleted)
	return nil
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	userID, _ := cmd.Flags().GetString("user")
	role, _ := cmd.Flags().GetString("role")

	token, err := common.NewTokenManager(cfg).GenerateToken(userID, role)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
