package main

import (
	"context"
	"fmt"

	"github.com/dalemusser/hostpro/internal/app/bootstrap"
	"github.com/dalemusser/hostpro/internal/app/system/indexes"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	mongoURIFlag = "mongo-uri"
	databaseFlag = "database"
	emailFlag    = "email"
	passwordFlag = "password"
	nameFlag     = "name"
)

var seedFlags = map[string]cobraflags.Flag{
	mongoURIFlag: &cobraflags.StringFlag{
		Name:  mongoURIFlag,
		Value: "mongodb://localhost:27017",
		Usage: "MongoDB connection URI",
	},
	databaseFlag: &cobraflags.StringFlag{
		Name:  databaseFlag,
		Value: "hostpro",
		Usage: "MongoDB database name",
	},
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "admin@example.com",
		Usage: "Email of the admin account",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "Password for the admin account (required)",
	},
	nameFlag: &cobraflags.StringFlag{
		Name:  nameFlag,
		Value: "Admin User",
		Usage: "Display name of the admin account",
	},
}

func newSeedAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin account with access to every workline",
		Long: `Create an admin account unless one with the same email exists.

Running it again is harmless: an existing account is reported and left as is.

Example:
  hostproctl seed-admin --email admin@example.com --password 's3cret!'`,
		RunE: seedAdmin,
	}
	cobraflags.RegisterMap(cmd, seedFlags)
	return cmd
}

func seedAdmin(cmd *cobra.Command, _ []string) error {
	uri := seedFlags[mongoURIFlag].GetString()
	email := seedFlags[emailFlag].GetString()
	password := seedFlags[passwordFlag].GetString()
	if password == "" {
		return fmt.Errorf("--%s is required", passwordFlag)
	}
	if err := wafflemongo.ValidateURI(uri); err != nil {
		return fmt.Errorf("invalid --%s: %w", mongoURIFlag, err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(seedFlags[databaseFlag].GetString())
	if err := indexes.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	created, err := bootstrap.SeedAdmin(ctx, db, email, password, seedFlags[nameFlag].GetString(), logger)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", email)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists; nothing changed\n", email)
	}
	return nil
}
