package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wa-thone-kyaw/ano-backend/config"
	"github.com/wa-thone-kyaw/ano-backend/internal/auth"
	"github.com/wa-thone-kyaw/ano-backend/internal/database"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	roleRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/role/repository"
	"github.com/wa-thone-kyaw/ano-backend/internal/server"
	userRepoPkg "github.com/wa-thone-kyaw/ano-backend/internal/user/repository"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
	grantRole     string
)

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Database maintenance for the ANO backend",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), database.MigrateUp)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), database.MigrateDown)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), database.MigrateStatus)
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an active admin account",
	Long: `Create an active user with the admin role. When --password is omitted
a random one is generated and printed once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), createAdmin)
	},
}

var seedPermissionsCmd = &cobra.Command{
	Use:   "seed-permissions",
	Short: "Create every route capability and grant them to a role",
	Long: `Create the <resource>:read and <resource>:write permissions checked when
AUTHZ_MODE=permissions, then assign all of them to --role.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), seedPermissions)
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password, generated when empty")
	_ = createAdminCmd.MarkFlagRequired("email")

	seedPermissionsCmd.Flags().StringVar(&grantRole, "role", "admin", "Role receiving every permission")

	rootCmd.AddCommand(upCmd, downCmd, statusCmd, createAdminCmd, seedPermissionsCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withDB(ctx context.Context, fn func(ctx context.Context, db *sqlx.DB) error) error {
	cfg := config.LoadEnv()
	db, err := database.NewPostgres(ctx, &database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}

func createAdmin(ctx context.Context, db *sqlx.DB) error {
	plain := adminPassword
	if plain == "" {
		var err error
		if plain, err = auth.RandomPassword(); err != nil {
			return err
		}
	}
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return err
	}

	u := &model.User{
		Name:     adminName,
		Email:    adminEmail,
		Password: hash,
		Role:     "admin",
		Status:   model.UserActive,
	}
	if err := userRepoPkg.NewPGRepository(db).Create(ctx, u); err != nil {
		return err
	}

	fmt.Printf("created admin %s (id %d)\n", u.Email, u.ID)
	if adminPassword == "" {
		fmt.Printf("password: %s\n", plain)
	}
	return nil
}

func seedPermissions(ctx context.Context, db *sqlx.DB) error {
	roles := roleRepoPkg.NewPGRepository(db)
	tx := database.NewTxManager(db)

	return tx.WithTx(ctx, func(ctx context.Context) error {
		all, err := roles.FindAll(ctx)
		if err != nil {
			return err
		}
		var target *model.Role
		for i := range all {
			if all[i].Name == grantRole {
				target = &all[i]
			}
		}
		if target == nil {
			return fmt.Errorf("role %q does not exist", grantRole)
		}

		existing, err := roles.FindAllPermissions(ctx)
		if err != nil {
			return err
		}
		ids := make(map[string]int64, len(existing))
		for _, p := range existing {
			ids[p.Name] = p.ID
		}

		var grant []int64
		for _, resource := range server.Resources {
			for _, write := range []bool{false, true} {
				name := auth.Capability(resource, write)
				id, ok := ids[name]
				if !ok {
					p := &model.Permission{Name: name}
					if err := roles.CreatePermission(ctx, p); err != nil {
						return err
					}
					id = p.ID
				}
				grant = append(grant, id)
			}
		}
		if err := roles.AssignPermissions(ctx, target.ID, grant); err != nil {
			return err
		}
		fmt.Printf("granted %d permissions to %s\n", len(grant), grantRole)
		return nil
	})
}
