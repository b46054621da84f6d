package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/configs"
	"github.com/Rakhulsr/go-storeadmin/app/db/seeders"
	"github.com/Rakhulsr/go-storeadmin/app/models/migrations"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/Rakhulsr/go-storeadmin/app/routes"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func NewCommand(env configs.ENV) *cli.Command {
	return &cli.Command{
		Name:   "storeadmin",
		Usage:  "Store administration API and admin panel",
		Action: func(ctx context.Context, c *cli.Command) error { return serve(ctx, env, false) },
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "migrate", Usage: "run database migrations before serving"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env, c.Bool("migrate"))
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "create-admin",
				Usage: "Create a staff account that can sign in to the API and admin panel",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
					&cli.BoolFlag{Name: "superuser", Usage: "grant superuser rights"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					auth := services.NewAuthService(db, repositories.NewUserRepository(db), repositories.NewRefreshTokenRepository(db), services.AuthConfig{})
					user, err := auth.CreateStaffUser(ctx, services.CreateStaffInput{
						Email:       c.String("email"),
						Password:    c.String("password"),
						FirstName:   c.String("first-name"),
						LastName:    c.String("last-name"),
						IsSuperuser: c.Bool("superuser"),
					})
					if err != nil {
						return err
					}
					log.Printf("✅ Admin user %s created (id %d)", user.Email, user.ID)
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Insert demo categories, products, customers and orders",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "categories", Value: 5},
					&cli.IntFlag{Name: "products", Value: 20},
					&cli.IntFlag{Name: "customers", Value: 5},
					&cli.IntFlag{Name: "orders", Value: 5},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					_, err = seeders.DBSeed(ctx, db, seeders.Options{
						Categories: int(c.Int("categories")),
						Products:   int(c.Int("products")),
						Customers:  int(c.Int("customers")),
						Orders:     int(c.Int("orders")),
					})
					return err
				},
			},
			{
				Name:  "prune-tokens",
				Usage: "Delete expired refresh tokens",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					defer closeDB(db)

					auth := services.NewAuthService(db, repositories.NewUserRepository(db), repositories.NewRefreshTokenRepository(db), services.AuthConfig{})
					n, err := auth.PruneTokens(ctx)
					if err != nil {
						return err
					}
					log.Printf("✅ Deleted %d expired refresh tokens", n)
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session, CSRF and JWT keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Value: ".env.keys", Usage: "file the keys are written to"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateAndPrintSessionKeys(c.String("output")); err != nil {
						return err
					}
					log.Println("✅ Key generation complete. Please copy the keys to your .env file.")
					return nil
				},
			},
		},
	}
}

func RunCli(env configs.ENV) {
	if err := NewCommand(env).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func imageStore(env configs.ENV) services.ImageStore {
	cld, err := configs.NewCloudinary(env)
	if err != nil {
		log.Printf("Warning: %v. Image uploads will be rejected.", err)
		return services.UnconfiguredStore{}
	}
	return services.NewCloudinaryStore(cld, env.CloudinaryFolder)
}

func sessionKeys(env configs.ENV) (*configs.SessionKeys, error) {
	keys, err := configs.LoadSessionKeys(env)
	if err == nil {
		return keys, nil
	}
	if env.IsProduction() {
		return nil, err
	}
	log.Printf("Warning: %v. Using temporary keys; admin sessions will not survive a restart.", err)
	return configs.EphemeralSessionKeys(), nil
}

func serve(ctx context.Context, env configs.ENV, migrate bool) error {
	if len(env.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be set to at least 32 characters; run generate-keys")
	}
	keys, err := sessionKeys(env)
	if err != nil {
		return err
	}

	db, err := configs.OpenConnection(env)
	if err != nil {
		return fmt.Errorf("DB connection failed: %w", err)
	}
	log.Println("✅ Database connected.")
	defer closeDB(db)

	if migrate {
		if err := migrations.AutoMigrate(db); err != nil {
			return err
		}
		log.Println("✅ Migration complete")
	}

	server := &http.Server{
		Addr:              env.Port,
		Handler:           routes.NewRouter(db, imageStore(env), env, keys),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("closeDB: %v", err)
	}
}
