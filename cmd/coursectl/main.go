// Command coursectl is the operator CLI for the course marketplace database.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/learnhub/course-marketplace/internal/core/ports"
	"github.com/learnhub/course-marketplace/internal/core/service"
	mongostore "github.com/learnhub/course-marketplace/internal/infrastructure/db/mongo"
	"github.com/learnhub/course-marketplace/internal/infrastructure/db/postgres"
	"github.com/learnhub/course-marketplace/internal/pkg/config"
	"github.com/learnhub/course-marketplace/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "coursectl",
		Usage: "administer the course marketplace database",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: withDB(migrate),
			},
			{
				Name:  "users",
				Usage: "list users",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "q", Usage: "search username, email and names"},
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.IntFlag{Name: "limit", Value: ports.MaxPageLimit},
				},
				Action: withDB(listUsers),
			},
			{
				Name:      "purchases",
				Usage:     "list the courses a user owns with their progress",
				ArgsUsage: "<user-id>",
				Action:    withDB(listPurchases),
			},
			{
				Name:      "credit",
				Usage:     "add (or with a negative amount, remove) balance",
				ArgsUsage: "<user-id> <amount>",
				Action:    withDB(credit),
			},
			{
				Name:      "activity",
				Usage:     "show the most recent activity log entries of a user",
				ArgsUsage: "<user-id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "limit", Value: 20},
				},
				Action: listActivity,
			},
			{
				Name:      "promote",
				Usage:     "grant administrator rights",
				ArgsUsage: "<user-id>",
				Action:    withDB(promote),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

type services struct {
	db        *gorm.DB
	users     *service.UserService
	purchases *service.PurchaseService
}

// withDB opens the configured database for the duration of one command.
func withDB(action func(*cli.Context, *services) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.LoadContext(c.Context)
		if err != nil {
			return err
		}
		log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr, Service: "coursectl"})

		db, err := postgres.Open(c.Context, postgres.Config{
			Driver:  cfg.Database.Driver,
			DSN:     cfg.Database.URL,
			MaxOpen: cfg.Database.MaxOpen,
			MaxIdle: cfg.Database.MaxIdle,
		})
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = postgres.Close(db) }()

		return action(c, newServices(db, log))
	}
}

func newServices(db *gorm.DB, log zerolog.Logger) *services {
	moduleRepo := postgres.NewModuleRepository(db)
	progress := service.NewProgressService(postgres.NewProgressRepository(db), moduleRepo, nil, log)
	return &services{
		db:        db,
		users:     service.NewUserService(postgres.NewUserRepository(db), nil, log),
		purchases: service.NewPurchaseService(postgres.NewPurchaseRepository(db), progress, nil, nil, log),
	}
}

func migrate(_ *cli.Context, s *services) error {
	if err := postgres.Migrate(s.db); err != nil {
		return err
	}
	color.Green("schema is up to date")
	return nil
}

func listUsers(c *cli.Context, s *services) error {
	page, err := s.users.ListUsers(c.Context, ports.PageRequest{
		Query: c.String("q"),
		Page:  c.Int("page"),
		Limit: c.Int("limit"),
	}.Normalize())
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Username", "Email", "Name", "Balance", "Role", "Active"})
	for _, u := range page.Items {
		table.Append([]string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Email,
			u.FullName(),
			strconv.FormatInt(u.Balance, 10),
			u.Role(),
			strconv.FormatBool(u.IsActive),
		})
	}
	table.Render()
	color.Cyan("page %d of %d (%d users)", page.Page, page.TotalPages, page.Total)
	return nil
}

func listPurchases(c *cli.Context, s *services) error {
	id, err := userIDArg(c, 0)
	if err != nil {
		return err
	}
	user, err := s.users.GetUser(c.Context, id)
	if err != nil {
		return err
	}
	page, err := s.purchases.ListOwnedCourses(c.Context, user, ports.PageRequest{Limit: ports.MaxPageLimit}.Normalize())
	if err != nil {
		return err
	}

	color.Yellow("Courses owned by %s", user.Username)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Course", "Title", "Price", "Purchased", "Progress"})
	for _, owned := range page.Items {
		table.Append([]string{
			owned.Course.ID.String(),
			owned.Course.Title,
			strconv.FormatInt(owned.Course.Price, 10),
			owned.PurchasedAt.Format(time.RFC3339),
			strconv.Itoa(owned.ProgressPercentage) + "%",
		})
	}
	table.Render()
	return nil
}

func credit(c *cli.Context, s *services) error {
	id, err := userIDArg(c, 0)
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(c.Args().Get(1), 10, 64)
	if err != nil {
		return fmt.Errorf("amount must be an integer: %w", err)
	}

	user, err := s.users.ChangeBalance(c.Context, id, amount)
	if err != nil {
		return err
	}
	color.Green("%s now has a balance of %d", user.Username, user.Balance)
	return nil
}

func promote(c *cli.Context, s *services) error {
	id, err := userIDArg(c, 0)
	if err != nil {
		return err
	}
	user, err := s.users.Promote(c.Context, id)
	if err != nil {
		return err
	}
	color.Green("%s is now an administrator", user.Username)
	return nil
}

// listActivity reads the Mongo activity log; it does not need the relational store.
func listActivity(c *cli.Context) error {
	id, err := userIDArg(c, 0)
	if err != nil {
		return err
	}
	cfg, err := config.LoadContext(c.Context)
	if err != nil {
		return err
	}

	client, db, err := mongostore.Connect(c.Context, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "coursectl"})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	events, err := mongostore.NewActivityRepository(db).ListByUser(c.Context, id, c.Int64("limit"))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"When", "Type", "Course", "Module", "Amount", "Balance"})
	for _, e := range events {
		balance := ""
		if e.Balance != nil {
			balance = strconv.FormatInt(*e.Balance, 10)
		}
		table.Append([]string{
			e.OccurredAt.Format(time.RFC3339),
			string(e.Type),
			e.CourseID,
			e.ModuleID,
			strconv.FormatInt(e.Amount, 10),
			balance,
		})
	}
	table.Render()
	return nil
}

func userIDArg(c *cli.Context, pos int) (int64, error) {
	id, err := strconv.ParseInt(c.Args().Get(pos), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", c.Args().Get(pos))
	}
	return id, nil
}
