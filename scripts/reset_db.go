package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"suryaghar-backend/internal/auth"
	"suryaghar-backend/internal/config"
	"suryaghar-backend/internal/database"
	"suryaghar-backend/internal/db"
	"suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/repositories"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/migrations"

	"go.uber.org/zap"
)

// Child tables first; RESTART IDENTITY resets the serial columns.
var tables = []string{
	"payments",
	"orders",
	"referrals",
	"notifications",
	"feedback",
	"documents",
	"commissions",
	"vendor_assignments",
	"vendors",
	"milestones",
	"customers",
	"users",
}

func main() {
	email := flag.String("admin-email", "admin@suryaghar.local", "email of the admin created after the reset")
	password := flag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "admin password (min 8 chars)")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(cfg.Log.Level, "console")
	defer log.Sync()

	if len(*password) < 8 {
		log.Fatal("admin password must be at least 8 characters (-admin-password or ADMIN_PASSWORD)")
	}

	if !*yes {
		fmt.Printf("This deletes ALL partners, customers, documents and payments in %q.\n", cfg.Database.Name)
		fmt.Print("Type 'yes' to confirm: ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("connect", zap.Error(err))
	}
	defer pool.Close()

	if err := database.NewMigratorWithFS(pool, migrations.FS, ".", log).RunMigrations(ctx); err != nil {
		log.Fatal("migrations", zap.Error(err))
	}

	if _, err := pool.Exec(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE"); err != nil {
		log.Fatal("truncate", zap.Error(err))
	}
	log.Info("tables cleared", zap.Strings("tables", tables))

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}
	admin := &models.User{
		Name:         "Administrator",
		Email:        *email,
		Phone:        "+910000000000",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		State:        "Odisha",
		PartnerCode:  services.NewPartnerCode(models.RoleAdmin),
		IsActive:     true,
	}
	if err := repositories.NewUserRepository(pool).Create(ctx, admin); err != nil {
		log.Fatal("create admin", zap.Error(err))
	}

	log.Info("database reset", zap.String("admin", admin.Email), zap.String("partnerCode", admin.PartnerCode))
}
