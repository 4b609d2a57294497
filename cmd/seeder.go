package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"documents", "case_access_permissions", "cases", "users"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUsers := []struct {
			Email    string
			FullName string
			Role     string
		}{
			{"judge@justicelink.dev", "Hon. Amara Osei", "judge"},
			{"advocate@justicelink.dev", "Lena Marsh", "advocate"},
			{"agency@justicelink.dev", "Bureau of Records", "government_agency"},
			{"intel@justicelink.dev", "Meridian Research", "private_intel"},
		}

		userIDs := map[string]string{}
		for _, u := range seedUsers {
			var existingID string
			if err := db.QueryRow("SELECT user_id FROM users WHERE email = $1", u.Email).Scan(&existingID); err == nil {
				fmt.Printf("user already exists: %s\n", u.Email)
				userIDs[u.Role] = existingID
				continue
			}

			id := uuid.NewString()
			if _, err := db.Exec(
				"INSERT INTO users (user_id, email, full_name, role, password_hash, created_at) VALUES ($1, $2, $3, $4, $5, now())",
				id, u.Email, u.FullName, u.Role, string(hash),
			); err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			userIDs[u.Role] = id
			fmt.Printf("Seeded user: %s (%s)\n", u.Email, u.Role)
		}

		caseName := "Marsh v. Meridian Holdings"
		var caseID string
		if err := db.QueryRow("SELECT case_id FROM cases WHERE case_name = $1", caseName).Scan(&caseID); err != nil {
			caseID = uuid.NewString()
			if _, err := db.Exec(
				"INSERT INTO cases (case_id, case_name, status, creator_id, created_at) VALUES ($1, $2, $3, $4, $5)",
				caseID, caseName, "Open", userIDs["advocate"], time.Now(),
			); err != nil {
				log.Fatalf("failed to insert demo case: %v", err)
			}
			fmt.Printf("Seeded case: %s\n", caseName)
		}

		grants := []struct {
			Role  string
			Level string
		}{
			{"advocate", "sudo"},
			{"government_agency", "upload_only"},
			{"private_intel", "view_only"},
		}

		for _, g := range grants {
			if _, err := db.Exec(
				`INSERT INTO case_access_permissions (case_id, user_id, access_level)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (case_id, user_id) DO UPDATE SET access_level = EXCLUDED.access_level`,
				caseID, userIDs[g.Role], g.Level,
			); err != nil {
				log.Fatalf("failed to grant %s access: %v", g.Role, err)
			}
			fmt.Printf("Granted %s access to %s\n", g.Level, g.Role)
		}

		fmt.Println("Seeding complete; all passwords are \"password\"")
	},
}
