package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/scriptdeck/scriptdeck/internal/commons"
	"github.com/scriptdeck/scriptdeck/internal/model"
	sqlschema "github.com/scriptdeck/scriptdeck/sql"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	godotenv.Load()
	config, err := commons.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	db, err := sql.Open("postgres", config.PostgresConn)
	if err != nil {
		log.Fatalf("error opening database connection: %v", err)
	}
	defer db.Close()

	err = db.Ping()
	if err != nil {
		log.Fatalf("error connecting to the database: %v", err)
	}

	for _, stmt := range sqlschema.Statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("error applying schema: %v", err)
		}
	}

	adminUser := model.UserDB{
		ID:        uuid.New(),
		Username:  "admin",
		Password:  "password",
		Role:      model.RoleAdmin,
		APIKey:    uuid.New().String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminUser.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("error hashing password: %v", err)
	}
	adminUser.Password = string(hashedPassword)

	_, err = db.Exec(`
		INSERT INTO users (id, username, password, role, api_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, adminUser.ID, adminUser.Username, adminUser.Password, adminUser.Role, adminUser.APIKey, adminUser.CreatedAt, adminUser.UpdatedAt)

	if err != nil {
		log.Fatalf("Error inserting admin user: %v", err)
	}

	fmt.Println("Schema applied and admin user created successfully!")
	fmt.Println("Admin API key:", adminUser.APIKey)
}
