package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"codearena/internal/config"
	"codearena/internal/db"
	"codearena/internal/model"
	"codearena/internal/repository"
	"codearena/internal/service"
)

// SeedQuestionData represents one question in the seed file.
type SeedQuestionData struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Difficulty   string           `json:"difficulty"`
	InputFormat  string           `json:"input_format"`
	OutputFormat string           `json:"output_format"`
	TestCases    []model.TestCase `json:"test_cases"`
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Question{}, &model.AllowedDomain{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	if err := seedAdmin(ctx, gormDB); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	log.Printf("Loading questions from: %s", cfg.SeedFile)
	questions, err := loadQuestionsFromFile(cfg.SeedFile)
	if err != nil {
		log.Fatalf("Failed to load questions: %v", err)
	}
	log.Printf("Loaded %d questions from seed file", len(questions))

	questionRepo := repository.NewQuestionRepository(gormDB)
	created, skipped, err := seedQuestions(ctx, questionRepo, questions)
	if err != nil {
		log.Fatalf("Failed to seed questions: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New questions created: %d", created)
	log.Printf("  - Existing questions skipped: %d", skipped)
}

// seedAdmin provisions the initial admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and the account does not exist yet.
func seedAdmin(ctx context.Context, gormDB *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	userRepo := repository.NewUserRepository(gormDB)
	domainRepo := repository.NewAllowedDomainRepository(gormDB)
	users := service.NewUserService(userRepo, domainRepo, nil)

	if _, err := userRepo.FindByEmail(ctx, email); err == nil {
		log.Printf("Admin account %s already exists, skipping", email)
		return nil
	}

	if _, err := users.RegisterAdmin(ctx, "Administrator", email, password); err != nil {
		return fmt.Errorf("register admin: %w", err)
	}
	log.Printf("Admin account %s created", email)
	return nil
}

// loadQuestionsFromFile reads question seed data from a local JSON file.
func loadQuestionsFromFile(path string) ([]SeedQuestionData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var questions []SeedQuestionData
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return questions, nil
}

// seedQuestions inserts questions that are not already present, matching on
// title so re-running the script stays idempotent.
func seedQuestions(ctx context.Context, repo repository.QuestionRepository, questions []SeedQuestionData) (created int, skipped int, err error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list questions: %w", err)
	}
	byTitle := make(map[string]bool, len(existing))
	for _, q := range existing {
		byTitle[q.Title] = true
	}

	for _, item := range questions {
		if byTitle[item.Title] {
			skipped++
			continue
		}
		question := model.Question{
			Title:        item.Title,
			Description:  item.Description,
			Difficulty:   item.Difficulty,
			InputFormat:  item.InputFormat,
			OutputFormat: item.OutputFormat,
			TestCases:    item.TestCases,
		}
		if err := repo.Create(ctx, &question); err != nil {
			return created, skipped, fmt.Errorf("create question %q: %w", item.Title, err)
		}
		created++
	}
	return created, skipped, nil
}
