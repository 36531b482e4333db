package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"talentbase-backend/internal/config"
	"talentbase-backend/internal/database"
	"talentbase-backend/internal/database/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Simple structures that directly match DB schema
type TeamData struct {
	Name    string `yaml:"name"`
	Stadium string `yaml:"stadium"`
	Founded int    `yaml:"founded"`
	LogoURL string `yaml:"logo_url,omitempty"`
}

type PlayerData struct {
	FirstName     string  `yaml:"first_name"`
	LastName      string  `yaml:"last_name"`
	DateOfBirth   string  `yaml:"date_of_birth,omitempty"`
	Nationality   string  `yaml:"nationality"`
	Position      string  `yaml:"position"`
	Agent         string  `yaml:"agent,omitempty"`
	MarketValue   float64 `yaml:"market_value"`
	ContractUntil string  `yaml:"contract_until,omitempty"`
	TeamName      string  `yaml:"team_name,omitempty"`
	PhotoURL      string  `yaml:"photo_url,omitempty"`
	TopTalent     bool    `yaml:"top_talent"`
}

// RosterFile is one YAML file under the data directory
type RosterFile struct {
	Teams   []TeamData   `yaml:"teams"`
	Players []PlayerData `yaml:"players"`
}

func main() {
	log.Println("🚀 Loading roster from YAML files...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	dataDir := "scripts/data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}
	if err := loadRoster(db, dataDir); err != nil {
		log.Fatalf("Failed to load roster: %v", err)
	}

	log.Println("✅ Roster loaded successfully!")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		// Only log every 10 attempts to reduce noise
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadRoster(db *gorm.DB, dataDir string) error {
	files, err := readRosterFiles(dataDir)
	if err != nil {
		return fmt.Errorf("failed to read roster files: %w", err)
	}

	var teams []TeamData
	var players []PlayerData
	for _, f := range files {
		teams = append(teams, f.Teams...)
		players = append(players, f.Players...)
	}

	teamMap := make(map[string]*models.Team)
	teamCreated := 0
	for _, teamData := range teams {
		team, created, err := createTeam(db, teamData)
		if err != nil {
			return fmt.Errorf("failed to create team %s: %w", teamData.Name, err)
		}
		teamMap[teamData.Name] = team
		if created {
			teamCreated++
		}
	}
	log.Printf("📋 Teams: %d created, %d total", teamCreated, len(teams))

	playerCreated := 0
	for _, playerData := range players {
		_, created, err := createPlayer(db, playerData, teamMap)
		if err != nil {
			log.Printf("⚠️  Warning: failed to create player %s %s: %v", playerData.FirstName, playerData.LastName, err)
			continue
		}
		if created {
			playerCreated++
		}
	}
	log.Printf("📋 Players: %d created, %d total", playerCreated, len(players))

	return nil
}

func readRosterFiles(dataDir string) ([]RosterFile, error) {
	var files []RosterFile

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !(strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var file RosterFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		files = append(files, file)
		return nil
	})

	return files, err
}

func createTeam(db *gorm.DB, teamData TeamData) (*models.Team, bool, error) {
	var team models.Team
	err := db.Where("name = ?", teamData.Name).First(&team).Error
	if err == nil {
		return &team, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to query team: %w", err)
	}

	team = models.Team{
		Name:    teamData.Name,
		Stadium: teamData.Stadium,
		Founded: teamData.Founded,
		LogoURL: teamData.LogoURL,
	}
	team.CreatedBy = "seed"
	team.UpdatedBy = "seed"
	if err := db.Create(&team).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create team: %w", err)
	}
	return &team, true, nil
}

func createPlayer(db *gorm.DB, playerData PlayerData, teamMap map[string]*models.Team) (*models.Player, bool, error) {
	name := models.DisplayName(playerData.FirstName, playerData.LastName)
	if name == "" {
		return nil, false, errors.New("player has no name")
	}

	var player models.Player
	err := db.Where("name = ?", name).First(&player).Error
	if err == nil {
		return &player, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to query player: %w", err)
	}

	position := models.DefaultPosition
	if playerData.Position != "" {
		position = models.Position(strings.ToUpper(playerData.Position))
		if !position.IsValid() {
			return nil, false, fmt.Errorf("unknown position %q", playerData.Position)
		}
	}

	dob, err := parseDate(playerData.DateOfBirth)
	if err != nil {
		return nil, false, fmt.Errorf("date_of_birth: %w", err)
	}
	until, err := parseDate(playerData.ContractUntil)
	if err != nil {
		return nil, false, fmt.Errorf("contract_until: %w", err)
	}

	player = models.Player{
		FirstName:     playerData.FirstName,
		LastName:      playerData.LastName,
		Name:          name,
		DateOfBirth:   dob,
		Nationality:   playerData.Nationality,
		Position:      position,
		Agent:         playerData.Agent,
		MarketValue:   playerData.MarketValue,
		ContractUntil: until,
		PhotoURL:      playerData.PhotoURL,
		TopTalent:     playerData.TopTalent,
	}
	if playerData.TeamName != "" {
		team := teamMap[playerData.TeamName]
		if team == nil {
			return nil, false, fmt.Errorf("team %s not found", playerData.TeamName)
		}
		player.TeamID = &team.ID
	}
	player.CreatedBy = "seed"
	player.UpdatedBy = "seed"

	if err := db.Create(&player).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create player: %w", err)
	}
	return &player, true, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
