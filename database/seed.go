package database

import (
	"fmt"
	"log"

	"github.com/sahilchouksey/everyday-heroes/model"
	"github.com/sahilchouksey/everyday-heroes/utils/auth"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedDemoUsers(); err != nil {
		return fmt.Errorf("failed to seed demo users: %w", err)
	}

	if err := s.SeedDemoHeroes(); err != nil {
		return fmt.Errorf("failed to seed demo heroes: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedDemoUsers creates a couple of demo accounts for local development
func (s *Seeder) SeedDemoUsers() error {
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Users already exist, skipping...")
		return nil
	}

	demoUsers := []struct {
		name     string
		email    string
		password string
	}{
		{"Asha Demo", "asha@example.com", "demo-password"},
		{"Ravi Demo", "ravi@example.com", "demo-password"},
	}

	for _, u := range demoUsers {
		passwordHash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := model.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: passwordHash,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("   Created user %s", u.email)
	}

	return nil
}

// SeedDemoHeroes creates sample hero profiles for the first demo user
func (s *Seeder) SeedDemoHeroes() error {
	var count int64
	if err := s.db.Model(&model.Hero{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Heroes already exist, skipping...")
		return nil
	}

	var creator model.User
	if err := s.db.Order("id ASC").First(&creator).Error; err != nil {
		log.Println("⚠️  No users found, skipping hero seeding")
		return nil
	}

	heroes := []model.Hero{
		{
			FullName:  "Sunita Devi",
			Story:     "Runs a free evening school for children in her neighbourhood, every day after her own shift ends.",
			Location:  "Bhopal",
			Tags:      datatypes.NewJSONSlice([]string{"education", "community"}),
			CreatedBy: creator.ID,
		},
		{
			FullName:  "Mohan Kale",
			Story:     "Has planted and cared for over two thousand trees along the highway outside his village.",
			Location:  "Nagpur",
			Tags:      datatypes.NewJSONSlice([]string{"environment"}),
			CreatedBy: creator.ID,
		},
	}

	for _, hero := range heroes {
		if err := s.db.Create(&hero).Error; err != nil {
			return err
		}
		log.Printf("   Created hero %s", hero.FullName)
	}

	return nil
}

// RunSeeds is a convenience wrapper used by the seed command
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}
