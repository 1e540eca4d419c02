package main

import (
	"errors"
	"flag"
	"fmt"

	"gala/auth"
	"gala/config"
	"gala/logging"
	"gala/repository"

	"gorm.io/gorm"
)

// Brings the configured database schema up to date. With -seed it also inserts a demo
// gala and prints a token for each seeded account.
func main() {
	seed := flag.Bool("seed", false, "insert a demo gala with an admin and two judges")
	flag.Parse()

	logging.BootstrapLogger()
	db, err := config.InitDB(config.Env())
	if err != nil {
		logging.Log.Fatalf("Failed to migrate database: %v", err)
	}
	logging.Log.Info("Schema migrated")
	if !*seed {
		return
	}

	var users []*repository.User
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		users, err = seedDemo(tx)
		return err
	})
	if err != nil {
		logging.Log.Fatalf("Failed to seed database: %v", err)
	}
	for _, user := range users {
		token, err := auth.CreateToken(user)
		if err != nil {
			logging.Log.Fatalf("Failed to create token for %s: %v", user.Username, err)
		}
		fmt.Printf("%s (%s): %s\n", user.Username, user.Role, token)
	}
}

func seedDemo(tx *gorm.DB) ([]*repository.User, error) {
	var existing repository.User
	err := tx.First(&existing, "username = ?", "admin").Error
	if err == nil {
		return nil, fmt.Errorf("demo data already present")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	users := []*repository.User{
		{Username: "admin", FirstName: "Ada", LastName: "Admin", Role: repository.RoleAdmin},
		{Username: "jeanne", FirstName: "Jeanne", LastName: "Tremblay", Role: repository.RoleJudge},
		{Username: "bruno", FirstName: "Bruno", LastName: "Gagnon", Role: repository.RoleJudge},
	}
	if err := tx.Create(&users).Error; err != nil {
		return nil, err
	}
	judges := []*repository.Judge{{UserId: users[1].ID}, {UserId: users[2].ID}}
	if err := tx.Create(&judges).Error; err != nil {
		return nil, err
	}

	gala := &repository.Gala{Name: "Gala Démo", Year: 2025}
	if err := tx.Create(gala).Error; err != nil {
		return nil, err
	}
	categories := []*repository.Category{{Name: "Innovation"}, {Name: "Exportation"}, {Name: "Récit d'entreprise"}}
	if err := tx.Create(&categories).Error; err != nil {
		return nil, err
	}
	galaCategories := make([]*repository.GalaCategory, len(categories))
	for i, category := range categories {
		order := i + 1
		galaCategories[i] = &repository.GalaCategory{
			GalaId:       gala.Id,
			CategoryId:   category.Id,
			DisplayOrder: &order,
			Active:       true,
			IsNarrative:  i == len(categories)-1,
		}
	}
	if err := tx.Create(&galaCategories).Error; err != nil {
		return nil, err
	}

	questions := []*repository.Question{
		{GalaCategoryId: galaCategories[0].Id, Text: "Originalité de la solution", Weight: 2},
		{GalaCategoryId: galaCategories[0].Id, Text: "Impact sur le marché", Weight: 1},
		{GalaCategoryId: galaCategories[1].Id, Text: "Croissance à l'international", Weight: 1},
		{GalaCategoryId: galaCategories[2].Id, Text: "Histoire de l'entreprise", Weight: 1},
	}
	if err := tx.Create(&questions).Error; err != nil {
		return nil, err
	}

	companies := []*repository.Company{{Name: "Acme"}, {Name: "Boréal Tech"}}
	if err := tx.Create(&companies).Error; err != nil {
		return nil, err
	}
	participants := make([]*repository.Participant, 0)
	for _, company := range companies {
		for _, gc := range galaCategories {
			participants = append(participants, &repository.Participant{CompanyId: company.Id, GalaCategoryId: gc.Id})
		}
	}
	if err := tx.Create(&participants).Error; err != nil {
		return nil, err
	}

	assignments := make([]*repository.JudgeAssignment, 0)
	for _, judge := range judges {
		for _, gc := range galaCategories[:2] {
			assignments = append(assignments, &repository.JudgeAssignment{JudgeId: judge.Id, GalaCategoryId: gc.Id})
		}
	}
	if err := tx.Create(&assignments).Error; err != nil {
		return nil, err
	}
	return users, nil
}
