package main

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mrhb33/Artivty/internal/config"
	"github.com/Mrhb33/Artivty/internal/database"
	"github.com/Mrhb33/Artivty/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM device_tokens")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM offers")
	db.Exec("DELETE FROM reference_images")
	db.Exec("DELETE FROM requests")
	db.Exec("DELETE FROM artworks")
	db.Exec("DELETE FROM users")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	customer := domain.User{
		Email:        "customer@artivty.dev",
		Username:     "cara",
		Name:         "Cara Customer",
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		IsActive:     true,
	}
	if err := db.Create(&customer).Error; err != nil {
		log.Fatal(err)
	}

	artistNames := []string{"Arn", "Bela", "Caro"}
	var artists []domain.User
	for i, name := range artistNames {
		a := domain.User{
			Email:             fmt.Sprintf("%s@artivty.dev", name),
			Username:          name,
			Name:              name + " Artist",
			PasswordHash:      string(hash),
			Role:              domain.RoleArtist,
			IsActive:          true,
			ProfilePictureURL: fmt.Sprintf("/static/uploads/seed/%s.png", name),
			Bio:               "Commission artist. " + name,
			IsArtistVerified:  i < 2, // third artist stays below the portfolio threshold
		}
		if err := db.Create(&a).Error; err != nil {
			log.Fatal(err)
		}
		artists = append(artists, a)
	}

	// first two artists get full portfolios, the third only one piece
	for i, a := range artists {
		n := domain.MinPortfolioForVerification
		if i == 2 {
			n = 1
		}
		for k := 0; k < n; k++ {
			art := domain.Artwork{
				ArtistID:  a.ID,
				Title:     fmt.Sprintf("%s piece %d", a.Name, k+1),
				ImageURL:  fmt.Sprintf("/static/uploads/seed/%s-%d.png", a.Username, k+1),
				StyleTags: "oil,portrait",
			}
			if err := db.Create(&art).Error; err != nil {
				log.Fatal(err)
			}
		}
	}

	deadline := time.Now().AddDate(0, 1, 0)
	request := domain.Request{
		CustomerID:       customer.ID,
		Title:            "Portrait of my dog",
		Description:      "Golden retriever, oil on canvas, warm colors.",
		DimensionsWidth:  40,
		DimensionsHeight: 50,
		DimensionsUnit:   "cm",
		Style:            "oil",
		Deadline:         &deadline,
		Status:           domain.RequestOpen,
	}
	if err := db.Create(&request).Error; err != nil {
		log.Fatal(err)
	}
	db.Create(&domain.ReferenceImage{RequestID: request.ID, ImageURL: "/static/uploads/seed/dog.jpg"})

	for i, a := range artists[:2] {
		offer := domain.Offer{
			RequestID:    request.ID,
			ArtistID:     a.ID,
			Price:        150 + float64(i)*50,
			DeliveryDays: 10 + i*5,
			Message:      "Happy to take this on.",
			Status:       domain.OfferPending,
		}
		if err := db.Create(&offer).Error; err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Seed complete: 1 customer, 3 artists, 1 open request with 2 offers")
	log.Println("All accounts use password: password123")
}
