package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"github.com/joho/godotenv"

	"foodhub-api/config"
	"foodhub-api/models"
	"foodhub-api/repositories/postgres"
)

// Seeds a demo catalogue, users and a week of hourly-skewed order history so
// the pricing and forecast endpoints have data to work with.

var fake = faker.New()

var menu = []struct {
	Name     string
	Category string
	Price    float64
	Rating   float64
}{
	{"Tomato Soup", models.CategorySoup, 6.50, 4.5},
	{"Chicken Noodle Soup", models.CategorySoup, 7.90, 4.3},
	{"Hot Chocolate", models.CategoryHotDrinks, 4.20, 4.7},
	{"Masala Chai", models.CategoryHotDrinks, 3.50, 4.2},
	{"Iced Latte", models.CategoryColdDrinks, 4.80, 4.4},
	{"Fresh Lemonade", models.CategoryColdDrinks, 3.90, 4.1},
	{"Vanilla Sundae", models.CategoryIceCream, 5.50, 4.6},
	{"Mango Sorbet", models.CategoryIceCream, 5.90, 4.4},
	{"Greek Salad", models.CategorySalad, 8.90, 4.2},
	{"Caesar Salad", models.CategorySalad, 9.50, 4.3},
	{"Chocolate Brownie", models.CategoryDessert, 6.20, 4.8},
	{"Margherita Pizza", "main", 12.90, 4.5},
	{"Chicken Biryani", "main", 14.50, 4.7},
	{"Veggie Burger", "main", 10.90, 4.0},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx := context.Background()
	orderRepo := postgres.NewOrderRepository(db)

	// Foods
	foodIDs := make([]string, 0, len(menu))
	foodPrices := make(map[string]float64)
	for _, item := range menu {
		id := uuid.NewString()
		_, err := db.ExecContext(ctx, `
			INSERT INTO foods (id, name, category, description, price, average_rating, total_ratings)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT DO NOTHING
		`, id, item.Name, item.Category, fake.Lorem().Sentence(8), item.Price, item.Rating, rand.Intn(200)+20)
		if err != nil {
			log.Fatal("Failed to seed food:", err)
		}
		foodIDs = append(foodIDs, id)
		foodPrices[id] = item.Price
	}
	log.Printf("🍽️ Seeded %d foods", len(menu))

	// Users across the loyalty spectrum
	userIDs := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		id := uuid.NewString()
		person := fake.Person()
		orderCount := rand.Intn(60)
		totalSpent := float64(orderCount) * (10 + rand.Float64()*15)
		tier := tierFor(orderCount, totalSpent)

		_, err := db.ExecContext(ctx, `
			INSERT INTO users (id, name, email, city, order_count, total_spent, is_new_user, loyalty_tier)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT DO NOTHING
		`, id, person.Name(), fake.Internet().Email(), fake.Address().City(),
			orderCount, totalSpent, orderCount == 0, tier)
		if err != nil {
			log.Fatal("Failed to seed user:", err)
		}
		userIDs = append(userIDs, id)
	}
	log.Printf("👥 Seeded %d users", len(userIDs))

	// A week of order history, skewed toward meal times
	orders := 0
	now := time.Now()
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			for i := 0; i < ordersForHour(hour); i++ {
				base := now.AddDate(0, 0, -day)
				createdAt := time.Date(base.Year(), base.Month(), base.Day(), hour, rand.Intn(60), 0, 0, base.Location())
				if createdAt.After(now) {
					continue
				}

				items := make([]models.OrderItem, 0, 3)
				amount := 0.0
				for n := 0; n < rand.Intn(3)+1; n++ {
					foodID := foodIDs[rand.Intn(len(foodIDs))]
					qty := rand.Intn(3) + 1
					price := foodPrices[foodID]
					items = append(items, models.OrderItem{FoodID: foodID, Quantity: qty, Price: price})
					amount += price * float64(qty)
				}

				order := &models.Order{
					ID:        uuid.NewString(),
					UserID:    userIDs[rand.Intn(len(userIDs))],
					Amount:    amount,
					Status:    "delivered",
					Items:     items,
					CreatedAt: createdAt,
				}
				if err := orderRepo.Create(ctx, order); err != nil {
					log.Fatal("Failed to seed order:", err)
				}
				orders++
			}
		}
	}
	log.Printf("📦 Seeded %d orders over the past week", orders)
	log.Println("🚀 Seed complete")
}

func ordersForHour(hour int) int {
	switch {
	case hour >= 18 && hour <= 21:
		return rand.Intn(4) + 3
	case hour >= 12 && hour <= 14:
		return rand.Intn(3) + 2
	case hour >= 7 && hour <= 9:
		return rand.Intn(2) + 1
	case hour >= 2 && hour <= 6:
		return 0
	default:
		return rand.Intn(2)
	}
}

func tierFor(orderCount int, totalSpent float64) string {
	switch {
	case orderCount >= 50 || totalSpent >= 1000:
		return models.TierPlatinum
	case orderCount >= 20 || totalSpent >= 500:
		return models.TierGold
	case orderCount >= 10 || totalSpent >= 300:
		return models.TierSilver
	default:
		return models.TierBronze
	}
}
