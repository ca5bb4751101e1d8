package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/adapters/database"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/clients/postgres"
	"github.com/EatWhereLa/eat-where-la-backend-server/internal/infrastructure/observability"
	"github.com/EatWhereLa/eat-where-la-backend-server/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("eat-where-la-seed", cfg.Server.Environment, cfg.Server.LogLevel)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	codec, err := database.NewRowCodec(cfg.Database.TimestampFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid timestamp format")
	}

	ctx := context.Background()
	accessor := pgClient.Accessor()

	if err := database.EnsureSchema(ctx, accessor, codec); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				user_favourite_places,
				user_reviews,
				user_reservations,
				voting_history,
				places
			RESTART IDENTITY
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	restaurantRepo := database.NewRestaurantAdapter(accessor, codec, nil)
	bookmarkRepo := database.NewBookmarkAdapter(accessor, codec, nil)
	reviewRepo := database.NewReviewAdapter(accessor, codec, nil)
	reservationRepo := database.NewReservationAdapter(accessor, codec, nil)
	voteRepo := database.NewVoteAdapter(accessor, codec, nil)

	// 1. Seed places
	restaurants := []entities.Restaurant{
		{PlaceID: "seed-maxwell-tian-tian", Name: "Tian Tian Hainanese Chicken Rice", Rating: 4.3, Vicinity: "1 Kadayanallur St, #01-10/11 Maxwell Food Centre",
			Geometry: entities.Location{Lat: 1.2803, Lng: 103.8447}, Photos: entities.Photo{Height: 3024, Width: 4032, PhotoReference: "seed-photo-1"}},
		{PlaceID: "seed-328-katong-laksa", Name: "328 Katong Laksa", Rating: 4.1, Vicinity: "51 East Coast Rd",
			Geometry: entities.Location{Lat: 1.3050, Lng: 103.9050}, Photos: entities.Photo{Height: 1200, Width: 1600, PhotoReference: "seed-photo-2"}},
		{PlaceID: "seed-lau-pa-sat", Name: "Lau Pa Sat", Rating: 4.2, Vicinity: "18 Raffles Quay",
			Geometry: entities.Location{Lat: 1.2806, Lng: 103.8504}, Photos: entities.Photo{Height: 2268, Width: 4032, PhotoReference: "seed-photo-3"}},
	}
	if err := restaurantRepo.StoreBrowsedPlaces(ctx, restaurants); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed places")
	}

	// 2. Seed activity for two demo users
	alice := uuid.NewString()
	bob := uuid.NewString()
	now := time.Now()

	if err := bookmarkRepo.BookmarkPlace(ctx, alice, restaurants[0].PlaceID); err != nil {
		log.Error().Err(err).Msg("Failed to seed bookmark")
	}

	review := &entities.RestaurantRating{
		UserID:      alice,
		PlaceID:     restaurants[1].PlaceID,
		Rating:      4.5,
		Description: "Cockles were fresh, queue was short",
		Timestamp:   now.Unix(),
	}
	if err := reviewRepo.AddReview(ctx, review); err != nil {
		log.Error().Err(err).Msg("Failed to seed review")
	}

	for _, r := range []entities.Reservation{
		{UserID: alice, PlaceID: restaurants[2].PlaceID, ReservationTimestamp: now.Add(-48 * time.Hour).Unix(), ReservationPax: 2},
		{UserID: alice, PlaceID: restaurants[2].PlaceID, ReservationTimestamp: now.Add(72 * time.Hour).Unix(), ReservationPax: 4},
	} {
		if err := reservationRepo.AddReservation(ctx, &r); err != nil {
			log.Error().Err(err).Msg("Failed to seed reservation")
		}
	}

	votedPlaces := make([]json.RawMessage, 0, len(restaurants))
	for _, r := range restaurants {
		doc, err := json.Marshal(r)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode voted place")
		}
		votedPlaces = append(votedPlaces, doc)
	}
	history := &entities.VoteHistory{
		UserIDs:       []string{alice, bob},
		VoteTimestamp: now.Unix(),
		VotedPlaces:   votedPlaces,
	}
	if err := voteRepo.StoreVoteHistory(ctx, history); err != nil {
		log.Error().Err(err).Msg("Failed to seed vote history")
	}

	log.Info().
		Int("places", len(restaurants)).
		Str("user_a", alice).
		Str("user_b", bob).
		Msg("Seeding complete")
}
