package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"sparkclean/config"
	"sparkclean/database/repository"
	"sparkclean/models"
	"sparkclean/utils"

	"go.uber.org/zap"
)

var areaNames = []string{"Westlands", "Kilimani", "Karen", "Lavington"}

var firstNames = []string{"Amina", "Brian", "Cynthia", "David", "Esther", "Felix", "Grace", "Hassan", "Irene", "James"}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	store, err := repository.OpenStore(config.AppConfig.StoreDriver)
	if err != nil {
		logger.Sugar().Fatalf("seed: failed to open store: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	defer func() { _ = store.Close(ctx) }()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var areaIDs []string
	for i, name := range areaNames {
		area := models.ServiceArea{ID: fmt.Sprintf("area-%d", i+1), Name: name}
		if err := store.Cleaners.SaveArea(ctx, &area); err != nil {
			logger.Sugar().Fatalf("seed: failed to save area %s: %v", name, err)
		}
		areaIDs = append(areaIDs, area.ID)
	}

	var cleanerIDs []string
	cleanersPerArea := 5
	counter := 1
	for _, areaID := range areaIDs {
		for i := 0; i < cleanersPerArea; i++ {
			rate := 8 + float64(rng.Intn(8))
			cleaner := models.Cleaner{
				ID:              fmt.Sprintf("cleaner-%03d", counter),
				Name:            fmt.Sprintf("%s %d", firstNames[rng.Intn(len(firstNames))], counter),
				Active:          true,
				Available:       rng.Intn(10) > 0,
				Rating:          float64(30+rng.Intn(21)) / 10, // 3.0 .. 5.0
				TotalRatings:    rng.Intn(120),
				ExperienceYears: rng.Intn(12),
				Bio:             "Home cleaning professional.",
				HourlyRate:      &rate,
				AvatarRef:       fmt.Sprintf("sparkclean/avatars/cleaner-%03d", counter),
				AreaIDs:         []string{areaID},
				WorkingWindows:  weekdayShifts(rng),
			}
			// Every third cleaner also covers the next area.
			if counter%3 == 0 {
				next := areaIDs[(indexOf(areaIDs, areaID)+1)%len(areaIDs)]
				cleaner.AreaIDs = append(cleaner.AreaIDs, next)
			}
			if err := store.Cleaners.Save(ctx, &cleaner); err != nil {
				logger.Sugar().Fatalf("seed: failed to save cleaner %s: %v", cleaner.ID, err)
			}
			cleanerIDs = append(cleanerIDs, cleaner.ID)
			counter++
		}
	}

	// Sample bookings over the next 7 days, a third of them already assigned.
	today := time.Now()
	bookings := 0
	for d := 1; d <= 7; d++ {
		date := today.AddDate(0, 0, d).Format("2006-01-02")
		for i := 0; i < 3; i++ {
			start := (9 + rng.Intn(6)) * 60
			b := models.Booking{
				CustomerID: fmt.Sprintf("customer-%d", 1+rng.Intn(5)),
				AreaID:     areaIDs[rng.Intn(len(areaIDs))],
				ServiceID:  "standard-clean",
				Date:       date,
				Start:      start,
				End:        start + 120,
				Status:     models.StatusDraft,
				Bedrooms:   1 + rng.Intn(4),
				Bathrooms:  1 + rng.Intn(3),
			}
			if i == 0 {
				id := cleanerIDs[rng.Intn(len(cleanerIDs))]
				b.CleanerID = &id
				b.Status = models.StatusConfirmed
			}
			if err := store.Bookings.Create(ctx, &b); err != nil {
				logger.Sugar().Fatalf("seed: failed to create booking: %v", err)
			}
			bookings++
		}
	}

	logger.Info("seed complete",
		zap.String("driver", store.Driver),
		zap.Int("areas", len(areaIDs)),
		zap.Int("cleaners", len(cleanerIDs)),
		zap.Int("bookings", bookings),
	)
}

// weekdayShifts gives Monday..Saturday a morning and an afternoon shift,
// which together form one continuous working day.
func weekdayShifts(rng *rand.Rand) []models.WorkingWindow {
	dayStart := (7 + rng.Intn(3)) * 60
	var windows []models.WorkingWindow
	for day := 1; day <= 6; day++ {
		windows = append(windows,
			models.WorkingWindow{DayOfWeek: day, Start: dayStart, End: 13 * 60, Available: true},
			models.WorkingWindow{DayOfWeek: day, Start: 13 * 60, End: 18 * 60, Available: true},
		)
	}
	return windows
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return 0
}
