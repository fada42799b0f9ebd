package repository

import (
	"context"
	"fmt"

	"sparkclean/database"
	bookingRepo "sparkclean/database/repository/booking"
	cleanerRepo "sparkclean/database/repository/cleaner"
)

// Re-export the repository interfaces.
type CleanerRepository = cleanerRepo.CleanerRepository

type BookingRepository = bookingRepo.BookingRepository

// Store bundles the repositories of one driver with its lifecycle hooks.
type Store struct {
	Driver   string
	Cleaners CleanerRepository
	Bookings BookingRepository
	Ping     func(ctx context.Context) error
	Close    func(ctx context.Context) error
}

// NewMemoryStore builds an in-process store, used for local runs and tests.
func NewMemoryStore() *Store {
	cleaners := cleanerRepo.NewMemoryCleanerRepo()
	return &Store{
		Driver:   "memory",
		Cleaners: cleaners,
		Bookings: bookingRepo.NewMemoryBookingRepo(cleaners),
		Ping:     func(context.Context) error { return nil },
		Close:    func(context.Context) error { return nil },
	}
}

// OpenStore connects the configured driver: mongo, postgres or memory.
func OpenStore(driver string) (*Store, error) {
	switch driver {
	case "mongo":
		if err := database.InitDB(); err != nil {
			return nil, err
		}
		db := database.MongoDatabase()
		cleaners, err := cleanerRepo.NewMongoCleanerRepo(db)
		if err != nil {
			return nil, err
		}
		bookings, err := bookingRepo.NewMongoBookingRepo(db)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:   driver,
			Cleaners: cleaners,
			Bookings: bookings,
			Ping:     database.PingMongo,
			Close:    database.CloseDB,
		}, nil
	case "postgres":
		if err := database.InitPostgres(); err != nil {
			return nil, err
		}
		return &Store{
			Driver:   driver,
			Cleaners: cleanerRepo.NewPostgresCleanerRepo(database.DB),
			Bookings: bookingRepo.NewPostgresBookingRepo(database.DB),
			Ping:     database.PingPostgres,
			Close:    func(context.Context) error { return database.ClosePostgres() },
		}, nil
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
