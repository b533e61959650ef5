package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/Mathuja991/Mathavam-sub001/internal/availability"
	"github.com/Mathuja991/Mathavam-sub001/internal/booking"
	"github.com/Mathuja991/Mathavam-sub001/internal/config"
	"github.com/Mathuja991/Mathavam-sub001/internal/db"
	redisclient "github.com/Mathuja991/Mathavam-sub001/internal/redis"
	"github.com/Mathuja991/Mathavam-sub001/internal/schedule"
)

const (
	practitionerCount  = 10
	bookingsPerDoctor  = 6
	cancelledPerDoctor = 1
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var slotTemplates = []availability.SlotInput{
	{StartTime: "09:00", EndTime: "10:00"},
	{StartTime: "10:00", EndTime: "11:00"},
	{StartTime: "14:00", EndTime: "15:00"},
	{StartTime: "15:30", EndTime: "16:30"},
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	log.Info().Msg("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}
	log.Info().Msg("schema applied")

	gofakeit.Seed(time.Now().UnixNano())

	availSvc := availability.NewService(availability.NewPgRepository(pool))
	// The seeder is the only writer, so an in-process lock is enough here.
	bookingSvc := booking.NewService(booking.NewPgRepository(pool), redisclient.NewLocalLocker(), cfg, log)

	if err := seedPractitioners(context.Background(), log, cfg, availSvc, bookingSvc); err != nil {
		log.Fatal().Err(err).Msg("seed practitioners")
	}

	log.Info().Msg("seed complete")
}

func seedPractitioners(ctx context.Context, log zerolog.Logger, cfg config.Config, availSvc *availability.Service, bookingSvc *booking.Service) error {
	for i := 0; i < practitionerCount; i++ {
		practitionerID := fmt.Sprintf("doc-%04d", i+1)

		inputs := pickWeeklySlots()
		slots, err := availSvc.AddSlots(ctx, practitionerID, inputs)
		if err != nil {
			return fmt.Errorf("add slots for %s: %w", practitionerID, err)
		}

		days := schedule.Project(time.Now(), cfg.LookaheadDays, cfg.ClinicUTCOffset, slots)
		if len(days) == 0 {
			continue
		}

		booked := 0
		cancelled := 0
		for _, day := range days {
			if booked >= bookingsPerDoctor {
				break
			}
			matched, err := schedule.SlotsOn(day.Date, slots)
			if err != nil {
				return err
			}
			for _, slot := range matched {
				if booked >= bookingsPerDoctor {
					break
				}
				appt, err := bookingSvc.Book(ctx, booking.BookRequest{
					PractitionerID: practitionerID,
					PatientName:    gofakeit.Name(),
					Date:           day.Date,
					StartTime:      slot.StartTime,
					EndTime:        slot.EndTime,
					Note:           gofakeit.Sentence(6),
				})
				if err != nil {
					return fmt.Errorf("book %s %s %s: %w", practitionerID, day.Date, slot.StartTime, err)
				}
				booked++

				if cancelled < cancelledPerDoctor {
					if _, err := bookingSvc.Cancel(ctx, appt.ID); err != nil {
						return fmt.Errorf("cancel seed appointment: %w", err)
					}
					cancelled++
				}
			}
		}

		log.Info().
			Str("practitioner_id", practitionerID).
			Int("slots", len(slots)).
			Int("booked", booked).
			Int("cancelled", cancelled).
			Msg("practitioner seeded")
	}
	return nil
}

func pickWeeklySlots() []availability.SlotInput {
	dayCount := gofakeit.Number(2, 4)
	picked := make(map[string]bool, dayCount)
	var inputs []availability.SlotInput

	for len(picked) < dayCount {
		day := weekdays[gofakeit.Number(0, len(weekdays)-1)]
		if picked[day] {
			continue
		}
		picked[day] = true

		slotCount := gofakeit.Number(1, len(slotTemplates))
		for i := 0; i < slotCount; i++ {
			tpl := slotTemplates[i]
			inputs = append(inputs, availability.SlotInput{
				Day:       day,
				StartTime: tpl.StartTime,
				EndTime:   tpl.EndTime,
			})
		}
	}
	return inputs
}
