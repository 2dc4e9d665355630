package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorify/mentorify-api/internal/models"
)

// AvailabilityRepository handles a mentor's weekly schedule.
// Slots are stored one row each; the availability document is assembled
// from the rows in day/slot order.
type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

// NewAvailabilityRepository creates a new availability repository
func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// GetByMentor assembles the mentor's availability document.
// Returns ErrNotFound if the mentor has never published a schedule.
func (r *AvailabilityRepository) GetByMentor(ctx context.Context, mentorID uuid.UUID) (*models.Availability, error) {
	query := `
		SELECT id, day, start_time, end_time, is_booked, updated_at
		FROM availability_slots
		WHERE mentor_id = $1
		ORDER BY day_order, slot_order
	`

	rows, err := r.pool.Query(ctx, query, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	avail := &models.Availability{MentorID: mentorID}
	for rows.Next() {
		var slot models.Slot
		var day string
		var updatedAt time.Time
		if err := rows.Scan(&slot.ID, &day, &slot.StartTime, &slot.EndTime, &slot.IsBooked, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}

		if updatedAt.After(avail.UpdatedAt) {
			avail.UpdatedAt = updatedAt
		}
		if n := len(avail.SlotsPerDay); n == 0 || avail.SlotsPerDay[n-1].Day != day {
			avail.AvailableDays = append(avail.AvailableDays, day)
			avail.SlotsPerDay = append(avail.SlotsPerDay, models.DaySlots{Day: day})
		}
		last := &avail.SlotsPerDay[len(avail.SlotsPerDay)-1]
		last.Slots = append(last.Slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read availability rows: %w", err)
	}

	if len(avail.AvailableDays) == 0 {
		return nil, ErrNotFound
	}

	return avail, nil
}

// slotRow is one flattened insert row for availability_slots
type slotRow struct {
	Day       string
	DayOrder  int
	StartTime string
	EndTime   string
	IsBooked  bool
	SlotOrder int
}

// buildSlotRows flattens a normalized schedule into insert rows. Slots whose
// (day,start,end) key appears in booked keep their booked flag; everything
// else starts free.
func buildSlotRows(days []string, slotsPerDay []models.DaySlots, booked map[string]bool) []slotRow {
	dayOrder := make(map[string]int, len(days))
	for i, d := range days {
		dayOrder[d] = i
	}

	var rows []slotRow
	for _, ds := range slotsPerDay {
		for i, slot := range ds.Slots {
			rows = append(rows, slotRow{
				Day:       ds.Day,
				DayOrder:  dayOrder[ds.Day],
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
				IsBooked:  booked[slot.Key(ds.Day)],
				SlotOrder: i,
			})
		}
	}
	return rows
}

// Replace swaps the mentor's entire schedule for a normalized one.
// When preserveBooked is true, slots whose (day,start,end) key survives the
// update keep their booked flag; everything else starts free.
func (r *AvailabilityRepository) Replace(ctx context.Context, mentorID uuid.UUID, days []string, slotsPerDay []models.DaySlots, preserveBooked bool) (*models.Availability, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	booked := map[string]bool{}
	if preserveBooked {
		rows, qErr := tx.Query(ctx,
			`SELECT day, start_time, end_time FROM availability_slots WHERE mentor_id = $1 AND is_booked`, mentorID)
		if qErr != nil {
			return nil, fmt.Errorf("failed to read booked slots: %w", qErr)
		}
		for rows.Next() {
			var day, start, end string
			if sErr := rows.Scan(&day, &start, &end); sErr != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan booked slot: %w", sErr)
			}
			booked[models.Slot{StartTime: start, EndTime: end}.Key(day)] = true
		}
		rows.Close()
		if rErr := rows.Err(); rErr != nil {
			return nil, fmt.Errorf("failed to read booked slots: %w", rErr)
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM availability_slots WHERE mentor_id = $1`, mentorID); err != nil {
		return nil, fmt.Errorf("failed to clear schedule: %w", err)
	}

	insert := `
		INSERT INTO availability_slots (mentor_id, day, day_order, start_time, end_time, is_booked, slot_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, row := range buildSlotRows(days, slotsPerDay, booked) {
		if _, err = tx.Exec(ctx, insert, mentorID, row.Day, row.DayOrder, row.StartTime, row.EndTime, row.IsBooked, row.SlotOrder); err != nil {
			return nil, fmt.Errorf("failed to insert slot: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit schedule: %w", err)
	}

	return r.GetByMentor(ctx, mentorID)
}
