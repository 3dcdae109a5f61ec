package jobs

import (
	"context"
	"time"

	"rentalcar-backend/internal/logger"
)

// ReportOverdueRentals logs ACTIVE rentals whose period has ended without a
// recorded return. Report only; the rental stays ACTIVE until the car
// actually comes back through the normal completion flow.
func (jr *JobRunner) ReportOverdueRentals() {
	jr.runWithRecovery("ReportOverdueRentals", func() {
		ctx := context.Background()

		query := `
			SELECT rental_id, customer_id, car_id, end_date
			FROM rentals
			WHERE status = 'ACTIVE'
			  AND end_date < $1
			ORDER BY end_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().UTC().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to query overdue rentals", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var rentalID, customerID, carID string
			var endDate time.Time
			if err := rows.Scan(&rentalID, &customerID, &carID, &endDate); err != nil {
				logger.Error("Failed to scan overdue rental", "error", err)
				continue
			}
			logger.Warn("Rental overdue",
				"rental_id", rentalID,
				"customer_id", customerID,
				"car_id", carID,
				"end_date", endDate.Format("2006-01-02"),
				"days_overdue", int(time.Since(endDate).Hours()/24))
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue rentals", "error", err)
			return
		}

		if count > 0 {
			logger.Info("Overdue rentals reported", "count", count)
		}
	})
}
