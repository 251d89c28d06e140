// Package stats computes the dashboard metrics from a ticket collection
// snapshot. All functions are pure: outputs depend only on the snapshot and
// the reference time, and absence of data yields defined defaults rather
// than errors.
package stats

import (
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// NoClient is the sentinel returned for most-frequent-client metrics when no
// tickets fall inside the window.
const NoClient = "N/A"

// Snapshot holds every dashboard metric derived from one ticket collection.
type Snapshot struct {
	ClosedToday             int                           `json:"closedToday"`
	AverageClosingDays      float64                       `json:"averageClosingDays"`
	OpenTickets             int                           `json:"openTickets"`
	TotalTickets            int                           `json:"totalTickets"`
	MostFrequentClientMonth string                        `json:"mostFrequentClientMonth"`
	MostFrequentClientWeek  string                        `json:"mostFrequentClientWeek"`
	StatusCounts            map[domain.TicketStatus]int   `json:"statusCounts"`
	PriorityCounts          map[domain.TicketPriority]int `json:"priorityCounts"`

	// Supporting counts shown alongside the headline numbers.
	ClosedWithDates  int `json:"closedWithDates"`
	TicketsThisMonth int `json:"ticketsThisMonth"`
	TicketsThisWeek  int `json:"ticketsThisWeek"`
}

// Compute aggregates the collection as of now. The snapshot is taken over the
// slice as given; Compute never mutates it.
func Compute(tickets []domain.Ticket, now time.Time) Snapshot {
	loc := now.Location()
	today := truncateToDay(now, loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	weekStart := startOfWeek(now)

	snapshot := Snapshot{
		TotalTickets:            len(tickets),
		MostFrequentClientMonth: NoClient,
		MostFrequentClientWeek:  NoClient,
		StatusCounts:            make(map[domain.TicketStatus]int),
		PriorityCounts:          make(map[domain.TicketPriority]int),
	}

	monthClients := make(map[string]int)
	weekClients := make(map[string]int)
	var latencySum time.Duration

	for _, ticket := range tickets {
		snapshot.StatusCounts[ticket.Status]++
		snapshot.PriorityCounts[ticket.Priority]++

		if !ticket.IsClosed() {
			snapshot.OpenTickets++
		}
		if ticket.IsClosed() && ticket.ClosingDate != nil {
			if truncateToDay(*ticket.ClosingDate, loc).Equal(today) {
				snapshot.ClosedToday++
			}
			if !ticket.OpeningDate.IsZero() {
				snapshot.ClosedWithDates++
				latencySum += ticket.ClosingDate.Sub(ticket.OpeningDate)
			}
		}

		if !ticket.OpeningDate.Before(monthStart) {
			monthClients[ticket.Client]++
			snapshot.TicketsThisMonth++
		}
		if !truncateToDay(ticket.OpeningDate, loc).Before(weekStart) {
			weekClients[ticket.Client]++
			snapshot.TicketsThisWeek++
		}
	}

	if snapshot.ClosedWithDates > 0 {
		snapshot.AverageClosingDays = latencySum.Hours() / 24 / float64(snapshot.ClosedWithDates)
	}
	snapshot.MostFrequentClientMonth = mostFrequent(monthClients)
	snapshot.MostFrequentClientWeek = mostFrequent(weekClients)

	return snapshot
}

// mostFrequent picks the client with the highest count. Ties go to the
// lexicographically smallest client so the result is deterministic.
func mostFrequent(counts map[string]int) string {
	best := NoClient
	bestCount := 0
	for client, count := range counts {
		if count > bestCount || (count == bestCount && bestCount > 0 && client < best) {
			best = client
			bestCount = count
		}
	}
	return best
}

// startOfWeek returns the most recent Monday at local midnight. When now is
// a Sunday the week started six days earlier.
func startOfWeek(now time.Time) time.Time {
	day := truncateToDay(now, now.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// truncateToDay buckets t to midnight in loc. Timestamps are converted before
// truncation so a record stored with a different UTC offset still lands on the
// reference time's calendar day.
func truncateToDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
