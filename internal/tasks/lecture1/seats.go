package lecture1

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/task"
)

// Seat is one seat of a carriage.
type Seat struct {
	Name  string
	Taken bool
}

// Layout maps carriage numbers to their seats in order.
type Layout map[int][]Seat

// DefaultLayout is the fixed three-carriage train.
func DefaultLayout() Layout {
	return Layout{
		1: {{"a1", true}, {"a2", false}, {"a3", true}, {"a4", true}, {"a5", false}},
		2: {{"b1", false}, {"b2", false}, {"b3", true}, {"b4", false}, {"b5", true}},
		3: {{"c1", false}, {"c2", true}, {"c3", true}, {"c4", true}, {"c5", false}},
	}
}

// ClosestFree searches outward from seat within carriage, right before left
// at each distance. ok is false when the seat is unknown or nothing is free.
func (l Layout) ClosestFree(carriage int, seat string) (string, bool) {
	seats := l[carriage]
	current := -1
	for i, s := range seats {
		if s.Name == seat {
			current = i
			break
		}
	}
	if current == -1 {
		return "", false
	}

	for left, right := current-1, current+1; left >= 0 || right < len(seats); left, right = left-1, right+1 {
		if right < len(seats) && !seats[right].Taken {
			return seats[right].Name, true
		}
		if left >= 0 && !seats[left].Taken {
			return seats[left].Name, true
		}
	}
	return "", false
}

// AnyFree scans the other carriages in ascending order for a free seat.
func (l Layout) AnyFree(exclude int) (carriage int, seat string, ok bool) {
	numbers := make([]int, 0, len(l))
	for n := range l {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	for _, n := range numbers {
		if n == exclude {
			continue
		}
		for _, s := range l[n] {
			if !s.Taken {
				return n, s.Name, true
			}
		}
	}
	return 0, "", false
}

// SeatFinderTask checks a seat and suggests the closest free alternative.
type SeatFinderTask struct {
	task.Base
	layout   Layout
	carriage int
	seat     string
}

func NewSeatFinderTask() *SeatFinderTask {
	return &SeatFinderTask{
		Base: task.Base{
			ID:      "task1.3",
			Summary: "Check seat availability and find closest available seat",
			Help:    "manage task1.3 --carriage CARRIAGE(int) --seat SEAT",
		},
		layout: DefaultLayout(),
	}
}

func (t *SeatFinderTask) Configure(cmd *cobra.Command) {
	cmd.Flags().IntVar(&t.carriage, "carriage", 0, "Carriage number to check")
	cmd.Flags().StringVar(&t.seat, "seat", "", "Seat name to check")
}

func (t *SeatFinderTask) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	t.report(cmd.OutOrStdout(), t.carriage, strings.ToLower(t.seat))
	return nil
}

func (t *SeatFinderTask) report(out io.Writer, carriage int, seat string) {
	if carriage == 0 || seat == "" {
		fmt.Fprintln(out, "Please provide both carriage and seat arguments")
		return
	}

	seats, ok := t.layout[carriage]
	if !ok {
		fmt.Fprintf(out, "Carriage %d doesn't exist\n", carriage)
		return
	}

	var requested *Seat
	for i := range seats {
		if seats[i].Name == seat {
			requested = &seats[i]
			break
		}
	}
	if requested == nil {
		fmt.Fprintf(out, "Seat %s doesn't exist in carriage %d\n", seat, carriage)
		return
	}

	if !requested.Taken {
		fmt.Fprintf(out, "Seat %s in carriage %d is available!\n", seat, carriage)
		return
	}
	fmt.Fprintf(out, "Seat %s in carriage %d is already taken.\n", seat, carriage)

	if closest, ok := t.layout.ClosestFree(carriage, seat); ok {
		fmt.Fprintf(out, "The closest available seat in carriage %d is %s\n", carriage, closest)
		return
	}

	fmt.Fprintf(out, "No available seats in carriage %d. Searching other carriages...\n", carriage)
	if other, name, ok := t.layout.AnyFree(carriage); ok {
		fmt.Fprintf(out, "Found available seat %s in carriage %d\n", name, other)
		return
	}
	fmt.Fprintln(out, "No available seats found in any carriage")
}
