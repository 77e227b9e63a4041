package lecture1

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/task"
)

// ArmstrongTask finds Armstrong numbers in an inclusive range.
type ArmstrongTask struct {
	task.Base
	start int
	end   int
}

func NewArmstrongTask() *ArmstrongTask {
	return &ArmstrongTask{Base: task.Base{
		ID:      "task1.1",
		Summary: "Finds Armstrong numbers in a given range and their sum.",
		Help:    "manage task1.1 [--start START] [--end END] [--desc]",
	}}
}

func (t *ArmstrongTask) Configure(cmd *cobra.Command) {
	cmd.Flags().IntVar(&t.start, "start", 9, "Start of the range")
	cmd.Flags().IntVar(&t.end, "end", 9999, "End of the range")
}

func (t *ArmstrongTask) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	numbers := ArmstrongNumbers(t.start, t.end)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Armstrong numbers: %v\n", numbers)
	fmt.Fprintf(out, "Sum of Armstrong numbers: %d\n", RecursiveSum(numbers))
	return nil
}

// IsArmstrong reports whether n equals the sum of its digits each raised to
// the number of digits. Negative numbers never qualify.
func IsArmstrong(n int) bool {
	if n < 0 {
		return false
	}
	digits := strconv.Itoa(n)
	power := len(digits)
	sum := 0
	for _, d := range digits {
		sum += intPow(int(d-'0'), power)
	}
	return sum == n
}

// ArmstrongNumbers lists the Armstrong numbers in [start, end].
func ArmstrongNumbers(start, end int) []int {
	numbers := []int{}
	if start > end {
		return numbers
	}
	for n := start; ; n++ {
		if IsArmstrong(n) {
			numbers = append(numbers, n)
		}
		if n == end {
			break
		}
	}
	return numbers
}

// RecursiveSum adds numbers head-first.
func RecursiveSum(numbers []int) int {
	if len(numbers) == 0 {
		return 0
	}
	return numbers[0] + RecursiveSum(numbers[1:])
}

func intPow(base, exp int) int {
	result := 1
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}
