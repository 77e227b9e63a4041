package lecture1

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/task/tasktest"
)

var run = tasktest.Run

func TestArmstrongNumbers(t *testing.T) {
	numbers := ArmstrongNumbers(9, 10000)
	assert.Equal(t, []int{9, 153, 370, 371, 407, 1634, 8208, 9474}, numbers)
	assert.Equal(t, 20818, RecursiveSum(numbers))

	assert.Empty(t, ArmstrongNumbers(10, 9))
	assert.Equal(t, 0, RecursiveSum(nil))
	assert.False(t, IsArmstrong(-153))
	assert.True(t, IsArmstrong(0))
}

func TestArmstrongNumbersStopsAtMaxInt(t *testing.T) {
	assert.Empty(t, ArmstrongNumbers(math.MaxInt-2, math.MaxInt))
	assert.Equal(t, []int{9}, ArmstrongNumbers(9, 9))
}

func decimals(xs []*big.Int) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, x.String())
	}
	return out
}

func TestArmstrongTaskOutput(t *testing.T) {
	out, err := run(t, NewArmstrongTask(), "--start", "100", "--end", "400")
	require.NoError(t, err)
	assert.Equal(t, "Armstrong numbers: [153 370 371]\nSum of Armstrong numbers: 894\n", out)

	out, err = run(t, NewArmstrongTask())
	require.NoError(t, err)
	assert.Contains(t, out, "Sum of Armstrong numbers: 20818")
}

func TestExtractNumbers(t *testing.T) {
	floats, odds, evens := ExtractNumbers("abc 3.5 and 4.0, 7 .25 10x 11")
	assert.Equal(t, []float64{3.5, 0.25}, floats)
	assert.Equal(t, []string{"7", "11"}, decimals(odds))
	assert.Equal(t, []string{"4", "10"}, decimals(evens))

	floats, odds, evens = ExtractNumbers("no digits")
	assert.Empty(t, floats)
	assert.Empty(t, odds)
	assert.Empty(t, evens)
}

func TestExtractNumbersLongIntegers(t *testing.T) {
	floats, odds, evens := ExtractNumbers("99999999999999999999 12345678901234567890123 7")
	assert.Empty(t, floats)
	assert.Equal(t, []string{"7"}, decimals(odds))
	assert.Equal(t, []string{"100000000000000000000", "12345678901234567741440"}, decimals(evens))
}

func TestNumberExtractorTask(t *testing.T) {
	out, err := run(t, NewNumberExtractorTask(), "--input", "1 2 2.5")
	require.NoError(t, err)
	assert.Equal(t, "Float numbers: [2.5]\nOdd numbers: [1]\nEven numbers: [2]\n", out)

	_, err = run(t, NewNumberExtractorTask())
	assert.Error(t, err)
}

func TestSeatSearch(t *testing.T) {
	layout := DefaultLayout()

	seat, ok := layout.ClosestFree(1, "a3")
	require.True(t, ok)
	assert.Equal(t, "a2", seat)

	seat, ok = layout.ClosestFree(2, "b3")
	require.True(t, ok)
	assert.Equal(t, "b4", seat, "right wins over left at equal distance")

	seat, ok = layout.ClosestFree(3, "c3")
	require.True(t, ok)
	assert.Equal(t, "c5", seat)

	_, ok = layout.ClosestFree(1, "z9")
	assert.False(t, ok)

	full := Layout{
		1: {{"a1", true}, {"a2", true}},
		2: {{"b1", true}},
		3: {{"c1", false}},
	}
	_, ok = full.ClosestFree(1, "a1")
	assert.False(t, ok)
	carriage, name, ok := full.AnyFree(1)
	require.True(t, ok)
	assert.Equal(t, 3, carriage)
	assert.Equal(t, "c1", name)
}

func TestSeatFinderMessages(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing", []string{"--carriage", "1"}, "Please provide both carriage and seat arguments\n"},
		{"unknown carriage", []string{"--carriage", "7", "--seat", "a1"}, "Carriage 7 doesn't exist\n"},
		{"unknown seat", []string{"--carriage", "2", "--seat", "a1"}, "Seat a1 doesn't exist in carriage 2\n"},
		{"available", []string{"--carriage", "2", "--seat", "B1"}, "Seat b1 in carriage 2 is available!\n"},
		{"taken", []string{"--carriage", "1", "--seat", "a4"},
			"Seat a4 in carriage 1 is already taken.\nThe closest available seat in carriage 1 is a5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, NewSeatFinderTask(), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSeatFinderFallsBackToOtherCarriages(t *testing.T) {
	tk := NewSeatFinderTask()
	tk.layout = Layout{
		1: {{"a1", true}},
		2: {{"b1", false}},
	}
	out, err := run(t, tk, "--carriage", "1", "--seat", "a1")
	require.NoError(t, err)
	assert.Equal(t, "Seat a1 in carriage 1 is already taken.\n"+
		"No available seats in carriage 1. Searching other carriages...\n"+
		"Found available seat b1 in carriage 2\n", out)

	tk = NewSeatFinderTask()
	tk.layout = Layout{1: {{"a1", true}}}
	out, err = run(t, tk, "--carriage", "1", "--seat", "a1")
	require.NoError(t, err)
	assert.Contains(t, out, "No available seats found in any carriage\n")
}

func TestModuleRegisters(t *testing.T) {
	r := task.NewRegistry()
	require.NoError(t, Module{}.Register(r))
	assert.Equal(t, []string{"task1.1", "task1.2", "task1.3"}, r.Names())
}
