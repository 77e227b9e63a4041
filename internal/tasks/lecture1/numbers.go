package lecture1

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/validation"
)

var numberPattern = regexp.MustCompile(`\d*\.?\d+`)

// NumberExtractorTask splits the numbers found in a string into floats, odds and evens.
type NumberExtractorTask struct {
	task.Base
	input string
}

func NewNumberExtractorTask() *NumberExtractorTask {
	return &NumberExtractorTask{Base: task.Base{
		ID:      "task1.2",
		Summary: "Extracts numbers from a string and categorizes them into float, odd, and even lists",
		Help:    "manage task1.2 --input TEXT",
	}}
}

func (t *NumberExtractorTask) Configure(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.input, "input", "", "Input string containing numbers to extract")
}

func (t *NumberExtractorTask) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	if err := validation.ValidateRequired("--input", t.input); err != nil {
		return err
	}

	floats, odds, evens := ExtractNumbers(t.input)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Float numbers: %v\n", floats)
	fmt.Fprintf(out, "Odd numbers: %v\n", odds)
	fmt.Fprintf(out, "Even numbers: %v\n", evens)
	return nil
}

// ExtractNumbers classifies every `\d*\.?\d+` token of s. Values with a
// fractional part are floats; "4.0" counts as the even integer 4. Integers
// hold the parsed float64 value exactly, so long tokens never overflow.
func ExtractNumbers(s string) (floats []float64, odds []*big.Int, evens []*big.Int) {
	floats, odds, evens = []float64{}, []*big.Int{}, []*big.Int{}
	for _, token := range numberPattern.FindAllString(s, -1) {
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}
		if f != math.Trunc(f) {
			floats = append(floats, f)
			continue
		}
		n, _ := big.NewFloat(f).Int(nil)
		if n.Bit(0) == 0 {
			evens = append(evens, n)
		} else {
			odds = append(odds, n)
		}
	}
	return floats, odds, evens
}
