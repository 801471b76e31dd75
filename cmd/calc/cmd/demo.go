package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"calc-engine/internal/engine"
)

var demoData = []float64{23, 45, 67, 89, 12, 34, 56, 78, 90, 45}

// demoSection is one calculation of the demo with the lines shown for it.
type demoSection struct {
	title string
	run   func(*engine.Engine) ([]string, error)
}

var demoSections = []demoSection{
	{
		title: "1. BASIC ARITHMETIC",
		run: func(eng *engine.Engine) ([]string, error) {
			res, err := eng.Basic(10, 5, engine.OpMultiply)
			if err != nil {
				return nil, err
			}
			return []string{formulaStyle.Render(res.Formula)}, nil
		},
	},
	{
		title: "2. SCIENTIFIC",
		run: func(eng *engine.Engine) ([]string, error) {
			res, err := eng.Scientific(45, engine.FnSin)
			if err != nil {
				return nil, err
			}
			return []string{
				formulaStyle.Render(res.Formula),
				detailStyle.Render("argument in radians"),
			}, nil
		},
	},
	{
		title: "3. FINANCIAL (Compound Interest)",
		run: func(eng *engine.Engine) ([]string, error) {
			res, err := eng.CompoundInterest(1000, 5, 10, engine.DefaultCompoundsPerYear)
			if err != nil {
				return nil, err
			}
			amount, _ := res.Field("amount")
			return []string{
				detailStyle.Render("Principal: $1000, Rate: 5%, Time: 10 years"),
				formulaStyle.Render("Final Amount: $"+humanize.FormatFloat("#,###.##", amount)),
			}, nil
		},
	},
	{
		title: "4. STATISTICS",
		run: func(eng *engine.Engine) ([]string, error) {
			res, err := eng.Statistics(demoData)
			if err != nil {
				return nil, err
			}
			mean, _ := res.Field("mean")
			stdDev, _ := res.Field("std_dev")
			return []string{
				detailStyle.Render(fmt.Sprintf("Data: %v", demoData)),
				formulaStyle.Render(fmt.Sprintf("Mean: %g", mean)),
				formulaStyle.Render(fmt.Sprintf("Std Dev: %g", stdDev)),
			}, nil
		},
	},
}

func newDemoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run one sample calculation per domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(opts)
			if err != nil {
				return err
			}

			out, err := renderDemo(eng)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func renderDemo(eng *engine.Engine) (string, error) {
	blocks := []string{titleStyle.Render("CALCULATOR ENGINE DEMO")}

	for _, s := range demoSections {
		lines, err := s.run(eng)
		if err != nil {
			return "", fmt.Errorf("%s: %w", strings.ToLower(s.title), err)
		}
		blocks = append(blocks, sectionStyle.Render(s.title)+"\n"+strings.Join(lines, "\n"))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...)), nil
}
