package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var marketMonth string

var marketCmd = &cobra.Command{
	Use:   "market <crop>",
	Short: "Show market prices for a crop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("market"); err != nil {
			return err
		}

		ds := initDatasets()
		report, err := ds.CropMarket(cmd.Context(), args[0], marketMonth)
		if err != nil {
			return err
		}
		if report == nil {
			return eris.Errorf("no market data found for %q", args[0])
		}

		s := report.Summary
		fmt.Printf("%s (%s)\n", strings.ToUpper(s.CropName), s.Month)
		fmt.Printf("Districts: %d\n", s.TotalDistricts)
		fmt.Printf("Average price: ₹%.2f\n", s.AvgPrice)
		fmt.Printf("Price range: ₹%g - ₹%g\n", s.PriceRange.Min, s.PriceRange.Max)
		if len(report.AvailableMonths) > 1 {
			fmt.Printf("Months: %s\n", strings.Join(report.AvailableMonths, ", "))
		}
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DISTRICT\tCURRENT\tPREV MONTH\tPREV YEAR\tΔ MONTH\tΔ YEAR")
		for _, d := range report.Districts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				d.District,
				fmtPrice(d.Current), fmtPrice(d.PrevMonth), fmtPrice(d.PrevYear),
				fmtPrice(d.MonthChange), fmtPrice(d.YearChange),
			)
		}
		return w.Flush()
	},
}

func fmtPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *p)
}

func init() {
	marketCmd.Flags().StringVar(&marketMonth, "month", "", "sheet/month to read (default: first)")
	rootCmd.AddCommand(marketCmd)
}
