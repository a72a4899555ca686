package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var cropsCmd = &cobra.Command{
	Use:   "crops",
	Short: "Inspect the bundled crop datasets",
}

var cropsTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the ranked crop list",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("market"); err != nil {
			return err
		}

		ds := initDatasets()
		list, err := ds.TopCrops(cmd.Context())
		if err != nil {
			return err
		}
		if list == nil {
			return eris.New("crop ranking file not found")
		}

		fmt.Printf("Top crops (%d in dataset)\n\n", list.TotalCrops)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tCROP\tAREA\tPRODUCTION\tYIELD")
		for _, c := range list.Crops {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.Rank, c.Name, c.Area, c.Production, c.Yield)
		}
		return w.Flush()
	},
}

var cropsListCmd = &cobra.Command{
	Use:   "available",
	Short: "List crops with market data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("market"); err != nil {
			return err
		}

		names, err := initDatasets().AvailableCrops()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("no market workbooks found")
			return nil
		}
		fmt.Println(strings.Join(names, "\n"))
		return nil
	},
}

func init() {
	cropsCmd.AddCommand(cropsTopCmd)
	cropsCmd.AddCommand(cropsListCmd)
	rootCmd.AddCommand(cropsCmd)
}
