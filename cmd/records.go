package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/krishisetu/krishi-cli/internal/record"
)

var (
	recordsLimit   int
	addHarvest     string
	addNotes       string
	addSoil        string
	addPlantedDate string
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage farming records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List farming records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("records"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.List(ctx, recordsLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no records")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCROP\tPLANTED\tHARVEST\tSOIL\tNOTES")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.CropName, r.PlantingDate, r.ExpectedHarvest, r.SoilType, r.Notes)
		}
		return w.Flush()
	},
}

var recordsAddCmd = &cobra.Command{
	Use:   "add <crop>",
	Short: "Add a farming record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("records"); err != nil {
			return err
		}
		if addPlantedDate == "" {
			return fmt.Errorf("--planted is required")
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		r := record.FarmingRecord{
			CropName:        args[0],
			PlantingDate:    addPlantedDate,
			ExpectedHarvest: addHarvest,
			Notes:           addNotes,
			SoilType:        addSoil,
		}
		if err := st.Create(ctx, &r); err != nil {
			return err
		}

		fmt.Printf("created record %s\n", r.ID)
		return nil
	},
}

func init() {
	recordsListCmd.Flags().IntVar(&recordsLimit, "limit", 0, "max records to show (0 = all)")

	recordsAddCmd.Flags().StringVar(&addPlantedDate, "planted", "", "planting date (required)")
	recordsAddCmd.Flags().StringVar(&addHarvest, "harvest", "", "expected harvest date")
	recordsAddCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes")
	recordsAddCmd.Flags().StringVar(&addSoil, "soil", "", "soil type")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsAddCmd)
	rootCmd.AddCommand(recordsCmd)
}
