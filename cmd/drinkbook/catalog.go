package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/drinkbook/client/internal/domain"
	"github.com/drinkbook/client/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	listSearch  string
	listAlcohol string
	listType    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List drinks sorted by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		alcohol, err := usecase.ParseAlcoholFilter(listAlcohol)
		if err != nil {
			return err
		}

		a := newApp(cfg, logger)
		defer a.close()

		if !a.store.Load(cmd.Context()) {
			return errors.New(a.errors.Current())
		}

		drinks := a.filter.Filter(a.store.Drinks(), usecase.FilterOptions{
			Search:  listSearch,
			Alcohol: alcohol,
			Type:    listType,
		})
		printDrinks(cmd.OutOrStdout(), drinks)
		return nil
	},
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random drink",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cfg, logger)
		defer a.close()

		drink, ok := a.store.FetchRandom(cmd.Context())
		if !ok {
			return errors.New(a.errors.Current())
		}
		printRecipe(cmd.OutOrStdout(), drink)
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <ingredient>...",
	Short: "Invent a drink from at least three ingredients",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cfg, logger)
		defer a.close()

		picker := usecase.NewIngredientPicker(a.store, logger)
		for _, name := range args {
			picker.Toggle(name)
		}

		drink, err := picker.Submit(cmd.Context())
		if err != nil {
			if msg := picker.Error(); msg != "" {
				return errors.New(msg)
			}
			return err
		}
		printRecipe(cmd.OutOrStdout(), drink)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "match name or ingredient")
	listCmd.Flags().StringVar(&listAlcohol, "alcohol", string(usecase.AlcoholAll), "all, alcoholic or non-alcoholic")
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "drink type, e.g. Cocktail")

	rootCmd.AddCommand(listCmd, randomCmd, generateCmd)
}

func printDrinks(w io.Writer, drinks []domain.Recipe) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tALCOHOL\tFAVORITE")
	for _, d := range drinks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Type, yesNo(d.AlcoholContent), yesNo(d.IsFavorite))
	}
	tw.Flush()
}

func printRecipe(w io.Writer, d domain.Recipe) {
	fmt.Fprintf(w, "%s (%s)\n", d.Name, d.Type)
	if d.AlcoholContent {
		fmt.Fprintln(w, "Contains alcohol")
	}
	fmt.Fprintln(w, "\nIngredients:")
	for _, ing := range d.Ingredients {
		if ing.Unit == domain.UnitTopUp {
			fmt.Fprintf(w, "  - %s, %s\n", ing.Name, ing.Unit.Label())
			continue
		}
		fmt.Fprintf(w, "  - %s, %g %s\n", ing.Name, ing.Amount, ing.Unit.Label())
	}
	if len(d.Instructions) > 0 {
		fmt.Fprintln(w, "\nInstructions:")
		for i, step := range d.Instructions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, strings.TrimSpace(step))
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
