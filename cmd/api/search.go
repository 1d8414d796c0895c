package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"whattocook/internal/config"
	"whattocook/internal/ingredient"
	"whattocook/internal/recipe"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [ingredients...]",
	Short: "Find recipes for a list of ingredients",
	Long: `Finds recipes that use the given ingredients. Ingredients may be
separated by commas, spaces or both, e.g. "chicken, tomatoes basil".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ingredients := ingredient.Parse(strings.Join(args, " "))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	recipes, err := newFinder(cfg).Find(ctx, ingredients)
	if err != nil {
		var lookupErr *recipe.Error
		if errors.As(err, &lookupErr) {
			return fmt.Errorf("%s (status %d)", lookupErr.Message, lookupErr.Status)
		}
		return err
	}

	if searchJSON {
		return outputSearchJSON(cmd, recipes)
	}
	return outputSearchTable(cmd, ingredients, recipes)
}

func outputSearchJSON(cmd *cobra.Command, recipes []recipe.Recipe) error {
	data, err := json.MarshalIndent(recipes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, ingredients string, recipes []recipe.Recipe) error {
	out := cmd.OutOrStdout()
	if len(recipes) == 0 {
		fmt.Fprintf(out, "No recipes found for %s.\n", ingredients)
		return nil
	}

	fmt.Fprintf(out, "Recipes for %s:\n\n", ingredients)
	for i, r := range recipes {
		fmt.Fprintf(out, "  [%d] %s (#%d)\n", i+1, r.Name, r.ID)
		if len(r.UsedIngredients) > 0 {
			fmt.Fprintf(out, "      uses:    %s\n", strings.Join(r.UsedIngredients, ", "))
		}
		if len(r.MissedIngredients) > 0 {
			fmt.Fprintf(out, "      missing: %s\n", strings.Join(r.MissedIngredients, ", "))
		}
		if len(r.UnusedIngredients) > 0 {
			fmt.Fprintf(out, "      unused:  %s\n", strings.Join(r.UnusedIngredients, ", "))
		}
	}
	return nil
}
