package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wanderstay/internal/app/dto"
	catalogapp "wanderstay/internal/app/handlers/catalog"
	"wanderstay/internal/app/queries"
)

func searchCmd(s *session) *cobra.Command {
	var guests int
	var priceMin, priceMax int64
	var amenities []string
	var sortMode string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search, filter and sort destinations",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := catalogapp.SearchCatalogQuery{
				Query:     strings.Join(args, " "),
				Guests:    guests,
				Amenities: amenities,
				Sort:      sortMode,
			}
			if cmd.Flags().Changed("min-price") {
				q.PriceMin = &priceMin
			}
			if cmd.Flags().Changed("max-price") {
				q.PriceMax = &priceMax
			}

			result, err := queries.Ask[catalogapp.SearchCatalogQuery, dto.DestinationCatalog](cmd.Context(), s.buses.Queries, q)
			if err != nil {
				return err
			}
			if s.opts.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			if result.Meta.Empty {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No destinations match your search.")
				return err
			}
			return writeCards(cmd.OutOrStdout(), result.Items)
		},
	}

	cmd.Flags().IntVar(&guests, "guests", 0, "Minimum party size the destination must hold")
	cmd.Flags().Int64Var(&priceMin, "min-price", 0, "Lowest nightly price")
	cmd.Flags().Int64Var(&priceMax, "max-price", 0, "Highest nightly price")
	cmd.Flags().StringSliceVar(&amenities, "amenity", nil, "Required amenity (repeatable)")
	cmd.Flags().StringVar(&sortMode, "sort", "recommended", "recommended, top_rated or lowest_price")
	return cmd
}

func destinationCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "destination <id>",
		Short: "Show rooms, vehicles and the banquet hall of one destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid destination id %q", args[0])
			}
			detail, err := queries.Ask[catalogapp.GetDestinationQuery, dto.DestinationDetail](cmd.Context(), s.buses.Queries, catalogapp.GetDestinationQuery{ID: id})
			if err != nil {
				return err
			}
			if s.opts.json {
				return writeJSON(cmd.OutOrStdout(), detail)
			}
			return writeDetail(cmd.OutOrStdout(), detail)
		},
	}
}

func amenitiesCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "amenities",
		Short: "List amenities offered across the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := queries.Ask[catalogapp.ListAmenitiesQuery, []string](cmd.Context(), s.buses.Queries, catalogapp.ListAmenitiesQuery{})
			if err != nil {
				return err
			}
			if s.opts.json {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			for _, a := range list {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), a); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func suggestCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <text>",
		Short: "Type-ahead destination suggestions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := catalogapp.SuggestQuery{Query: strings.Join(args, " ")}
			result, err := queries.Ask[catalogapp.SuggestQuery, dto.Suggestions](cmd.Context(), s.buses.Queries, q)
			if err != nil {
				return err
			}
			if s.opts.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			for _, item := range result.Items {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s (%s)\n", item.ID, item.Title, item.Location); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
