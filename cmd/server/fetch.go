package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"apod/server/internal/handler"
	"apod/server/internal/model"
	"apod/server/internal/service"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [YYYY-MM-DD]",
	Short: "Resolve one entry and print it as JSON (latest when no date is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var entry model.Entry
		if len(args) == 0 {
			entry, err = a.apod.ResolveLatest(ctx)
		} else {
			date, perr := model.ParseDate(args[0])
			if perr != nil {
				return fmt.Errorf("%w: %w", service.ErrInvalidDate, perr)
			}
			entry, err = a.apod.Resolve(ctx, date)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd, handler.ToEntryResponse(entry))
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored entry as JSON, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.apod.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		response := make([]handler.EntryResponse, len(entries))
		for i, e := range entries {
			response[i] = handler.ToEntryResponse(e)
		}
		return printJSON(cmd, response)
	},
}

func printJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
}
