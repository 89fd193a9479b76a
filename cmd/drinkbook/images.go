package main

import (
	"errors"
	"fmt"

	"github.com/drinkbook/client/internal/infrastructure/drinkapi"
	"github.com/drinkbook/client/internal/usecase"
	"github.com/spf13/cobra"
)

var imagesPage int

var imagesCmd = &cobra.Command{
	Use:   "images <query>",
	Short: "Search drink photos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cfg, logger)
		defer a.close()

		session := a.sessions.Open()
		defer a.sessions.Close(session.ID())

		settled := make(chan usecase.SearchSnapshot, 1)
		session.OnChange(func(snap usecase.SearchSnapshot) {
			if snap.State != usecase.SearchSettled && snap.State != usecase.SearchFailed {
				return
			}
			select {
			case settled <- snap:
			default:
			}
		})

		session.SetQuery(args[0])
		if imagesPage != 1 {
			if err := session.SetPage(imagesPage); err != nil {
				return err
			}
		}

		var snap usecase.SearchSnapshot
		select {
		case snap = <-settled:
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}

		if snap.State == usecase.SearchFailed {
			return errors.New(snap.Error)
		}
		out := cmd.OutOrStdout()
		if len(snap.Results) == 0 {
			fmt.Fprintln(out, "No images found")
			return nil
		}
		for _, ref := range snap.Results {
			fmt.Fprintln(out, drinkapi.RefURL(ref))
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "drinkbook %s\n", Version)
	},
}

func init() {
	imagesCmd.Flags().IntVarP(&imagesPage, "page", "p", 1, "result page")

	rootCmd.AddCommand(imagesCmd, versionCmd)
}
