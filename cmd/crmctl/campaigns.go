package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func (c *cli) campaignsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "campaigns",
		Aliases: []string{"campaign"},
		Short:   "List campaigns",
	}
	cmd.AddCommand(c.campaignsListCmd())
	return cmd
}

func (c *cli) campaignsListCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			// Tags first so tag ids resolve to names.
			if err := c.dash.Tags.Load(ctx); err != nil {
				return err
			}
			if err := c.dash.Campaigns.Search(ctx, query); err != nil {
				return err
			}

			view := c.dash.CampaignsView()
			if c.asJSON {
				return c.printJSON(view.Entities)
			}
			tw := newTable(c.out, "ID", "TITLE", "STATUS", "START", "END", "TARGET", "CONTACTS")
			for _, v := range view.Entities {
				row(tw, v.ID, v.Title, string(v.Status), formatDate(v.StartDate), formatDate(v.EndDate),
					string(v.TargetMode), strconv.Itoa(len(v.ContactIDs)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only campaigns matching this text")
	return cmd
}
