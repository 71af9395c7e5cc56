package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/rolodex/internal/widgets/tags"
)

func (c *cli) tagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "List and add tags",
	}
	cmd.AddCommand(c.tagsListCmd(), c.tagsAddCmd())
	return cmd
}

func (c *cli) tagsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.dash.Tags.Load(cmd.Context()); err != nil {
				return err
			}
			st := c.dash.Tags.State()
			if c.asJSON {
				return c.printJSON(st.Entities)
			}
			tw := newTable(c.out, "ID", "NAME", "COLOR")
			for _, t := range st.Entities {
				row(tw, t.ID, t.Name, t.Color)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) tagsAddCmd() *cobra.Command {
	var draft tags.Draft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := c.dash.Tags.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(created)
			}
			fmt.Fprintln(c.out, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "tag name (required)")
	cmd.Flags().StringVar(&draft.Color, "color", "", "display color (default "+tags.DefaultColor+")")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
