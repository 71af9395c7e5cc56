package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/rolodex/internal/plugins/contacts"
)

func (c *cli) contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "List, add and remove contacts",
	}
	cmd.AddCommand(c.contactsListCmd(), c.contactsAddCmd(), c.contactsRmCmd())
	return cmd
}

func (c *cli) contactsListCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, newest first",
		Example: `  crmctl contacts list
  crmctl contacts list --query acme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			// Tags first so tag ids resolve to names.
			if err := c.dash.Tags.Load(ctx); err != nil {
				return err
			}
			if err := c.dash.Contacts.Search(ctx, query); err != nil {
				return err
			}

			view := c.dash.ContactsView()
			if c.asJSON {
				return c.printJSON(view.Entities)
			}
			tw := newTable(c.out, "ID", "NAME", "EMAIL", "CATEGORY", "TAGS")
			for _, v := range view.Entities {
				row(tw, v.ID, v.Name, orDash(v.Email), string(v.Category), orDash(strings.Join(v.TagNames, ", ")))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only contacts matching this text")
	return cmd
}

func (c *cli) contactsAddCmd() *cobra.Command {
	var draft contacts.Draft
	var category string
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a contact",
		Example: `  crmctl contacts add --name "Ana Lima" --email ana@example.com --category work --tag <tag-id>`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft.Category = contacts.Category(category)
			created, err := c.dash.Contacts.Create(cmd.Context(), draft)
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
	f := cmd.Flags()
	f.StringVar(&draft.Name, "name", "", "full name (required)")
	f.StringVar(&draft.Email, "email", "", "email address")
	f.StringVar(&draft.Phone, "phone", "", "phone number")
	f.StringVar(&category, "category", "", "personal, work, family or other (default other)")
	f.StringVar(&draft.Company, "company", "", "company")
	f.StringVar(&draft.Role, "role", "", "role at the company")
	f.StringVar(&draft.Notes, "notes", "", "free-text notes")
	f.StringSliceVar(&draft.TagIDs, "tag", nil, "tag id (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *cli) contactsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete contacts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := c.dash.Contacts.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("deleting %s: %w", id, err)
				}
				fmt.Fprintln(c.out, "deleted", id)
			}
			return nil
		},
	}
}
