package main

import (
	"fmt"
	"io"

	"github.com/matheus3301/chatkit/internal/qr"
	"github.com/spf13/cobra"
)

func contactsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List contacts grouped by index letter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			sections, err := c.ContactSections(ctx)
			if err != nil {
				return err
			}
			return g.out(cmd).emit(sections, func(w io.Writer) {
				for _, s := range sections {
					_, _ = fmt.Fprintf(w, "%s\n", s.Letter)
					for _, ct := range s.Contacts {
						_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\n", ct.ID, ct.Name, ct.LastSeenText)
					}
				}
			})
		},
	}
	cmd.AddCommand(contactShowCmd(g), contactQRCmd(g))
	return cmd
}

func contactShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <contact-id>",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			ct, err := c.Contact(ctx, args[0])
			if err != nil {
				return err
			}
			return g.out(cmd).emit(ct, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "ID:\t%s\nName:\t%s\nUsername:\t%s\nPhone:\t%s\nSeen:\t%s\nBio:\t%s\n",
					ct.ID, ct.Name, ct.Username, ct.Phone, ct.LastSeenText, ct.Bio)
			})
		},
	}
}

func contactQRCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "qr <contact-id>",
		Short: "Render a contact's vCard as a terminal QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, stop, err := g.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			ct, err := c.Contact(ctx, args[0])
			if err != nil {
				return err
			}
			card := qr.VCard(ct)
			if g.json {
				return g.out(cmd).emit(map[string]string{"id": ct.ID, "vcard": card}, nil)
			}
			code, err := qr.Render(card, "  ")
			if err != nil {
				return fmt.Errorf("render QR: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n  %s\n", code, ct.Name)
			return err
		},
	}
}
