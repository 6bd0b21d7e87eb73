package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"salon-admin/internal/model"
	"salon-admin/internal/service"

	"github.com/spf13/cobra"
)

func ownerMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "owner-message",
		Aliases: []string{"om"},
		Short:   "Manage monthly owner messages",
	}
	cmd.AddCommand(ownerMessageGenerateCmd(), ownerMessageListCmd(), ownerMessagePublishCmd(),
		ownerMessageUnpublishCmd(), ownerMessageDeleteCmd())
	return cmd
}

func ownerMessageService(e *env) (*service.OwnerMessageService, error) {
	st, err := e.store()
	if err != nil {
		return nil, err
	}
	gen, err := e.generator()
	if err != nil {
		return nil, err
	}
	return service.NewOwnerMessageService(st, gen), nil
}

func ownerMessageGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [YYYY-MM]",
		Short: "Generate or regenerate the month's draft from its daily reports",
		Example: `  salonctl owner-message generate 2024-05
  salonctl om generate 2024-05 --config etc/config-dev.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			svc, err := ownerMessageService(e)
			if err != nil {
				return err
			}
			m, err := svc.GenerateForMonth(cmd.Context(), e.log, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s Draft %s for %s: %s\n", okMark, m.ID, m.YearMonth, m.Title)
			fmt.Printf("  sources: %d reports\n", len(m.Sources))
			for _, h := range m.Highlights {
				fmt.Printf("  - %s\n", h)
			}
			return nil
		},
	}
}

func ownerMessageListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List owner messages, newest month first",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			month, _ := cmd.Flags().GetString("month")
			e := loadEnv()
			svc, err := ownerMessageService(e)
			if err != nil {
				return err
			}
			msgs, err := svc.List(cmd.Context(), model.OwnerMessageFilter{Status: model.Status(status), YearMonth: month})
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Println("No owner messages.")
				return nil
			}
			for _, m := range msgs {
				fmt.Printf("%s  %s  [%s]  %s\n", m.YearMonth, m.ID, statusLabel(string(m.Status)), m.Title)
			}
			return nil
		},
	}
	cmd.Flags().String("status", "", "filter by status (draft|published)")
	cmd.Flags().String("month", "", "filter by month (YYYY-MM)")
	return cmd
}

func ownerMessagePublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish [message-id]",
		Short: "Publish a draft; at most one message per month can be published",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ownerMessageTransition(cmd.Context(), args[0], "Published", (*service.OwnerMessageService).Publish)
		},
	}
}

func ownerMessageUnpublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish [message-id]",
		Short: "Return a published message to draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ownerMessageTransition(cmd.Context(), args[0], "Unpublished", (*service.OwnerMessageService).Unpublish)
		},
	}
}

type transition func(*service.OwnerMessageService, context.Context, *slog.Logger, string) (*model.OwnerMessage, error)

func ownerMessageTransition(ctx context.Context, id, verb string, fn transition) error {
	e := loadEnv()
	svc, err := ownerMessageService(e)
	if err != nil {
		return err
	}
	m, err := fn(svc, ctx, e.log, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	fmt.Printf("%s %s %s (%s) [%s]\n", okMark, verb, m.ID, m.YearMonth, statusLabel(string(m.Status)))
	return nil
}

func ownerMessageDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [message-id]",
		Short: "Delete an owner message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			svc, err := ownerMessageService(e)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), e.log, args[0]); err != nil {
				return err
			}
			fmt.Printf("%s Deleted %s\n", okMark, args[0])
			return nil
		},
	}
}
