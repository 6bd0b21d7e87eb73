package main

import (
	"fmt"

	"salon-admin/internal/model"
	"salon-admin/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(staffHashPasswordCmd(), staffAddCmd(), staffListCmd())
	return cmd
}

func staffHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for admin.password_hash or ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(h)
			return nil
		},
	}
}

func staffAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name] [email]",
		Short: "Create a staff account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")
			if role != string(model.RoleStaff) && role != string(model.RoleAdmin) {
				return fmt.Errorf("role must be staff or admin, got %q", role)
			}
			h, err := service.HashPassword(password)
			if err != nil {
				return err
			}

			e := loadEnv()
			st, err := e.store()
			if err != nil {
				return err
			}
			m := &model.Staff{Name: args[0], Email: args[1], PasswordHash: h, Role: model.Role(role)}
			if err := st.CreateStaff(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Printf("%s Created %s %s <%s> [%s]\n", okMark, m.ID, m.Name, m.Email, m.Role)
			return nil
		},
	}
	cmd.Flags().StringP("password", "p", "", "initial password (required)")
	cmd.Flags().String("role", string(model.RoleStaff), "staff or admin")
	cmd.MarkFlagRequired("password")
	return cmd
}

func staffListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List staff accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			st, err := e.store()
			if err != nil {
				return err
			}
			staff, err := st.ListStaff(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range staff {
				role := string(s.Role)
				if s.Role == model.RoleAdmin {
					role = color.New(color.FgCyan).Sprint(role)
				}
				fmt.Printf("%s  %-20s %-30s %s\n", s.ID, s.Name, s.Email, role)
			}
			return nil
		},
	}
}
