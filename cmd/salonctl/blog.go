package main

import (
	"fmt"

	"salon-admin/internal/model"
	"salon-admin/internal/service"

	"github.com/spf13/cobra"
)

func blogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Inspect and manage blog posts",
	}
	cmd.AddCommand(blogListCmd(), blogPublishCmd(), blogDeleteCmd())
	return cmd
}

// blogService has no generator or mirror: these commands never draft content.
func blogService(e *env) (*service.BlogService, error) {
	st, err := e.store()
	if err != nil {
		return nil, err
	}
	return service.NewBlogService(st, nil, service.NewAdminIdentity(st, e.cfg.Admin), nil), nil
}

func blogListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blog posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			e := loadEnv()
			svc, err := blogService(e)
			if err != nil {
				return err
			}
			posts, err := svc.List(cmd.Context(), model.Status(status))
			if err != nil {
				return err
			}
			if len(posts) == 0 {
				fmt.Println("No blog posts.")
				return nil
			}
			for _, p := range posts {
				author := "-"
				if p.Author != nil {
					author = p.Author.Name
				}
				fmt.Printf("%s  %s  [%s]  %s (%s)\n",
					p.CreatedAt.Format("2006-01-02"), p.ID, statusLabel(string(p.Status)), p.Title, author)
			}
			return nil
		},
	}
	cmd.Flags().String("status", "", "filter by status (draft|published)")
	return cmd
}

func blogPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish [post-id]",
		Short: "Publish a draft post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			svc, err := blogService(e)
			if err != nil {
				return err
			}
			published := model.StatusPublished
			p, err := svc.Update(cmd.Context(), e.log, args[0], model.BlogPostPatch{Status: &published})
			if err != nil {
				return err
			}
			fmt.Printf("%s Published %s: %s\n", okMark, p.ID, p.Title)
			return nil
		},
	}
}

func blogDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [post-id]",
		Short: "Delete a blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			svc, err := blogService(e)
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
