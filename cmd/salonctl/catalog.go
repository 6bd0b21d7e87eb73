package main

import (
	"context"
	"fmt"
	"strings"

	"salon-admin/internal/service"

	"github.com/fatih/color"
	sdk "github.com/matrixorigin/moi-go-sdk"
	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Provision and query the MOI catalog mirror",
	}
	cmd.AddCommand(catalogInitCmd(), catalogAskCmd())
	return cmd
}

func catalogInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the catalog database, mirror tables and NL2SQL knowledge",
		Long: `Create the catalog database and the daily_reports / blog_posts mirror tables,
then load the NL2SQL knowledge used by catalog ask. Existing objects are kept.

Copy the printed IDs into the catalog section of the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			skipKnowledge, _ := cmd.Flags().GetBool("skip-knowledge")
			e := loadEnv()
			client, err := e.cfg.NewRawClient()
			if err != nil {
				return err
			}
			catalogID := sdk.CatalogID(e.cfg.Catalog.CatalogID)
			if catalogID == 0 {
				catalogID = 1
			}

			ids, err := initCatalog(cmd.Context(), client, catalogID, e.cfg.Catalog.DatabaseName)
			if err != nil {
				return fmt.Errorf("catalog init failed: %w", err)
			}
			if !skipKnowledge {
				if err := initKnowledge(cmd.Context(), client); err != nil {
					return fmt.Errorf("knowledge init failed: %w", err)
				}
			}

			fmt.Println()
			fmt.Println("catalog:")
			fmt.Printf("  database_id: %d\n", ids.database)
			fmt.Printf("  reports_table_id: %s\n", tableIDText(ids.tables["daily_reports"]))
			fmt.Printf("  blog_posts_table_id: %s\n", tableIDText(ids.tables["blog_posts"]))
			return nil
		},
	}
	cmd.Flags().Bool("skip-knowledge", false, "only create the database and tables")
	return cmd
}

func tableIDText(id sdk.TableID) string {
	if id == 0 {
		return color.New(color.FgYellow).Sprint("(existing, keep current value)")
	}
	return fmt.Sprint(int64(id))
}

type catalogIDs struct {
	database sdk.DatabaseID
	tables   map[string]sdk.TableID
}

// mirrorTables must list columns in the order CatalogSync writes its CSV rows.
var mirrorTables = []struct {
	name    string
	comment string
	columns []sdk.Column
}{
	{"daily_reports", "スタッフ日報", []sdk.Column{
		{Name: "id", Type: "VARCHAR(36)", IsPk: true, Comment: "主キー"},
		{Name: "staff_id", Type: "VARCHAR(36)", Comment: "staff.id"},
		{Name: "staff_name", Type: "VARCHAR(100)", Comment: "スタッフ名"},
		{Name: "report_date", Type: "DATE", Comment: "日報の対象日"},
		{Name: "content", Type: "TEXT", Comment: "日報本文"},
		{Name: "created_at", Type: "DATETIME", Comment: "登録日時"},
	}},
	{"blog_posts", "ブログ記事", []sdk.Column{
		{Name: "id", Type: "VARCHAR(36)", IsPk: true, Comment: "主キー"},
		{Name: "title", Type: "VARCHAR(255)", Comment: "記事タイトル"},
		{Name: "excerpt", Type: "TEXT", Comment: "記事の抜粋"},
		{Name: "status", Type: "VARCHAR(20)", Comment: "draft または published"},
		{Name: "author_id", Type: "VARCHAR(36)", Comment: "staff.id"},
		{Name: "tags", Type: "VARCHAR(500)", Comment: "タグ（| 区切り）"},
		{Name: "created_at", Type: "DATETIME", Comment: "作成日時"},
		{Name: "published_at", Type: "DATETIME", Comment: "公開日時"},
	}},
}

func initCatalog(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (*catalogIDs, error) {
	ids := &catalogIDs{tables: map[string]sdk.TableID{}}
	dbResp, err := client.CreateDatabase(ctx, &sdk.DatabaseCreateRequest{
		CatalogID:    catalogID,
		DatabaseName: dbName,
		Comment:      "サロン管理 コンテンツミラー",
	})
	switch {
	case err == nil:
		ids.database = dbResp.DatabaseID
		fmt.Printf("%s database %s created (id %d)\n", okMark, dbName, ids.database)
	case isDuplicate(err):
		if ids.database, err = discoverDatabaseID(ctx, client, catalogID, dbName); err != nil {
			return nil, err
		}
		fmt.Printf("%s database %s exists (id %d)\n", warnMark, dbName, ids.database)
	default:
		return nil, fmt.Errorf("create database: %w", err)
	}

	for _, t := range mirrorTables {
		resp, err := client.CreateTable(ctx, &sdk.TableCreateRequest{
			DatabaseID: ids.database,
			Name:       t.name,
			Columns:    t.columns,
			Comment:    t.comment,
		})
		if err != nil {
			if isDuplicate(err) {
				fmt.Printf("%s table %s exists, skipping\n", warnMark, t.name)
				continue
			}
			return nil, fmt.Errorf("create table %s: %w", t.name, err)
		}
		ids.tables[t.name] = resp.TableID
		fmt.Printf("%s table %s created (id %d)\n", okMark, t.name, int64(resp.TableID))
	}
	return ids, nil
}

func discoverDatabaseID(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	resp, err := client.ListDatabases(ctx, &sdk.DatabaseListRequest{CatalogID: catalogID})
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}
	for _, db := range resp.List {
		if db.DatabaseName == dbName {
			return db.DatabaseID, nil
		}
	}
	return 0, fmt.Errorf("database %s not found in catalog %d", dbName, catalogID)
}

func isDuplicate(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate") || strings.Contains(s, "already exist") || strings.Contains(s, "conflict")
}

func catalogAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question over the mirrored reports and posts",
		Example: `  salonctl catalog ask "先月いちばん日報を書いたスタッフは？"`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			client, err := e.cfg.NewRawClient()
			if err != nil {
				return err
			}
			cs := service.NewCatalogSync(client, e.cfg.Catalog)
			if !cs.Ready() {
				return fmt.Errorf("catalog.database_id is not set; run salonctl catalog init first")
			}
			dim := color.New(color.Faint)
			return cs.Ask(cmd.Context(), strings.Join(args, " "),
				func(s string) { fmt.Println(s) },
				func(s string) { dim.Println("… " + s) })
		},
	}
}
