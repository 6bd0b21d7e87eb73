package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"salon-admin/internal/config"
	"salon-admin/internal/logger"
	"salon-admin/internal/model"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

const catalogTimeFormat = "2006-01-02 15:04:05"

// CatalogSync mirrors daily reports and blog posts into the MOI catalog as
// one-row CSV appends, and answers questions over them with Data Asking.
type CatalogSync struct {
	raw          *sdk.RawClient
	sdk          *sdk.SDKClient
	databaseName string
	databaseID   sdk.DatabaseID
	reportsID    sdk.TableID
	postsID      sdk.TableID
}

func NewCatalogSync(raw *sdk.RawClient, cfg config.CatalogConfig) *CatalogSync {
	s := &CatalogSync{
		raw:          raw,
		databaseName: cfg.DatabaseName,
		databaseID:   sdk.DatabaseID(cfg.DatabaseID),
		reportsID:    sdk.TableID(cfg.ReportsTableID),
		postsID:      sdk.TableID(cfg.BlogPostsTableID),
	}
	if raw != nil {
		s.sdk = sdk.NewSDKClient(raw)
	}
	return s
}

// Ready reports whether the catalog tables have been provisioned.
func (s *CatalogSync) Ready() bool {
	return s != nil && s.raw != nil && s.databaseID > 0
}

// ReportMirrorColumns and PostMirrorColumns are the CSV column order of the
// catalog mirror tables.
var ReportMirrorColumns = []string{"id", "staff_id", "staff_name", "report_date", "content", "created_at"}

var PostMirrorColumns = []string{"id", "title", "excerpt", "status", "author_id", "tags", "created_at", "published_at"}

func (s *CatalogSync) SyncDailyReport(ctx context.Context, log *slog.Logger, r *model.DailyReport) {
	if !s.Ready() || s.reportsID == 0 {
		return
	}
	s.importCSV(ctx, orDefault(log), s.reportsID, reportRow(r), fmt.Sprintf("report_%s.csv", r.ID), ReportMirrorColumns)
}

func (s *CatalogSync) SyncBlogPost(ctx context.Context, log *slog.Logger, p *model.BlogPost) {
	if !s.Ready() || s.postsID == 0 {
		return
	}
	s.importCSV(ctx, orDefault(log), s.postsID, postRow(p), fmt.Sprintf("post_%s_%s.csv", p.ID, p.Status), PostMirrorColumns)
}

func reportRow(r *model.DailyReport) string {
	name := ""
	if r.Staff != nil {
		name = r.Staff.Name
	}
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s\n",
		r.ID, r.StaffID, esc(name), r.Date, esc(r.Content), r.CreatedAt.Format(catalogTimeFormat))
}

func postRow(p *model.BlogPost) string {
	published := ""
	if p.PublishedAt != nil {
		published = p.PublishedAt.Format(catalogTimeFormat)
	}
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s\n",
		p.ID, esc(p.Title), esc(p.Excerpt), p.Status, p.AuthorID,
		esc(strings.Join(p.Tags, "|")), p.CreatedAt.Format(catalogTimeFormat), published)
}

func (s *CatalogSync) importCSV(ctx context.Context, log *slog.Logger, tableID sdk.TableID, csv, fileName string, columns []string) {
	log = log.With(logger.KeyCategory, "catalog", "table", int64(tableID), "file", fileName)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	resp, err := s.raw.UploadLocalFile(ctx, bytes.NewReader([]byte(csv)), fileName, []sdk.FileMeta{{Filename: fileName, Path: "/"}})
	if err != nil {
		log.Warn("catalog sync: upload failed", "err", err)
		return
	}
	if len(resp.ConnFileIds) == 0 {
		log.Warn("catalog sync: no conn_file_ids")
		return
	}

	_, err = s.sdk.ImportLocalFileToTable(ctx, &sdk.TableConfig{
		ConnFileIDs:      resp.ConnFileIds,
		NewTable:         false,
		DatabaseID:       s.databaseID,
		TableID:          tableID,
		IsColumnName:     false,
		RowStart:         1,
		Conflict:         1,
		ExistedTable:     columnMapping(columns),
		ExistedTableOpts: sdk.ExistedTableOptions{Method: sdk.ExistedTableOptionAppend},
	})
	if err != nil {
		log.Warn("catalog sync: import failed", "err", err)
		return
	}
	log.Info("catalog sync: ok")
}

// columnMapping maps CSV column i (1-based) onto the table column of the
// same name.
func columnMapping(columns []string) []sdk.FileAndTableColumnMapping {
	mapping := make([]sdk.FileAndTableColumnMapping, len(columns))
	for i, c := range columns {
		mapping[i] = sdk.FileAndTableColumnMapping{TableColumn: c, Column: c, ColNumInFile: int32(i + 1)}
	}
	return mapping
}

// Ask streams a Data Asking answer over the mirrored tables. think receives
// progress notes, flush the answer text.
func (s *CatalogSync) Ask(ctx context.Context, question string, flush, think func(string)) error {
	if !s.Ready() {
		return fmt.Errorf("catalog is not configured")
	}

	dbID := int(s.databaseID)
	stream, err := s.raw.AnalyzeDataStream(ctx, &sdk.DataAnalysisRequest{
		Question: question,
		Config: &sdk.DataAnalysisConfig{
			DataSource: &sdk.DataSource{
				Type: "specified",
				Tables: &sdk.DataAskingTableConfig{
					Type: "all", DbName: s.databaseName, DatabaseID: &dbID,
				},
			},
			DataScope: &sdk.DataScope{Type: "all"},
		},
	})
	if err != nil {
		return fmt.Errorf("data asking: %w", err)
	}
	defer stream.Close()

	for {
		event, err := stream.ReadEvent()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		if event == nil {
			continue
		}

		switch event.StepType {
		case "decomposition":
			think("質問を分析しています...")
		case "exploration":
			think("テーブル構造を確認しています...")
		case "agent_reasoning":
			if msg, ok := event.Data["message"].(string); ok {
				think(truncateRunes(msg, 80))
			}
		case "sql_generation":
			think("クエリを生成しています...")
		case "sql_execution":
			think("クエリを実行しました。結果をまとめています...")
		case "insight":
			flushInsightBlocks(event.Data, flush)
		}
	}
}

func flushInsightBlocks(data map[string]interface{}, flush func(string)) {
	blocks, ok := data["blocks"].([]interface{})
	if !ok {
		return
	}
	for _, b := range blocks {
		block, ok := b.(map[string]interface{})
		if !ok {
			continue
		}
		if text, ok := block["text"].(map[string]interface{}); ok {
			if content, ok := text["content"].(string); ok {
				flush(content)
			}
		}
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}

func esc(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
