package service

import (
	"context"
	"testing"
	"time"

	"salon-admin/internal/config"
	"salon-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestCatalogRows(t *testing.T) {
	at := time.Date(2024, 5, 2, 18, 30, 0, 0, time.UTC)
	r := &model.DailyReport{
		ID: "r1", StaffID: "s1", Staff: &model.Staff{Name: "佐藤"}, Date: "2024-05-02",
		Content: "音が苦手な子, \"静かに\"対応", CreatedAt: at,
	}
	assert.Equal(t, "r1,s1,佐藤,2024-05-02,\"音が苦手な子, \"\"静かに\"\"対応\",2024-05-02 18:30:00\n", reportRow(r))

	p := &model.BlogPost{
		ID: "p1", Title: "T", Status: model.StatusPublished, AuthorID: "a1",
		Tags: datatypes.JSONSlice[string]{"脱毛", "キッズ"}, CreatedAt: at, PublishedAt: &at,
	}
	assert.Equal(t, "p1,T,,published,a1,脱毛|キッズ,2024-05-02 18:30:00,2024-05-02 18:30:00\n", postRow(p))
}

func TestColumnMapping(t *testing.T) {
	m := columnMapping(ReportMirrorColumns)
	assert.Len(t, m, len(ReportMirrorColumns))
	assert.Equal(t, "id", m[0].TableColumn)
	assert.Equal(t, int32(1), m[0].ColNumInFile)
	assert.Equal(t, "report_date", m[3].Column)
	assert.Equal(t, int32(4), m[3].ColNumInFile)
	assert.Empty(t, columnMapping(nil))
}

func TestCatalogSyncDisabled(t *testing.T) {
	var s *CatalogSync
	assert.False(t, s.Ready())

	s = NewCatalogSync(nil, config.CatalogConfig{})
	assert.False(t, s.Ready())
	// no-ops without a provisioned catalog
	s.SyncDailyReport(context.Background(), nil, &model.DailyReport{ID: "r"})
	s.SyncBlogPost(context.Background(), nil, &model.BlogPost{ID: "p"})
	assert.Error(t, s.Ask(context.Background(), "q", func(string) {}, func(string) {}))
}
