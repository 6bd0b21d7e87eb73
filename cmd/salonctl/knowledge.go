package main

import (
	"context"
	"fmt"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// salonKnowledge teaches Data Asking the vocabulary of the mirror tables.
var salonKnowledge = []sdk.NL2SQLKnowledgeCreateRequest{
	{Type: "glossary", Key: "日報", Value: []string{"daily_reportsテーブルの1行。スタッフがその日の業務や気づきを書いたもの"}},
	{Type: "glossary", Key: "ブログ記事", Value: []string{"blog_postsテーブルの1行。日報をもとに作成されたサロンのブログ記事"}},
	{Type: "glossary", Key: "公開済み", Value: []string{"blog_posts.status = 'published' の記事"}},
	{Type: "glossary", Key: "下書き", Value: []string{"blog_posts.status = 'draft' の記事"}},

	{Type: "synonyms", Key: "スタッフ/担当者/誰/名前", Value: []string{"日報を書いたスタッフの名前"}, AssociateTables: []string{"daily_reports,staff_name"}},
	{Type: "synonyms", Key: "日付/いつ/何日", Value: []string{"日報の対象日"}, AssociateTables: []string{"daily_reports,report_date"}},
	{Type: "synonyms", Key: "内容/何をした/出来事", Value: []string{"日報本文"}, AssociateTables: []string{"daily_reports,content"}},
	{Type: "synonyms", Key: "タグ/カテゴリ", Value: []string{"記事のタグ（| 区切り）"}, AssociateTables: []string{"blog_posts,tags"}},

	{Type: "logic", Key: "今月は当月1日から翌月1日未満、先月は前月1日から当月1日未満", Value: []string{"月の範囲の計算ルール"}},
	{Type: "logic", Key: "記事の公開数はpublished_atがNULLでない行を数える", Value: []string{"公開数の数え方"}},
	{Type: "logic", Key: "blog_postsは保存と公開のたびに行が追記される。同じidにstatus='published'の行があれば公開済みとして扱う", Value: []string{"ミラーは追記専用"}},

	{Type: "case_library", Key: "先月いちばん日報を書いたスタッフは？", Value: []string{"SELECT staff_name, COUNT(*) AS reports FROM daily_reports WHERE report_date >= DATE_FORMAT(CURDATE() - INTERVAL 1 MONTH, '%Y-%m-01') AND report_date < DATE_FORMAT(CURDATE(), '%Y-%m-01') GROUP BY staff_name ORDER BY reports DESC LIMIT 1"}},
	{Type: "case_library", Key: "今月公開したブログ記事は？", Value: []string{"SELECT DISTINCT id, title, published_at FROM blog_posts WHERE published_at >= DATE_FORMAT(CURDATE(), '%Y-%m-01') ORDER BY published_at"}},
	{Type: "case_library", Key: "今週の日報を日付ごとに数えて", Value: []string{"SELECT report_date, COUNT(*) AS submitted FROM daily_reports WHERE report_date >= DATE_SUB(CURDATE(), INTERVAL WEEKDAY(CURDATE()) DAY) GROUP BY report_date ORDER BY report_date"}},
}

func initKnowledge(ctx context.Context, client *sdk.RawClient) error {
	for _, k := range salonKnowledge {
		resp, err := client.CreateKnowledge(ctx, &k)
		if err != nil {
			if isDuplicate(err) {
				fmt.Printf("%s knowledge %s/%s exists, skipping\n", warnMark, k.Type, k.Key)
				continue
			}
			return fmt.Errorf("create knowledge %s: %w", k.Key, err)
		}
		fmt.Printf("%s knowledge %s/%s (id %v)\n", okMark, k.Type, k.Key, resp.ID)
	}
	return nil
}
