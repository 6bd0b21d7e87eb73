package generation

import (
	"fmt"
	"strings"
)

var toneLabels = map[Tone]string{
	ToneProfessional: "専門的で信頼できる",
	ToneFriendly:     "フレンドリーで親しみやすい",
	ToneCasual:       "カジュアルで読みやすい",
}

// BuildPrompt renders the prompt for opts.Template around source. The output
// depends only on its inputs.
func BuildPrompt(source string, opts Options) string {
	opts = opts.withDefaults()
	source = strings.TrimSpace(source)
	if opts.Template == TemplateOwnerMessage {
		m := opts.MonthLabel
		return fmt.Sprintf(ownerMessagePrompt, m, source, m)
	}
	return fmt.Sprintf(blogPostPrompt, source, opts.TargetLength, toneLabels[opts.Tone])
}

const blogPostPrompt = `あなたは脱毛サロン「Dupe＆more（デュープアンドモア）」のブログライターです。

【サロンのコンセプトと理念】
- 「諦めないで。一緒に、できる方法を見つけましょう。」
- 13歳の知的障害・自閉症の息子を持つ母親が経営者として運営
- 同じ想いを持つ母として、障害のあるお子さまの保護者に寄り添う
- 「普通の女の子と同じように」「普通の男の子と同じように」という思い
- 障害があっても「きれいになりたい」「楽になりたい」気持ちは同じ

【サロンのアプローチ】
- 嫌がることは絶対にしない
- じっと寝ていられなくても大丈夫（立ったままでも施術）
- 音や光が苦手なら事前に配慮
- 親御さんと相談しながら進める
- お子さまのペースで無理をしない
- 一人ひとりに合わせた方法を見つける

【実際の成果】
- 「多動だから絶対に無理」と思っていた保護者からも「できないと思っていたことができた！」の声
- 毎朝のヒゲ剃りが面倒で嫌がっていた男の子が楽になって喜んでいる
- 女の子が「なくなって嬉しい！女の子らしくなった！」と実感

以下のスタッフの日報をもとに、上記のコンセプトと理念に沿ったブログ記事を作成してください。

【日報内容】
%s

【要件】
- 文字数: %d文字程度
- トーン: %s
- 読者: 障害を持つお子さまの保護者の方々（特に「諦めかけている」「不安を抱えている」方々）
- 目的: 同じ立場の母親としての共感と、「できる方法がある」という希望を伝える
- 必ず含める要素: 保護者の不安への共感、実際の成功事例、お子さまのペースを大切にする姿勢

【出力形式】
以下のJSON形式で出力してください:
{
  "title": "ブログタイトル（30文字以内）",
  "content": "本文（HTML形式、段落は<p>タグで区切る）",
  "excerpt": "記事の要約（100文字以内）",
  "suggestedTags": ["タグ1", "タグ2", "タグ3"]
}

注意: JSON以外の文字は出力しないでください。
`

const ownerMessagePrompt = `あなたはサロンオーナーの広報ライターです。以下の月次日報データから、お客様向けのオーナーメッセージを生成してください。

【条件】
- 役割: サロンオーナーの広報ライター
- 目的: 日報から月次メッセージ(400〜600字程度)を作る
- トーン: 安心・謙虚・伴走・透明性
- 構成:
  1) ご挨拶（50〜80字）
  2) 今月の学び(要約3〜4件を再編集。具体は一般化)
  3) 初めての方向けのひとこと（不安の言語化→安心の提示）
- 禁止: 個人特定/医療断定/他店比較

【%sの日報データ】
%s

【出力形式】
JSONで以下の形式で出力してください：
{
  "title": "%sのオーナーメッセージ",
  "body_md": "Markdown形式の本文（400～600字）",
  "highlights": ["見出し1","見出し2"]
}

重要：JSONのみを出力し、他の文言は含めないでください。
`
