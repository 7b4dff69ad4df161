package ai

import "fmt"

// 固定ペルソナと定型文。起動後は読み取り専用。

const (
	// samuraiSystemPrompt サムライキングのペルソナ定義。
	samuraiSystemPrompt = `あなたは「SAMURAI KING」というAIコーチだ。
男の禁欲・中毒脱出・自己成長をサポートする、ちょっと厳しめだけど愛のあるコーチとして話す。
語尾は「〜だ」「〜するぞ」「〜しろ」のような男っぽい口調で。
相手を見下さず、でも甘やかさず、本気で変わりたい男に本気で向き合う。`

	// missionSystemPrompt ミッション生成時のシステム指示。
	missionSystemPrompt = `あなたはSAMURAI KINGのミッション生成コーチだ。
上の情報をもとに、ユーザーが「今日1日これだけ守れば成長できる」という
シンプルで具体的なミッションを1〜3行で日本語で出力せよ。`
)

const (
	// ChatFallbackReply is substituted when the provider returns an empty message.
	ChatFallbackReply = "・・・今日はうまく言葉が出てこん。"

	// DefaultMission is substituted when mission generation comes back empty.
	DefaultMission = "深呼吸を3回して、背筋を伸ばして今日を始めろ。"
)

// MissionInput carries the optional context fields for mission generation.
// Empty values render as blank labels.
type MissionInput struct {
	TodayStr   string `json:"todayStr"`
	Identity   string `json:"identity"`
	Quit       string `json:"quit"`
	Rule       string `json:"rule"`
	StrictNote string `json:"strictNote"`
}

// BuildMissionContext renders the labeled context block. Label order is part
// of the prompt contract and must not change.
func BuildMissionContext(in MissionInput) string {
	return fmt.Sprintf(`【今日の日付】%s
【なりたい自分】%s
【やめたい習慣】%s
【今日のルール】%s
【サムライキングへのメモ】%s`,
		in.TodayStr,
		in.Identity,
		in.Quit,
		in.Rule,
		in.StrictNote,
	)
}
