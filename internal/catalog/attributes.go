package catalog

// Category groups attribute keys for display.
type Category string

const (
	CategoryGenre       Category = "genre"
	CategoryVibe        Category = "vibe"
	CategoryPerformance Category = "performance"
	CategoryMeet        Category = "meet"
)

var Categories = []Category{CategoryGenre, CategoryVibe, CategoryPerformance, CategoryMeet}

// Attribute is one survey score key a member can be tagged with.
type Attribute struct {
	Key      string            `yaml:"key" json:"key" validate:"required"`
	Category Category          `yaml:"category" json:"category" validate:"oneof=genre vibe performance meet"`
	Labels   map[string]string `yaml:"labels" json:"labels" validate:"required"`
}

func attr(key string, c Category, ja, en string) Attribute {
	return Attribute{Key: key, Category: c, Labels: map[string]string{"ja": ja, "en": en}}
}

// DefaultAttributes returns the attribute set used when a catalog file does
// not define its own. Face types are filed under vibe.
func DefaultAttributes() []Attribute {
	return []Attribute{
		attr("genre_orthodox", CategoryGenre, "王道", "Orthodox"),
		attr("genre_denpa", CategoryGenre, "電波", "Denpa"),
		attr("genre_loud", CategoryGenre, "ラウド", "Loud"),
		attr("genre_alt", CategoryGenre, "オルタナ", "Alternative"),
		attr("genre_dark", CategoryGenre, "ダーク", "Dark"),
		attr("genre_gothic", CategoryGenre, "ゴシック", "Gothic"),
		attr("genre_cyber", CategoryGenre, "サイバー", "Cyber"),
		attr("genre_magical", CategoryGenre, "マジカル", "Magical"),
		attr("genre_yami", CategoryGenre, "病み", "Yami"),

		attr("cute", CategoryVibe, "キュート", "Cute"),
		attr("squirrel", CategoryVibe, "リス系", "Squirrel type"),
		attr("cool", CategoryVibe, "クール", "Cool"),
		attr("pure", CategoryVibe, "ピュア", "Pure"),
		attr("sexy", CategoryVibe, "セクシー", "Sexy"),
		attr("elegant", CategoryVibe, "エレガント", "Elegant"),
		attr("healing", CategoryVibe, "癒し", "Healing"),
		attr("youthful", CategoryVibe, "フレッシュ", "Fresh"),
		attr("mysterious", CategoryVibe, "ミステリアス", "Mysterious"),
		attr("unique", CategoryVibe, "個性派", "Unique"),
		attr("idol_kpop", CategoryVibe, "K-POPアイドル", "K-pop idol"),
		attr("idol_polished", CategoryVibe, "洗練アイドル", "Polished idol"),
		attr("face_cat", CategoryVibe, "猫顔", "Cat face"),
		attr("face_dog", CategoryVibe, "犬顔", "Dog face"),
		attr("face_rabbit", CategoryVibe, "ウサギ顔", "Rabbit face"),
		attr("face_raccoon_dog", CategoryVibe, "タヌキ顔", "Raccoon dog face"),
		attr("face_fox", CategoryVibe, "キツネ顔", "Fox face"),
		attr("face_squirrel", CategoryVibe, "リス顔", "Squirrel face"),
		attr("face_chick", CategoryVibe, "ひよこ顔", "Chick face"),
		attr("face_bird", CategoryVibe, "小鳥顔", "Bird face"),

		attr("dance", CategoryPerformance, "ダンス", "Dance"),
		attr("vocal", CategoryPerformance, "ボーカル", "Vocal"),
		attr("expression", CategoryPerformance, "表現力", "Expression"),
		attr("energy", CategoryPerformance, "エナジー", "Energy"),
		attr("stability", CategoryPerformance, "安定感", "Stability"),
		attr("growth", CategoryPerformance, "成長性", "Growth"),
		attr("presence", CategoryPerformance, "存在感", "Presence"),
		attr("facial", CategoryPerformance, "表情管理", "Facial control"),
		attr("charisma", CategoryPerformance, "カリスマ", "Charisma"),

		attr("comfort", CategoryMeet, "安心感", "Comfort"),
		attr("cheer", CategoryMeet, "わくわく", "Excitement"),
		attr("charming", CategoryMeet, "愛嬌", "Charm"),
		attr("calm", CategoryMeet, "穏やか", "Calm"),
		attr("dry", CategoryMeet, "ドライ", "Dry"),
		attr("kind", CategoryMeet, "優しさ", "Kindness"),
		attr("talk", CategoryMeet, "トーク力", "Talk"),
		attr("recognition", CategoryMeet, "認知度", "Recognition"),
		attr("closeness", CategoryMeet, "距離感", "Closeness"),
		attr("social", CategoryMeet, "社交性", "Sociability"),
		attr("gap", CategoryMeet, "ギャップ", "Gap"),
	}
}
