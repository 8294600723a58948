// Package keywords holds the bounded vocabularies every extractor matches
// against. The catalog is an explicit value passed into parsing, never
// hidden global state, so tests and deployments can substitute
// vocabularies deterministically.
package keywords

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ktanaka/notices-tracker/constants"
)

// Catalog is the full keyword vocabulary for one deployment.
type Catalog struct {
	// Meetings matches titles of meeting-like notices.
	Meetings []string `yaml:"meetings"`
	// Urgency raises activity priority when present.
	Urgency []string `yaml:"urgency"`
	// Homework triggers splitting out a homework sub-task.
	Homework []string `yaml:"homework"`
	// Subjects infers a study tag on homework activities.
	Subjects []string `yaml:"subjects"`
	// Locations are venue names matched as substrings anywhere in the text.
	Locations []string `yaml:"locations"`
	// LocationHeaders introduce a venue value on the same line (場所：...).
	LocationHeaders []string `yaml:"location_headers"`
	// ItemHeaders introduce a list section (持ち物：...).
	ItemHeaders []string `yaml:"item_headers"`
	// NoteHeaders introduce caveat blocks (注意事項...).
	NoteHeaders []string `yaml:"note_headers"`
	// DueMarkers before a date mark it as a due date (提出日, 締切...).
	DueMarkers []string `yaml:"due_markers"`
	// DueSuffixes after a date mark it as a due date (まで).
	DueSuffixes []string `yaml:"due_suffixes"`
	// RangeMarkers between two times mark the second as an end time.
	RangeMarkers []string `yaml:"range_markers"`
	// Items maps item categories to their noun vocabularies.
	Items map[constants.ItemCategory][]string `yaml:"items"`
}

// Default returns the built-in vocabulary for Japanese school and
// household notices.
func Default() Catalog {
	return Catalog{
		Meetings: []string{"保護者会", "懇談会", "説明会", "面談", "会議", "総会", "PTA"},
		Urgency:  []string{"至急", "緊急", "重要", "必ず"},
		Homework: []string{"宿題", "課題", "提出"},
		Subjects: []string{"漢字", "国語", "算数", "数学", "理科", "社会", "英語", "音楽", "図工", "書写"},
		Locations: []string{
			"体育館", "校庭", "教室", "音楽室", "図書室", "理科室", "家庭科室",
			"視聴覚室", "多目的室", "運動場", "講堂", "プール", "昇降口",
			"公民館", "市民会館", "公園", "上野動物園", "動物園", "水族館", "博物館", "美術館",
		},
		LocationHeaders: []string{"集合場所", "場所", "会場"},
		ItemHeaders:     []string{"持ち物", "持参物", "用意するもの", "内容"},
		NoteHeaders:     []string{"注意事項", "注意", "備考", "お願い"},
		DueMarkers:      []string{"提出日", "提出", "締切", "締め切り", "〆切", "期限"},
		DueSuffixes:     []string{"まで"},
		RangeMarkers:    []string{"〜", "～", "-", "まで", "より", "から"},
		Items: map[constants.ItemCategory][]string{
			constants.ItemBelongings: {
				"水筒", "帽子", "タオル", "ハンカチ", "ティッシュ", "レジャーシート",
				"雨具", "傘", "リュック", "ビニール袋", "軍手",
			},
			constants.ItemMaterials: {
				"練習帳", "ノート", "教科書", "筆箱", "鉛筆", "えんぴつ", "消しゴム",
				"定規", "ドリル", "プリント", "絵の具", "習字道具", "のり", "はさみ",
			},
			constants.ItemClothing: {
				"体操服", "体操着", "上履き", "運動靴", "靴下", "ジャージ", "赤白帽", "エプロン",
			},
			constants.ItemFood: {
				"弁当", "お弁当", "おやつ", "飲み物", "お茶", "おにぎり",
			},
			constants.ItemDocuments: {
				"申込書", "同意書", "健康調査票", "連絡帳", "封筒", "返信用封筒", "保険証",
			},
		},
	}
}

// LoadFile reads a YAML catalog from path, layered over the defaults:
// sections present in the file replace the built-in vocabulary,
// omitted sections keep it.
func LoadFile(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read keyword catalog: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode keyword catalog: %w", err)
	}
	return c, nil
}

// ClassifyItem returns the category whose vocabulary matches the noun,
// scanning categories in fixed priority order. Unmatched nouns fall
// into ItemOther.
func (c Catalog) ClassifyItem(noun string) (constants.ItemCategory, bool) {
	for _, cat := range constants.ItemCategories() {
		for _, term := range c.Items[cat] {
			if term != "" && strings.Contains(noun, term) {
				return cat, true
			}
		}
	}
	return constants.ItemOther, false
}

// ContainsAny reports whether s contains any of the given terms.
func ContainsAny(s string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}
