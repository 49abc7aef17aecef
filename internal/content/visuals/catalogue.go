package visuals

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// TagGeneric marks images usable for any topic; the selector pads with them.
const TagGeneric = "generic"

// Image is one pre-catalogued visual aid. Tags mix topic ids and interest ids.
type Image struct {
	ID      string   `json:"id"`
	URL     string   `json:"url"`
	Caption string   `json:"caption"`
	Tags    []string `json:"tags"`
}

// Catalogue is an ordered, read-only image table. Insertion order is the
// selector's tie-break, so order is preserved exactly as loaded.
type Catalogue struct {
	images []Image
}

// LoadCatalogue reads a JSON catalogue file. An empty path yields the
// built-in default catalogue.
func LoadCatalogue(path string) (*Catalogue, error) {
	if path == "" {
		return NewCatalogue(defaultImages), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image catalogue: %w", err)
	}
	var images []Image
	if err := sonic.Unmarshal(raw, &images); err != nil {
		return nil, fmt.Errorf("parse image catalogue: %w", err)
	}
	return NewCatalogue(images), nil
}

func NewCatalogue(images []Image) *Catalogue {
	copied := make([]Image, len(images))
	copy(copied, images)
	return &Catalogue{images: copied}
}

func (c *Catalogue) Images() []Image { return c.images }

var defaultImages = []Image{
	{ID: "img-mirror-hello", URL: "https://static.preptalk.hk/visuals/mirror-hello.png", Caption: "打招呼練習", Tags: []string{"self-introduction", "manners"}},
	{ID: "img-name-card", URL: "https://static.preptalk.hk/visuals/name-card.png", Caption: "我的名牌", Tags: []string{"self-introduction", TagGeneric}},
	{ID: "img-lego-tower", URL: "https://static.preptalk.hk/visuals/lego-tower.png", Caption: "砌積木", Tags: []string{"self-introduction", "interests", "lego"}},
	{ID: "img-dino-park", URL: "https://static.preptalk.hk/visuals/dino-park.png", Caption: "恐龍公園", Tags: []string{"interests", "observation", "dinosaurs"}},
	{ID: "img-piano-girl", URL: "https://static.preptalk.hk/visuals/piano-girl.png", Caption: "彈鋼琴", Tags: []string{"interests", "music"}},
	{ID: "img-football-field", URL: "https://static.preptalk.hk/visuals/football-field.png", Caption: "踢足球", Tags: []string{"interests", "sports"}},
	{ID: "img-drawing-desk", URL: "https://static.preptalk.hk/visuals/drawing-desk.png", Caption: "畫畫", Tags: []string{"interests", "drawing", TagGeneric}},
	{ID: "img-family-dinner", URL: "https://static.preptalk.hk/visuals/family-dinner.png", Caption: "一家人食晚飯", Tags: []string{"family"}},
	{ID: "img-grandma-walk", URL: "https://static.preptalk.hk/visuals/grandma-walk.png", Caption: "同嫲嫲散步", Tags: []string{"family"}},
	{ID: "img-school-run", URL: "https://static.preptalk.hk/visuals/school-run.png", Caption: "返學路上", Tags: []string{"family", "school-life"}},
	{ID: "img-fruit-stall", URL: "https://static.preptalk.hk/visuals/fruit-stall.png", Caption: "生果檔", Tags: []string{"observation"}},
	{ID: "img-playground-scene", URL: "https://static.preptalk.hk/visuals/playground-scene.png", Caption: "遊樂場一角", Tags: []string{"observation", "scenarios", TagGeneric}},
	{ID: "img-rainy-street", URL: "https://static.preptalk.hk/visuals/rainy-street.png", Caption: "落雨的街道", Tags: []string{"observation"}},
	{ID: "img-crying-friend", URL: "https://static.preptalk.hk/visuals/crying-friend.png", Caption: "同學喊緊", Tags: []string{"scenarios"}},
	{ID: "img-lost-mall", URL: "https://static.preptalk.hk/visuals/lost-mall.png", Caption: "商場走失", Tags: []string{"scenarios"}},
	{ID: "img-broken-toy", URL: "https://static.preptalk.hk/visuals/broken-toy.png", Caption: "玩具爛咗", Tags: []string{"scenarios"}},
	{ID: "img-classroom-circle", URL: "https://static.preptalk.hk/visuals/classroom-circle.png", Caption: "圍圈上堂", Tags: []string{"school-life"}},
	{ID: "img-reading-corner", URL: "https://static.preptalk.hk/visuals/reading-corner.png", Caption: "圖書角", Tags: []string{"school-life", "reading", TagGeneric}},
	{ID: "img-greeting-bow", URL: "https://static.preptalk.hk/visuals/greeting-bow.png", Caption: "有禮貌咁打招呼", Tags: []string{"manners"}},
	{ID: "img-thank-you", URL: "https://static.preptalk.hk/visuals/thank-you.png", Caption: "講多謝", Tags: []string{"manners", TagGeneric}},
}
