package model

// HeroData is the content of hero.json.
type HeroData struct {
	Eyebrow string           `json:"eyebrow"`
	Title   string           `json:"title"`
	Lead    string           `json:"lead"`
	Buttons List[HeroButton] `json:"buttons"`
	Meta    List[HeroMeta]   `json:"meta"`
	Slides  List[HeroSlide]  `json:"slides"`
}

// HeroButton is a call-to-action link.
type HeroButton struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	Variant string `json:"variant"`
}

// HeroMeta is a label/value pair shown under the hero text.
type HeroMeta struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// HeroSlide is an image in the hero slider.
type HeroSlide struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}
