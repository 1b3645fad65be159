package model

// LangMix is the detected script/language composition of an inquiry
type LangMix string

const (
	LangEnglish  LangMix = "english"
	LangHindi    LangMix = "hindi"
	LangHinglish LangMix = "hinglish"
	LangMixed    LangMix = "mixed"
)

// InquiryText is a decoded, normalized inquiry. Immutable once built.
type InquiryText struct {
	Raw       []byte  `json:"-"`
	Text      string  `json:"text"`
	Encoding  string  `json:"encoding"`
	Lang      LangMix `json:"lang"`
	Truncated bool    `json:"truncated,omitempty"` // Text was cut to the maximum length
}

// Inquiry is one unit of input: an id (usually the file name) and its raw bytes
type Inquiry struct {
	ID   string
	Path string
	Raw  []byte
	Err  error // Set when the source could not be read; the inquiry fails
}
