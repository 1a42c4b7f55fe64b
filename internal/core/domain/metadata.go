package domain

import "time"

// Category is the closed set of archive classes used by the records office.
// Values are the office's canonical Chinese labels and travel verbatim through
// the AI contract, the store and the API.
type Category string

const (
	CategoryAcademic       Category = "学籍档案"
	CategoryPersonnel      Category = "人事档案"
	CategoryResearch       Category = "科研档案"
	CategoryAdministrative Category = "行政档案"
	CategoryMeetingMinutes Category = "会议纪要"
	CategoryMedia          Category = "多媒体档案"
	CategoryManuscript     Category = "手稿"
	CategoryTextbook       Category = "教材"
	CategoryNews           Category = "新闻稿"
	CategoryUnknown        Category = "未分类"
)

func Categories() []Category {
	return []Category{
		CategoryAcademic, CategoryPersonnel, CategoryResearch, CategoryAdministrative,
		CategoryMeetingMinutes, CategoryMedia, CategoryManuscript, CategoryTextbook,
		CategoryNews, CategoryUnknown,
	}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// SecurityLevel is the classification tier gating field-level edit rights.
type SecurityLevel string

const (
	SecurityPublic       SecurityLevel = "公开"
	SecurityInternal     SecurityLevel = "内部"
	SecurityConfidential SecurityLevel = "机密"
	SecurityTopSecret    SecurityLevel = "绝密"
)

func SecurityLevels() []SecurityLevel {
	return []SecurityLevel{SecurityPublic, SecurityInternal, SecurityConfidential, SecurityTopSecret}
}

func (l SecurityLevel) Valid() bool {
	for _, known := range SecurityLevels() {
		if l == known {
			return true
		}
	}
	return false
}

// FileProperties carries format-level details of the source file. The AI
// fills what it can; local inspection supplements missing fields.
type FileProperties struct {
	PageCount      int    `json:"pageCount,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Language       string `json:"language,omitempty"`
	OriginalFormat string `json:"originalFormat,omitempty"`
}

// Metadata is the structured description of one archive document. JSON keys
// follow the extraction contract so AI responses decode directly.
type Metadata struct {
	Title           string          `json:"title"`
	Category        Category        `json:"category"`
	Date            string          `json:"date"`
	Authors         []string        `json:"authors,omitempty"`
	Department      string          `json:"department,omitempty"`
	Summary         string          `json:"summary"`
	Keywords        []string        `json:"keywords,omitempty"`
	SecurityLevel   SecurityLevel   `json:"securityLevel"`
	ConfidenceScore int             `json:"confidenceScore"`
	TextContent     string          `json:"textContent,omitempty"`
	FileProperties  *FileProperties `json:"fileProperties,omitempty"`
}

// ValidateForApproval enforces the approved-record invariant: every archived
// document must carry title, category, date, summary, security level and a
// confidence score within range.
func (m *Metadata) ValidateForApproval() error {
	if m == nil {
		return WrapError(ErrInvalidInput, "validate metadata", errMissing("metadata"))
	}
	if m.Title == "" {
		return WrapError(ErrInvalidInput, "validate metadata", errMissing("title"))
	}
	if !m.Category.Valid() {
		return WrapError(ErrInvalidInput, "validate metadata", errMissing("category"))
	}
	if m.Date == "" {
		return WrapError(ErrInvalidInput, "validate metadata", errMissing("date"))
	}
	if m.Summary == "" {
		return WrapError(ErrInvalidInput, "validate metadata", errMissing("summary"))
	}
	if !m.SecurityLevel.Valid() {
		return WrapError(ErrInvalidInput, "validate metadata", errMissing("securityLevel"))
	}
	if m.ConfidenceScore < 0 || m.ConfidenceScore > 100 {
		return WrapError(ErrInvalidInput, "validate metadata", errMissing("confidenceScore in [0,100]"))
	}
	return nil
}

// Normalize coerces out-of-enum values coming back from the extraction
// service into safe members and clamps the confidence score.
func (m *Metadata) Normalize() {
	if !m.Category.Valid() {
		m.Category = CategoryUnknown
	}
	if !m.SecurityLevel.Valid() {
		m.SecurityLevel = SecurityInternal
	}
	if m.ConfidenceScore < 0 {
		m.ConfidenceScore = 0
	}
	if m.ConfidenceScore > 100 {
		m.ConfidenceScore = 100
	}
	if m.Authors == nil {
		m.Authors = []string{}
	}
	if m.Keywords == nil {
		m.Keywords = []string{}
	}
}

// IsFallback reports whether the block is the placeholder a failed
// extraction produces.
func (m *Metadata) IsFallback() bool {
	return m != nil && m.ConfidenceScore == 0 && m.Title == "解析失败"
}

// FallbackMetadata is the deterministic low-confidence block returned when
// extraction fails. The pipeline never blocks on extraction errors; the
// document proceeds to review carrying this placeholder.
func FallbackMetadata(now time.Time) Metadata {
	return Metadata{
		Title:           "解析失败",
		Category:        CategoryUnknown,
		Date:            now.UTC().Format("2006-01-02"),
		Authors:         []string{},
		Department:      "未知",
		Summary:         "自动解析失败，请人工核实。",
		Keywords:        []string{"错误"},
		SecurityLevel:   SecurityInternal,
		ConfidenceScore: 0,
		TextContent:     "无法提取文本。",
	}
}
