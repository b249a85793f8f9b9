package dto

import "studybuddy-be/internal/entity"

type BuildPackRequest struct {
	Title            string   `json:"title"`
	Url              string   `json:"url"`
	TextContent      string   `json:"textContent" validate:"required"`
	Headings         []string `json:"headings"`
	MetaDescription  string   `json:"metaDescription"`
	Language         string   `json:"language"`
	WordCount        int      `json:"wordCount" validate:"omitempty,min=0"`
	SelectionPreview string   `json:"selectionPreview"`
	Snippets         []string `json:"snippets"`
	QuestionCount    int      `json:"questionCount" validate:"omitempty,min=1,max=20"`
	Difficulty       string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

func (r *BuildPackRequest) ToCapture() entity.Capture {
	return entity.Capture{
		Title:            r.Title,
		URL:              r.Url,
		TextContent:      r.TextContent,
		Headings:         r.Headings,
		MetaDescription:  r.MetaDescription,
		Language:         r.Language,
		WordCount:        r.WordCount,
		SelectionPreview: r.SelectionPreview,
		Snippets:         r.Snippets,
	}
}

// BuildPackResponse returns the fast first version of the pack.
// UpgradePending tells the client whether improved artifacts may still
// arrive over the websocket.
type BuildPackResponse struct {
	Pack           *entity.StudyPack `json:"pack"`
	UpgradePending bool              `json:"upgradePending"`
}

type PackResponse struct {
	Pack *entity.StudyPack `json:"pack"`
}

type PackListResponse struct {
	Packs []*entity.StudyPack `json:"packs"`
	Total int                 `json:"total"`
}
