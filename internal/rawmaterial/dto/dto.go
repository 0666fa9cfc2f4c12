package dto

import "github.com/wa-thone-kyaw/ano-backend/internal/model"

const (
	SourceLocal   = "local"
	SourceForeign = "foreign"
)

// RawMaterialResponse repeats source as localOrForeign, the name clients send it under.
type RawMaterialResponse struct {
	model.RawMaterial
	LocalOrForeign string `json:"localOrForeign"`
}

func NewRawMaterialResponse(m model.RawMaterial) RawMaterialResponse {
	return RawMaterialResponse{RawMaterial: m, LocalOrForeign: m.Source}
}
