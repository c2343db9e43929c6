package model

// Bias categories on the -3..+3 political-lean scale.
const (
	BiasFarLeft   = "FAR_LEFT"
	BiasLeft      = "LEFT"
	BiasLeanLeft  = "LEAN_LEFT"
	BiasCenter    = "CENTER"
	BiasLeanRight = "LEAN_RIGHT"
	BiasRight     = "RIGHT"
	BiasFarRight  = "FAR_RIGHT"
)

// BiasRatingFor maps a category label to its numeric rating.
func BiasRatingFor(category string) float64 {
	switch category {
	case BiasFarLeft:
		return -3
	case BiasLeft:
		return -2
	case BiasLeanLeft:
		return -1
	case BiasLeanRight:
		return 1
	case BiasRight:
		return 2
	case BiasFarRight:
		return 3
	default:
		return 0
	}
}

// ReadingActivity 记录用户的阅读行为，仅追加
// swagger:model ReadingActivity
type ReadingActivity struct {
	BaseModel
	UserID     uint    `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ArticleID  string  `gorm:"size:100" json:"articleId"`
	Source     string  `gorm:"size:255" json:"source"`
	BiasRating float64 `gorm:"not null" json:"biasRating"`
}

func (ReadingActivity) TableName() string {
	return "reading_activities"
}
