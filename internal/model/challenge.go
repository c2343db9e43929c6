package model

import (
	"encoding/json"
)

type ChallengeType string

const (
	BiasSwap        ChallengeType = "BIAS_SWAP"
	LogicPuzzle     ChallengeType = "LOGIC_PUZZLE"
	CounterArgument ChallengeType = "COUNTER_ARGUMENT"
	DataCheck       ChallengeType = "DATA_CHECK"
	Synthesis       ChallengeType = "SYNTHESIS"
)

type Difficulty string

const (
	Beginner     Difficulty = "BEGINNER"
	Intermediate Difficulty = "INTERMEDIATE"
	Advanced     Difficulty = "ADVANCED"
)

// DifficultyRank gives the ordinal position of a difficulty, used for
// adjacency checks in challenge scoring. Unknown values rank as beginner.
func DifficultyRank(d Difficulty) int {
	switch d {
	case Intermediate:
		return 1
	case Advanced:
		return 2
	default:
		return 0
	}
}

// swagger:model Challenge
type Challenge struct {
	BaseModel
	Type                 ChallengeType   `gorm:"size:50;index;not null" json:"type"`
	Difficulty           Difficulty      `gorm:"type:enum('BEGINNER','INTERMEDIATE','ADVANCED');default:'BEGINNER'" json:"difficulty"`
	Title                string          `gorm:"size:255;not null" json:"title"`
	Prompt               string          `gorm:"type:text" json:"prompt"`
	Content              json.RawMessage `gorm:"type:json" json:"content"`
	EstimatedTimeMinutes int             `gorm:"default:5" json:"estimatedTimeMinutes"`
	IsActive             bool            `gorm:"default:true;index" json:"isActive"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// BiasArticle is one article embedded in a BIAS_SWAP challenge payload.
type BiasArticle struct {
	Title        string  `json:"title"`
	Source       string  `json:"source"`
	URL          string  `json:"url"`
	BiasCategory string  `json:"biasCategory"`
	BiasRating   float64 `json:"biasRating"`
}

// ChallengeContent is the typed form of the free-form Content JSON.
type ChallengeContent struct {
	Articles  []BiasArticle `json:"articles"`
	Question  string        `json:"question,omitempty"`
	Options   []string      `json:"options,omitempty"`
	AnswerKey string        `json:"answerKey,omitempty"`
}

// ParseContent decodes the embedded content JSON once at the data boundary.
// Challenges without content yield an empty struct, not an error.
func (c *Challenge) ParseContent() (*ChallengeContent, error) {
	if len(c.Content) == 0 {
		return &ChallengeContent{}, nil
	}
	var content ChallengeContent
	if err := json.Unmarshal(c.Content, &content); err != nil {
		return nil, err
	}
	return &content, nil
}
