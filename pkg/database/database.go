package database

import (
	"fmt"
	"log"

	"echobreak_backend/internal/config"
	"echobreak_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.ChallengeSubmission{},
		&model.ReadingActivity{},
		&model.LearningSession{},
		&model.DailyChallengeSelection{},
		&model.EchoScoreSnapshot{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedChallenges(db)

	return db, nil
}

// seedChallenges inserts a starter catalog on an empty database so the
// selection path has candidates from the first run.
func seedChallenges(db *gorm.DB) {
	var count int64
	db.Model(&model.Challenge{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Challenge{
		{
			Type:                 model.BiasSwap,
			Difficulty:           model.Beginner,
			Title:                "Same story, two rooms",
			Prompt:               "Read both framings of the same event and identify which claims survive the swap.",
			Content:              []byte(`{"articles":[{"title":"Policy win for workers","source":"Daily Ledger","biasCategory":"LEFT","biasRating":-2},{"title":"Policy burdens small business","source":"Market Watchman","biasCategory":"RIGHT","biasRating":2}],"question":"Which factual claims appear in both articles?"}`),
			EstimatedTimeMinutes: 5,
			IsActive:             true,
		},
		{
			Type:                 model.LogicPuzzle,
			Difficulty:           model.Beginner,
			Title:                "Spot the false dilemma",
			Prompt:               "Pick the statement that presents only two options when more exist.",
			Content:              []byte(`{"question":"Which argument is a false dilemma?","options":["Either we ban it or society collapses","The study sampled 40 people","Critics and supporters both cite costs"],"answerKey":"0"}`),
			EstimatedTimeMinutes: 3,
			IsActive:             true,
		},
		{
			Type:                 model.CounterArgument,
			Difficulty:           model.Intermediate,
			Title:                "Steelman the other side",
			Prompt:               "Write the strongest version of the argument you disagree with.",
			EstimatedTimeMinutes: 8,
			IsActive:             true,
		},
		{
			Type:                 model.DataCheck,
			Difficulty:           model.Intermediate,
			Title:                "Chart crimes",
			Prompt:               "Find what the truncated axis hides.",
			EstimatedTimeMinutes: 4,
			IsActive:             true,
		},
		{
			Type:                 model.Synthesis,
			Difficulty:           model.Advanced,
			Title:                "Write the wire report",
			Prompt:               "Merge three slanted accounts into one neutral summary.",
			EstimatedTimeMinutes: 12,
			IsActive:             true,
		},
	}
	for i := range defaults {
		db.Create(&defaults[i])
	}
}
