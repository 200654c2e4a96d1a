package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Prints the size, age and record count of every snapshot row, and any
// quarantined copies left behind by a failed load.
func main() {
	godotenv.Load()
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("PG_HOST"), os.Getenv("PG_PORT"), os.Getenv("PG_USERNAME"), os.Getenv("PG_PASSWORD"), os.Getenv("PG_DATABASE"))
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Println("DB Error:", err)
		return
	}

	var rows []struct {
		Key       string
		Data      []byte
		UpdatedAt time.Time
	}
	if err := db.Table("snapshots").Order("key").Find(&rows).Error; err != nil {
		fmt.Println("Query Error:", err)
		return
	}

	fmt.Println("=== SNAPSHOTS ===")
	for _, r := range rows {
		var records []json.RawMessage
		count := "malformed"
		if json.Unmarshal(r.Data, &records) == nil {
			count = fmt.Sprintf("%d records", len(records))
		}
		fmt.Printf("%-40s %7d bytes  %-12s  updated %s\n", r.Key, len(r.Data), count, r.UpdatedAt.Format(time.RFC3339))
	}
}
