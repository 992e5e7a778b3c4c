package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/arch-spatula/jmc/config"
	"github.com/arch-spatula/jmc/internal/app/repository"
	"github.com/arch-spatula/jmc/internal/app/service"
	"github.com/arch-spatula/jmc/internal/db"
	"github.com/arch-spatula/jmc/internal/workbook"
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [-y]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "-y"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	records, err := workbook.Decode(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total restaurants to import: %d\n", len(records))

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	restaurantService := service.NewRestaurantService(repository.NewRestaurantRepository(db.GetDB()), nil)
	result, err := restaurantService.Import(context.Background(), records)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Printf("Import complete: %d created, %d updated\n", result.Created, result.Updated+result.Upserted)
}
