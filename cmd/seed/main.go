package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/imperiopizzas/imperio-backend/config"
	"github.com/imperiopizzas/imperio-backend/internal/db"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <menu.xlsx>")
	}

	filePath := os.Args[1]

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

	fmt.Printf("Reading menu workbook: %s\n", filePath)
	menu, err := readMenuFile(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d\n", len(menu))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	result, err := importMenu(context.Background(), db.GetDB(), menu)
	if err != nil {
		log.Fatal("Failed to import menu:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Created: %d\n", result.Created)
	fmt.Printf("  Skipped (slug exists): %d\n", result.Skipped)
}
