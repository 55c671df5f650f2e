package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/RenCostamagna/comidita-backend/config"
	"github.com/RenCostamagna/comidita-backend/internal/app/model"
	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/internal/app/service"
	"github.com/RenCostamagna/comidita-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Importa lugares desde un XLSX con columnas:
// google_place_id | nombre | dirección | latitud | longitud | teléfono | sitio web | categoría
// Si google_place_id viene vacío se genera un ID provisorio.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
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

	// La escalera de logros también se siembra acá, por si el server
	// todavía no corrió las migraciones
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	placeRepo := repository.NewPlaceRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	places, err := readPlacesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total places to import: %d\n", len(places))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := placeRepo.BulkCreate(places, batchSize); err != nil {
		log.Fatal("Failed to bulk create places:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total places imported: %d\n", len(places))
}

func readPlacesFromXLSX(filePath string) ([]model.Place, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var places []model.Place
	seen := make(map[string]bool)
	skippedCount := 0
	invalidCoordCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 5 {
			skippedCount++
			continue
		}

		googlePlaceID := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		address := strings.TrimSpace(row[2])
		latitudeStr := strings.TrimSpace(row[3])
		longitudeStr := strings.TrimSpace(row[4])

		phone := ""
		if len(row) > 5 {
			phone = strings.TrimSpace(row[5])
		}
		website := ""
		if len(row) > 6 {
			website = strings.TrimSpace(row[6])
		}
		category := model.Category("")
		if len(row) > 7 {
			category = model.Category(strings.ToLower(strings.TrimSpace(row[7])))
			if category != "" && !model.IsValidCategory(category) {
				skippedCount++
				continue
			}
		}

		if name == "" || address == "" {
			skippedCount++
			continue
		}

		lat, errLat := strconv.ParseFloat(latitudeStr, 64)
		lng, errLng := strconv.ParseFloat(longitudeStr, 64)
		if errLat != nil || errLng != nil || lat == 0 || lng == 0 {
			invalidCoordCount++
			skippedCount++
			continue
		}

		// Lugares cargados a mano, sin referencia en Google Places
		if googlePlaceID == "" {
			googlePlaceID = service.TemporaryPlaceID()
		}

		// Duplicados dentro del mismo archivo
		key := googlePlaceID
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		places = append(places, model.Place{
			GooglePlaceID: googlePlaceID,
			Name:          name,
			Address:       address,
			Latitude:      lat,
			Longitude:     lng,
			Phone:         phone,
			Website:       website,
			Category:      category,
		})

		if len(places)%500 == 0 {
			fmt.Printf("Processed %d places...\n", len(places))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid places: %d\n", len(places))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with invalid coordinates: %d\n", invalidCoordCount)

	return places, nil
}
