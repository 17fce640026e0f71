package main

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Workbook layout. Every sheet starts with a header row.
//
//	Products: Category | Name | Slug | Description | Serves | Base price | Image URL | Active
//	Sizes:    Product slug | Name | Price
//	Flavors:  Product slug | Name | Extra price
//	Addons:   Product slug | Name | Price
const (
	productsSheet = "Products"
	sizesSheet    = "Sizes"
	flavorsSheet  = "Flavors"
	addonsSheet   = "Addons"
)

type menuEntry struct {
	Category string
	Product  model.Product
}

type importResult struct {
	Created int
	Skipped int
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

func readMenuFile(path string) ([]menuEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()
	return readMenu(f)
}

func readMenuReader(r io.Reader) ([]menuEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()
	return readMenu(f)
}

func readMenu(f *excelize.File) ([]menuEntry, error) {
	rows, err := f.GetRows(productsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", productsSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no products found in %s sheet", productsSheet)
	}

	var entries []menuEntry
	seen := make(map[string]bool)
	positions := make(map[string]int)

	for i, row := range rows[1:] {
		line := i + 2
		category := cell(row, 0)
		name := cell(row, 1)
		if category == "" || name == "" {
			fmt.Printf("  skipping %s row %d: category and name are required\n", productsSheet, line)
			continue
		}

		slug := cell(row, 2)
		if slug == "" {
			slug = generateSlug(name)
		}
		if seen[slug] {
			return nil, fmt.Errorf("%s row %d: duplicate slug %q", productsSheet, line, slug)
		}
		seen[slug] = true

		basePrice, err := parsePrice(cell(row, 5))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", productsSheet, line, err)
		}

		serves := 1
		if raw := cell(row, 4); raw != "" {
			if serves, err = strconv.Atoi(raw); err != nil || serves < 1 {
				return nil, fmt.Errorf("%s row %d: invalid serves %q", productsSheet, line, raw)
			}
		}

		positions[category]++
		entries = append(entries, menuEntry{
			Category: category,
			Product: model.Product{
				Name:         name,
				Slug:         slug,
				Description:  cell(row, 3),
				ServesPeople: serves,
				BasePrice:    basePrice,
				ImageURL:     cell(row, 6),
				Position:     positions[category],
				Active:       parseActive(cell(row, 7)),
			},
		})
	}
	bySlug := make(map[string]*model.Product, len(entries))
	for i := range entries {
		bySlug[entries[i].Product.Slug] = &entries[i].Product
	}

	err = readOptions(f, sizesSheet, bySlug, func(p *model.Product, name string, price decimal.Decimal) {
		p.Sizes = append(p.Sizes, model.ProductSize{Name: name, Price: price, Position: len(p.Sizes) + 1})
	})
	if err != nil {
		return nil, err
	}
	err = readOptions(f, flavorsSheet, bySlug, func(p *model.Product, name string, price decimal.Decimal) {
		p.Flavors = append(p.Flavors, model.ProductFlavor{Name: name, ExtraPrice: price, Position: len(p.Flavors) + 1})
	})
	if err != nil {
		return nil, err
	}
	err = readOptions(f, addonsSheet, bySlug, func(p *model.Product, name string, price decimal.Decimal) {
		p.Addons = append(p.Addons, model.ProductAddon{Name: name, Price: price, Position: len(p.Addons) + 1})
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// readOptions reads an optional option sheet. A missing sheet means the
// menu has no options of that kind.
func readOptions(f *excelize.File, sheet string, bySlug map[string]*model.Product, add func(*model.Product, string, decimal.Decimal)) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read %s sheet: %w", sheet, err)
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		slug, name := cell(row, 0), cell(row, 1)
		if slug == "" && name == "" {
			continue
		}
		product, ok := bySlug[slug]
		if !ok {
			return fmt.Errorf("%s row %d: unknown product %q", sheet, i+1, slug)
		}
		if name == "" {
			return fmt.Errorf("%s row %d: option name is required", sheet, i+1)
		}
		price, err := parsePrice(cell(row, 2))
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		add(product, name, price)
	}
	return nil
}

// importMenu stores every product whose slug is not taken yet, all in one
// transaction.
func importMenu(ctx context.Context, conn *gorm.DB, entries []menuEntry) (importResult, error) {
	var result importResult

	categoryOrder := make(map[string]int)
	for _, e := range entries {
		if _, ok := categoryOrder[e.Category]; !ok {
			categoryOrder[e.Category] = len(categoryOrder) + 1
		}
	}

	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRepo := repository.NewProductRepository(tx)

		for i := range entries {
			entry := &entries[i]

			var existing int64
			if err := tx.Model(&model.Product{}).Where("slug = ?", entry.Product.Slug).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				result.Skipped++
				continue
			}

			category, err := productRepo.FindOrCreateCategory(ctx, entry.Category, categoryOrder[entry.Category])
			if err != nil {
				return err
			}
			entry.Product.CategoryID = category.ID
			if err := productRepo.Create(ctx, &entry.Product); err != nil {
				return fmt.Errorf("failed to create %s: %w", entry.Product.Slug, err)
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return importResult{}, err
	}
	return result, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parsePrice accepts "35.90", "35,90" and "R$ 35,90".
func parsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", raw)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", raw)
	}
	return price.Round(2), nil
}

func parseActive(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "yes", "y", "true", "1", "sim", "s":
		return true
	}
	return false
}

func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a",
		"é", "e", "ê", "e", "í", "i",
		"ó", "o", "ô", "o", "õ", "o", "ú", "u", "ç", "c",
	).Replace(slug)
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
